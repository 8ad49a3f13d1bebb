package iflytek

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	uploadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "a2t",
		Subsystem: "iflytek",
		Name:      "uploads_total",
		Help:      "Audio files accepted by the upload endpoint.",
	})

	uploadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "a2t",
		Subsystem: "iflytek",
		Name:      "upload_failures_total",
		Help:      "Upload calls that ended in an error.",
	})

	pollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "a2t",
		Subsystem: "iflytek",
		Name:      "status_queries_total",
		Help:      "Status queries issued while awaiting results.",
	})

	ordersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "a2t",
		Subsystem: "iflytek",
		Name:      "orders_total",
		Help:      "Orders by terminal outcome.",
	}, []string{"outcome"})
)
