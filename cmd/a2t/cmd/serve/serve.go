package serve

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"iflytek-asr/internal/app"
	"iflytek-asr/web"
)

var port string

func init() {
	Cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP port to listen on (default $A2T_HTTP_PORT or 8080)")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the transcription HTTP API server",
	Long: `Run the transcription HTTP API server

- POST /api/v1/transcriptions submits a local audio file as an async job
- GET /api/v1/transcriptions lists the transcription history
- /health and /metrics expose liveness and prometheus metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := web.DefaultConfig()
		if port != "" {
			cfg.Port = port
		}

		server, err := app.InitializeServer(cfg)
		if err != nil {
			return err
		}

		if err := server.Start(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
		return nil
	},
}
