package worker

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"iflytek-asr/internal/app"
)

// Cmd represents the worker command
var Cmd = &cobra.Command{
	Use:   "worker",
	Short: "Run a Temporal worker that processes transcription jobs",
	Long: `Run a Temporal worker that processes transcription jobs

- Connects to the Temporal server (TEMPORAL_HOST, default 127.0.0.1:7233)
- Picks up jobs submitted with 'a2t transcribe --remote' or the API
- Serves /health, /live and /ready probes on HEALTH_PORT (default :8081)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := app.InitializeWorker()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return w.Run(ctx)
	},
}
