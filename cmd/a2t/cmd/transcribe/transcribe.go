package transcribe

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"iflytek-asr/internal/app"
	"iflytek-asr/internal/app/api/provider"
	"iflytek-asr/internal/app/temporal/pkg/command"
	"iflytek-asr/internal/config"
)

var (
	userNickname string
	audioDir     string
	audioFile    string
	convertCount int
	parallel     int
	providerName string
	outputDir    string
	remote       bool
)

func init() {
	Cmd.Flags().StringVarP(&userNickname, "user", "n", "default",
		"Which user owns the audio files, this parameter affects the 'user' field when they are saved to the database")
	Cmd.Flags().StringVarP(&audioDir, "dir", "d", "",
		"directory with audio files to transcribe, example: ./test/data/audio")
	Cmd.Flags().StringVarP(&audioFile, "file", "f", "",
		"single audio file to transcribe")
	Cmd.Flags().IntVarP(&convertCount, "count", "c", 500,
		"maximum number of unprocessed files to transcribe in this run")
	Cmd.Flags().IntVarP(&parallel, "parallel", "p", 1,
		"number of files transcribed concurrently")
	Cmd.Flags().StringVar(&providerName, "provider", "",
		"transcription provider to use, overriding the configured default")
	Cmd.Flags().StringVarP(&outputDir, "output", "o", "",
		"directory where transcripts and raw results are written")
	Cmd.Flags().BoolVar(&remote, "remote", false,
		"submit the job to a Temporal worker instead of transcribing locally (requires --file)")
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Transcribe audio files in a directory (or a single file) to text",
	Long: `Transcribe audio files in a directory (or a single file) to text

- Iterate through the audio files (wav/mp3/m4a/amr) in the specified directory
- Upload each file to the transcription service and poll until it finishes
- Save the transcript and raw result, and record the outcome to sqlite
- Files already recorded as transcribed are skipped on reruns`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if audioDir == "" && audioFile == "" {
			return fmt.Errorf("either --dir or --file must be set")
		}
		if audioDir != "" && audioFile != "" {
			return fmt.Errorf("--dir and --file are mutually exclusive")
		}
		if err := config.ValidateConcurrency(parallel, "transcription"); err != nil {
			return err
		}

		if providerName != "" {
			provider.SetRuntimeConfig(&provider.RuntimeConfig{ProviderName: providerName})
		}
		if outputDir != "" {
			os.Setenv("A2T_OUTPUT_DIR", outputDir)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if remote {
			return runRemote(ctx)
		}

		converter := app.InitializeConverter()
		defer converter.Close()

		if audioFile != "" {
			outcome, err := converter.ConvertFile(ctx, userNickname, audioFile)
			if err != nil {
				return err
			}
			fmt.Printf("transcript saved to %s\n\n%s\n", outcome.Artifacts.TranscriptPath, outcome.Text)
			return nil
		}

		return converter.Do(ctx, userNickname, audioDir, convertCount, parallel)
	},
}

// runRemote submits the file to the Temporal task queue and waits for a
// worker to finish it. The worker writes artifacts and history on its side.
func runRemote(ctx context.Context) error {
	if audioFile == "" {
		return fmt.Errorf("--remote requires --file, remote mode transcribes one file at a time")
	}

	dt, err := command.NewDistributedTranscriber()
	if err != nil {
		return fmt.Errorf("connect to Temporal: %w", err)
	}
	defer dt.Close()

	job, err := dt.SubmitJob(ctx, audioFile, userNickname, providerName)
	if err != nil {
		return fmt.Errorf("submit job: %w", err)
	}
	log.Printf("job %s submitted, workflow %s", job.ID, job.WorkflowID)

	done, err := command.WaitForJobWithProgress(ctx, dt, job.WorkflowID, func(status string) {
		log.Printf("job %s: %s", job.ID, status)
	})
	if err != nil {
		return err
	}

	fmt.Printf("transcript saved to %s\n\n%s\n", done.TranscriptPath, done.Result)
	return nil
}
