package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"iflytek-asr/cmd/a2t/cmd/config"
	"iflytek-asr/cmd/a2t/cmd/export"
	"iflytek-asr/cmd/a2t/cmd/migrate"
	"iflytek-asr/cmd/a2t/cmd/serve"
	"iflytek-asr/cmd/a2t/cmd/transcribe"
	"iflytek-asr/cmd/a2t/cmd/version"
	"iflytek-asr/cmd/a2t/cmd/worker"
)

var Verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "a2t",
	Short: "An application for batch converting audio files to text via the iFlytek long-form ASR service",
	Long: `An application for batch converting audio files to text via the iFlytek
long-form ASR service, with OpenAI Whisper as an optional fallback.
- Point it at a directory of audio files (wav/mp3/m4a/amr)
- Each file is uploaded, polled to completion, and its transcript saved
- The processed records are saved to sqlite so reruns skip finished files.`,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(transcribe.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(migrate.Cmd)
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(worker.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
}
