package main

import (
	"fmt"
	"os"

	"iflytek-asr/cmd/a2t/cmd"
	"iflytek-asr/internal/config"

	// Import providers to register them
	_ "iflytek-asr/internal/app/api/iflytek"
	_ "iflytek-asr/internal/app/api/openai/whisper"
)

func main() {
	// Initialize configuration (non-blocking - only warns about missing keys)
	if _, err := config.InitializeConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Configuration Warning: %v\n", err)
		fmt.Fprintf(os.Stderr, "💡 Run 'a2t config set' to store your iFlytek credentials\n")
		// Continue execution - commands that need credentials fail on their own
	}

	// Execute the CLI command
	cmd.Execute()
}
