package config

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"iflytek-asr/internal/config"
)

var appID string
var secretKey string

func init() {
	setCmd.Flags().StringVar(&appID, "app-id", "", "iFlytek application ID")
	setCmd.Flags().StringVar(&secretKey, "secret-key", "", "iFlytek secret key")

	setCmd.MarkFlagRequired("app-id")
	setCmd.MarkFlagRequired("secret-key")

	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(showCmd)
}

// Cmd represents the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Manage stored transcription service credentials",
	Long: `Manage stored transcription service credentials

- 'set' writes the iFlytek credentials to ~/.a2t/.env
- 'show' prints which credentials are configured, with secrets masked`,
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Store iFlytek credentials in ~/.a2t/.env",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := config.SaveXfyunCredentials(appID, secretKey)
		if err != nil {
			log.Fatalf("Failed to save credentials: %v\n", err)
		}
		fmt.Printf("credentials saved to %s\n", path)
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show which credentials are configured",
	Run: func(cmd *cobra.Command, args []string) {
		apiKeys, err := config.GetAPIKeys()
		if err != nil {
			log.Fatalf("Invalid credentials in environment: %v\n", err)
		}

		fmt.Printf("XFYUN_APP_ID:     %s\n", mask(apiKeys.XfyunAppID))
		fmt.Printf("XFYUN_SECRET_KEY: %s\n", mask(apiKeys.XfyunSecretKey))
		fmt.Printf("OPENAI_API_KEY:   %s\n", mask(apiKeys.OpenAI))
	},
}

// mask keeps just enough of a secret to recognize it.
func mask(value string) string {
	if value == "" {
		return "(not set)"
	}
	if len(value) <= 4 {
		return "****"
	}
	return value[:4] + "****"
}
