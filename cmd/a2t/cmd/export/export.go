package export

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"iflytek-asr/internal/app/converter/export"
	"iflytek-asr/internal/app/repository/sqlite"
)

var userNickname string
var outputFilePath string

func init() {
	Cmd.Flags().StringVarP(&userNickname, "user", "n", "", "export rows owned by this user")
	Cmd.Flags().StringVarP(&outputFilePath, "output", "o", "", "path of the xlsx file to write")

	Cmd.MarkFlagRequired("user")
	Cmd.MarkFlagRequired("output")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export the specified user's transcripts to excel",
	Long: `Export the specified user's transcripts to excel

- Export all the user's transcription history rows to an xlsx file`,
	Run: func(cmd *cobra.Command, args []string) {
		dbPath, err := sqlite.DefaultDBPath()
		if err != nil {
			log.Fatalf("Failed to resolve history database path: %v\n", err)
		}

		db, err := sqlite.NewSQLiteDB(dbPath)
		if err != nil {
			log.Fatalf("Failed to open history database %s: %v\n", dbPath, err)
		}
		defer db.Close()

		transcriptions, err := db.GetAllByUser(userNickname)
		if err != nil {
			log.Fatal(err)
		}

		if err := export.ToExcel(transcriptions, outputFilePath); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("export finished, exported file path: %v\n", outputFilePath)
	},
}
