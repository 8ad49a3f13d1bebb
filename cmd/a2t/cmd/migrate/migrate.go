package migrate

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	dbmigrate "iflytek-asr/internal/app/repository/migrate"
	"iflytek-asr/internal/app/repository/pg"
	"iflytek-asr/internal/app/repository/sqlite"
)

var sourcePath string

func init() {
	Cmd.Flags().StringVarP(&sourcePath, "from", "f", "", "sqlite database to copy from (default: the local history database)")
}

// Cmd represents the migrate command
var Cmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy transcription history from sqlite to PostgreSQL",
	Long: `Copy transcription history from sqlite to PostgreSQL

- Reads the local sqlite history database in batches of 1000 rows
- Writes each batch into the transcriptions table of the database named
  by DATABASE_URL (or the DB_* variables)
- Progress is checkpointed to last_id.txt, so an interrupted run resumes
  where it stopped instead of starting over`,
	Run: func(cmd *cobra.Command, args []string) {
		dbPath := sourcePath
		if dbPath == "" {
			var err error
			dbPath, err = sqlite.DefaultDBPath()
			if err != nil {
				log.Fatalf("Failed to resolve history database path: %v\n", err)
			}
		}

		sqliteDB, err := sql.Open("sqlite3", dbPath)
		if err != nil {
			log.Fatalf("Failed to open history database %s: %v\n", dbPath, err)
		}
		defer sqliteDB.Close()

		postgresDB, err := pg.GetConnection()
		if err != nil {
			log.Fatalf("Failed to connect to postgres: %v\n", err)
		}
		defer postgresDB.Close()

		total := 0
		for {
			copied, err := dbmigrate.ToPostgres(sqliteDB, postgresDB)
			total += copied
			if err != nil {
				log.Fatalf("Migration stopped after %d rows: %v\n", total, err)
			}
			if copied == 0 {
				break
			}
			fmt.Printf("copied %d rows (%d total)\n", copied, total)
		}
		fmt.Printf("migration finished, %d rows copied\n", total)
	},
}
