package authctl

import (
	"fmt"
	"log/slog"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"github.com/Yet-Another-Check-In-System/auth-ms/internal/db"
	"github.com/Yet-Another-Check-In-System/auth-ms/internal/db/repository"
	"github.com/Yet-Another-Check-In-System/auth-ms/internal/service/cleanup"
)

func newCleanupCmd() *cobra.Command {
	cleanupCmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Expired-account cleanup",
	}
	cleanupCmd.AddCommand(newCleanupRunCmd())
	return cleanupCmd
}

func newCleanupRunCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one cleanup pass against the credential store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			writeDB, err := db.OpenSQLite(dbPath, "write", 0)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer writeDB.Close()

			if err := db.RunMigrations(writeDB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			svc := cleanup.NewService(repository.NewCleanupRepo(writeDB), logger)

			removed, err := svc.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired account(s)\n", removed)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "auth.sqlite", "path to the SQLite credential store")
	return cmd
}
