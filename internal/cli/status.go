package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/crossscan/crossscan/internal/infra/storage/postgres"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stored transfer counts by status",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	ctx := context.Background()
	db, err := postgres.NewDB(ctx, cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	rows, err := db.QueryContext(ctx, "SELECT status, COUNT(*), MAX(updated_at) FROM transfers GROUP BY status ORDER BY status")
	if err != nil {
		slog.Error("Failed to query transfers", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = rows.Close()
	}()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "STATUS\tCOUNT\tLAST UPDATE")

	for rows.Next() {
		var status string
		var count int64
		var updatedAt time.Time
		if err := rows.Scan(&status, &count, &updatedAt); err != nil {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", status, count, updatedAt.Format(time.RFC3339))
	}
	_ = w.Flush()
}
