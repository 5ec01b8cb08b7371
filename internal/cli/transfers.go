package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/crossscan/crossscan/internal/infra/api"
	"github.com/crossscan/crossscan/internal/registry"
	"github.com/crossscan/crossscan/internal/tracking/enrich"
)

var (
	transfersSource string
	transfersDest   string
	transfersSize   int
)

var transfersCmd = &cobra.Command{
	Use:   "transfers",
	Short: "Search transfers upstream and print their resolved statuses",
	Run:   runTransfers,
}

func init() {
	transfersCmd.Flags().StringVar(&transfersSource, "source", "", "filter by source chain")
	transfersCmd.Flags().StringVar(&transfersDest, "dest", "", "filter by destination chain")
	transfersCmd.Flags().IntVar(&transfersSize, "size", 25, "page size")
	rootCmd.AddCommand(transfersCmd)
}

func runTransfers(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	reg, err := registry.LoadFile(cfg.Registry.Path)
	if err != nil {
		slog.Error("Failed to load registry", "error", err)
		os.Exit(1)
	}

	client, err := api.NewClient(cfg.Upstream)
	if err != nil {
		slog.Error("Failed to init upstream client", "error", err)
		os.Exit(1)
	}

	results, err := client.SearchTransfers(context.Background(), api.TransferQuery{
		SourceChain:      transfersSource,
		DestinationChain: transfersDest,
		Size:             transfersSize,
	})
	if err != nil {
		slog.Error("Failed to search transfers", "error", err)
		os.Exit(1)
	}

	service := enrich.NewService(client, reg, cfg.Enrich)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "TRANSFER\tTYPE\tROUTE\tSTATUS\tTIME")

	for _, res := range results {
		view := service.ResolveTransfer(res)
		spent := ""
		if view.Summary.TimeSpent != nil {
			spent = fmt.Sprintf("%ds", *view.Summary.TimeSpent)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s -> %s\t%s\t%s\n",
			view.TransferID, view.Type, view.SourceChain, view.DestinationChain, view.Summary.Status, spent)
	}
	_ = w.Flush()
}
