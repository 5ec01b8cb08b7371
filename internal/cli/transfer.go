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

var transferCmd = &cobra.Command{
	Use:   "transfer [transfer_id]",
	Short: "Resolve a transfer and print its lifecycle steps",
	Args:  cobra.ExactArgs(1),
	Run:   runTransfer,
}

func init() {
	rootCmd.AddCommand(transferCmd)
}

func runTransfer(cmd *cobra.Command, args []string) {
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

	service := enrich.NewService(client, reg, cfg.Enrich)
	views := service.EnrichTransfers(context.Background(), []string{args[0]})
	if views[0] == nil {
		slog.Error("Transfer not found", "transfer", args[0])
		os.Exit(1)
	}
	view := views[0]

	fmt.Printf("Transfer %s (%s): %s -> %s\n", view.TransferID, view.Type, view.SourceChain, view.DestinationChain)
	fmt.Printf("Status: %s", view.Summary.Status)
	if view.Summary.TimeSpent != nil {
		fmt.Printf(" (%ds)", *view.Summary.TimeSpent)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "STEP\tTITLE\tSTATUS\tCHAIN\tTX")

	for _, step := range view.Steps {
		chain := ""
		if step.Chain != nil {
			chain = step.Chain.Name
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", step.ID, step.Title, step.Status, chain, step.TxHash)
	}
	_ = w.Flush()
}
