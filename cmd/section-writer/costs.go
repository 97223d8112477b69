// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/section-writer/internal/runstore"
)

var costsCmd = &cobra.Command{
	Use:   "costs",
	Short: "Summarize model spend across all recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *runstore.Store) error {
			ops, err := store.CostByOperation(cmd.Context())
			if err != nil {
				return err
			}
			formatCosts(cmd.OutOrStdout(), ops)
			return nil
		})
	},
}

func formatCosts(w io.Writer, ops []runstore.OperationCost) {
	if len(ops) == 0 {
		fmt.Fprintln(w, "No calls recorded.")
		return
	}

	fmt.Fprintf(w, "%-16s  %6s  %12s  %12s  %10s\n", "Operation", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(w, strings.Repeat("-", 64))
	var (
		total float64
		calls int
	)
	for _, op := range ops {
		fmt.Fprintf(w, "%-16s  %6d  %12d  %12d  $%9.4f\n",
			op.Operation, op.Calls, op.InputTokens, op.OutputTokens, op.Cost)
		total += op.Cost
		calls += op.Calls
	}
	fmt.Fprintln(w, strings.Repeat("-", 64))
	fmt.Fprintf(w, "%-16s  %6d  %12s  %12s  $%9.4f\n", "Total", calls, "", "", total)
}

func init() {
	rootCmd.AddCommand(costsCmd)
}
