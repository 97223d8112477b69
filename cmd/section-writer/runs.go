// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/section-writer/internal/runstore"
	"github.com/pdiddy/section-writer/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded pipeline runs",
	Long: `Runs reads the run store: list recent runs, show one run with its
per-call costs, or export the whole history.`,
}

// --- list subcommand ---

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withStore(func(store *runstore.Store) error {
			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return formatRuns(cmd.OutOrStdout(), runs)
		})
	},
}

func formatRuns(w io.Writer, runs []runstore.RunRecord) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-20s  %-14s  %-6s  %-5s  %-7s  %s\n",
		"ID", "Created", "Section", "Words", "Score", "Valid", "Cost")
	fmt.Fprintln(w, strings.Repeat("-", 108))
	for _, r := range runs {
		section := r.Section
		if len(section) > 14 {
			section = section[:11] + "..."
		}
		fmt.Fprintf(w, "%-36s  %-20s  %-14s  %-6d  %-5.2f  %-7t  $%.4f\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), section,
			r.WordCount, r.SelectedScore, r.IsValid, r.TotalCost)
	}
	fmt.Fprintf(w, "\n%d runs\n", len(runs))
	return nil
}

// --- show subcommand ---

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one run and its model calls as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *runstore.Store) error {
			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(run)
		})
	},
}

// --- export subcommand ---

var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every run and its calls to stdout as YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return withStore(func(store *runstore.Store) error {
			return store.Export(cmd.Context(), cmd.OutOrStdout(), types.OutputFormat(format))
		})
	},
}

// withStore opens the configured run store for the duration of fn.
func withStore(fn func(*runstore.Store) error) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	store, err := runstore.Open(cfg.Store.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func init() {
	runsListCmd.Flags().Int("limit", 20, "maximum runs to list (0 = all)")
	runsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsExportCmd)

	rootCmd.AddCommand(runsCmd)
}
