// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/section-writer/internal/llm"
	"github.com/pdiddy/section-writer/internal/pipeline"
	"github.com/pdiddy/section-writer/internal/publish"
	"github.com/pdiddy/section-writer/internal/request"
	"github.com/pdiddy/section-writer/internal/runstore"
	"github.com/pdiddy/section-writer/pkg/types"
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Generate, review, revise, cite and publish a section",
	Long: `Write runs the full pipeline for the section described in the request
file: it generates candidates, reviews and selects the best, revises it, adds
citation reasons and publishes the result to a timestamped JSON or YAML file
in the output directory. The run and its costs are recorded in the run store.

A remote service failure stops the run; nothing is written.`,
	RunE: runWrite,
}

func init() {
	d := types.DefaultConfig()
	writeCmd.Flags().String("request", "", "path to the section request file (YAML or JSON)")
	writeCmd.Flags().Int("candidates", d.Pipeline.Candidates, "number of candidates to generate")
	writeCmd.Flags().Int("workers", d.Pipeline.Workers, "concurrent generation and review calls")
	writeCmd.Flags().String("model", d.AI.Model, "model identifier")
	writeCmd.Flags().String("format", string(d.Publish.Format), "artifact format: json or yaml")
	writeCmd.Flags().String("output-dir", d.Publish.OutputDir, "directory for published artifacts")
	_ = writeCmd.MarkFlagRequired("request")

	_ = viper.BindPFlag("pipeline.candidates", writeCmd.Flags().Lookup("candidates"))
	_ = viper.BindPFlag("pipeline.workers", writeCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("ai.model", writeCmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("publish.format", writeCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("publish.output_dir", writeCmd.Flags().Lookup("output-dir"))

	rootCmd.AddCommand(writeCmd)
}

func runWrite(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	reqPath, _ := cmd.Flags().GetString("request")
	req, err := request.Load(reqPath)
	if err != nil {
		return err
	}

	completer, err := llm.New(cfg.AI)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := pipeline.New(completer, cfg)
	p.Progress = out

	res, err := p.Run(cmd.Context(), req)
	if err != nil {
		var rse *llm.RemoteServiceError
		if errors.As(err, &rse) && rse.Temporary() {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s failure is transient; re-running may succeed\n", rse.Kind)
		}
		return err
	}

	path, err := publish.Save(cfg.Publish.OutputDir, cfg.Publish.Format, res.Published, res.StartedAt)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", path)

	printValidation(out, res.Published.Validation)
	fmt.Fprintln(out)
	res.Costs.Summary(out)

	store, err := runstore.Open(cfg.Store.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.SaveRun(cmd.Context(), res.Record(path)); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	slog.Debug("run recorded", "run", res.RunID, "db", cfg.Store.DBPath)
	return nil
}

// printValidation writes the validation outcome, issues first.
func printValidation(w io.Writer, v types.ValidationResult) {
	status := "valid"
	if !v.IsValid {
		status = "INVALID"
	}
	fmt.Fprintf(w, "\nValidation: %s\n", status)
	for _, issue := range v.Issues {
		fmt.Fprintf(w, "  issue:   %s\n", issue)
	}
	for _, warning := range v.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
}
