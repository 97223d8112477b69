// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/section-writer/internal/publish"
	"github.com/pdiddy/section-writer/internal/request"
	"github.com/pdiddy/section-writer/pkg/types"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Validate and publish an existing cited-content file",
	Long: `Publish formats cited content produced by an earlier run (or edited by
hand), computes metadata, runs the validators and writes the artifact. No
model calls are made.`,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().String("cited", "", "path to the cited content file (YAML or JSON)")
	publishCmd.Flags().String("section", publish.DefaultSection, "section type recorded in the metadata")
	publishCmd.Flags().Int("word-limit", 0, "requested word limit recorded in the metadata")
	publishCmd.Flags().String("format", "", "artifact format: json or yaml (default from config)")
	publishCmd.Flags().String("output-dir", "", "directory for published artifacts (default from config)")
	_ = publishCmd.MarkFlagRequired("cited")

	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}
	if f, _ := cmd.Flags().GetString("format"); f != "" {
		cfg.Publish.Format = types.OutputFormat(f)
	}
	if d, _ := cmd.Flags().GetString("output-dir"); d != "" {
		cfg.Publish.OutputDir = d
	}

	citedPath, _ := cmd.Flags().GetString("cited")
	cited, err := request.LoadCited(citedPath)
	if err != nil {
		return err
	}
	section, _ := cmd.Flags().GetString("section")
	wordLimit, _ := cmd.Flags().GetInt("word-limit")

	now := time.Now()
	pub := publish.New(cfg.Publish)
	pub.Now = func() time.Time { return now }
	published := pub.Publish(cited, publish.Provenance{
		SectionType: section,
		WordLimit:   wordLimit,
		Generation:  types.GenerationInfo{Model: cfg.AI.Model, Temperature: cfg.AI.Temperature},
	})

	path, err := publish.Save(cfg.Publish.OutputDir, cfg.Publish.Format, published, now)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s\n", path)
	printValidation(out, published.Validation)
	return nil
}
