// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/section-writer/internal/secrets"
	"github.com/pdiddy/section-writer/pkg/types"
)

// setDefaults registers every configuration key so that environment
// variables are picked up by Unmarshal even without a config file.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()

	v.SetDefault("ai.provider", string(d.AI.Provider))
	v.SetDefault("ai.model", d.AI.Model)
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.timeout", d.AI.Timeout)
	v.SetDefault("ai.temperature", d.AI.Temperature)
	v.SetDefault("ai.max_tokens", d.AI.MaxTokens)
	v.SetDefault("ai.max_retries", d.AI.MaxRetries)

	v.SetDefault("pipeline.candidates", d.Pipeline.Candidates)
	v.SetDefault("pipeline.workers", d.Pipeline.Workers)

	v.SetDefault("publish.target_words", d.Publish.TargetWords)
	v.SetDefault("publish.use_request_target", d.Publish.UseRequestTarget)
	v.SetDefault("publish.author", d.Publish.Author)
	v.SetDefault("publish.version", d.Publish.Version)
	v.SetDefault("publish.output_dir", d.Publish.OutputDir)
	v.SetDefault("publish.format", string(d.Publish.Format))

	v.SetDefault("store.db_path", d.Store.DBPath)
}

// loadConfig decodes v into a Config. An API key missing from the
// configuration is taken from the secrets directory, then from the
// provider's environment variable.
func loadConfig(v *viper.Viper, s map[string]string) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if cfg.AI.APIKey == "" {
		cfg.AI.APIKey = secrets.APIKey(s, cfg.AI.Provider)
	}
	return cfg, nil
}
