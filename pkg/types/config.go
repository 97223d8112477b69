package types

import (
	"errors"
	"fmt"
	"time"
)

// Provider identifies the remote completion service.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// HTTPConfig holds shared HTTP settings for the completion backends.
type HTTPConfig struct {
	// Timeout bounds a single completion call (default 60s). Expiry surfaces
	// as a remote service error of kind timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// BaseURL overrides the provider endpoint (tests, proxies).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// AIConfig holds settings for every stage that calls the completion service.
type AIConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Provider selects the backend: openai or anthropic.
	Provider Provider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier (e.g. "o1-2024-12-17").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Temperature is the sampling temperature (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// MaxTokens caps the output size of each call (default 200000).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// MaxRetries is the number of retries for retryable remote failures.
	// Zero disables retry.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// Params returns the generation parameter snapshot for this configuration.
func (c AIConfig) Params() GenerationParams {
	return GenerationParams{
		Model:       c.Model,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
}

// PipelineConfig holds settings for the stage orchestration.
type PipelineConfig struct {
	// Candidates is the number of candidate texts to generate (default 3).
	Candidates int `json:"candidates" yaml:"candidates" mapstructure:"candidates"`

	// Workers bounds concurrent generation and review calls (default 1).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`
}

// OutputFormat selects the persisted artifact format.
type OutputFormat string

const (
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// PublishConfig holds publisher settings.
type PublishConfig struct {
	// TargetWords is the word-count baseline the validators compare against
	// (default 1000).
	TargetWords int `json:"target_words" yaml:"target_words" mapstructure:"target_words"`

	// UseRequestTarget replaces TargetWords with the request's word limit.
	UseRequestTarget bool `json:"use_request_target" yaml:"use_request_target" mapstructure:"use_request_target"`

	// Author and Version are stamped into the published metadata.
	Author  string `json:"author" yaml:"author" mapstructure:"author"`
	Version string `json:"version" yaml:"version" mapstructure:"version"`

	// OutputDir is where published artifacts are written (default "output").
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Format selects json or yaml artifacts.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format"`
}

// StoreConfig holds run-history settings.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "output/runs.db").
	DBPath string `json:"db_path" yaml:"db_path" mapstructure:"db_path"`
}

// Config groups all settings for a section-writer run.
type Config struct {
	AI       AIConfig       `json:"ai" yaml:"ai" mapstructure:"ai"`
	Pipeline PipelineConfig `json:"pipeline" yaml:"pipeline" mapstructure:"pipeline"`
	Publish  PublishConfig  `json:"publish" yaml:"publish" mapstructure:"publish"`
	Store    StoreConfig    `json:"store" yaml:"store" mapstructure:"store"`
}

// Default values applied by DefaultConfig.
const (
	DefaultModel       = "o1-2024-12-17"
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 200000
	DefaultTimeout     = 60 * time.Second
	DefaultCandidates  = 3
	DefaultTargetWords = 1000
	DefaultAuthor      = "AI Content Generator"
	DefaultVersion     = "1.0.0"
)

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		AI: AIConfig{
			HTTPConfig:  HTTPConfig{Timeout: DefaultTimeout},
			Provider:    ProviderOpenAI,
			Model:       DefaultModel,
			Temperature: DefaultTemperature,
			MaxTokens:   DefaultMaxTokens,
		},
		Pipeline: PipelineConfig{
			Candidates: DefaultCandidates,
			Workers:    1,
		},
		Publish: PublishConfig{
			TargetWords: DefaultTargetWords,
			Author:      DefaultAuthor,
			Version:     DefaultVersion,
			OutputDir:   "output",
			Format:      OutputJSON,
		},
		Store: StoreConfig{
			DBPath: "output/runs.db",
		},
	}
}

// Validate reports configuration errors that must stop the program at
// startup: a missing API key or model, or out-of-range settings.
func (c Config) Validate() error {
	var errs []error
	if c.AI.APIKey == "" {
		errs = append(errs, errors.New("API key is required"))
	}
	if c.AI.Model == "" {
		errs = append(errs, errors.New("model name is required"))
	}
	switch c.AI.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		errs = append(errs, fmt.Errorf("unsupported provider %q: use openai or anthropic", c.AI.Provider))
	}
	if c.AI.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("max tokens must be positive, got %d", c.AI.MaxTokens))
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		errs = append(errs, fmt.Errorf("temperature %.2f out of range [0,2]", c.AI.Temperature))
	}
	if c.AI.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("max retries must not be negative, got %d", c.AI.MaxRetries))
	}
	if c.Pipeline.Candidates <= 0 {
		errs = append(errs, fmt.Errorf("candidates must be positive, got %d", c.Pipeline.Candidates))
	}
	switch c.Publish.Format {
	case OutputJSON, OutputYAML, "":
	default:
		errs = append(errs, fmt.Errorf("unsupported format %q: use json or yaml", c.Publish.Format))
	}
	return errors.Join(errs...)
}
