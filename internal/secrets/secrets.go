// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: openai-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/section-writer/pkg/types"
)

// Credential names where a provider's API key may be found.
type Credential struct {
	// File is the key file name inside the secrets directory.
	File string
	// Env is the conventional environment variable.
	Env string
}

var credentials = map[types.Provider]Credential{
	types.ProviderOpenAI:    {File: "openai-api-key", Env: "OPENAI_API_KEY"},
	types.ProviderAnthropic: {File: "anthropic-api-key", Env: "ANTHROPIC_API_KEY"},
}

// CredentialFor returns where to look for provider's API key.
func CredentialFor(provider types.Provider) (Credential, bool) {
	c, ok := credentials[provider]
	return c, ok
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// APIKey resolves provider's key from the loaded secrets, falling back to
// the provider's environment variable. It returns "" when neither is set.
func APIKey(secrets map[string]string, provider types.Provider) string {
	c, ok := CredentialFor(provider)
	if !ok {
		return ""
	}
	if v := secrets[c.File]; v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv(c.Env))
}
