// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: ads-api-key, serpapi-api-key, openalex-email.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pubsync/pkg/types"
)

// Recognized key file names and their environment variable fallbacks.
const (
	KeyADS           = "ads-api-key"
	KeySerpAPI       = "serpapi-api-key"
	KeyOpenAlexEmail = "openalex-email"

	envADS           = "ADS_API_KEY"
	envSerpAPI       = "SERPAPI_API_KEY"
	envOpenAlexEmail = "OPENALEX_EMAIL"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
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
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply fills the credential fields of cfg that are still empty. Explicit
// config wins over the secrets directory, which wins over environment
// variables.
func Apply(secrets map[string]string, cfg *types.FetchConfig) {
	if cfg.ADSAPIKey == "" {
		cfg.ADSAPIKey = firstOf(secrets[KeyADS], os.Getenv(envADS))
	}
	if cfg.SerpAPIKey == "" {
		cfg.SerpAPIKey = firstOf(secrets[KeySerpAPI], os.Getenv(envSerpAPI))
	}
	if cfg.OpenAlexEmail == "" {
		cfg.OpenAlexEmail = firstOf(secrets[KeyOpenAlexEmail], os.Getenv(envOpenAlexEmail))
	}
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
