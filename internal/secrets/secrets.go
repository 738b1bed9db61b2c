// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials from a directory holding one file per
// secret. The file name is the key and the trimmed contents are the value.
//
// Known files: openai-api-key, anthropic-api-key, gemini-api-key and
// redis-password.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/translation-engine/internal/logging"
	"github.com/pdiddy/translation-engine/pkg/types"
)

// Key file names.
const (
	OpenAIKey     = "openai-api-key"
	AnthropicKey  = "anthropic-api-key"
	GeminiKey     = "gemini-api-key"
	RedisPassword = "redis-password"
)

// providerKeys maps each credentialed backend to its key file.
var providerKeys = map[types.ProviderName]string{
	types.ProviderOpenAI:    OpenAIKey,
	types.ProviderAnthropic: AnthropicKey,
	types.ProviderGemini:    GeminiKey,
}

// Load returns the secrets in dir. A missing directory yields an empty map.
// Hidden files, subdirectories and empty files are skipped; a file that
// cannot be read is logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logging.For("secrets").Warn("secrets.read_failed", "name", name, "err", err)
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			out[name] = v
		}
	}
	return out, nil
}

// APIKeyFor returns the loaded key of a backend, or "" when the backend
// takes no key or its file was absent.
func APIKeyFor(secrets map[string]string, name types.ProviderName) string {
	file, ok := providerKeys[name]
	if !ok {
		return ""
	}
	return secrets[file]
}
