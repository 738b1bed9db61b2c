// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/translation-engine/pkg/types"
)

// secretsDir creates a directory holding files (name → contents) and the
// subdirectories in dirs.
func secretsDir(t *testing.T, files map[string]string, dirs ...string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(body), 0o600))
	}
	for _, d := range dirs {
		require.NoError(t, os.Mkdir(filepath.Join(root, d), 0o755))
	}
	return root
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		dirs  []string
		want  map[string]string
	}{
		{
			name: "provider keys and redis password",
			files: map[string]string{
				OpenAIKey:     "  sk-proj-123  \n",
				AnthropicKey:  "sk-ant-456",
				RedisPassword: "hunter2\n",
			},
			want: map[string]string{
				OpenAIKey:     "sk-proj-123",
				AnthropicKey:  "sk-ant-456",
				RedisPassword: "hunter2",
			},
		},
		{
			name:  "blank files are ignored",
			files: map[string]string{GeminiKey: "", AnthropicKey: " \t\n", OpenAIKey: "sk-x"},
			want:  map[string]string{OpenAIKey: "sk-x"},
		},
		{
			name:  "hidden files and directories are ignored",
			files: map[string]string{".gitkeep": "", ".old-key": "sk-stale", GeminiKey: "AIza-1"},
			dirs:  []string{"archive"},
			want:  map[string]string{GeminiKey: "AIza-1"},
		},
		{
			name:  "unknown names are kept",
			files: map[string]string{"vertex-project": "my-project"},
			want:  map[string]string{"vertex-project": "my-project"},
		},
		{
			name: "empty directory",
			want: map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(secretsDir(t, tt.files, tt.dirs...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_MissingDirectory(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), ".secrets"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoad_PathIsAFile(t *testing.T) {
	dir := secretsDir(t, map[string]string{"not-a-dir": "x"})
	_, err := Load(filepath.Join(dir, "not-a-dir"))
	assert.Error(t, err)
}

func TestLoad_SkipsUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits do not apply to root")
	}
	dir := secretsDir(t, map[string]string{OpenAIKey: "sk-ok"})
	locked := filepath.Join(dir, AnthropicKey)
	require.NoError(t, os.WriteFile(locked, []byte("sk-ant-locked"), 0o000))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{OpenAIKey: "sk-ok"}, got)
}

func TestAPIKeyFor(t *testing.T) {
	loaded := map[string]string{OpenAIKey: "sk-o", AnthropicKey: "sk-ant-a", GeminiKey: "g"}
	tests := []struct {
		provider types.ProviderName
		want     string
	}{
		{types.ProviderOpenAI, "sk-o"},
		{types.ProviderAnthropic, "sk-ant-a"},
		{types.ProviderGemini, "g"},
		{types.ProviderOllama, ""},
		{types.ProviderName("watson"), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, APIKeyFor(loaded, tt.provider), string(tt.provider))
	}
	assert.Empty(t, APIKeyFor(nil, types.ProviderOpenAI))
}
