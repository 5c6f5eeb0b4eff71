package appconf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvFlagToEnvironment(t *testing.T) {
	tests := []struct {
		flag     string
		expected Environment
	}{
		{"production", Production},
		{"test", Test},
		{"development", Development},
		{"", Development},
		{"bogus", Development},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			assert.Equal(t, tt.expected, EnvFlagToEnvironment(tt.flag))
		})
	}
}

func TestEnvironmentString(t *testing.T) {
	assert.Equal(t, "production", Production.String())
	assert.Equal(t, "test", Test.String())
	assert.Equal(t, "development", Development.String())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")

	content := `
port: 4000
env: test
apiKeys:
  - alpha
  - beta
rateLimit: 50
faresURL: https://example.org/content
contentTimeoutMins: 30
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	fc, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4000, fc.Port)
	assert.Equal(t, "test", fc.Env)
	assert.Equal(t, []string{"alpha", "beta"}, fc.ApiKeys)
	assert.Equal(t, 50, fc.RateLimit)
	assert.Equal(t, "https://example.org/content", fc.FaresURL)
	assert.Equal(t, 30, fc.ContentTimeout)
}

func TestLoadFileRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"bad env", "env: staging\n"},
		{"bad url", "faresURL: not-a-url\n"},
		{"negative rate limit", "rateLimit: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.yml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	cfg := Config{Port: 4000, Env: Development, RateLimit: 100}
	cfg.Merge(&FileConfig{Port: 5000, Env: "production", FaresURL: "https://example.org/fares"})

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, Production, cfg.Env)
	assert.Equal(t, 100, cfg.RateLimit, "zero file value should not clobber flag value")
	assert.Equal(t, "https://example.org/fares", cfg.FaresURL)

	cfg.Merge(nil) // no-op
	assert.Equal(t, 5000, cfg.Port)
}
