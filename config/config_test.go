package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate 切换到空的工作目录与 HOME，避免读到本机的配置文件
func isolate(t *testing.T) string {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("IMPLMERGE_LOG_LEVEL", "")
	t.Setenv("IMPLMERGE_TARGET", "")
	t.Setenv("IMPLMERGE_GIT", "")
	return dir
}

func TestLoader_Defaults(t *testing.T) {
	isolate(t)

	loader := NewLoader("")
	cfg, err := loader.LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, loader.ConfigPath())
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, "Impl", cfg.Suffix)
	assert.Equal(t, TargetClass, cfg.Target)
	assert.True(t, cfg.VerifyOutput)
}

func TestLoader_File(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, ".implmerge.yaml")
	data := `suffix: Service
skip_methods: [close]
target: interface
anchor_policy: error
settle_delay: 250ms
git: true
copy_constants: false
validate: false
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	t.Run("Discovered in working directory", func(t *testing.T) {
		loader := NewLoader("")
		cfg, err := loader.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, ".implmerge.yaml", loader.ConfigPath())

		assert.Equal(t, "Service", cfg.Suffix)
		assert.Equal(t, []string{"close"}, cfg.SkipMethods)
		assert.Equal(t, TargetInterface, cfg.Target)
		assert.Equal(t, "error", cfg.AnchorPolicy)
		assert.Equal(t, 250*time.Millisecond, cfg.SettleDelay)
		assert.True(t, cfg.Git)
		assert.False(t, cfg.CopyConstants)
		assert.True(t, cfg.MergeImports, "unset keys keep their defaults")
		assert.False(t, cfg.VerifyOutput)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("Environment wins over file", func(t *testing.T) {
		t.Setenv("IMPLMERGE_TARGET", "class")
		t.Setenv("IMPLMERGE_GIT", "false")
		t.Setenv("IMPLMERGE_LOG_LEVEL", "warn")

		cfg, err := NewLoader(path).LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, TargetClass, cfg.Target)
		assert.False(t, cfg.Git)
		assert.Equal(t, "warn", cfg.Logging.Level)
	})

	t.Run("Missing explicit file", func(t *testing.T) {
		_, err := NewLoader(filepath.Join(dir, "nope.yaml")).LoadConfig()
		assert.Error(t, err)
	})

	t.Run("Malformed file", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("suffix: [unterminated"), 0o644))
		_, err := NewLoader(bad).LoadConfig()
		assert.ErrorContains(t, err, "failed to parse config file")
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"empty suffix", func(c *Config) { c.Suffix = " " }, "suffix"},
		{"bad target", func(c *Config) { c.Target = "both" }, "invalid target"},
		{"bad anchor policy", func(c *Config) { c.AnchorPolicy = "append" }, "anchor_policy"},
		{"negative delay", func(c *Config) { c.SettleDelay = -time.Second }, "settle_delay"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "log level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging format"},
	}

	require.NoError(t, DefaultConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "warn"

	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "file", "A.java")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"file":"A.java"`)
}
