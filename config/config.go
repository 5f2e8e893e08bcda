package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// 合并结果的写入位置
const (
	TargetClass     = "class"     // 覆盖实现类文件，删除接口文件
	TargetInterface = "interface" // 写到接口文件路径，删除实现类文件
)

// Config 是 implmerge 的全部配置项
type Config struct {
	Suffix        string        `yaml:"suffix"`
	SkipMethods   []string      `yaml:"skip_methods"`
	Target        string        `yaml:"target"`
	AnchorPolicy  string        `yaml:"anchor_policy"`
	SettleDelay   time.Duration `yaml:"settle_delay"`
	Git           bool          `yaml:"git"`
	CopyConstants bool          `yaml:"copy_constants"`
	MergeImports  bool          `yaml:"merge_imports"`
	VerifyOutput  bool          `yaml:"validate"`
	Logging       LoggingConfig `yaml:"logging"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Suffix:        "Impl",
		Target:        TargetClass,
		AnchorPolicy:  "prepend",
		SettleDelay:   500 * time.Millisecond,
		CopyConstants: true,
		MergeImports:  true,
		VerifyOutput:  true,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ApplyEnvironmentOverrides 用环境变量覆盖配置
func (c *Config) ApplyEnvironmentOverrides() {
	if v := os.Getenv("IMPLMERGE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("IMPLMERGE_TARGET"); v != "" {
		c.Target = v
	}
	if v := os.Getenv("IMPLMERGE_GIT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Git = b
		}
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Suffix) == "" {
		return fmt.Errorf("suffix must not be empty")
	}
	switch c.Target {
	case TargetClass, TargetInterface:
	default:
		return fmt.Errorf("invalid target %q (want %q or %q)", c.Target, TargetClass, TargetInterface)
	}
	switch c.AnchorPolicy {
	case "prepend", "error":
	default:
		return fmt.Errorf("invalid anchor_policy %q (want prepend or error)", c.AnchorPolicy)
	}
	if c.SettleDelay < 0 {
		return fmt.Errorf("settle_delay must not be negative")
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid logging format %q (want text or json)", c.Logging.Format)
	}
	return nil
}

// NewLogger 按日志配置创建 slog.Logger
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Logging.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
}

// GetConfigPaths 返回配置文件的查找路径，按优先级排列
func GetConfigPaths() []string {
	paths := []string{".implmerge.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "implmerge", "config.yaml"))
	}
	return paths
}
