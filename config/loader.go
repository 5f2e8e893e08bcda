package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader 负责查找并加载配置文件
type Loader struct {
	configPath string
}

func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// LoadConfig 加载配置：默认值 -> 配置文件 -> 环境变量，最后校验
func (l *Loader) LoadConfig() (*Config, error) {
	config := DefaultConfig()

	if l.configPath == "" {
		l.configPath = findConfigFile()
	}

	if l.configPath != "" {
		data, err := os.ReadFile(l.configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", l.configPath, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", l.configPath, err)
		}
	}

	config.ApplyEnvironmentOverrides()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// ConfigPath 返回实际使用的配置文件路径，未找到时为空
func (l *Loader) ConfigPath() string {
	return l.configPath
}

func findConfigFile() string {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
