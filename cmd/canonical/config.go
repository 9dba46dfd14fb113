package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type toolConfig struct {
	Pretty   bool
	Indent   string
	LogLevel string
}

func defaultToolConfig() toolConfig {
	return toolConfig{
		Pretty:   false,
		Indent:   "  ",
		LogLevel: "warn",
	}
}

type fileConfig struct {
	Pretty   bool   `toml:"pretty"`
	Indent   string `toml:"indent"`
	LogLevel string `toml:"log_level"`
}

func loadToolConfig(path string) (toolConfig, error) {
	cfg := defaultToolConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return toolConfig{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("pretty") {
		cfg.Pretty = raw.Pretty
	}

	if meta.IsDefined("indent") {
		cfg.Indent = raw.Indent
	}

	if meta.IsDefined("log_level") {
		level := strings.TrimSpace(strings.ToLower(raw.LogLevel))
		switch level {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = level
		default:
			return toolConfig{}, fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
	}

	return cfg, nil
}
