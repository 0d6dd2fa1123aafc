package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/quotewatch/logging"
	"github.com/urfave/cli/v3"
	yaml "go.yaml.in/yaml/v3"
)

// fileConfig is the on-disk layout: a working directory and a logging section.
type fileConfig struct {
	WorkingDir string         `json:"working_dir" yaml:"working_dir" toml:"working_dir"`
	Logging    logging.Config `json:"logging" yaml:"logging" toml:"logging"`
}

// loadConfig reads path on top of the defaults. An empty path yields the
// defaults unchanged.
func loadConfig(path string) (fileConfig, error) {
	fc := fileConfig{WorkingDir: ".", Logging: logging.DefaultConfig()}
	if path == "" {
		return fc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".json":
		err = json.Unmarshal(data, &fc)
	default:
		return fc, fmt.Errorf("unsupported config format %q", ext)
	}
	if err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// resolveConfig applies the root flags over the loaded file.
func resolveConfig(c *cli.Command) (fileConfig, error) {
	fc, err := loadConfig(c.String("config"))
	if err != nil {
		return fc, err
	}
	if level := c.String("level"); level != "" {
		fc.Logging.Level = level
	}
	if dir := c.String("dir"); dir != "" {
		fc.WorkingDir = dir
	}
	return fc, nil
}

func (fc fileConfig) logDir() string {
	return filepath.Join(fc.WorkingDir, fc.Logging.RelLogFileDir)
}
