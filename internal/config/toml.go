// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Storage StorageConfig `toml:"storage"`
	Report  ReportConfig  `toml:"report"`
}

// StorageConfig maps storage-related settings.
type StorageConfig struct {
	Backend *string `toml:"backend"`
	Dir     *string `toml:"dir"`
	DBPath  *string `toml:"db"`
}

// ReportConfig maps report-related settings.
type ReportConfig struct {
	Limit *int `toml:"limit"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
