package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/filesmanager/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of Config.
type FileConfig struct {
	Server    string         `json:"server" yaml:"server"`
	Timeout   timex.Duration `json:"timeout" yaml:"timeout"`
	StateFile string         `json:"state_file" yaml:"state_file"`
}

// parseFile overlays cfg with the keys present in the file at path. Files
// ending in .yaml or .yml are decoded as YAML, anything else as JSON.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	if fc.Server != "" {
		cfg.ServerURL = fc.Server
	}
	if fc.Timeout.Duration > 0 {
		cfg.Timeout = fc.Timeout.Duration
	}
	if fc.StateFile != "" {
		cfg.StateFile = fc.StateFile
	}
	return nil
}
