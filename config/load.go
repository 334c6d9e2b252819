package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load reads a configuration file, picking the decoder from its extension
// (.toml, .yaml/.yml or .json). Unset options fall back to their defaults and the
// result is validated before being returned.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's command line
	if err != nil {
		return Settings{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes configuration bytes in the format named by ext.
func Parse(data []byte, ext string) (Settings, error) {
	var s Settings
	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		err = toml.Unmarshal(data, &s)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	case ".json":
		err = json.Unmarshal(data, &s)
	default:
		return Settings{}, fmt.Errorf("unsupported config format %q (use .toml, .yaml or .json)", ext)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("parse config: %w", err)
	}

	s.ApplyDefaults()
	if conflicts := s.Validate(); len(conflicts) > 0 {
		return Settings{}, fmt.Errorf("invalid config: %s", strings.Join(conflicts, "; "))
	}
	return s, nil
}
