package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory and in
// ConfigDir.
const FileName = "flattool.yaml"

// Save writes the settings as YAML and returns the path written. An empty
// path means FileName in ConfigDir. The map path is chosen per run and is
// left out.
func (c *Config) Save(path string) (string, error) {
	if path == "" {
		path = filepath.Join(ConfigDir(), FileName)
	}

	out := *c
	out.Map.Path = ""
	data, err := yaml.Marshal(&out)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	// Write next to the target and rename so a failed write keeps the old file.
	tmp, err := os.CreateTemp(dir, ".flattool-*.yaml")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("saving config to %s: %w", path, err)
	}
	return path, nil
}
