package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

func loadYAML(path string, out any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(b, out)
}

// Load reads a YAML config on top of Default. Keys missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	c := Default()
	if err := loadYAML(path, &c); err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &c, nil
}
