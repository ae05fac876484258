package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteTemplate writes the default configuration as YAML to path.
// An existing file is kept unless overwrite is set.
func WriteTemplate(path string, overwrite bool) (bool, error) {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return false, nil
	}
	data, err := yaml.Marshal(Defaults())
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return false, fmt.Errorf("write config %s: %w", path, err)
	}
	return true, nil
}
