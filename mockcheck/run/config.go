package run

import (
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// Config is the optional .mockcheck.yaml file.
type Config struct {
	// Exclude lists doublestar patterns for files to skip.
	Exclude []string `yaml:"exclude"`
	// Strict treats warnings as errors.
	Strict bool `yaml:"strict"`
}

// LoadConfig reads a config file. When required is false a missing file
// yields the zero Config.
func LoadConfig(fileSys FileSystem, path string, required bool) (Config, error) {
	var cfg Config

	data, err := fileSys.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}

		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return cfg, nil
}

// unexported constants.
const (
	configEnv         = "MOCKCHECK_CONFIG"
	defaultConfigPath = ".mockcheck.yaml"
)
