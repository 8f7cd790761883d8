package runtimeconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvFiles are loaded, when present, before a configuration file is parsed.
// Variables already set in the process environment win.
var EnvFiles = []string{".env", ".env.local"}

// Load reads a YAML configuration file on top of DefaultConfig. Environment
// references such as ${LAYOUT_DSN} are expanded before decoding.
func Load(path string) (Config, error) {
	if err := loadEnvFiles(); err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("layout config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes on top of DefaultConfig and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("layout config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnvFiles() error {
	for _, path := range EnvFiles {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("layout config: load %s: %w", path, err)
		}
	}
	return nil
}
