package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath      = "coclass.yaml"
	defaultInput     = "data/coclass_20190418.csv"
	defaultOutput    = "data/coclass.json"
	defaultDimension = "Funktionella system"
)

type Config struct {
	// Input is the semicolon separated classification table.
	Input string `yaml:"input"`
	// Output is replaced with the JSON tree on every run.
	Output string `yaml:"output"`

	SyntheticDimension string `yaml:"synthetic_dimension"`
	EnsureASCII        bool   `yaml:"ensure_ascii"`

	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func Default() *Config {
	return &Config{
		Input:              defaultInput,
		Output:             defaultOutput,
		SyntheticDimension: defaultDimension,
		EnsureASCII:        true,
		Server:             ServerConfig{Addr: ":8080"},
		Logging:            LoggingConfig{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults and then applies
// environment overrides. A missing file is not an error; a malformed
// override is.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := strings.TrimSpace(os.Getenv("COCLASS_INPUT")); v != "" {
		c.Input = v
	}
	if v := strings.TrimSpace(os.Getenv("COCLASS_OUTPUT")); v != "" {
		c.Output = v
	}
	if v := os.Getenv("COCLASS_SYNTHETIC_DIMENSION"); strings.TrimSpace(v) != "" {
		c.SyntheticDimension = v
	}
	if v := strings.TrimSpace(os.Getenv("COCLASS_ENSURE_ASCII")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COCLASS_ENSURE_ASCII: invalid boolean %q", v)
		}
		c.EnsureASCII = b
	}
	if v := strings.TrimSpace(os.Getenv("COCLASS_ADDR")); v != "" {
		if !strings.Contains(v, ":") {
			v = ":" + v
		}
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("COCLASS_LOG_LEVEL")); v != "" {
		c.Logging.Level = v
	}
	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return errors.New("input path is required")
	}
	if strings.TrimSpace(c.Output) == "" {
		return errors.New("output path is required")
	}
	if filepath.Clean(c.Input) == filepath.Clean(c.Output) {
		return fmt.Errorf("input and output are the same file: %s", c.Input)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}
