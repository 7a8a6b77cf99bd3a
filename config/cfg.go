// Package config loads the pageforge configuration file.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	StoreConfig struct {
		Driver string `yaml:"driver" validate:"required,oneof=badger sqlite memory"`
		Path   string `yaml:"path" validate:"required_unless=Driver memory"`
	}

	ServerConfig struct {
		Addr  string  `yaml:"addr" validate:"required,hostname_port"`
		Scale float64 `yaml:"scale" validate:"gt=0,lte=4"`
	}

	PrinterConfig struct {
		Headless bool          `yaml:"headless"`
		Timeout  time.Duration `yaml:"timeout" validate:"gt=0"`
		ExecPath string        `yaml:"exec_path,omitempty"`
		Flags    []string      `yaml:"flags" validate:"dive,required"`
	}

	ExportConfig struct {
		Output string `yaml:"output" validate:"required"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Store   StoreConfig   `yaml:"store"`
		Logging LoggingConfig `yaml:"logging"`
		Server  ServerConfig  `yaml:"server"`
		Printer PrinterConfig `yaml:"printer"`
		Export  ExportConfig  `yaml:"export"`
	}
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are accepted
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := validate.Struct(cfg); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at path on top of
// the built-in defaults and validates the result. An empty path yields the
// defaults.
func LoadConfiguration(path string) (*Config, error) {
	haveFile := len(path) > 0

	cfg, err := unmarshalConfig(ConfigTmpl, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare returns the default configuration file.
func Prepare() []byte {
	return bytes.Clone(ConfigTmpl)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
