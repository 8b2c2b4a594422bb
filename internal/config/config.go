package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/fxnlabs/bitonic/internal/bitonic"
	"github.com/fxnlabs/bitonic/internal/gpu"
	"github.com/fxnlabs/bitonic/internal/network"
	"gopkg.in/yaml.v3"
)

// MaxPow bounds sort.pow; 2^30 int32 values already need 4GB.
const MaxPow = 30

type Config struct {
	Logger struct {
		Verbosity string `yaml:"verbosity"`
		Encoding  string `yaml:"encoding"`
	} `yaml:"logger"`
	Device struct {
		Backend          string `yaml:"backend"`
		Workers          int    `yaml:"workers"`
		MaxWorkGroupSize int    `yaml:"maxWorkGroupSize"`
		LocalMemSize     int64  `yaml:"localMemSize"`
		GlobalMemory     int64  `yaml:"globalMemory"`
	} `yaml:"device"`
	Sort struct {
		Variant         string `yaml:"variant"`
		Pow             int    `yaml:"pow"`
		ElementsPerItem int    `yaml:"elementsPerItem"`
		SIMDWidth       int    `yaml:"simdWidth"`
	} `yaml:"sort"`
	Bench struct {
		Runs     int      `yaml:"runs"`
		Seed     uint64   `yaml:"seed"`
		Variants []string `yaml:"variants"`
	} `yaml:"bench"`
	Metrics struct {
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var c Config
	c.Logger.Verbosity = "info"
	c.Logger.Encoding = "console"
	c.Device.Backend = string(gpu.KindAuto)
	c.Device.MaxWorkGroupSize = 256
	c.Device.LocalMemSize = 64 * 1024
	c.Sort.Variant = bitonic.Local.String()
	c.Sort.Pow = 12
	c.Sort.ElementsPerItem = 2
	c.Bench.Runs = 1
	return &c
}

// LoadConfig reads the yaml file at path over the defaults and validates
// the result. An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate checks every field and returns all problems found.
func (c *Config) Validate() error {
	var errs []error

	if c.Logger.Encoding != "json" && c.Logger.Encoding != "console" {
		errs = append(errs, fmt.Errorf("logger.encoding must be json or console, got %q", c.Logger.Encoding))
	}
	if _, err := gpu.ParseKind(c.Device.Backend); err != nil {
		errs = append(errs, fmt.Errorf("device.backend: %w", err))
	}
	if c.Device.Workers < 0 {
		errs = append(errs, fmt.Errorf("device.workers must not be negative, got %d", c.Device.Workers))
	}
	if c.Device.MaxWorkGroupSize < 0 {
		errs = append(errs, fmt.Errorf("device.maxWorkGroupSize must not be negative, got %d", c.Device.MaxWorkGroupSize))
	}
	if c.Device.LocalMemSize < 0 || c.Device.GlobalMemory < 0 {
		errs = append(errs, errors.New("device memory sizes must not be negative"))
	}
	if _, err := bitonic.ParseVariant(c.Sort.Variant); err != nil {
		errs = append(errs, fmt.Errorf("sort.variant: %w", err))
	}
	if c.Sort.Pow < 1 || c.Sort.Pow > MaxPow {
		errs = append(errs, fmt.Errorf("sort.pow must be in [1, %d], got %d", MaxPow, c.Sort.Pow))
	}
	if c.Sort.ElementsPerItem != 0 && (c.Sort.ElementsPerItem < 2 || !network.IsPowerOf2(c.Sort.ElementsPerItem)) {
		errs = append(errs, fmt.Errorf("sort.elementsPerItem must be 0 or a power of two >= 2, got %d", c.Sort.ElementsPerItem))
	}
	if c.Sort.SIMDWidth != 0 && !network.IsPowerOf2(c.Sort.SIMDWidth) {
		errs = append(errs, fmt.Errorf("sort.simdWidth must be 0 or a power of two, got %d", c.Sort.SIMDWidth))
	}
	if c.Bench.Runs < 1 {
		errs = append(errs, fmt.Errorf("bench.runs must be at least 1, got %d", c.Bench.Runs))
	}
	if _, err := c.BenchVariants(); err != nil {
		errs = append(errs, fmt.Errorf("bench.variants: %w", err))
	}

	return errors.Join(errs...)
}

// DeviceKind returns the configured backend kind.
func (c *Config) DeviceKind() (gpu.Kind, error) {
	return gpu.ParseKind(c.Device.Backend)
}

// DeviceOptions returns the device shape. Zero fields fall back to the
// backend defaults.
func (c *Config) DeviceOptions() gpu.Options {
	return gpu.Options{
		Workers:          c.Device.Workers,
		MaxWorkGroupSize: c.Device.MaxWorkGroupSize,
		LocalMemSize:     c.Device.LocalMemSize,
		GlobalMemory:     c.Device.GlobalMemory,
		SIMDWidth:        c.Sort.SIMDWidth,
	}
}

// SortOptions returns the sorter options for the configured variant.
func (c *Config) SortOptions() (bitonic.Options, error) {
	variant, err := bitonic.ParseVariant(c.Sort.Variant)
	if err != nil {
		return bitonic.Options{}, err
	}
	return bitonic.Options{
		Variant:         variant,
		ElementsPerItem: c.Sort.ElementsPerItem,
		SIMDWidth:       c.Sort.SIMDWidth,
	}, nil
}

// BenchVariants returns the variants to benchmark, every variant when none
// is configured.
func (c *Config) BenchVariants() ([]bitonic.Variant, error) {
	if len(c.Bench.Variants) == 0 {
		return bitonic.Variants(), nil
	}
	variants := make([]bitonic.Variant, 0, len(c.Bench.Variants))
	for _, name := range c.Bench.Variants {
		v, err := bitonic.ParseVariant(name)
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, nil
}
