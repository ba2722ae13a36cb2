// Package config loads the YAML settings for an order batch.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultURL            = "http://localhost:8080"
	DefaultLedgerPath     = "orderTracking.json"
	DefaultConnectTimeout = time.Minute
)

type TargetConfig struct {
	URL            string            `yaml:"url"`
	Version        string            `yaml:"version"`
	ConnectTimeout time.Duration     `yaml:"connectTimeout"`
	RequestTimeout time.Duration     `yaml:"requestTimeout"`
	KeepAlive      bool              `yaml:"keepAlive"`
	Compression    bool              `yaml:"compression"`
	Redirect       bool              `yaml:"redirect"`
	Headers        map[string]string `yaml:"headers,omitempty"`
}

type LedgerConfig struct {
	Path        string `yaml:"path"`
	ScratchDir  string `yaml:"scratchDir"`
	KeepScratch bool   `yaml:"keepScratch"`
}

type LogConfig struct {
	ToStdout bool   `yaml:"toStdout"`
	ToFile   bool   `yaml:"toFile"`
	FilePath string `yaml:"filePath"`
	Level    string `yaml:"level"`
}

type Config struct {
	Target      *TargetConfig  `yaml:"target"`
	Orders      map[string]int `yaml:"orders"`
	Ledger      *LedgerConfig  `yaml:"ledger"`
	Concurrency int            `yaml:"concurrency"`
	Log         *LogConfig     `yaml:"log"`
}

// DefaultOrders is the produce batch submitted when nothing else is configured.
func DefaultOrders() map[string]int {
	return map[string]int{
		"apples":      500,
		"oranges":     1000,
		"bananas":     750,
		"carrots":     2000,
		"cantaloupes": 100,
	}
}

// Default returns a fully populated config with the built-in settings.
func Default() *Config {
	cfg := &Config{Orders: DefaultOrders()}
	cfg.ApplyDefaults()
	return cfg
}

// Load reads the YAML file at path and fills in anything it leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config %s", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "unable to parse config %s", path)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Write encodes cfg as YAML at path, creating parent directories.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "unable to create config directory")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create config %s", path)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return errors.Wrapf(err, "unable to encode config %s", path)
	}
	return enc.Close()
}

// ApplyDefaults fills zero values. Orders are left alone.
func (c *Config) ApplyDefaults() {
	if c.Target == nil {
		c.Target = &TargetConfig{KeepAlive: true}
	}
	if c.Target.URL == "" {
		c.Target.URL = DefaultURL
	}
	if c.Target.Version == "" {
		c.Target.Version = "1.1"
	}
	if c.Target.ConnectTimeout == 0 {
		c.Target.ConnectTimeout = DefaultConnectTimeout
	}
	if c.Ledger == nil {
		c.Ledger = &LedgerConfig{}
	}
	if c.Ledger.Path == "" {
		c.Ledger.Path = DefaultLedgerPath
	}
	if c.Log == nil {
		c.Log = &LogConfig{ToStdout: true}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.ToFile && c.Log.FilePath == "" {
		c.Log.FilePath = "ordertrack.log"
	}
}

var validVersions = map[string]bool{"1.1": true, "2": true}

// Validate reports the first setting that would make a batch meaningless.
func (c *Config) Validate() error {
	if len(c.Orders) == 0 {
		return errors.New("at least one order is required")
	}
	for name, qty := range c.Orders {
		if name == "" {
			return errors.New("order name must not be empty")
		}
		if qty < 0 {
			return errors.Errorf("order %q has negative quantity %d", name, qty)
		}
	}
	u, err := url.Parse(c.Target.URL)
	if err != nil {
		return errors.Wrapf(err, "invalid target url %q", c.Target.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.Errorf("target url %q must be http or https", c.Target.URL)
	}
	if !validVersions[c.Target.Version] {
		return errors.Errorf("invalid http version %q, valid versions: 1.1, 2", c.Target.Version)
	}
	if c.Target.ConnectTimeout < 0 || c.Target.RequestTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	return nil
}
