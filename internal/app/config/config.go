package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Batch   BatchConfig   `yaml:"batch"`
	Blocks  BlocksConfig  `yaml:"blocks"`
	Reports ReportConfig  `yaml:"reports"`
	Metrics MetricsConfig `yaml:"metrics"`
	Archive ArchiveConfig `yaml:"archive"`
	Publish PublishConfig `yaml:"publish"`
}

type BatchConfig struct {
	// Size is the flush threshold. It is normally supplied on the command
	// line and validated at pipeline construction, not here.
	Size      int    `yaml:"size"`
	Separator string `yaml:"separator"`
	Prefix    string `yaml:"prefix"`
}

type BlocksConfig struct {
	// Disabled removes the `{`/`}` recognizing front stage, giving the
	// plain size-only batching variant.
	Disabled bool `yaml:"disabled"`
}

type ReportConfig struct {
	Dir string `yaml:"dir"`
	// Terminal stops the chain at the report writer even when further
	// stages are configured.
	Terminal bool `yaml:"terminal"`
}

type MetricsConfig struct {
	// Addr enables the Prometheus endpoint when non-empty.
	Addr string `yaml:"addr"`
}

type ArchiveConfig struct {
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

type PublishConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Load reads YAML from disk, applies environment overrides, defaults, and
// validation. Missing file is not an error when path is empty: callers get a
// default config driven entirely by flags and environment.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns a config with environment overrides and defaults applied
// but no file read.
func Default() *Config {
	var cfg Config
	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("BULK_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
	if v := os.Getenv("BULK_REPORT_DIR"); v != "" {
		c.Reports.Dir = v
	}
	if v := os.Getenv("BULK_ARCHIVE_CONN_STRING"); v != "" {
		c.Archive.ConnString = v
	}
	if v := os.Getenv("BULK_KAFKA_BROKERS"); v != "" {
		c.Publish.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("BULK_KAFKA_TOPIC"); v != "" {
		c.Publish.Topic = v
	}
}

func (c *Config) applyDefaults() {
	if c.Batch.Separator == "" {
		c.Batch.Separator = ", "
	}
	if c.Batch.Prefix == "" {
		c.Batch.Prefix = "bulk: "
	}
	if c.Reports.Dir == "" {
		c.Reports.Dir = "."
	}
	if c.Archive.Table == "" {
		c.Archive.Table = "bulk_batches"
	}
}

func (c *Config) validate() error {
	if c.Batch.Size < 0 {
		return fmt.Errorf("batch.size must be positive")
	}
	if len(c.Publish.Brokers) > 0 && c.Publish.Topic == "" {
		return fmt.Errorf("publish.topic is required when publish.brokers is set")
	}
	if c.Publish.Topic != "" && len(c.Publish.Brokers) == 0 {
		return fmt.Errorf("publish.brokers is required when publish.topic is set")
	}
	return nil
}
