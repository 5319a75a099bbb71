package bulk

import (
	"github.com/mgorshkov/bulk/internal/app/config"
)

// Config re-exports the root configuration struct so embedding projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// BatchConfig controls flush threshold, joiner, and batch prefix.
	BatchConfig = config.BatchConfig
	// BlocksConfig toggles `{`/`}` block recognition.
	BlocksConfig = config.BlocksConfig
	// ReportConfig configures the report file writer.
	ReportConfig = config.ReportConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// ArchiveConfig configures the optional Postgres batch archive.
	ArchiveConfig = config.ArchiveConfig
	// PublishConfig configures the optional Kafka batch publisher.
	PublishConfig = config.PublishConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// DefaultConfig returns a config driven by defaults and BULK_* environment
// variables only.
func DefaultConfig() *Config {
	return config.Default()
}
