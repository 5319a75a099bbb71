package bulk

import (
	"io"
	"time"

	base "github.com/mgorshkov/bulk/pkg/bulk"
)

// Re-exported errors for convenience.
var (
	ErrChannelStageClosed = base.ErrChannelStageClosed
	ErrFeederClosed       = base.ErrFeederClosed
	ErrInvalidBatchSize   = base.ErrInvalidBatchSize
)

// Type aliases so consumers can import github.com/mgorshkov/bulk directly.
type (
	Config          = base.Config
	BatchConfig     = base.BatchConfig
	BlocksConfig    = base.BlocksConfig
	ReportConfig    = base.ReportConfig
	MetricsConfig   = base.MetricsConfig
	ArchiveConfig   = base.ArchiveConfig
	PublishConfig   = base.PublishConfig
	Flow            = base.Flow
	FlowOption      = base.FlowOption
	StreamInOption  = base.StreamInOption
	StreamOutOption = base.StreamOutOption
	Runtime         = base.Runtime
	RuntimeOption   = base.RuntimeOption
	Feeder          = base.Feeder
	FeederConfig    = base.FeederConfig
	Command         = base.Command
	CommandFunc     = base.CommandFunc
	Stage           = base.Stage
	Closer          = base.Closer
	Observability   = base.Observability
	Field           = base.Field
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

func DefaultConfig() *Config {
	return base.DefaultConfig()
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...RuntimeOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func StreamInReader(r io.Reader) StreamInOption {
	return base.StreamInReader(r)
}

func StreamInClock(clock func() time.Time) StreamInOption {
	return base.StreamInClock(clock)
}

func StreamInObservability(obs Observability) StreamInOption {
	return base.StreamInObservability(obs)
}

func StreamOutWriter(w io.Writer) StreamOutOption {
	return base.StreamOutWriter(w)
}

func StreamOutStage(s Stage) StreamOutOption {
	return base.StreamOutStage(s)
}

func StreamOutCallback(name string, fn CommandFunc) StreamOutOption {
	return base.StreamOutCallback(name, fn)
}

// Runtime and options.
func NewRuntime(cfg *Config, opts ...RuntimeOption) (*Runtime, error) {
	return base.NewRuntime(cfg, opts...)
}

func WithInput(r io.Reader) RuntimeOption {
	return base.WithInput(r)
}

func WithOutput(w io.Writer) RuntimeOption {
	return base.WithOutput(w)
}

func WithObservability(obs Observability) RuntimeOption {
	return base.WithObservability(obs)
}

func WithTailStage(s Stage) RuntimeOption {
	return base.WithTailStage(s)
}

func WithClock(clock func() time.Time) RuntimeOption {
	return base.WithClock(clock)
}

// Stage adapters.
func NewCallbackStage(name string, fn CommandFunc) Stage {
	return base.NewCallbackStage(name, fn)
}

func NewChannelStage(name string, buffer int) (Stage, <-chan Command, func()) {
	return base.NewChannelStage(name, buffer)
}

// Feeder.
func NewFeeder(cfg *FeederConfig, sink CommandFunc) (*Feeder, error) {
	return base.NewFeeder(cfg, sink)
}
