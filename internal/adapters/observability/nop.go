package observability

import "github.com/mgorshkov/bulk/internal/ports"

// NopObs discards all metrics and logs. It is the default backend when no
// metrics endpoint is configured, so stages never need nil checks.
type NopObs struct{}

func NewNop() *NopObs { return &NopObs{} }

func (NopObs) LogInfo(string, ...ports.Field)         {}
func (NopObs) LogError(string, error, ...ports.Field) {}
func (NopObs) IncCounter(string, float64)             {}
func (NopObs) SetGauge(string, float64)               {}
func (NopObs) ObserveBatchSize(string, float64)       {}

var _ ports.Observability = NopObs{}
