package observability

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mgorshkov/bulk/internal/ports"
)

type PromObs struct {
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

func NewPromObs() *PromObs {
	commands := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bulk_commands_total",
		Help: "Total commands read from the input source.",
	})
	flushed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bulk_batches_flushed_total",
		Help: "Total batches flushed downstream.",
	})
	reports := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bulk_reports_written_total",
		Help: "Total report files written.",
	})
	archived := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bulk_batches_archived_total",
		Help: "Total batches stored in the archive database.",
	})
	published := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bulk_batches_published_total",
		Help: "Total batches published to the message broker.",
	})
	depth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bulk_block_depth",
		Help: "Current nesting depth of explicit command blocks.",
	})
	pending := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "bulk_pending_commands",
		Help: "Commands currently buffered in the batch processor.",
	})
	batchSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bulk_batch_size",
		Help:    "Number of commands per flushed batch.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	prometheus.MustRegister(commands, flushed, reports, archived, published, depth, pending, batchSize)

	return &PromObs{
		counters: map[string]prometheus.Counter{
			"bulk_commands_total":          commands,
			"bulk_batches_flushed_total":   flushed,
			"bulk_reports_written_total":   reports,
			"bulk_batches_archived_total":  archived,
			"bulk_batches_published_total": published,
		},
		gauges: map[string]prometheus.Gauge{
			"bulk_block_depth":      depth,
			"bulk_pending_commands": pending,
		},
		histos: map[string]prometheus.Observer{
			"bulk_batch_size": batchSize,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err != nil {
		log.Printf("ERROR: %s: %v", msg, err)
	}
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) ObserveBatchSize(name string, size float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(size)
	}
}

var _ ports.Observability = (*PromObs)(nil)
