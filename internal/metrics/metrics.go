package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"SearchRerank/internal/ports"
	"SearchRerank/internal/rerank"
)

const namespace = "searchrerank"

// Rerank stage labels.
const (
	StageInput     = "input"
	StageQuality   = "quality"
	StageThreshold = "threshold"
	StageDomainCap = "domain_cap"
	StageDuplicate = "duplicate"
	StageOutput    = "output"
)

// Collectors groups the search and rerank metrics.
type Collectors struct {
	RerankResults  *prometheus.CounterVec
	QualityDrops   *prometheus.CounterVec
	ProviderFetch  *prometheus.CounterVec
	ProviderResult *prometheus.CounterVec
}

var (
	_ ports.FetchObserver  = (*Collectors)(nil)
	_ ports.RerankObserver = (*Collectors)(nil)
)

// New builds the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		RerankResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rerank_results_total",
				Help:      "Results entering (input), removed by each stage, or leaving (output) the reranker",
			},
			[]string{"stage"},
		),
		QualityDrops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "quality_drops_total",
				Help:      "Results rejected by the quality filter, per rule",
			},
			[]string{"rule"},
		),
		ProviderFetch: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_fetch_total",
				Help:      "Provider fetches by outcome",
			},
			[]string{"provider", "status"},
		),
		ProviderResult: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "provider_results_total",
				Help:      "Raw results returned by providers",
			},
			[]string{"provider"},
		),
	}

	for _, col := range []prometheus.Collector{c.RerankResults, c.QualityDrops, c.ProviderFetch, c.ProviderResult} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ObserveFetch implements ports.FetchObserver.
func (c *Collectors) ObserveFetch(provider string, results int, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.ProviderFetch.WithLabelValues(provider, status).Inc()
	c.ProviderResult.WithLabelValues(provider).Add(float64(results))
}

// ObserveRerank implements ports.RerankObserver.
func (c *Collectors) ObserveRerank(stats rerank.Stats) {
	c.RerankResults.WithLabelValues(StageInput).Add(float64(stats.Input))
	c.RerankResults.WithLabelValues(StageQuality).Add(float64(stats.Filtered))
	c.RerankResults.WithLabelValues(StageThreshold).Add(float64(stats.BelowThreshold))
	c.RerankResults.WithLabelValues(StageDomainCap).Add(float64(stats.DomainCapped))
	c.RerankResults.WithLabelValues(StageDuplicate).Add(float64(stats.Duplicates))
	c.RerankResults.WithLabelValues(StageOutput).Add(float64(stats.Output))
	for rule, n := range stats.DropsByRule {
		c.QualityDrops.WithLabelValues(string(rule)).Add(float64(n))
	}
}
