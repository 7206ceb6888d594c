package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"

	CardKindVariant = "variant"
	CardKindBase    = "base"
)

// ListingMetrics records listing expansion behavior.
type ListingMetrics struct {
	fetchDuration prometheus.Histogram
	fetches       *prometheus.CounterVec
	cards         *prometheus.CounterVec
}

// NewListingMetrics registers the listing metrics on the provided registerer.
func NewListingMetrics(reg prometheus.Registerer) *ListingMetrics {
	if reg == nil {
		return &ListingMetrics{}
	}
	fetchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "listing_detail_fetch_duration_seconds",
		Help:    "Duration of product detail fetches made while expanding listings.",
		Buckets: prometheus.DefBuckets,
	})
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_detail_fetch_total",
		Help: "Product detail fetches made while expanding listings, by outcome.",
	}, []string{"outcome"})
	cards := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "listing_cards_emitted_total",
		Help: "Listing cards emitted, by kind.",
	}, []string{"kind"})
	reg.MustRegister(fetchDuration, fetches, cards)
	return &ListingMetrics{
		fetchDuration: fetchDuration,
		fetches:       fetches,
		cards:         cards,
	}
}

// ObserveFetch records one detail fetch.
func (m *ListingMetrics) ObserveFetch(duration time.Duration, err error) {
	if m == nil || m.fetchDuration == nil {
		return
	}
	m.fetchDuration.Observe(duration.Seconds())
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.fetches.WithLabelValues(outcome).Inc()
}

// AddCards counts emitted cards of one kind.
func (m *ListingMetrics) AddCards(kind string, n int) {
	if m == nil || m.cards == nil || n <= 0 {
		return
	}
	m.cards.WithLabelValues(normalizeLabel(kind)).Add(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
