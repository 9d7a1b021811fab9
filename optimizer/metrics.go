package optimizer

import "github.com/prometheus/client_golang/prometheus"

func newCampaignDurationMetric() prometheus.Histogram {
	h := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bpsrmon_ga_campaign_duration_seconds",
		Help:    "Duration of a single GA campaign run.",
		Buckets: prometheus.DefBuckets,
	})

	prometheus.MustRegister(h)

	return h
}
