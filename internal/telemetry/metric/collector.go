package metric

import "github.com/prometheus/client_golang/prometheus"

// WorldCollector reports the size of the world a gateway serves,
// reading the counts at scrape time.
type WorldCollector struct {
	counts func() map[string]int
	desc   *prometheus.Desc
}

// NewWorldCollector creates a collector over the given count function.
// Keys of the returned map become the "kind" label.
func NewWorldCollector(counts func() map[string]int) *WorldCollector {
	return &WorldCollector{
		counts: counts,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "gateway", "world_records"),
			"Records held by the served world, by kind.",
			[]string{"kind"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *WorldCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *WorldCollector) Collect(ch chan<- prometheus.Metric) {
	for kind, n := range c.counts() {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(n), kind)
	}
}
