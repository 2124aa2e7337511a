package metric

import "github.com/prometheus/client_golang/prometheus"

// MirrorCollector reports the number of mirrored objects at scrape time.
type MirrorCollector struct {
	size func() int
	desc *prometheus.Desc
}

// NewMirrorCollector creates a collector that calls size on every scrape.
func NewMirrorCollector(size func() int) *MirrorCollector {
	return &MirrorCollector{
		size: size,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "mirror_objects"),
			"Sessions and claims held in the replicated mirror.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *MirrorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *MirrorCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(c.size()))
}
