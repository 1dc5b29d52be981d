package collector

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cycle outcomes.
const (
	outcomeDelivered      = "delivered"
	outcomeSampleFailed   = "sample_failed"
	outcomeDeliveryFailed = "delivery_failed"
)

var (
	cyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metricrelay_collector_cycles_total",
			Help: "Sample cycles by outcome",
		},
		[]string{"outcome"},
	)

	lastTotalMemory = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "metricrelay_collector_total_memory_kb",
			Help: "Total memory from the most recent sample",
		},
	)

	lastAvailableMemory = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "metricrelay_collector_available_memory_kb",
			Help: "Available memory from the most recent sample",
		},
	)

	lastCPUUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "metricrelay_collector_cpu_usage_percent",
			Help: "First logical CPU usage from the most recent sample",
		},
	)
)

func recordSample(s *Sample) {
	lastTotalMemory.Set(float64(s.TotalMemoryKB))
	lastAvailableMemory.Set(float64(s.AvailableMemoryKB))
	lastCPUUsage.Set(float64(s.CPUUsagePercent))
}
