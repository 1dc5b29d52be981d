package collector

import (
	"fmt"
	"strconv"
)

// Sample is one reading of host state. It is built fresh every cycle and
// never stored.
type Sample struct {
	TotalMemoryKB     uint64
	AvailableMemoryKB uint64
	// CPUUsagePercent is the usage of the first logical CPU. It is passed
	// through as reported and not clamped to [0, 100].
	CPUUsagePercent float32
}

// Format renders the three-line payload sent to the Sink. The CPU value
// uses the shortest decimal form that round-trips a float32.
func (s *Sample) Format() string {
	return fmt.Sprintf("Total memory: %d KB\nAvailable memory: %d KB\nCPU load: %s%%\n",
		s.TotalMemoryKB,
		s.AvailableMemoryKB,
		strconv.FormatFloat(float64(s.CPUUsagePercent), 'f', -1, 32),
	)
}
