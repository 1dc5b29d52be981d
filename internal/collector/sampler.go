package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// ErrNoCPU is returned when the host reports no logical processors.
var ErrNoCPU = errors.New("no cpu reported by host")

// Sampler reads host metrics.
type Sampler interface {
	Sample(ctx context.Context) (*Sample, error)
}

// HostSampler reads the local machine through gopsutil. Each call queries
// the operating system again; nothing is cached between calls.
type HostSampler struct{}

// Compile-time guard.
var _ Sampler = (*HostSampler)(nil)

// NewHostSampler returns a Sampler for the local host.
func NewHostSampler() *HostSampler {
	return &HostSampler{}
}

// Sample reads total and available memory and the usage of the first
// logical CPU since the previous call.
func (h *HostSampler) Sample(ctx context.Context) (*Sample, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("read virtual memory: %w", err)
	}

	perCPU, err := cpu.PercentWithContext(ctx, 0, true)
	if err != nil {
		return nil, fmt.Errorf("read cpu usage: %w", err)
	}
	if len(perCPU) == 0 {
		return nil, ErrNoCPU
	}

	return &Sample{
		TotalMemoryKB:     vm.Total / 1024,
		AvailableMemoryKB: vm.Available / 1024,
		CPUUsagePercent:   float32(perCPU[0]),
	}, nil
}
