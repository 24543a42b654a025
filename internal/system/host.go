package system

import (
	"context"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostStats is a snapshot of host resources used to size the frame worker
// pool and to report memory pressure after an export.
type HostStats struct {
	LogicalCPUs int
	CPUPercent  float64
	TotalMemory uint64
	UsedPercent float64
}

// ReadHostStats samples the host. Fields that cannot be read stay zero;
// LogicalCPUs falls back to runtime.NumCPU.
func ReadHostStats(ctx context.Context) HostStats {
	st := HostStats{LogicalCPUs: runtime.NumCPU()}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil && n > 0 {
		st.LogicalCPUs = n
	}
	if pct, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pct) > 0 {
		st.CPUPercent = pct[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		st.TotalMemory = vm.Total
		st.UsedPercent = vm.UsedPercent
	}
	return st
}

// Workers picks a worker count for frame rendering: the requested value when
// positive, otherwise one per logical CPU, halved under memory pressure.
func (h HostStats) Workers(requested int) int {
	if requested > 0 {
		return requested
	}
	n := max(h.LogicalCPUs, 1)
	if h.UsedPercent > 85 && n > 1 {
		n /= 2
	}
	return n
}
