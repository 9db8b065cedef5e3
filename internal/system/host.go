package system

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostInfo describes the machine a run was measured on.
type HostInfo struct {
	CPUModel      string
	LogicalCores  int
	PhysicalCores int
	TotalMemMB    uint64
	AvailMemMB    uint64
}

// GetHostInfo queries CPU and memory through gopsutil. Fields that cannot be
// read are left zero; an error is returned only if nothing could be read.
func GetHostInfo() (HostInfo, error) {
	var info HostInfo
	var firstErr error

	if n, err := cpu.Counts(true); err == nil {
		info.LogicalCores = n
	} else {
		firstErr = err
	}

	if n, err := cpu.Counts(false); err == nil {
		info.PhysicalCores = n
	}

	if stats, err := cpu.Info(); err == nil && len(stats) > 0 {
		info.CPUModel = stats[0].ModelName
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemMB = vm.Total / 1024 / 1024
		info.AvailMemMB = vm.Available / 1024 / 1024
	} else if firstErr != nil {
		return info, fmt.Errorf("host info: %w", firstErr)
	}

	return info, nil
}

func (h HostInfo) String() string {
	model := h.CPUModel
	if model == "" {
		model = "unknown CPU"
	}
	return fmt.Sprintf("%s, %d/%d cores, %d/%d MB free",
		model, h.PhysicalCores, h.LogicalCores, h.AvailMemMB, h.TotalMemMB)
}

// DefaultWorkers is the worker count used when none is configured: one per
// logical core.
func DefaultWorkers() int {
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		return n
	}
	return runtime.NumCPU()
}
