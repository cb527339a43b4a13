package system

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
)

// MemoryBudgetFraction is the share of available RAM a decoded sequence may
// occupy before the loader warns about it.
const MemoryBudgetFraction = 0.5

// MemoryReport describes a decoded-size estimate against host memory.
type MemoryReport struct {
	Required  uint64
	Available uint64
	WithinCap bool
}

func (r MemoryReport) String() string {
	return fmt.Sprintf("%.1f MiB required, %.1f MiB available", mib(r.Required), mib(r.Available))
}

// CheckMemoryBudget compares the bytes a decoded sequence will hold with
// the memory currently available on the host.
func CheckMemoryBudget(required uint64) (MemoryReport, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return MemoryReport{Required: required}, fmt.Errorf("read host memory: %w", err)
	}
	return MemoryReport{
		Required:  required,
		Available: vm.Available,
		WithinCap: float64(required) <= float64(vm.Available)*MemoryBudgetFraction,
	}, nil
}

// DecodedSize estimates the RGBA footprint of count frames of w x h.
func DecodedSize(w, h, count int) uint64 {
	if w <= 0 || h <= 0 || count <= 0 {
		return 0
	}
	return uint64(w) * uint64(h) * 4 * uint64(count)
}

func mib(b uint64) float64 {
	return float64(b) / (1 << 20)
}
