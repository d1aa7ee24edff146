package benchmarking

import (
	"errors"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// HostTable is the table a Runner records the host into.
const HostTable = "bench_host"

// Host describes the machine a run was measured on.
type Host struct {
	RunID     string
	CPUModel  string
	Cores     int
	MemTotal  uint64
	GoVersion string
}

// CollectHost describes the current machine. Fields that cannot be read are
// left empty and reported in the returned error.
func CollectHost(runID string) (Host, error) {
	h := Host{
		RunID:     runID,
		GoVersion: runtime.Version(),
	}

	var errs []error

	infos, err := cpu.Info()
	if err != nil {
		errs = append(errs, err)
	} else if len(infos) > 0 {
		h.CPUModel = infos[0].ModelName
	}

	cores, err := cpu.Counts(true)
	if err != nil {
		errs = append(errs, err)
	}
	h.Cores = cores

	vm, err := mem.VirtualMemory()
	if err != nil {
		errs = append(errs, err)
	} else {
		h.MemTotal = vm.Total
	}

	return h, errors.Join(errs...)
}
