// internal/control/process.go
package control

import (
	"os"

	"github.com/shirou/gopsutil/process"
)

// ProcessStats is the resource usage of this process.
type ProcessStats struct {
	CPUPercent float64 `json:"cpuPercent"`
	RSSBytes   uint64  `json:"rssBytes"`
}

func processStats() (ProcessStats, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return ProcessStats{}, err
	}

	cpu, err := p.CPUPercent()
	if err != nil {
		return ProcessStats{}, err
	}

	mem, err := p.MemoryInfo()
	if err != nil {
		return ProcessStats{}, err
	}

	return ProcessStats{CPUPercent: cpu, RSSBytes: mem.RSS}, nil
}
