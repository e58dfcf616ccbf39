// internal/writer/status_writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/trdp-sim/internal/status"
)

// StatusWriter is the delivery-only contract for simulator status.
// It receives a snapshot and writes it verbatim.
type StatusWriter interface {
	WriteStatus(s status.Snapshot) error
}

// DeviceStatusWriter writes the status block into holding registers.
type DeviceStatusWriter struct {
	plan StatusPlan
	cli  endpointClient

	needFull bool
	last     []uint16
	nameRegs []uint16
}

// NewDeviceStatusWriter builds a status writer for one plan.
func NewDeviceStatusWriter(plan StatusPlan, cli endpointClient) (*DeviceStatusWriter, error) {
	if cli == nil {
		return nil, fmt.Errorf("status writer: missing client for endpoint %s", plan.Endpoint)
	}
	return &DeviceStatusWriter{
		plan:     plan,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
		nameRegs: status.EncodeDeviceName(plan.DeviceName),
	}, nil
}

// WriteStatus delivers a status snapshot into status memory.
// On any write failure, the next call re-asserts the full block.
func (sw *DeviceStatusWriter) WriteStatus(s status.Snapshot) error {
	if sw == nil {
		return errors.New("status writer: disabled")
	}

	regs := sw.fullBlockRegs(s)
	baseAddr := sw.baseAddr()

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if sw.needFull {
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, baseAddr, regs); err != nil {
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}
		sw.needFull = false
		sw.last = regs
		return nil
	}

	// ------------------------------------------------------------
	// Changed runs only. The name never changes after a full write.
	// ------------------------------------------------------------
	var errs []string
	for _, r := range changedRuns(sw.last[:status.SlotDeviceNameStart], regs[:status.SlotDeviceNameStart]) {
		if err := sw.cli.WriteRegisters(sw.plan.UnitID, baseAddr+uint16(r.start), regs[r.start:r.end]); err != nil {
			errs = append(errs, fmt.Sprintf("slots %d-%d write failed: %v", r.start, r.end-1, err))
			continue
		}
		copy(sw.last[r.start:r.end], regs[r.start:r.end])
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt; re-assert on next call.
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}
	return nil
}

func (sw *DeviceStatusWriter) baseAddr() uint16 {
	// Each simulator owns a fixed SlotsPerDevice block.
	return sw.plan.BaseSlot * status.SlotsPerDevice
}

func (sw *DeviceStatusWriter) fullBlockRegs(s status.Snapshot) []uint16 {
	regs := status.Encode(s)
	copy(regs[status.SlotDeviceNameStart:], sw.nameRegs)
	return regs
}

type run struct{ start, end int }

// changedRuns returns contiguous [start,end) ranges where a and b differ.
func changedRuns(a, b []uint16) []run {
	var out []run
	start := -1
	for i := range b {
		diff := i >= len(a) || a[i] != b[i]
		switch {
		case diff && start < 0:
			start = i
		case !diff && start >= 0:
			out = append(out, run{start, i})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, run{start, len(b)})
	}
	return out
}
