// internal/status/snapshot.go
package status

import (
	"strings"

	"github.com/tamzrod/trdp-sim/internal/metrics"
)

// Snapshot represents exactly what the writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	Flags          uint16
	EndpointCount  uint16
	SecondsInError uint16

	PdSent             uint32
	PdReceived         uint32
	MdRequestsSent     uint32
	MdRepliesReceived  uint32
	MdRequestsReceived uint32
	MdRepliesSent      uint32
}

// FromMetrics folds a metrics snapshot into status totals.
// Counters saturate at 32 bits. SecondsInError is owned by the caller.
func FromMetrics(m metrics.Snapshot) Snapshot {
	var s Snapshot

	s.Health = HealthFor(m.AdapterState)
	if m.SimulatorRunning {
		s.Flags |= FlagRunning
	}
	if m.AdapterInitialized {
		s.Flags |= FlagAdapterInitialized
	}

	n := len(m.PdPublishers) + len(m.PdSubscribers) + len(m.MdSenders) + len(m.MdListeners)
	s.EndpointCount = uint16(min(n, 0xFFFF))

	var pdSent, pdRecv, reqSent, repRecv, reqRecv, repSent uint64
	for _, p := range m.PdPublishers {
		pdSent += p.PacketsSent
	}
	for _, p := range m.PdSubscribers {
		pdRecv += p.PacketsReceived
	}
	for _, p := range m.MdSenders {
		reqSent += p.RequestsSent
		repRecv += p.RepliesReceived
	}
	for _, p := range m.MdListeners {
		reqRecv += p.RequestsReceived
		repSent += p.RepliesSent
	}

	s.PdSent = sat32(pdSent)
	s.PdReceived = sat32(pdRecv)
	s.MdRequestsSent = sat32(reqSent)
	s.MdRepliesReceived = sat32(repRecv)
	s.MdRequestsReceived = sat32(reqRecv)
	s.MdRepliesSent = sat32(repSent)
	return s
}

// HealthFor maps a lifecycle state string onto a health code.
func HealthFor(state string) uint16 {
	switch {
	case state == metrics.StateRunning:
		return HealthOK
	case state == metrics.StateInitializing:
		return HealthStarting
	case state == metrics.StateStopping, state == metrics.StateStopped:
		return HealthStopped
	case strings.HasPrefix(state, metrics.StateErrorPrefix):
		return HealthError
	default:
		return HealthUnknown
	}
}

func sat32(v uint64) uint32 {
	if v > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(v)
}
