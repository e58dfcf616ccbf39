// internal/metrics/metrics.go
package metrics

import (
	"sort"
	"sync"
)

// Lifecycle state strings reported as AdapterState.
const (
	StateIdle         = "Idle"
	StateInitializing = "Initializing"
	StateRunning      = "Running"
	StateStopping     = "Stopping"
	StateStopped      = "Stopped"
	StateErrorPrefix  = "Error: "
)

type PdPublisherStats struct {
	Name        string `json:"name"`
	PacketsSent uint64 `json:"packetsSent"`
}

type PdSubscriberStats struct {
	Name            string `json:"name"`
	PacketsReceived uint64 `json:"packetsReceived"`
}

type MdSenderStats struct {
	Name            string `json:"name"`
	RequestsSent    uint64 `json:"requestsSent"`
	RepliesReceived uint64 `json:"repliesReceived"`
}

type MdListenerStats struct {
	Name             string `json:"name"`
	RequestsReceived uint64 `json:"requestsReceived"`
	RepliesSent      uint64 `json:"repliesSent"`
}

// Snapshot is an immutable copy of all counters and lifecycle flags.
// Lists are ordered by name.
type Snapshot struct {
	SimulatorRunning   bool                `json:"simulatorRunning"`
	AdapterInitialized bool                `json:"adapterInitialized"`
	AdapterState       string              `json:"adapterState"`
	PdPublishers       []PdPublisherStats  `json:"pdPublishers"`
	PdSubscribers      []PdSubscriberStats `json:"pdSubscribers"`
	MdSenders          []MdSenderStats     `json:"mdSenders"`
	MdListeners        []MdListenerStats   `json:"mdListeners"`
}

// IsError reports whether the snapshot carries an error state.
func (s Snapshot) IsError() bool {
	return len(s.AdapterState) >= len(StateErrorPrefix) &&
		s.AdapterState[:len(StateErrorPrefix)] == StateErrorPrefix
}

// Aggregator holds per-endpoint counters and simulator lifecycle state.
// Safe for concurrent use; every operation takes one short lock.
type Aggregator struct {
	mu sync.Mutex

	simulatorRunning   bool
	adapterInitialized bool
	adapterState       string

	pdPublishers  map[string]*PdPublisherStats
	pdSubscribers map[string]*PdSubscriberStats
	mdSenders     map[string]*MdSenderStats
	mdListeners   map[string]*MdListenerStats
}

// New creates an aggregator in Idle state.
func New() *Aggregator {
	a := &Aggregator{}
	a.Reset()
	return a
}

// Reset drops all counters and returns to Idle.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.simulatorRunning = false
	a.adapterInitialized = false
	a.adapterState = StateIdle
	a.pdPublishers = make(map[string]*PdPublisherStats)
	a.pdSubscribers = make(map[string]*PdSubscriberStats)
	a.mdSenders = make(map[string]*MdSenderStats)
	a.mdListeners = make(map[string]*MdListenerStats)
}

func (a *Aggregator) SetSimulatorRunning(running bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.simulatorRunning = running
}

func (a *Aggregator) SetAdapterStatus(initialized bool, state string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.adapterInitialized = initialized
	a.adapterState = state
}

// AdapterState returns the current lifecycle string.
func (a *Aggregator) AdapterState() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.adapterState
}

// ---- endpoint registration ----
// Registering creates a zero entry so idle endpoints still show up.

func (a *Aggregator) RegisterPdPublisher(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.publisher(name)
}

func (a *Aggregator) RegisterPdSubscriber(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subscriber(name)
}

func (a *Aggregator) RegisterMdSender(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sender(name)
}

func (a *Aggregator) RegisterMdListener(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listener(name)
}

// ---- counters ----

func (a *Aggregator) RecordPdPublish(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.publisher(name).PacketsSent++
}

func (a *Aggregator) RecordPdReceive(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subscriber(name).PacketsReceived++
}

func (a *Aggregator) RecordMdRequestSent(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sender(name).RequestsSent++
}

func (a *Aggregator) RecordMdReplyReceived(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sender(name).RepliesReceived++
}

func (a *Aggregator) RecordMdRequestReceived(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listener(name).RequestsReceived++
}

func (a *Aggregator) RecordMdReplySent(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listener(name).RepliesSent++
}

// Snapshot copies out every counter under one lock.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	snap := Snapshot{
		SimulatorRunning:   a.simulatorRunning,
		AdapterInitialized: a.adapterInitialized,
		AdapterState:       a.adapterState,
		PdPublishers:       make([]PdPublisherStats, 0, len(a.pdPublishers)),
		PdSubscribers:      make([]PdSubscriberStats, 0, len(a.pdSubscribers)),
		MdSenders:          make([]MdSenderStats, 0, len(a.mdSenders)),
		MdListeners:        make([]MdListenerStats, 0, len(a.mdListeners)),
	}

	for _, name := range sortedKeys(a.pdPublishers) {
		snap.PdPublishers = append(snap.PdPublishers, *a.pdPublishers[name])
	}
	for _, name := range sortedKeys(a.pdSubscribers) {
		snap.PdSubscribers = append(snap.PdSubscribers, *a.pdSubscribers[name])
	}
	for _, name := range sortedKeys(a.mdSenders) {
		snap.MdSenders = append(snap.MdSenders, *a.mdSenders[name])
	}
	for _, name := range sortedKeys(a.mdListeners) {
		snap.MdListeners = append(snap.MdListeners, *a.mdListeners[name])
	}

	return snap
}

// ---- helpers (caller holds mu) ----

func (a *Aggregator) publisher(name string) *PdPublisherStats {
	e, ok := a.pdPublishers[name]
	if !ok {
		e = &PdPublisherStats{Name: name}
		a.pdPublishers[name] = e
	}
	return e
}

func (a *Aggregator) subscriber(name string) *PdSubscriberStats {
	e, ok := a.pdSubscribers[name]
	if !ok {
		e = &PdSubscriberStats{Name: name}
		a.pdSubscribers[name] = e
	}
	return e
}

func (a *Aggregator) sender(name string) *MdSenderStats {
	e, ok := a.mdSenders[name]
	if !ok {
		e = &MdSenderStats{Name: name}
		a.mdSenders[name] = e
	}
	return e
}

func (a *Aggregator) listener(name string) *MdListenerStats {
	e, ok := a.mdListeners[name]
	if !ok {
		e = &MdListenerStats{Name: name}
		a.mdListeners[name] = e
	}
	return e
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
