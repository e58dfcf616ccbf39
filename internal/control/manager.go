// internal/control/manager.go
package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tamzrod/trdp-sim/internal/app"
	"github.com/tamzrod/trdp-sim/internal/config"
	"github.com/tamzrod/trdp-sim/internal/logging"
	"github.com/tamzrod/trdp-sim/internal/metrics"
	"github.com/tamzrod/trdp-sim/internal/store"
)

var (
	ErrAlreadyRunning = errors.New("Simulator already running")
	ErrNotRunning     = errors.New("Simulator is not running")
	ErrMissingConfig  = errors.New("Missing config parameter")
)

// Builder turns a configuration into a runnable pipeline.
type Builder func(cfg config.Config, log *slog.Logger) (*app.App, error)

// Manager owns at most one live simulator.
type Manager struct {
	store *store.Store
	build Builder
	log   *slog.Logger

	// opMu serializes Start and Stop.
	opMu sync.Mutex

	// mu guards the fields below; the run goroutine takes it too.
	mu        sync.Mutex
	app       *app.App
	done      chan struct{}
	configRef string
	lastErr   error
	lastSnap  *metrics.Snapshot
}

// NewManager creates an idle manager. Config refs resolve against st first.
func NewManager(st *store.Store, log *slog.Logger) *Manager {
	return &Manager{
		store: st,
		build: app.Build,
		log:   logging.OrDiscard(log),
	}
}

// Start loads ref, builds the pipeline and waits until the simulator is
// running or has failed. A failed start returns the failure.
func (m *Manager) Start(ref string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	if ref == "" {
		return ErrMissingConfig
	}

	m.mu.Lock()
	if m.app != nil {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	m.lastErr = nil
	m.lastSnap = nil
	m.configRef = ""
	m.mu.Unlock()

	cfg, err := m.resolve(ref)
	if err != nil {
		return m.fail(err)
	}
	a, err := m.build(*cfg, m.log.With("config", ref))
	if err != nil {
		return m.fail(err)
	}

	done := make(chan struct{})
	m.mu.Lock()
	m.app = a
	m.done = done
	m.configRef = ref
	m.mu.Unlock()

	go m.run(a, done)

	<-a.Sim.Started()
	if err := a.Sim.LastError(); err != nil {
		<-done
		return err
	}

	m.log.Info("simulator started", "config", ref)
	return nil
}

func (m *Manager) run(a *app.App, done chan struct{}) {
	defer close(done)

	err := a.Run(context.Background())
	snap := a.Sim.MetricsSnapshot()
	if cerr := a.Close(); cerr != nil {
		m.log.Warn("closing sinks failed", "err", cerr)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastSnap = &snap
	if err != nil {
		m.lastErr = err
	}
	if m.app == a {
		m.app = nil
		m.done = nil
	}
}

// Stop halts the live simulator and waits for its pipeline to finish.
func (m *Manager) Stop() error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	a, done := m.app, m.done
	m.mu.Unlock()

	if a == nil {
		return ErrNotRunning
	}

	a.Stop()
	<-done

	m.mu.Lock()
	m.lastErr = nil
	m.configRef = ""
	m.mu.Unlock()

	m.log.Info("simulator stopped")
	return nil
}

// Close stops a live simulator, if any.
func (m *Manager) Close() {
	if err := m.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		m.log.Warn("stop on close failed", "err", err)
	}
}

func (m *Manager) fail(err error) error {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
	return err
}

// resolve treats ref as a stored name first, then as a file path.
func (m *Manager) resolve(ref string) (*config.Config, error) {
	if m.store != nil && m.store.Exists(ref) {
		return m.store.LoadConfig(ref)
	}
	cfg, err := config.Load(ref)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ref, err)
	}
	return cfg, nil
}

// ------------------------------------------------------------
// Queries
// ------------------------------------------------------------

func (m *Manager) current() *app.App {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.app
}

// Running reports whether a simulator is live.
func (m *Manager) Running() bool {
	a := m.current()
	return a != nil && a.Sim.Running()
}

// Snapshot returns live counters, the last snapshot after stop, or an
// idle snapshot when nothing ran yet.
func (m *Manager) Snapshot() metrics.Snapshot {
	if a := m.current(); a != nil {
		snap := a.Sim.MetricsSnapshot()
		m.mu.Lock()
		m.lastSnap = &snap
		m.mu.Unlock()
		return snap
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastSnap != nil {
		return *m.lastSnap
	}
	return metrics.New().Snapshot()
}

// ConfigRef returns the reference of the live configuration.
func (m *Manager) ConfigRef() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.configRef
}

func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Payloads returns the current payload specs keyed by worker name.
func (m *Manager) Payloads() (pd, md map[string]config.PayloadConfig, err error) {
	a := m.current()
	if a == nil {
		return nil, nil, ErrNotRunning
	}
	return a.Sim.PdPayloads(), a.Sim.MdPayloads(), nil
}

// SetPdPayload replaces a publisher payload on the live simulator.
func (m *Manager) SetPdPayload(name string, p config.PayloadConfig) error {
	a := m.current()
	if a == nil {
		return ErrNotRunning
	}
	return a.Sim.SetPdPayload(name, p.Format, p.Value)
}

// SetMdPayload replaces a sender payload on the live simulator.
func (m *Manager) SetMdPayload(name string, p config.PayloadConfig) error {
	a := m.current()
	if a == nil {
		return ErrNotRunning
	}
	return a.Sim.SetMdPayload(name, p.Format, p.Value)
}
