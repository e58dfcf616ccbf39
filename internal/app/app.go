// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tamzrod/trdp-sim/internal/adapter"
	"github.com/tamzrod/trdp-sim/internal/capture"
	"github.com/tamzrod/trdp-sim/internal/config"
	"github.com/tamzrod/trdp-sim/internal/logging"
	"github.com/tamzrod/trdp-sim/internal/poller"
	"github.com/tamzrod/trdp-sim/internal/recorder"
	"github.com/tamzrod/trdp-sim/internal/simulator"
	"github.com/tamzrod/trdp-sim/internal/status"
	"github.com/tamzrod/trdp-sim/internal/writer"
)

// App is one simulator plus its optional sinks
// (pcap capture, sqlite recorder, Modbus status export).
type App struct {
	Sim *simulator.Simulator

	log     *slog.Logger
	poller  *poller.Poller
	rec     *recorder.Recorder
	sw      writer.StatusWriter
	capture *capture.Writer

	// runner-owned status state
	snap status.Snapshot

	closeOnce sync.Once
	closers   []func() error
}

// Build wires the adapter, simulator and sinks for cfg.
// cfg must already be normalized and validated.
func Build(cfg config.Config, log *slog.Logger) (*App, error) {
	log = logging.OrDiscard(log)
	a := &App{log: log}

	// --------------------
	// capture (adapter tap)
	// --------------------

	var tap adapter.Tap
	if c := cfg.Capture; c != nil {
		w, err := capture.New(c.Path, log.With("component", "capture"))
		if err != nil {
			return nil, err
		}
		a.capture = w
		a.closers = append(a.closers, w.Close)
		tap = w.Tap()
	}

	// --------------------
	// adapter + simulator
	// --------------------

	ad, err := adapter.New(cfg.Adapter, adapter.Deps{Logger: log.With("component", "adapter"), Tap: tap})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Sim = simulator.New(cfg, ad, simulator.WithLogger(log))

	// --------------------
	// sample sinks
	// --------------------

	if rc := cfg.Recorder; rc != nil {
		r, err := recorder.New(*rc, log.With("component", "recorder"))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.rec = r
		a.closers = append(a.closers, r.Close)
	}

	if se := cfg.StatusExport; se != nil {
		sw, closeSW, err := writer.BuildStatusWriter(*se)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("status export (endpoint=%s): %w", se.Endpoint, err)
		}
		a.sw = sw
		a.closers = append(a.closers, closeSW)
	}

	p, ok, err := poller.Build(cfg, a.Sim)
	if err != nil {
		a.Close()
		return nil, err
	}
	if ok {
		a.poller = p
	}

	return a, nil
}

// Run drives the simulator until ctx is cancelled or Stop is called.
// Sinks receive one final sample after the simulator stopped.
func (a *App) Run(ctx context.Context) error {
	if a.poller == nil {
		return a.Sim.Run(ctx)
	}

	sinkCtx, cancel := context.WithCancel(context.Background())
	out := make(chan poller.PollResult)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		a.poller.Run(sinkCtx, out)
	}()
	go func() {
		defer wg.Done()
		a.orchestrate(sinkCtx, out)
	}()

	err := a.Sim.Run(ctx)

	cancel()
	wg.Wait()
	a.deliver(a.poller.PollOnce())

	return err
}

// Stop asks the simulator to stop. Run returns afterwards.
func (a *App) Stop() { a.Sim.Stop() }

// Close releases every sink. Safe to call more than once.
func (a *App) Close() error {
	var errs []error
	a.closeOnce.Do(func() {
		for i := len(a.closers) - 1; i >= 0; i-- {
			if err := a.closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}

// orchestrate owns status state: per-sample delivery plus a 1 Hz
// seconds-in-error tick.
func (a *App) orchestrate(ctx context.Context, in <-chan poller.PollResult) {
	secTicker := time.NewTicker(time.Second)
	defer secTicker.Stop()

	// Full block write on start (identity re-assert).
	a.snap = status.Snapshot{Health: status.HealthUnknown}
	a.writeStatus()

	for {
		select {
		case <-ctx.Done():
			return

		case res := <-in:
			a.deliver(res)

		case <-secTicker.C:
			// Tick 1 Hz while in error.
			if a.snap.Health == status.HealthError && a.snap.SecondsInError < 65535 {
				a.snap.SecondsInError++
				a.writeStatus()
			}
		}
	}
}

func (a *App) deliver(res poller.PollResult) {
	if a.rec != nil {
		if err := a.rec.Record(res.At, res.Snapshot); err != nil {
			a.log.Warn("recorder write failed", "err", err)
		}
	}

	seconds := a.snap.SecondsInError
	a.snap = status.FromMetrics(res.Snapshot)
	if res.Err != nil {
		a.snap.SecondsInError = seconds
	}
	a.writeStatus()
}

func (a *App) writeStatus() {
	if a.sw == nil {
		return
	}
	if err := a.sw.WriteStatus(a.snap); err != nil {
		a.log.Warn("status write failed", "err", err)
	}
}
