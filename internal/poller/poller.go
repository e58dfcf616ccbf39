// internal/poller/poller.go
package poller

import (
	"errors"
	"strings"
	"time"

	cfg "github.com/tamzrod/trdp-sim/internal/config"
	"github.com/tamzrod/trdp-sim/internal/metrics"
)

// Source abstracts where snapshots come from.
// The poller depends on nothing else.
type Source interface {
	MetricsSnapshot() metrics.Snapshot
}

// Config is the minimal runtime config the poller needs.
type Config struct {
	Interval time.Duration
}

// Poller is a dumb, clock-driven sampler.
type Poller struct {
	cfg Config
	src Source
}

// New creates a poller with immutable config.
func New(c Config, src Source) (*Poller, error) {
	if src == nil {
		return nil, errors.New("poller: source required")
	}
	if c.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	return &Poller{cfg: c, src: src}, nil
}

// Build returns a poller for the configured sinks, ticking at the
// shortest sink interval. ok is false when no sink wants samples.
func Build(c cfg.Config, src Source) (p *Poller, ok bool, err error) {
	var ms int
	if c.Recorder != nil {
		ms = c.Recorder.IntervalMs
	}
	if se := c.StatusExport; se != nil && (ms == 0 || se.IntervalMs < ms) {
		ms = se.IntervalMs
	}
	if ms <= 0 {
		return nil, false, nil
	}

	p, err = New(Config{Interval: time.Duration(ms) * time.Millisecond}, src)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// Interval returns the tick period.
func (p *Poller) Interval() time.Duration { return p.cfg.Interval }

// PollOnce performs exactly one sample.
func (p *Poller) PollOnce() PollResult {
	snap := p.src.MetricsSnapshot()
	res := PollResult{
		At:       time.Now(),
		Snapshot: snap,
	}
	if snap.IsError() {
		res.Err = errors.New(strings.TrimPrefix(snap.AdapterState, metrics.StateErrorPrefix))
	}
	return res
}
