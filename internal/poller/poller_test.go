// internal/poller/poller_test.go
package poller

import (
	"context"
	"testing"
	"time"

	cfg "github.com/tamzrod/trdp-sim/internal/config"
	"github.com/tamzrod/trdp-sim/internal/metrics"
)

type fakeSource struct {
	state string
}

func (f *fakeSource) MetricsSnapshot() metrics.Snapshot {
	return metrics.Snapshot{AdapterState: f.state, SimulatorRunning: f.state == metrics.StateRunning}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Interval: time.Second}, nil); err == nil {
		t.Fatalf("expected error for nil source")
	}
	if _, err := New(Config{}, &fakeSource{}); err == nil {
		t.Fatalf("expected error for zero interval")
	}
}

func TestPollOnce_Success(t *testing.T) {
	p, err := New(Config{Interval: time.Second}, &fakeSource{state: metrics.StateRunning})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	res := p.PollOnce()
	if res.Err != nil {
		t.Fatalf("PollOnce err=%v", res.Err)
	}
	if !res.Snapshot.SimulatorRunning || res.At.IsZero() {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestPollOnce_ErrorState(t *testing.T) {
	p, _ := New(Config{Interval: time.Second}, &fakeSource{state: metrics.StateErrorPrefix + "init failed"})

	res := p.PollOnce()
	if res.Err == nil || res.Err.Error() != "init failed" {
		t.Fatalf("expected error from state, got %v", res.Err)
	}
}

func TestBuild_PicksShortestInterval(t *testing.T) {
	c := cfg.Config{
		Recorder:     &cfg.RecorderConfig{IntervalMs: 500},
		StatusExport: &cfg.StatusExportConfig{IntervalMs: 200},
	}
	p, ok, err := Build(c, &fakeSource{})
	if err != nil || !ok {
		t.Fatalf("Build ok=%v err=%v", ok, err)
	}
	if p.Interval() != 200*time.Millisecond {
		t.Fatalf("interval=%v", p.Interval())
	}

	if _, ok, _ := Build(cfg.Config{}, &fakeSource{}); ok {
		t.Fatalf("expected no poller without sinks")
	}
}

func TestRun_EmitsUntilCancelled(t *testing.T) {
	p, _ := New(Config{Interval: 5 * time.Millisecond}, &fakeSource{state: metrics.StateRunning})

	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan PollResult)
	done := make(chan struct{})
	go func() {
		p.Run(ctx, out)
		close(done)
	}()

	select {
	case <-out:
	case <-time.After(2 * time.Second):
		t.Fatalf("no result emitted")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
