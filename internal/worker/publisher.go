// internal/worker/publisher.go
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tamzrod/trdp-sim/internal/config"
	"github.com/tamzrod/trdp-sim/internal/logging"
	"github.com/tamzrod/trdp-sim/internal/metrics"
	"github.com/tamzrod/trdp-sim/internal/payload"
)

// PdAdapter is the adapter surface a publisher needs.
type PdAdapter interface {
	RegisterPdPublisher(cfg config.PdPublisherConfig) error
	PublishPd(publisher string, data []byte) error
}

// Publisher sends one PD telegram per cycle.
type Publisher struct {
	cfg     config.PdPublisherConfig
	adapter PdAdapter
	metrics *metrics.Aggregator
	log     *slog.Logger

	mu      sync.Mutex
	payload []byte
	spec    config.PayloadConfig

	run runner
}

// NewPublisher resolves the payload and registers the publisher.
func NewPublisher(cfg config.PdPublisherConfig, a PdAdapter, m *metrics.Aggregator, log *slog.Logger) (*Publisher, error) {
	if a == nil {
		return nil, errors.New("worker: nil adapter")
	}
	if m == nil {
		return nil, errors.New("worker: nil metrics")
	}

	data, err := payload.Resolve(cfg.Payload)
	if err != nil {
		return nil, fmt.Errorf("pd publisher %q: %w", cfg.Name, err)
	}
	if err := a.RegisterPdPublisher(cfg); err != nil {
		return nil, fmt.Errorf("pd publisher %q: register: %w", cfg.Name, err)
	}
	m.RegisterPdPublisher(cfg.Name)

	return &Publisher{
		cfg:     cfg,
		adapter: a,
		metrics: m,
		log:     logging.OrDiscard(log).With("publisher", cfg.Name),
		payload: data,
		spec:    cfg.Payload,
	}, nil
}

func (p *Publisher) Name() string { return p.cfg.Name }

func (p *Publisher) Start() {
	if p.cfg.CycleTimeMs > 0 && !p.run.isRunning() {
		p.log.Info("starting pd publisher", "com_id", p.cfg.ComID, "cycle_ms", p.cfg.CycleTimeMs)
	}
	p.run.start(time.Duration(p.cfg.CycleTimeMs)*time.Millisecond, p.publishOnce)
}

func (p *Publisher) Stop() {
	if p.run.isRunning() && p.cfg.CycleTimeMs > 0 {
		p.log.Info("stopping pd publisher")
	}
	p.run.halt()
}

// UpdatePayload swaps the payload. On error the current payload is kept.
func (p *Publisher) UpdatePayload(format config.PayloadFormat, value string) error {
	spec := config.PayloadConfig{Format: format, Value: value}
	data, err := payload.Resolve(spec)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.payload = data
	p.spec = spec
	p.mu.Unlock()

	p.log.Info("pd payload updated", "format", format, "bytes", len(data))
	return nil
}

func (p *Publisher) PayloadConfig() config.PayloadConfig {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.spec
}

// the buffer is replaced on update, never written in place
func (p *Publisher) current() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.payload
}

func (p *Publisher) publishOnce() {
	if err := p.adapter.PublishPd(p.cfg.Name, p.current()); err != nil {
		p.log.Error("pd publish failed", "err", err)
		return
	}
	p.metrics.RecordPdPublish(p.cfg.Name)
}
