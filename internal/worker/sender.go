// internal/worker/sender.go
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tamzrod/trdp-sim/internal/adapter"
	"github.com/tamzrod/trdp-sim/internal/config"
	"github.com/tamzrod/trdp-sim/internal/logging"
	"github.com/tamzrod/trdp-sim/internal/metrics"
	"github.com/tamzrod/trdp-sim/internal/payload"
)

// MdAdapter is the adapter surface a sender needs.
type MdAdapter interface {
	RegisterMdSender(cfg config.MdSenderConfig, h adapter.MdHandler) error
	SendMdRequest(sender string, data []byte) error
}

// Sender issues MD requests, once (cycle 0) or periodically.
type Sender struct {
	cfg     config.MdSenderConfig
	adapter MdAdapter
	metrics *metrics.Aggregator
	log     *slog.Logger

	mu      sync.Mutex
	payload []byte
	spec    config.PayloadConfig

	run runner
}

// NewSender resolves the payload and registers the sender with its reply handler.
func NewSender(cfg config.MdSenderConfig, a MdAdapter, m *metrics.Aggregator, log *slog.Logger) (*Sender, error) {
	if a == nil {
		return nil, errors.New("worker: nil adapter")
	}
	if m == nil {
		return nil, errors.New("worker: nil metrics")
	}

	data, err := payload.Resolve(cfg.Payload)
	if err != nil {
		return nil, fmt.Errorf("md sender %q: %w", cfg.Name, err)
	}

	s := &Sender{
		cfg:     cfg,
		adapter: a,
		metrics: m,
		log:     logging.OrDiscard(log).With("sender", cfg.Name),
		payload: data,
		spec:    cfg.Payload,
	}

	if err := a.RegisterMdSender(cfg, s.onReply); err != nil {
		return nil, fmt.Errorf("md sender %q: register: %w", cfg.Name, err)
	}
	m.RegisterMdSender(cfg.Name)

	return s, nil
}

func (s *Sender) Name() string { return s.cfg.Name }

func (s *Sender) Start() {
	if s.cfg.CycleTimeMs > 0 && !s.run.isRunning() {
		s.log.Info("starting md sender", "com_id", s.cfg.ComID, "cycle_ms", s.cfg.CycleTimeMs)
	}
	s.run.start(time.Duration(s.cfg.CycleTimeMs)*time.Millisecond, s.requestOnce)
}

func (s *Sender) Stop() {
	if s.run.isRunning() && s.cfg.CycleTimeMs > 0 {
		s.log.Info("stopping md sender")
	}
	s.run.halt()
}

// UpdatePayload swaps the payload. On error the current payload is kept.
func (s *Sender) UpdatePayload(format config.PayloadFormat, value string) error {
	spec := config.PayloadConfig{Format: format, Value: value}
	data, err := payload.Resolve(spec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.payload = data
	s.spec = spec
	s.mu.Unlock()

	s.log.Info("md payload updated", "format", format, "bytes", len(data))
	return nil
}

func (s *Sender) PayloadConfig() config.PayloadConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}

func (s *Sender) current() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payload
}

func (s *Sender) requestOnce() {
	if err := s.adapter.SendMdRequest(s.cfg.Name, s.current()); err != nil {
		s.log.Error("md request failed", "err", err)
		return
	}
	s.metrics.RecordMdRequestSent(s.cfg.Name)
}

func (s *Sender) onReply(msg adapter.MdMessage) {
	s.metrics.RecordMdReplyReceived(s.cfg.Name)
	s.log.Debug("md reply received",
		"from", msg.Endpoint,
		"com_id", msg.ComID,
		"session", msg.SessionID.String(),
		"bytes", len(msg.Payload),
	)
}
