// internal/simulator/simulator.go
package simulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tamzrod/trdp-sim/internal/adapter"
	"github.com/tamzrod/trdp-sim/internal/config"
	"github.com/tamzrod/trdp-sim/internal/logging"
	"github.com/tamzrod/trdp-sim/internal/metrics"
	"github.com/tamzrod/trdp-sim/internal/payload"
	"github.com/tamzrod/trdp-sim/internal/worker"
)

// DefaultPollInterval bounds one adapter Poll call.
const DefaultPollInterval = 100 * time.Millisecond

var (
	ErrAdapterInit    = errors.New("simulator: adapter initialization failed")
	ErrWorkerNotFound = errors.New("simulator: worker not found")
	ErrAlreadyRunning = errors.New("simulator: already running")
)

// Simulator turns a configuration into live endpoints on one adapter.
//
// Lifecycle: Idle -> Initializing -> Running -> Stopping -> Stopped.
// A failure records "Error: <detail>", which survives Stop.
type Simulator struct {
	cfg     config.Config
	adapter adapter.Adapter
	metrics *metrics.Aggregator
	log     *slog.Logger

	pollInterval time.Duration

	// mu serializes start/stop and guards everything below it.
	mu         sync.Mutex
	publishers map[string]*worker.Publisher
	senders    map[string]*worker.Sender
	pubOrder   []*worker.Publisher
	sndOrder   []*worker.Sender
	stopCh     chan struct{}
	pollCancel context.CancelFunc
	cleaned    bool
	failed     bool
	lastErr    error

	running atomic.Bool
	active  atomic.Bool
	pollWG  sync.WaitGroup

	started     chan struct{}
	startedOnce sync.Once
}

type Option func(*Simulator)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.log = logging.OrDiscard(l) }
}

// WithMetrics shares an aggregator with other readers.
func WithMetrics(m *metrics.Aggregator) Option {
	return func(s *Simulator) {
		if m != nil {
			s.metrics = m
		}
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// New creates an idle simulator. a must not be nil.
func New(cfg config.Config, a adapter.Adapter, opts ...Option) *Simulator {
	s := &Simulator{
		cfg:          cfg,
		adapter:      a,
		metrics:      metrics.New(),
		log:          logging.NewForTest(),
		pollInterval: DefaultPollInterval,
		publishers:   make(map[string]*worker.Publisher),
		senders:      make(map[string]*worker.Sender),
		cleaned:      true,
		started:      make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ------------------------------------------------------------
// Lifecycle
// ------------------------------------------------------------

// Run initializes the adapter, starts every endpoint and blocks until Stop
// is called or ctx is cancelled. Setup failures are returned after cleanup.
func (s *Simulator) Run(ctx context.Context) error {
	if !s.active.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.active.Store(false)

	stop, err := s.start(ctx)
	s.startedOnce.Do(func() { close(s.started) })
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		s.log.Info("context cancelled, stopping simulator")
	case <-stop:
	}

	s.Stop()
	return nil
}

// Started is closed once Run has reached Running or failed to.
func (s *Simulator) Started() <-chan struct{} {
	return s.started
}

func (s *Simulator) start(ctx context.Context) (<-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failed = false
	s.lastErr = nil
	s.metrics.SetAdapterStatus(false, metrics.StateInitializing)

	s.log.Info("initializing adapter",
		"adapter", s.cfg.Adapter,
		"interface", s.cfg.Network.Interface,
	)
	if err := s.adapter.Initialize(s.cfg.Network, s.cfg.Logging); err != nil {
		err = fmt.Errorf("%w: %w", ErrAdapterInit, err)
		s.recordErrorLocked(err)
		if serr := s.adapter.Shutdown(); serr != nil {
			s.log.Warn("adapter shutdown after failed init", "err", serr)
		}
		return nil, err
	}

	stop := make(chan struct{})
	pollCtx, cancel := context.WithCancel(ctx)
	s.stopCh = stop
	s.pollCancel = cancel
	s.cleaned = false
	s.running.Store(true)
	s.metrics.SetSimulatorRunning(true)
	s.metrics.SetAdapterStatus(true, metrics.StateRunning)

	if err := s.setupLocked(); err != nil {
		s.recordErrorLocked(err)
		s.shutdownLocked()
		return nil, err
	}

	s.pollWG.Add(1)
	go s.pollLoop(pollCtx)

	for _, p := range s.pubOrder {
		p.Start()
	}
	for _, snd := range s.sndOrder {
		snd.Start()
	}

	s.log.Info("simulator running",
		"pd_publishers", len(s.pubOrder),
		"pd_subscribers", len(s.cfg.PdSubscribers),
		"md_senders", len(s.sndOrder),
		"md_listeners", len(s.cfg.MdListeners),
	)
	return stop, nil
}

// Stop halts workers, joins the poll loop and shuts the adapter down.
// Safe to call at any time and more than once.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shutdownLocked()
}

func (s *Simulator) shutdownLocked() {
	wasRunning := s.running.Swap(false)
	s.metrics.SetSimulatorRunning(false)

	if s.cleaned {
		return
	}
	s.cleaned = true

	if wasRunning && !s.failed {
		s.metrics.SetAdapterStatus(true, metrics.StateStopping)
	}
	s.log.Info("stopping simulator")

	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
	if s.pollCancel != nil {
		s.pollCancel()
		s.pollCancel = nil
	}

	for _, p := range s.pubOrder {
		p.Stop()
	}
	for _, snd := range s.sndOrder {
		snd.Stop()
	}
	s.pollWG.Wait()

	if err := s.adapter.Shutdown(); err != nil {
		s.log.Warn("adapter shutdown reported error", "err", err)
	}

	s.publishers = make(map[string]*worker.Publisher)
	s.senders = make(map[string]*worker.Sender)
	s.pubOrder = nil
	s.sndOrder = nil

	if s.failed {
		s.metrics.SetAdapterStatus(false, s.metrics.AdapterState())
	} else {
		s.metrics.SetAdapterStatus(false, metrics.StateStopped)
	}
	s.log.Info("simulator stopped")
}

func (s *Simulator) recordErrorLocked(err error) {
	s.failed = true
	s.lastErr = err
	s.metrics.SetAdapterStatus(false, metrics.StateErrorPrefix+err.Error())
	s.log.Error("simulator failed", "err", err)
}

func (s *Simulator) pollLoop(ctx context.Context) {
	defer s.pollWG.Done()

	for s.running.Load() {
		if err := s.adapter.Poll(ctx, s.pollInterval); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Warn("adapter poll failed", "err", err)

			// an adapter that fails fast must not spin the loop
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.pollInterval):
			}
		}
	}
}

// ------------------------------------------------------------
// Setup
// ------------------------------------------------------------

func (s *Simulator) setupLocked() error {
	for _, sub := range s.cfg.PdSubscribers {
		s.metrics.RegisterPdSubscriber(sub.Name)
		if err := s.adapter.RegisterPdSubscriber(sub, s.subscriberHandler(sub)); err != nil {
			return fmt.Errorf("pd subscriber %q: register: %w", sub.Name, err)
		}
	}

	for _, lis := range s.cfg.MdListeners {
		var reply []byte
		if lis.AutoReply && lis.ReplyPayload.Value != "" {
			data, err := payload.Resolve(lis.ReplyPayload)
			if err != nil {
				return fmt.Errorf("md listener %q: %w", lis.Name, err)
			}
			reply = data
		}
		s.metrics.RegisterMdListener(lis.Name)
		if err := s.adapter.RegisterMdListener(lis, s.listenerHandler(lis, reply)); err != nil {
			return fmt.Errorf("md listener %q: register: %w", lis.Name, err)
		}
	}

	for _, pc := range s.cfg.PdPublishers {
		p, err := worker.NewPublisher(pc, s.adapter, s.metrics, s.log)
		if err != nil {
			return err
		}
		s.publishers[pc.Name] = p
		s.pubOrder = append(s.pubOrder, p)
	}

	for _, sc := range s.cfg.MdSenders {
		snd, err := worker.NewSender(sc, s.adapter, s.metrics, s.log)
		if err != nil {
			return err
		}
		s.senders[sc.Name] = snd
		s.sndOrder = append(s.sndOrder, snd)
	}
	return nil
}

func (s *Simulator) subscriberHandler(cfg config.PdSubscriberConfig) adapter.PdHandler {
	log := s.log.With("subscriber", cfg.Name)
	return func(msg adapter.PdMessage) {
		s.metrics.RecordPdReceive(cfg.Name)
		log.Debug("pd received",
			"from", msg.Endpoint,
			"com_id", msg.ComID,
			"seq", msg.SequenceCounter,
			"payload", payload.ToHex(msg.Payload),
		)
	}
}

// listenerHandler runs on the sender's call path; it must not take s.mu.
func (s *Simulator) listenerHandler(cfg config.MdListenerConfig, reply []byte) adapter.MdHandler {
	log := s.log.With("listener", cfg.Name)
	return func(msg adapter.MdMessage) {
		s.metrics.RecordMdRequestReceived(cfg.Name)
		log.Debug("md request received",
			"from", msg.Endpoint,
			"com_id", msg.ComID,
			"session", msg.SessionID.String(),
			"payload", payload.ToHex(msg.Payload),
		)

		if !cfg.AutoReply || len(reply) == 0 {
			return
		}
		if err := s.adapter.SendMdReply(cfg.Name, msg, reply); err != nil {
			log.Error("md auto reply failed", "err", err)
			return
		}
		s.metrics.RecordMdReplySent(cfg.Name)
	}
}

// ------------------------------------------------------------
// Queries and payload control
// ------------------------------------------------------------

func (s *Simulator) MetricsSnapshot() metrics.Snapshot {
	return s.metrics.Snapshot()
}

func (s *Simulator) CurrentConfig() config.Config {
	return s.cfg
}

func (s *Simulator) Running() bool {
	return s.running.Load()
}

// LastError returns the recorded failure of the latest run, if any.
func (s *Simulator) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Simulator) PdPayload(name string) (config.PayloadConfig, bool) {
	s.mu.Lock()
	p, ok := s.publishers[name]
	s.mu.Unlock()
	if !ok {
		return config.PayloadConfig{}, false
	}
	return p.PayloadConfig(), true
}

func (s *Simulator) MdPayload(name string) (config.PayloadConfig, bool) {
	s.mu.Lock()
	snd, ok := s.senders[name]
	s.mu.Unlock()
	if !ok {
		return config.PayloadConfig{}, false
	}
	return snd.PayloadConfig(), true
}

// PdPayloads lists the live publisher payloads by name.
func (s *Simulator) PdPayloads() map[string]config.PayloadConfig {
	s.mu.Lock()
	pubs := append([]*worker.Publisher(nil), s.pubOrder...)
	s.mu.Unlock()

	out := make(map[string]config.PayloadConfig, len(pubs))
	for _, p := range pubs {
		out[p.Name()] = p.PayloadConfig()
	}
	return out
}

// MdPayloads lists the live sender payloads by name.
func (s *Simulator) MdPayloads() map[string]config.PayloadConfig {
	s.mu.Lock()
	snds := append([]*worker.Sender(nil), s.sndOrder...)
	s.mu.Unlock()

	out := make(map[string]config.PayloadConfig, len(snds))
	for _, snd := range snds {
		out[snd.Name()] = snd.PayloadConfig()
	}
	return out
}

func (s *Simulator) SetPdPayload(name string, format config.PayloadFormat, value string) error {
	s.mu.Lock()
	p, ok := s.publishers[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: pd publisher %q", ErrWorkerNotFound, name)
	}
	return p.UpdatePayload(format, value)
}

func (s *Simulator) SetMdPayload(name string, format config.PayloadFormat, value string) error {
	s.mu.Lock()
	snd, ok := s.senders[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: md sender %q", ErrWorkerNotFound, name)
	}
	return snd.UpdatePayload(format, value)
}
