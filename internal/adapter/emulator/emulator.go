// internal/adapter/emulator/emulator.go
package emulator

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tamzrod/trdp-sim/internal/adapter"
	"github.com/tamzrod/trdp-sim/internal/config"
	"github.com/tamzrod/trdp-sim/internal/logging"
)

// SyntheticReplyEndpoint is reported by fire-and-forget replies when the
// sender has no destination address.
const SyntheticReplyEndpoint = "emulator"

func init() {
	adapter.Register(adapter.KindEmulator, func(d adapter.Deps) adapter.Adapter {
		return New(WithLogger(d.Logger), WithTap(d.Tap))
	})
}

// ------------------------------------------------------------
// Registry state
// ------------------------------------------------------------

type publisherState struct {
	cfg      config.PdPublisherConfig
	sequence uint64
}

type subscriberState struct {
	cfg     config.PdSubscriberConfig
	handler adapter.PdHandler
}

type senderState struct {
	cfg     config.MdSenderConfig
	handler adapter.MdHandler
}

type listenerState struct {
	cfg     config.MdListenerConfig
	handler adapter.MdHandler
}

type sessionState struct {
	sender   string
	senderIP string
	handler  adapter.MdHandler
}

// ------------------------------------------------------------
// Emulator
// ------------------------------------------------------------

// Emulator delivers PD and MD traffic in memory.
//
// All registries sit behind one mutex. Handlers and the tap run after the
// mutex is released, so a handler may call back into the emulator.
type Emulator struct {
	mu sync.Mutex

	log *slog.Logger
	tap adapter.Tap
	now func() time.Time

	initialized bool

	publishers  map[string]*publisherState
	subscribers []subscriberState
	senders     map[string]senderState
	listeners   []listenerState
	sessions    map[adapter.SessionID]sessionState

	// never reset, so ids stay unique for the emulator lifetime
	nextSession uint64
}

type Option func(*Emulator)

func WithLogger(l *slog.Logger) Option {
	return func(e *Emulator) { e.log = logging.OrDiscard(l) }
}

// WithTap installs an observer for every delivered frame.
func WithTap(t adapter.Tap) Option {
	return func(e *Emulator) { e.tap = t }
}

func New(opts ...Option) *Emulator {
	e := &Emulator{
		log: logging.NewForTest(),
		now: time.Now,
	}
	e.reset()
	for _, o := range opts {
		o(e)
	}
	return e
}

var _ adapter.Adapter = (*Emulator)(nil)

// ---- lifecycle ----

func (e *Emulator) Initialize(network config.NetworkConfig, _ config.LoggingConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return adapter.ErrAlreadyInitialized
	}
	e.initialized = true
	e.log.Info("emulator initialized", "interface", network.Interface, "host_ip", network.HostIP)
	return nil
}

func (e *Emulator) Shutdown() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return nil
	}
	pending := len(e.sessions)
	e.reset()
	e.initialized = false
	e.log.Info("emulator shut down", "dropped_sessions", pending)
	return nil
}

// caller holds mu (or owns e exclusively)
func (e *Emulator) reset() {
	e.publishers = make(map[string]*publisherState)
	e.subscribers = nil
	e.senders = make(map[string]senderState)
	e.listeners = nil
	e.sessions = make(map[adapter.SessionID]sessionState)
}

// PendingSessions reports MD sessions still waiting for a reply.
func (e *Emulator) PendingSessions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

// Poll has no transport work to do; it only waits.
func (e *Emulator) Poll(ctx context.Context, timeout time.Duration) error {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ------------------------------------------------------------
// Process data
// ------------------------------------------------------------

func (e *Emulator) RegisterPdPublisher(cfg config.PdPublisherConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return adapter.ErrNotInitialized
	}
	e.publishers[cfg.Name] = &publisherState{cfg: cfg}
	return nil
}

func (e *Emulator) RegisterPdSubscriber(cfg config.PdSubscriberConfig, h adapter.PdHandler) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return adapter.ErrNotInitialized
	}
	e.subscribers = append(e.subscribers, subscriberState{cfg: cfg, handler: h})
	return nil
}

// PublishPd fans out to every matching subscriber before returning.
func (e *Emulator) PublishPd(publisher string, data []byte) error {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return adapter.ErrNotInitialized
	}
	pub, ok := e.publishers[publisher]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: pd publisher %q", adapter.ErrUnknownEndpoint, publisher)
	}
	pub.sequence++
	seq := pub.sequence
	pcfg := pub.cfg

	var targets []subscriberState
	for _, s := range e.subscribers {
		if matchPd(s.cfg, pcfg) {
			targets = append(targets, s)
		}
	}
	e.mu.Unlock()

	from := fallback(publisher, pcfg.SourceIP)
	for _, s := range targets {
		msg := adapter.PdMessage{
			Endpoint:        from,
			ComID:           pcfg.ComID,
			Payload:         bytes.Clone(data),
			SequenceCounter: seq,
		}
		e.emit(adapter.Frame{
			Kind:    adapter.FramePd,
			From:    from,
			To:      fallback(s.cfg.Name, pcfg.DestIP),
			ComID:   pcfg.ComID,
			Seq:     seq,
			Payload: msg.Payload,
		})
		if s.handler != nil {
			s.handler(msg)
		}
	}
	return nil
}

// ------------------------------------------------------------
// Message data
// ------------------------------------------------------------

func (e *Emulator) RegisterMdSender(cfg config.MdSenderConfig, h adapter.MdHandler) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return adapter.ErrNotInitialized
	}
	e.senders[cfg.Name] = senderState{cfg: cfg, handler: h}
	return nil
}

func (e *Emulator) RegisterMdListener(cfg config.MdListenerConfig, h adapter.MdHandler) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return adapter.ErrNotInitialized
	}
	e.listeners = append(e.listeners, listenerState{cfg: cfg, handler: h})
	return nil
}

// SendMdRequest opens a session, delivers the request to matching listeners
// and, for senders that expect no reply, completes the session with an
// empty reply before returning.
func (e *Emulator) SendMdRequest(sender string, data []byte) error {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return adapter.ErrNotInitialized
	}
	snd, ok := e.senders[sender]
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: md sender %q", adapter.ErrUnknownEndpoint, sender)
	}

	e.nextSession++
	id := sessionID(e.nextSession)

	var targets []listenerState
	for _, l := range e.listeners {
		if matchMd(l.cfg, snd.cfg) {
			targets = append(targets, l)
		}
	}
	if snd.handler != nil {
		e.sessions[id] = sessionState{sender: sender, senderIP: snd.cfg.SourceIP, handler: snd.handler}
	}
	e.mu.Unlock()

	from := fallback(sender, snd.cfg.SourceIP)
	for _, l := range targets {
		req := adapter.MdMessage{
			Endpoint:  from,
			ComID:     snd.cfg.ComID,
			Payload:   bytes.Clone(data),
			SessionID: id,
		}
		e.emit(adapter.Frame{
			Kind:      adapter.FrameMdRequest,
			From:      from,
			To:        fallback(l.cfg.Name, snd.cfg.DestIP),
			ComID:     snd.cfg.ComID,
			SessionID: id,
			Payload:   req.Payload,
		})
		if l.handler != nil {
			l.handler(req)
		}
	}

	if snd.cfg.ExpectReply || snd.handler == nil {
		return nil
	}

	// A listener may already have answered; the session is completed once.
	if _, ok := e.takeSession(id); !ok {
		return nil
	}

	comID := snd.cfg.ReplyComID
	if comID == 0 {
		comID = snd.cfg.ComID
	}
	reply := adapter.MdMessage{
		Endpoint:  fallback(SyntheticReplyEndpoint, snd.cfg.DestIP),
		ComID:     comID,
		Payload:   []byte{},
		SessionID: id,
	}
	e.emit(adapter.Frame{
		Kind:      adapter.FrameMdReply,
		From:      reply.Endpoint,
		To:        from,
		ComID:     comID,
		SessionID: id,
	})
	snd.handler(reply)
	return nil
}

// SendMdReply consumes the request's session. Replies for unknown or
// already answered sessions are dropped.
func (e *Emulator) SendMdReply(listener string, request adapter.MdMessage, data []byte) error {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return adapter.ErrNotInitialized
	}
	sess, ok := e.sessions[request.SessionID]
	if !ok {
		e.mu.Unlock()
		e.log.Debug("md reply dropped",
			"listener", listener,
			"session", request.SessionID.String(),
			"err", adapter.ErrSessionNotFound,
		)
		return nil
	}
	delete(e.sessions, request.SessionID)

	var lcfg config.MdListenerConfig
	for _, l := range e.listeners {
		if l.cfg.Name == listener {
			lcfg = l.cfg
			break
		}
	}
	e.mu.Unlock()

	reply := adapter.MdMessage{
		Endpoint:  fallback(listener, lcfg.SourceIP),
		ComID:     request.ComID,
		Payload:   bytes.Clone(data),
		SessionID: request.SessionID,
	}
	e.emit(adapter.Frame{
		Kind:      adapter.FrameMdReply,
		From:      reply.Endpoint,
		To:        fallback(sess.sender, sess.senderIP),
		ComID:     reply.ComID,
		SessionID: reply.SessionID,
		Payload:   reply.Payload,
	})
	sess.handler(reply)
	return nil
}

func (e *Emulator) takeSession(id adapter.SessionID) (sessionState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, ok := e.sessions[id]
	if ok {
		delete(e.sessions, id)
	}
	return s, ok
}

// ---- helpers ----

func (e *Emulator) emit(f adapter.Frame) {
	if e.tap == nil {
		return
	}
	f.At = e.now()
	e.tap(f)
}

// sessionID places n big-endian in the low-order 8 bytes.
func sessionID(n uint64) adapter.SessionID {
	var id adapter.SessionID
	binary.BigEndian.PutUint64(id[8:], n)
	return id
}
