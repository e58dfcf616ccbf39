// internal/adapter/adapter.go
package adapter

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"github.com/tamzrod/trdp-sim/internal/config"
)

// ------------------------------------------------------------
// Errors
// ------------------------------------------------------------

var (
	// ErrUnknownEndpoint is returned for names that were never registered.
	ErrUnknownEndpoint = errors.New("adapter: unknown endpoint")

	ErrNotInitialized     = errors.New("adapter: not initialized")
	ErrAlreadyInitialized = errors.New("adapter: already initialized")
	ErrUnsupportedAdapter = errors.New("adapter: unsupported adapter kind")

	// ErrSessionNotFound describes a reply for a consumed or unknown session.
	// It is logged by implementations and never returned.
	ErrSessionNotFound = errors.New("adapter: md session not found")
)

// ------------------------------------------------------------
// Messages
// ------------------------------------------------------------

// SessionID correlates an MD request with its reply.
type SessionID [16]byte

func (s SessionID) String() string {
	return hex.EncodeToString(s[:])
}

type PdMessage struct {
	Endpoint        string
	ComID           uint32
	Payload         []byte
	SequenceCounter uint64
}

type MdMessage struct {
	Endpoint  string
	ComID     uint32
	Payload   []byte
	SessionID SessionID
}

// PdHandler receives process data. Nil means no callback.
type PdHandler func(PdMessage)

// MdHandler receives MD requests (listeners) or replies (senders).
// It may call back into the adapter.
type MdHandler func(MdMessage)

// ------------------------------------------------------------
// Adapter
// ------------------------------------------------------------

//go:generate mockgen -destination adaptermock/adapter.go -package adaptermock github.com/tamzrod/trdp-sim/internal/adapter Adapter

// Adapter is the protocol stack boundary.
// The simulator only talks to this interface.
type Adapter interface {
	// Initialize is not idempotent; call Shutdown before initializing again.
	Initialize(network config.NetworkConfig, logging config.LoggingConfig) error
	// Shutdown releases every registration. Safe after a failed Initialize
	// and on repeated calls.
	Shutdown() error

	RegisterPdPublisher(cfg config.PdPublisherConfig) error
	RegisterPdSubscriber(cfg config.PdSubscriberConfig, h PdHandler) error
	PublishPd(publisher string, data []byte) error

	RegisterMdSender(cfg config.MdSenderConfig, h MdHandler) error
	SendMdRequest(sender string, data []byte) error
	RegisterMdListener(cfg config.MdListenerConfig, h MdHandler) error
	// SendMdReply answers request. An unknown session is a logged no-op.
	SendMdReply(listener string, request MdMessage, data []byte) error

	// Poll advances the transport and returns within timeout.
	Poll(ctx context.Context, timeout time.Duration) error
}
