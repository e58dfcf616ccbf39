// internal/adapter/frame.go
package adapter

import "time"

type FrameKind string

const (
	FramePd        FrameKind = "pd"
	FrameMdRequest FrameKind = "mdRequest"
	FrameMdReply   FrameKind = "mdReply"
)

// Frame is one delivered message as seen on the emulated wire.
// From and To hold an address when configured, otherwise an endpoint name.
type Frame struct {
	Kind      FrameKind
	From      string
	To        string
	ComID     uint32
	Seq       uint64
	SessionID SessionID
	Payload   []byte
	At        time.Time
}

// Tap observes delivered frames. It is called without adapter locks held
// and must not retain Payload beyond the call.
type Tap func(Frame)
