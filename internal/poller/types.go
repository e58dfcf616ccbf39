// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/trdp-sim/internal/metrics"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	At       time.Time
	Snapshot metrics.Snapshot
	Err      error // non-nil means the simulator reported an error state
}
