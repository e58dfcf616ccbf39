// internal/worker/runner.go
package worker

import (
	"sync"
	"time"
)

// runner drives one periodic send loop.
// interval <= 0 means one synchronous send per start, no goroutine.
type runner struct {
	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

func (r *runner) start(interval time.Duration, tick func()) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true

	if interval <= 0 {
		r.mu.Unlock()
		tick()
		return
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	r.stop, r.done = stop, done
	r.mu.Unlock()

	go func() {
		defer close(done)

		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-stop:
				return
			default:
			}

			tick()

			select {
			case <-stop:
				return
			case <-timer.C:
				timer.Reset(interval)
			}
		}
	}()
}

// halt signals the loop and waits for it. Safe to call repeatedly.
func (r *runner) halt() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	stop, done := r.stop, r.done
	r.stop, r.done = nil, nil
	r.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (r *runner) isRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
