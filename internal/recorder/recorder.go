// internal/recorder/recorder.go
package recorder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	// Pure-Go sqlite driver, registers as "sqlite".
	_ "github.com/glebarez/go-sqlite"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/tamzrod/trdp-sim/internal/config"
	"github.com/tamzrod/trdp-sim/internal/logging"
	"github.com/tamzrod/trdp-sim/internal/metrics"
)

// Sample kinds stored in the kind column.
const (
	KindLifecycle    = "lifecycle"
	KindPdPublisher  = "pdPublisher"
	KindPdSubscriber = "pdSubscriber"
	KindMdSender     = "mdSender"
	KindMdListener   = "mdListener"
)

var ErrClosed = errors.New("recorder: closed")

// Sample is one stored row.
//
// For KindLifecycle, Name carries the adapter state and C1/C2 are the
// running/initialized flags. For endpoint kinds C1/C2 are the counters
// in the order they appear in the metrics snapshot.
type Sample struct {
	RunID string
	At    time.Time
	Kind  string
	Name  string
	C1    uint64
	C2    uint64
}

// Recorder keeps a sqlite history of metrics snapshots.
type Recorder struct {
	mu      sync.Mutex
	db      *sql.DB
	insert  *sql.Stmt
	path    string
	runID   string
	pending []Sample
	closed  bool
	log     *slog.Logger
}

// DefaultPath returns a fresh file name for a run.
func DefaultPath(runID string) string {
	return fmt.Sprintf("trdpsim_metrics_%s.sqlite3", runID)
}

// New opens (or creates) the database and prepares the schema.
// Pending rows of open recorders are flushed at process exit via atexit.
func New(c config.RecorderConfig, log *slog.Logger) (*Recorder, error) {
	runID := xid.New().String()
	path := c.Path
	if path == "" {
		path = DefaultPath(runID)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("recorder: open %s: %w", path, err)
	}
	// One writer; sqlite serializes anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS samples (
		run_id TEXT NOT NULL,
		at     INTEGER NOT NULL,
		kind   TEXT NOT NULL,
		name   TEXT NOT NULL,
		c1     INTEGER NOT NULL,
		c2     INTEGER NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("recorder: create table: %w", err)
	}

	insert, err := db.Prepare(`INSERT INTO samples (run_id, at, kind, name, c1, c2) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("recorder: prepare: %w", err)
	}

	r := &Recorder{
		db:     db,
		insert: insert,
		path:   path,
		runID:  runID,
		log:    logging.OrDiscard(log),
	}

	track(r)

	r.log.Info("recorder opened", "path", path, "run", runID)
	return r, nil
}

func (r *Recorder) Path() string  { return r.path }
func (r *Recorder) RunID() string { return r.runID }

// Record stores one snapshot as a batch of rows in one transaction.
// Rows that fail to commit stay pending and are retried on the next call.
func (r *Recorder) Record(at time.Time, snap metrics.Snapshot) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.pending = append(r.pending, rows(r.runID, at, snap)...)
	r.mu.Unlock()

	return r.Flush()
}

// Flush commits all pending rows.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	return r.flushLocked()
}

func (r *Recorder) flushLocked() error {
	if len(r.pending) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("recorder: begin: %w", err)
	}
	stmt := tx.Stmt(r.insert)

	for _, s := range r.pending {
		if _, err := stmt.Exec(s.RunID, s.At.UnixNano(), s.Kind, s.Name, clamp(s.C1), clamp(s.C2)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recorder: insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("recorder: commit: %w", err)
	}

	r.pending = r.pending[:0]
	return nil
}

// Samples returns every stored row of this run, oldest first.
func (r *Recorder) Samples(ctx context.Context) ([]Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}

	q, err := r.db.QueryContext(ctx,
		`SELECT run_id, at, kind, name, c1, c2 FROM samples WHERE run_id = ? ORDER BY rowid`, r.runID)
	if err != nil {
		return nil, err
	}
	defer q.Close()

	var out []Sample
	for q.Next() {
		var (
			s      Sample
			at     int64
			c1, c2 int64
		)
		if err := q.Scan(&s.RunID, &at, &s.Kind, &s.Name, &c1, &c2); err != nil {
			return nil, err
		}
		s.At = time.Unix(0, at)
		s.C1, s.C2 = uint64(c1), uint64(c2)
		out = append(out, s)
	}
	return out, q.Err()
}

// Close flushes and releases the database. Safe to call more than once.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	flushErr := r.flushLocked()
	r.closed = true
	untrack(r)

	_ = r.insert.Close()
	return errors.Join(flushErr, r.db.Close())
}

// ------------------------------------------------------------
// Exit hook
// ------------------------------------------------------------

// One atexit handler serves every open recorder.
var (
	liveMu   sync.Mutex
	live     = map[*Recorder]struct{}{}
	hookOnce sync.Once
)

func track(r *Recorder) {
	hookOnce.Do(func() { atexit.Register(flushLive) })

	liveMu.Lock()
	live[r] = struct{}{}
	liveMu.Unlock()
}

func untrack(r *Recorder) {
	liveMu.Lock()
	delete(live, r)
	liveMu.Unlock()
}

func flushLive() {
	liveMu.Lock()
	open := make([]*Recorder, 0, len(live))
	for r := range live {
		open = append(open, r)
	}
	liveMu.Unlock()

	for _, r := range open {
		if err := r.Flush(); err != nil && !errors.Is(err, ErrClosed) {
			r.log.Error("recorder flush at exit failed", "err", err)
		}
	}
}

func rows(runID string, at time.Time, snap metrics.Snapshot) []Sample {
	out := make([]Sample, 0, 1+len(snap.PdPublishers)+len(snap.PdSubscribers)+len(snap.MdSenders)+len(snap.MdListeners))

	out = append(out, Sample{
		RunID: runID, At: at, Kind: KindLifecycle, Name: snap.AdapterState,
		C1: flag(snap.SimulatorRunning), C2: flag(snap.AdapterInitialized),
	})
	for _, p := range snap.PdPublishers {
		out = append(out, Sample{RunID: runID, At: at, Kind: KindPdPublisher, Name: p.Name, C1: p.PacketsSent})
	}
	for _, p := range snap.PdSubscribers {
		out = append(out, Sample{RunID: runID, At: at, Kind: KindPdSubscriber, Name: p.Name, C1: p.PacketsReceived})
	}
	for _, p := range snap.MdSenders {
		out = append(out, Sample{RunID: runID, At: at, Kind: KindMdSender, Name: p.Name, C1: p.RequestsSent, C2: p.RepliesReceived})
	}
	for _, p := range snap.MdListeners {
		out = append(out, Sample{RunID: runID, At: at, Kind: KindMdListener, Name: p.Name, C1: p.RequestsReceived, C2: p.RepliesSent})
	}
	return out
}

func flag(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// sqlite integers are signed 64-bit.
func clamp(v uint64) int64 {
	if v > 1<<63-1 {
		return 1<<63 - 1
	}
	return int64(v)
}
