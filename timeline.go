package timelinez

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/zoobzio/clockz"
)

// Timeline buffers event records for one process and writes them out once
// at shutdown. Safe for concurrent use by multiple goroutines.
//
// The buffer is append-only for the life of the timeline: records are never
// mutated or removed, and their order is the order appends were granted the
// lock - not necessarily timestamp order, since stamping and appending are
// separate steps.
//
//nolint:govet // Field alignment optimized for readability over memory efficiency
type Timeline struct {
	records   []Record
	path      string
	clock     clockz.Clock
	flushErr  error
	mu        sync.Mutex
	flushOnce sync.Once
}

// New creates a timeline using the real clock. The output path is read from
// the TIMELINEZ_FILE_PATH environment variable at construction time; when
// the variable is unset the timeline still buffers records but Flush is a
// silent no-op.
func New() *Timeline {
	return &Timeline{
		records: make([]Record, 0, 8), // Start with small capacity.
		path:    os.Getenv(EnvFilePath),
		clock:   clockz.RealClock,
	}
}

// WithClock returns a fresh timeline with the specified clock.
// Enables clock injection for deterministic testing.
func (*Timeline) WithClock(clock clockz.Clock) *Timeline {
	return &Timeline{
		records: make([]Record, 0, 8),
		path:    os.Getenv(EnvFilePath),
		clock:   clock,
	}
}

// WithPath returns a fresh timeline writing to path, ignoring the
// environment. An empty path disables flushing entirely.
func (t *Timeline) WithPath(path string) *Timeline {
	return &Timeline{
		records: make([]Record, 0, 8),
		path:    path,
		clock:   t.clock,
	}
}

// append adds one record to the buffer. Atomic with respect to concurrent
// appends: no record is lost, torn, or reordered once the lock is granted.
func (t *Timeline) append(r Record) {
	// Copy args so records can't be modified after collection.
	if r.Args != nil {
		args := make(map[string]string, len(r.Args))
		for k, v := range r.Args {
			args[k] = v
		}
		r.Args = args
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, r)
}

// Records returns a copy of the buffered records in insertion order.
// The returned slice is safe to modify without affecting the timeline.
func (t *Timeline) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Len returns the current number of buffered records.
func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// Save serializes the buffer to path as a single trace-event JSON document,
// creating intermediate directories and overwriting any existing file.
func (t *Timeline) Save(path string) error {
	doc := Document{
		TraceEvents:     t.Records(),
		DisplayTimeUnit: "ms",
		OtherData: OtherData{
			LogDir: filepath.Dir(path),
		},
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Flush writes the buffer to the configured output path. It runs at most
// once per timeline - later calls return the first call's error - and is
// safe to invoke from concurrent shutdown paths. With no configured path
// the buffer is silently discarded and no file is created.
func (t *Timeline) Flush() error {
	t.flushOnce.Do(func() {
		if t.path == "" {
			return
		}
		t.flushErr = t.Save(t.path)
	})
	return t.flushErr
}

// Path returns the configured output path, empty when flushing is disabled.
func (t *Timeline) Path() string {
	return t.path
}

var defaultTimeline = New()

// Default returns the process-wide timeline. It is created at package init,
// so TIMELINEZ_FILE_PATH is read once at process start.
func Default() *Timeline {
	return defaultTimeline
}

// Flush writes the default timeline to its configured path. Host processes
// call this from their own shutdown hook; there is no implicit exit
// callback.
func Flush() error {
	return defaultTimeline.Flush()
}
