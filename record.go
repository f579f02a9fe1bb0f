package timelinez

import (
	"fmt"
	"time"
)

// Phase tags a record as the begin or end edge of a span.
// Only duration phases are emitted by this package; other trace-event
// phase letters exist in the format but are never produced here.
type Phase string

const (
	PhaseBegin Phase = "B"
	PhaseEnd   Phase = "E"
)

// recordCategory is the constant cat value stamped on every record.
const recordCategory = "event"

// Record is one trace-event entry in the output document. Two records are
// appended per logical span, sharing everything but ph and ts.
//
// Field names, the phase letters, and the string-typed ts are a
// compatibility contract with trace viewers - do not change them.
//
//nolint:govet // Field order mirrors the serialized document, not alignment.
type Record struct {
	Name      string            `json:"name"`
	Category  string            `json:"cat"`
	ProcessID string            `json:"pid"`
	ThreadID  string            `json:"tid"`
	Phase     Phase             `json:"ph"`
	Timestamp string            `json:"ts"`
	Args      map[string]string `json:"args,omitempty"`
}

// Document is the top-level JSON object written at flush time.
type Document struct {
	TraceEvents     []Record  `json:"traceEvents"`
	DisplayTimeUnit string    `json:"displayTimeUnit"`
	OtherData       OtherData `json:"otherData"`
}

// OtherData carries trace metadata alongside the event array.
type OtherData struct {
	LogDir string `json:"log_dir"`
}

// formatTimestamp renders t as microseconds since the Unix epoch with fixed
// three-decimal precision and a sign-space pad. Viewers parse ts leniently,
// but files produced here must be byte-compatible with existing tooling
// that expects this exact shape.
func formatTimestamp(t time.Time) string {
	micros := float64(t.UnixNano()) / float64(time.Microsecond)
	return fmt.Sprintf("% .3f", micros)
}
