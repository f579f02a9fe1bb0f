// Package timelinez records begin/end event timelines for a single process.
//
// timelinez captures named spans emitted by application code into an
// in-memory buffer and writes the buffer out as a Chrome trace-event JSON
// file at shutdown. It's designed for ad-hoc performance diagnosis -
// finding lock contention or slow functions - without an external
// tracing backend.
//
// Core Components:
//   - Timeline: Owns the record buffer and its flush lifecycle.
//   - Event: A named span emitting paired Begin/End records.
//   - LockedEvent: A cross-process lock combined with acquire/hold spans.
//   - Instrument/Named: Function wrappers that bracket every call in a span.
//
// Basic Usage:
//
//	tl := timelinez.New()
//
//	ev := tl.Event("load-config")
//	ev.Begin()
//	// ... work ...
//	ev.End()
//
//	// Scoped form, End guaranteed on every exit path.
//	err := tl.Event("provision").Scope(func() error {
//		return provision()
//	})
//
//	// At shutdown, write the trace file if TIMELINEZ_FILE_PATH was set.
//	if err := tl.Flush(); err != nil {
//		log.Fatal(err)
//	}
//
// Most programs use the process-wide default timeline via the package-level
// NewEvent, Instrument, Named, and Flush functions; the default timeline
// reads TIMELINEZ_FILE_PATH once at process start.
//
// Thread Safety:
//
// Timeline is safe for concurrent use by multiple goroutines; buffer
// appends are atomic and keep insertion order. An individual Event is tied
// to the goroutine that created it - Begin/End report creation-time
// identity even when called elsewhere.
//
// Output Format:
//
// The flushed document follows the trace-event format understood by
// chrome://tracing and compatible viewers: a traceEvents array of
// phase-tagged records, displayTimeUnit fixed to "ms", and an otherData
// block naming the log directory.
package timelinez

// EnvFilePath is the environment variable naming the output trace file.
// When unset, the default timeline still buffers records but Flush writes
// nothing.
const EnvFilePath = "TIMELINEZ_FILE_PATH"
