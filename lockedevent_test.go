package timelinez

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/zoobzio/clockz"
)

// fakeLock is a reentrant in-memory Locker for exercising hold-span
// transitions without touching the filesystem.
type fakeLock struct {
	depth   int
	lockErr error
}

func (f *fakeLock) Lock() error {
	if f.lockErr != nil {
		return f.lockErr
	}
	f.depth++
	return nil
}

func (f *fakeLock) Unlock() error {
	if f.depth == 0 {
		return errors.New("unlock of unlocked lock")
	}
	f.depth--
	return nil
}

func (f *fakeLock) Locked() bool {
	return f.depth > 0
}

func recordNames(records []Record) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = string(r.Phase) + " " + r.Name
	}
	return names
}

func assertRecords(t *testing.T, tl *Timeline, want ...string) {
	t.Helper()
	got := recordNames(tl.Records())
	if len(got) != len(want) {
		t.Fatalf("expected %d records %v, got %d: %v", len(want), want, len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestLockedEventSingleCycle(t *testing.T) {
	tl := New().WithClock(clockz.NewFakeClock())
	le := NewLockedEvent(tl, "db", &fakeLock{})

	if err := le.Acquire(); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if err := le.Release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	assertRecords(t, tl,
		"B [acquire]:db",
		"E [acquire]:db",
		"B [hold]:db",
		"E [hold]:db",
	)
}

func TestLockedEventReentrantAcquire(t *testing.T) {
	tl := New().WithClock(clockz.NewFakeClock())
	le := NewLockedEvent(tl, "db", &fakeLock{})

	for _, step := range []func() error{le.Acquire, le.Acquire, le.Release, le.Release} {
		if err := step(); err != nil {
			t.Fatalf("lock step failed: %v", err)
		}
	}

	// The inner acquire/release pair is bracketed by acquire spans only;
	// the hold span belongs to the outermost pair.
	assertRecords(t, tl,
		"B [acquire]:db",
		"E [acquire]:db",
		"B [hold]:db",
		"B [acquire]:db",
		"E [acquire]:db",
		"E [hold]:db",
	)
}

func TestLockedEventAcquireFailure(t *testing.T) {
	tl := New().WithClock(clockz.NewFakeClock())
	lockErr := errors.New("timeout")
	le := NewLockedEvent(tl, "db", &fakeLock{lockErr: lockErr})

	if err := le.Acquire(); !errors.Is(err, lockErr) {
		t.Fatalf("expected lock error to propagate unchanged, got %v", err)
	}

	// The acquire span still closes; the hold span never starts.
	assertRecords(t, tl,
		"B [acquire]:db",
		"E [acquire]:db",
	)
}

func TestLockedEventDo(t *testing.T) {
	tl := New().WithClock(clockz.NewFakeClock())
	lock := &fakeLock{}
	le := NewLockedEvent(tl, "db", lock)

	var ranLocked bool
	err := le.Do(func() error {
		ranLocked = lock.Locked()
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if !ranLocked {
		t.Error("expected fn to run while holding the lock")
	}
	if lock.Locked() {
		t.Error("expected lock to be released after Do")
	}
	if tl.Len() != 4 {
		t.Errorf("expected 4 records for one cycle, got %d", tl.Len())
	}
}

func TestLockedEventDoReleasesOnError(t *testing.T) {
	tl := New().WithClock(clockz.NewFakeClock())
	lock := &fakeLock{}
	le := NewLockedEvent(tl, "db", lock)

	sentinel := errors.New("boom")
	if err := le.Do(func() error { return sentinel }); !errors.Is(err, sentinel) {
		t.Fatalf("expected fn error to pass through, got %v", err)
	}
	if lock.Locked() {
		t.Error("expected lock to be released after failed fn")
	}

	assertRecords(t, tl,
		"B [acquire]:db",
		"E [acquire]:db",
		"B [hold]:db",
		"E [hold]:db",
	)
}

func TestLockedEventWrap(t *testing.T) {
	tl := New().WithClock(clockz.NewFakeClock())
	lock := &fakeLock{}
	le := NewLockedEvent(tl, "db", lock)

	var calls int
	work := le.Wrap(func(delta int) int {
		if !lock.Locked() {
			t.Error("expected wrapped call to run under the lock")
		}
		calls += delta
		return calls
	}).(func(int) int)

	if got := work(2); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	if got := work(3); got != 5 {
		t.Errorf("expected 5, got %d", got)
	}
	if lock.Locked() {
		t.Error("expected lock released after wrapped calls")
	}
	if tl.Len() != 8 {
		t.Errorf("expected 8 records for 2 cycles, got %d", tl.Len())
	}
}

func TestFileLockEvent(t *testing.T) {
	tl := New().WithClock(clockz.NewFakeClock())
	path := filepath.Join(t.TempDir(), "resource.lock")
	le := NewFileLockEvent(tl, path)

	if err := le.Acquire(); err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if err := le.Release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	assertRecords(t, tl,
		"B [acquire]:"+path,
		"E [acquire]:"+path,
		"B [hold]:"+path,
		"E [hold]:"+path,
	)
}
