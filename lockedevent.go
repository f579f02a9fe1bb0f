package timelinez

import (
	"reflect"

	"github.com/gofrs/flock"
)

// Locker is the external exclusive-lock capability LockedEvent instruments.
// Lock blocks until the lock is held (it may be reentrant), Unlock releases
// it, and Locked reports whether this handle currently holds the lock.
// *flock.Flock satisfies it directly.
//
// Reentrancy is detected purely through Locked snapshots around each
// operation, so hold spans are only as accurate as the lock's own state
// reporting. That is a hard precondition, not an implementation detail.
type Locker interface {
	Lock() error
	Unlock() error
	Locked() bool
}

// LockedEvent couples an exclusive lock with span recording: each Acquire
// emits a transient "[acquire]:<name>" span covering the time spent waiting
// for the lock, and the interval between the outermost Acquire and its
// matching Release is bracketed by a long-lived "[hold]:<name>" span.
//
// Reentrant acquires and releases of an already-held lock produce acquire
// spans but never extra hold records.
type LockedEvent struct {
	timeline *Timeline
	lock     Locker
	name     string
	hold     *Event
}

// NewLockedEvent instruments lock under the given display name.
func NewLockedEvent(t *Timeline, name string, lock Locker) *LockedEvent {
	return &LockedEvent{
		timeline: t,
		lock:     lock,
		name:     name,
		hold:     t.Event("[hold]:" + name),
	}
}

// NewFileLockEvent instruments a cross-process file lock on path, with the
// path as the display name.
func NewFileLockEvent(t *Timeline, path string) *LockedEvent {
	return NewLockedEvent(t, path, flock.New(path))
}

// Acquire takes the lock, recording the wait as an acquire span. On a
// genuine unheld-to-held transition it also begins the hold span; a
// reentrant acquire leaves the hold span alone. A failed Lock call still
// closes the acquire span and returns the error unchanged - no retries.
func (l *LockedEvent) Acquire() error {
	wasLocked := l.lock.Locked()
	err := l.timeline.Event("[acquire]:" + l.name).Scope(l.lock.Lock)
	if err != nil {
		return err
	}
	if !wasLocked && l.lock.Locked() {
		l.hold.Begin()
	}
	return nil
}

// Release releases the lock, ending the hold span when the lock actually
// transitioned from held to unheld. Unlock errors propagate unchanged.
func (l *LockedEvent) Release() error {
	wasLocked := l.lock.Locked()
	err := l.lock.Unlock()
	if wasLocked && !l.lock.Locked() {
		l.hold.End()
	}
	return err
}

// Do runs fn while holding the lock. Release runs on every exit path,
// including panics; a Release failure is reported only when fn itself
// succeeded.
func (l *LockedEvent) Do(fn func() error) (err error) {
	if err = l.Acquire(); err != nil {
		return err
	}
	defer func() {
		rerr := l.Release()
		if err == nil {
			err = rerr
		}
	}()
	return fn()
}

// Wrap returns a function of fn's exact dynamic type whose every call is
// bracketed by Acquire and Release of this same lock instance. Panics if
// fn is not a function. Lock failures at call time surface as panics,
// since the wrapped signature has no error slot to carry them; use Do when
// the caller wants the error.
func (l *LockedEvent) Wrap(fn any) any {
	v := mustFunc(fn)
	out := reflect.MakeFunc(v.Type(), func(args []reflect.Value) []reflect.Value {
		if err := l.Acquire(); err != nil {
			panic(err)
		}
		defer func() {
			if err := l.Release(); err != nil {
				panic(err)
			}
		}()
		return v.Call(args)
	})
	return out.Interface()
}
