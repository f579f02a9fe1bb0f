package timelinez

import (
	"fmt"
	"reflect"
	"runtime"
)

// Named wraps fn so every call runs inside an Event with the given name and
// optional message. The returned value has fn's exact dynamic type; assert
// it back to call:
//
//	loader := tl.Named("config.load", "", loadConfig).(func(string) error)
//
// Panics if fn is not a function.
func (t *Timeline) Named(name, message string, fn any) any {
	return t.wrap(fn, func() *Event { return t.EventMessage(name, message) })
}

// Instrument wraps fn under its own import-path-qualified name, so a
// package-level function pkg.Foo produces events named
// "example.com/mod/pkg.Foo". Panics if fn is not a function; using a name
// instead of a function belongs to Named.
func (t *Timeline) Instrument(fn any) any {
	name := funcName(fn)
	return t.wrap(fn, func() *Event { return t.Event(name) })
}

// Named wraps fn on the default timeline.
func Named(name, message string, fn any) any {
	return defaultTimeline.Named(name, message, fn)
}

// Instrument wraps fn on the default timeline under its own qualified name.
func Instrument(fn any) any {
	return defaultTimeline.Instrument(fn)
}

// wrap builds a function of fn's type whose calls are bracketed by a fresh
// Event from mk. Results and panics pass through unchanged; the end record
// is still emitted when the wrapped function panics.
func (t *Timeline) wrap(fn any, mk func() *Event) any {
	v := mustFunc(fn)
	out := reflect.MakeFunc(v.Type(), func(args []reflect.Value) []reflect.Value {
		ev := mk()
		ev.Begin()
		defer ev.End()
		return v.Call(args)
	})
	return out.Interface()
}

// funcName resolves the qualified name the Go runtime knows fn by.
func funcName(fn any) string {
	v := mustFunc(fn)
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return v.Type().String()
}

// mustFunc validates fn at wrap time so misuse fails immediately rather
// than on first call.
func mustFunc(fn any) reflect.Value {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		panic(fmt.Sprintf("timelinez: expected a function to wrap, got %T", fn))
	}
	return v
}
