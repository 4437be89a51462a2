package model

import "sync"

// FieldState represents the lifecycle of a lazily resolved metadata field
type FieldState int

const (
	// FieldUnfetched means extraction has not been attempted yet
	FieldUnfetched FieldState = iota

	// FieldFetched means the value was extracted and is now immutable
	FieldFetched

	// FieldErrored means extraction failed; the same error is returned forever
	FieldErrored
)

// String returns the string representation of FieldState
func (s FieldState) String() string {
	switch s {
	case FieldUnfetched:
		return "Unfetched"
	case FieldFetched:
		return "Fetched"
	case FieldErrored:
		return "Errored"
	default:
		return "Unknown"
	}
}

// IsResolved returns true once the field left the Unfetched state
func (s FieldState) IsResolved() bool {
	return s == FieldFetched || s == FieldErrored
}

// Field is a lazily computed value that is extracted at most once.
// The zero value is ready to use and starts Unfetched.
type Field[T any] struct {
	mu    sync.Mutex
	state FieldState
	value T
	err   error
}

// Get returns the cached outcome, running extract only on the first call.
// extract must not perform network I/O; callers fetch their inputs first.
func (f *Field[T]) Get(extract func() (T, error)) (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == FieldUnfetched {
		v, err := extract()
		if err != nil {
			f.state = FieldErrored
			f.err = err
		} else {
			f.state = FieldFetched
			f.value = v
		}
	}
	return f.value, f.err
}

// State returns the current state without triggering extraction
func (f *Field[T]) State() FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}
