package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidVideoURL means no known URL shape matched the input
	ErrInvalidVideoURL = errors.New("invalid video url")
	// ErrInvalidPlaylistURL means the input is not a playlist link
	ErrInvalidPlaylistURL = errors.New("invalid playlist url")
	// ErrFetch is the root of every network or HTTP failure
	ErrFetch = errors.New("fetch failed")
	// ErrFieldNotFound means a single metadata field could not be extracted
	ErrFieldNotFound = errors.New("field not found")
	// ErrWrite means persisting bytes to disk failed
	ErrWrite = errors.New("write failed")
	// ErrIconNotReady is returned by the channel icon accessor until the image arrives
	ErrIconNotReady = errors.New("channel icon not ready")
	// ErrLivestream is returned for a view count while the video is live
	ErrLivestream = errors.New("livestream in progress")
)

// InvalidVideoURLError carries the rejected input
type InvalidVideoURLError struct {
	Input string
}

func (e *InvalidVideoURLError) Error() string {
	return fmt.Sprintf("%s: %q", ErrInvalidVideoURL, e.Input)
}

func (e *InvalidVideoURLError) Unwrap() error { return ErrInvalidVideoURL }

// InvalidPlaylistURLError carries the rejected playlist input
type InvalidPlaylistURLError struct {
	Input  string
	Reason string
}

func (e *InvalidPlaylistURLError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %q", ErrInvalidPlaylistURL, e.Input)
	}
	return fmt.Sprintf("%s: %q: %s", ErrInvalidPlaylistURL, e.Input, e.Reason)
}

func (e *InvalidPlaylistURLError) Unwrap() error { return ErrInvalidPlaylistURL }

// FetchError describes a failed GET. StatusCode is zero for transport errors.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("fetch %s failed", e.URL)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrFetch) true for every FetchError
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// FieldNotFoundError names the metadata field that failed
type FieldNotFoundError struct {
	Field string
	Err   error
}

func (e *FieldNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrFieldNotFound, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrFieldNotFound, e.Field)
}

func (e *FieldNotFoundError) Unwrap() error { return e.Err }

func (e *FieldNotFoundError) Is(target error) bool { return target == ErrFieldNotFound }

// NewFieldNotFound builds a FieldNotFoundError, cause may be nil
func NewFieldNotFound(field string, cause error) error {
	return &FieldNotFoundError{Field: field, Err: cause}
}

// WriteError wraps a failed save
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrWrite, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool { return target == ErrWrite }
