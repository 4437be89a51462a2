package clipboard

import (
	"context"
	"fmt"
	"image"
)

// Host is the platform side of the clipboard: chain membership and content access
type Host interface {
	// SetViewer adds self to the chain and returns the viewer that followed it
	SetViewer(self Handle) (Handle, error)
	// ChangeChain removes remove from the chain and links next in its place
	ChangeChain(remove, next Handle) error
	// Forward sends msg to the viewer to
	Forward(to Handle, msg Message) error
	ContentType() ContentType
	ReadText() (string, error)
	ReadImage() (image.Image, error)
}

// System is a Host backed by the desktop clipboard
type System interface {
	Host
	// Attach starts delivering notifications for the native window to w and
	// returns the handle the watcher should register with
	Attach(ctx context.Context, window uintptr, w *Watcher) (Handle, error)
}

// chainResult interprets a chain call whose zero handle is a valid result.
// lastErr must be nil unless the call itself reported a failure.
func chainResult(op string, ret uintptr, lastErr error) (Handle, error) {
	if ret == 0 && lastErr != nil {
		return 0, fmt.Errorf("%s: %w", op, lastErr)
	}
	return Handle(ret), nil
}
