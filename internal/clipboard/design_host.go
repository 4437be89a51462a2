package clipboard

import (
	"context"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
	xclip "golang.design/x/clipboard"

	"github.com/ytget/yt-thumbnail-grabber/internal/logging"
)

// DesignHost reads the desktop clipboard through golang.design/x/clipboard.
// Its chain has a single link, so there is never a successor to forward to.
type DesignHost struct {
	log *logrus.Entry
}

// NewDesignHost initializes the clipboard driver
func NewDesignHost() (*DesignHost, error) {
	if err := xclip.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	return &DesignHost{log: logging.WithComponent("clipboard")}, nil
}

func (h *DesignHost) SetViewer(Handle) (Handle, error) { return 0, nil }

func (h *DesignHost) ChangeChain(Handle, Handle) error { return nil }

func (h *DesignHost) Forward(Handle, Message) error { return nil }

func (h *DesignHost) ContentType() ContentType {
	if len(xclip.Read(xclip.FmtText)) > 0 {
		return ContentText
	}
	if len(xclip.Read(xclip.FmtImage)) > 0 {
		return ContentImage
	}
	return ContentNone
}

func (h *DesignHost) ReadText() (string, error) {
	return string(xclip.Read(xclip.FmtText)), nil
}

func (h *DesignHost) ReadImage() (image.Image, error) {
	return DecodeImage(xclip.Read(xclip.FmtImage))
}

// Attach runs the change notification loop until ctx is done
func (h *DesignHost) Attach(ctx context.Context, window uintptr, w *Watcher) (Handle, error) {
	go h.Run(ctx, w)
	return Handle(window), nil
}

// Run translates clipboard change notifications into draw messages for w
func (h *DesignHost) Run(ctx context.Context, w *Watcher) {
	text := xclip.Watch(ctx, xclip.FmtText)
	img := xclip.Watch(ctx, xclip.FmtImage)
	h.log.Debug("Watching clipboard")

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-text:
			if !ok {
				text = nil
				continue
			}
			w.HandleMessage(DrawMessage())
		case _, ok := <-img:
			if !ok {
				img = nil
				continue
			}
			w.HandleMessage(DrawMessage())
		}
	}
}
