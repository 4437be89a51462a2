package coordinator

import (
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/ytget/yt-thumbnail-grabber/internal/model"
	"github.com/ytget/yt-thumbnail-grabber/internal/platform"
)

// WatchClipboard submits copied video and playlist links until ctx is done
// or events is closed. Links are only loaded while AutoLoadFromClipboard is
// set.
func (c *Coordinator) WatchClipboard(ctx context.Context, events <-chan model.ClipboardChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.handleClipboard(ev)
		}
	}
}

func (c *Coordinator) handleClipboard(ev model.ClipboardChangeEvent) bool {
	text, ok := ev.Text()
	if !ok {
		c.log.WithField("kind", ev.Kind().String()).Debug("Ignoring clipboard content")
		return false
	}
	if c.settings == nil || !c.settings.AutoLoadFromClipboard() {
		return false
	}
	text = strings.TrimSpace(html.UnescapeString(text))
	if !model.IsValidVideoURL(text) && !platform.ValidatePlaylistURL(text) {
		return false
	}
	return c.RequestResolution(text)
}
