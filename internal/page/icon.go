package page

import (
	"context"
	"image"

	"github.com/ytget/yt-thumbnail-grabber/internal/fetch"
	"github.com/ytget/yt-thumbnail-grabber/internal/model"
)

// ChannelIcon returns the uploader avatar. The first call starts the
// download in the background and every call returns model.ErrIconNotReady
// until IconReady is closed.
func (m *Metadata) ChannelIcon() (image.Image, error) {
	m.startIcon()
	select {
	case <-m.iconReady:
		return m.icon, m.iconErr
	default:
		return nil, model.ErrIconNotReady
	}
}

// IconReady is closed once the icon download finished, successfully or not.
// Calling it also starts the download.
func (m *Metadata) IconReady() <-chan struct{} {
	m.startIcon()
	return m.iconReady
}

func (m *Metadata) startIcon() {
	m.iconOnce.Do(func() {
		go m.fetchIcon()
	})
}

// fetchIcon writes icon and iconErr before closing iconReady, so readers
// that observed the close see both values
func (m *Metadata) fetchIcon() {
	defer close(m.iconReady)

	iconURL, err := m.ChannelIconURL()
	if err != nil {
		m.iconErr = err
		return
	}

	resp, err := m.fetcher.Get(context.Background(), iconURL, fetch.AcceptImage, nil)
	if err != nil {
		m.log.WithError(err).Debug("Channel icon fetch failed")
		m.iconErr = err
		return
	}

	img, _, err := fetch.DecodeImage(resp.Body)
	if err != nil {
		m.iconErr = &model.FetchError{URL: iconURL, StatusCode: resp.StatusCode, Err: err}
		return
	}
	m.icon = img
}
