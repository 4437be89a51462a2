package page

import (
	"bytes"
	"context"
	"image"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-thumbnail-grabber/internal/fetch"
	"github.com/ytget/yt-thumbnail-grabber/internal/model"
)

// Metadata is the lazily populated record for one video. All accessors are
// safe for concurrent use and may block on the first document download, so
// they must not be called from the UI goroutine. ChannelIcon never blocks.
type Metadata struct {
	ref     model.VideoReference
	url     string
	fetcher fetch.Getter
	log     *logrus.Entry

	docOnce sync.Once
	doc     *document
	docErr  error

	title          model.Field[string]
	channel        model.Field[model.ChannelInfo]
	iconURL        model.Field[string]
	viewCount      model.Field[int64]
	duration       model.Field[time.Duration]
	privacy        model.Field[model.Privacy]
	published      model.Field[time.Time]
	description    model.Field[string]
	genre          model.Field[model.Genre]
	familyFriendly model.Field[bool]
	regions        model.Field[[]string]

	iconOnce  sync.Once
	iconReady chan struct{}
	icon      image.Image
	iconErr   error
}

func newMetadata(ref model.VideoReference, url string, fetcher fetch.Getter, log *logrus.Entry) *Metadata {
	return &Metadata{
		ref:       ref,
		url:       url,
		fetcher:   fetcher,
		log:       log,
		iconReady: make(chan struct{}),
	}
}

// Ref returns the video this record describes
func (m *Metadata) Ref() model.VideoReference { return m.ref }

// URL returns the watch page address
func (m *Metadata) URL() string { return m.url }

// load downloads and parses the page exactly once. A failure is kept and
// returned to every field for the lifetime of the record.
func (m *Metadata) load() (*document, error) {
	m.docOnce.Do(func() {
		resp, err := m.fetcher.Get(context.Background(), m.url, fetch.AcceptHTML, nil)
		if err != nil {
			m.log.WithError(err).Warn("Watch page fetch failed")
			m.docErr = err
			return
		}
		dom, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
		if err != nil {
			m.docErr = &model.FetchError{URL: m.url, StatusCode: resp.StatusCode, Err: err}
			return
		}
		m.doc = &document{dom: dom, raw: string(resp.Body)}
		m.log.WithField("bytes", len(resp.Body)).Debug("Watch page loaded")
	})
	return m.doc, m.docErr
}

// resolveField runs extract on the shared document at most once for f. The
// document is loaded before the field lock is taken.
func resolveField[T any](m *Metadata, name string, f *model.Field[T], extract func(*document) (T, error)) (T, error) {
	doc, docErr := m.load()
	return f.Get(func() (T, error) {
		if docErr != nil {
			var zero T
			return zero, docErr
		}
		v, err := extract(doc)
		if err != nil {
			m.log.WithError(err).WithField("field", name).Debug("Field extraction failed")
		}
		return v, err
	})
}

// Title returns the video title
func (m *Metadata) Title() (string, error) {
	return resolveField(m, FieldTitle, &m.title, extractTitle)
}

// Channel returns the uploader name and absolute channel URL
func (m *Metadata) Channel() (model.ChannelInfo, error) {
	return resolveField(m, FieldChannel, &m.channel, extractChannel)
}

// ChannelIconURL returns the uploader avatar address
func (m *Metadata) ChannelIconURL() (string, error) {
	return resolveField(m, FieldChannelIcon, &m.iconURL, extractChannelIconURL)
}

// ViewCount returns the number of views, or model.ErrLivestream while live
func (m *Metadata) ViewCount() (int64, error) {
	return resolveField(m, FieldViewCount, &m.viewCount, extractViewCount)
}

// Duration returns the video length
func (m *Metadata) Duration() (time.Duration, error) {
	return resolveField(m, FieldDuration, &m.duration, extractDuration)
}

// Privacy returns the visibility. A page without the flag reports Private.
func (m *Metadata) Privacy() (model.Privacy, error) {
	return resolveField(m, FieldPrivacy, &m.privacy, extractPrivacy)
}

// Published returns the publish date
func (m *Metadata) Published() (time.Time, error) {
	return resolveField(m, FieldPublished, &m.published, extractPublished)
}

// Description returns the video description
func (m *Metadata) Description() (string, error) {
	return resolveField(m, FieldDescription, &m.description, extractDescription)
}

// Genre returns the category; unknown categories keep their page text
func (m *Metadata) Genre() (model.Genre, error) {
	return resolveField(m, FieldGenre, &m.genre, extractGenre)
}

// FamilyFriendly returns the family friendly flag
func (m *Metadata) FamilyFriendly() (bool, error) {
	return resolveField(m, FieldFamilyFriendly, &m.familyFriendly, extractFamilyFriendly)
}

// RegionsAllowed returns the region codes the video is available in
func (m *Metadata) RegionsAllowed() ([]string, error) {
	regions, err := resolveField(m, FieldRegionsAllowed, &m.regions, extractRegionsAllowed)
	if err != nil {
		return nil, err
	}
	return append([]string(nil), regions...), nil
}

// FieldState reports the state of a named field without triggering I/O
func (m *Metadata) FieldState(name string) model.FieldState {
	switch name {
	case FieldTitle:
		return m.title.State()
	case FieldChannel:
		return m.channel.State()
	case FieldChannelIcon:
		return m.iconURL.State()
	case FieldViewCount:
		return m.viewCount.State()
	case FieldDuration:
		return m.duration.State()
	case FieldPrivacy:
		return m.privacy.State()
	case FieldPublished:
		return m.published.State()
	case FieldDescription:
		return m.description.State()
	case FieldGenre:
		return m.genre.State()
	case FieldFamilyFriendly:
		return m.familyFriendly.State()
	case FieldRegionsAllowed:
		return m.regions.State()
	default:
		return model.FieldUnfetched
	}
}
