// Package thumbnail resolves the display image for a video. The max
// resolution image is tried first and the always available low resolution
// image exactly once on any primary failure.
package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-thumbnail-grabber/internal/fetch"
	"github.com/ytget/yt-thumbnail-grabber/internal/logging"
	"github.com/ytget/yt-thumbnail-grabber/internal/model"
)

// Image file names relative to <base>/<id>/
const (
	DefaultBaseURL = "https://i.ytimg.com/vi"
	PrimaryFile    = "maxresdefault.jpg"
	FallbackFile   = "0.jpg"
)

// EventKind tags an Event
type EventKind int

const (
	EventProgress EventKind = iota
	EventSuccess
	EventFailure
)

// String returns the string representation of EventKind
func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventSuccess:
		return "success"
	case EventFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Event is one item of a resolution stream. Progress events carry Tier and
// Percent, Success carries Asset, Failure carries Err.
type Event struct {
	Kind    EventKind
	Tier    model.ThumbnailTier
	Percent int
	Asset   *model.ThumbnailAsset
	Err     error
}

// IsTerminal reports whether this is the last event of a stream
func (e Event) IsTerminal() bool {
	return e.Kind == EventSuccess || e.Kind == EventFailure
}

// attempt is one tier of the retry plan
type attempt struct {
	tier model.ThumbnailTier
	url  string
}

// result is what a single attempt produced
type result struct {
	asset *model.ThumbnailAsset
	err   error
}

// Resolver fetches thumbnails through a fetch.Getter
type Resolver struct {
	fetcher fetch.Getter
	baseURL string
	log     *logrus.Entry
}

// NewResolver creates a resolver; an empty baseURL uses DefaultBaseURL
func NewResolver(fetcher fetch.Getter, baseURL string) *Resolver {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Resolver{
		fetcher: fetcher,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logging.WithComponent("thumbnail"),
	}
}

// PrimaryURL returns the max resolution image URL for id
func (r *Resolver) PrimaryURL(id model.VideoID) string {
	return fmt.Sprintf("%s/%s/%s", r.baseURL, id, PrimaryFile)
}

// FallbackURL returns the low resolution image URL for id
func (r *Resolver) FallbackURL(id model.VideoID) string {
	return fmt.Sprintf("%s/%s/%s", r.baseURL, id, FallbackFile)
}

func (r *Resolver) plan(id model.VideoID) []attempt {
	return []attempt{
		{tier: model.TierPrimary, url: r.PrimaryURL(id)},
		{tier: model.TierFallback, url: r.FallbackURL(id)},
	}
}

// Resolve starts the resolution and returns its event stream. Exactly one
// terminal event is sent, then the channel is closed. Progress events are
// dropped rather than block when the reader falls behind; the terminal event
// is always delivered.
func (r *Resolver) Resolve(ctx context.Context, ref model.VideoReference) <-chan Event {
	events := make(chan Event, 8)
	go r.run(ctx, ref, events)
	return events
}

func (r *Resolver) run(ctx context.Context, ref model.VideoReference, events chan<- Event) {
	defer close(events)
	log := r.log.WithField("video_id", ref.ID().String())

	var errs []error
	for _, a := range r.plan(ref.ID()) {
		res := r.try(ctx, ref, a, events)
		if res.err == nil {
			log.WithField("tier", a.tier.String()).Debug("Thumbnail resolved")
			events <- Event{Kind: EventSuccess, Tier: a.tier, Percent: 100, Asset: res.asset}
			return
		}
		log.WithError(res.err).WithField("tier", a.tier.String()).Debug("Thumbnail tier failed")
		errs = append(errs, fmt.Errorf("%s: %w", a.tier, res.err))
	}

	err := &model.FetchError{URL: r.PrimaryURL(ref.ID()), Err: errors.Join(errs...)}
	log.WithError(err).Warn("Thumbnail unavailable")
	events <- Event{Kind: EventFailure, Tier: model.TierFallback, Err: err}
}

// try performs one attempt. Progress restarts from 0 for every tier.
func (r *Resolver) try(ctx context.Context, ref model.VideoReference, a attempt, events chan<- Event) result {
	events <- Event{Kind: EventProgress, Tier: a.tier, Percent: 0}

	onProgress := func(pct int) {
		if pct == 0 {
			return
		}
		select {
		case events <- Event{Kind: EventProgress, Tier: a.tier, Percent: pct}:
		default:
		}
	}

	resp, err := r.fetcher.Get(ctx, a.url, fetch.AcceptImage, onProgress)
	if err != nil {
		return result{err: err}
	}

	img, format, err := fetch.DecodeImage(resp.Body)
	if err != nil {
		return result{err: &model.FetchError{URL: a.url, StatusCode: resp.StatusCode, Err: err}}
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "image/" + format
	}
	b := img.Bounds()
	return result{asset: &model.ThumbnailAsset{
		Ref:         ref,
		Image:       img,
		Bytes:       resp.Body,
		Tier:        a.tier,
		Width:       b.Dx(),
		Height:      b.Dy(),
		ContentType: contentType,
		SourceURL:   a.url,
	}}
}
