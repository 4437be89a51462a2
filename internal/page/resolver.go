package page

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-thumbnail-grabber/internal/fetch"
	"github.com/ytget/yt-thumbnail-grabber/internal/logging"
	"github.com/ytget/yt-thumbnail-grabber/internal/model"
)

// DefaultBaseURL is the site hosting watch pages
const DefaultBaseURL = "https://www.youtube.com"

// Resolver creates lazily populated Metadata records
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
		log:     logging.WithComponent("page"),
	}
}

// WatchURL returns the page fetched for id
func (r *Resolver) WatchURL(id model.VideoID) string {
	return r.baseURL + "/watch?v=" + id.String()
}

// Resolve returns an unfetched metadata record for ref. No I/O happens here.
func (r *Resolver) Resolve(ref model.VideoReference) *Metadata {
	return newMetadata(ref, r.WatchURL(ref.ID()), r.fetcher, r.log.WithField("video_id", ref.ID().String()))
}
