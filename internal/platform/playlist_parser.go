package platform

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-thumbnail-grabber/internal/fetch"
	"github.com/ytget/yt-thumbnail-grabber/internal/logging"
	"github.com/ytget/yt-thumbnail-grabber/internal/model"
)

// Timeout constants
const (
	DefaultPlaylistParseTimeout = 30 * time.Second
)

// URL parameters
const (
	PlaylistURLParam       = "list="
	PlaylistParamSeparator = "&"
	PlaylistPageBaseURL    = "https://www.youtube.com"
)

// Playlist backends
const (
	BackendPage  = "page"
	BackendYTDLP = "ytdlp"
)

// Default values
const (
	DefaultPlaylistTitle   = "Untitled Playlist"
	PlaylistLastUpdatedFmt = "Jan 2, 2006"
)

// Recognized hosts for playlist links
var playlistHosts = []string{"youtube.com", "youtu.be"}

var (
	countPattern         = regexp.MustCompile(`(?i)^([\d,.]+|no)\s+(videos?|views?)$`)
	lastUpdatedPattern   = regexp.MustCompile(`(?i)^last updated on\s+(.+)$`)
	playlistVideoPattern = regexp.MustCompile(`"playlistVideoRenderer":\{"videoId":"([^"]{11})"`)
)

// ValidatePlaylistURL checks for a recognized video host and a list= parameter
func ValidatePlaylistURL(rawURL string) bool {
	if !strings.Contains(rawURL, PlaylistURLParam) {
		return false
	}
	for _, host := range playlistHosts {
		if strings.Contains(rawURL, host) {
			return true
		}
	}
	return false
}

// ExtractPlaylistID returns the value of list= up to the next & or the end.
// Supported formats:
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&start_radio=1
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID
//   - https://www.youtube.com/playlist?list=PLAYLIST_ID
func ExtractPlaylistID(rawURL string) (string, error) {
	if !strings.Contains(rawURL, PlaylistURLParam) {
		return "", fmt.Errorf("URL does not contain playlist parameter")
	}

	parts := strings.SplitN(rawURL, PlaylistURLParam, 2)
	playlistID := parts[1]

	// Remove any additional parameters (everything after &)
	if i := strings.Index(playlistID, PlaylistParamSeparator); i >= 0 {
		playlistID = playlistID[:i]
	}
	if i := strings.IndexAny(playlistID, "#/"); i >= 0 {
		playlistID = playlistID[:i]
	}

	if playlistID == "" {
		return "", fmt.Errorf("empty playlist ID")
	}
	return playlistID, nil
}

// PlaylistPageURL returns the canonical playlist page for id
func PlaylistPageURL(id string) string {
	return PlaylistPageBaseURL + "/playlist?list=" + id
}

// PlaylistResolver resolves a playlist link into its ordered member videos
type PlaylistResolver struct {
	fetcher fetch.Getter
	baseURL string
	backend string
	ytdlp   *YTDLPParserService
	timeout time.Duration
	log     *logrus.Entry
}

// NewPlaylistResolver creates a resolver using the playlist page backend
func NewPlaylistResolver(fetcher fetch.Getter) *PlaylistResolver {
	return &PlaylistResolver{
		fetcher: fetcher,
		baseURL: PlaylistPageBaseURL,
		backend: BackendPage,
		ytdlp:   NewYTDLPParserService(),
		timeout: DefaultPlaylistParseTimeout,
		log:     logging.WithComponent("playlist"),
	}
}

// SetBackend selects BackendPage or BackendYTDLP; anything else keeps the page backend
func (p *PlaylistResolver) SetBackend(backend string) {
	switch backend {
	case BackendYTDLP:
		p.backend = BackendYTDLP
	default:
		p.backend = BackendPage
	}
}

// Backend returns the selected backend
func (p *PlaylistResolver) Backend() string {
	return p.backend
}

// SetBaseURL overrides the playlist page host, used by tests
func (p *PlaylistResolver) SetBaseURL(baseURL string) {
	p.baseURL = strings.TrimRight(baseURL, "/")
}

// SetTimeout sets the timeout for playlist resolution
func (p *PlaylistResolver) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
	p.ytdlp.SetTimeout(timeout)
}

// Resolve fetches the playlist once and returns its metadata and members
// in document order, duplicates included
func (p *PlaylistResolver) Resolve(ctx context.Context, rawURL string) (*model.PlaylistMetadata, error) {
	if !ValidatePlaylistURL(rawURL) {
		return nil, &model.InvalidPlaylistURLError{Input: rawURL}
	}
	playlistID, err := ExtractPlaylistID(rawURL)
	if err != nil {
		return nil, &model.InvalidPlaylistURLError{Input: rawURL, Reason: err.Error()}
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	log := p.log.WithFields(logging.Fields{"playlist_id": playlistID, "backend": p.backend})
	var playlist *model.PlaylistMetadata
	if p.backend == BackendYTDLP {
		playlist, err = p.ytdlp.ParsePlaylist(ctx, playlistID)
	} else {
		playlist, err = p.resolvePage(ctx, playlistID, log)
	}
	if err != nil {
		log.WithError(err).Warn("Playlist resolution failed")
		return nil, err
	}

	playlist.URL = rawURL
	log.WithField("videos", playlist.TotalVideos()).Info("Playlist resolved")
	return playlist, nil
}

func (p *PlaylistResolver) resolvePage(ctx context.Context, playlistID string, log *logrus.Entry) (*model.PlaylistMetadata, error) {
	pageURL := p.baseURL + "/playlist?list=" + playlistID
	resp, err := p.fetcher.Get(ctx, pageURL, fetch.AcceptHTML, nil)
	if err != nil {
		return nil, err
	}

	dom, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, &model.FetchError{URL: pageURL, StatusCode: resp.StatusCode, Err: err}
	}
	return parsePlaylistPage(dom, string(resp.Body), playlistID, log), nil
}

// parsePlaylistPage extracts header details and member rows
func parsePlaylistPage(dom *goquery.Document, raw, playlistID string, log *logrus.Entry) *model.PlaylistMetadata {
	playlist := model.NewPlaylistMetadata(playlistID, PlaylistPageURL(playlistID))

	playlist.Title = strings.TrimSpace(dom.Find("h1.pl-header-title").First().Text())
	if playlist.Title == "" {
		playlist.Title, _ = dom.Find(`meta[property="og:title"]`).First().Attr("content")
	}
	if playlist.Title = strings.TrimSpace(playlist.Title); playlist.Title == "" {
		playlist.Title = DefaultPlaylistTitle
	}

	videoCountFound := false
	dom.Find("ul.pl-header-details li").Each(func(i int, li *goquery.Selection) {
		text := strings.Join(strings.Fields(li.Text()), " ")
		if i == 0 && li.Find("a").Length() > 0 {
			playlist.Owner = strings.TrimSpace(li.Find("a").First().Text())
			return
		}
		if m := countPattern.FindStringSubmatch(text); m != nil {
			n := parseCount(m[1])
			if strings.HasPrefix(strings.ToLower(m[2]), "video") {
				playlist.VideoCount = int(n)
				videoCountFound = true
			} else {
				playlist.ViewCount = n
			}
			return
		}
		if m := lastUpdatedPattern.FindStringSubmatch(text); m != nil {
			if t, err := time.Parse(PlaylistLastUpdatedFmt, strings.TrimSpace(m[1])); err == nil {
				playlist.LastUpdated = t
			}
		}
	})

	dom.Find("td.pl-video-title").Each(func(_ int, td *goquery.Selection) {
		href, ok := td.Find("a[href]").First().Attr("href")
		if !ok {
			return
		}
		ref, err := model.NewVideoReference(absoluteHref(href))
		if err != nil {
			log.WithField("href", href).Debug("Skipping playlist row without video id")
			return
		}
		playlist.AddVideo(ref)
	})

	if playlist.IsEmpty() {
		for _, m := range playlistVideoPattern.FindAllStringSubmatch(raw, -1) {
			playlist.AddVideo(model.ReferenceFromID(model.VideoID(m[1])))
		}
	}

	if !videoCountFound {
		playlist.VideoCount = playlist.TotalVideos()
	}
	return playlist
}

// absoluteHref resolves a row link against the playlist host
func absoluteHref(href string) string {
	base, _ := url.Parse(PlaylistPageBaseURL)
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// parseCount reads "1,234" or "No" as a number
func parseCount(s string) int64 {
	if strings.EqualFold(s, "no") {
		return 0
	}
	s = strings.NewReplacer(",", "", ".", "").Replace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
