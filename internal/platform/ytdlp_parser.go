package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/yt-thumbnail-grabber/internal/model"
)

// Timeout constants
const (
	DefaultParseTimeout = 60 * time.Second
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// Playlist title constants
const (
	DefaultPlaylistName = "Unknown Playlist"
	MinPrefixLength     = 10
	PlaylistSuffix      = " Playlist"
)

// playlistItem is the subset of a ytdlp playlist entry used here
type playlistItem struct {
	VideoID string
	Title   string
}

// itemLister lists every entry of a playlist
type itemLister func(ctx context.Context, playlistID string) ([]playlistItem, error)

func ytdlpLister(ctx context.Context, playlistID string) ([]playlistItem, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}
	out := make([]playlistItem, 0, len(items))
	for _, it := range items {
		out = append(out, playlistItem{VideoID: it.VideoID, Title: it.Title})
	}
	return out, nil
}

// YTDLPParserService resolves playlists through the ytdlp library
type YTDLPParserService struct {
	timeout time.Duration
	list    itemLister
}

// NewYTDLPParserService creates a new parser service
func NewYTDLPParserService() *YTDLPParserService {
	return &YTDLPParserService{
		timeout: DefaultParseTimeout,
		list:    ytdlpLister,
	}
}

// SetTimeout sets the timeout for parsing operations
func (y *YTDLPParserService) SetTimeout(timeout time.Duration) {
	y.timeout = timeout
}

// ParsePlaylist lists playlistID and returns its members in playlist order.
// Entries without a well formed video id are skipped.
func (y *YTDLPParserService) ParsePlaylist(ctx context.Context, playlistID string) (*model.PlaylistMetadata, error) {
	if playlistID == "" {
		return nil, &model.InvalidPlaylistURLError{Reason: "empty playlist ID"}
	}

	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	items, err := y.list(ctx, playlistID)
	if err != nil {
		return nil, &model.FetchError{URL: PlaylistPageURL(playlistID), Err: fmt.Errorf("failed to get playlist items: %w", err)}
	}

	playlist := model.NewPlaylistMetadata(playlistID, PlaylistPageURL(playlistID))
	titles := make([]string, 0, len(items))
	for _, it := range items {
		ref, err := model.NewVideoReference(fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID))
		if err != nil || ref.ID().String() != it.VideoID {
			continue
		}
		playlist.AddVideo(ref)
		titles = append(titles, it.Title)
	}

	playlist.Title = y.extractPlaylistTitle(titles)
	playlist.VideoCount = playlist.TotalVideos()
	return playlist, nil
}

// extractPlaylistTitle generates a title from the member video titles
func (y *YTDLPParserService) extractPlaylistTitle(titles []string) string {
	if len(titles) == 0 {
		return DefaultPlaylistName
	}
	if len(titles) > 1 {
		commonPrefix := y.findCommonPrefix(titles[0], titles[1])
		if len(commonPrefix) > MinPrefixLength {
			return strings.TrimSpace(commonPrefix) + PlaylistSuffix
		}
	}
	return titles[0] + PlaylistSuffix
}

// findCommonPrefix finds the common prefix between two strings
func (y *YTDLPParserService) findCommonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}
