package coordinator

import (
	"image"

	"github.com/ytget/yt-thumbnail-grabber/internal/model"
	"github.com/ytget/yt-thumbnail-grabber/internal/page"
)

// Kind tags an Update
type Kind int

const (
	KindProgress Kind = iota
	KindThumbnailReady
	KindThumbnailFailed
	KindMetadataReady
	KindIconReady
	KindPlaylistResolved
	KindPlaylistFailed
	KindSaved
	KindSaveFailed
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindProgress:
		return "progress"
	case KindThumbnailReady:
		return "thumbnail_ready"
	case KindThumbnailFailed:
		return "thumbnail_failed"
	case KindMetadataReady:
		return "metadata_ready"
	case KindIconReady:
		return "icon_ready"
	case KindPlaylistResolved:
		return "playlist_resolved"
	case KindPlaylistFailed:
		return "playlist_failed"
	case KindSaved:
		return "saved"
	case KindSaveFailed:
		return "save_failed"
	default:
		return "unknown"
	}
}

// ResolutionScoped reports whether k belongs to one video resolution.
// Playlist kinds outlive the resolutions they start.
func (k Kind) ResolutionScoped() bool {
	return k != KindPlaylistResolved && k != KindPlaylistFailed
}

// Update is delivered to the update callback. Only the fields relevant to
// Kind are set.
type Update struct {
	Kind         Kind
	Generation   uint64
	ResolutionID string
	Ref          model.VideoReference

	// KindProgress
	Tier    model.ThumbnailTier
	Percent int

	// KindThumbnailReady
	Asset *model.ThumbnailAsset

	// KindMetadataReady
	Summary *page.Summary

	// KindIconReady
	Icon image.Image

	// KindPlaylistResolved
	Playlist *model.PlaylistMetadata

	// KindSaved, KindSaveFailed
	Path string

	// Failure kinds, and KindMetadataReady or KindIconReady when incomplete
	Err error
}
