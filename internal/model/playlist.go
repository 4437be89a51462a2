package model

import (
	"time"
)

// PlaylistMetadata represents a YouTube playlist with its member videos.
// Videos keep document order and duplicates.
type PlaylistMetadata struct {
	ID          string           `json:"id"`
	URL         string           `json:"url"`
	Title       string           `json:"title"`
	Owner       string           `json:"owner"`
	VideoCount  int              `json:"video_count"`
	ViewCount   int64            `json:"view_count"`
	LastUpdated time.Time        `json:"last_updated"`
	Videos      []VideoReference `json:"-"`
}

// NewPlaylistMetadata creates an empty playlist for url
func NewPlaylistMetadata(id, url string) *PlaylistMetadata {
	return &PlaylistMetadata{
		ID:     id,
		URL:    url,
		Videos: make([]VideoReference, 0),
	}
}

// AddVideo appends a member video
func (p *PlaylistMetadata) AddVideo(ref VideoReference) {
	p.Videos = append(p.Videos, ref)
}

// TotalVideos returns the number of member videos actually found
func (p *PlaylistMetadata) TotalVideos() int {
	return len(p.Videos)
}

// VideoIDs returns member identifiers in playlist order
func (p *PlaylistMetadata) VideoIDs() []VideoID {
	ids := make([]VideoID, 0, len(p.Videos))
	for _, v := range p.Videos {
		ids = append(ids, v.ID())
	}
	return ids
}

// IsEmpty checks whether the playlist has no members
func (p *PlaylistMetadata) IsEmpty() bool {
	return len(p.Videos) == 0
}
