package model

import "image"

// ThumbnailTier records which source supplied a thumbnail
type ThumbnailTier int

const (
	// TierPrimary is the max resolution image
	TierPrimary ThumbnailTier = iota
	// TierFallback is the always available low resolution image
	TierFallback
)

// String returns the string representation of ThumbnailTier
func (t ThumbnailTier) String() string {
	if t == TierFallback {
		return "fallback"
	}
	return "primary"
}

// ThumbnailAsset is a decoded thumbnail for one reference. It is built once
// per resolution and never mutated after being emitted.
type ThumbnailAsset struct {
	Ref         VideoReference
	Image       image.Image
	Bytes       []byte
	Tier        ThumbnailTier
	Width       int
	Height      int
	ContentType string
	SourceURL   string
}

// Size returns the encoded size in bytes
func (a *ThumbnailAsset) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Bytes)
}
