package model

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// VideoIDLength is the fixed length of every video identifier
	VideoIDLength = 11

	// LongURLPrefix is the canonical watch page prefix
	LongURLPrefix = "https://www.youtube.com/watch?v="
	// ShortURLPrefix is the canonical short link prefix
	ShortURLPrefix = "https://youtu.be/"
	// ForcedPlayerURLPrefix is the third-party player that bypasses embed restrictions
	ForcedPlayerURLPrefix = "http://www.interleave-vr.com/youtube-proper-player.php?v="
)

// Format verbs accepted by VideoID.Format
const (
	FormatID           = "id"
	FormatShort        = "s"
	FormatLong         = "l"
	FormatForcedPlayer = "e"
)

// videoURLPatterns is tried in order, first match wins. Every pattern has
// exactly one capture group of VideoIDLength characters.
var videoURLPatterns = []*regexp.Regexp{
	// watch?v=ID, watch?feature=player_embedded&v=ID, watch?annotation_id=..&src_vid=ID
	regexp.MustCompile(`youtube(?:-nocookie)?\.com/watch\?(?:[^/]+&)?(?:v|src_vid)=([^&?/]{11})`),
	// embed/ID, v/ID, e/ID, shorts/ID, live/ID
	regexp.MustCompile(`youtube(?:-nocookie)?\.com/(?:embed|v|e|shorts|live)/([^&?/]{11})`),
	// youtu.be/ID
	regexp.MustCompile(`youtu\.be/([^&?/]{11})`),
	// verify_age?next_url=watch%3Fv%3DID
	regexp.MustCompile(`youtube\.com/verify_age\?next_url=(?:/|%2F)?watch%3Fv%3D([^&?/%]{11})`),
	// attribution_link?u=/watch%3Fv%3DID and other URL encoded alternates
	regexp.MustCompile(`youtube\.com/.*(?:v|src_vid)%3D([^&?/%]{11})`),
	// interleave-vr.com/youtube-proper-player.php?v=ID
	regexp.MustCompile(`interleave-vr\.com/youtube-proper-player\.php\?v=([^&?/]{11})`),
}

// VideoID is an opaque 11 character token naming a hosted video
type VideoID string

// ParseVideoID extracts the video identifier from any recognized URL shape
func ParseVideoID(raw string) (VideoID, error) {
	input := strings.TrimSpace(raw)
	for _, re := range videoURLPatterns {
		if m := re.FindStringSubmatch(input); len(m) == 2 && len(m[1]) == VideoIDLength {
			return VideoID(m[1]), nil
		}
	}
	return "", &InvalidVideoURLError{Input: raw}
}

// IsValidVideoURL reports whether ParseVideoID would succeed
func IsValidVideoURL(raw string) bool {
	_, err := ParseVideoID(raw)
	return err == nil
}

// String returns the raw identifier
func (id VideoID) String() string {
	return string(id)
}

// LongURL returns the canonical watch page URL
func (id VideoID) LongURL() string {
	return LongURLPrefix + string(id)
}

// ShortURL returns the canonical short link
func (id VideoID) ShortURL() string {
	return ShortURLPrefix + string(id)
}

// ForcedPlayerURL returns the third-party player link
func (id VideoID) ForcedPlayerURL() string {
	return ForcedPlayerURLPrefix + string(id)
}

// Format renders the identifier with one of the Format* verbs
func (id VideoID) Format(verb string) (string, error) {
	switch strings.ToLower(verb) {
	case FormatID, "":
		return id.String(), nil
	case FormatShort:
		return id.ShortURL(), nil
	case FormatLong:
		return id.LongURL(), nil
	case FormatForcedPlayer:
		return id.ForcedPlayerURL(), nil
	default:
		return "", fmt.Errorf("unknown video id format %q", verb)
	}
}

// VideoReference pairs a raw user input with its resolved identifier
type VideoReference struct {
	raw string
	id  VideoID
}

// NewVideoReference parses raw and fails with ErrInvalidVideoURL when no pattern matches
func NewVideoReference(raw string) (VideoReference, error) {
	id, err := ParseVideoID(raw)
	if err != nil {
		return VideoReference{}, err
	}
	return VideoReference{raw: raw, id: id}, nil
}

// ReferenceFromID builds a reference for an already known identifier
func ReferenceFromID(id VideoID) VideoReference {
	return VideoReference{raw: id.LongURL(), id: id}
}

// ID returns the resolved identifier
func (r VideoReference) ID() VideoID {
	return r.id
}

// Raw returns the input the reference was built from
func (r VideoReference) Raw() string {
	return r.raw
}

// IsZero reports whether the reference was never resolved
func (r VideoReference) IsZero() bool {
	return r.id == ""
}

// Equal compares identifiers only, regardless of the URL shape used
func (r VideoReference) Equal(other VideoReference) bool {
	return r.id == other.id
}

func (r VideoReference) String() string {
	return r.id.String()
}
