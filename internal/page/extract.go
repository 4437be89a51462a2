package page

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ytget/yt-thumbnail-grabber/internal/model"
)

// ChannelBaseURL prefixes relative channel paths
const ChannelBaseURL = "https://www.youtube.com"

// Field names used in FieldNotFound errors
const (
	FieldTitle          = "title"
	FieldChannel        = "channel"
	FieldChannelIcon    = "channel_icon"
	FieldViewCount      = "view_count"
	FieldDuration       = "duration"
	FieldPrivacy        = "privacy"
	FieldPublished      = "published"
	FieldDescription    = "description"
	FieldGenre          = "genre"
	FieldFamilyFriendly = "family_friendly"
	FieldRegionsAllowed = "regions_allowed"
)

// Published date layouts in order of preference
var publishedLayouts = []string{"2006-01-02", time.RFC3339, "Jan 2, 2006", "January 2, 2006"}

var (
	durationPattern       = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)
	ownerThumbnailPattern = regexp.MustCompile(`"videoOwnerRenderer":\{"thumbnail":\{"thumbnails":\[\{"url":"([^"]+)"`)
	publishedTextPattern  = regexp.MustCompile(`(?:Published|Uploaded|Streamed live)\son\s([A-Z][a-z]+ \d{1,2}, \d{4})`)
)

// document is the parsed page shared by all fields
type document struct {
	dom *goquery.Document
	raw string
}

// meta returns the content attribute of the first element matching any
// selector, in order
func (d *document) meta(selectors ...string) (string, bool) {
	for _, sel := range selectors {
		if v, ok := d.dom.Find(sel).First().Attr("content"); ok {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func extractTitle(d *document) (string, error) {
	title, ok := d.meta(`meta[itemprop="name"]`, `meta[name="title"]`, `meta[property="og:title"]`)
	if !ok || title == "" {
		return "", model.NewFieldNotFound(FieldTitle, nil)
	}
	return title, nil
}

// extractChannel reads name and path from one uploader block so the two
// values always belong to the same channel
func extractChannel(d *document) (model.ChannelInfo, error) {
	author := d.dom.Find(`span[itemprop="author"]`).First()
	if author.Length() > 0 {
		name, nameOK := author.Find(`link[itemprop="name"]`).Attr("content")
		href, hrefOK := author.Find(`link[itemprop="url"]`).Attr("href")
		if nameOK && hrefOK && strings.TrimSpace(name) != "" {
			channelURL, err := channelURLFromHref(href)
			if err != nil {
				return model.ChannelInfo{}, model.NewFieldNotFound(FieldChannel, err)
			}
			return model.ChannelInfo{Name: strings.TrimSpace(name), URL: channelURL}, nil
		}
	}

	// Legacy watch page layout
	link := d.dom.Find(`div.yt-user-info a[href]`).First()
	if link.Length() > 0 {
		href, _ := link.Attr("href")
		name := strings.TrimSpace(link.Text())
		if name != "" {
			channelURL, err := channelURLFromHref(href)
			if err != nil {
				return model.ChannelInfo{}, model.NewFieldNotFound(FieldChannel, err)
			}
			return model.ChannelInfo{Name: name, URL: channelURL}, nil
		}
	}

	return model.ChannelInfo{}, model.NewFieldNotFound(FieldChannel, nil)
}

// channelURLFromHref keeps only the path of href and joins it to ChannelBaseURL
func channelURLFromHref(href string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	path := u.EscapedPath()
	if path == "" || path == "/" {
		return "", model.NewFieldNotFound(FieldChannel, nil)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return ChannelBaseURL + path, nil
}

func extractChannelIconURL(d *document) (string, error) {
	var raw string
	if v, ok := d.dom.Find(`span[itemprop="author"] link[itemprop="thumbnailUrl"]`).First().Attr("href"); ok {
		raw = v
	} else if v, ok := d.dom.Find(`img[data-thumb]`).First().Attr("data-thumb"); ok {
		raw = v
	} else if m := ownerThumbnailPattern.FindStringSubmatch(d.raw); m != nil {
		raw = strings.ReplaceAll(m[1], `\u0026`, "&")
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", model.NewFieldNotFound(FieldChannelIcon, nil)
	}
	return normalizeProtocol(raw), nil
}

// normalizeProtocol turns protocol relative //host/path URLs into https
func normalizeProtocol(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

// extractViewCount reports a page without a counter as a live stream and a
// counter that does not parse as a missing field
func extractViewCount(d *document) (int64, error) {
	raw, ok := d.meta(`meta[itemprop="interactionCount"]`, `meta[itemprop="userInteractionCount"]`)
	if !ok {
		return 0, model.ErrLivestream
	}

	n, err := strconv.ParseInt(strings.ReplaceAll(raw, ",", ""), 10, 64)
	if err != nil {
		return 0, model.NewFieldNotFound(FieldViewCount, err)
	}
	return n, nil
}

func extractDuration(d *document) (time.Duration, error) {
	raw, ok := d.meta(`meta[itemprop="duration"]`)
	if !ok {
		return 0, model.NewFieldNotFound(FieldDuration, nil)
	}
	return parseISODuration(raw)
}

// parseISODuration accepts PT#M#S and PT#H#M#S
func parseISODuration(raw string) (time.Duration, error) {
	m := durationPattern.FindStringSubmatch(raw)
	if m == nil || raw == "PT" {
		return 0, model.NewFieldNotFound(FieldDuration, nil)
	}

	var total time.Duration
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, model.NewFieldNotFound(FieldDuration, err)
		}
		total += time.Duration(n) * unit
	}
	return total, nil
}

// extractPrivacy treats a missing flag as Private
func extractPrivacy(d *document) (model.Privacy, error) {
	raw, ok := d.meta(`meta[itemprop="unlisted"]`)
	if !ok {
		return model.PrivacyPrivate, nil
	}

	switch strings.ToLower(raw) {
	case "true", "unlisted":
		return model.PrivacyUnlisted, nil
	case "false", "public":
		return model.PrivacyPublic, nil
	case "private":
		return model.PrivacyPrivate, nil
	default:
		return model.PrivacyPrivate, model.NewFieldNotFound(FieldPrivacy, nil)
	}
}

func extractPublished(d *document) (time.Time, error) {
	raw, ok := d.meta(`meta[itemprop="datePublished"]`, `meta[itemprop="uploadDate"]`)
	if !ok {
		m := publishedTextPattern.FindStringSubmatch(d.raw)
		if m == nil {
			return time.Time{}, model.NewFieldNotFound(FieldPublished, nil)
		}
		raw = m[1]
	}

	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, model.NewFieldNotFound(FieldPublished, nil)
}

// extractDescription allows an empty description when the tag exists
func extractDescription(d *document) (string, error) {
	raw, ok := d.meta(`meta[itemprop="description"]`, `meta[name="description"]`)
	if !ok {
		return "", model.NewFieldNotFound(FieldDescription, nil)
	}
	return raw, nil
}

// extractGenre keeps unknown genre text verbatim
func extractGenre(d *document) (model.Genre, error) {
	raw, ok := d.meta(`meta[itemprop="genre"]`)
	if !ok || raw == "" {
		return model.GenreUnknown, model.NewFieldNotFound(FieldGenre, nil)
	}
	if g, known := model.ParseGenre(raw); known {
		return g, nil
	}
	return model.Genre(raw), nil
}

func extractFamilyFriendly(d *document) (bool, error) {
	raw, ok := d.meta(`meta[itemprop="isFamilyFriendly"]`)
	if !ok {
		return false, model.NewFieldNotFound(FieldFamilyFriendly, nil)
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, model.NewFieldNotFound(FieldFamilyFriendly, err)
	}
	return v, nil
}

func extractRegionsAllowed(d *document) ([]string, error) {
	raw, ok := d.meta(`meta[itemprop="regionsAllowed"]`)
	if !ok {
		return nil, model.NewFieldNotFound(FieldRegionsAllowed, nil)
	}

	regions := make([]string, 0)
	for _, r := range strings.Split(raw, ",") {
		if r = strings.TrimSpace(r); r != "" {
			regions = append(regions, r)
		}
	}
	return regions, nil
}
