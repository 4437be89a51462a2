package page

import (
	"errors"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ytget/yt-thumbnail-grabber/internal/model"
)

// Display formats
const (
	PublishedDateLayout = "Jan 2, 2006"
	titleSeparator      = " | "
)

// DisplayTitle returns the title decorated with the publish date and view
// count when the settings ask for them. Missing decorations are skipped.
func (m *Metadata) DisplayTitle(settings model.SettingsView) (string, error) {
	title, err := m.Title()
	if err != nil {
		return "", err
	}

	parts := []string{title}
	if settings != nil && settings.ShowPublishedDate() {
		if published, err := m.Published(); err == nil {
			parts = append(parts, "Published on "+published.Format(PublishedDateLayout))
		}
	}
	if settings != nil && settings.ShowViewCount() {
		views, err := m.ViewCount()
		switch {
		case err == nil:
			parts = append(parts, FormatViews(views))
		case errors.Is(err, model.ErrLivestream):
			parts = append(parts, "LIVE")
		}
	}
	return strings.Join(parts, titleSeparator), nil
}

// FormatViews renders a view count like "1,234,567 views"
func FormatViews(n int64) string {
	if n == 1 {
		return "1 view"
	}
	return humanize.Comma(n) + " views"
}

// Summary is a fully resolved snapshot handed to the UI. Errors holds the
// failure of each field that could not be resolved.
type Summary struct {
	Ref            model.VideoReference
	Title          string
	DisplayTitle   string
	Channel        model.ChannelInfo
	ViewCount      int64
	Live           bool
	Duration       time.Duration
	Privacy        model.Privacy
	Published      time.Time
	Description    string
	Genre          model.Genre
	FamilyFriendly bool
	RegionsAllowed []string
	Errors         map[string]error
}

// Summarize resolves every text field. It blocks on the page download.
func (m *Metadata) Summarize(settings model.SettingsView) Summary {
	s := Summary{Ref: m.ref, Errors: make(map[string]error)}
	record := func(name string, err error) {
		if err != nil {
			s.Errors[name] = err
		}
	}

	var err error
	s.Title, err = m.Title()
	record(FieldTitle, err)
	if err == nil {
		s.DisplayTitle, _ = m.DisplayTitle(settings)
	}
	s.Channel, err = m.Channel()
	record(FieldChannel, err)
	s.ViewCount, err = m.ViewCount()
	s.Live = errors.Is(err, model.ErrLivestream)
	record(FieldViewCount, err)
	s.Duration, err = m.Duration()
	record(FieldDuration, err)
	s.Privacy, err = m.Privacy()
	record(FieldPrivacy, err)
	s.Published, err = m.Published()
	record(FieldPublished, err)
	s.Description, err = m.Description()
	record(FieldDescription, err)
	s.Genre, err = m.Genre()
	record(FieldGenre, err)
	s.FamilyFriendly, err = m.FamilyFriendly()
	record(FieldFamilyFriendly, err)
	s.RegionsAllowed, err = m.RegionsAllowed()
	record(FieldRegionsAllowed, err)
	return s
}

// Err returns the title or channel failure, the fields a display cannot do
// without, or nil
func (s Summary) Err() error {
	for _, name := range []string{FieldTitle, FieldChannel} {
		if err, ok := s.Errors[name]; ok {
			return err
		}
	}
	return nil
}
