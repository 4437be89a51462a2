package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/yt-thumbnail-grabber/internal/model"
	"github.com/ytget/yt-thumbnail-grabber/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeySaveImagePath         = "save_image_path"
	KeyAutoSaveImages        = "auto_save_images"
	KeyAutoLoadFromClipboard = "auto_load_from_clipboard"
	KeyShowPublishedDate     = "show_published_date"
	KeyShowViewCount         = "show_view_count"
	KeyFileNamingMode        = "file_naming_mode"
	KeyLanguage              = "app_language"
)

// Default values
const (
	DefaultAutoSaveImages        = false
	DefaultAutoLoadFromClipboard = false
	DefaultShowPublishedDate     = false
	DefaultShowViewCount         = false
	DefaultFileNamingMode        = model.NamingVideoID
	DefaultLanguage              = "system"
)

// Settings manages user options persisted in Fyne preferences.
// It satisfies model.SettingsView.
type Settings struct {
	app fyne.App
}

var _ model.SettingsView = (*Settings)(nil)

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// SaveImagePath returns the directory thumbnails are saved to
func (s *Settings) SaveImagePath() string {
	dir := s.app.Preferences().String(KeySaveImagePath)
	if dir == "" {
		// Use system default Pictures directory
		defaultDir, err := platform.GetHomePicturesDir()
		if err != nil {
			defaultDir = platform.FallbackPicturesDir()
		}
		s.SetSaveImagePath(defaultDir)
		return defaultDir
	}
	return dir
}

// SetSaveImagePath sets the save directory
func (s *Settings) SetSaveImagePath(dir string) {
	s.app.Preferences().SetString(KeySaveImagePath, dir)
}

// AutoSaveImages returns whether resolved thumbnails are saved immediately
func (s *Settings) AutoSaveImages() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoSaveImages, DefaultAutoSaveImages)
}

// SetAutoSaveImages sets whether resolved thumbnails are saved immediately
func (s *Settings) SetAutoSaveImages(enabled bool) {
	s.app.Preferences().SetBool(KeyAutoSaveImages, enabled)
}

// AutoLoadFromClipboard returns whether copied links are resolved automatically
func (s *Settings) AutoLoadFromClipboard() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoLoadFromClipboard, DefaultAutoLoadFromClipboard)
}

// SetAutoLoadFromClipboard sets whether copied links are resolved automatically
func (s *Settings) SetAutoLoadFromClipboard(enabled bool) {
	s.app.Preferences().SetBool(KeyAutoLoadFromClipboard, enabled)
}

// ShowPublishedDate returns whether the title shows the publish date
func (s *Settings) ShowPublishedDate() bool {
	return s.app.Preferences().BoolWithFallback(KeyShowPublishedDate, DefaultShowPublishedDate)
}

// SetShowPublishedDate sets whether the title shows the publish date
func (s *Settings) SetShowPublishedDate(enabled bool) {
	s.app.Preferences().SetBool(KeyShowPublishedDate, enabled)
}

// ShowViewCount returns whether the title shows the view count
func (s *Settings) ShowViewCount() bool {
	return s.app.Preferences().BoolWithFallback(KeyShowViewCount, DefaultShowViewCount)
}

// SetShowViewCount sets whether the title shows the view count
func (s *Settings) SetShowViewCount(enabled bool) {
	s.app.Preferences().SetBool(KeyShowViewCount, enabled)
}

// FileNamingMode returns how saved thumbnails are named
func (s *Settings) FileNamingMode() model.FileNamingMode {
	mode := model.FileNamingMode(s.app.Preferences().IntWithFallback(KeyFileNamingMode, int(DefaultFileNamingMode)))
	if mode != model.NamingChannelTitle && mode != model.NamingVideoID {
		return DefaultFileNamingMode
	}
	return mode
}

// SetFileNamingMode sets how saved thumbnails are named
func (s *Settings) SetFileNamingMode(mode model.FileNamingMode) {
	s.app.Preferences().SetInt(KeyFileNamingMode, int(mode))
}

// GetFileNamingModeOptions returns available naming modes in display order
func (s *Settings) GetFileNamingModeOptions() []model.FileNamingMode {
	return []model.FileNamingMode{model.NamingChannelTitle, model.NamingVideoID}
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// ResetDefaults restores every option except the language
func (s *Settings) ResetDefaults() {
	prefs := s.app.Preferences()
	prefs.RemoveValue(KeySaveImagePath)
	prefs.SetBool(KeyAutoSaveImages, DefaultAutoSaveImages)
	prefs.SetBool(KeyAutoLoadFromClipboard, DefaultAutoLoadFromClipboard)
	prefs.SetBool(KeyShowPublishedDate, DefaultShowPublishedDate)
	prefs.SetBool(KeyShowViewCount, DefaultShowViewCount)
	prefs.SetInt(KeyFileNamingMode, int(DefaultFileNamingMode))
}
