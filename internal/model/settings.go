package model

// FileNamingMode selects how saved thumbnails are named
type FileNamingMode int

const (
	// NamingChannelTitle names files "<channel> - <title>.jpg"
	NamingChannelTitle FileNamingMode = iota
	// NamingVideoID names files "<id>.jpg"
	NamingVideoID
)

// String returns the string representation of FileNamingMode
func (m FileNamingMode) String() string {
	if m == NamingChannelTitle {
		return "ChannelTitle"
	}
	return "VideoID"
}

// SettingsView is the read only view of user options consumed by the core
type SettingsView interface {
	SaveImagePath() string
	AutoSaveImages() bool
	AutoLoadFromClipboard() bool
	ShowPublishedDate() bool
	ShowViewCount() bool
	FileNamingMode() FileNamingMode
}
