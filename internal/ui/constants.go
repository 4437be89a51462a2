package ui

import "time"

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconSave     = "💾"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
	ResolutionFormat    = "%d x %d"
)

// Layout sizing
const (
	ThumbnailMinWidth  float32 = 480
	ThumbnailMinHeight float32 = 270
	ChannelIconSize    float32 = 32
)

// Notification behavior
const (
	NotificationAutoHide = 4 * time.Second
)
