package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-thumbnail-grabber/internal/config"
	"github.com/ytget/yt-thumbnail-grabber/internal/coordinator"
	"github.com/ytget/yt-thumbnail-grabber/internal/logging"
	"github.com/ytget/yt-thumbnail-grabber/internal/model"
	"github.com/ytget/yt-thumbnail-grabber/internal/page"
	"github.com/ytget/yt-thumbnail-grabber/internal/platform"
)

// RootUI represents the main window
type RootUI struct {
	window       fyne.Window
	coord        *coordinator.Coordinator
	settings     *config.Settings
	opener       *platform.Opener
	saver        *platform.FileSaver
	localization *Localization
	log          *logrus.Entry

	urlEntry      *widget.Entry
	grabBtn       *widget.Button
	saveBtn       *widget.Button
	thumbnail     *canvas.Image
	progress      *widget.ProgressBar
	titleLabel    *widget.Label
	channelIcon   *canvas.Image
	channelLink   *widget.Hyperlink
	detailsLabel  *widget.Label
	imageLabel    *widget.Label
	videoLink     *widget.Hyperlink
	channelURL    string
	lastSavedPath string

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
	notifyMu              sync.Mutex
	notifySeq             uint64
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, coord *coordinator.Coordinator, settings *config.Settings, opener *platform.Opener) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		coord:        coord,
		settings:     settings,
		opener:       opener,
		saver:        platform.NewFileSaver(),
		localization: localization,
		log:          logging.WithComponent("ui"),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	// Set up callback for resolution updates
	coord.SetUpdateCallback(ui.onUpdate)

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onGrabClick()
	}

	ui.grabBtn = widget.NewButton(ui.localization.GetText(KeyGrab), ui.onGrabClick)
	ui.grabBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	ui.saveBtn = widget.NewButton(IconSave+" "+ui.localization.GetText(KeySaveImage), ui.onSaveClick)
	ui.saveBtn.Disable()

	topPanel := container.NewBorder(nil, nil, settingsBtn, ui.grabBtn, ui.urlEntry)

	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Alignment = fyne.TextAlignLeading
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewHBox(ui.notificationSpinner, container.NewPadded(ui.notificationLabel))
	ui.notificationContainer.Hide()

	ui.thumbnail = canvas.NewImageFromImage(nil)
	ui.thumbnail.FillMode = canvas.ImageFillContain
	ui.thumbnail.SetMinSize(fyne.NewSize(ThumbnailMinWidth, ThumbnailMinHeight))

	ui.progress = widget.NewProgressBar()
	ui.progress.Max = 100
	ui.progress.TextFormatter = func() string {
		return fmt.Sprintf(ProgressLabelFormat, int(ui.progress.Value))
	}
	ui.progress.Hide()

	ui.titleLabel = widget.NewLabel(DashPlaceholder)
	ui.titleLabel.Wrapping = fyne.TextWrapWord
	ui.titleLabel.TextStyle = fyne.TextStyle{Bold: true}

	ui.channelIcon = canvas.NewImageFromImage(nil)
	ui.channelIcon.FillMode = canvas.ImageFillContain
	ui.channelIcon.SetMinSize(fyne.NewSize(ChannelIconSize, ChannelIconSize))
	ui.channelLink = widget.NewHyperlink("", nil)

	ui.detailsLabel = widget.NewLabel("")
	ui.imageLabel = widget.NewLabel("")
	ui.videoLink = widget.NewHyperlink("", nil)

	info := container.NewVBox(
		ui.titleLabel,
		container.NewHBox(ui.channelIcon, ui.channelLink),
		ui.detailsLabel,
	)
	statusBar := container.NewBorder(nil, nil, ui.videoLink, container.NewHBox(ui.imageLabel, ui.saveBtn))

	content := container.NewBorder(
		container.NewVBox(topPanel, ui.notificationContainer),
		container.NewVBox(ui.progress, info, widget.NewSeparator(), statusBar),
		nil, nil,
		ui.thumbnail,
	)
	ui.window.SetContent(content)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	t := ui.localization.GetText

	fileMenu := fyne.NewMenu(t(KeyFile),
		fyne.NewMenuItem(t(KeySaveImage), ui.onSaveClick),
		fyne.NewMenuItem(t(KeyShowInFolder), ui.onShowInFolder),
		fyne.NewMenuItem(t(KeySettings), ui.onShowSettings),
	)

	videoMenu := fyne.NewMenu(t(KeyVideo),
		fyne.NewMenuItem(t(KeyOpenVideo), ui.onOpenVideo),
		fyne.NewMenuItem(t(KeyOpenImage), ui.onOpenImage),
		fyne.NewMenuItem(t(KeyOpenChannel), ui.onOpenChannel),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(t(KeyCopyShortLink), func() { ui.onCopyLink(model.FormatShort) }),
		fyne.NewMenuItem(t(KeyCopyLongLink), func() { ui.onCopyLink(model.FormatLong) }),
		fyne.NewMenuItem(t(KeyCopyPlayerLink), func() { ui.onCopyLink(model.FormatForcedPlayer) }),
	)

	languageMenu := fyne.NewMenu(t(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code // Capture for closure
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		if ui.localization.GetCurrentLanguage() == code {
			langItem.Checked = true
		}
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(fileMenu, videoMenu, languageMenu))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()

	// Recreate menu to update checkmarks
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.grabBtn.SetText(ui.localization.GetText(KeyGrab))
	ui.saveBtn.SetText(IconSave + " " + ui.localization.GetText(KeySaveImage))
}

// onGrabClick submits the entered link
func (ui *RootUI) onGrabClick() {
	text := strings.TrimSpace(ui.urlEntry.Text)
	if text == "" {
		ui.showNotification(ui.localization.GetText(KeyPleaseEnterURL), false)
		return
	}

	if ui.coord.RequestResolution(text) {
		ui.urlEntry.SetText("")
		if platform.ValidatePlaylistURL(text) {
			ui.showNotification(ui.localization.GetText(KeyPlaylistLoading), true)
		}
		return
	}

	if model.IsValidVideoURL(text) {
		ui.showNotification(ui.localization.GetText(KeyAlreadyShown), false)
	} else {
		ui.showNotification(ui.localization.GetText(KeyInvalidURL), false)
	}
}

// onUpdate applies a coordinator update on the UI goroutine
func (ui *RootUI) onUpdate(u coordinator.Update) {
	fyne.Do(func() {
		ui.applyUpdate(u)
	})
}

func (ui *RootUI) applyUpdate(u coordinator.Update) {
	// A newer request may have started after u was queued
	if ui.coord.IsStale(u) {
		ui.log.WithFields(logging.Fields{"kind": u.Kind.String(), "generation": u.Generation}).Debug("Dropping stale update")
		return
	}

	t := ui.localization.GetText

	switch u.Kind {
	case coordinator.KindProgress:
		if u.Percent == 0 && u.Tier == model.TierPrimary {
			ui.resetVideo(u.Ref)
		}
		ui.progress.Show()
		ui.progress.SetValue(float64(u.Percent))

	case coordinator.KindThumbnailReady:
		ui.progress.Hide()
		ui.hideNotification()
		ui.thumbnail.Image = u.Asset.Image
		ui.thumbnail.Refresh()
		ui.imageLabel.SetText(fmt.Sprintf(ResolutionFormat, u.Asset.Width, u.Asset.Height) +
			MiddleDotSeparator + humanize.Bytes(uint64(u.Asset.Size())))
		ui.saveBtn.Enable()

	case coordinator.KindThumbnailFailed:
		ui.progress.Hide()
		ui.saveBtn.Disable()
		ui.showNotification(t(KeyThumbnailFailed)+": "+errorText(u.Err), false)

	case coordinator.KindMetadataReady:
		ui.applySummary(u.Summary)

	case coordinator.KindIconReady:
		if u.Err == nil && u.Icon != nil {
			ui.channelIcon.Image = u.Icon
			ui.channelIcon.Refresh()
		}

	case coordinator.KindPlaylistResolved:
		ui.showNotification(fmt.Sprintf("%s: %s%s%d", t(KeyPlaylistResolved), u.Playlist.Title,
			MiddleDotSeparator, u.Playlist.TotalVideos()), false)

	case coordinator.KindPlaylistFailed:
		ui.showNotification(t(KeyPlaylistFailed)+": "+errorText(u.Err), false)

	case coordinator.KindSaved:
		ui.lastSavedPath = u.Path
		ui.showNotification(t(KeyImageSaved)+": "+u.Path, false)

	case coordinator.KindSaveFailed:
		ui.showNotification(t(KeySaveFailed)+": "+errorText(u.Err), false)
	}
}

// resetVideo clears the previous video and shows the link of the new one
func (ui *RootUI) resetVideo(ref model.VideoReference) {
	ui.thumbnail.Image = nil
	ui.thumbnail.Refresh()
	ui.channelIcon.Image = nil
	ui.channelIcon.Refresh()
	ui.titleLabel.SetText(DashPlaceholder)
	ui.channelLink.SetText("")
	ui.channelURL = ""
	ui.detailsLabel.SetText("")
	ui.imageLabel.SetText("")
	ui.saveBtn.Disable()

	ui.videoLink.SetText(ref.ID().ShortURL())
	if err := ui.videoLink.SetURLFromString(ref.ID().LongURL()); err != nil {
		ui.log.WithError(err).Debug("Invalid video link")
	}
	ui.showNotification(ui.localization.GetText(KeyLoading), true)
}

func (ui *RootUI) applySummary(s *page.Summary) {
	if s == nil {
		return
	}

	if s.DisplayTitle != "" {
		ui.titleLabel.SetText(s.DisplayTitle)
		ui.window.SetTitle(s.Title + " - " + ui.localization.GetText(KeyAppTitle))
	}

	if s.Channel.Name != "" {
		ui.channelURL = s.Channel.URL
		ui.channelLink.SetText(s.Channel.Name)
		if err := ui.channelLink.SetURLFromString(s.Channel.URL); err != nil {
			ui.log.WithError(err).Debug("Invalid channel link")
		}
	}

	ui.detailsLabel.SetText(formatDetails(s, ui.localization))
}

// formatDetails renders the secondary metadata line, skipping missing fields
func formatDetails(s *page.Summary, l *Localization) string {
	var parts []string
	if _, failed := s.Errors[page.FieldDuration]; !failed {
		parts = append(parts, formatDuration(s.Duration))
	}
	if s.Live {
		parts = append(parts, l.GetText(KeyLive))
	} else if _, failed := s.Errors[page.FieldViewCount]; !failed {
		parts = append(parts, page.FormatViews(s.ViewCount))
	}
	if _, failed := s.Errors[page.FieldPublished]; !failed {
		parts = append(parts, s.Published.Format(page.PublishedDateLayout))
	}
	if _, failed := s.Errors[page.FieldPrivacy]; !failed {
		parts = append(parts, s.Privacy.String())
	}
	if _, failed := s.Errors[page.FieldGenre]; !failed && s.Genre != model.GenreUnknown {
		parts = append(parts, string(s.Genre))
	}
	return strings.Join(parts, MiddleDotSeparator)
}

// formatDuration formats a duration as m:ss or h:mm:ss
func formatDuration(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// onSaveClick saves the displayed thumbnail to the configured directory
func (ui *RootUI) onSaveClick() {
	path, err := ui.coord.SaveCurrent()
	if err != nil {
		ui.showNotification(ui.localization.GetText(KeySaveFailed)+": "+errorText(err), false)
		return
	}
	ui.lastSavedPath = path
	ui.showNotification(ui.localization.GetText(KeyImageSaved)+": "+path, false)
}

// onShowInFolder reveals the last saved thumbnail in the file manager
func (ui *RootUI) onShowInFolder() {
	if ui.lastSavedPath == "" {
		ui.showNotification(ui.localization.GetText(KeyNothingLoaded), false)
		return
	}
	path := ui.lastSavedPath
	go func() {
		if err := ui.opener.OpenFileInManager(path); err != nil {
			ui.log.WithError(err).WithField("path", path).Warn("Failed to reveal file")
			ui.showNotification(ui.localization.GetText(KeyErrorOpening)+": "+errorText(err), false)
		}
	}()
}

func (ui *RootUI) onOpenVideo() {
	ref := ui.coord.Current()
	if ref.IsZero() {
		ui.showNotification(ui.localization.GetText(KeyNothingLoaded), false)
		return
	}
	ui.open(ref.ID().LongURL())
}

func (ui *RootUI) onOpenChannel() {
	if ui.channelURL == "" {
		return
	}
	ui.open(ui.channelURL)
}

// onOpenImage writes the thumbnail to a temporary file and opens it in the
// default viewer
func (ui *RootUI) onOpenImage() {
	asset := ui.coord.CurrentAsset()
	if asset == nil {
		ui.showNotification(ui.localization.GetText(KeyNothingLoaded), false)
		return
	}

	path := filepath.Join(os.TempDir(), asset.Ref.ID().String()+platform.ThumbnailExtension)
	if err := ui.saver.Save(asset.Bytes, path); err != nil {
		ui.showNotification(ui.localization.GetText(KeySaveFailed)+": "+errorText(err), false)
		return
	}
	ui.open(path)
}

func (ui *RootUI) open(target string) {
	go func() {
		if err := ui.opener.OpenInDefaultHandler(target); err != nil {
			ui.log.WithError(err).WithField("target", target).Warn("Failed to open")
			ui.showNotification(ui.localization.GetText(KeyErrorOpening)+": "+errorText(err), false)
		}
	}()
}

// onCopyLink copies the displayed video link in the given format
func (ui *RootUI) onCopyLink(verb string) {
	ref := ui.coord.Current()
	if ref.IsZero() {
		ui.showNotification(ui.localization.GetText(KeyNothingLoaded), false)
		return
	}
	link, err := ref.ID().Format(verb)
	if err != nil {
		ui.log.WithError(err).Error("Unsupported link format")
		return
	}
	ui.window.Clipboard().SetContent(link)
	ui.showNotification(ui.localization.GetText(KeyLinkCopied)+": "+link, false)
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func() {
		if lang := ui.settings.GetLanguage(); lang != ui.localization.GetCurrentLanguage() {
			ui.onLanguageChange(lang)
		}
	})
}

// showNotification displays a message in the notification panel under the URL input.
// When spinning is true, a spinner is shown and the panel stays until replaced;
// otherwise it hides after NotificationAutoHide.
func (ui *RootUI) showNotification(message string, spinning bool) {
	if ui.notificationLabel == nil || ui.notificationContainer == nil || ui.notificationSpinner == nil {
		return
	}

	ui.notifyMu.Lock()
	ui.notifySeq++
	seq := ui.notifySeq
	ui.notifyMu.Unlock()

	fyne.Do(func() {
		ui.notificationLabel.SetText(message)
		if spinning {
			ui.notificationSpinner.Show()
		} else {
			ui.notificationSpinner.Hide()
		}
		ui.notificationContainer.Show()
		ui.notificationContainer.Refresh()
	})

	if !spinning {
		time.AfterFunc(NotificationAutoHide, func() {
			ui.notifyMu.Lock()
			stale := seq != ui.notifySeq
			ui.notifyMu.Unlock()
			if !stale {
				ui.hideNotification()
			}
		})
	}
}

// hideNotification hides the notification panel.
func (ui *RootUI) hideNotification() {
	if ui.notificationContainer == nil || ui.notificationSpinner == nil {
		return
	}
	fyne.Do(func() {
		ui.notificationSpinner.Hide()
		ui.notificationContainer.Hide()
	})
}

// errorText returns err's message or an empty string
func errorText(err error) string {
	var fetchErr *model.FetchError
	if errors.As(err, &fetchErr) && fetchErr.StatusCode != 0 {
		return fmt.Sprintf("HTTP %d", fetchErr.StatusCode)
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
