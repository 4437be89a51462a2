package ui

import (
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-thumbnail-grabber/internal/config"
	"github.com/ytget/yt-thumbnail-grabber/internal/model"
)

// SettingsDialog represents the options dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	saveDirEntry    *widget.Entry
	autoSaveCheck   *widget.Check
	clipboardCheck  *widget.Check
	publishedCheck  *widget.Check
	viewsCheck      *widget.Check
	namingRadio     *widget.RadioGroup
	languageSelect  *widget.Select
	languageByLabel map[string]string
}

// ShowSettingsDialog creates and shows the options dialog. onSaved runs
// after the settings were written.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) {
	sd := NewSettingsDialog(settings, localization, window)
	sd.onSaved = onSaved
	sd.Show()
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	sd.saveDirEntry = widget.NewEntry()
	sd.saveDirEntry.SetPlaceHolder(t(KeySaveDirectory))
	browseDirBtn := widget.NewButton(t(KeyBrowse), sd.onBrowseDirectory)
	saveDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.saveDirEntry)

	sd.autoSaveCheck = widget.NewCheck(t(KeyAutoSave), nil)
	sd.clipboardCheck = widget.NewCheck(t(KeyAutoLoadClipboard), nil)
	sd.publishedCheck = widget.NewCheck(t(KeyShowPublished), nil)
	sd.viewsCheck = widget.NewCheck(t(KeyShowViews), nil)

	sd.namingRadio = widget.NewRadioGroup([]string{t(KeyNamingChannel), t(KeyNamingVideoID)}, nil)
	sd.namingRadio.Horizontal = true
	sd.namingRadio.Required = true

	sd.languageByLabel = make(map[string]string)
	var languageOptions []string
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageByLabel[name] = code
		languageOptions = append(languageOptions, name)
	}
	sort.Strings(languageOptions)
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	form := container.NewVBox(
		widget.NewLabel(t(KeySaveDirectory)+":"),
		saveDirRow,
		sd.autoSaveCheck,
		widget.NewLabel(t(KeyFileNaming)+":"),
		sd.namingRadio,

		widget.NewSeparator(),
		sd.clipboardCheck,
		sd.publishedCheck,
		sd.viewsCheck,

		widget.NewSeparator(),
		widget.NewLabel(t(KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		t(KeySettings),
		t(KeySave),
		t(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(500, 420))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	t := sd.localization.GetText

	sd.saveDirEntry.SetText(sd.settings.SaveImagePath())
	sd.autoSaveCheck.SetChecked(sd.settings.AutoSaveImages())
	sd.clipboardCheck.SetChecked(sd.settings.AutoLoadFromClipboard())
	sd.publishedCheck.SetChecked(sd.settings.ShowPublishedDate())
	sd.viewsCheck.SetChecked(sd.settings.ShowViewCount())

	if sd.settings.FileNamingMode() == model.NamingChannelTitle {
		sd.namingRadio.SetSelected(t(KeyNamingChannel))
	} else {
		sd.namingRadio.SetSelected(t(KeyNamingVideoID))
	}

	current := sd.settings.GetLanguage()
	for label, code := range sd.languageByLabel {
		if code == current {
			sd.languageSelect.SetSelected(label)
		}
	}
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.saveDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if dir := sd.saveDirEntry.Text; dir != "" {
		sd.settings.SetSaveImagePath(dir)
	}
	sd.settings.SetAutoSaveImages(sd.autoSaveCheck.Checked)
	sd.settings.SetAutoLoadFromClipboard(sd.clipboardCheck.Checked)
	sd.settings.SetShowPublishedDate(sd.publishedCheck.Checked)
	sd.settings.SetShowViewCount(sd.viewsCheck.Checked)

	if sd.namingRadio.Selected == sd.localization.GetText(KeyNamingChannel) {
		sd.settings.SetFileNamingMode(model.NamingChannelTitle)
	} else {
		sd.settings.SetFileNamingMode(model.NamingVideoID)
	}

	if code, ok := sd.languageByLabel[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}

	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}
