package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyGrab              = "grab"
	KeySaveImage         = "save_image"
	KeyOpenVideo         = "open_video"
	KeyOpenImage         = "open_image"
	KeyOpenChannel       = "open_channel"
	KeyShowInFolder      = "show_in_folder"
	KeyCopyShortLink     = "copy_short_link"
	KeyCopyLongLink      = "copy_long_link"
	KeyCopyPlayerLink    = "copy_player_link"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyVideo             = "video"
	KeyLanguage          = "language"
	KeySaveDirectory     = "save_directory"
	KeyAutoSave          = "auto_save"
	KeyAutoLoadClipboard = "auto_load_clipboard"
	KeyShowPublished     = "show_published"
	KeyShowViews         = "show_views"
	KeyFileNaming        = "file_naming"
	KeyNamingChannel     = "naming_channel"
	KeyNamingVideoID     = "naming_video_id"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeyEnterURL          = "enter_url"
	KeySettingsSaved     = "settings_saved"
	KeyInvalidURL        = "invalid_url"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyAlreadyShown      = "already_shown"
	KeyLoading           = "loading"
	KeyThumbnailFailed   = "thumbnail_failed"
	KeyImageSaved        = "image_saved"
	KeySaveFailed        = "save_failed"
	KeyPlaylistLoading   = "playlist_loading"
	KeyPlaylistFailed    = "playlist_failed"
	KeyPlaylistResolved  = "playlist_resolved"
	KeyNothingLoaded     = "nothing_loaded"
	KeyErrorOpening      = "error_opening"
	KeyLinkCopied        = "link_copied"
	KeyLive              = "live"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "YT Thumbnail Grabber",
		KeyGrab:              "Grab",
		KeySaveImage:         "Save image",
		KeyOpenVideo:         "Open video in browser",
		KeyOpenImage:         "Open image in viewer",
		KeyOpenChannel:       "Open channel",
		KeyShowInFolder:      "Show in folder",
		KeyCopyShortLink:     "Copy short link",
		KeyCopyLongLink:      "Copy long link",
		KeyCopyPlayerLink:    "Copy forced player link",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyVideo:             "Video",
		KeyLanguage:          "Language",
		KeySaveDirectory:     "Save Directory",
		KeyAutoSave:          "Save images automatically",
		KeyAutoLoadClipboard: "Load links copied to the clipboard",
		KeyShowPublished:     "Show published date in title",
		KeyShowViews:         "Show view count in title",
		KeyFileNaming:        "File Naming",
		KeyNamingChannel:     "Channel - Title",
		KeyNamingVideoID:     "Video ID",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeyEnterURL:          "Enter YouTube URL (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyInvalidURL:        "Not a YouTube video or playlist link",
		KeyPleaseEnterURL:    "Please enter a URL",
		KeyAlreadyShown:      "This video is already shown",
		KeyLoading:           "Loading thumbnail...",
		KeyThumbnailFailed:   "The video thumbnail has failed to download",
		KeyImageSaved:        "Image saved",
		KeySaveFailed:        "Failed to save image",
		KeyPlaylistLoading:   "Reading playlist...",
		KeyPlaylistFailed:    "Failed to read playlist",
		KeyPlaylistResolved:  "Playlist",
		KeyNothingLoaded:     "No thumbnail loaded",
		KeyErrorOpening:      "Error opening",
		KeyLinkCopied:        "Link copied",
		KeyLive:              "LIVE",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "YT Граббер превью",
		KeyGrab:              "Загрузить",
		KeySaveImage:         "Сохранить изображение",
		KeyOpenVideo:         "Открыть видео в браузере",
		KeyOpenImage:         "Открыть изображение",
		KeyOpenChannel:       "Открыть канал",
		KeyShowInFolder:      "Показать в папке",
		KeyCopyShortLink:     "Копировать короткую ссылку",
		KeyCopyLongLink:      "Копировать полную ссылку",
		KeyCopyPlayerLink:    "Копировать ссылку плеера",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyVideo:             "Видео",
		KeyLanguage:          "Язык",
		KeySaveDirectory:     "Папка сохранения",
		KeyAutoSave:          "Сохранять изображения автоматически",
		KeyAutoLoadClipboard: "Загружать ссылки из буфера обмена",
		KeyShowPublished:     "Показывать дату публикации",
		KeyShowViews:         "Показывать число просмотров",
		KeyFileNaming:        "Имя файла",
		KeyNamingChannel:     "Канал - Название",
		KeyNamingVideoID:     "ID видео",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeyEnterURL:          "Введите URL YouTube (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyInvalidURL:        "Это не ссылка на видео или плейлист YouTube",
		KeyPleaseEnterURL:    "Пожалуйста, введите URL",
		KeyAlreadyShown:      "Это видео уже показано",
		KeyLoading:           "Загрузка превью...",
		KeyThumbnailFailed:   "Не удалось загрузить превью видео",
		KeyImageSaved:        "Изображение сохранено",
		KeySaveFailed:        "Не удалось сохранить изображение",
		KeyPlaylistLoading:   "Чтение плейлиста...",
		KeyPlaylistFailed:    "Не удалось прочитать плейлист",
		KeyPlaylistResolved:  "Плейлист",
		KeyNothingLoaded:     "Превью не загружено",
		KeyErrorOpening:      "Ошибка открытия",
		KeyLinkCopied:        "Ссылка скопирована",
		KeyLive:              "В ЭФИРЕ",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "YT Thumbnail Grabber",
		KeyGrab:              "Obter",
		KeySaveImage:         "Salvar imagem",
		KeyOpenVideo:         "Abrir vídeo no navegador",
		KeyOpenImage:         "Abrir imagem no visualizador",
		KeyOpenChannel:       "Abrir canal",
		KeyShowInFolder:      "Mostrar na pasta",
		KeyCopyShortLink:     "Copiar link curto",
		KeyCopyLongLink:      "Copiar link longo",
		KeyCopyPlayerLink:    "Copiar link do player",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyVideo:             "Vídeo",
		KeyLanguage:          "Idioma",
		KeySaveDirectory:     "Diretório de Salvamento",
		KeyAutoSave:          "Salvar imagens automaticamente",
		KeyAutoLoadClipboard: "Carregar links copiados",
		KeyShowPublished:     "Mostrar data de publicação no título",
		KeyShowViews:         "Mostrar visualizações no título",
		KeyFileNaming:        "Nome do Arquivo",
		KeyNamingChannel:     "Canal - Título",
		KeyNamingVideoID:     "ID do vídeo",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeyEnterURL:          "Digite URL do YouTube (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeyInvalidURL:        "Não é um link de vídeo ou playlist do YouTube",
		KeyPleaseEnterURL:    "Por favor, digite uma URL",
		KeyAlreadyShown:      "Este vídeo já está sendo exibido",
		KeyLoading:           "Carregando miniatura...",
		KeyThumbnailFailed:   "Falha ao baixar a miniatura do vídeo",
		KeyImageSaved:        "Imagem salva",
		KeySaveFailed:        "Falha ao salvar imagem",
		KeyPlaylistLoading:   "Lendo playlist...",
		KeyPlaylistFailed:    "Falha ao ler playlist",
		KeyPlaylistResolved:  "Playlist",
		KeyNothingLoaded:     "Nenhuma miniatura carregada",
		KeyErrorOpening:      "Erro ao abrir",
		KeyLinkCopied:        "Link copiado",
		KeyLive:              "AO VIVO",
	}
}
