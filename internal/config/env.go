package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ytget/yt-thumbnail-grabber/internal/logging"
)

// Playlist backends selectable through PLAYLIST_BACKEND
const (
	PlaylistBackendPage  = "page"
	PlaylistBackendYtdlp = "ytdlp"
)

// Env defaults
const (
	DefaultFetchTimeout     = 20 * time.Second
	DefaultUserAgent        = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	DefaultThumbnailBaseURL = "https://i.ytimg.com/vi"
	DefaultPageBaseURL      = "https://www.youtube.com"
	DefaultClipboardBuffer  = 16
)

// Env holds runtime knobs that are not user options
type Env struct {
	LogLevel         string
	LogFormat        string
	FetchTimeout     time.Duration
	UserAgent        string
	PlaylistBackend  string
	ThumbnailBaseURL string
	PageBaseURL      string
	ClipboardBuffer  int
}

// LoadEnv reads an optional .env file and then the process environment
func LoadEnv(files ...string) *Env {
	if err := godotenv.Load(files...); err != nil {
		logging.WithComponent("config").Debug("no .env file found, using environment variables")
	}

	env := &Env{
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", logging.FormatText),
		FetchTimeout:     getEnvDuration("FETCH_TIMEOUT", DefaultFetchTimeout),
		UserAgent:        getEnv("USER_AGENT", DefaultUserAgent),
		PlaylistBackend:  strings.ToLower(getEnv("PLAYLIST_BACKEND", PlaylistBackendPage)),
		ThumbnailBaseURL: strings.TrimRight(getEnv("THUMBNAIL_BASE_URL", DefaultThumbnailBaseURL), "/"),
		PageBaseURL:      strings.TrimRight(getEnv("PAGE_BASE_URL", DefaultPageBaseURL), "/"),
		ClipboardBuffer:  getEnvInt("CLIPBOARD_BUFFER", DefaultClipboardBuffer),
	}

	if env.PlaylistBackend != PlaylistBackendPage && env.PlaylistBackend != PlaylistBackendYtdlp {
		logging.WithComponent("config").Warnf("Unknown PLAYLIST_BACKEND %q, using %s", env.PlaylistBackend, PlaylistBackendPage)
		env.PlaylistBackend = PlaylistBackendPage
	}
	if env.ClipboardBuffer < 1 {
		env.ClipboardBuffer = DefaultClipboardBuffer
	}
	return env
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
