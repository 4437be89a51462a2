package main

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver"

	"github.com/ytget/yt-thumbnail-grabber/internal/clipboard"
	"github.com/ytget/yt-thumbnail-grabber/internal/config"
	"github.com/ytget/yt-thumbnail-grabber/internal/coordinator"
	"github.com/ytget/yt-thumbnail-grabber/internal/fetch"
	"github.com/ytget/yt-thumbnail-grabber/internal/logging"
	"github.com/ytget/yt-thumbnail-grabber/internal/page"
	"github.com/ytget/yt-thumbnail-grabber/internal/platform"
	"github.com/ytget/yt-thumbnail-grabber/internal/thumbnail"
	"github.com/ytget/yt-thumbnail-grabber/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.yt-thumbnail-grabber"
	AppName = "YT Thumbnail Grabber"

	WindowWidth  = 720
	WindowHeight = 640
)

func main() {
	env := config.LoadEnv()
	logging.Configure(env.LogLevel, env.LogFormat)
	log := logging.WithComponent("main")
	log.Infof("%s v%s starting", AppName, version)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	settings := config.NewSettings(myApp)
	if err := platform.CreateDirectoryIfNotExists(settings.SaveImagePath()); err != nil {
		log.WithError(err).Warn("Failed to ensure save directory")
	}

	client := fetch.NewClient(
		fetch.WithTimeout(env.FetchTimeout),
		fetch.WithUserAgent(env.UserAgent),
	)

	playlists := platform.NewPlaylistResolver(client)
	playlists.SetBackend(env.PlaylistBackend)
	playlists.SetTimeout(env.FetchTimeout)

	coord := coordinator.New(
		thumbnail.NewResolver(client, env.ThumbnailBaseURL),
		page.NewResolver(client, env.PageBaseURL),
		playlists,
		platform.NewFileSaver(),
		settings,
	)
	defer coord.Close()

	ui.NewRootUI(myWindow, coord, settings, platform.NewOpener())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startClipboard(ctx, myApp, myWindow, coord, env.ClipboardBuffer)

	myWindow.ShowAndRun()
}

// startClipboard joins the clipboard viewer chain once the window exists and
// leaves it when the app stops. Without a clipboard the app still runs.
func startClipboard(ctx context.Context, a fyne.App, w fyne.Window, coord *coordinator.Coordinator, buffer int) {
	log := logging.WithComponent("main")

	host, err := clipboard.NewSystem()
	if err != nil {
		log.WithError(err).Warn("Clipboard unavailable, auto-load disabled")
		return
	}

	watcher := clipboard.NewWatcher(host, buffer)
	go coord.WatchClipboard(ctx, watcher.Events())

	attach := func(hwnd uintptr) {
		self, err := host.Attach(ctx, hwnd, watcher)
		if err != nil {
			log.WithError(err).Warn("Failed to attach clipboard listener")
			return
		}
		if err := watcher.Start(self); err != nil {
			log.WithError(err).Warn("Failed to join clipboard viewer chain")
		}
	}

	// The viewer chain is bound to the window thread, so attach runs there.
	a.Lifecycle().SetOnStarted(func() {
		nw, ok := w.(driver.NativeWindow)
		if !ok {
			attach(0)
			return
		}
		nw.RunNative(func(c any) {
			var hwnd uintptr
			if wc, ok := c.(driver.WindowsWindowContext); ok {
				hwnd = wc.HWND
			}
			attach(hwnd)
		})
	})

	a.Lifecycle().SetOnStopped(func() {
		if err := watcher.Stop(); err != nil {
			log.WithError(err).Warn("Failed to leave clipboard viewer chain")
		}
	})
}
