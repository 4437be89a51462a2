package coordinator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-thumbnail-grabber/internal/fetch"
	"github.com/ytget/yt-thumbnail-grabber/internal/model"
	"github.com/ytget/yt-thumbnail-grabber/internal/page"
	"github.com/ytget/yt-thumbnail-grabber/internal/thumbnail"
)

const (
	pageBase  = "http://page.test"
	thumbBase = "http://img.test/vi"
	iconURL   = "http://img.test/icon.png"

	videoA = "dQw4w9WgXcQ"
	videoB = "9bZkp7q19f0"
	videoC = "kJQP7kiw5Fk"

	waitTimeout = 2 * time.Second
)

// fakeGetter serves canned bodies by URL. A gated URL blocks until its gate
// is closed.
type fakeGetter struct {
	mu     sync.Mutex
	bodies map[string][]byte
	gates  map[string]chan struct{}
}

func newFakeGetter() *fakeGetter {
	return &fakeGetter{bodies: make(map[string][]byte), gates: make(map[string]chan struct{})}
}

func (f *fakeGetter) Get(ctx context.Context, url string, _ fetch.Accept, onProgress fetch.ProgressFunc) (*fetch.Response, error) {
	f.mu.Lock()
	body, ok := f.bodies[url]
	gate := f.gates[url]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, &model.FetchError{URL: url, Err: ctx.Err()}
		}
	}
	if !ok {
		return nil, &model.FetchError{URL: url, StatusCode: 404}
	}
	if onProgress != nil {
		onProgress(50)
		onProgress(100)
	}
	return &fetch.Response{URL: url, StatusCode: 200, Body: body}, nil
}

func (f *fakeGetter) serve(url string, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[url] = body
}

// gate blocks url until the returned release func is called or the test ends
func (f *fakeGetter) gate(t *testing.T, url string) func() {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	g := make(chan struct{})
	f.gates[url] = g
	var once sync.Once
	release := func() { once.Do(func() { close(g) }) }
	t.Cleanup(release)
	return release
}

// serveVideo registers the watch page and both thumbnail tiers of id
func (f *fakeGetter) serveVideo(t *testing.T, id string, primary bool) {
	t.Helper()
	html := fmt.Sprintf(`<html><body><div itemscope>
<meta itemprop="name" content="Video %s">
<span itemprop="author"><link itemprop="url" href="/channel/UC1"><link itemprop="name" content="Chan"><link itemprop="thumbnailUrl" href="%s"></span>
<meta itemprop="interactionCount" content="10">
</div></body></html>`, id, iconURL)
	f.serve(pageBase+"/watch?v="+id, []byte(html))
	if primary {
		f.serve(fmt.Sprintf("%s/%s/%s", thumbBase, id, thumbnail.PrimaryFile), jpegBytes(t, 1280, 720))
	}
	f.serve(fmt.Sprintf("%s/%s/%s", thumbBase, id, thumbnail.FallbackFile), jpegBytes(t, 480, 360))
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

type stubSettings struct {
	dir       string
	autoSave  bool
	autoClip  bool
	naming    model.FileNamingMode
	published bool
	views     bool
}

func (s *stubSettings) SaveImagePath() string                { return s.dir }
func (s *stubSettings) AutoSaveImages() bool                 { return s.autoSave }
func (s *stubSettings) AutoLoadFromClipboard() bool          { return s.autoClip }
func (s *stubSettings) ShowPublishedDate() bool              { return s.published }
func (s *stubSettings) ShowViewCount() bool                  { return s.views }
func (s *stubSettings) FileNamingMode() model.FileNamingMode { return s.naming }

type saved struct {
	path string
	data []byte
}

type stubSaver struct {
	mu    sync.Mutex
	err   error
	saves []saved
}

func (s *stubSaver) Save(data []byte, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return &model.WriteError{Path: path, Err: s.err}
	}
	s.saves = append(s.saves, saved{path: path, data: data})
	return nil
}

func (s *stubSaver) paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.saves))
	for _, sv := range s.saves {
		out = append(out, sv.path)
	}
	return out
}

type stubPlaylists struct {
	playlist *model.PlaylistMetadata
	err      error
}

func (s *stubPlaylists) Resolve(_ context.Context, rawURL string) (*model.PlaylistMetadata, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.playlist, nil
}

// recorder collects updates and lets tests wait for a specific one
type recorder struct {
	mu      sync.Mutex
	updates []Update
}

func newRecorder() *recorder {
	return &recorder{}
}

func (r *recorder) record(u Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

// find returns the first update of kind for id; an empty id matches any video
func (r *recorder) find(kind Kind, id string) (Update, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.updates {
		if u.Kind == kind && (id == "" || u.Ref.ID().String() == id) {
			return u, true
		}
	}
	return Update{}, false
}

func (r *recorder) waitFor(t *testing.T, kind Kind, id string) Update {
	t.Helper()
	var found Update
	require.Eventually(t, func() bool {
		u, ok := r.find(kind, id)
		found = u
		return ok
	}, waitTimeout, 5*time.Millisecond, "waiting for %s of %q", kind, id)
	return found
}

func (r *recorder) seen(kind Kind, id string) bool {
	_, ok := r.find(kind, id)
	return ok
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

type fixture struct {
	getter    *fakeGetter
	settings  *stubSettings
	saver     *stubSaver
	playlists *stubPlaylists
	rec       *recorder
	c         *Coordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		getter:    newFakeGetter(),
		settings:  &stubSettings{dir: t.TempDir(), naming: model.NamingVideoID},
		saver:     &stubSaver{},
		playlists: &stubPlaylists{},
		rec:       newRecorder(),
	}
	f.getter.serve(iconURL, pngBytes(t))
	f.c = New(
		thumbnail.NewResolver(f.getter, thumbBase),
		page.NewResolver(f.getter, pageBase),
		f.playlists,
		f.saver,
		f.settings,
	)
	f.c.SetUpdateCallback(f.rec.record)
	t.Cleanup(f.c.Close)
	return f
}

func TestRequestResolution_DuplicateSuppressed(t *testing.T) {
	f := newFixture(t)
	f.getter.serveVideo(t, videoA, true)

	assert.True(t, f.c.RequestResolution("https://youtu.be/"+videoA))
	assert.False(t, f.c.RequestResolution("https://www.youtube.com/watch?v="+videoA+"&amp;feature=share"))
	assert.Equal(t, uint64(1), f.c.Generation())
	assert.Equal(t, model.VideoID(videoA), f.c.Current().ID())

	f.rec.waitFor(t, KindThumbnailReady, videoA)
}

func TestRequestResolution_InvalidInput(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"plain text", "never gonna give you up"},
		{"foreign url", "https://example.com/watch?v=" + videoA},
		{"short id", "https://youtu.be/abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, f.c.RequestResolution(tt.input))
		})
	}
	assert.Equal(t, uint64(0), f.c.Generation())
	assert.True(t, f.c.Current().IsZero())
	assert.Equal(t, 0, f.rec.count())
}

func TestRequestResolution_EntityDecodedAndTrimmed(t *testing.T) {
	f := newFixture(t)
	f.getter.serveVideo(t, videoA, true)

	assert.True(t, f.c.RequestResolution("  https://www.youtube.com/watch?feature=player_embedded&amp;v="+videoA+"\n"))
	assert.Equal(t, model.VideoID(videoA), f.c.Current().ID())
}

func TestRequestResolution_DeliversThumbnailMetadataAndIcon(t *testing.T) {
	f := newFixture(t)
	f.settings.views = true
	f.getter.serveVideo(t, videoA, true)

	require.True(t, f.c.RequestResolution("https://youtu.be/"+videoA))

	ready := f.rec.waitFor(t, KindThumbnailReady, videoA)
	require.NotNil(t, ready.Asset)
	assert.Equal(t, model.TierPrimary, ready.Asset.Tier)
	assert.Equal(t, 1280, ready.Asset.Width)
	assert.Equal(t, uint64(1), ready.Generation)
	id, err := uuid.Parse(ready.ResolutionID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Same(t, ready.Asset, f.c.CurrentAsset())

	meta := f.rec.waitFor(t, KindMetadataReady, videoA)
	require.NotNil(t, meta.Summary)
	assert.NoError(t, meta.Err)
	assert.Equal(t, "Video "+videoA, meta.Summary.Title)
	assert.Equal(t, "Video "+videoA+" | 10 views", meta.Summary.DisplayTitle)
	assert.Equal(t, "Chan", meta.Summary.Channel.Name)
	assert.Equal(t, ready.ResolutionID, meta.ResolutionID)

	icon := f.rec.waitFor(t, KindIconReady, videoA)
	assert.NoError(t, icon.Err)
	require.NotNil(t, icon.Icon)
	assert.Equal(t, 8, icon.Icon.Bounds().Dx())
}

func TestRequestResolution_Fallback(t *testing.T) {
	f := newFixture(t)
	f.getter.serveVideo(t, videoA, false)

	require.True(t, f.c.RequestResolution("https://youtu.be/"+videoA))

	ready := f.rec.waitFor(t, KindThumbnailReady, videoA)
	assert.Equal(t, model.TierFallback, ready.Asset.Tier)
	assert.Equal(t, 480, ready.Asset.Width)
}

func TestRequestResolution_ThumbnailFailure(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.c.RequestResolution("https://youtu.be/"+videoA))

	failed := f.rec.waitFor(t, KindThumbnailFailed, videoA)
	assert.True(t, errors.Is(failed.Err, model.ErrFetch))
	assert.Nil(t, f.c.CurrentAsset())

	meta := f.rec.waitFor(t, KindMetadataReady, videoA)
	assert.True(t, errors.Is(meta.Err, model.ErrFetch))
}

func TestRequestResolution_StaleResultIgnored(t *testing.T) {
	f := newFixture(t)
	f.getter.serveVideo(t, videoA, true)
	f.getter.serveVideo(t, videoB, true)
	release := f.getter.gate(t, fmt.Sprintf("%s/%s/%s", thumbBase, videoA, thumbnail.PrimaryFile))

	require.True(t, f.c.RequestResolution("https://youtu.be/"+videoA))
	require.True(t, f.c.RequestResolution("https://youtu.be/"+videoB))
	assert.Equal(t, uint64(2), f.c.Generation())

	ready := f.rec.waitFor(t, KindThumbnailReady, videoB)
	assert.Equal(t, uint64(2), ready.Generation)

	release()
	assert.Never(t, func() bool {
		return f.rec.seen(KindThumbnailReady, videoA)
	}, 300*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, model.VideoID(videoB), f.c.CurrentAsset().Ref.ID())
	assert.Equal(t, model.VideoID(videoB), f.c.Current().ID())
}

func TestRequestResolution_SupersededWhileDelivering(t *testing.T) {
	f := newFixture(t)
	f.getter.serveVideo(t, videoA, true)
	f.getter.serveVideo(t, videoB, true)
	releaseB := f.getter.gate(t, fmt.Sprintf("%s/%s/%s", thumbBase, videoB, thumbnail.PrimaryFile))

	var (
		mu       sync.Mutex
		queued   []Update
		switched sync.Once
	)
	aQueued := make(chan struct{})
	f.c.SetUpdateCallback(func(u Update) {
		if u.Kind == KindThumbnailReady && u.Ref.ID() == videoA {
			// A passed the generation check, then B arrives before A is queued
			switched.Do(func() {
				assert.True(t, f.c.RequestResolution("https://youtu.be/"+videoB))
			})
			defer close(aQueued)
		}
		mu.Lock()
		queued = append(queued, u)
		mu.Unlock()
	})

	// apply replays the queue in order the way the window does
	apply := func() model.VideoID {
		mu.Lock()
		defer mu.Unlock()
		var shown model.VideoID
		for _, u := range queued {
			if f.c.IsStale(u) {
				continue
			}
			switch u.Kind {
			case KindProgress:
				if u.Percent == 0 && u.Tier == model.TierPrimary {
					shown = ""
				}
			case KindThumbnailReady:
				shown = u.Asset.Ref.ID()
			}
		}
		return shown
	}

	require.True(t, f.c.RequestResolution("https://youtu.be/"+videoA))
	select {
	case <-aQueued:
	case <-time.After(waitTimeout):
		t.Fatal("thumbnail of A never delivered")
	}

	var aReady Update
	mu.Lock()
	for _, u := range queued {
		if u.Kind == KindThumbnailReady && u.Ref.ID() == videoA {
			aReady = u
		}
	}
	mu.Unlock()
	assert.Equal(t, uint64(1), aReady.Generation)
	assert.True(t, f.c.IsStale(aReady))
	assert.Equal(t, uint64(2), f.c.Generation())
	assert.Empty(t, apply(), "stale thumbnail of A must not be shown")

	releaseB()
	require.Eventually(t, func() bool { return apply() == videoB }, waitTimeout, 5*time.Millisecond)
}

func TestIsStale(t *testing.T) {
	f := newFixture(t)
	f.getter.serveVideo(t, videoA, true)
	f.getter.serveVideo(t, videoB, true)

	require.True(t, f.c.RequestResolution("https://youtu.be/"+videoA))
	require.True(t, f.c.RequestResolution("https://youtu.be/"+videoB))

	tests := []struct {
		name     string
		update   Update
		expected bool
	}{
		{"current thumbnail", Update{Kind: KindThumbnailReady, Generation: 2}, false},
		{"old thumbnail", Update{Kind: KindThumbnailReady, Generation: 1}, true},
		{"old save", Update{Kind: KindSaved, Generation: 1}, true},
		{"old icon", Update{Kind: KindIconReady, Generation: 1}, true},
		{"playlist resolved", Update{Kind: KindPlaylistResolved, Generation: 1}, false},
		{"playlist failed", Update{Kind: KindPlaylistFailed, Generation: 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.c.IsStale(tt.update))
		})
	}
}

func TestRequestResolution_PreviousVideoAgainAfterSwitch(t *testing.T) {
	f := newFixture(t)
	f.getter.serveVideo(t, videoA, true)
	f.getter.serveVideo(t, videoB, true)

	assert.True(t, f.c.RequestResolution("https://youtu.be/"+videoA))
	assert.True(t, f.c.RequestResolution("https://youtu.be/"+videoB))
	assert.True(t, f.c.RequestResolution("https://youtu.be/"+videoA))
	assert.Equal(t, uint64(3), f.c.Generation())
}

func TestAutoSave(t *testing.T) {
	tests := []struct {
		name     string
		naming   model.FileNamingMode
		expected string
	}{
		{"video id", model.NamingVideoID, videoA + ".jpg"},
		{"channel and title", model.NamingChannelTitle, "Chan - Video " + videoA + ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.settings.autoSave = true
			f.settings.naming = tt.naming
			f.getter.serveVideo(t, videoA, true)

			require.True(t, f.c.RequestResolution("https://youtu.be/"+videoA))

			u := f.rec.waitFor(t, KindSaved, videoA)
			want := filepath.Join(f.settings.dir, tt.expected)
			assert.Equal(t, want, u.Path)
			assert.Equal(t, []string{want}, f.saver.paths())
		})
	}
}

func TestAutoSave_Disabled(t *testing.T) {
	f := newFixture(t)
	f.getter.serveVideo(t, videoA, true)

	require.True(t, f.c.RequestResolution("https://youtu.be/"+videoA))
	f.rec.waitFor(t, KindThumbnailReady, videoA)

	assert.Never(t, func() bool { return f.rec.seen(KindSaved, videoA) }, 100*time.Millisecond, 10*time.Millisecond)
	assert.Empty(t, f.saver.paths())
}

func TestAutoSave_WriteError(t *testing.T) {
	f := newFixture(t)
	f.settings.autoSave = true
	f.saver.err = errors.New("disk full")
	f.getter.serveVideo(t, videoA, true)

	require.True(t, f.c.RequestResolution("https://youtu.be/"+videoA))

	u := f.rec.waitFor(t, KindSaveFailed, videoA)
	assert.True(t, errors.Is(u.Err, model.ErrWrite))
	assert.Equal(t, filepath.Join(f.settings.dir, videoA+".jpg"), u.Path)
}

func TestSaveCurrent(t *testing.T) {
	f := newFixture(t)

	_, err := f.c.SaveCurrent()
	assert.Error(t, err)

	f.getter.serveVideo(t, videoA, true)
	require.True(t, f.c.RequestResolution("https://youtu.be/"+videoA))
	f.rec.waitFor(t, KindThumbnailReady, videoA)

	path, err := f.c.SaveCurrent()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.settings.dir, videoA+".jpg"), path)
}

func TestPlaylist_MembersResolvedInOrder(t *testing.T) {
	f := newFixture(t)
	f.settings.autoSave = true
	for _, id := range []string{videoA, videoB, videoC} {
		f.getter.serveVideo(t, id, true)
	}

	playlist := model.NewPlaylistMetadata("PL1", "https://www.youtube.com/playlist?list=PL1")
	for _, id := range []string{videoA, videoA, videoB, videoC} {
		playlist.AddVideo(model.ReferenceFromID(model.VideoID(id)))
	}
	f.playlists.playlist = playlist

	require.True(t, f.c.RequestResolution("https://www.youtube.com/playlist?list=PL1"))

	resolved := f.rec.waitFor(t, KindPlaylistResolved, "")
	assert.Same(t, playlist, resolved.Playlist)

	f.rec.waitFor(t, KindSaved, videoC)
	dir := f.settings.dir
	assert.Equal(t, []string{
		filepath.Join(dir, videoA+".jpg"),
		filepath.Join(dir, videoB+".jpg"),
		filepath.Join(dir, videoC+".jpg"),
	}, f.saver.paths())
	assert.Equal(t, model.VideoID(videoC), f.c.Current().ID())
	assert.Equal(t, uint64(3), f.c.Generation())
}

func TestPlaylist_Failure(t *testing.T) {
	f := newFixture(t)
	f.playlists.err = &model.FetchError{URL: "https://www.youtube.com/playlist?list=PL1", StatusCode: 500}

	require.True(t, f.c.RequestResolution("https://www.youtube.com/playlist?list=PL1"))

	u := f.rec.waitFor(t, KindPlaylistFailed, "")
	assert.True(t, errors.Is(u.Err, model.ErrFetch))
	assert.True(t, f.c.Current().IsZero())
}

func TestPlaylist_WatchLinkFallsBackToVideo(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*stubPlaylists)
	}{
		{"playlist fails", func(s *stubPlaylists) {
			s.err = &model.FetchError{URL: "https://www.youtube.com/playlist?list=RDx", StatusCode: 500}
		}},
		{"playlist empty", func(s *stubPlaylists) {
			s.playlist = model.NewPlaylistMetadata("RDx", "https://www.youtube.com/playlist?list=RDx")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.getter.serveVideo(t, videoA, true)
			tt.setup(f.playlists)

			require.True(t, f.c.RequestResolution("https://www.youtube.com/watch?v="+videoA+"&list=RDx"))

			f.rec.waitFor(t, KindThumbnailReady, videoA)
			assert.Equal(t, model.VideoID(videoA), f.c.Current().ID())
			assert.Equal(t, uint64(1), f.c.Generation())
		})
	}
}

func TestPlaylist_EmptyWithoutVideo(t *testing.T) {
	f := newFixture(t)
	f.playlists.playlist = model.NewPlaylistMetadata("PL1", "https://www.youtube.com/playlist?list=PL1")

	require.True(t, f.c.RequestResolution("https://www.youtube.com/playlist?list=PL1"))

	f.rec.waitFor(t, KindPlaylistResolved, "")
	assert.Never(t, func() bool { return !f.c.Current().IsZero() }, 100*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, uint64(0), f.c.Generation())
}

func TestWatchClipboard(t *testing.T) {
	tests := []struct {
		name     string
		autoClip bool
		expected model.VideoID
	}{
		{"auto load enabled", true, videoA},
		{"auto load disabled", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.settings.autoClip = tt.autoClip
			f.getter.serveVideo(t, videoA, true)

			events := make(chan model.ClipboardChangeEvent, 4)
			events <- model.NewImageEvent(image.NewRGBA(image.Rect(0, 0, 1, 1)))
			events <- model.NewTextEvent("just some notes")
			events <- model.NewTextEvent("  https://youtu.be/" + videoA + "  ")
			close(events)

			f.c.WatchClipboard(context.Background(), events)

			assert.Equal(t, tt.expected, f.c.Current().ID())
		})
	}
}

func TestWatchClipboard_StopsOnContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		f.c.WatchClipboard(ctx, make(chan model.ClipboardChangeEvent))
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(waitTimeout):
		t.Fatal("WatchClipboard did not return after cancel")
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "thumbnail_ready", KindThumbnailReady.String())
	assert.Equal(t, "save_failed", KindSaveFailed.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
