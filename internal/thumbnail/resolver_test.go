package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-thumbnail-grabber/internal/fetch"
	"github.com/ytget/yt-thumbnail-grabber/internal/model"
)

var testRef = model.ReferenceFromID("dQw4w9WgXcQ")

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var out []Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func terminals(events []Event) []Event {
	var out []Event
	for _, ev := range events {
		if ev.IsTerminal() {
			out = append(out, ev)
		}
	}
	return out
}

func newServer(t *testing.T, handlers map[string]http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if h, ok := handlers[r.URL.Path]; ok {
			h(w, r)
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func serveJPEG(data []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(data)
	}
}

func TestResolve_PrimarySuccess(t *testing.T) {
	srv, hits := newServer(t, map[string]http.HandlerFunc{
		"/vi/dQw4w9WgXcQ/maxresdefault.jpg": serveJPEG(jpegBytes(t, 64, 36)),
	})

	r := NewResolver(fetch.NewClient(), srv.URL+"/vi/")
	events := collect(t, r.Resolve(context.Background(), testRef))

	term := terminals(events)
	require.Len(t, term, 1)
	assert.Equal(t, EventSuccess, term[0].Kind)
	assert.Equal(t, events[len(events)-1], term[0], "terminal event must be last")

	asset := term[0].Asset
	require.NotNil(t, asset)
	assert.Equal(t, model.TierPrimary, asset.Tier)
	assert.Equal(t, 64, asset.Width)
	assert.Equal(t, 36, asset.Height)
	assert.Equal(t, "image/jpeg", asset.ContentType)
	assert.True(t, asset.Ref.Equal(testRef))
	assert.NotZero(t, asset.Size())
	assert.EqualValues(t, 1, hits.Load())
}

func TestResolve_FallbackAfter404(t *testing.T) {
	srv, hits := newServer(t, map[string]http.HandlerFunc{
		"/vi/dQw4w9WgXcQ/0.jpg": serveJPEG(jpegBytes(t, 48, 36)),
	})

	r := NewResolver(fetch.NewClient(), srv.URL+"/vi")
	events := collect(t, r.Resolve(context.Background(), testRef))

	term := terminals(events)
	require.Len(t, term, 1)
	assert.Equal(t, EventSuccess, term[0].Kind)
	assert.Equal(t, model.TierFallback, term[0].Asset.Tier)
	assert.Equal(t, srv.URL+"/vi/dQw4w9WgXcQ/0.jpg", term[0].Asset.SourceURL)
	assert.EqualValues(t, 2, hits.Load())

	// Fallback progress starts over from 0 and is tagged with its tier
	var fallbackProgress []int
	for _, ev := range events {
		if ev.Kind == EventProgress && ev.Tier == model.TierFallback {
			fallbackProgress = append(fallbackProgress, ev.Percent)
		}
	}
	require.NotEmpty(t, fallbackProgress)
	assert.Equal(t, 0, fallbackProgress[0])
}

func TestResolve_BothTiersFail(t *testing.T) {
	srv, hits := newServer(t, nil)

	r := NewResolver(fetch.NewClient(), srv.URL+"/vi")
	events := collect(t, r.Resolve(context.Background(), testRef))

	term := terminals(events)
	require.Len(t, term, 1)
	assert.Equal(t, EventFailure, term[0].Kind)
	assert.Equal(t, events[len(events)-1], term[0])
	assert.True(t, errors.Is(term[0].Err, model.ErrFetch))
	assert.Contains(t, term[0].Err.Error(), "primary")
	assert.Contains(t, term[0].Err.Error(), "fallback")
	assert.EqualValues(t, 2, hits.Load())

	for _, ev := range events {
		assert.NotEqual(t, EventSuccess, ev.Kind)
	}
}

func TestResolve_UndecodablePrimaryFallsBack(t *testing.T) {
	srv, _ := newServer(t, map[string]http.HandlerFunc{
		"/vi/dQw4w9WgXcQ/maxresdefault.jpg": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>not an image</html>"))
		},
		"/vi/dQw4w9WgXcQ/0.jpg": serveJPEG(jpegBytes(t, 8, 8)),
	})

	r := NewResolver(fetch.NewClient(), srv.URL+"/vi")
	term := terminals(collect(t, r.Resolve(context.Background(), testRef)))
	require.Len(t, term, 1)
	assert.Equal(t, EventSuccess, term[0].Kind)
	assert.Equal(t, model.TierFallback, term[0].Asset.Tier)
}

type fakeGetter struct {
	calls []string
	resp  map[string]*fetch.Response
}

func (f *fakeGetter) Get(_ context.Context, url string, _ fetch.Accept, onProgress fetch.ProgressFunc) (*fetch.Response, error) {
	f.calls = append(f.calls, url)
	if r, ok := f.resp[url]; ok {
		if onProgress != nil {
			onProgress(50)
			onProgress(100)
		}
		return r, nil
	}
	return nil, &model.FetchError{URL: url, StatusCode: http.StatusNotFound}
}

func TestResolve_URLPlan(t *testing.T) {
	g := &fakeGetter{}
	r := NewResolver(g, "")

	assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", r.PrimaryURL(testRef.ID()))
	assert.Equal(t, "https://i.ytimg.com/vi/dQw4w9WgXcQ/0.jpg", r.FallbackURL(testRef.ID()))

	collect(t, r.Resolve(context.Background(), testRef))
	assert.Equal(t, []string{
		"https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg",
		"https://i.ytimg.com/vi/dQw4w9WgXcQ/0.jpg",
	}, g.calls)
}

func TestResolve_ContentTypeFromFormat(t *testing.T) {
	url := "https://i.ytimg.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"
	g := &fakeGetter{resp: map[string]*fetch.Response{
		url: {URL: url, StatusCode: http.StatusOK, Body: jpegBytes(t, 4, 4)},
	}}

	term := terminals(collect(t, NewResolver(g, "").Resolve(context.Background(), testRef)))
	require.Len(t, term, 1)
	assert.Equal(t, "image/jpeg", term[0].Asset.ContentType)
	assert.Len(t, g.calls, 1)
}
