package coordinator

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/ytget/yt-thumbnail-grabber/internal/logging"
	"github.com/ytget/yt-thumbnail-grabber/internal/model"
	"github.com/ytget/yt-thumbnail-grabber/internal/page"
	"github.com/ytget/yt-thumbnail-grabber/internal/platform"
	"github.com/ytget/yt-thumbnail-grabber/internal/thumbnail"
)

// ThumbnailResolver streams the thumbnail of a video
type ThumbnailResolver interface {
	Resolve(ctx context.Context, ref model.VideoReference) <-chan thumbnail.Event
}

// PageResolver creates the lazily fetched metadata record of a video
type PageResolver interface {
	Resolve(ref model.VideoReference) *page.Metadata
}

// PlaylistResolver lists the members of a playlist
type PlaylistResolver interface {
	Resolve(ctx context.Context, rawURL string) (*model.PlaylistMetadata, error)
}

// Saver persists thumbnail bytes
type Saver interface {
	Save(data []byte, path string) error
}

// resolution is one request for the current slot
type resolution struct {
	gen  uint64
	id   string
	ref  model.VideoReference
	meta *page.Metadata
	log  *logrus.Entry

	done chan struct{}
}

// Coordinator handles resolution requests for the single displayed video
type Coordinator struct {
	thumbs    ThumbnailResolver
	pages     PageResolver
	playlists PlaylistResolver
	saver     Saver
	settings  model.SettingsView
	log       *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc

	generation  atomic.Uint64
	playlistGen atomic.Uint64

	mu       sync.Mutex
	current  *resolution
	asset    *model.ThumbnailAsset
	onUpdate func(Update)
}

// New creates a coordinator. settings and saver may be nil, which disables
// auto save and clipboard loading.
func New(thumbs ThumbnailResolver, pages PageResolver, playlists PlaylistResolver, saver Saver, settings model.SettingsView) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		thumbs:    thumbs,
		pages:     pages,
		playlists: playlists,
		saver:     saver,
		settings:  settings,
		log:       logging.WithComponent("coordinator"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// SetUpdateCallback sets the callback function for resolution updates.
// It is called from worker goroutines.
func (c *Coordinator) SetUpdateCallback(callback func(Update)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUpdate = callback
}

// Close abandons in-flight work
func (c *Coordinator) Close() {
	c.cancel()
}

// Generation returns the generation of the current resolution
func (c *Coordinator) Generation() uint64 {
	return c.generation.Load()
}

// IsStale reports whether u belongs to a resolution that has since been
// superseded. Callers that apply updates later, such as on a UI goroutine,
// check again at that point.
func (c *Coordinator) IsStale(u Update) bool {
	return u.Kind.ResolutionScoped() && u.Generation != c.generation.Load()
}

// Current returns the displayed video, zero when nothing was requested yet
func (c *Coordinator) Current() model.VideoReference {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return model.VideoReference{}
	}
	return c.current.ref
}

// CurrentMetadata returns the metadata record of the displayed video
func (c *Coordinator) CurrentMetadata() *page.Metadata {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	return c.current.meta
}

// CurrentAsset returns the thumbnail of the displayed video once resolved
func (c *Coordinator) CurrentAsset() *model.ThumbnailAsset {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.asset
}

// RequestResolution decodes HTML entities in raw and starts resolving it.
// A playlist link fans out to its members in order. It returns false when
// raw is neither a playlist nor a video link, or names the displayed video.
func (c *Coordinator) RequestResolution(raw string) bool {
	input := strings.TrimSpace(html.UnescapeString(raw))

	if platform.ValidatePlaylistURL(input) {
		pgen := c.playlistGen.Add(1)
		go c.resolvePlaylist(pgen, input)
		return true
	}

	ref, err := model.NewVideoReference(input)
	if err != nil {
		c.log.WithField("input", input).Debug("Ignoring input without video id")
		return false
	}

	res, ok := c.begin(ref)
	if !ok {
		c.log.WithField("video_id", ref.ID().String()).Debug("Video already displayed")
		return false
	}
	c.playlistGen.Add(1)
	c.start(res)
	return true
}

// begin makes ref current and invalidates every earlier resolution
func (c *Coordinator) begin(ref model.VideoReference) (*resolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && c.current.ref.Equal(ref) {
		return nil, false
	}

	res := &resolution{
		gen:  c.generation.Add(1),
		id:   newResolutionID(),
		ref:  ref,
		meta: c.pages.Resolve(ref),
		done: make(chan struct{}),
	}
	res.log = logging.WithResolution(c.log, res.id, res.gen).WithField("video_id", ref.ID().String())
	c.current = res
	c.asset = nil
	return res, true
}

func newResolutionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// start runs the thumbnail and page resolutions. done is closed when the
// thumbnail is final and saved.
func (c *Coordinator) start(res *resolution) {
	res.log.Info("Resolution started")
	go c.runThumbnail(res)
	go c.runPage(res)
}

func (c *Coordinator) isCurrent(gen uint64) bool {
	return gen == c.generation.Load()
}

// emit delivers u for res unless res has been superseded
func (c *Coordinator) emit(res *resolution, u Update) bool {
	if !c.isCurrent(res.gen) {
		res.log.WithField("kind", u.Kind.String()).Debug("Dropping stale update")
		return false
	}
	u.Generation = res.gen
	u.ResolutionID = res.id
	u.Ref = res.ref
	c.notify(u)
	return true
}

func (c *Coordinator) notify(u Update) {
	c.mu.Lock()
	callback := c.onUpdate
	c.mu.Unlock()
	if callback != nil {
		callback(u)
	}
}

func (c *Coordinator) runThumbnail(res *resolution) {
	defer close(res.done)

	for ev := range c.thumbs.Resolve(c.ctx, res.ref) {
		switch ev.Kind {
		case thumbnail.EventProgress:
			c.emit(res, Update{Kind: KindProgress, Tier: ev.Tier, Percent: ev.Percent})
		case thumbnail.EventSuccess:
			c.mu.Lock()
			if c.isCurrent(res.gen) {
				c.asset = ev.Asset
			}
			c.mu.Unlock()
			if c.emit(res, Update{Kind: KindThumbnailReady, Tier: ev.Tier, Percent: 100, Asset: ev.Asset}) {
				c.autoSave(res, ev.Asset)
			}
		case thumbnail.EventFailure:
			res.log.WithError(ev.Err).Warn("Thumbnail failed")
			c.emit(res, Update{Kind: KindThumbnailFailed, Err: ev.Err})
		}
	}
}

func (c *Coordinator) runPage(res *resolution) {
	summary := res.meta.Summarize(c.settings)
	if err := summary.Err(); err != nil {
		res.log.WithError(err).Warn("Page metadata incomplete")
	}
	if !c.emit(res, Update{Kind: KindMetadataReady, Summary: &summary, Err: summary.Err()}) {
		return
	}

	select {
	case <-res.meta.IconReady():
	case <-c.ctx.Done():
		return
	}
	icon, err := res.meta.ChannelIcon()
	c.emit(res, Update{Kind: KindIconReady, Icon: icon, Err: err})
}

func (c *Coordinator) autoSave(res *resolution, asset *model.ThumbnailAsset) {
	if c.settings == nil || !c.settings.AutoSaveImages() {
		return
	}
	path, err := c.save(res, asset)
	if err != nil {
		res.log.WithError(err).Error("Auto save failed")
		c.emit(res, Update{Kind: KindSaveFailed, Path: path, Err: err})
		return
	}
	c.emit(res, Update{Kind: KindSaved, Path: path})
}

// save writes asset under the configured name. Channel and title are read
// only when the naming mode needs them.
func (c *Coordinator) save(res *resolution, asset *model.ThumbnailAsset) (string, error) {
	var channel, title string
	if c.settings.FileNamingMode() == model.NamingChannelTitle {
		if info, err := res.meta.Channel(); err == nil {
			channel = info.Name
		}
		title, _ = res.meta.Title()
	}
	path := platform.ThumbnailFileName(c.settings, res.ref, channel, title)
	if c.saver == nil {
		return path, &model.WriteError{Path: path, Err: errNoSaver}
	}
	if err := c.saver.Save(asset.Bytes, path); err != nil {
		return path, err
	}
	res.log.WithField("path", path).Info("Thumbnail saved")
	return path, nil
}

// SaveCurrent saves the displayed thumbnail and returns its path
func (c *Coordinator) SaveCurrent() (string, error) {
	c.mu.Lock()
	res, asset := c.current, c.asset
	c.mu.Unlock()

	if res == nil || asset == nil {
		return "", errNothingToSave
	}
	if c.settings == nil {
		return "", errNoSettings
	}
	return c.save(res, asset)
}
