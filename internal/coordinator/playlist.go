package coordinator

import (
	"github.com/ytget/yt-thumbnail-grabber/internal/logging"
	"github.com/ytget/yt-thumbnail-grabber/internal/model"
)

// resolvePlaylist lists the playlist and resolves each member in order,
// waiting for one member's thumbnail before making the next one current.
// A newer request abandons the remaining members.
func (c *Coordinator) resolvePlaylist(pgen uint64, rawURL string) {
	log := c.log.WithFields(logging.Fields{"playlist_url": rawURL})
	if c.playlists == nil {
		return
	}

	playlist, err := c.playlists.Resolve(c.ctx, rawURL)
	if pgen != c.playlistGen.Load() {
		log.Debug("Dropping stale playlist")
		return
	}
	if err != nil {
		log.WithError(err).Warn("Playlist resolution failed")
		c.notify(Update{Kind: KindPlaylistFailed, Generation: c.generation.Load(), Err: err})
		c.resolveLinkedVideo(pgen, rawURL)
		return
	}
	c.notify(Update{Kind: KindPlaylistResolved, Generation: c.generation.Load(), Playlist: playlist})
	if playlist.IsEmpty() {
		log.Info("Playlist has no members")
		c.resolveLinkedVideo(pgen, rawURL)
		return
	}
	log.WithField("videos", playlist.TotalVideos()).Info("Resolving playlist members")

	for _, ref := range playlist.Videos {
		if pgen != c.playlistGen.Load() {
			log.Debug("Playlist superseded")
			return
		}
		res, ok := c.begin(ref)
		if !ok {
			continue
		}
		c.start(res)
		select {
		case <-res.done:
		case <-c.ctx.Done():
			return
		}
	}
}

// resolveLinkedVideo shows the video of a watch link that also names a
// playlist, for when the playlist yields nothing
func (c *Coordinator) resolveLinkedVideo(pgen uint64, rawURL string) {
	ref, err := model.NewVideoReference(rawURL)
	if err != nil || pgen != c.playlistGen.Load() {
		return
	}
	if res, ok := c.begin(ref); ok {
		c.start(res)
	}
}
