// Package platform contains OS integration and external glue: saving
// thumbnails to disk, opening URLs and files with the system handler,
// resolving well known user directories, and playlist resolution through
// either the playlist page or the ytdlp library.
package platform
