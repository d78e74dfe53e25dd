package engine

import (
	"github.com/drummonds/rasterx/internal/xserver"
)

// ShmCapability is what the MIT-SHM probe found.
type ShmCapability struct {
	Usable bool
	// PixmapFormat is the server's shared pixmap format, or -1 when shared
	// pixmaps are not supported.
	PixmapFormat int
}

// Probe asks the server about MIT-SHM. Shared memory is never used when
// the display target names a host other than hostname or localhost.
func Probe(srv xserver.Server, hostname string) ShmCapability {
	none := ShmCapability{PixmapFormat: -1}
	info := srv.QueryShm()
	if !info.Present {
		return none
	}
	if !xserver.IsLocalTarget(srv.Target(), hostname) {
		return none
	}
	capab := ShmCapability{Usable: true, PixmapFormat: -1}
	if info.SharedPixmaps {
		capab.PixmapFormat = info.PixmapFormat
	}
	return capab
}

// attachSegment maps shmid into the server. Attach errors arrive
// asynchronously, so they are trapped by a temporary error handler and
// collected with a round trip. The previous handler is always restored.
func (c *Connection) attachSegment(shmid int) (uint32, bool) {
	attachFailed := false
	prev := c.srv.SetErrorHandler(func(error) { attachFailed = true })
	defer c.srv.SetErrorHandler(prev)

	seg, err := c.srv.AttachSegment(shmid, false)
	if err != nil {
		return 0, false
	}
	if err := c.srv.Sync(); err != nil {
		return 0, false
	}
	return seg, !attachFailed
}
