// Package engine negotiates a visual with the X server, manages windows
// and off-screen images, and dispatches events to per-window hooks from a
// single-threaded run loop.
package engine

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/drummonds/rasterx/internal/logger"
	"github.com/drummonds/rasterx/internal/sysvshm"
	"github.com/drummonds/rasterx/internal/visual"
	"github.com/drummonds/rasterx/internal/xserver"
)

// SharedSegment is a shared memory segment mapped into this process.
type SharedSegment interface {
	ID() int
	Bytes() []byte
	// Remove marks the segment for deletion once every mapping is gone.
	Remove() error
	// Detach unmaps it from this process.
	Detach() error
}

// SegmentAllocator creates a SharedSegment of at least size bytes.
type SegmentAllocator func(size int) (SharedSegment, error)

func allocSysV(size int) (SharedSegment, error) {
	seg, err := sysvshm.Create(size)
	if err != nil {
		return nil, err
	}
	return seg, nil
}

type Options struct {
	// Display overrides $DISPLAY.
	Display string
	// DisableShm forces the plain image path.
	DisableShm bool
	// FlushOnDestroy flushes the connection after destroying a window or
	// image and after each blit.
	FlushOnDestroy bool
	// Hostname is compared against the display target to detect a remote
	// server. Empty means os.Hostname.
	Hostname     string
	AllocSegment SegmentAllocator
	Logger       *log.Logger
}

// DefaultOptions enables shared memory and flushing on destroy.
func DefaultOptions() Options {
	return Options{FlushOnDestroy: true}
}

// Connection is the negotiated session with one X server.
type Connection struct {
	srv    xserver.Server
	log    *log.Logger
	screen xserver.Screen
	atoms  xserver.Atoms

	sel      visual.Selection
	colormap uint32
	layout   visual.Layout
	shm      ShmCapability

	flushOnDestroy bool
	allocSegment   SegmentAllocator

	windows map[uint32]*Window

	state    LoopState
	loopHook loopSlot

	closed bool
}

// Open connects to the X server named by opts.Display.
func Open(opts Options) (*Connection, error) {
	srv, err := xserver.Dial(opts.Display)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDisplayUnavailable, err)
	}
	return OpenServer(srv, opts)
}

// OpenServer negotiates over an already open Server and takes ownership
// of it: srv is closed if negotiation fails.
func OpenServer(srv xserver.Server, opts Options) (*Connection, error) {
	c := &Connection{
		srv:            srv,
		log:            opts.Logger,
		screen:         srv.Screen(),
		atoms:          srv.Atoms(),
		flushOnDestroy: opts.FlushOnDestroy,
		allocSegment:   opts.AllocSegment,
		windows:        make(map[uint32]*Window),
		shm:            ShmCapability{PixmapFormat: -1},
	}
	if c.log == nil {
		c.log = logger.Logger
	}
	if c.allocSegment == nil {
		c.allocSegment = allocSysV
	}
	srv.SetErrorHandler(c.logProtocolError)

	sel, ok := visual.Select(c.screen.DefaultVisual, c.screen.Visuals, c.screen.DefaultDepth)
	if !ok {
		c.log.Error("no TrueColor visual available",
			"default", c.screen.DefaultVisual.Class, "depth", c.screen.DefaultDepth)
		srv.Close()
		return nil, ErrNoTrueColorVisual
	}
	c.sel = sel
	c.layout = visual.NewLayout(sel.Visual)

	if !opts.DisableShm {
		hostname := opts.Hostname
		if hostname == "" {
			hostname, _ = os.Hostname()
		}
		c.shm = Probe(srv, hostname)
	}

	c.colormap = c.screen.DefaultColormap
	if sel.PrivateColormap {
		cmap, err := srv.CreateColormap(sel.Visual.ID)
		if err != nil {
			srv.Close()
			return nil, fmt.Errorf("%w: colormap: %v", ErrDisplayUnavailable, err)
		}
		c.colormap = cmap
	}

	c.log.Debug("negotiated visual",
		"target", srv.Target(),
		"visual", sel.Visual.ID,
		"class", sel.Visual.Class,
		"depth", sel.Visual.Depth,
		"private_colormap", sel.PrivateColormap,
		"shm", c.shm.Usable,
		"shm_pixmap_format", c.shm.PixmapFormat)
	return c, nil
}

func (c *Connection) logProtocolError(err error) {
	c.log.Warn("X protocol error", "err", err)
}

// Close destroys every live window, frees a private colormap and closes
// the server connection. Calling it again does nothing.
func (c *Connection) Close() {
	if c.closed {
		return
	}
	for _, w := range c.windows {
		w.Destroy()
	}
	if c.sel.PrivateColormap {
		c.srv.FreeColormap(c.colormap)
	}
	c.srv.Close()
	c.closed = true
	c.state = Idle
}

func (c *Connection) Closed() bool { return c.closed }

// Server exposes the underlying primitive operations.
func (c *Connection) Server() xserver.Server { return c.srv }

func (c *Connection) Visual() visual.Visual    { return c.sel.Visual }
func (c *Connection) Depth() uint8             { return c.sel.Visual.Depth }
func (c *Connection) Colormap() uint32         { return c.colormap }
func (c *Connection) PrivateColormap() bool    { return c.sel.PrivateColormap }
func (c *Connection) Layout() visual.Layout    { return c.layout }
func (c *Connection) Shm() ShmCapability       { return c.shm }
func (c *Connection) Screen() xserver.Screen   { return c.screen }
func (c *Connection) FlushOnDestroy() bool     { return c.flushOnDestroy }
func (c *Connection) SetFlushOnDestroy(b bool) { c.flushOnDestroy = b }

// ColorValue packs an RGB triple into a pixel word for the negotiated
// visual.
func (c *Connection) ColorValue(r, g, b uint8) uint32 {
	return c.layout.Pack(r, g, b)
}

// ScreenSize is the size of the default screen in pixels.
func (c *Connection) ScreenSize() (width, height int) {
	return c.screen.Width, c.screen.Height
}

func (c *Connection) Flush() {
	if !c.closed {
		c.srv.Flush()
	}
}

// Sync waits until the server has processed every request sent so far.
func (c *Connection) Sync() error {
	if c.closed {
		return ErrClosed
	}
	return c.srv.Sync()
}

// SetKeyAutoRepeat turns server-wide key auto repeat on or off.
func (c *Connection) SetKeyAutoRepeat(on bool) error {
	if c.closed {
		return ErrClosed
	}
	return c.srv.SetKeyAutoRepeat(on)
}

func (c *Connection) flushIfEnabled() {
	if c.flushOnDestroy {
		c.srv.Flush()
	}
}
