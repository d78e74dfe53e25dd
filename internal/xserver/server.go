// Package xserver is the set of primitive display-server operations the
// engine is built on, and their implementation over the X11 protocol.
package xserver

import (
	"github.com/drummonds/rasterx/internal/visual"
)

// Screen is what negotiation needs to know about the default screen.
type Screen struct {
	Number          int
	Root            uint32
	DefaultColormap uint32
	DefaultDepth    uint8
	DefaultVisual   visual.Visual
	Visuals         []visual.Visual
	Width, Height   int
}

// ByteOrder of multi-byte pixels in image data.
type ByteOrder uint8

const (
	LSBFirst ByteOrder = 0
	MSBFirst ByteOrder = 1
)

func (o ByteOrder) String() string {
	if o == MSBFirst {
		return "MSBFirst"
	}
	return "LSBFirst"
}

// ImageLayout is the client-side memory layout of a ZPixmap image.
type ImageLayout struct {
	BitsPerPixel int
	Stride       int // bytes per row, including scanline padding
	ByteOrder    ByteOrder
}

// ZPixmap is the image format id used for every image this engine creates.
const ZPixmap = 2

// ShmInfo is the server's answer to an MIT-SHM version query.
type ShmInfo struct {
	Present       bool
	Major, Minor  int
	SharedPixmaps bool
	PixmapFormat  int
}

// Atoms interned once per connection.
type Atoms struct {
	WMProtocols    uint32
	WMDeleteWindow uint32
}

// AllEventsMask selects every core event kind on a window.
const AllEventsMask = 0xFFFFFF

// WindowSpec describes a top-level window to create.
type WindowSpec struct {
	Parent        uint32
	Width, Height int
	Depth         uint8
	Visual        uint32
	Colormap      uint32
	BackPixel     uint32
	BorderPixel   uint32
	EventMask     uint32
}

// Size hint flags, as in WM_NORMAL_HINTS.
const (
	SizeHintUSPosition = 1 << iota
	SizeHintUSSize
	SizeHintPPosition
	SizeHintPSize
	SizeHintPMinSize
	SizeHintPMaxSize
)

// SizeHints is the geometry part of WM_NORMAL_HINTS.
type SizeHints struct {
	Flags               uint
	Width, Height       int
	MinWidth, MinHeight int
	MaxWidth, MaxHeight int
}

// GX drawing functions.
const (
	GXclear = 0x0
	GXcopy  = 0x3
)

// GCValues configures a new graphics context.
type GCValues struct {
	Function   uint32
	PlaneMask  uint32
	Foreground uint32
}

// ErrorHandler receives protocol errors that are not tied to a reply.
type ErrorHandler func(err error)

// Server is the primitive operation set. All ids are server resource ids.
// Implementations are not safe for concurrent use.
type Server interface {
	// Target is the effective display name the connection was opened with.
	Target() string
	Screen() Screen
	Atoms() Atoms
	ImageLayout(depth uint8, width int) ImageLayout

	CreateColormap(visualID uint32) (uint32, error)
	FreeColormap(cmap uint32)

	QueryShm() ShmInfo
	// AttachSegment asks the server to map a SysV segment. Attach failures
	// are reported to the installed ErrorHandler, not returned.
	AttachSegment(shmid int, readOnly bool) (uint32, error)
	DetachSegment(seg uint32)
	CreateShmPixmap(seg uint32, width, height int, depth uint8) (uint32, error)
	ShmPutImage(dst, gc, seg uint32, width, height int, depth uint8)

	CreatePixmap(width, height int, depth uint8) (uint32, error)
	FreePixmap(pix uint32)
	PutImage(dst, gc uint32, data []byte, stride, width, height int, depth uint8)
	CopyArea(src, dst, gc uint32, width, height, x, y int)

	CreateWindow(spec WindowSpec) (uint32, error)
	DestroyWindow(win uint32)
	ClearWindow(win uint32)
	NormalHints(win uint32) (SizeHints, error)
	SetNormalHints(win uint32, hints SizeHints) error
	SetTitle(win uint32, title string) error
	EnableCloseProtocol(win uint32) error
	MapRaised(win uint32) error

	CreateGC(drawable uint32, values GCValues) (uint32, error)
	FreeGC(gc uint32)

	// NextEvent blocks until an event is available.
	NextEvent() (Event, error)
	// Pending reports whether NextEvent would return without blocking.
	Pending() bool
	// WindowEvent blocks until an event of kind for win arrives. Other
	// events read meanwhile stay queued in order.
	WindowEvent(win uint32, kind EventKind) (Event, error)
	// PutBack pushes ev to the head of the queue.
	PutBack(ev Event)

	// SetErrorHandler installs h and returns the previous handler.
	SetErrorHandler(h ErrorHandler) ErrorHandler
	Flush()
	Sync() error

	PointerPosition(win uint32) (x, y int, err error)
	WarpPointer(win uint32, x, y int)
	SetCursorVisible(win uint32, visible bool) error
	SetKeyAutoRepeat(on bool) error

	Close() error
}
