package xserver

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/shm"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/drummonds/rasterx/internal/visual"
)

// ErrConnectionClosed is returned by the event calls once the X
// connection has gone away.
var ErrConnectionClosed = errors.New("xserver: connection closed")

// Conn is a Server speaking the X11 protocol through xgb.
type Conn struct {
	X      *xgb.Conn
	xu     *xgbutil.XUtil
	setup  *xproto.SetupInfo
	screen Screen
	atoms  Atoms
	target string

	queue   []Event
	onError ErrorHandler

	shmInit     bool
	blankCursor xproto.Cursor
}

var _ Server = (*Conn)(nil)

// Dial opens a connection to display, or $DISPLAY when display is empty.
func Dial(display string) (*Conn, error) {
	X, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	xu, err := xgbutil.NewConnXgb(X)
	if err != nil {
		X.Close()
		return nil, err
	}
	keybind.Initialize(xu)

	target := display
	if target == "" {
		target = os.Getenv("DISPLAY")
	}

	c := &Conn{
		X:      X,
		xu:     xu,
		setup:  xproto.Setup(X),
		target: target,
	}
	c.screen = c.readScreen()

	protocols, err := xprop.Atm(xu, "WM_PROTOCOLS")
	if err != nil {
		X.Close()
		return nil, err
	}
	deleteWindow, err := xprop.Atm(xu, "WM_DELETE_WINDOW")
	if err != nil {
		X.Close()
		return nil, err
	}
	c.atoms = Atoms{WMProtocols: uint32(protocols), WMDeleteWindow: uint32(deleteWindow)}

	return c, nil
}

func (c *Conn) readScreen() Screen {
	si := c.setup.DefaultScreen(c.X)
	s := Screen{
		Number:          c.X.DefaultScreen,
		Root:            uint32(si.Root),
		DefaultColormap: uint32(si.DefaultColormap),
		DefaultDepth:    si.RootDepth,
		Width:           int(si.WidthInPixels),
		Height:          int(si.HeightInPixels),
	}
	for _, d := range si.AllowedDepths {
		for _, v := range d.Visuals {
			vis := visual.Visual{
				ID:        uint32(v.VisualId),
				Class:     visual.Class(v.Class),
				Depth:     d.Depth,
				RedMask:   v.RedMask,
				GreenMask: v.GreenMask,
				BlueMask:  v.BlueMask,
			}
			if v.VisualId == si.RootVisual {
				s.DefaultVisual = vis
			}
			s.Visuals = append(s.Visuals, vis)
		}
	}
	return s
}

func (c *Conn) Target() string { return c.target }
func (c *Conn) Screen() Screen { return c.screen }
func (c *Conn) Atoms() Atoms   { return c.atoms }

// ImageLayout derives bits per pixel and scanline padding from the
// server's pixmap formats, the way XCreateImage does.
func (c *Conn) ImageLayout(depth uint8, width int) ImageLayout {
	bpp, pad := 32, 32
	for _, f := range c.setup.PixmapFormats {
		if f.Depth == depth {
			bpp, pad = int(f.BitsPerPixel), int(f.ScanlinePad)
			break
		}
	}
	return ImageLayout{
		BitsPerPixel: bpp,
		Stride:       stride(width, bpp, pad),
		ByteOrder:    ByteOrder(c.setup.ImageByteOrder),
	}
}

func stride(width, bpp, pad int) int {
	if pad <= 0 {
		pad = 8
	}
	bits := width * bpp
	return ((bits + pad - 1) / pad) * pad / 8
}

func (c *Conn) CreateColormap(visualID uint32) (uint32, error) {
	cmap, err := xproto.NewColormapId(c.X)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateColormapChecked(c.X, xproto.ColormapAllocNone, cmap,
		xproto.Window(c.screen.Root), xproto.Visualid(visualID)).Check()
	if err != nil {
		return 0, err
	}
	return uint32(cmap), nil
}

func (c *Conn) FreeColormap(cmap uint32) {
	xproto.FreeColormap(c.X, xproto.Colormap(cmap))
}

func (c *Conn) QueryShm() ShmInfo {
	if !c.shmInit {
		if err := shm.Init(c.X); err != nil {
			return ShmInfo{}
		}
		c.shmInit = true
	}
	r, err := shm.QueryVersion(c.X).Reply()
	if err != nil {
		return ShmInfo{}
	}
	return ShmInfo{
		Present:       true,
		Major:         int(r.MajorVersion),
		Minor:         int(r.MinorVersion),
		SharedPixmaps: r.SharedPixmaps,
		PixmapFormat:  int(r.PixmapFormat),
	}
}

func (c *Conn) AttachSegment(shmid int, readOnly bool) (uint32, error) {
	if !c.shmInit {
		return 0, errors.New("xserver: MIT-SHM not initialised")
	}
	seg, err := shm.NewSegId(c.X)
	if err != nil {
		return 0, err
	}
	if err := shm.AttachChecked(c.X, seg, uint32(shmid), readOnly).Check(); err != nil {
		c.raise(err)
	}
	return uint32(seg), nil
}

func (c *Conn) DetachSegment(seg uint32) {
	shm.Detach(c.X, shm.Seg(seg))
}

func (c *Conn) CreateShmPixmap(seg uint32, width, height int, depth uint8) (uint32, error) {
	pix, err := xproto.NewPixmapId(c.X)
	if err != nil {
		return 0, err
	}
	err = shm.CreatePixmapChecked(c.X, pix, xproto.Drawable(c.screen.Root),
		uint16(width), uint16(height), depth, shm.Seg(seg), 0).Check()
	if err != nil {
		return 0, err
	}
	return uint32(pix), nil
}

func (c *Conn) ShmPutImage(dst, gc, seg uint32, width, height int, depth uint8) {
	shm.PutImage(c.X, xproto.Drawable(dst), xproto.Gcontext(gc),
		uint16(width), uint16(height), 0, 0, uint16(width), uint16(height), 0, 0,
		depth, xproto.ImageFormatZPixmap, 0, shm.Seg(seg), 0)
}

func (c *Conn) CreatePixmap(width, height int, depth uint8) (uint32, error) {
	pix, err := xproto.NewPixmapId(c.X)
	if err != nil {
		return 0, err
	}
	err = xproto.CreatePixmapChecked(c.X, depth, pix, xproto.Drawable(c.screen.Root),
		uint16(width), uint16(height)).Check()
	if err != nil {
		return 0, err
	}
	return uint32(pix), nil
}

func (c *Conn) FreePixmap(pix uint32) {
	xproto.FreePixmap(c.X, xproto.Pixmap(pix))
}

// PutImage uploads data in bands of rows small enough for the server's
// maximum request length.
func (c *Conn) PutImage(dst, gc uint32, data []byte, stride, width, height int, depth uint8) {
	const header = 24
	maxBytes := int(c.setup.MaximumRequestLength)*4 - header
	rows := 1
	if stride > 0 && maxBytes > stride {
		rows = maxBytes / stride
	}
	for y := 0; y < height; y += rows {
		n := min(rows, height-y)
		xproto.PutImage(c.X, xproto.ImageFormatZPixmap, xproto.Drawable(dst), xproto.Gcontext(gc),
			uint16(width), uint16(n), 0, int16(y), 0, depth, data[y*stride:(y+n)*stride])
	}
}

func (c *Conn) CopyArea(src, dst, gc uint32, width, height, x, y int) {
	xproto.CopyArea(c.X, xproto.Drawable(src), xproto.Drawable(dst), xproto.Gcontext(gc),
		0, 0, int16(x), int16(y), uint16(width), uint16(height))
}

func (c *Conn) CreateWindow(spec WindowSpec) (uint32, error) {
	wid, err := xproto.NewWindowId(c.X)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateWindowChecked(c.X, spec.Depth, wid, xproto.Window(spec.Parent),
		0, 0, uint16(spec.Width), uint16(spec.Height), 0,
		xproto.WindowClassInputOutput, xproto.Visualid(spec.Visual),
		xproto.CwBackPixel|xproto.CwBorderPixel|xproto.CwEventMask|xproto.CwColormap,
		[]uint32{spec.BackPixel, spec.BorderPixel, spec.EventMask, spec.Colormap}).Check()
	if err != nil {
		return 0, err
	}
	return uint32(wid), nil
}

func (c *Conn) DestroyWindow(win uint32) {
	xproto.DestroyWindow(c.X, xproto.Window(win))
}

func (c *Conn) ClearWindow(win uint32) {
	xproto.ClearArea(c.X, false, xproto.Window(win), 0, 0, 0, 0)
}

func (c *Conn) NormalHints(win uint32) (SizeHints, error) {
	nh, err := icccm.WmNormalHintsGet(c.xu, xproto.Window(win))
	if err != nil {
		return SizeHints{}, err
	}
	return SizeHints{
		Flags:     nh.Flags,
		Width:     int(nh.Width),
		Height:    int(nh.Height),
		MinWidth:  int(nh.MinWidth),
		MinHeight: int(nh.MinHeight),
		MaxWidth:  int(nh.MaxWidth),
		MaxHeight: int(nh.MaxHeight),
	}, nil
}

func (c *Conn) SetNormalHints(win uint32, hints SizeHints) error {
	return icccm.WmNormalHintsSet(c.xu, xproto.Window(win), &icccm.NormalHints{
		Flags:     hints.Flags,
		Width:     uint(hints.Width),
		Height:    uint(hints.Height),
		MinWidth:  uint(hints.MinWidth),
		MinHeight: uint(hints.MinHeight),
		MaxWidth:  uint(hints.MaxWidth),
		MaxHeight: uint(hints.MaxHeight),
	})
}

// SetTitle sets both WM_NAME and _NET_WM_NAME.
func (c *Conn) SetTitle(win uint32, title string) error {
	if err := icccm.WmNameSet(c.xu, xproto.Window(win), title); err != nil {
		return err
	}
	return ewmh.WmNameSet(c.xu, xproto.Window(win), title)
}

func (c *Conn) EnableCloseProtocol(win uint32) error {
	return icccm.WmProtocolsSet(c.xu, xproto.Window(win), []string{"WM_DELETE_WINDOW"})
}

func (c *Conn) MapRaised(win uint32) error {
	if err := xproto.MapWindowChecked(c.X, xproto.Window(win)).Check(); err != nil {
		return err
	}
	xproto.ConfigureWindow(c.X, xproto.Window(win), xproto.ConfigWindowStackMode,
		[]uint32{xproto.StackModeAbove})
	return nil
}

func (c *Conn) CreateGC(drawable uint32, values GCValues) (uint32, error) {
	gc, err := xproto.NewGcontextId(c.X)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateGCChecked(c.X, gc, xproto.Drawable(drawable),
		xproto.GcFunction|xproto.GcPlaneMask|xproto.GcForeground,
		[]uint32{values.Function, values.PlaneMask, values.Foreground}).Check()
	if err != nil {
		return 0, err
	}
	return uint32(gc), nil
}

func (c *Conn) FreeGC(gc uint32) {
	xproto.FreeGC(c.X, xproto.Gcontext(gc))
}

// read blocks for the next event from the wire. Protocol errors are
// handed to the error handler and reading continues.
func (c *Conn) read() (Event, error) {
	for {
		ev, xerr := c.X.WaitForEvent()
		if ev == nil && xerr == nil {
			return Event{}, ErrConnectionClosed
		}
		if xerr != nil {
			c.raise(xerr)
			continue
		}
		return c.convert(ev), nil
	}
}

func (c *Conn) NextEvent() (Event, error) {
	if len(c.queue) > 0 {
		ev := c.queue[0]
		c.queue = c.queue[1:]
		return ev, nil
	}
	return c.read()
}

func (c *Conn) Pending() bool {
	for len(c.queue) == 0 {
		ev, xerr := c.X.PollForEvent()
		if xerr != nil {
			c.raise(xerr)
			continue
		}
		if ev == nil {
			return false
		}
		c.queue = append(c.queue, c.convert(ev))
	}
	return true
}

func (c *Conn) WindowEvent(win uint32, kind EventKind) (Event, error) {
	for i, ev := range c.queue {
		if ev.Window == win && ev.Kind == kind {
			c.queue = append(c.queue[:i:i], c.queue[i+1:]...)
			return ev, nil
		}
	}
	for {
		ev, err := c.read()
		if err != nil {
			return Event{}, err
		}
		if ev.Window == win && ev.Kind == kind {
			return ev, nil
		}
		c.queue = append(c.queue, ev)
	}
}

func (c *Conn) PutBack(ev Event) {
	c.queue = append([]Event{ev}, c.queue...)
}

func (c *Conn) SetErrorHandler(h ErrorHandler) ErrorHandler {
	prev := c.onError
	c.onError = h
	return prev
}

func (c *Conn) raise(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}

// Flush is a no-op: xgb writes each request as it is issued.
func (c *Conn) Flush() {}

// Sync waits for a round trip so every earlier request has been processed.
func (c *Conn) Sync() error {
	_, err := xproto.GetInputFocus(c.X).Reply()
	return err
}

func (c *Conn) PointerPosition(win uint32) (x, y int, err error) {
	r, err := xproto.QueryPointer(c.X, xproto.Window(win)).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(r.WinX), int(r.WinY), nil
}

func (c *Conn) WarpPointer(win uint32, x, y int) {
	xproto.WarpPointer(c.X, xproto.WindowNone, xproto.Window(win), 0, 0, 0, 0, int16(x), int16(y))
}

// SetCursorVisible swaps in a 1x1 empty cursor to hide the pointer, and
// restores the parent's cursor to show it.
func (c *Conn) SetCursorVisible(win uint32, visible bool) error {
	cursor := uint32(0)
	if !visible {
		if c.blankCursor == 0 {
			cur, err := c.newBlankCursor()
			if err != nil {
				return err
			}
			c.blankCursor = cur
		}
		cursor = uint32(c.blankCursor)
	}
	return xproto.ChangeWindowAttributesChecked(c.X, xproto.Window(win),
		xproto.CwCursor, []uint32{cursor}).Check()
}

func (c *Conn) newBlankCursor() (xproto.Cursor, error) {
	pix, err := xproto.NewPixmapId(c.X)
	if err != nil {
		return 0, err
	}
	cur, err := xproto.NewCursorId(c.X)
	if err != nil {
		return 0, err
	}
	xproto.CreatePixmap(c.X, 1, pix, xproto.Drawable(c.screen.Root), 1, 1)
	defer xproto.FreePixmap(c.X, pix)
	err = xproto.CreateCursorChecked(c.X, cur, pix, pix, 0, 0, 0, 0, 0, 0, 0, 0).Check()
	if err != nil {
		return 0, fmt.Errorf("xserver: blank cursor: %w", err)
	}
	return cur, nil
}

func (c *Conn) SetKeyAutoRepeat(on bool) error {
	mode := uint32(xproto.AutoRepeatModeOff)
	if on {
		mode = xproto.AutoRepeatModeOn
	}
	return xproto.ChangeKeyboardControlChecked(c.X, xproto.KbAutoRepeatMode, []uint32{mode}).Check()
}

func (c *Conn) Close() error {
	if c.blankCursor != 0 {
		xproto.FreeCursor(c.X, c.blankCursor)
		c.blankCursor = 0
	}
	c.X.Close()
	return nil
}
