package engine

import (
	"fmt"

	"github.com/drummonds/rasterx/internal/xserver"
)

// Window is a top-level window of fixed size.
type Window struct {
	conn          *Connection
	id, gc        uint32
	width, height int
	title         string

	hooks  [xserver.LastEvent]hookSlot
	mouse  mouseSlot
	key    keySlot
	expose exposeSlot

	destroyed bool
}

// NewWindow creates, maps and raises a width by height window and returns
// once the server has sent its first Expose. That Expose is put back on
// the queue for the run loop. The window cannot be resized by the user.
func (c *Connection) NewWindow(width, height int, title string) (*Window, error) {
	if c.closed {
		return nil, fmt.Errorf("%w: %v", ErrWindowCreationFailed, ErrClosed)
	}
	if width <= 0 || height <= 0 || width > 0xffff || height > 0xffff {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrWindowCreationFailed, width, height)
	}

	id, err := c.srv.CreateWindow(xserver.WindowSpec{
		Parent:    c.screen.Root,
		Width:     width,
		Height:    height,
		Depth:     c.Depth(),
		Visual:    c.sel.Visual.ID,
		Colormap:  c.colormap,
		EventMask: xserver.AllEventsMask,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWindowCreationFailed, err)
	}

	w := &Window{conn: c, id: id, width: width, height: height, title: title}
	if err := w.setup(); err != nil {
		if w.gc != 0 {
			c.srv.FreeGC(w.gc)
		}
		c.srv.DestroyWindow(id)
		return nil, fmt.Errorf("%w: %v", ErrWindowCreationFailed, err)
	}
	c.windows[id] = w

	if err := c.srv.MapRaised(id); err != nil {
		w.Destroy()
		return nil, fmt.Errorf("%w: map: %v", ErrWindowCreationFailed, err)
	}
	ev, err := c.srv.WindowEvent(id, xserver.Expose)
	if err != nil {
		w.Destroy()
		return nil, fmt.Errorf("%w: waiting for expose: %v", ErrWindowCreationFailed, err)
	}
	c.srv.PutBack(ev)

	c.log.Debug("window created", "id", id, "width", width, "height", height, "title", title)
	return w, nil
}

func (w *Window) setup() error {
	srv := w.conn.srv
	hints := xserver.SizeHints{
		Flags:     xserver.SizeHintPPosition | xserver.SizeHintPSize | xserver.SizeHintPMinSize | xserver.SizeHintPMaxSize,
		Width:     w.width,
		Height:    w.height,
		MinWidth:  w.width,
		MinHeight: w.height,
		MaxWidth:  w.width,
		MaxHeight: w.height,
	}
	if err := srv.SetNormalHints(w.id, hints); err != nil {
		return fmt.Errorf("size hints: %w", err)
	}
	if err := srv.SetTitle(w.id, w.title); err != nil {
		return fmt.Errorf("title: %w", err)
	}
	if err := srv.EnableCloseProtocol(w.id); err != nil {
		return fmt.Errorf("close protocol: %w", err)
	}
	gc, err := srv.CreateGC(w.id, xserver.GCValues{
		Function:   xserver.GXcopy,
		PlaneMask:  0xFFFFFFFF,
		Foreground: 0xFFFFFFFF,
	})
	if err != nil {
		return fmt.Errorf("gc: %w", err)
	}
	w.gc = gc
	w.hooks[CloseEvent] = hookSlot{fn: StopLoop, param: w.conn}
	return nil
}

// Destroy frees the GC and the window. Later calls do nothing.
func (w *Window) Destroy() {
	if w == nil || w.destroyed {
		return
	}
	w.destroyed = true
	c := w.conn
	delete(c.windows, w.id)
	if c.closed {
		return
	}
	c.srv.FreeGC(w.gc)
	c.srv.DestroyWindow(w.id)
	c.flushIfEnabled()
	w.gc = 0
}

func (w *Window) Destroyed() bool { return w.destroyed }
func (w *Window) ID() uint32      { return w.id }
func (w *Window) Width() int      { return w.width }
func (w *Window) Height() int     { return w.height }
func (w *Window) Title() string   { return w.title }

// SizeHints reads the window's WM_NORMAL_HINTS back from the server.
func (w *Window) SizeHints() (xserver.SizeHints, error) {
	if w.destroyed || w.conn.closed {
		return xserver.SizeHints{}, ErrClosed
	}
	return w.conn.srv.NormalHints(w.id)
}

// Clear repaints the whole window with its background.
func (w *Window) Clear() {
	if w.destroyed || w.conn.closed {
		return
	}
	w.conn.srv.ClearWindow(w.id)
	w.conn.flushIfEnabled()
}

// MousePosition is the pointer position relative to the window.
func (w *Window) MousePosition() (x, y int, err error) {
	if w.destroyed || w.conn.closed {
		return 0, 0, ErrClosed
	}
	return w.conn.srv.PointerPosition(w.id)
}

// MoveMouse warps the pointer to (x, y) in the window.
func (w *Window) MoveMouse(x, y int) {
	if w.destroyed || w.conn.closed {
		return
	}
	w.conn.srv.WarpPointer(w.id, x, y)
	w.conn.flushIfEnabled()
}

func (w *Window) HideMouse() error { return w.setCursorVisible(false) }
func (w *Window) ShowMouse() error { return w.setCursorVisible(true) }

func (w *Window) setCursorVisible(visible bool) error {
	if w.destroyed || w.conn.closed {
		return ErrClosed
	}
	return w.conn.srv.SetCursorVisible(w.id, visible)
}
