package engine

import (
	"github.com/drummonds/rasterx/internal/xserver"
)

// HookFunc handles an event of the kind it was installed for.
type HookFunc func(ev xserver.Event, param any)

// MouseFunc receives the button number and the pointer position.
type MouseFunc func(button, x, y int, param any)

// KeyFunc receives the keysym of the pressed key.
type KeyFunc func(keysym int, param any)

type ExposeFunc func(param any)

type hookSlot struct {
	fn    HookFunc
	param any
}

type mouseSlot struct {
	fn    MouseFunc
	param any
}

type keySlot struct {
	fn    KeyFunc
	param any
}

type exposeSlot struct {
	fn    ExposeFunc
	param any
}

// CloseEvent is the slot a window manager close request is delivered on.
// NewWindow binds it to StopLoop.
const CloseEvent = xserver.DestroyNotify

// StopLoop is a HookFunc that stops the run loop of the *Connection
// passed as param.
func StopLoop(_ xserver.Event, param any) {
	if c, ok := param.(*Connection); ok {
		c.RequestStop()
	}
}

// InstallHook replaces the hook for kind. A nil fn clears the slot.
func (w *Window) InstallHook(kind xserver.EventKind, fn HookFunc, param any) {
	if !kind.Valid() {
		w.conn.log.Debug("ignoring hook for invalid event kind", "kind", kind)
		return
	}
	w.hooks[kind] = hookSlot{fn: fn, param: param}
}

// InstallMouseHook replaces the ButtonPress hook.
func (w *Window) InstallMouseHook(fn MouseFunc, param any) {
	w.mouse = mouseSlot{fn: fn, param: param}
}

// InstallKeyHook replaces the KeyPress hook.
func (w *Window) InstallKeyHook(fn KeyFunc, param any) {
	w.key = keySlot{fn: fn, param: param}
}

// InstallExposeHook replaces the Expose hook.
func (w *Window) InstallExposeHook(fn ExposeFunc, param any) {
	w.expose = exposeSlot{fn: fn, param: param}
}

// isCloseRequest reports whether ev is a WM_DELETE_WINDOW message.
func (c *Connection) isCloseRequest(ev xserver.Event) bool {
	return ev.Kind == xserver.ClientMessage &&
		ev.MessageType == c.atoms.WMProtocols &&
		ev.Data[0] == c.atoms.WMDeleteWindow
}

// dispatch routes ev to the hook of the window it belongs to. Events
// for unknown windows or empty slots are dropped.
func (c *Connection) dispatch(ev xserver.Event) {
	w, ok := c.windows[ev.Window]
	if !ok {
		return
	}
	kind := ev.Kind
	if c.isCloseRequest(ev) {
		kind = CloseEvent
	}
	w.dispatch(kind, ev)
}

func (w *Window) dispatch(kind xserver.EventKind, ev xserver.Event) {
	switch {
	case kind == xserver.ButtonPress && w.mouse.fn != nil:
		w.mouse.fn(ev.Detail, ev.X, ev.Y, w.mouse.param)
		return
	case kind == xserver.KeyPress && w.key.fn != nil:
		w.key.fn(ev.Keysym, w.key.param)
		return
	case kind == xserver.Expose && w.expose.fn != nil:
		w.expose.fn(w.expose.param)
		return
	}
	if !kind.Valid() {
		return
	}
	if h := w.hooks[kind]; h.fn != nil {
		h.fn(ev, h.param)
	}
}
