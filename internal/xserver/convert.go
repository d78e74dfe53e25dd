package xserver

import (
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"
)

// convert flattens an xgb event into an Event.
func (c *Conn) convert(ev xgb.Event) Event {
	switch e := ev.(type) {
	case xproto.KeyPressEvent:
		return c.keyEvent(KeyPress, e.Event, e.Detail, e.EventX, e.EventY, e.State)
	case xproto.KeyReleaseEvent:
		return c.keyEvent(KeyRelease, e.Event, e.Detail, e.EventX, e.EventY, e.State)
	case xproto.ButtonPressEvent:
		return pointerEvent(ButtonPress, e.Event, int(e.Detail), e.EventX, e.EventY, e.State)
	case xproto.ButtonReleaseEvent:
		return pointerEvent(ButtonRelease, e.Event, int(e.Detail), e.EventX, e.EventY, e.State)
	case xproto.MotionNotifyEvent:
		return pointerEvent(MotionNotify, e.Event, int(e.Detail), e.EventX, e.EventY, e.State)
	case xproto.EnterNotifyEvent:
		return pointerEvent(EnterNotify, e.Event, int(e.Detail), e.EventX, e.EventY, e.State)
	case xproto.LeaveNotifyEvent:
		return pointerEvent(LeaveNotify, e.Event, int(e.Detail), e.EventX, e.EventY, e.State)
	case xproto.FocusInEvent:
		return Event{Kind: FocusIn, Window: uint32(e.Event), Detail: int(e.Detail)}
	case xproto.FocusOutEvent:
		return Event{Kind: FocusOut, Window: uint32(e.Event), Detail: int(e.Detail)}
	case xproto.ExposeEvent:
		return Event{
			Kind:   Expose,
			Window: uint32(e.Window),
			X:      int(e.X),
			Y:      int(e.Y),
			Width:  int(e.Width),
			Height: int(e.Height),
			Count:  int(e.Count),
		}
	case xproto.ConfigureNotifyEvent:
		return Event{
			Kind:   ConfigureNotify,
			Window: uint32(e.Window),
			X:      int(e.X),
			Y:      int(e.Y),
			Width:  int(e.Width),
			Height: int(e.Height),
		}
	case xproto.MapNotifyEvent:
		return Event{Kind: MapNotify, Window: uint32(e.Window)}
	case xproto.UnmapNotifyEvent:
		return Event{Kind: UnmapNotify, Window: uint32(e.Window)}
	case xproto.DestroyNotifyEvent:
		return Event{Kind: DestroyNotify, Window: uint32(e.Window)}
	case xproto.VisibilityNotifyEvent:
		return Event{Kind: VisibilityNotify, Window: uint32(e.Window), Detail: int(e.State)}
	case xproto.PropertyNotifyEvent:
		return Event{Kind: PropertyNotify, Window: uint32(e.Window), Detail: int(e.Atom)}
	case xproto.ClientMessageEvent:
		out := Event{
			Kind:        ClientMessage,
			Window:      uint32(e.Window),
			MessageType: uint32(e.Type),
			Format:      e.Format,
		}
		if e.Format == 32 {
			copy(out.Data[:], e.Data.Data32)
		}
		return out
	}
	return rawEvent(ev)
}

func (c *Conn) keyEvent(kind EventKind, win xproto.Window, code xproto.Keycode, x, y int16, state uint16) Event {
	return Event{
		Kind:   kind,
		Window: uint32(win),
		X:      int(x),
		Y:      int(y),
		Detail: int(code),
		Keysym: int(keybind.KeysymGet(c.xu, code, 0)),
		State:  state,
	}
}

func pointerEvent(kind EventKind, win xproto.Window, detail int, x, y int16, state uint16) Event {
	return Event{
		Kind:   kind,
		Window: uint32(win),
		X:      int(x),
		Y:      int(y),
		Detail: detail,
		State:  state,
	}
}

// rawEvent keeps the kind of events with no decoder above. Their window
// is unknown, so they are never dispatched to a window hook.
func rawEvent(ev xgb.Event) Event {
	b := ev.Bytes()
	if len(b) == 0 {
		return Event{}
	}
	return Event{Kind: EventKind(b[0] & 0x7f), Synthetic: b[0]&0x80 != 0}
}
