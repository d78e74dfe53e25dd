// Package xservertest provides an in-memory xserver.Server for tests.
package xservertest

import (
	"errors"
	"fmt"

	"github.com/drummonds/rasterx/internal/visual"
	"github.com/drummonds/rasterx/internal/xserver"
)

// ErrNoEvents is returned when a blocking read finds the queue empty.
var ErrNoEvents = errors.New("xservertest: no more events")

// RGB888 is the default visual of a new Server.
var RGB888 = visual.Visual{
	ID: 0x21, Class: visual.TrueColor, Depth: 24,
	RedMask: 0xff0000, GreenMask: 0x00ff00, BlueMask: 0x0000ff,
}

// Server records the operations issued against it. Resource ids are
// allocated sequentially. Mapping a window queues its first Expose.
type Server struct {
	TargetName string
	ScreenInfo xserver.Screen
	AtomIDs    xserver.Atoms
	// Layout overrides the default 32 bpp, unpadded image layout.
	Layout  func(depth uint8, width int) xserver.ImageLayout
	ShmInfo xserver.ShmInfo

	AttachFails bool
	PixmapFails bool
	WindowFails bool

	Handler      xserver.ErrorHandler
	HandlerCalls int

	Queue  []xserver.Event
	Hints  map[uint32]xserver.SizeHints
	Titles map[uint32]string

	Calls  []string
	Closed int

	nextID uint32
}

var _ xserver.Server = (*Server)(nil)

func New() *Server {
	return &Server{
		TargetName: ":0",
		ScreenInfo: xserver.Screen{
			Root:            1,
			DefaultColormap: 2,
			DefaultDepth:    24,
			DefaultVisual:   RGB888,
			Visuals:         []visual.Visual{RGB888},
			Width:           1920,
			Height:          1080,
		},
		AtomIDs: xserver.Atoms{WMProtocols: 100, WMDeleteWindow: 101},
		Hints:   make(map[uint32]xserver.SizeHints),
		Titles:  make(map[uint32]string),
		nextID:  0x400000,
	}
}

func (f *Server) id() uint32 {
	f.nextID++
	return f.nextID
}

func (f *Server) record(format string, args ...any) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

// Count is the number of recorded calls equal to call.
func (f *Server) Count(call string) int {
	n := 0
	for _, c := range f.Calls {
		if c == call {
			n++
		}
	}
	return n
}

// CloseRequest builds the WM_DELETE_WINDOW message a window manager
// sends to win.
func (f *Server) CloseRequest(win uint32) xserver.Event {
	ev := xserver.Event{
		Kind:        xserver.ClientMessage,
		Window:      win,
		MessageType: f.AtomIDs.WMProtocols,
		Format:      32,
	}
	ev.Data[0] = f.AtomIDs.WMDeleteWindow
	return ev
}

func (f *Server) Target() string         { return f.TargetName }
func (f *Server) Screen() xserver.Screen { return f.ScreenInfo }
func (f *Server) Atoms() xserver.Atoms   { return f.AtomIDs }

func (f *Server) ImageLayout(depth uint8, width int) xserver.ImageLayout {
	if f.Layout != nil {
		return f.Layout(depth, width)
	}
	return xserver.ImageLayout{BitsPerPixel: 32, Stride: width * 4}
}

func (f *Server) CreateColormap(visualID uint32) (uint32, error) {
	f.record("CreateColormap %#x", visualID)
	return f.id(), nil
}

func (f *Server) FreeColormap(cmap uint32) { f.record("FreeColormap") }

func (f *Server) QueryShm() xserver.ShmInfo { return f.ShmInfo }

// AttachSegment reports a BadAccess to the installed handler when
// AttachFails is set, as a server refusing the segment would.
func (f *Server) AttachSegment(shmid int, readOnly bool) (uint32, error) {
	f.record("AttachSegment %d", shmid)
	if f.AttachFails && f.Handler != nil {
		f.Handler(errors.New("BadAccess"))
	}
	return f.id(), nil
}

func (f *Server) DetachSegment(seg uint32) { f.record("DetachSegment") }

func (f *Server) CreateShmPixmap(seg uint32, width, height int, depth uint8) (uint32, error) {
	f.record("CreateShmPixmap")
	return f.id(), nil
}

func (f *Server) ShmPutImage(dst, gc, seg uint32, width, height int, depth uint8) {
	f.record("ShmPutImage")
}

func (f *Server) CreatePixmap(width, height int, depth uint8) (uint32, error) {
	f.record("CreatePixmap")
	if f.PixmapFails {
		return 0, errors.New("BadAlloc")
	}
	return f.id(), nil
}

func (f *Server) FreePixmap(pix uint32) { f.record("FreePixmap") }

func (f *Server) PutImage(dst, gc uint32, data []byte, stride, width, height int, depth uint8) {
	f.record("PutImage %d", len(data))
}

func (f *Server) CopyArea(src, dst, gc uint32, width, height, x, y int) {
	f.record("CopyArea %d,%d", x, y)
}

func (f *Server) CreateWindow(spec xserver.WindowSpec) (uint32, error) {
	if f.WindowFails {
		return 0, errors.New("BadValue")
	}
	f.record("CreateWindow %dx%d", spec.Width, spec.Height)
	return f.id(), nil
}

func (f *Server) DestroyWindow(win uint32) { f.record("DestroyWindow") }
func (f *Server) ClearWindow(win uint32)   { f.record("ClearWindow") }

func (f *Server) NormalHints(win uint32) (xserver.SizeHints, error) {
	h, ok := f.Hints[win]
	if !ok {
		return h, errors.New("xservertest: no WM_NORMAL_HINTS")
	}
	return h, nil
}

func (f *Server) SetNormalHints(win uint32, hints xserver.SizeHints) error {
	f.Hints[win] = hints
	return nil
}

func (f *Server) SetTitle(win uint32, title string) error {
	f.Titles[win] = title
	return nil
}

func (f *Server) EnableCloseProtocol(win uint32) error {
	f.record("EnableCloseProtocol")
	return nil
}

func (f *Server) MapRaised(win uint32) error {
	f.record("MapRaised")
	f.Queue = append(f.Queue, xserver.Event{Kind: xserver.Expose, Window: win})
	return nil
}

func (f *Server) CreateGC(drawable uint32, values xserver.GCValues) (uint32, error) {
	f.record("CreateGC %#x %#x %#x", values.Function, values.PlaneMask, values.Foreground)
	return f.id(), nil
}

func (f *Server) FreeGC(gc uint32) { f.record("FreeGC") }

func (f *Server) NextEvent() (xserver.Event, error) {
	if len(f.Queue) == 0 {
		return xserver.Event{}, ErrNoEvents
	}
	ev := f.Queue[0]
	f.Queue = f.Queue[1:]
	return ev, nil
}

func (f *Server) Pending() bool { return len(f.Queue) > 0 }

func (f *Server) WindowEvent(win uint32, kind xserver.EventKind) (xserver.Event, error) {
	for i, ev := range f.Queue {
		if ev.Window == win && ev.Kind == kind {
			f.Queue = append(f.Queue[:i:i], f.Queue[i+1:]...)
			return ev, nil
		}
	}
	return xserver.Event{}, ErrNoEvents
}

func (f *Server) PutBack(ev xserver.Event) {
	f.Queue = append([]xserver.Event{ev}, f.Queue...)
}

func (f *Server) SetErrorHandler(h xserver.ErrorHandler) xserver.ErrorHandler {
	f.HandlerCalls++
	prev := f.Handler
	f.Handler = h
	return prev
}

func (f *Server) Flush() { f.record("Flush") }

func (f *Server) Sync() error {
	f.record("Sync")
	return nil
}

// PointerPosition always reports (12, 34).
func (f *Server) PointerPosition(win uint32) (int, int, error) { return 12, 34, nil }

func (f *Server) WarpPointer(win uint32, x, y int) { f.record("WarpPointer %d,%d", x, y) }

func (f *Server) SetCursorVisible(win uint32, visible bool) error {
	f.record("SetCursorVisible %v", visible)
	return nil
}

func (f *Server) SetKeyAutoRepeat(on bool) error {
	f.record("SetKeyAutoRepeat %v", on)
	return nil
}

func (f *Server) Close() error {
	f.Closed++
	return nil
}
