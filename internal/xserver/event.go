package xserver

import "fmt"

// EventKind is the core protocol event code.
type EventKind int

const (
	KeyPress         EventKind = 2
	KeyRelease       EventKind = 3
	ButtonPress      EventKind = 4
	ButtonRelease    EventKind = 5
	MotionNotify     EventKind = 6
	EnterNotify      EventKind = 7
	LeaveNotify      EventKind = 8
	FocusIn          EventKind = 9
	FocusOut         EventKind = 10
	KeymapNotify     EventKind = 11
	Expose           EventKind = 12
	GraphicsExpose   EventKind = 13
	NoExpose         EventKind = 14
	VisibilityNotify EventKind = 15
	CreateNotify     EventKind = 16
	DestroyNotify    EventKind = 17
	UnmapNotify      EventKind = 18
	MapNotify        EventKind = 19
	MapRequest       EventKind = 20
	ReparentNotify   EventKind = 21
	ConfigureNotify  EventKind = 22
	ConfigureRequest EventKind = 23
	GravityNotify    EventKind = 24
	ResizeRequest    EventKind = 25
	CirculateNotify  EventKind = 26
	CirculateRequest EventKind = 27
	PropertyNotify   EventKind = 28
	SelectionClear   EventKind = 29
	SelectionRequest EventKind = 30
	SelectionNotify  EventKind = 31
	ColormapNotify   EventKind = 32
	ClientMessage    EventKind = 33
	MappingNotify    EventKind = 34
	GenericEvent     EventKind = 35

	// LastEvent bounds the per-window hook table.
	LastEvent EventKind = 36
)

var kindNames = map[EventKind]string{
	KeyPress: "KeyPress", KeyRelease: "KeyRelease", ButtonPress: "ButtonPress",
	ButtonRelease: "ButtonRelease", MotionNotify: "MotionNotify", EnterNotify: "EnterNotify",
	LeaveNotify: "LeaveNotify", FocusIn: "FocusIn", FocusOut: "FocusOut",
	KeymapNotify: "KeymapNotify", Expose: "Expose", GraphicsExpose: "GraphicsExpose",
	NoExpose: "NoExpose", VisibilityNotify: "VisibilityNotify", CreateNotify: "CreateNotify",
	DestroyNotify: "DestroyNotify", UnmapNotify: "UnmapNotify", MapNotify: "MapNotify",
	MapRequest: "MapRequest", ReparentNotify: "ReparentNotify", ConfigureNotify: "ConfigureNotify",
	ConfigureRequest: "ConfigureRequest", GravityNotify: "GravityNotify", ResizeRequest: "ResizeRequest",
	CirculateNotify: "CirculateNotify", CirculateRequest: "CirculateRequest",
	PropertyNotify: "PropertyNotify", SelectionClear: "SelectionClear",
	SelectionRequest: "SelectionRequest", SelectionNotify: "SelectionNotify",
	ColormapNotify: "ColormapNotify", ClientMessage: "ClientMessage",
	MappingNotify: "MappingNotify", GenericEvent: "GenericEvent",
}

func (k EventKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Valid reports whether k indexes the hook table.
func (k EventKind) Valid() bool {
	return k >= 0 && k < LastEvent
}

// Event is a decoded protocol event. Fields not carried by Kind are zero.
type Event struct {
	Kind      EventKind
	Window    uint32
	Synthetic bool

	X, Y          int
	Width, Height int
	Count         int

	// Detail is the keycode, button number or motion hint.
	Detail int
	// Keysym is the column 0 keysym of a key event.
	Keysym int
	State  uint16

	// client messages
	MessageType uint32
	Format      uint8
	Data        [5]uint32
}
