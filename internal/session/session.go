// Package session keeps track of the windows and images of one engine
// connection so they can be torn down together.
package session

import (
	"slices"

	"github.com/drummonds/rasterx/internal/engine"
)

type Session struct {
	Conn    *engine.Connection
	windows []*engine.Window
	images  []*engine.Image
}

// Open connects to the X server and starts an empty session.
func Open(opts engine.Options) (*Session, error) {
	conn, err := engine.Open(opts)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// New wraps an open connection. The session owns it from now on.
func New(conn *engine.Connection) *Session {
	return &Session{Conn: conn}
}

func (s *Session) NewWindow(width, height int, title string) (*engine.Window, error) {
	w, err := s.Conn.NewWindow(width, height, title)
	if err != nil {
		return nil, err
	}
	s.windows = append(s.windows, w)
	return w, nil
}

func (s *Session) DestroyWindow(w *engine.Window) {
	if i := slices.Index(s.windows, w); i >= 0 {
		s.windows = slices.Delete(s.windows, i, i+1)
	}
	w.Destroy()
}

func (s *Session) NewImage(width, height int) (*engine.Image, error) {
	img, err := s.Conn.NewImage(width, height)
	if err != nil {
		return nil, err
	}
	s.images = append(s.images, img)
	return img, nil
}

func (s *Session) DestroyImage(img *engine.Image) {
	if i := slices.Index(s.images, img); i >= 0 {
		s.images = slices.Delete(s.images, i, i+1)
	}
	img.Destroy()
}

func (s *Session) PutImageToWindow(img *engine.Image, w *engine.Window, x, y int) {
	s.Conn.PutImageToWindow(img, w, x, y)
}

func (s *Session) Windows() []*engine.Window { return slices.Clone(s.windows) }
func (s *Session) Images() []*engine.Image   { return slices.Clone(s.images) }

// Run runs the connection's event loop.
func (s *Session) Run() error { return s.Conn.Run() }

// Close destroys images, then windows, then closes the connection.
// It is safe to call more than once.
func (s *Session) Close() {
	for _, img := range s.images {
		img.Destroy()
	}
	s.images = nil
	for _, w := range s.windows {
		w.Destroy()
	}
	s.windows = nil
	s.Conn.Close()
}
