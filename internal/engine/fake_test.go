package engine

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/drummonds/rasterx/internal/xserver/xservertest"
)

var (
	rgb888      = xservertest.RGB888
	errNoEvents = xservertest.ErrNoEvents
)

type fakeServer = xservertest.Server

func newFakeServer() *fakeServer { return xservertest.New() }

// fakeSegment is an in-process stand-in for a SysV segment.
type fakeSegment struct {
	id       int
	data     []byte
	removed  int
	detached int
}

func (s *fakeSegment) ID() int       { return s.id }
func (s *fakeSegment) Bytes() []byte { return s.data }
func (s *fakeSegment) Remove() error { s.removed++; return nil }
func (s *fakeSegment) Detach() error { s.detached++; return nil }

type segmentRecorder struct {
	segments []*fakeSegment
	fail     bool
}

func (r *segmentRecorder) alloc(size int) (SharedSegment, error) {
	if r.fail {
		return nil, errors.New("ENOSPC")
	}
	s := &fakeSegment{id: 7 + len(r.segments), data: make([]byte, size)}
	r.segments = append(r.segments, s)
	return s, nil
}

func testOptions(segs *segmentRecorder) Options {
	opts := DefaultOptions()
	opts.Hostname = "testhost"
	opts.Logger = log.New(io.Discard)
	if segs != nil {
		opts.AllocSegment = segs.alloc
	}
	return opts
}

func openFake(t *testing.T, srv *fakeServer, opts Options) *Connection {
	t.Helper()
	c, err := OpenServer(srv, opts)
	if err != nil {
		t.Fatalf("OpenServer: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}
