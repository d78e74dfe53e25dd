package session

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drummonds/rasterx/internal/engine"
	"github.com/drummonds/rasterx/internal/xserver/xservertest"
)

func newSession(t *testing.T) (*Session, *xservertest.Server) {
	t.Helper()
	srv := xservertest.New()
	opts := engine.DefaultOptions()
	opts.Logger = log.New(io.Discard)
	conn, err := engine.OpenServer(srv, opts)
	require.NoError(t, err)
	return New(conn), srv
}

func TestSessionCloseOrder(t *testing.T) {
	s, srv := newSession(t)

	w, err := s.NewWindow(64, 48, "session")
	require.NoError(t, err)
	img, err := s.NewImage(16, 16)
	require.NoError(t, err)
	assert.Len(t, s.Windows(), 1)
	assert.Len(t, s.Images(), 1)

	srv.Calls = nil
	s.Close()
	assert.Equal(t, []string{"FreePixmap", "Flush", "FreeGC", "DestroyWindow", "Flush"}, srv.Calls)
	assert.True(t, img.Destroyed())
	assert.True(t, w.Destroyed())
	assert.Equal(t, 1, srv.Closed)

	s.Close()
	assert.Equal(t, 1, srv.Closed)
	assert.Empty(t, s.Windows())
}

func TestSessionDestroy(t *testing.T) {
	s, srv := newSession(t)
	defer s.Close()

	w, err := s.NewWindow(10, 10, "a")
	require.NoError(t, err)
	img, err := s.NewImage(4, 4)
	require.NoError(t, err)

	s.PutImageToWindow(img, w, 1, 2)
	assert.Equal(t, 1, srv.Count("CopyArea 1,2"))

	s.DestroyImage(img)
	s.DestroyImage(img)
	s.DestroyWindow(w)
	s.DestroyWindow(w)
	assert.Empty(t, s.Images())
	assert.Empty(t, s.Windows())
	assert.Equal(t, 1, srv.Count("FreePixmap"))
	assert.Equal(t, 1, srv.Count("DestroyWindow"))
}

func TestSessionRun(t *testing.T) {
	s, srv := newSession(t)
	defer s.Close()

	w, err := s.NewWindow(100, 100, "t")
	require.NoError(t, err)
	srv.Queue = append(srv.Queue, srv.CloseRequest(w.ID()))
	require.NoError(t, s.Run())
	assert.Equal(t, engine.Idle, s.Conn.State())
}
