package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drummonds/rasterx/internal/visual"
	"github.com/drummonds/rasterx/internal/xserver"
)

func TestOpenTrueColorDefault(t *testing.T) {
	srv := newFakeServer()
	c := openFake(t, srv, testOptions(nil))

	assert.False(t, c.PrivateColormap())
	assert.Equal(t, uint32(2), c.Colormap())
	assert.Equal(t, rgb888, c.Visual())
	assert.Zero(t, srv.Count("CreateColormap 0x21"))

	assert.Equal(t, visual.Channel{Shift: 16, Width: 8}, c.Layout().Red)
	assert.Equal(t, visual.Channel{Shift: 8, Width: 8}, c.Layout().Green)
	assert.Equal(t, visual.Channel{Shift: 0, Width: 8}, c.Layout().Blue)
	assert.Equal(t, uint32(0x102030), c.ColorValue(0x10, 0x20, 0x30))
}

func TestOpenPrivateColormap(t *testing.T) {
	pseudo := visual.Visual{ID: 0x20, Class: visual.PseudoColor, Depth: 24}
	other := visual.Visual{ID: 0x30, Class: visual.TrueColor, Depth: 16,
		RedMask: 0xf800, GreenMask: 0x07e0, BlueMask: 0x001f}

	srv := newFakeServer()
	srv.ScreenInfo.DefaultVisual = pseudo
	srv.ScreenInfo.Visuals = []visual.Visual{pseudo, other, rgb888}
	c := openFake(t, srv, testOptions(nil))

	assert.True(t, c.PrivateColormap())
	assert.Equal(t, rgb888, c.Visual())
	assert.Equal(t, 1, srv.Count("CreateColormap 0x21"))
	assert.NotEqual(t, srv.ScreenInfo.DefaultColormap, c.Colormap())

	c.Close()
	c.Close()
	assert.Equal(t, 1, srv.Count("FreeColormap"))
	assert.Equal(t, 1, srv.Closed)
}

func TestOpenNoTrueColor(t *testing.T) {
	pseudo := visual.Visual{ID: 0x20, Class: visual.PseudoColor, Depth: 8}
	deep := rgb888
	deep.Depth = 32

	srv := newFakeServer()
	srv.ScreenInfo.DefaultVisual = pseudo
	srv.ScreenInfo.DefaultDepth = 8
	srv.ScreenInfo.Visuals = []visual.Visual{pseudo, deep}

	c, err := OpenServer(srv, testOptions(nil))
	assert.Nil(t, c)
	assert.True(t, errors.Is(err, ErrNoTrueColorVisual))
	assert.Equal(t, 1, srv.Closed)
}

func TestConnectionCloseDestroysWindows(t *testing.T) {
	srv := newFakeServer()
	c, err := OpenServer(srv, testOptions(nil))
	require.NoError(t, err)

	w1, err := c.NewWindow(10, 10, "a")
	require.NoError(t, err)
	w2, err := c.NewWindow(20, 20, "b")
	require.NoError(t, err)

	c.Close()
	assert.True(t, w1.Destroyed())
	assert.True(t, w2.Destroyed())
	assert.Equal(t, 2, srv.Count("DestroyWindow"))
	assert.Equal(t, 1, srv.Closed)
	assert.Zero(t, srv.Count("FreeColormap"))

	c.Close()
	w1.Destroy()
	assert.Equal(t, 2, srv.Count("DestroyWindow"))
	assert.Equal(t, 1, srv.Closed)
	assert.True(t, c.Closed())
}

func TestConnectionAfterClose(t *testing.T) {
	srv := newFakeServer()
	c := openFake(t, srv, testOptions(nil))
	c.Close()

	_, err := c.NewWindow(10, 10, "x")
	assert.True(t, errors.Is(err, ErrWindowCreationFailed))
	_, err = c.NewImage(10, 10)
	assert.True(t, errors.Is(err, ErrImageCreationFailed))
	assert.ErrorIs(t, c.Run(), ErrClosed)
	assert.ErrorIs(t, c.Sync(), ErrClosed)
	assert.ErrorIs(t, c.SetKeyAutoRepeat(false), ErrClosed)
}

func TestConnectionMisc(t *testing.T) {
	srv := newFakeServer()
	c := openFake(t, srv, testOptions(nil))

	w, h := c.ScreenSize()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)

	require.NoError(t, c.Sync())
	require.NoError(t, c.SetKeyAutoRepeat(false))
	assert.Equal(t, 1, srv.Count("Sync"))
	assert.Equal(t, 1, srv.Count("SetKeyAutoRepeat false"))
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name   string
		target string
		info   xserver.ShmInfo
		want   ShmCapability
	}{
		{"absent", ":0", xserver.ShmInfo{}, ShmCapability{PixmapFormat: -1}},
		{"images only", ":0",
			xserver.ShmInfo{Present: true, Major: 1, Minor: 2},
			ShmCapability{Usable: true, PixmapFormat: -1}},
		{"shared pixmaps", ":0",
			xserver.ShmInfo{Present: true, SharedPixmaps: true, PixmapFormat: xserver.ZPixmap},
			ShmCapability{Usable: true, PixmapFormat: xserver.ZPixmap}},
		{"localhost", "localhost:0",
			xserver.ShmInfo{Present: true, SharedPixmaps: true, PixmapFormat: xserver.ZPixmap},
			ShmCapability{Usable: true, PixmapFormat: xserver.ZPixmap}},
		{"own hostname", "testhost:1.0",
			xserver.ShmInfo{Present: true},
			ShmCapability{Usable: true, PixmapFormat: -1}},
		{"remote", "far.example.com:0",
			xserver.ShmInfo{Present: true, SharedPixmaps: true, PixmapFormat: xserver.ZPixmap},
			ShmCapability{PixmapFormat: -1}},
		{"remote tcp", "tcp/10.1.2.3:0",
			xserver.ShmInfo{Present: true},
			ShmCapability{PixmapFormat: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeServer()
			srv.TargetName = tt.target
			srv.ShmInfo = tt.info
			assert.Equal(t, tt.want, Probe(srv, "testhost"))
		})
	}
}

func TestOpenDisableShm(t *testing.T) {
	srv := newFakeServer()
	srv.ShmInfo = xserver.ShmInfo{Present: true}
	opts := testOptions(nil)
	opts.DisableShm = true
	c := openFake(t, srv, opts)
	assert.Equal(t, ShmCapability{PixmapFormat: -1}, c.Shm())
}

func TestAttachRestoresErrorHandler(t *testing.T) {
	srv := newFakeServer()
	c := openFake(t, srv, testOptions(nil))
	installed := srv.Handler
	require.NotNil(t, installed)

	srv.AttachFails = true
	_, ok := c.attachSegment(5)
	assert.False(t, ok)
	assert.NotNil(t, srv.Handler)

	// a fresh attempt must not see the previous failure
	srv.AttachFails = false
	_, ok = c.attachSegment(6)
	assert.True(t, ok)

	called := false
	srv.Handler = func(error) { called = true }
	_, ok = c.attachSegment(7)
	assert.True(t, ok)
	srv.Handler(errors.New("later"))
	assert.True(t, called)
}
