package frame

import (
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drummonds/rasterx/internal/engine"
	"github.com/drummonds/rasterx/internal/panel"
	"github.com/drummonds/rasterx/internal/xserver"
	"github.com/drummonds/rasterx/internal/xserver/xservertest"
)

func open(t *testing.T, srv *xservertest.Server) *engine.Connection {
	t.Helper()
	opts := engine.DefaultOptions()
	opts.Logger = log.New(io.Discard)
	conn, err := engine.OpenServer(srv, opts)
	require.NoError(t, err)
	t.Cleanup(conn.Close)
	return conn
}

func TestPresent(t *testing.T) {
	srv := xservertest.New()
	conn := open(t, srv)
	win, err := conn.NewWindow(8, 4, "frame")
	require.NoError(t, err)
	img, err := conn.NewImage(8, 4)
	require.NoError(t, err)

	pf := NewPictureFrame(image.Rect(0, 0, 8, 4))
	pf.SetBGColour(0x10, 0x20, 0x30)
	pf.AddPanel(panel.NewPlainPanel(image.Rect(4, 0, 8, 4), color.RGBA{0xff, 0, 0, 0xff}))

	srv.Calls = nil
	pf.Present(conn, img, win)

	assert.Equal(t, uint32(0x102030), img.Pixel(0, 0))
	assert.Equal(t, uint32(0xff0000), img.Pixel(7, 3))
	assert.Equal(t, 1, srv.Count("CopyArea 0,0"))
}

func TestPackGenericLayout(t *testing.T) {
	srv := xservertest.New()
	srv.Layout = func(depth uint8, width int) xserver.ImageLayout {
		return xserver.ImageLayout{BitsPerPixel: 32, Stride: width * 4, ByteOrder: xserver.MSBFirst}
	}
	conn := open(t, srv)
	img, err := conn.NewImage(2, 2)
	require.NoError(t, err)

	pf := NewPictureFrame(image.Rect(0, 0, 2, 2))
	pf.SetBGColour(0xaa, 0xbb, 0xcc)
	pf.Pack(conn.Layout(), img)

	assert.Equal(t, []byte{0, 0xaa, 0xbb, 0xcc}, img.Data()[0:4])
}
