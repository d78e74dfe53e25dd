package main

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drummonds/rasterx/internal/engine"
	"github.com/drummonds/rasterx/internal/visual"
	"github.com/drummonds/rasterx/internal/xserver"
	"github.com/drummonds/rasterx/internal/xserver/xservertest"
)

func TestFormatInfo(t *testing.T) {
	srv := xservertest.New()
	srv.ShmInfo = xserver.ShmInfo{Present: true, SharedPixmaps: true, PixmapFormat: xserver.ZPixmap}
	opts := engine.DefaultOptions()
	opts.Logger = log.New(io.Discard)
	conn, err := engine.OpenServer(srv, opts)
	require.NoError(t, err)
	defer conn.Close()

	out := formatInfo(conn)
	assert.Contains(t, out, "TrueColor depth 24")
	assert.Contains(t, out, "(default)")
	assert.Contains(t, out, "shift 16 width 8")
	assert.Contains(t, out, "images and pixmaps (format 2)")
	assert.Contains(t, out, "1920x1080")
}

func TestFormatChannel(t *testing.T) {
	got := formatChannel(visual.Channel{Shift: 11, Width: 5})
	assert.Equal(t, "shift 11 width 5 (mask 0x00f800)", got)
}
