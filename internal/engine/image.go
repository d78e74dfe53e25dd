package engine

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"

	"github.com/drummonds/rasterx/internal/xserver"
)

// Variant is how an image reaches the server.
type Variant int

const (
	// Plain images live on the Go heap and are uploaded with PutImage.
	Plain Variant = iota
	// ShmImage pixels are shared with the server and pushed into a
	// server pixmap with a shared PutImage.
	ShmImage
	// ShmPixmap pixels are the server pixmap itself.
	ShmPixmap
)

func (v Variant) String() string {
	switch v {
	case ShmImage:
		return "shm-image"
	case ShmPixmap:
		return "shm-pixmap"
	}
	return "plain"
}

// Image is an off-screen pixel buffer in the server's native format.
// It implements draw.Image.
type Image struct {
	conn    *Connection
	variant Variant

	width, height int
	depth         uint8
	bpp           int
	stride        int
	order         xserver.ByteOrder

	data []byte
	size int

	pixmap  uint32
	seg     uint32
	segment SharedSegment

	destroyed bool
}

// shmRowPad is added to every row of a shared segment to absorb the
// server's scanline rounding.
const shmRowPad = 32

// NewImage allocates a width by height image. Shared memory is tried
// first when usable; any failure there falls back to a plain image.
func (c *Connection) NewImage(width, height int) (*Image, error) {
	if c.closed {
		return nil, fmt.Errorf("%w: %v", ErrImageCreationFailed, ErrClosed)
	}
	if width <= 0 || height <= 0 || width > 0xffff || height > 0xffff {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrImageCreationFailed, width, height)
	}

	layout := c.srv.ImageLayout(c.Depth(), width)
	img := &Image{
		conn:   c,
		width:  width,
		height: height,
		depth:  c.Depth(),
		bpp:    layout.BitsPerPixel,
		stride: layout.Stride,
		order:  layout.ByteOrder,
		size:   layout.Stride * height,
	}

	if c.shm.Usable {
		if c.newShmImage(img) {
			return img, nil
		}
		c.log.Debug("falling back to plain image", "width", width, "height", height)
	}

	pix, err := c.srv.CreatePixmap(width, height, img.depth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageCreationFailed, err)
	}
	img.variant = Plain
	img.pixmap = pix
	// slack so a 4 byte write at the last addressable byte stays in range
	img.data = make([]byte, img.size+3)
	return img, nil
}

func (c *Connection) newShmImage(img *Image) bool {
	segSize := (img.width + shmRowPad) * img.height * 4
	if segSize < img.size+3 {
		return false
	}
	segment, err := c.allocSegment(segSize)
	if err != nil {
		c.log.Debug("shared segment allocation failed", "size", segSize, "err", err)
		return false
	}

	seg, ok := c.attachSegment(segment.ID())
	if !ok {
		c.log.Warn("X server cannot attach shared memory", "shmid", segment.ID())
		segment.Detach()
		segment.Remove()
		return false
	}
	// the server keeps its own mapping
	segment.Remove()

	variant := ShmImage
	var pix uint32
	if c.shm.PixmapFormat == xserver.ZPixmap {
		variant = ShmPixmap
		pix, err = c.srv.CreateShmPixmap(seg, img.width, img.height, img.depth)
	} else {
		pix, err = c.srv.CreatePixmap(img.width, img.height, img.depth)
	}
	if err != nil {
		c.log.Debug("shared pixmap creation failed", "err", err)
		c.srv.DetachSegment(seg)
		segment.Detach()
		return false
	}

	img.variant = variant
	img.pixmap = pix
	img.seg = seg
	img.segment = segment
	img.data = segment.Bytes()
	return true
}

// Destroy frees the pixmap and the pixel memory. Later calls do nothing.
func (img *Image) Destroy() {
	if img == nil || img.destroyed {
		return
	}
	img.destroyed = true
	c := img.conn
	if !c.closed {
		c.srv.FreePixmap(img.pixmap)
		if img.segment != nil {
			c.srv.DetachSegment(img.seg)
		}
		c.flushIfEnabled()
	}
	if img.segment != nil {
		img.segment.Detach()
		img.segment = nil
	}
	img.data = nil
	img.pixmap = 0
}

func (img *Image) Destroyed() bool              { return img.destroyed }
func (img *Image) Variant() Variant             { return img.variant }
func (img *Image) Width() int                   { return img.width }
func (img *Image) Height() int                  { return img.height }
func (img *Image) BitsPerPixel() int            { return img.bpp }
func (img *Image) Stride() int                  { return img.stride }
func (img *Image) ByteOrder() xserver.ByteOrder { return img.order }

// Size is the addressable region, Stride times Height.
func (img *Image) Size() int { return img.size }

// Data is the writable pixel memory. It is nil once destroyed.
func (img *Image) Data() []byte { return img.data }

// offset returns the byte offset of (x, y), and false if it lies outside
// the addressable region.
func (img *Image) offset(x, y int) (int, bool) {
	off := y*img.stride + x*(img.bpp/8)
	if off < 0 || off >= img.size || off+4 > len(img.data) {
		return 0, false
	}
	return off, true
}

func (img *Image) byteOrder() binary.ByteOrder {
	if img.order == xserver.MSBFirst {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// PutPixel stores the 32-bit pixel word at (x, y). Writes that fall
// outside the image memory are dropped.
func (img *Image) PutPixel(x, y int, px uint32) {
	off, ok := img.offset(x, y)
	if !ok {
		return
	}
	img.byteOrder().PutUint32(img.data[off:off+4], px)
}

// Pixel reads back the pixel word at (x, y), or 0 if it is out of range.
func (img *Image) Pixel(x, y int) uint32 {
	off, ok := img.offset(x, y)
	if !ok {
		return 0
	}
	n := img.bpp / 8
	var px uint32
	for i := 0; i < n && i < 4; i++ {
		b := uint32(img.data[off+i])
		if img.order == xserver.MSBFirst {
			px = px<<8 | b
		} else {
			px |= b << (8 * i)
		}
	}
	return px
}

// PutRect fills the half-open rectangle [topLeft, bottomRight).
// An empty or reversed rectangle writes nothing.
func (img *Image) PutRect(topLeft, bottomRight image.Point, px uint32) {
	for y := topLeft.Y; y < bottomRight.Y; y++ {
		for x := topLeft.X; x < bottomRight.X; x++ {
			img.PutPixel(x, y, px)
		}
	}
}

func (img *Image) ColorModel() color.Model { return color.RGBAModel }

func (img *Image) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.width, img.height)
}

func (img *Image) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(img.Bounds())) {
		return color.RGBA{}
	}
	r, g, b := img.conn.layout.Unpack(img.Pixel(x, y))
	return color.RGBA{r, g, b, 0xff}
}

// Set packs c with the connection's channel layout. Alpha is ignored.
func (img *Image) Set(x, y int, c color.Color) {
	if !(image.Point{x, y}.In(img.Bounds())) {
		return
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	img.PutPixel(x, y, img.conn.layout.Pack(rgba.R, rgba.G, rgba.B))
}

// PutImageToWindow copies img to win with its top left corner at (x, y).
func (c *Connection) PutImageToWindow(img *Image, win *Window, x, y int) {
	if c.closed || img == nil || win == nil || img.destroyed || win.destroyed {
		return
	}
	switch img.variant {
	case ShmPixmap:
		// already server side
	case ShmImage:
		c.srv.ShmPutImage(img.pixmap, win.gc, img.seg, img.width, img.height, img.depth)
	default:
		c.srv.PutImage(img.pixmap, win.gc, img.data[:img.size], img.stride, img.width, img.height, img.depth)
	}
	c.srv.CopyArea(img.pixmap, win.id, win.gc, img.width, img.height, x, y)
	c.flushIfEnabled()
}
