package panel

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainPanel(t *testing.T) {
	buf := image.NewRGBA(image.Rect(0, 0, 20, 20))
	p := NewPlainPanel(image.Rect(5, 5, 10, 10), color.RGBA{0, 0xff, 0, 0xff})
	p.Render(buf)

	assert.Equal(t, color.RGBA{0, 0xff, 0, 0xff}, buf.RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{0, 0xff, 0, 0xff}, buf.RGBAAt(9, 9))
	assert.Equal(t, color.RGBA{}, buf.RGBAAt(10, 10))
}

func TestImagePanelScales(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			src.Set(x, y, color.RGBA{0xff, 0, 0, 0xff})
		}
	}
	p := NewImagePanel(src)
	assert.Equal(t, 2, p.W)
	p.Location = image.Rect(0, 0, 8, 8)

	buf := image.NewRGBA(image.Rect(0, 0, 10, 10))
	p.Render(buf)
	assert.Equal(t, color.RGBA{0xff, 0, 0, 0xff}, buf.RGBAAt(4, 4))
	assert.Equal(t, color.RGBA{}, buf.RGBAAt(9, 9))
}

func TestBallPanelBounces(t *testing.T) {
	p := NewBallPanel(image.Rect(0, 0, 20, 10), 2)
	p.DX, p.DY = 5, 5

	p.Tick()
	assert.Equal(t, 7.0, p.X)
	assert.Equal(t, 7.0, p.Y)

	p.Tick()
	assert.Equal(t, 8.0, p.Y, "clamped to the bottom edge")
	assert.Equal(t, -5.0, p.DY)
	assert.Equal(t, 12.0, p.X)

	for i := 0; i < 100; i++ {
		p.Tick()
		assert.GreaterOrEqual(t, p.X, p.Radius)
		assert.LessOrEqual(t, p.X, 20-p.Radius)
		assert.GreaterOrEqual(t, p.Y, p.Radius)
		assert.LessOrEqual(t, p.Y, 10-p.Radius)
	}
}

func TestBallPanelRender(t *testing.T) {
	p := NewBallPanel(image.Rect(10, 10, 30, 30), 5)
	p.X, p.Y = 10, 10
	buf := image.NewRGBA(image.Rect(0, 0, 40, 40))
	p.Render(buf)

	assert.Equal(t, p.Colour, buf.RGBAAt(20, 20))
	assert.Equal(t, p.BGColour, buf.RGBAAt(11, 11))
	assert.Equal(t, color.RGBA{}, buf.RGBAAt(5, 5))
}
