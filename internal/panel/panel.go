// Package panel renders rectangular pieces of demo content into an RGBA
// frame buffer.
package panel

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

// PlainPanel is a solid colour block.
type PlainPanel struct {
	BGColour color.Color
	Location image.Rectangle // Where panel is to be rendered
	g        *gg.Context
}

func NewPlainPanel(location image.Rectangle, bg color.Color) *PlainPanel {
	p := &PlainPanel{BGColour: bg, Location: location}
	p.g = gg.NewContext(location.Dx(), location.Dy())
	return p
}

func (p *PlainPanel) Render(buffer *image.RGBA) {
	p.g.SetColor(p.BGColour)
	p.g.Clear()
	draw.Draw(buffer, p.Location, p.g.Image(), image.Point{}, draw.Src)
}

// ImagePanel shows a picture scaled to its location.
type ImagePanel struct {
	img      image.Image
	Bounds   image.Rectangle
	W, H     int
	BGColour color.Color
	g        *gg.Context
	Location image.Rectangle // Where panel is to be rendered
}

// This does the initial rendering of the background to
// create the static image.  This is then copied
// during the rendering process
func NewImagePanel(img image.Image) *ImagePanel {
	p := new(ImagePanel)
	p.img = img
	p.BGColour = color.Black
	p.Resize(p.img.Bounds())
	p.Location = p.Bounds
	return p
}

// the location size should be the same as the initial image
func (p *ImagePanel) Resize(bounds image.Rectangle) {
	p.Bounds = bounds
	p.W = p.Bounds.Dx()
	p.H = p.Bounds.Dy()
	p.g = gg.NewContext(max(p.W, 1), max(p.H, 1))
	p.g.SetColor(p.BGColour)
	p.g.Clear()
}

// Draws on an image buffer the contents of the panel
func (p *ImagePanel) Render(buffer *image.RGBA) {
	draw.Draw(buffer, p.Location, p.g.Image(), image.Point{0, 0}, draw.Src)
	xdraw.BiLinear.Scale(buffer, p.Location, p.img, p.img.Bounds(), draw.Over, nil)
}

// BallPanel animates a ball bouncing inside its location. Each Tick
// moves it one step.
type BallPanel struct {
	Location image.Rectangle
	Radius   float64
	BGColour color.Color
	Colour   color.Color

	X, Y   float64
	DX, DY float64
	g      *gg.Context
}

func NewBallPanel(location image.Rectangle, radius float64) *BallPanel {
	return &BallPanel{
		Location: location,
		Radius:   radius,
		BGColour: color.RGBA{0x20, 0x20, 0x28, 0xff},
		Colour:   color.RGBA{0xef, 0x29, 0x29, 0xff},
		X:        radius,
		Y:        radius,
		DX:       3,
		DY:       2,
		g:        gg.NewContext(location.Dx(), location.Dy()),
	}
}

// Tick advances the ball and reflects it off the panel edges.
func (p *BallPanel) Tick() {
	w, h := float64(p.Location.Dx()), float64(p.Location.Dy())
	p.X += p.DX
	p.Y += p.DY
	if p.X < p.Radius {
		p.X, p.DX = p.Radius, -p.DX
	} else if p.X > w-p.Radius {
		p.X, p.DX = w-p.Radius, -p.DX
	}
	if p.Y < p.Radius {
		p.Y, p.DY = p.Radius, -p.DY
	} else if p.Y > h-p.Radius {
		p.Y, p.DY = h-p.Radius, -p.DY
	}
}

func (p *BallPanel) Render(buffer *image.RGBA) {
	p.g.SetColor(p.BGColour)
	p.g.Clear()
	p.g.DrawCircle(p.X, p.Y, p.Radius)
	p.g.SetColor(p.Colour)
	p.g.Fill()
	draw.Draw(buffer, p.Location, p.g.Image(), image.Point{}, draw.Src)
}
