/*
A picture frame represents a complete rectangular area which presents data.

The frame is rendered by pasting panels on an RGBA buffer, which is then
packed into an engine image and blitted to a window.
This is done it two stages:

- Initial creation
- Rendering dynamic content
*/
package frame

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/drummonds/rasterx/internal/drawing"
	"github.com/drummonds/rasterx/internal/engine"
	"github.com/drummonds/rasterx/internal/visual"
	"github.com/drummonds/rasterx/internal/xserver"
)

type Panelled interface {
	Render(buffer *image.RGBA)
}

// This is the structure which holds the screen data.
type PictureFrame struct {
	Bounds   image.Rectangle
	W, H     int
	Buffer   *image.RGBA // This is what is packed into the image on Present
	BGColour color.RGBA
	panels   []Panelled
}

// Create a new picture frame at a defined size, eg the window size
func NewPictureFrame(bounds image.Rectangle) *PictureFrame {
	pf := new(PictureFrame)
	pf.Bounds = bounds
	pf.W = pf.Bounds.Dx()
	pf.H = pf.Bounds.Dy()
	pf.BGColour = color.RGBA{R: 0xF4, G: 0xC7, B: 0xDF, A: 255}
	pf.Buffer = image.NewRGBA(pf.Bounds)
	pf.RepaintBackground()
	pf.panels = make([]Panelled, 0, 5)
	return pf
}

func (pf *PictureFrame) SetBGColour(r, g, b uint8) {
	pf.BGColour = color.RGBA{R: r, G: g, B: b, A: 255}
	pf.RepaintBackground()
}

func (pf *PictureFrame) RepaintBackground() {
	draw.Draw(pf.Buffer, pf.Bounds, &image.Uniform{pf.BGColour}, image.Point{}, draw.Src)
}

func (pf *PictureFrame) AddPanel(panel Panelled) {
	pf.panels = append(pf.panels, panel)
}

// Calls all the child panels to rerender them
func (pf *PictureFrame) Render() {
	for _, panel := range pf.panels {
		panel.Render(pf.Buffer)
	}
}

// Pack copies the buffer into img in its native pixel format.
func (pf *PictureFrame) Pack(layout visual.Layout, img *engine.Image) {
	if drawing.IsBGRX(layout, img.BitsPerPixel(), img.ByteOrder() == xserver.MSBFirst) &&
		img.Bounds() == pf.Buffer.Bounds() {
		drawing.CopyRGBAtoBGRX(img.Data(), img.Stride(), pf.Buffer)
		return
	}
	drawing.CopyRGBA(img, layout, pf.Buffer)
}

// Present renders every panel, packs the result into img and shows it
// in win at the origin.
func (pf *PictureFrame) Present(conn *engine.Connection, img *engine.Image, win *engine.Window) {
	pf.Render()
	pf.Pack(conn.Layout(), img)
	conn.PutImageToWindow(img, win, 0, 0)
}
