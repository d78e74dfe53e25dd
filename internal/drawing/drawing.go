package drawing

import (
	"image"
	"image/color"

	"github.com/drummonds/rasterx/internal/visual"
)

// PixelWriter is a native-format pixel surface such as an engine image.
type PixelWriter interface {
	Bounds() image.Rectangle
	PutPixel(x, y int, px uint32)
}

// unpremultiply turns the alpha-premultiplied bytes of an *image.RGBA
// into a straight colour.
func unpremultiply(s []byte) color.NRGBA {
	switch s[3] {
	case 0xff:
		return color.NRGBA{s[0], s[1], s[2], 0xff}
	case 0:
		return color.NRGBA{}
	}
	r := uint32(s[0])
	r |= r << 8
	g := uint32(s[1])
	g |= g << 8
	b := uint32(s[2])
	b |= b << 8
	a := uint32(s[3])
	a |= a << 8

	// Since Color.RGBA returns an alpha-premultiplied color, we
	// should have r <= a && g <= a && b <= a.
	r = (r * 0xffff) / a
	g = (g * 0xffff) / a
	b = (b * 0xffff) / a
	return color.NRGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

// CopyRGBA packs src into dst with the channel layout of the visual dst
// was created for. Only the overlap of the two bounds is copied.
//
// This avoids the per pixel interface calls of draw.Draw, which dominate
// when refreshing a full window every frame.
func CopyRGBA(dst PixelWriter, layout visual.Layout, src *image.RGBA) {
	r := dst.Bounds().Intersect(src.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := src.PixOffset(x, y)
			// Small cap improves performance, see https://golang.org/issue/27857
			c := unpremultiply(src.Pix[i : i+4 : i+4])
			dst.PutPixel(x, y, layout.Pack(c.R, c.G, c.B))
		}
	}
}

// IsBGRX reports whether pixels are 32 bit little endian words laid out
// as 0x00RRGGBB, the common layout of 24 bit TrueColor visuals.
func IsBGRX(layout visual.Layout, bitsPerPixel int, msbFirst bool) bool {
	return bitsPerPixel == 32 && !msbFirst &&
		layout.Red == visual.Channel{Shift: 16, Width: 8} &&
		layout.Green == visual.Channel{Shift: 8, Width: 8} &&
		layout.Blue == visual.Channel{Shift: 0, Width: 8}
}

// CopyRGBAtoBGRX is the hot copy loop for the IsBGRX layout, writing
// straight into image memory with the given stride. Alpha is dropped
// without un-premultiplying.
func CopyRGBAtoBGRX(dst []byte, stride int, src *image.RGBA) {
	b := src.Bounds()
	for y := 0; y < b.Dy(); y++ {
		srow := src.Pix[y*src.Stride:]
		drow := dst[y*stride:]
		for x := 0; x < b.Dx(); x++ {
			s := srow[x*4 : x*4+4 : x*4+4]
			d := drow[x*4 : x*4+4 : x*4+4]
			d[0], d[1], d[2], d[3] = s[2], s[1], s[0], 0
		}
	}
}

// Calculated linear scaling of an rectangle from its original size to
// a max width and max height of a desired output.
// The whole picture is scaled inside the rectangle with blank space to
// right and bottom
func ScaleImageInside(bounds image.Rectangle, maxW, maxH int) image.Rectangle {
	imgW := bounds.Dx()
	imgH := bounds.Dy()
	if imgW == 0 || imgH == 0 {
		return image.Rectangle{}
	}
	ratio := float64(maxW) / float64(imgW)
	if r := float64(maxH) / float64(imgH); r < ratio {
		ratio = r
	}
	scaledW := int(ratio * float64(imgW))
	scaledH := int(ratio * float64(imgH))
	return image.Rect(0, 0, scaledW, scaledH)
}

// ScaleImageOuter scales bounds so it covers target completely, centred
// on the axis that overflows and then shifted by offset.
func ScaleImageOuter(bounds image.Rectangle, target, offset image.Point) image.Rectangle {
	imgW := bounds.Dx()
	imgH := bounds.Dy()
	if imgW == 0 || imgH == 0 {
		return image.Rectangle{}
	}
	// Ratio of screen to image, <1 means reduce image
	ratio := max(float64(target.Y)/float64(imgH), float64(target.X)/float64(imgW))
	scaledW := int(ratio * float64(imgW))
	scaledH := int(ratio * float64(imgH))
	left := offset.X + (target.X-scaledW)/2
	top := offset.Y + (target.Y-scaledH)/2
	return image.Rect(left, top, scaledW+left, scaledH+top)
}

var ColourNameToRGBA = map[string]color.NRGBA{
	"black":    {R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
	"darkgray": {R: 0x55, G: 0x57, B: 0x53, A: 0xFF},
	"red":      {R: 0xEF, G: 0x29, B: 0x29, A: 0xFF},
	"green":    {R: 0x8A, G: 0xE2, B: 0x34, A: 0xFF},
	"yellow":   {R: 0xFC, G: 0xE9, B: 0x4F, A: 0xFF},
	"blue":     {R: 0x72, G: 0x9F, B: 0xCF, A: 0xFF},
	"magenta":  {R: 0xEE, G: 0x38, B: 0xDA, A: 0xFF},
	"cyan":     {R: 0x34, G: 0xE2, B: 0xE2, A: 0xFF},
	"white":    {R: 0xEE, G: 0xEE, B: 0xEC, A: 0xFF},
}
