// x11Demo shows a picture file in a window, scaled to fit, using the
// engine's image path instead of drawing point by point.
package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/drummonds/rasterx/internal/config"
	"github.com/drummonds/rasterx/internal/drawing"
	"github.com/drummonds/rasterx/internal/frame"
	"github.com/drummonds/rasterx/internal/logger"
	"github.com/drummonds/rasterx/internal/panel"
	"github.com/drummonds/rasterx/internal/session"
)

const (
	windowWidth  = 400
	windowHeight = 300
)

func getImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rawImg, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	// Resize to fit the window keeping the aspect ratio
	fit := drawing.ScaleImageInside(rawImg.Bounds(), windowWidth, windowHeight)
	img := image.NewRGBA(fit)
	// Use high-quality Catmull-Rom resampling
	draw.CatmullRom.Scale(img, img.Bounds(), rawImg, rawImg.Bounds(), draw.Over, nil)
	return img, nil
}

func view(path string) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	picture, err := getImage(path)
	if err != nil {
		return err
	}

	s, err := session.Open(cfg.EngineOptions())
	if err != nil {
		return err
	}
	defer s.Close()

	win, err := s.NewWindow(windowWidth, windowHeight, path)
	if err != nil {
		return err
	}
	img, err := s.NewImage(windowWidth, windowHeight)
	if err != nil {
		return err
	}

	pf := frame.NewPictureFrame(image.Rect(0, 0, windowWidth, windowHeight))
	pf.SetBGColour(0, 0, 0)
	p := panel.NewImagePanel(picture)
	// centre the picture
	b := picture.Bounds()
	p.Location = b.Add(image.Pt((windowWidth-b.Dx())/2, (windowHeight-b.Dy())/2))
	pf.AddPanel(p)
	pf.Render()
	pf.Pack(s.Conn.Layout(), img)

	win.InstallExposeHook(func(any) { s.PutImageToWindow(img, win, 0, 0) }, nil)
	win.InstallKeyHook(func(int, any) { s.Conn.RequestStop() }, nil)
	logger.Info("showing", "file", path, "image", img.Variant())
	return s.Run()
}

func main() {
	cmd := &cobra.Command{
		Use:          "x11Demo <picture>",
		Short:        "Show a PNG or JPEG in an X11 window; any key quits",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return view(args[0])
		},
	}
	if err := cmd.Execute(); err != nil {
		logger.Fatal(err)
	}
}
