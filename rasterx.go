// Program rasterx opens a window on an X server and lets you paint on
// it with the mouse. It is the smallest complete user of the engine:
// one window, one image, and hooks for mouse, keys, expose and close.
package main

import (
	"fmt"
	"image"
	"os"

	"github.com/spf13/cobra"

	"github.com/drummonds/rasterx/internal/config"
	"github.com/drummonds/rasterx/internal/drawing"
	"github.com/drummonds/rasterx/internal/engine"
	"github.com/drummonds/rasterx/internal/logger"
	"github.com/drummonds/rasterx/internal/session"
)

var (
	// Version is set during build
	Version = "0.1.0-dev"

	configPath string
	display    string
	noShm      bool
	brushSize  int

	rootCmd = &cobra.Command{
		Use:   "rasterx",
		Short: "rasterx - a minimal X11 window and raster engine",
		Long: `rasterx opens a fixed size window and paints squares where you click.
Buttons 1-3 pick the colour, 'c' clears the canvas and Escape or the
window manager's close button quits.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return paint(cfg)
		},
	}
)

const (
	keyEscape = 0xff1b
	keyC      = 'c'
)

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $HOME/.config/rasterx/rasterx.toml)")
	rootCmd.PersistentFlags().StringVar(&display, "display", "", "X display to connect to (default: $DISPLAY)")
	rootCmd.PersistentFlags().BoolVar(&noShm, "no-shm", false, "never use MIT-SHM images")
	rootCmd.Flags().IntVar(&brushSize, "brush", 16, "brush size in pixels")

	rootCmd.AddCommand(infoCmd)
}

// loadConfig merges the config file with the command line flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if display != "" {
		cfg.Display = display
	}
	if noShm {
		cfg.Shm.Enabled = false
	}
	if cfg.Logging.Level != "" {
		logger.SetLevel(cfg.Logging.Level)
	}
	return cfg, nil
}

type canvas struct {
	s       *session.Session
	win     *engine.Window
	img     *engine.Image
	palette []uint32
	colour  uint32
	brush   int
	strokes int
}

func newCanvas(s *session.Session, cfg *config.Config) (*canvas, error) {
	cv := &canvas{s: s, brush: brushSize}
	for _, name := range []string{"darkgray", "red", "green", "blue"} {
		c := drawing.ColourNameToRGBA[name]
		cv.palette = append(cv.palette, s.Conn.ColorValue(c.R, c.G, c.B))
	}
	cv.colour = cv.palette[1]

	var err error
	cv.win, err = s.NewWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	if err != nil {
		return nil, err
	}
	cv.img, err = s.NewImage(cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return nil, err
	}
	logger.Info("canvas ready", "image", cv.img.Variant(), "bpp", cv.img.BitsPerPixel(), "stride", cv.img.Stride())
	cv.clear()

	cv.win.InstallMouseHook(cv.onMouse, nil)
	cv.win.InstallKeyHook(cv.onKey, nil)
	cv.win.InstallExposeHook(cv.onExpose, nil)
	return cv, nil
}

func (cv *canvas) clear() {
	cv.img.PutRect(image.Point{}, image.Pt(cv.img.Width(), cv.img.Height()), cv.palette[0])
	cv.strokes = 0
}

func (cv *canvas) onMouse(button, x, y int, _ any) {
	if button >= 1 && button < len(cv.palette) {
		cv.colour = cv.palette[button]
	}
	half := cv.brush / 2
	cv.img.PutRect(image.Pt(x-half, y-half), image.Pt(x+half, y+half), cv.colour)
	cv.strokes++
	cv.s.PutImageToWindow(cv.img, cv.win, 0, 0)
}

func (cv *canvas) onKey(keysym int, _ any) {
	switch keysym {
	case keyEscape:
		cv.s.Conn.RequestStop()
	case keyC:
		cv.clear()
		cv.s.PutImageToWindow(cv.img, cv.win, 0, 0)
	}
}

func (cv *canvas) onExpose(_ any) {
	cv.s.PutImageToWindow(cv.img, cv.win, 0, 0)
}

func paint(cfg *config.Config) error {
	s, err := session.Open(cfg.EngineOptions())
	if err != nil {
		return err
	}
	defer s.Close()

	cv, err := newCanvas(s, cfg)
	if err != nil {
		return err
	}
	if err := s.Run(); err != nil {
		return err
	}
	logger.Info("bye", "strokes", cv.strokes)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
