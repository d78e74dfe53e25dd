// aim is to use the panel mechanism
// to animate a simulated frame buffer from the loop hook
package main

import (
	"image"
	"time"

	"github.com/spf13/cobra"

	"github.com/drummonds/rasterx/internal/config"
	"github.com/drummonds/rasterx/internal/drawing"
	"github.com/drummonds/rasterx/internal/engine"
	"github.com/drummonds/rasterx/internal/frame"
	"github.com/drummonds/rasterx/internal/logger"
	"github.com/drummonds/rasterx/internal/panel"
	"github.com/drummonds/rasterx/internal/session"
)

const (
	hdDivider    = 5
	windowWidth  = 1920 / hdDivider
	windowHeight = 1080 / hdDivider
	sidebarWidth = 64
)

type animation struct {
	s        *session.Session
	win      *engine.Window
	img      *engine.Image
	pf       *frame.PictureFrame
	ball     *panel.BallPanel
	interval time.Duration
	last     time.Time
	frames   int
}

// tick is the loop hook. It redraws at most once per interval.
func (a *animation) tick(any) {
	if time.Since(a.last) < a.interval {
		time.Sleep(time.Millisecond)
		return
	}
	a.last = time.Now()
	a.ball.Tick()
	a.pf.Present(a.s.Conn, a.img, a.win)
	a.frames++
}

func run(fps int) error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	s, err := session.Open(cfg.EngineOptions())
	if err != nil {
		return err
	}
	defer s.Close()

	a := &animation{s: s, interval: time.Second / time.Duration(max(fps, 1))}
	if a.win, err = s.NewWindow(windowWidth, windowHeight, "x11PanelDemo"); err != nil {
		return err
	}
	if a.img, err = s.NewImage(windowWidth, windowHeight); err != nil {
		return err
	}

	a.pf = frame.NewPictureFrame(image.Rect(0, 0, windowWidth, windowHeight))
	side := drawing.ColourNameToRGBA["blue"]
	a.pf.AddPanel(panel.NewPlainPanel(image.Rect(0, 0, sidebarWidth, windowHeight), side))
	a.ball = panel.NewBallPanel(image.Rect(sidebarWidth, 0, windowWidth, windowHeight), 12)
	a.pf.AddPanel(a.ball)

	a.win.InstallKeyHook(func(int, any) { s.Conn.RequestStop() }, nil)
	s.Conn.InstallLoopHook(a.tick, nil)

	start := time.Now()
	if err := s.Run(); err != nil {
		return err
	}
	logger.Info("animation stopped", "frames", a.frames, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func main() {
	var fps int
	cmd := &cobra.Command{
		Use:          "x11PanelDemo",
		Short:        "Animate panels in an X11 window; any key quits",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(fps)
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 30, "frames per second")
	if err := cmd.Execute(); err != nil {
		logger.Fatal(err)
	}
}
