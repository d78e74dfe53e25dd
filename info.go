package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/drummonds/rasterx/internal/engine"
	"github.com/drummonds/rasterx/internal/visual"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(20)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what was negotiated with the X server",
	Long:  `Open a connection and print the selected visual, colormap ownership, channel layout and MIT-SHM capability.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		conn, err := engine.Open(cfg.EngineOptions())
		if err != nil {
			return fmt.Errorf("failed to open display: %w", err)
		}
		defer conn.Close()

		fmt.Println(formatInfo(conn))
		return nil
	},
}

func formatChannel(c visual.Channel) string {
	return fmt.Sprintf("shift %2d width %d (mask 0x%06x)", c.Shift, c.Width, c.Mask())
}

func formatInfo(conn *engine.Connection) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	v := conn.Visual()
	w, h := conn.ScreenSize()
	row("Target", conn.Server().Target())
	row("Screen", fmt.Sprintf("%d (%dx%d)", conn.Screen().Number, w, h))
	row("Visual", fmt.Sprintf("%#x %s depth %d", v.ID, v.Class, v.Depth))
	cmap := "default"
	if conn.PrivateColormap() {
		cmap = "private"
	}
	row("Colormap", fmt.Sprintf("%#x (%s)", conn.Colormap(), cmap))
	row("Red", formatChannel(conn.Layout().Red))
	row("Green", formatChannel(conn.Layout().Green))
	row("Blue", formatChannel(conn.Layout().Blue))

	shm := conn.Shm()
	switch {
	case !shm.Usable:
		row("MIT-SHM", "not usable")
	case shm.PixmapFormat < 0:
		row("MIT-SHM", "images only")
	default:
		row("MIT-SHM", fmt.Sprintf("images and pixmaps (format %d)", shm.PixmapFormat))
	}

	return titleStyle.Render("rasterx") + "\n" + boxStyle.Render(strings.TrimSuffix(b.String(), "\n"))
}
