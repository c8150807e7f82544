package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/phanxgames/vinemotion/ebitenhost"
)

const windowTitle = "vinemotion: Vineyard"

var pageKeys = []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3}

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Width   int
	Height  int
	Page    string
	Overlay bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the windowed demo",
		Long: `Open the vineyard demo in a window.

Controls:
  wheel        scroll
  1, 2, 3      navigate to home, harvest, cellar
  Home / End   animated scroll to top / bottom
  F1           toggle the stats overlay
  Esc          quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Width, "width", pageWidth, "window width")
	cmd.Flags().IntVar(&opts.Height, "height", 640, "window height")
	cmd.Flags().StringVar(&opts.Page, "page", "home", "first page")
	cmd.Flags().BoolVar(&opts.Overlay, "overlay", false, "show the stats overlay")

	return cmd
}

func runDemo(opts *RunOptions, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	logger := opts.logger(cmd.ErrOrStderr())

	host, err := ebitenhost.New(cfg, opts.Width, opts.Height,
		ebitenhost.WithLogger(logger),
		ebitenhost.WithOverlay(opts.Overlay),
		ebitenhost.WithUpdateHook(handleKeys),
	)
	if err != nil {
		return err
	}
	for id, p := range vineyard(nil) {
		host.AddPage(id, p)
	}
	if err := host.Start(opts.Page); err != nil {
		return err
	}

	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(host); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

func handleKeys(h *ebitenhost.Host) error {
	e := h.Engine()
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		e.ScrollTo(0, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		e.ScrollTo(e.State().MaxOffset(), 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		h.SetOverlay(!h.Overlay())
	}
	for i, key := range pageKeys {
		if inpututil.IsKeyJustPressed(key) {
			e.Navigate(pageOrder[i])
		}
	}
	return nil
}
