package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/vinemotion"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Script    string
	FPS       int
	MaxFrames int
	Page      string
	Viewport  float64
}

// SimulateReport is what a headless run produced.
type SimulateReport struct {
	Frames      int     `json:"frames"`
	Elapsed     string  `json:"elapsed"`
	Page        string  `json:"page"`
	Phase       string  `json:"phase"`
	Scroll      float64 `json:"scroll"`
	MaxScroll   float64 `json:"max_scroll"`
	Triggers    int     `json:"triggers"`
	Active      int     `json:"active_triggers"`
	Springs     int     `json:"springs"`
	Transitions int     `json:"transitions"`
	Completed   bool    `json:"completed"`
	Events      []event `json:"events"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay an input script headlessly",
		Long: `Replay a YAML or JSON input script against the vineyard demo pages at a
fixed frame rate, without a window, and report trigger events, the final
scroll position and the transition state.

Script actions: scroll, scrollTo, pointer, exit, navigate, settle, wait.

Examples:
  vinemotion simulate --script tour.yaml
  vinemotion simulate --script tour.yaml --fps 30 --format json`,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Script, "script", "s", "", "input script (required)")
	_ = cmd.MarkFlagRequired("script")
	cmd.Flags().IntVar(&opts.FPS, "fps", 60, "simulated frame rate")
	cmd.Flags().IntVar(&opts.MaxFrames, "max-frames", 36000, "stop after this many frames")
	cmd.Flags().StringVar(&opts.Page, "page", "home", "first page")
	cmd.Flags().Float64Var(&opts.Viewport, "viewport", 640, "viewport height")

	return cmd
}

func runSimulate(opts *SimulateOptions, cmd *cobra.Command) error {
	if opts.FPS <= 0 {
		return fmt.Errorf("--fps must be positive (got %d)", opts.FPS)
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(opts.Script)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	runner, err := vinemotion.ParseScript(data)
	if err != nil {
		return err
	}

	report, err := simulate(cfg, runner, opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), opts.Format, report)
}

// simulate runs the script against the demo pages. Page content is swapped
// and re-measured as soon as the engine mounts a new view, the way the
// windowed host does it.
func simulate(cfg vinemotion.Config, runner *vinemotion.ScriptRunner, opts *SimulateOptions, logOut io.Writer) (*SimulateReport, error) {
	report := &SimulateReport{}
	var e *vinemotion.Engine
	record := func(page, box, kind string) {
		report.Events = append(report.Events, event{Frame: e.Clock().Seq(), Page: page, Box: box, Kind: kind})
	}
	pages := vineyard(record)

	views := func(id string) (vinemotion.View, bool) {
		p, ok := pages[id]
		if !ok {
			return nil, false
		}
		return p, true
	}
	layout := vinemotion.LayoutFunc(func() (float64, float64) {
		ch := opts.Viewport
		if p, ok := pages[e.Lifecycle().Current()]; ok {
			ch = max(ch, p.height)
		}
		return opts.Viewport, ch
	})

	e, err := vinemotion.New(cfg,
		vinemotion.WithLogger(opts.logger(logOut)),
		vinemotion.WithViews(views),
		vinemotion.WithLayout(layout),
	)
	if err != nil {
		return nil, err
	}
	if !e.Mount(opts.Page) {
		return nil, fmt.Errorf("unknown page %q", opts.Page)
	}
	_, ch := layout.Measure()
	e.Init(opts.Viewport, ch)

	dt := time.Second / time.Duration(opts.FPS)
	shown := opts.Page
	for !runner.Done() && runner.Frames() < opts.MaxFrames {
		runner.Step(e, dt)
		if cur := e.Lifecycle().Current(); cur != "" && cur != shown {
			shown = cur
			report.Transitions++
			e.NavigationSettled()
		}
	}

	stats := e.Stats()
	state := e.State()
	report.Frames = runner.Frames()
	report.Elapsed = (time.Duration(runner.Frames()) * dt).String()
	report.Page = e.Lifecycle().Current()
	report.Phase = e.Phase().String()
	report.Scroll = state.SmoothedOffset
	report.MaxScroll = state.MaxOffset()
	report.Triggers = stats.Triggers
	report.Active = stats.ActiveTriggers
	report.Springs = stats.Springs
	report.Completed = runner.Done()
	return report, nil
}

func writeReport(w io.Writer, format string, r *SimulateReport) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	for _, ev := range r.Events {
		fmt.Fprintln(w, ev)
	}
	if len(r.Events) > 0 {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "frames:      %d (%s)\n", r.Frames, r.Elapsed)
	fmt.Fprintf(w, "page:        %s (%s)\n", r.Page, r.Phase)
	fmt.Fprintf(w, "scroll:      %.1f / %.1f\n", r.Scroll, r.MaxScroll)
	fmt.Fprintf(w, "triggers:    %d (%d active)\n", r.Triggers, r.Active)
	fmt.Fprintf(w, "springs:     %d\n", r.Springs)
	fmt.Fprintf(w, "transitions: %d\n", r.Transitions)
	if !r.Completed {
		fmt.Fprintln(w, "script did not finish within --max-frames")
	}
	return nil
}
