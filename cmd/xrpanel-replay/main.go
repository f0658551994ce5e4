// xrpanel-replay drives an element picker from a scripted input file and
// prints every synthesized pointer event, one per line. It is used to check
// hover, press and click timing without a headset.
//
// Usage:
//
//	xrpanel-replay --layout panel.yaml --script click.jsonc [--config picker.yaml]
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/phanxgames/xrpanel"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var (
		configPath string
		scriptPath string
		layoutPath string
		dt         float64
		maxFrames  int
		verbose    bool
	)

	flagSet := pflag.NewFlagSet("xrpanel-replay", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&configPath, "config", "", "picker timing config (YAML); defaults apply when empty")
	flagSet.StringVar(&scriptPath, "script", "", "input script (JSON with comments)")
	flagSet.StringVar(&layoutPath, "layout", "", "panel layout (YAML)")
	flagSet.Float64Var(&dt, "dt", 1.0/60, "seconds per frame")
	flagSet.IntVar(&maxFrames, "frames", 600, "stop after this many frames")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log picker diagnostics to stderr")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if scriptPath == "" || layoutPath == "" {
		return fmt.Errorf("--script and --layout are required")
	}
	if dt <= 0 {
		return fmt.Errorf("--dt must be positive, got %v", dt)
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := xrpanel.DefaultPickerConfig()
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		cfg, err = xrpanel.ParsePickerConfig(data)
		if err != nil {
			return err
		}
	}

	layoutData, err := os.ReadFile(layoutPath)
	if err != nil {
		return fmt.Errorf("read layout: %w", err)
	}
	doc, err := parseLayout(layoutData)
	if err != nil {
		return err
	}

	scriptData, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	script, err := xrpanel.LoadInputScript(scriptData)
	if err != nil {
		return err
	}

	logger.Debug("replay starting",
		"layout", layoutPath,
		"script", scriptPath,
		"panel_width", doc.Width,
		"panel_height", doc.Height,
		"pivot", doc.Pivot.String(),
		"dt", dt,
	)

	frames := replay(doc, script, cfg, dt, maxFrames, stdout, verbose, stderr)

	if !script.Done() {
		logger.Warn("script did not finish", "frames", frames)
	} else {
		logger.Debug("replay finished", "frames", frames)
	}
	return nil
}

// replay runs script against doc and writes one line per event to out.
func replay(doc *xrpanel.Document, script *xrpanel.ScriptRunner, cfg xrpanel.PickerConfig, dt float64, maxFrames int, out io.Writer, debug bool, debugOut io.Writer) int {
	picker := xrpanel.NewElementPicker(doc, script, cfg)
	picker.SetBlocker(xrpanel.NewInteractionBlocker())
	picker.SetDebugMode(debug)
	picker.SetDebugOutput(debugOut)

	picker.OnPointerEvent(func(e xrpanel.PointerEvent) {
		target := "<none>"
		if e.Target != nil {
			target = e.Target.Name
		}
		fmt.Fprintf(out, "t=%.3f %s hand=%s id=%d target=%s pos=(%.1f,%.1f) pressed=%d\n",
			picker.Now(), e.Type, e.Hand, e.PointerID, target,
			e.Position.X, e.Position.Y, e.PressedButtons)
	})

	frames := xrpanel.RunScript(picker, script, dt, maxFrames)
	picker.Shutdown()
	return frames
}
