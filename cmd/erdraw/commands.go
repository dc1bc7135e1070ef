package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/erdraw"
	"github.com/phanxgames/erdraw/ebitenhost"
	"github.com/phanxgames/erdraw/ggrender"
	"github.com/phanxgames/erdraw/internal/config"
	"github.com/phanxgames/erdraw/svgrender"
)

var (
	outPath      string
	writeInPlace bool
	maxFrames    int
	showLog      bool
)

func init() {
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "diagram.png", "Output file (.png or .svg)")
	fmtCmd.Flags().BoolVarP(&writeInPlace, "write", "w", false, "Write the result back to the file")
	scriptCmd.Flags().IntVar(&maxFrames, "max-frames", 10000, "Give up after this many frames")
	scriptCmd.Flags().BoolVar(&showLog, "events", true, "Print click events while the script runs")
}

var renderCmd = &cobra.Command{
	Use:   "render <diagram.json>",
	Short: "Render a diagram to PNG or SVG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		w, h := cfg.Canvas.Width, cfg.Canvas.Height
		switch strings.ToLower(filepath.Ext(outPath)) {
		case ".svg":
			canvas, err := svgrender.New(w, h, svgrender.Options{FontSize: cfg.Canvas.FontSize})
			if err != nil {
				return err
			}
			scene, err := newScene(cfg, log, canvas, args[0])
			if err != nil {
				return err
			}
			scene.Frame()
			canvas.Finish()
			if err := os.WriteFile(outPath, canvas.Bytes(), 0o644); err != nil {
				return err
			}
		case ".png":
			canvas, err := ggrender.New(w, h, ggrender.Options{FontSize: cfg.Canvas.FontSize})
			if err != nil {
				return err
			}
			scene, err := newScene(cfg, log, canvas, args[0])
			if err != nil {
				return err
			}
			scene.Frame()
			if err := canvas.SavePNG(outPath); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unsupported output %q: use .png or .svg", outPath)
		}
		log.Info("rendered", zap.String("in", args[0]), zap.String("out", outPath))
		return nil
	},
}

var viewCmd = &cobra.Command{
	Use:   "view <diagram.json>",
	Short: "Open a diagram in an interactive window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()
		return ebitenhost.Run(runConfig(cfg, log), func(scene *erdraw.Scene) error {
			configure(scene, cfg, log)
			attachEventLog(scene, log)
			return loadFile(scene, args[0])
		})
	},
}

var fmtCmd = &cobra.Command{
	Use:   "fmt <diagram.json>",
	Short: "Validate a diagram, recompute positions and print it in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		canvas, err := svgrender.New(cfg.Canvas.Width, cfg.Canvas.Height, svgrender.Options{FontSize: cfg.Canvas.FontSize})
		if err != nil {
			return err
		}
		scene, err := newScene(cfg, log, canvas, args[0])
		if err != nil {
			return err
		}
		scene.Frame()
		data, err := scene.Export()
		if err != nil {
			return err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, data, "", "  "); err != nil {
			return err
		}
		out.WriteByte('\n')
		if writeInPlace {
			return os.WriteFile(args[0], out.Bytes(), 0o644)
		}
		_, err = cmd.OutOrStdout().Write(out.Bytes())
		return err
	},
}

var scriptCmd = &cobra.Command{
	Use:   "script <diagram.json> <script.json>",
	Short: "Drive a diagram headlessly with a test script and write its screenshots",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		data, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}
		runner, err := erdraw.LoadTestScript(data)
		if err != nil {
			return err
		}
		canvas, err := ggrender.New(cfg.Canvas.Width, cfg.Canvas.Height, ggrender.Options{FontSize: cfg.Canvas.FontSize})
		if err != nil {
			return err
		}
		scene, err := newScene(cfg, log, canvas, args[0])
		if err != nil {
			return err
		}
		if showLog {
			attachEventLog(scene, log)
		}
		scene.SetTestRunner(runner)

		for frame := 0; !runner.Done(); frame++ {
			if frame >= maxFrames {
				return fmt.Errorf("script did not finish within %d frames", maxFrames)
			}
			scene.Frame()
		}
		// One more frame flushes a screenshot queued by the last step.
		scene.Frame()
		log.Info("script finished", zap.String("screenshots", cfg.ScreenshotDir))
		return nil
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy <diagram.json>",
	Short: "Copy a diagram's canonical JSON to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		canvas, err := svgrender.New(cfg.Canvas.Width, cfg.Canvas.Height, svgrender.Options{FontSize: cfg.Canvas.FontSize})
		if err != nil {
			return err
		}
		scene, err := newScene(cfg, log, canvas, args[0])
		if err != nil {
			return err
		}
		scene.Frame()
		data, err := scene.Export()
		if err != nil {
			return err
		}
		if err := clipboard.WriteAll(string(data)); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		log.Info("copied", zap.Int("bytes", len(data)))
		return nil
	},
}

func runConfig(cfg *config.Config, log *zap.Logger) ebitenhost.RunConfig {
	return ebitenhost.RunConfig{
		Title:          cfg.Window.Title,
		Width:          cfg.Canvas.Width,
		Height:         cfg.Canvas.Height,
		FontSize:       cfg.Canvas.FontSize,
		ShowFPS:        cfg.Window.ShowFPS,
		ShowAddButtons: cfg.Canvas.ShowAddButtons,
		Debug:          cfg.Debug,
		ScreenshotDir:  cfg.ScreenshotDir,
		Logger:         log,
	}
}

// attachEventLog logs every click the scene reports.
func attachEventLog(scene *erdraw.Scene, log *zap.Logger) {
	scene.OnElementClicked(func(ctx erdraw.ClickContext) {
		log.Info("element clicked",
			zap.Stringer("kind", ctx.Element.Kind),
			zap.String("name", elementName(ctx.Element)),
			zap.Float64("page_x", ctx.PagePos.X),
			zap.Float64("page_y", ctx.PagePos.Y))
	})
	scene.OnElementDoubleClicked(func(e *erdraw.Element) {
		log.Info("element double-clicked", zap.Stringer("kind", e.Kind), zap.String("name", elementName(e)))
	})
	scene.OnClick(func(ev erdraw.PointerEvent) {
		log.Info("background clicked", zap.Float64("x", ev.CanvasPos.X), zap.Float64("y", ev.CanvasPos.Y))
	})
}

func elementName(e *erdraw.Element) string {
	switch e.Kind {
	case erdraw.KindTable:
		return e.Name
	case erdraw.KindColumn:
		return e.Label
	default:
		return ""
	}
}
