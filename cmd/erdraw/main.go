package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/erdraw"
	"github.com/phanxgames/erdraw/internal/config"
)

var (
	rootCmd = &cobra.Command{
		Use:           "erdraw",
		Short:         "Lay out, render and explore ER diagrams",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "erdraw:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(scriptCmd)
	rootCmd.AddCommand(copyCmd)
}

// setup loads the config and builds the logger shared by every command.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	log, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// newScene creates a scene on r configured from cfg and loads the diagram
// file at path into it.
func newScene(cfg *config.Config, log *zap.Logger, r erdraw.Renderer, path string) (*erdraw.Scene, error) {
	scene, err := erdraw.NewScene(r)
	if err != nil {
		return nil, err
	}
	configure(scene, cfg, log)
	if err := loadFile(scene, path); err != nil {
		return nil, err
	}
	return scene, nil
}

func configure(scene *erdraw.Scene, cfg *config.Config, log *zap.Logger) {
	scene.SetLogger(log)
	scene.SetDebugMode(cfg.Debug)
	scene.SetShowAddButtons(cfg.Canvas.ShowAddButtons)
	scene.SetPageOffset(erdraw.Vec2{X: cfg.Canvas.PageOffset[0], Y: cfg.Canvas.PageOffset[1]})
	scene.ScreenshotDir = cfg.ScreenshotDir
}

func loadFile(scene *erdraw.Scene, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := scene.Load(data); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
