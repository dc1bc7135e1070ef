// Package ebitenhost opens an interactive window for an erdraw scene using
// Ebitengine: it draws through a Renderer built on ebiten's vector and text
// packages and turns native mouse and keyboard input into scene input.
//
// Keys: arrows pan, Home scrolls back to the origin, C copies the diagram
// JSON to the clipboard.
package ebitenhost

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/phanxgames/erdraw"
)

// RunConfig configures the window and scene created by Run.
type RunConfig struct {
	Title          string
	Width, Height  int
	FontSize       float64
	ShowFPS        bool
	ShowAddButtons bool
	Debug          bool
	ScreenshotDir  string
	Logger         *zap.Logger

	// TestScript, when set, drives the scene with a JSON test script
	// (see erdraw.LoadTestScript).
	TestScript []byte
}

// Run creates a renderer and scene, lets build populate the scene, and runs
// the window until it is closed.
func Run(cfg RunConfig, build func(*erdraw.Scene) error) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 800, 600
	}
	r, err := NewRenderer(cfg.Width, cfg.Height, cfg.FontSize)
	if err != nil {
		return err
	}
	scene, err := erdraw.NewScene(r)
	if err != nil {
		return err
	}
	scene.SetLogger(cfg.Logger)
	scene.SetDebugMode(cfg.Debug)
	scene.SetShowAddButtons(cfg.ShowAddButtons)
	if cfg.ScreenshotDir != "" {
		scene.ScreenshotDir = cfg.ScreenshotDir
	}
	if cfg.TestScript != nil {
		runner, err := erdraw.LoadTestScript(cfg.TestScript)
		if err != nil {
			return err
		}
		scene.SetTestRunner(runner)
	}
	if build != nil {
		if err := build(scene); err != nil {
			return fmt.Errorf("ebitenhost: build scene: %w", err)
		}
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(NewGame(scene, r, cfg.ShowFPS, cfg.Logger))
}
