package ebitenhost

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"

	"github.com/phanxgames/erdraw"
)

const (
	doubleClickInterval = 400 * time.Millisecond
	doubleClickSlop     = 4.0
	panStep             = 10.0
	homeScrollSeconds   = 0.4
)

var buttonMap = []struct {
	ebiten ebiten.MouseButton
	erdraw erdraw.MouseButton
}{
	{ebiten.MouseButtonLeft, erdraw.MouseButtonLeft},
	{ebiten.MouseButtonMiddle, erdraw.MouseButtonMiddle},
	{ebiten.MouseButtonRight, erdraw.MouseButtonRight},
}

// Game implements ebiten.Game for a scene. Update turns native input into
// scene input primitives; Draw runs one scene frame.
type Game struct {
	scene    *erdraw.Scene
	renderer *Renderer
	log      *zap.Logger
	fps      *fpsOverlay

	inside    bool
	last      erdraw.Vec2
	lastClick time.Time
	clickPos  erdraw.Vec2
}

// NewGame wires a scene to its ebiten renderer.
func NewGame(scene *erdraw.Scene, r *Renderer, showFPS bool, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Game{scene: scene, renderer: r, log: log}
	if showFPS {
		g.fps = newFPSOverlay()
	}
	return g
}

// Update processes keyboard and pointer input and advances the camera.
func (g *Game) Update() error {
	g.renderer.Update(float32(1.0 / float64(ebiten.TPS())))
	g.handleKeys()
	g.handlePointer()

	if g.scene.Hovering() {
		ebiten.SetCursorShape(ebiten.CursorShapePointer)
	} else {
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
	if g.fps != nil {
		g.fps.update(1.0 / float64(ebiten.TPS()))
	}
	return nil
}

func (g *Game) handleKeys() {
	step := panStep / g.renderer.Zoom
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowLeft):
		g.renderer.Pan(-step, 0)
	case ebiten.IsKeyPressed(ebiten.KeyArrowRight):
		g.renderer.Pan(step, 0)
	case ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		g.renderer.Pan(0, step)
	case ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		g.renderer.Pan(0, -step)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		g.renderer.ScrollTo(0, 0, homeScrollSeconds, ease.OutCubic)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyDiagram()
	}
}

func (g *Game) copyDiagram() {
	data, err := g.scene.Export()
	if err != nil {
		g.log.Error("export diagram", zap.Error(err))
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		g.log.Warn("copy to clipboard", zap.Error(err))
		return
	}
	g.log.Info("diagram copied to clipboard", zap.Int("bytes", len(data)))
}

func (g *Game) handlePointer() {
	mx, my := ebiten.CursorPosition()
	pos := erdraw.Vec2{X: float64(mx), Y: float64(my)}
	w, h := g.renderer.Viewport.Width, g.renderer.Viewport.Height
	inside := pos.X >= 0 && pos.Y >= 0 && pos.X < w && pos.Y < h

	switch {
	case inside && !g.inside:
		g.scene.PointerEnter(pos)
	case !inside && g.inside:
		g.scene.PointerLeave()
	case inside && pos != g.last:
		g.scene.PointerMove(pos, pos.Sub(g.last))
	}
	g.inside = inside
	g.last = pos

	for _, b := range buttonMap {
		if inpututil.IsMouseButtonJustPressed(b.ebiten) {
			g.scene.PointerDown(b.erdraw)
		}
		if inpututil.IsMouseButtonJustReleased(b.ebiten) {
			g.scene.PointerUp(erdraw.PointerEvent{Button: b.erdraw, CanvasPos: pos})
			if b.erdraw == erdraw.MouseButtonLeft {
				g.detectDoubleClick(pos)
			}
		}
	}
}

// detectDoubleClick fires a double click when two left releases land close
// together in space and time.
func (g *Game) detectDoubleClick(pos erdraw.Vec2) {
	now := time.Now()
	if now.Sub(g.lastClick) <= doubleClickInterval && pos.DistanceTo(g.clickPos) <= doubleClickSlop {
		g.scene.DoubleClick()
		g.lastClick = time.Time{}
		return
	}
	g.lastClick = now
	g.clickPos = pos
}

// Draw runs one scene frame onto the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetTarget(screen)
	g.scene.Frame()
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

// Layout reports the screen size equal to the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
