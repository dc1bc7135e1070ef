package erdraw

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera maps between canvas pixels (origin top-left, Y down) and diagram
// space (origin at the viewport center, Y up). It implements Projector;
// backends embed it.
type Camera struct {
	// X and Y are the diagram-space point shown at the viewport center.
	X, Y float64
	// Zoom is the scale factor (1.0 = one diagram unit per pixel).
	Zoom float64
	// Viewport is the canvas-space rectangle the diagram is drawn into.
	Viewport Rect

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool

	scrollTween *scrollAnim
}

// NewCamera creates a Camera at the origin with no zoom.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Zoom:     1.0,
		Viewport: viewport,
		dirty:    true,
	}
}

// Pan moves the camera by (dx, dy) diagram units and cancels any running
// scroll.
func (c *Camera) Pan(dx, dy float64) {
	c.scrollTween = nil
	c.X += dx
	c.Y += dy
	c.dirty = true
}

// SetViewport changes the canvas rectangle, e.g. after a window resize.
func (c *Camera) SetViewport(r Rect) {
	if c.Viewport != r {
		c.Viewport = r
		c.dirty = true
	}
}

// ScrollTo animates the camera to the given diagram position over duration
// seconds.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.Y), float32(y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is in progress.
func (c *Camera) Scrolling() bool {
	return c.scrollTween != nil
}

// Update advances the scroll animation by dt seconds.
func (c *Camera) Update(dt float32) {
	if c.scrollTween == nil {
		return
	}
	if !c.scrollTween.doneX {
		val, done := c.scrollTween.tweenX.Update(dt)
		c.X = float64(val)
		c.scrollTween.doneX = done
	}
	if !c.scrollTween.doneY {
		val, done := c.scrollTween.tweenY.Update(dt)
		c.Y = float64(val)
		c.scrollTween.doneY = done
	}
	if c.scrollTween.doneX && c.scrollTween.doneY {
		c.scrollTween = nil
	}
	c.dirty = true
}

// Size returns the viewport size in diagram units.
func (c *Camera) Size() (width, height float64) {
	return c.Viewport.Width / c.Zoom, c.Viewport.Height / c.Zoom
}

// computeViewMatrix recomputes the cached view matrix if dirty.
//
// viewMatrix = Translate(cx, cy) * Scale(zoom, -zoom) * Translate(-X, -Y)
// where cx, cy = viewport center.
func (c *Camera) computeViewMatrix() [6]float64 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	z := c.Zoom

	c.viewMatrix = multiplyAffine(
		[6]float64{z, 0, 0, -z, cx, cy},
		[6]float64{1, 0, 0, 1, -c.X, -c.Y},
	)
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// SpaceToCanvas converts a diagram-space point to canvas pixels.
func (c *Camera) SpaceToCanvas(p Vec2) Vec2 {
	c.computeViewMatrix()
	x, y := transformPoint(c.viewMatrix, p.X, p.Y)
	return Vec2{x, y}
}

// CanvasToSpace converts canvas pixels to a diagram-space point.
func (c *Camera) CanvasToSpace(p Vec2) Vec2 {
	c.computeViewMatrix()
	x, y := transformPoint(c.invViewMatrix, p.X, p.Y)
	return Vec2{x, y}
}

// ViewMatrix returns the diagram-to-canvas affine matrix [a, b, c, d, tx, ty].
func (c *Camera) ViewMatrix() [6]float64 {
	return c.computeViewMatrix()
}

// VisibleBounds returns the diagram-space rectangle covered by the viewport.
// Y is the bottom edge.
func (c *Camera) VisibleBounds() Rect {
	tl := c.CanvasToSpace(Vec2{c.Viewport.X, c.Viewport.Y})
	br := c.CanvasToSpace(Vec2{c.Viewport.X + c.Viewport.Width, c.Viewport.Y + c.Viewport.Height})
	return Rect{X: tl.X, Y: br.Y, Width: br.X - tl.X, Height: tl.Y - br.Y}
}

// MarkDirty forces a recomputation of the view matrix. Call it after
// changing X, Y or Zoom directly.
func (c *Camera) MarkDirty() {
	c.dirty = true
}
