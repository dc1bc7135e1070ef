// Package ggrender rasterizes an erdraw scene offscreen with fogleman/gg.
// A Canvas is an erdraw.Renderer and an erdraw.ImageSource, so it serves
// both the render command and scene screenshots.
package ggrender

import (
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/phanxgames/erdraw"
)

// DefaultFontSize is the size used for column labels when none is set.
const DefaultFontSize = 12.0

// Options configures a Canvas.
type Options struct {
	FontSize float64
	// Zoom scales diagram units to pixels. Zero means 1.
	Zoom float64
}

type faceKey struct {
	bold bool
	size float64
}

// Canvas is an offscreen raster Renderer.
type Canvas struct {
	*erdraw.Camera

	dc       *gg.Context
	regular  *truetype.Font
	bold     *truetype.Font
	faces    map[faceKey]font.Face
	fontSize float64
}

// New creates a width x height pixel canvas.
func New(width, height int, opts Options) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("ggrender: invalid size %dx%d: %w", width, height, erdraw.ErrNoSurface)
	}
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("ggrender: parse regular font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("ggrender: parse bold font: %w", err)
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	cam := erdraw.NewCamera(erdraw.Rect{Width: float64(width), Height: float64(height)})
	if opts.Zoom > 0 {
		cam.Zoom = opts.Zoom
		cam.MarkDirty()
	}
	return &Canvas{
		Camera:   cam,
		dc:       gg.NewContext(width, height),
		regular:  regular,
		bold:     bold,
		faces:    make(map[faceKey]font.Face),
		fontSize: opts.FontSize,
	}, nil
}

func (c *Canvas) face(style erdraw.TextStyle, scale float64) font.Face {
	size := style.Size
	if size <= 0 {
		size = c.fontSize
	}
	key := faceKey{style.Bold, size * scale}
	if f, ok := c.faces[key]; ok {
		return f
	}
	src := c.regular
	if style.Bold {
		src = c.bold
	}
	f := truetype.NewFace(src, &truetype.Options{Size: key.size, Hinting: font.HintingFull})
	c.faces[key] = f
	return f
}

// Measure returns the extents of s centered on its anchor, in diagram units.
func (c *Canvas) Measure(s string, style erdraw.TextStyle) erdraw.TextMetrics {
	c.dc.SetFontFace(c.face(style, 1))
	w, _ := c.dc.MeasureString(s)
	return erdraw.TextMetrics{Left: w / 2, Right: w / 2}
}

// Clear fills the whole canvas.
func (c *Canvas) Clear(col erdraw.Color) {
	c.dc.SetColor(col.NRGBA())
	c.dc.Clear()
}

func (c *Canvas) rect(center erdraw.Vec2, w, h float64) {
	tl := c.SpaceToCanvas(center.Add(erdraw.Vec2{X: -w / 2, Y: h / 2}))
	c.dc.DrawRectangle(tl.X, tl.Y, w*c.Zoom, h*c.Zoom)
}

// FillRect fills a box given by its center.
func (c *Canvas) FillRect(center erdraw.Vec2, w, h float64, col erdraw.Color) {
	c.rect(center, w, h)
	c.dc.SetColor(col.NRGBA())
	c.dc.Fill()
}

// StrokeRect outlines a box given by its center with a 1px black line.
func (c *Canvas) StrokeRect(center erdraw.Vec2, w, h float64) {
	c.rect(center, w, h)
	c.dc.SetColor(erdraw.ColorBlack.NRGBA())
	c.dc.SetLineWidth(1)
	c.dc.Stroke()
}

// Path strokes an open polyline.
func (c *Canvas) Path(points []erdraw.Vec2, style erdraw.PathStyle) {
	if len(points) < 2 {
		return
	}
	width := style.Width
	if width <= 0 {
		width = 1
	}
	col := erdraw.ColorBlack
	if !style.Color.IsZero() {
		col = style.Color
	}
	c.trace(points)
	c.dc.SetColor(col.NRGBA())
	c.dc.SetLineWidth(width * c.Zoom)
	c.dc.SetLineJoin(gg.LineJoinRound)
	c.dc.Stroke()
}

// FillPath fills a closed polygon.
func (c *Canvas) FillPath(points []erdraw.Vec2, col erdraw.Color) {
	if len(points) < 3 {
		return
	}
	c.trace(points)
	c.dc.ClosePath()
	c.dc.SetColor(col.NRGBA())
	c.dc.Fill()
}

func (c *Canvas) trace(points []erdraw.Vec2) {
	c.dc.NewSubPath()
	for i, p := range points {
		s := c.SpaceToCanvas(p)
		if i == 0 {
			c.dc.MoveTo(s.X, s.Y)
		} else {
			c.dc.LineTo(s.X, s.Y)
		}
	}
}

// Text draws s centered on at.
func (c *Canvas) Text(at erdraw.Vec2, s string, style erdraw.TextStyle) {
	p := c.SpaceToCanvas(at)
	c.dc.SetFontFace(c.face(style, c.Zoom))
	c.dc.SetColor(erdraw.ColorBlack.NRGBA())
	c.dc.DrawStringAnchored(s, p.X, p.Y, 0.5, 0.35)

	if style.Underline {
		w, h := c.dc.MeasureString(s)
		y := math.Round(p.Y+h*0.65) + 0.5
		c.dc.SetLineWidth(1)
		c.dc.DrawLine(p.X-w/2, y, p.X+w/2, y)
		c.dc.Stroke()
	}
}

// Image returns the rendered frame.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// SavePNG writes the rendered frame to path.
func (c *Canvas) SavePNG(path string) error {
	if err := c.dc.SavePNG(path); err != nil {
		return fmt.Errorf("ggrender: save %s: %w", path, err)
	}
	return nil
}
