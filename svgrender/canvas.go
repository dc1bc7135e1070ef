// Package svgrender writes an erdraw scene as SVG with ajstarks/svgo.
// Text is measured with the Go fonts through opentype so the layout matches
// the raster backends.
package svgrender

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/phanxgames/erdraw"
)

// DefaultFontSize is the size used for column labels when none is set.
const DefaultFontSize = 12.0

// Options configures a Canvas.
type Options struct {
	FontSize float64
	// FontFamily is written into text styles. Empty means "sans-serif".
	FontFamily string
}

type faceKey struct {
	bold bool
	size float64
}

// Canvas is a Renderer that records drawing calls as SVG elements.
// Call Finish before reading Bytes.
type Canvas struct {
	*erdraw.Camera

	buf      bytes.Buffer
	svg      *svg.SVG
	regular  *opentype.Font
	bold     *opentype.Font
	faces    map[faceKey]font.Face
	fontSize float64
	family   string
	finished bool
}

// New starts a width x height SVG document.
func New(width, height int, opts Options) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("svgrender: invalid size %dx%d: %w", width, height, erdraw.ErrNoSurface)
	}
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("svgrender: parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("svgrender: parse bold font: %w", err)
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	if opts.FontFamily == "" {
		opts.FontFamily = "sans-serif"
	}
	c := &Canvas{
		Camera:   erdraw.NewCamera(erdraw.Rect{Width: float64(width), Height: float64(height)}),
		regular:  regular,
		bold:     bold,
		faces:    make(map[faceKey]font.Face),
		fontSize: opts.FontSize,
		family:   opts.FontFamily,
	}
	c.svg = svg.New(&c.buf)
	c.svg.Start(width, height)
	return c, nil
}

func (c *Canvas) size(style erdraw.TextStyle) float64 {
	if style.Size > 0 {
		return style.Size
	}
	return c.fontSize
}

func (c *Canvas) face(style erdraw.TextStyle) (font.Face, error) {
	key := faceKey{style.Bold, c.size(style)}
	if f, ok := c.faces[key]; ok {
		return f, nil
	}
	src := c.regular
	if style.Bold {
		src = c.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{Size: key.size, DPI: 72, Hinting: font.HintingNone})
	if err != nil {
		return nil, err
	}
	c.faces[key] = f
	return f, nil
}

// Measure returns the extents of s centered on its anchor, in diagram units.
// An unusable face measures as zero width.
func (c *Canvas) Measure(s string, style erdraw.TextStyle) erdraw.TextMetrics {
	f, err := c.face(style)
	if err != nil {
		return erdraw.TextMetrics{}
	}
	w := float64(font.MeasureString(f, s)) / 64
	return erdraw.TextMetrics{Left: w / 2, Right: w / 2}
}

func px(v float64) int {
	return int(math.Round(v))
}

func fill(col erdraw.Color) string {
	n := col.NRGBA()
	return fmt.Sprintf("fill:rgb(%d,%d,%d);fill-opacity:%.3g", n.R, n.G, n.B, col.A)
}

func stroke(col erdraw.Color, width float64) string {
	n := col.NRGBA()
	return fmt.Sprintf("fill:none;stroke:rgb(%d,%d,%d);stroke-opacity:%.3g;stroke-width:%.3g;stroke-linejoin:round",
		n.R, n.G, n.B, col.A, width)
}

// Clear paints the background. Anything drawn earlier stays in the document
// underneath.
func (c *Canvas) Clear(col erdraw.Color) {
	c.svg.Rect(0, 0, px(c.Viewport.Width), px(c.Viewport.Height), fill(col))
}

func (c *Canvas) rect(center erdraw.Vec2, w, h float64) (x, y, sw, sh int) {
	tl := c.SpaceToCanvas(center.Add(erdraw.Vec2{X: -w / 2, Y: h / 2}))
	return px(tl.X), px(tl.Y), px(w * c.Zoom), px(h * c.Zoom)
}

// FillRect fills a box given by its center.
func (c *Canvas) FillRect(center erdraw.Vec2, w, h float64, col erdraw.Color) {
	x, y, sw, sh := c.rect(center, w, h)
	c.svg.Rect(x, y, sw, sh, fill(col))
}

// StrokeRect outlines a box given by its center with a 1px black line.
func (c *Canvas) StrokeRect(center erdraw.Vec2, w, h float64) {
	x, y, sw, sh := c.rect(center, w, h)
	c.svg.Rect(x, y, sw, sh, stroke(erdraw.ColorBlack, 1))
}

func (c *Canvas) project(points []erdraw.Vec2) (xs, ys []int) {
	xs = make([]int, len(points))
	ys = make([]int, len(points))
	for i, p := range points {
		s := c.SpaceToCanvas(p)
		xs[i], ys[i] = px(s.X), px(s.Y)
	}
	return xs, ys
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
	xs, ys := c.project(points)
	c.svg.Polyline(xs, ys, stroke(col, width*c.Zoom))
}

// FillPath fills a closed polygon.
func (c *Canvas) FillPath(points []erdraw.Vec2, col erdraw.Color) {
	if len(points) < 3 {
		return
	}
	xs, ys := c.project(points)
	c.svg.Polygon(xs, ys, fill(col))
}

// Text draws s centered on at.
func (c *Canvas) Text(at erdraw.Vec2, s string, style erdraw.TextStyle) {
	p := c.SpaceToCanvas(at)
	st := fmt.Sprintf("text-anchor:middle;dominant-baseline:central;font-family:%s;font-size:%.3gpx;fill:black",
		c.family, c.size(style)*c.Zoom)
	if style.Bold {
		st += ";font-weight:bold"
	}
	if style.Underline {
		st += ";text-decoration:underline"
	}
	c.svg.Text(px(p.X), px(p.Y), s, st)
}

// Finish closes the SVG document. Drawing after Finish is not allowed.
func (c *Canvas) Finish() {
	if c.finished {
		return
	}
	c.svg.End()
	c.finished = true
}

// Bytes returns the document written so far. Call Finish first for a
// complete file.
func (c *Canvas) Bytes() []byte {
	return c.buf.Bytes()
}
