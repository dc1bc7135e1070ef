package ebitenhost

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/phanxgames/erdraw"
)

// DefaultFontSize is the size used for column labels when none is set.
const DefaultFontSize = 12.0

// Renderer draws a diagram onto an ebiten image. The embedded Camera maps
// diagram space to screen pixels.
type Renderer struct {
	*erdraw.Camera

	target   *ebiten.Image
	regular  *text.GoTextFaceSource
	bold     *text.GoTextFaceSource
	fontSize float64
}

// NewRenderer creates a renderer for a width x height screen using the Go
// fonts.
func NewRenderer(width, height int, fontSize float64) (*Renderer, error) {
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("ebitenhost: load regular font: %w", err)
	}
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("ebitenhost: load bold font: %w", err)
	}
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	return &Renderer{
		Camera:   erdraw.NewCamera(erdraw.Rect{Width: float64(width), Height: float64(height)}),
		regular:  regular,
		bold:     bold,
		fontSize: fontSize,
	}, nil
}

// SetTarget sets the image the next frame draws onto. Drawing without a
// target is a no-op.
func (r *Renderer) SetTarget(img *ebiten.Image) {
	r.target = img
	if img != nil {
		b := img.Bounds()
		r.SetViewport(erdraw.Rect{Width: float64(b.Dx()), Height: float64(b.Dy())})
	}
}

func (r *Renderer) face(style erdraw.TextStyle, scale float64) *text.GoTextFace {
	src := r.regular
	if style.Bold {
		src = r.bold
	}
	size := style.Size
	if size <= 0 {
		size = r.fontSize
	}
	return &text.GoTextFace{Source: src, Size: size * scale}
}

// Measure returns the extents of s centered on its anchor, in diagram units.
func (r *Renderer) Measure(s string, style erdraw.TextStyle) erdraw.TextMetrics {
	w := text.Advance(s, r.face(style, 1))
	return erdraw.TextMetrics{Left: w / 2, Right: w / 2}
}

// Clear fills the whole target.
func (r *Renderer) Clear(c erdraw.Color) {
	if r.target == nil {
		return
	}
	r.target.Fill(c.NRGBA())
}

// screenRect returns the top-left corner and size of a diagram-space box in
// screen pixels.
func (r *Renderer) screenRect(center erdraw.Vec2, w, h float64) (x, y, sw, sh float32) {
	tl := r.SpaceToCanvas(center.Add(erdraw.Vec2{X: -w / 2, Y: h / 2}))
	return float32(tl.X), float32(tl.Y), float32(w * r.Zoom), float32(h * r.Zoom)
}

// FillRect fills a box given by its center.
func (r *Renderer) FillRect(center erdraw.Vec2, w, h float64, c erdraw.Color) {
	if r.target == nil {
		return
	}
	x, y, sw, sh := r.screenRect(center, w, h)
	vector.DrawFilledRect(r.target, x, y, sw, sh, c.NRGBA(), true)
}

// StrokeRect outlines a box given by its center with a 1px black line.
func (r *Renderer) StrokeRect(center erdraw.Vec2, w, h float64) {
	if r.target == nil {
		return
	}
	x, y, sw, sh := r.screenRect(center, w, h)
	vector.StrokeRect(r.target, x, y, sw, sh, 1, color.Black, true)
}

// Path strokes an open polyline.
func (r *Renderer) Path(points []erdraw.Vec2, style erdraw.PathStyle) {
	if r.target == nil || len(points) < 2 {
		return
	}
	width := style.Width
	if width <= 0 {
		width = 1
	}
	clr := erdraw.ColorBlack
	if !style.Color.IsZero() {
		clr = style.Color
	}
	prev := r.SpaceToCanvas(points[0])
	for _, p := range points[1:] {
		cur := r.SpaceToCanvas(p)
		vector.StrokeLine(r.target,
			float32(prev.X), float32(prev.Y), float32(cur.X), float32(cur.Y),
			float32(width*r.Zoom), clr.NRGBA(), true)
		prev = cur
	}
}

// FillPath fills a closed polygon as a triangle fan from its first point.
// The arrowhead is the only polygon drawn and is fan-convex from its tip.
func (r *Renderer) FillPath(points []erdraw.Vec2, c erdraw.Color) {
	if r.target == nil || len(points) < 3 {
		return
	}
	verts, inds := buildFan(points, r.SpaceToCanvas, c)
	r.target.DrawTriangles(verts, inds, whitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// Text draws s centered on at.
func (r *Renderer) Text(at erdraw.Vec2, s string, style erdraw.TextStyle) {
	if r.target == nil {
		return
	}
	p := r.SpaceToCanvas(at)
	face := r.face(style, r.Zoom)

	op := &text.DrawOptions{}
	op.GeoM.Translate(p.X, p.Y)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleWithColor(color.Black)
	text.Draw(r.target, s, face, op)

	if style.Underline {
		w := text.Advance(s, face)
		y := float32(p.Y + face.Size/2)
		vector.StrokeLine(r.target, float32(p.X-w/2), y, float32(p.X+w/2), y, 1, color.Black, true)
	}
}

// Image reads the target back as a straight-alpha image.
func (r *Renderer) Image() image.Image {
	if r.target == nil {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	bounds := r.target.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	r.target.ReadPixels(pixels)

	// Convert premultiplied RGBA to straight-alpha NRGBA.
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(pixels); i += 4 {
		cr, cg, cb, ca := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if ca > 0 && ca < 255 {
			cr = uint8(min(int(cr)*255/int(ca), 255))
			cg = uint8(min(int(cg)*255/int(ca), 255))
			cb = uint8(min(int(cb)*255/int(ca), 255))
		}
		img.Pix[i] = cr
		img.Pix[i+1] = cg
		img.Pix[i+2] = cb
		img.Pix[i+3] = ca
	}
	return img
}

// --- White pixel singleton (single-threaded: no sync.Once) ---

var whitePixelImage *ebiten.Image

func whitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}

// buildFan triangulates points as a fan around points[0], projecting each
// vertex to screen space.
func buildFan(points []erdraw.Vec2, project func(erdraw.Vec2) erdraw.Vec2, c erdraw.Color) ([]ebiten.Vertex, []uint16) {
	verts := make([]ebiten.Vertex, len(points))
	for i, p := range points {
		s := project(p)
		verts[i] = ebiten.Vertex{
			DstX: float32(s.X), DstY: float32(s.Y),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: float32(c.R), ColorG: float32(c.G), ColorB: float32(c.B), ColorA: float32(c.A),
		}
	}
	inds := make([]uint16, 0, 3*(len(points)-2))
	for i := 1; i+1 < len(points); i++ {
		inds = append(inds, 0, uint16(i), uint16(i+1))
	}
	return verts, inds
}
