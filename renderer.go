package erdraw

import "image"

// TextStyle selects the font variant used to draw or measure a string.
type TextStyle struct {
	Bold      bool
	Size      float64 // 0 = backend default
	Underline bool
}

// titleStyle is the font used for table names.
var titleStyle = TextStyle{Bold: true, Size: titleFontSize}

// TextMetrics holds the horizontal bounding-box extents of measured text,
// relative to the point the text is anchored on.
type TextMetrics struct {
	Left, Right float64
}

// Width returns the full bounding-box width.
func (m TextMetrics) Width() float64 {
	return m.Left + m.Right
}

// PathStyle controls how an open polyline is stroked. The zero value is a
// 1-unit black line.
type PathStyle struct {
	Width float64
	Color Color
}

// Measurer measures text. Layout only needs this part of a backend.
type Measurer interface {
	Measure(s string, style TextStyle) TextMetrics
}

// Projector converts between canvas coordinates (pixels, origin top-left,
// Y down) and diagram space (origin at the canvas center, Y up).
type Projector interface {
	CanvasToSpace(p Vec2) Vec2
	SpaceToCanvas(p Vec2) Vec2
}

// Renderer is the drawing surface the scene draws onto. All geometry is in
// diagram space; rectangles are given by their center.
type Renderer interface {
	Measurer
	Projector

	// Size returns the canvas size in diagram units.
	Size() (width, height float64)
	Clear(c Color)
	FillRect(center Vec2, width, height float64, c Color)
	StrokeRect(center Vec2, width, height float64)
	Path(points []Vec2, style PathStyle)
	FillPath(points []Vec2, c Color)
	Text(at Vec2, s string, style TextStyle)
}

// ImageSource is implemented by renderers that can hand back the rendered
// frame as an image (used by Screenshot).
type ImageSource interface {
	Image() image.Image
}
