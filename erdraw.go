package erdraw

import (
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

var (
	// ColorWhite is the background and box fill.
	ColorWhite = Color{1, 1, 1, 1}
	// ColorBlack is the default stroke and text color.
	ColorBlack = Color{0, 0, 0, 1}
	// ColorHighlight is drawn over the selected element.
	ColorHighlight = Color{200.0 / 255, 200.0 / 255, 1, 0.5}
)

// IsZero reports whether c is the zero Color, which backends treat as
// "use the default".
func (c Color) IsZero() bool {
	return c == Color{}
}

// NRGBA converts c to a straight-alpha color.NRGBA for image backends.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R)*255 + 0.5),
		G: uint8(clamp01(c.G)*255 + 0.5),
		B: uint8(clamp01(c.B)*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}

// Vec2 is a 2D point in diagram space. It is a value type; every operation
// returns a new Vec2.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Times scales both components by k.
func (v Vec2) Times(k float64) Vec2 {
	return Vec2{v.X * k, v.Y * k}
}

// DistanceTo returns the Euclidean distance between v and o.
func (v Vec2) DistanceTo(o Vec2) float64 {
	return math.Hypot(o.X-v.X, o.Y-v.Y)
}

// Rect is an axis-aligned rectangle anchored at its minimum corner.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether p lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// centeredRect returns the rectangle of size (w, h) centered on c.
func centeredRect(c Vec2, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
}

// ElementKind distinguishes the closed set of diagram element variants.
type ElementKind uint8

const (
	KindTable     ElementKind = iota + 1 // named container of columns
	KindColumn                           // labeled cell owned by a table
	KindReference                        // directed edge between two columns
	KindAddButton                        // transient "+" affordance owned by a table
)

// String returns the record tag for persistable kinds and a readable name
// for the rest.
func (k ElementKind) String() string {
	switch k {
	case KindTable:
		return "TABLE"
	case KindColumn:
		return "COLUMN"
	case KindReference:
		return "REFERENCE"
	case KindAddButton:
		return "ADD_BUTTON"
	default:
		return "UNKNOWN"
	}
}

// EventType identifies a kind of scene notification.
type EventType uint8

const (
	EventElementClicked       EventType = iota // pointer released while an element is selected
	EventElementDoubleClicked                  // double click while an element is selected
	EventClick                                 // pointer released over empty background
)

// MouseButton identifies a pointer button. Values follow the DOM
// MouseEvent.button numbering so hosts can pass them through unchanged.
type MouseButton uint8

const (
	MouseButtonLeft    MouseButton = iota // primary button
	MouseButtonMiddle                     // wheel click
	MouseButtonRight                      // secondary button
	MouseButtonBack                       // browser back
	MouseButtonForward                    // browser forward
)

// Layout and hit-test constants, in diagram units.
const (
	// ReferenceSpacing separates stacked routing offsets and table rows.
	ReferenceSpacing = 10.0

	rowHeight       = 30.0
	rowPitch        = 60.0
	topMargin       = 45.0
	leftMargin      = 50.0
	columnPadding   = 26.0
	anchorOffset    = 15.0
	titleOffset     = 30.0
	addButtonWidth  = 50.0
	addButtonHeight = 30.0
	hitTolerance    = 5.0
	highlightWidth  = 6.0
	titleFontSize   = 15.0
)

// defaultPageOffset is where the canvas sits on the host page; it is added to
// canvas coordinates to produce page coordinates in click notifications.
var defaultPageOffset = Vec2{16, 52}
