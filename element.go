package erdraw

// Handle identifies an element inside its Diagram. The zero Handle never
// refers to an element. Handles are not reused, so a handle to a removed
// element simply stops resolving.
type Handle uint32

// HitKind tags the outcome of a hit test.
type HitKind uint8

const (
	HitMiss     HitKind = iota // point is outside the element
	HitSelf                    // the element itself is under the point
	HitDelegate                // a part owned by the element is under the point
)

// HitResult is the tagged outcome of testing one element against a point.
// Target is set for HitSelf and HitDelegate.
type HitResult struct {
	Kind   HitKind
	Target Handle
}

// Hit reports whether the result is not a miss.
func (r HitResult) Hit() bool {
	return r.Kind != HitMiss
}

// Element is the single flat struct used for every diagram element kind.
// Fields that do not apply to an element's Kind stay at their zero value.
type Element struct {
	// Identity
	ID   Handle
	Kind ElementKind

	// Position is the element's center in diagram space. It is recomputed
	// by every layout pass.
	Position Vec2

	// Width is derived: measured label plus padding for columns, the sum of
	// the column widths for tables, fixed for add buttons.
	Width float64

	// Table fields (KindTable)
	Name      string
	columns   []Handle
	addButton Handle

	// Column fields (KindColumn); Parent is also set for KindAddButton.
	Label  string
	Key    bool
	Parent Handle

	// Reference fields (KindReference)
	From, To  Handle
	recursive bool
	path      []Vec2

	// Internal
	registered bool
}

// Columns returns the table's column handles in packing order.
// The returned slice MUST NOT be mutated.
func (e *Element) Columns() []Handle {
	return e.columns
}

// AddButton returns the handle of the table's add affordance.
func (e *Element) AddButton() Handle {
	return e.addButton
}

// Recursive reports whether a reference connects two columns of the same
// table.
func (e *Element) Recursive() bool {
	return e.recursive
}

// Path returns the reference polyline computed by the last layout pass.
// The returned slice MUST NOT be mutated.
func (e *Element) Path() []Vec2 {
	return e.path
}

// Height returns the fixed row height shared by every boxed element.
func (e *Element) Height() float64 {
	return rowHeight
}

// Bounds returns the element's axis-aligned box in diagram space. References
// have no box and return the zero Rect.
func (e *Element) Bounds() Rect {
	switch e.Kind {
	case KindTable, KindColumn, KindAddButton:
		return centeredRect(e.Position, e.Width, rowHeight)
	default:
		return Rect{}
	}
}

// Persistent reports whether the element takes part in serialization.
func (e *Element) Persistent() bool {
	return e.Kind != KindAddButton
}
