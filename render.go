package erdraw

// FrameInfo is the per-frame metadata shared with every element's draw step.
// Elements read it but never modify it.
type FrameInfo struct {
	Selected   Handle
	References []Handle
	Pointer    PointerInfo
}

// PointerInfo is a read-only view of the pointer state for the frame.
type PointerInfo struct {
	Inside   bool // false while the pointer is outside the canvas
	Position Vec2 // diagram space; valid when Inside
	Down     bool
	Delta    Vec2 // movement accumulated since the last frame while Down
}

// drawElement dispatches the draw step by kind. Layout must already have run
// for this frame.
func (d *Diagram) drawElement(r Renderer, e *Element, info FrameInfo, showAddButtons bool) {
	switch e.Kind {
	case KindTable:
		d.drawTable(r, e, info, showAddButtons)
	case KindColumn:
		drawColumn(r, e, info)
	case KindAddButton:
		drawAddButton(r, e, info)
	case KindReference:
		drawReference(r, e, info)
	}
}

func (d *Diagram) drawTable(r Renderer, t *Element, info FrameInfo, showAddButtons bool) {
	r.FillRect(t.Position, t.Width, rowHeight, ColorWhite)

	labelWidth := r.Measure(t.Name, titleStyle).Width()
	r.Text(t.Position.Add(Vec2{-t.Width/2 + labelWidth/2, titleOffset}), t.Name, titleStyle)

	for _, ch := range t.columns {
		drawColumn(r, d.elements[ch], info)
	}
	if showAddButtons {
		if btn := d.elements[t.addButton]; btn != nil {
			drawAddButton(r, btn, info)
		}
	}
}

func drawColumn(r Renderer, c *Element, info FrameInfo) {
	r.FillRect(c.Position, c.Width, rowHeight, ColorWhite)
	if info.Selected == c.ID {
		r.FillRect(c.Position, c.Width, rowHeight, ColorHighlight)
	}
	r.StrokeRect(c.Position, c.Width, rowHeight)
	r.Text(c.Position, c.Label, TextStyle{Underline: c.Key})
}

func drawAddButton(r Renderer, b *Element, info FrameInfo) {
	r.FillRect(b.Position, addButtonWidth, addButtonHeight, ColorWhite)
	if info.Selected == b.ID {
		r.FillRect(b.Position, addButtonWidth, addButtonHeight, ColorHighlight)
	}
	r.StrokeRect(b.Position, addButtonWidth, addButtonHeight)
	r.Text(b.Position, "+", TextStyle{})
}

func drawReference(r Renderer, ref *Element, info FrameInfo) {
	if len(ref.path) == 0 {
		return
	}
	if info.Selected == ref.ID {
		r.Path(ref.path, PathStyle{Width: highlightWidth, Color: ColorHighlight})
	}
	r.Path(ref.path, PathStyle{})
	r.FillPath(arrowhead(ref.path[len(ref.path)-1]), ColorBlack)
}
