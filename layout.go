package erdraw

// Layout recomputes every derived field (widths, positions, reference paths)
// from the current structure. width and height are the canvas size in
// diagram units. The result depends only on structure and order, so two
// passes over an unchanged diagram produce identical geometry.
func (d *Diagram) Layout(m Measurer, width, height float64) {
	for _, th := range d.tables {
		t := d.elements[th]
		t.Width = 0
		for _, ch := range t.columns {
			c := d.elements[ch]
			c.Width = m.Measure(c.Label, TextStyle{Underline: c.Key}).Width() + columnPadding
			t.Width += c.Width
		}
	}

	nonRecursive := 0
	for _, rh := range d.refs {
		if !d.elements[rh].recursive {
			nonRecursive++
		}
	}

	for idx, th := range d.tables {
		t := d.elements[th]
		t.Position = Vec2{
			X: -width/2 + leftMargin + t.Width/2 + float64(nonRecursive)*ReferenceSpacing,
			Y: height/2 - topMargin - float64(idx)*rowPitch - d.stackAdjustment(idx),
		}
		d.packColumns(t)
	}

	for _, rh := range d.refs {
		d.route(d.elements[rh], width, nonRecursive)
	}
}

// stackAdjustment is the extra downward shift of the table at rank idx: one
// spacing unit for every reference endpoint table ranked above it.
// Recursive references count once.
func (d *Diagram) stackAdjustment(idx int) float64 {
	adj := 0.0
	for _, rh := range d.refs {
		r := d.elements[rh]
		if d.TableRank(d.elements[r.From].Parent) < idx {
			adj += ReferenceSpacing
		}
		if !r.recursive && d.TableRank(d.elements[r.To].Parent) < idx {
			adj += ReferenceSpacing
		}
	}
	return adj
}

// packColumns lays the table's columns left to right from its left edge and
// puts the add button right after the last one.
func (d *Diagram) packColumns(t *Element) {
	left := t.Position.X - t.Width/2
	for _, ch := range t.columns {
		c := d.elements[ch]
		c.Position = Vec2{left + c.Width/2, t.Position.Y}
		left += c.Width
	}
	if btn := d.elements[t.addButton]; btn != nil {
		btn.Position = Vec2{left + addButtonWidth/2, t.Position.Y}
	}
}

// route computes the polyline of reference r. Every reference claims its own
// offset below each table it touches and, when it leaves its table, its own
// vertical lane in the left margin. Earlier references get the inner slots.
func (d *Diagram) route(r *Element, width float64, nonRecursive int) {
	from := d.elements[r.From]
	to := d.elements[r.To]
	fromTable := from.Parent
	toTable := to.Parent
	up := ReferenceSpacing

	if r.recursive {
		for _, oh := range d.refs {
			if oh == r.ID {
				break
			}
			o := d.elements[oh]
			if o.recursive && d.elements[o.From].Parent == fromTable {
				up += ReferenceSpacing
			}
		}
		r.path = []Vec2{
			from.Position.Sub(Vec2{0, anchorOffset}),
			from.Position.Sub(Vec2{0, anchorOffset + up}),
			to.Position.Sub(Vec2{0, anchorOffset + up}),
			to.Position.Sub(Vec2{0, anchorOffset}),
		}
		return
	}

	past := false
	left := ReferenceSpacing
	target := ReferenceSpacing
	for _, oh := range d.refs {
		if oh == r.ID {
			past = true
		}
		o := d.elements[oh]
		oFromTable := d.elements[o.From].Parent
		oToTable := d.elements[o.To].Parent

		switch {
		case o.recursive && o.From == r.From:
			up += ReferenceSpacing
		case !past && oFromTable == fromTable:
			up += ReferenceSpacing
			left += ReferenceSpacing
		case !past:
			left += ReferenceSpacing
		}

		switch {
		case o.recursive && o.From == r.To:
			target += ReferenceSpacing
		case oFromTable == toTable || (!past && oToTable == toTable):
			target += ReferenceSpacing
		}
	}

	lane := -width/2 + leftMargin + float64(nonRecursive)*ReferenceSpacing - left
	r.path = []Vec2{
		from.Position.Sub(Vec2{0, anchorOffset}),
		from.Position.Sub(Vec2{0, anchorOffset + up}),
		Vec2{lane, from.Position.Y - (anchorOffset + up)},
		Vec2{lane, to.Position.Y - (anchorOffset + target)},
		to.Position.Sub(Vec2{0, anchorOffset + target}),
		to.Position.Sub(Vec2{0, anchorOffset}),
	}
}

// arrowhead returns the closed polygon drawn at the end of a reference path.
func arrowhead(tip Vec2) []Vec2 {
	return []Vec2{
		tip,
		tip.Add(Vec2{3.75, -6}),
		tip.Add(Vec2{0, -4}),
		tip.Add(Vec2{-3.75, -6}),
		tip,
	}
}
