package erdraw

import "slices"

// --- Hit testing ---

// polylineContains reports whether p lies within tolerance of any segment of
// path. A zero-length segment is tested as a single point.
func polylineContains(path []Vec2, p Vec2, tolerance float64) bool {
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		length := a.DistanceTo(b)
		if length == 0 {
			if a.DistanceTo(p) <= tolerance {
				return true
			}
			continue
		}
		t := ((p.X-a.X)*(b.X-a.X) + (p.Y-a.Y)*(b.Y-a.Y)) / (length * length)
		t = max(0, min(t, 1))
		if p.DistanceTo(a.Add(b.Sub(a).Times(t))) <= tolerance {
			return true
		}
	}
	return false
}

// hitTestElement tests a single element against p. Tables never report
// themselves: they delegate to the column or add button under the point.
func (d *Diagram) hitTestElement(e *Element, p Vec2, showAddButtons bool) HitResult {
	switch e.Kind {
	case KindTable:
		for _, ch := range e.columns {
			if d.elements[ch].Bounds().Contains(p) {
				return HitResult{Kind: HitDelegate, Target: ch}
			}
		}
		if showAddButtons {
			if btn := d.elements[e.addButton]; btn != nil && btn.Bounds().Contains(p) {
				return HitResult{Kind: HitDelegate, Target: btn.ID}
			}
		}
	case KindColumn, KindAddButton:
		if e.Bounds().Contains(p) {
			return HitResult{Kind: HitSelf, Target: e.ID}
		}
	case KindReference:
		if polylineContains(e.path, p, hitTolerance) {
			return HitResult{Kind: HitSelf, Target: e.ID}
		}
	}
	return HitResult{}
}

// HitTest returns the topmost element under p: registered elements are
// tested in reverse registry order and the first hit wins. It returns 0 when
// nothing is hit. Geometry comes from the most recent Layout.
func (d *Diagram) HitTest(p Vec2, showAddButtons bool) Handle {
	for i := len(d.registry) - 1; i >= 0; i-- {
		if res := d.hitTestElement(d.elements[d.registry[i]], p, showAddButtons); res.Hit() {
			return res.Target
		}
	}
	return 0
}

// --- Per-pointer state ---

type pointerState struct {
	inside bool
	pos    Vec2 // diagram space
	down   bool
	delta  Vec2
}

// --- Event payloads ---

// PointerEvent is the raw host event passed to background click listeners.
type PointerEvent struct {
	Button    MouseButton
	CanvasPos Vec2
}

// ClickContext carries element click data.
type ClickContext struct {
	Element    *Element
	Button     MouseButton
	DiagramPos Vec2
	PagePos    Vec2
}

// --- Handler registry ---

type handler[F any] struct {
	id uint32
	fn F
}

type handlerRegistry struct {
	elementClicked       []handler[func(ClickContext)]
	elementDoubleClicked []handler[func(*Element)]
	click                []handler[func(PointerEvent)]
	nextID               uint32
}

// CallbackHandle allows removing a registered scene-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.event {
	case EventElementClicked:
		h.reg.elementClicked = removeHandler(h.reg.elementClicked, h.id)
	case EventElementDoubleClicked:
		h.reg.elementDoubleClicked = removeHandler(h.reg.elementDoubleClicked, h.id)
	case EventClick:
		h.reg.click = removeHandler(h.reg.click, h.id)
	}
}

// removeHandler returns a new slice without id. The old backing array is
// left untouched so a dispatch loop ranging over it stays valid.
func removeHandler[F any](s []handler[F], id uint32) []handler[F] {
	return slices.DeleteFunc(slices.Clone(s), func(h handler[F]) bool { return h.id == id })
}

// --- Scene-level event registration ---

// OnElementClicked registers a callback fired when the pointer is released
// while an element is selected.
func (s *Scene) OnElementClicked(fn func(ClickContext)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.elementClicked = append(s.handlers.elementClicked, handler[func(ClickContext)]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventElementClicked}
}

// OnElementDoubleClicked registers a callback fired on double click while an
// element is selected.
func (s *Scene) OnElementDoubleClicked(fn func(*Element)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.elementDoubleClicked = append(s.handlers.elementDoubleClicked, handler[func(*Element)]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventElementDoubleClicked}
}

// OnClick registers a callback fired when the pointer is released over the
// background.
func (s *Scene) OnClick(fn func(PointerEvent)) CallbackHandle {
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.click = append(s.handlers.click, handler[func(PointerEvent)]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: EventClick}
}

// --- Host input primitives ---

// PointerEnter records that the pointer entered the canvas at the given
// canvas position.
func (s *Scene) PointerEnter(canvas Vec2) {
	s.pointer.inside = true
	s.pointer.pos = s.renderer.CanvasToSpace(canvas)
}

// PointerMove updates the pointer position. movement is the raw canvas
// movement since the previous event; it accumulates into the gesture delta
// while a button is held (canvas Y down becomes diagram Y up).
func (s *Scene) PointerMove(canvas, movement Vec2) {
	if !s.pointer.inside {
		return
	}
	s.pointer.pos = s.renderer.CanvasToSpace(canvas)
	if s.pointer.down {
		s.pointer.delta.X += movement.X
		s.pointer.delta.Y -= movement.Y
	}
}

// PointerLeave records that the pointer left the canvas. The selection
// clears on the next frame.
func (s *Scene) PointerLeave() {
	s.pointer.inside = false
}

// PointerDown starts a gesture. Selection is frozen until PointerUp.
func (s *Scene) PointerDown(button MouseButton) {
	s.pointer.down = true
	s.pointer.delta = Vec2{}
}

// PointerUp ends a gesture and emits ElementClicked for the element selected
// by the most recent frame, or Click when nothing is selected. A release
// after the pointer left the canvas only ends the gesture.
func (s *Scene) PointerUp(ev PointerEvent) {
	s.pointer.down = false
	s.pointer.delta = Vec2{}
	if !s.pointer.inside {
		return
	}

	if sel := s.Selected(); sel != nil {
		s.fireElementClicked(sel, ev.Button)
		return
	}
	s.fireClick(ev)
}

// DoubleClick emits ElementDoubleClicked when an element is selected and
// the pointer is over the canvas.
func (s *Scene) DoubleClick() {
	if !s.pointer.inside {
		return
	}
	if sel := s.Selected(); sel != nil {
		s.fireElementDoubleClicked(sel)
	}
}

// updateSelection recomputes the selected element from the last known
// pointer position.
func (s *Scene) updateSelection() {
	if !s.pointer.inside {
		s.selected = 0
		return
	}
	s.selected = s.diagram.HitTest(s.pointer.pos, s.showAddButtons)
}

// --- Event dispatch ---

func (s *Scene) fireElementClicked(e *Element, button MouseButton) {
	ctx := ClickContext{
		Element:    e,
		Button:     button,
		DiagramPos: s.pointer.pos,
		PagePos:    s.renderer.SpaceToCanvas(s.pointer.pos).Add(s.pageOffset),
	}
	for _, h := range s.handlers.elementClicked {
		h.fn(ctx)
	}
}

func (s *Scene) fireElementDoubleClicked(e *Element) {
	for _, h := range s.handlers.elementDoubleClicked {
		h.fn(e)
	}
}

func (s *Scene) fireClick(ev PointerEvent) {
	for _, h := range s.handlers.click {
		h.fn(ev)
	}
}
