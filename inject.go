package erdraw

type syntheticKind uint8

const (
	syntheticMove syntheticKind = iota
	syntheticPress
	syntheticRelease
	syntheticDoubleClick
	syntheticLeave
)

// syntheticEvent represents a single injected pointer event. Canvas
// coordinates are used (matching what a screenshot shows) and converted to
// diagram space by the renderer, identical to real pointer input.
type syntheticEvent struct {
	kind   syntheticKind
	canvas Vec2
	button MouseButton
}

// InjectMove queues a pointer move to the given canvas position. The pointer
// enters the canvas if it was outside.
func (s *Scene) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticMove, canvas: Vec2{x, y}})
}

// InjectPress queues a move to the given canvas position followed by a left
// button press, in one frame.
func (s *Scene) InjectPress(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{
		kind:   syntheticPress,
		canvas: Vec2{x, y},
		button: MouseButtonLeft,
	})
}

// InjectRelease queues a left button release at the given canvas position.
func (s *Scene) InjectRelease(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{
		kind:   syntheticRelease,
		canvas: Vec2{x, y},
		button: MouseButtonLeft,
	})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same canvas position. Consumes two frames.
func (s *Scene) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDoubleClick queues a double click at the given canvas position.
func (s *Scene) InjectDoubleClick(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticDoubleClick, canvas: Vec2{x, y}})
}

// InjectLeave queues the pointer leaving the canvas.
func (s *Scene) InjectLeave() {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticLeave})
}

// PendingInput returns the number of injected events not yet consumed.
func (s *Scene) PendingInput() int {
	return len(s.injectQueue)
}

// processInjectedInput pops one event from the inject queue and feeds it
// through the host input primitives. Returns true if an event was consumed.
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	if evt.kind == syntheticLeave {
		s.PointerLeave()
		return true
	}

	s.moveTo(evt.canvas)
	switch evt.kind {
	case syntheticPress:
		s.PointerDown(evt.button)
	case syntheticRelease:
		s.PointerUp(PointerEvent{Button: evt.button, CanvasPos: evt.canvas})
	case syntheticDoubleClick:
		s.DoubleClick()
	}
	return true
}

// moveTo moves the pointer to a canvas position, entering the canvas first
// when needed. The selection follows so a press and release injected on
// consecutive frames target what is under the new position.
func (s *Scene) moveTo(canvas Vec2) {
	if !s.pointer.inside {
		s.PointerEnter(canvas)
	} else {
		prev := s.renderer.SpaceToCanvas(s.pointer.pos)
		s.PointerMove(canvas, canvas.Sub(prev))
	}
	if !s.pointer.down {
		s.updateSelection()
	}
}
