package erdraw

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Scene is the top-level object that owns the diagram, the pointer state,
// the current selection and the event handlers, and drives the per-frame
// layout and draw pass.
type Scene struct {
	diagram  *Diagram
	renderer Renderer
	log      *zap.Logger
	debug    bool

	showAddButtons bool
	pageOffset     Vec2

	// Input state
	handlers    handlerRegistry
	pointer     pointerState
	selected    Handle
	injectQueue []syntheticEvent
	testRunner  *TestRunner

	// Screenshots
	ScreenshotDir   string
	screenshotQueue []string

	frame uint64
}

// NewScene creates a scene drawing onto r. A nil renderer means the drawing
// surface could not be acquired and is reported as ErrNoSurface.
func NewScene(r Renderer) (*Scene, error) {
	if r == nil {
		return nil, fmt.Errorf("erdraw: new scene: %w", ErrNoSurface)
	}
	return &Scene{
		diagram:        NewDiagram(),
		renderer:       r,
		log:            zap.NewNop(),
		showAddButtons: true,
		pageOffset:     defaultPageOffset,
		ScreenshotDir:  "screenshots",
	}, nil
}

// Diagram returns the scene's diagram.
func (s *Scene) Diagram() *Diagram {
	return s.diagram
}

// Renderer returns the surface the scene draws onto.
func (s *Scene) Renderer() Renderer {
	return s.renderer
}

// SetLogger sets the logger used for registry changes, loads and debug
// stats. A nil logger disables logging.
func (s *Scene) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	s.log = l
}

// SetDebugMode enables or disables per-frame timing stats.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// SetShowAddButtons controls whether tables draw and hit-test their "+"
// affordance.
func (s *Scene) SetShowAddButtons(show bool) {
	s.showAddButtons = show
}

// SetPageOffset sets the position of the canvas on the host page, added to
// canvas coordinates in ClickContext.PagePos.
func (s *Scene) SetPageOffset(offset Vec2) {
	s.pageOffset = offset
}

// --- Registry ---

// Add registers a table or reference created through the scene's diagram.
func (s *Scene) Add(e *Element) error {
	if err := s.diagram.Add(e); err != nil {
		return err
	}
	s.log.Debug("element added", zap.Stringer("kind", e.Kind), zap.Uint32("id", uint32(e.ID)))
	return nil
}

// AddTable creates and registers a table.
func (s *Scene) AddTable(name string) *Element {
	t := s.diagram.NewTable(name)
	// A fresh table is always addable.
	_ = s.Add(t)
	return t
}

// AddColumn appends a column to a registered table.
func (s *Scene) AddColumn(table Handle, label string, key bool) (*Element, error) {
	return s.diagram.AddColumn(table, label, key)
}

// AddReference creates and registers a reference between two live columns.
func (s *Scene) AddReference(from, to Handle) (*Element, error) {
	r, err := s.diagram.NewReference(from, to)
	if err != nil {
		return nil, err
	}
	if err := s.Add(r); err != nil {
		return nil, err
	}
	return r, nil
}

// Remove unregisters an element and cascades to the references that depend
// on it. See Diagram.Remove.
func (s *Scene) Remove(h Handle) error {
	before := len(s.diagram.refs)
	if err := s.diagram.Remove(h); err != nil {
		return err
	}
	if s.diagram.Element(s.selected) == nil {
		s.selected = 0
	}
	s.log.Debug("element removed",
		zap.Uint32("id", uint32(h)),
		zap.Int("references_removed", before-len(s.diagram.refs)))
	return nil
}

// RemoveColumn removes a column and the references touching it.
func (s *Scene) RemoveColumn(col Handle) error {
	return s.Remove(col)
}

// --- Selection ---

// Selected returns the element selected by the most recent frame, or nil.
func (s *Scene) Selected() *Element {
	return s.diagram.Element(s.selected)
}

// Hovering reports whether an element is currently selected. Hosts use it to
// pick the cursor shape and to suppress the context menu.
func (s *Scene) Hovering() bool {
	return s.Selected() != nil
}

// Pointer returns the current pointer state.
func (s *Scene) Pointer() PointerInfo {
	return PointerInfo{
		Inside:   s.pointer.inside,
		Position: s.pointer.pos,
		Down:     s.pointer.down,
		Delta:    s.pointer.delta,
	}
}

// --- Frame ---

// Frame runs one frame: it consumes one injected input event, steps the test
// runner, lays out the diagram, refreshes the selection (unless a button is
// held), and draws the background and every registered element in registry
// order.
func (s *Scene) Frame() {
	var stats debugStats
	var t0 time.Time

	s.processInjectedInput()
	if s.testRunner != nil {
		s.testRunner.step(s)
	}

	if s.debug {
		t0 = time.Now()
	}

	w, h := s.renderer.Size()
	s.diagram.Layout(s.renderer, w, h)

	if s.debug {
		stats.layoutTime = time.Since(t0)
		t0 = time.Now()
	}

	if !s.pointer.down {
		s.updateSelection()
	}

	if s.debug {
		stats.selectTime = time.Since(t0)
		t0 = time.Now()
	}

	info := FrameInfo{
		Selected:   s.selected,
		References: s.diagram.refs,
		Pointer:    s.Pointer(),
	}
	s.renderer.Clear(ColorWhite)
	for _, eh := range s.diagram.registry {
		s.diagram.drawElement(s.renderer, s.diagram.elements[eh], info, s.showAddButtons)
	}

	if s.pointer.down {
		s.pointer.delta = Vec2{}
	}

	if s.debug {
		stats.drawTime = time.Since(t0)
		stats.elementCount = len(s.diagram.registry)
		stats.referenceCount = len(s.diagram.refs)
		s.debugLog(stats)
	}

	s.flushScreenshots()
	s.frame++
}
