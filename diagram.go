package erdraw

import "fmt"

// Diagram is the arena that owns every element and the authoritative
// orderings the layout depends on: the registry (draw order), the table
// order (vertical stacking rank) and the reference order (routing
// tie-break). Elements refer to each other by Handle only.
type Diagram struct {
	elements map[Handle]*Element
	nextID   Handle

	registry []Handle // registered tables and references, in add order
	tables   []Handle // registered tables, in add order
	refs     []Handle // registered references, in add order
}

// NewDiagram creates an empty diagram.
func NewDiagram() *Diagram {
	return &Diagram{elements: make(map[Handle]*Element)}
}

func (d *Diagram) newElement(kind ElementKind) *Element {
	d.nextID++
	e := &Element{ID: d.nextID, Kind: kind}
	d.elements[e.ID] = e
	return e
}

// Element returns the element for h, or nil if h does not resolve.
func (d *Diagram) Element(h Handle) *Element {
	return d.elements[h]
}

// Len returns the number of registered top-level elements.
func (d *Diagram) Len() int {
	return len(d.registry)
}

// Elements returns the registered tables and references in registry order.
func (d *Diagram) Elements() []*Element {
	out := make([]*Element, 0, len(d.registry))
	for _, h := range d.registry {
		out = append(out, d.elements[h])
	}
	return out
}

// Tables returns registered table handles in stacking order.
// The returned slice MUST NOT be mutated.
func (d *Diagram) Tables() []Handle {
	return d.tables
}

// References returns registered reference handles in routing order.
// The returned slice MUST NOT be mutated.
func (d *Diagram) References() []Handle {
	return d.refs
}

// TableRank returns the stacking index of table h, or -1 if h is not a
// registered table.
func (d *Diagram) TableRank(h Handle) int {
	for i, t := range d.tables {
		if t == h {
			return i
		}
	}
	return -1
}

// NewTable creates a detached table together with its add button. The table
// takes part in layout only after Add.
func (d *Diagram) NewTable(name string) *Element {
	t := d.newElement(KindTable)
	t.Name = name
	btn := d.newElement(KindAddButton)
	btn.Parent = t.ID
	btn.Width = addButtonWidth
	t.addButton = btn.ID
	return t
}

// NewReference creates a detached reference between two live columns.
func (d *Diagram) NewReference(from, to Handle) (*Element, error) {
	fc, err := d.liveColumn(from)
	if err != nil {
		return nil, fmt.Errorf("erdraw: new reference from %d: %w", from, err)
	}
	tc, err := d.liveColumn(to)
	if err != nil {
		return nil, fmt.Errorf("erdraw: new reference to %d: %w", to, err)
	}
	r := d.newElement(KindReference)
	r.From = fc.ID
	r.To = tc.ID
	r.recursive = fc.Parent == tc.Parent
	return r, nil
}

// Add appends a table or reference to the registry. Tables are also appended
// to the stacking order, references to the routing order.
func (d *Diagram) Add(e *Element) error {
	if e == nil || d.elements[e.ID] != e {
		return fmt.Errorf("erdraw: add: %w", ErrNotRegistered)
	}
	if e.registered {
		return fmt.Errorf("erdraw: add %s %d: %w", e.Kind, e.ID, ErrAlreadyRegistered)
	}
	switch e.Kind {
	case KindTable:
		d.tables = append(d.tables, e.ID)
	case KindReference:
		if _, err := d.liveColumn(e.From); err != nil {
			return fmt.Errorf("erdraw: add reference %d: %w", e.ID, err)
		}
		if _, err := d.liveColumn(e.To); err != nil {
			return fmt.Errorf("erdraw: add reference %d: %w", e.ID, err)
		}
		d.refs = append(d.refs, e.ID)
	default:
		return fmt.Errorf("erdraw: add %s %d: %w", e.Kind, e.ID, ErrWrongKind)
	}
	e.registered = true
	d.registry = append(d.registry, e.ID)
	return nil
}

// AddColumn appends a new column to a registered table.
func (d *Diagram) AddColumn(table Handle, label string, key bool) (*Element, error) {
	t := d.elements[table]
	if t == nil {
		return nil, fmt.Errorf("erdraw: add column to %d: %w", table, ErrNotRegistered)
	}
	if t.Kind != KindTable {
		return nil, fmt.Errorf("erdraw: add column to %s %d: %w", t.Kind, table, ErrWrongKind)
	}
	if !t.registered {
		return nil, fmt.Errorf("erdraw: add column to table %d: %w", table, ErrNotRegistered)
	}
	return d.attachColumn(t, label, key), nil
}

// attachColumn appends a column to t whether or not t is registered yet.
func (d *Diagram) attachColumn(t *Element, label string, key bool) *Element {
	c := d.newElement(KindColumn)
	c.Label = label
	c.Key = key
	c.Parent = t.ID
	t.columns = append(t.columns, c.ID)
	return c
}

// RemoveColumn removes a column from its table together with every
// reference that starts or ends at it.
func (d *Diagram) RemoveColumn(col Handle) error {
	c, err := d.liveColumn(col)
	if err != nil {
		return fmt.Errorf("erdraw: remove column %d: %w", col, err)
	}
	t := d.elements[c.Parent]
	t.columns = removeHandle(t.columns, col)
	d.removeReferencesTouching(map[Handle]bool{col: true})
	delete(d.elements, col)
	return nil
}

// Remove unregisters an element. Removing a table also removes its columns,
// its add button and every reference touching those columns. Removing a
// column behaves like RemoveColumn. Removing an element that is not
// registered is a contract violation and returns ErrNotRegistered.
func (d *Diagram) Remove(h Handle) error {
	e := d.elements[h]
	if e == nil {
		return fmt.Errorf("erdraw: remove %d: %w", h, ErrNotRegistered)
	}
	switch e.Kind {
	case KindColumn:
		return d.RemoveColumn(h)
	case KindAddButton:
		return fmt.Errorf("erdraw: remove %s %d: %w", e.Kind, h, ErrNotRemovable)
	}
	if !e.registered {
		return fmt.Errorf("erdraw: remove %s %d: %w", e.Kind, h, ErrNotRegistered)
	}

	d.registry = removeHandle(d.registry, h)
	switch e.Kind {
	case KindTable:
		d.tables = removeHandle(d.tables, h)
		owned := make(map[Handle]bool, len(e.columns))
		for _, c := range e.columns {
			owned[c] = true
		}
		d.removeReferencesTouching(owned)
		for _, c := range e.columns {
			delete(d.elements, c)
		}
		delete(d.elements, e.addButton)
	case KindReference:
		d.refs = removeHandle(d.refs, h)
	}
	e.registered = false
	delete(d.elements, h)
	return nil
}

// removeReferencesTouching drops every reference, registered or detached,
// whose endpoint is in cols. It returns the number of registered references
// removed.
func (d *Diagram) removeReferencesTouching(cols map[Handle]bool) int {
	removed := 0
	for h, e := range d.elements {
		if e.Kind != KindReference || (!cols[e.From] && !cols[e.To]) {
			continue
		}
		if e.registered {
			d.registry = removeHandle(d.registry, h)
			d.refs = removeHandle(d.refs, h)
			removed++
		}
		delete(d.elements, h)
	}
	return removed
}

// liveColumn resolves h to a column whose parent table is registered.
func (d *Diagram) liveColumn(h Handle) (*Element, error) {
	c := d.elements[h]
	if c == nil {
		return nil, ErrNotRegistered
	}
	if c.Kind != KindColumn {
		return nil, ErrWrongKind
	}
	if t := d.elements[c.Parent]; t == nil || !t.registered {
		return nil, ErrNotRegistered
	}
	return c, nil
}

func removeHandle(s []Handle, h Handle) []Handle {
	for i := range s {
		if s[i] == h {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = 0
			return s[:len(s)-1]
		}
	}
	return s
}
