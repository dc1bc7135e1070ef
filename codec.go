package erdraw

import (
	"encoding/json"
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Record type tags.
const (
	RecordTable     = "TABLE"
	RecordColumn    = "COLUMN"
	RecordReference = "REFERENCE"
)

// Record is one serialized element. Only the fields that belong to Type are
// written; IDs are dense integers local to one export.
type Record struct {
	ID       int
	Type     string
	Position Vec2
	Name     string // TABLE
	Label    string // COLUMN
	Key      bool   // COLUMN
	ParentID int    // COLUMN
	From, To int    // REFERENCE
}

type tableRecord struct {
	ID       int        `json:"id"`
	Type     string     `json:"type"`
	Position [2]float64 `json:"position"`
	Name     string     `json:"name"`
}

type columnRecord struct {
	ID       int        `json:"id"`
	Type     string     `json:"type"`
	Position [2]float64 `json:"position"`
	Label    string     `json:"label"`
	Key      bool       `json:"key"`
	ParentID int        `json:"parentId"`
}

type referenceRecord struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

// wireRecord is the union used for decoding. Pointers distinguish a missing
// field from a zero ID.
type wireRecord struct {
	ID       *int        `json:"id"`
	Type     string      `json:"type"`
	Position *[2]float64 `json:"position"`
	Name     string      `json:"name"`
	Label    string      `json:"label"`
	Key      bool        `json:"key"`
	ParentID *int        `json:"parentId"`
	From     *int        `json:"from"`
	To       *int        `json:"to"`
}

// MarshalJSON writes the record in the shape of its type.
func (r Record) MarshalJSON() ([]byte, error) {
	pos := [2]float64{r.Position.X, r.Position.Y}
	switch r.Type {
	case RecordTable:
		return json.Marshal(tableRecord{r.ID, r.Type, pos, r.Name})
	case RecordColumn:
		return json.Marshal(columnRecord{r.ID, r.Type, pos, r.Label, r.Key, r.ParentID})
	case RecordReference:
		return json.Marshal(referenceRecord{r.ID, r.Type, r.From, r.To})
	default:
		return nil, fmt.Errorf("erdraw: marshal record %d: %q: %w", r.ID, r.Type, ErrUnknownRecord)
	}
}

// UnmarshalJSON reads any record shape. Missing IDs decode as -1, which
// never resolves.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Record{
		ID:       orMissing(w.ID),
		Type:     w.Type,
		Name:     w.Name,
		Label:    w.Label,
		Key:      w.Key,
		ParentID: orMissing(w.ParentID),
		From:     orMissing(w.From),
		To:       orMissing(w.To),
	}
	if w.Position != nil {
		r.Position = Vec2{w.Position[0], w.Position[1]}
	}
	return nil
}

func orMissing(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

// --- Serialize ---

// flatten returns the registry with every table followed by its columns.
func (d *Diagram) flatten() []*Element {
	out := make([]*Element, 0, len(d.registry))
	for _, h := range d.registry {
		e := d.elements[h]
		out = append(out, e)
		if e.Kind == KindTable {
			for _, ch := range e.columns {
				out = append(out, d.elements[ch])
			}
		}
	}
	return out
}

// serializeElement builds the record for e. idOf resolves the IDs of the
// elements e points at. It returns false for kinds that are never stored.
func serializeElement(e *Element, id int, idOf func(Handle) (int, bool)) (Record, bool, error) {
	rec := Record{ID: id, Position: e.Position}
	switch e.Kind {
	case KindTable:
		rec.Type = RecordTable
		rec.Name = e.Name
	case KindColumn:
		parent, ok := idOf(e.Parent)
		if !ok {
			return Record{}, false, fmt.Errorf("erdraw: serialize column %d: parent %d: %w", e.ID, e.Parent, ErrDanglingID)
		}
		rec.Type = RecordColumn
		rec.Label = e.Label
		rec.Key = e.Key
		rec.ParentID = parent
	case KindReference:
		from, okFrom := idOf(e.From)
		to, okTo := idOf(e.To)
		if !okFrom || !okTo {
			return Record{}, false, fmt.Errorf("erdraw: serialize reference %d: %w", e.ID, ErrDanglingID)
		}
		rec.Type = RecordReference
		rec.Position = Vec2{}
		rec.From = from
		rec.To = to
	default:
		return Record{}, false, nil
	}
	return rec, true, nil
}

// Serialize returns one record per table, column and reference. The
// flattened registry is reversed and numbered from 0, so the first
// registered table gets the highest ID.
func (s *Scene) Serialize() ([]Record, error) {
	flat := s.diagram.flatten()
	slices.Reverse(flat)

	ids := make(map[Handle]int, len(flat))
	for _, e := range flat {
		if e.Persistent() {
			ids[e.ID] = len(ids)
		}
	}
	idOf := func(h Handle) (int, bool) {
		id, ok := ids[h]
		return id, ok
	}

	records := make([]Record, 0, len(ids))
	for _, e := range flat {
		rec, ok, err := serializeElement(e, ids[e.ID], idOf)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// Export serializes the diagram to its JSON form.
func (s *Scene) Export() ([]byte, error) {
	records, err := s.Serialize()
	if err != nil {
		return nil, err
	}
	return json.Marshal(records)
}

// --- Load ---

// Load parses a JSON record array and adds its elements to the scene.
func (s *Scene) Load(data []byte) error {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("erdraw: load: %w", err)
	}
	return s.LoadRecords(records)
}

// LoadRecords adds the elements described by records to the scene. Records
// may appear in any order. Every record is validated before anything is
// created: on error the scene is left unchanged.
func (s *Scene) LoadRecords(records []Record) error {
	byID := make(map[int]*Record, len(records))
	for i := range records {
		rec := &records[i]
		if rec.ID < 0 {
			return fmt.Errorf("erdraw: load %s record: missing id: %w", rec.Type, ErrDanglingID)
		}
		if _, dup := byID[rec.ID]; dup {
			return fmt.Errorf("erdraw: load record %d: %w", rec.ID, ErrDuplicateID)
		}
		byID[rec.ID] = rec
	}

	// Tables and columns.
	for _, rec := range records {
		switch rec.Type {
		case RecordTable, RecordReference:
		case RecordColumn:
			if err := expectRecord(byID, rec.ID, rec.ParentID, RecordTable); err != nil {
				return err
			}
		default:
			return fmt.Errorf("erdraw: load record %d: %q: %w", rec.ID, rec.Type, ErrUnknownRecord)
		}
	}

	// References.
	for _, rec := range records {
		if rec.Type != RecordReference {
			continue
		}
		if err := expectRecord(byID, rec.ID, rec.From, RecordColumn); err != nil {
			return err
		}
		if err := expectRecord(byID, rec.ID, rec.To, RecordColumn); err != nil {
			return err
		}
	}

	s.commit(records)
	s.log.Debug("diagram loaded",
		zap.Int("records", len(records)),
		zap.Int("tables", len(s.diagram.tables)),
		zap.Int("references", len(s.diagram.refs)))
	return nil
}

func expectRecord(byID map[int]*Record, site, id int, want string) error {
	target, ok := byID[id]
	if !ok {
		return fmt.Errorf("erdraw: load record %d: id %d: %w", site, id, ErrDanglingID)
	}
	if target.Type != want {
		return fmt.Errorf("erdraw: load record %d: id %d is %s, want %s: %w", site, id, target.Type, want, ErrRecordType)
	}
	return nil
}

// commit creates validated records in descending ID order, which restores
// the registry, column and reference order of an exported diagram. Tables
// are created up front so a column may precede its table in ID order; a
// reference whose tables are not registered yet waits until the end.
func (s *Scene) commit(records []Record) {
	ordered := make([]Record, len(records))
	copy(ordered, records)
	slices.SortFunc(ordered, func(a, b Record) int { return b.ID - a.ID })

	d := s.diagram
	tables := make(map[int]*Element)
	for _, rec := range ordered {
		if rec.Type == RecordTable {
			t := d.NewTable(rec.Name)
			t.Position = rec.Position
			tables[rec.ID] = t
		}
	}

	columns := make(map[int]*Element)
	var deferred []Record
	for _, rec := range ordered {
		switch rec.Type {
		case RecordTable:
			_ = d.Add(tables[rec.ID])
		case RecordColumn:
			c := d.attachColumn(tables[rec.ParentID], rec.Label, rec.Key)
			c.Position = rec.Position
			columns[rec.ID] = c
		case RecordReference:
			if c := columns[rec.From]; c == nil || !d.elements[c.Parent].registered {
				deferred = append(deferred, rec)
				continue
			}
			if c := columns[rec.To]; c == nil || !d.elements[c.Parent].registered {
				deferred = append(deferred, rec)
				continue
			}
			s.commitReference(columns, rec)
		}
	}
	for _, rec := range deferred {
		s.commitReference(columns, rec)
	}
}

func (s *Scene) commitReference(columns map[int]*Element, rec Record) {
	r, err := s.diagram.NewReference(columns[rec.From].ID, columns[rec.To].ID)
	if err == nil {
		err = s.diagram.Add(r)
	}
	if err != nil {
		s.log.Warn("reference not restored", zap.Int("record", rec.ID), zap.Error(err))
	}
}
