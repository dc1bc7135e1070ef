package erdraw

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-frame timing and element counts.
// Only populated when Scene.debug is true.
type debugStats struct {
	layoutTime     time.Duration
	selectTime     time.Duration
	drawTime       time.Duration
	elementCount   int
	referenceCount int
}

// debugLog writes timing stats and runs the structural checks.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.layoutTime + stats.selectTime + stats.drawTime
	s.log.Debug("frame",
		zap.Uint64("frame", s.frame),
		zap.Duration("layout", stats.layoutTime),
		zap.Duration("select", stats.selectTime),
		zap.Duration("draw", stats.drawTime),
		zap.Duration("total", total),
		zap.Int("elements", stats.elementCount),
		zap.Int("references", stats.referenceCount))

	for _, problem := range s.diagram.debugCheck() {
		s.log.Warn("diagram invariant", zap.String("problem", problem))
	}
}

// debugMaxColumns is the column count above which a table is reported as
// unlikely to fit on screen.
const debugMaxColumns = 64

// debugCheck verifies the arena against the registry and returns one line per
// violation. A healthy diagram returns nil.
func (d *Diagram) debugCheck() []string {
	var problems []string
	for _, th := range d.tables {
		t := d.elements[th]
		if t == nil || !t.registered {
			problems = append(problems, "table order holds an unregistered table")
			continue
		}
		if len(t.columns) > debugMaxColumns {
			problems = append(problems, fmt.Sprintf("table %q has %d columns", t.Name, len(t.columns)))
		}
		for _, ch := range t.columns {
			if c := d.elements[ch]; c == nil || c.Parent != th {
				problems = append(problems, fmt.Sprintf("table %q owns column %d with another parent", t.Name, ch))
			}
		}
	}
	for _, rh := range d.refs {
		r := d.elements[rh]
		if r == nil {
			problems = append(problems, "reference list holds a removed reference")
			continue
		}
		if _, err := d.liveColumn(r.From); err != nil {
			problems = append(problems, "reference source: "+err.Error())
		}
		if _, err := d.liveColumn(r.To); err != nil {
			problems = append(problems, "reference target: "+err.Error())
		}
	}
	return problems
}
