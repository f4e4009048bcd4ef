package funding

import "time"

// watermark tracks the highest settlement timestamp already counted for
// one instrument, plus the event ids seen at exactly that timestamp so
// distinct settlements sharing a timestamp are both accepted.
type watermark struct {
	ts  time.Time
	ids map[string]struct{}
}

// Deduplicator guards against re-ingesting funding events that polling
// cycles observe more than once near the since-boundary. The watermark is
// the sole authority on "already counted": it only ever moves forward.
type Deduplicator struct {
	marks map[string]*watermark
}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{marks: make(map[string]*watermark)}
}

// Accept reports whether ev is new and, if so, advances the instrument's
// watermark. Events at or before the watermark are duplicates unless they
// carry an unseen id at the exact watermark timestamp.
func (d *Deduplicator) Accept(ev Event) bool {
	m := d.marks[ev.Symbol]
	if m == nil {
		d.marks[ev.Symbol] = &watermark{
			ts:  ev.Time,
			ids: map[string]struct{}{ev.ID: {}},
		}
		return true
	}

	switch {
	case ev.Time.Before(m.ts):
		return false
	case ev.Time.Equal(m.ts):
		if _, dup := m.ids[ev.ID]; dup {
			return false
		}
		m.ids[ev.ID] = struct{}{}
		return true
	default:
		m.ts = ev.Time
		m.ids = map[string]struct{}{ev.ID: {}}
		return true
	}
}

// Watermark returns the highest accepted settlement time per instrument.
func (d *Deduplicator) Watermark(symbol string) (time.Time, bool) {
	m := d.marks[symbol]
	if m == nil {
		return time.Time{}, false
	}
	return m.ts, true
}

// MaxWatermark returns the most recent watermark across all instruments,
// or the zero time when nothing has been accepted yet.
func (d *Deduplicator) MaxWatermark() time.Time {
	var max time.Time
	for _, m := range d.marks {
		if m.ts.After(max) {
			max = m.ts
		}
	}
	return max
}
