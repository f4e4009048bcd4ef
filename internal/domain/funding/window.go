package funding

import "time"

type windowEntry struct {
	ts     time.Time
	amount float64
}

// RealizedWindow keeps the trailing W hours of realized funding cash flows
// in a FIFO and exposes the hourly-normalized realized rate. Entries are
// keyed by the settlement (event) clock, not the poll clock; eviction
// happens lazily on insert and on read.
type RealizedWindow struct {
	window  time.Duration
	entries []windowEntry
	sum     float64
}

func NewRealizedWindow(hours float64) *RealizedWindow {
	if hours <= 0 {
		hours = 24
	}
	return &RealizedWindow{window: time.Duration(hours * float64(time.Hour))}
}

func (w *RealizedWindow) WindowHours() float64 { return w.window.Hours() }

// Add appends one realized cash flow and evicts everything that fell out
// of the trailing window as of now.
func (w *RealizedWindow) Add(eventTime time.Time, amount float64, now time.Time) {
	w.entries = append(w.entries, windowEntry{ts: eventTime, amount: amount})
	w.sum += amount
	w.evict(now)
}

func (w *RealizedWindow) evict(now time.Time) {
	cutoff := now.Add(-w.window)
	i := 0
	for i < len(w.entries) && w.entries[i].ts.Before(cutoff) {
		w.sum -= w.entries[i].amount
		i++
	}
	if i > 0 {
		w.entries = append(w.entries[:0], w.entries[i:]...)
	}
}

func (w *RealizedWindow) Sum() float64 { return w.sum }

func (w *RealizedWindow) Len() int { return len(w.entries) }

// AvgHourly returns the realized funding rate normalized to one hour,
// plus the coverage used as denominator. Coverage is capped at the window
// size but also at the session's elapsed hours so a young session is not
// diluted by the not-yet-full buffer. No events yet is a defined zero.
func (w *RealizedWindow) AvgHourly(now, sessionStart time.Time) (avg, coverageHours float64) {
	w.evict(now)
	coverageHours = now.Sub(sessionStart).Hours()
	if coverageHours > w.window.Hours() {
		coverageHours = w.window.Hours()
	}
	if coverageHours <= 0 {
		return 0, 0
	}
	return w.sum / coverageHours, coverageHours
}
