package validation

import "time"

// Window is the conference's scheduling window. Both bounds are inclusive.
// The bounds are configuration, not constants, so each deployment carries its
// own conference dates.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow returns a Window spanning [start, end].
func NewWindow(start, end time.Time) Window {
	return Window{Start: start, End: end}
}

// Contains reports whether t falls within the window, inclusive on both ends.
func (w Window) Contains(t time.Time) bool {
	if t.Before(w.Start) {
		return false
	}
	return !t.After(w.End)
}
