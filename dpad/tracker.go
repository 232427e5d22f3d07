package dpad

// Tracker is the stateful classifier run per input stream. Unlike Classify,
// it only grants the debounce margin to an axis that was active in the
// direction it reported last, so a held direction is released later than it
// is engaged. It is not safe for concurrent use.
type Tracker struct {
	cfg  Config
	last Direction
}

// NewTracker returns a Tracker starting from a released d-pad.
func NewTracker(c Config) *Tracker {
	return &Tracker{cfg: c}
}

// Config returns the tracker's configuration.
func (t *Tracker) Config() Config { return t.cfg }

// SetConfig replaces the configuration and keeps the last direction.
func (t *Tracker) SetConfig(c Config) { t.cfg = c }

// Last returns the most recently reported direction.
func (t *Tracker) Last() Direction { return t.last }

// Reset releases the d-pad.
func (t *Tracker) Reset() { t.last = 0 }

// Update classifies s and returns the new d-pad direction.
func (t *Tracker) Update(s Sample) Direction {
	c := t.cfg
	x, y := c.remap(s)

	var dbx, dby float64
	if t.last&Horizontal != 0 {
		dbx = c.Debounce
	}
	if t.last&Vertical != 0 {
		dby = c.Debounce
	}

	var rx, ry int8
	if c.Mode == FourWay {
		rx, ry = cardinal4(x, y, dbx, dby, c)
	} else {
		rx = cardinal8(x, y, dbx, c)
		ry = cardinal8(y, x, dby, c)
	}
	t.last = fromAxes(rx, ry)
	return t.last
}
