package overlay

import (
	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/monitor"
)

// HitTolerance is the distance, in virtual pixels along the calibration
// axis, within which a press selects a reference line. Inclusive.
const HitTolerance = 20

// Step tags which of the two adjustment passes a session runs.
type Step int

const (
	StepScale Step = iota
	StepGap
)

func (s Step) String() string {
	if s == StepGap {
		return "gap"
	}
	return "scale"
}

// State is the pointer state of a session.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Outcome is the terminal status of a session.
type Outcome int

const (
	Pending Outcome = iota
	Confirmed
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case Cancelled:
		return "cancelled"
	default:
		return "pending"
	}
}

// Config describes one adjustment pass for a monitor pair. Rects are in a
// shared frame (the orchestrator translates them so the virtual screen
// starts at 0,0). Midpoints seeds the Gap step with the per-monitor
// midpoints of the Scale step lines; nil means each rect's center.
type Config struct {
	Step        Step
	Child       int
	Parent      int
	Orientation monitor.Orientation
	Rects       []monitor.Rect
	Midpoints   *[2]int
}

func (c Config) validate() error {
	if c.Child < 0 || c.Child >= len(c.Rects) || c.Parent < 0 || c.Parent >= len(c.Rects) {
		return errors.New(errors.ErrCodeInvalidInput,
			"pair (%d, %d) out of range for %d rects", c.Child, c.Parent, len(c.Rects))
	}
	if c.Child == c.Parent {
		return errors.New(errors.ErrCodeInvalidInput, "monitor %d cannot be bound to itself", c.Child)
	}
	return nil
}

func (c Config) horizontal() bool { return c.Orientation != monitor.Vertical }

// Result is what a finished adjustment pass hands back. Lines is
// [nearChild, nearParent, farChild, farParent] along the calibration axis
// and is only meaningful for the Scale step; Gap only for the Gap step.
type Result struct {
	Cancelled bool
	Lines     [4]int
	Gap       int
}

// InitialLines places the near and far reference lines at a quarter and
// three quarters of the smaller monitor's extent along the calibration
// axis, offset from each monitor's own origin.
func InitialLines(cfg Config) [4]int {
	c, p := cfg.Rects[cfg.Child], cfg.Rects[cfg.Parent]
	if cfg.horizontal() {
		m := min(c.H, p.H)
		return [4]int{c.Y + m/4, p.Y + m/4, c.Y + 3*m/4, p.Y + 3*m/4}
	}
	m := min(c.W, p.W)
	return [4]int{c.X + m/4, p.X + m/4, c.X + 3*m/4, p.X + 3*m/4}
}

// DefaultMidpoints returns each monitor's center along the calibration axis.
func DefaultMidpoints(cfg Config) [2]int {
	c, p := cfg.Rects[cfg.Child], cfg.Rects[cfg.Parent]
	if cfg.horizontal() {
		return [2]int{c.Y + c.H/2, p.Y + p.H/2}
	}
	return [2]int{c.X + c.W/2, p.X + p.W/2}
}

// Session is the windowing-independent state machine behind one adjustment
// pass. A surface feeds it translated input events and renders from its
// accessors. Once confirmed or cancelled, further events are ignored.
//
// A Session is not safe for concurrent use.
type Session struct {
	cfg       Config
	lines     [4]int
	gap       int
	midpoints [2]int

	state        State
	outcome      Outcome
	selected     int
	last         int
	dragStart    int
	dragStartVal int
}

// NewSession starts a pass for cfg.
func NewSession(cfg Config) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Session{cfg: cfg, selected: -1, last: -1}
	if cfg.Step == StepScale {
		s.lines = InitialLines(cfg)
	}
	if cfg.Midpoints != nil {
		s.midpoints = *cfg.Midpoints
	} else {
		s.midpoints = DefaultMidpoints(cfg)
	}
	return s, nil
}

// Press handles a primary-button press at (x, y). In the Scale step it
// selects the first line within [HitTolerance]; a miss leaves the session
// idle. In the Gap step any point starts a drag of the gap.
func (s *Session) Press(x, y int) {
	if s.Done() {
		return
	}
	if s.cfg.Step == StepGap {
		s.state = Dragging
		s.dragStart = s.gapAxis(x, y)
		s.dragStartVal = s.gap
		return
	}
	s.selected = s.HitTest(x, y)
	if s.selected < 0 {
		return
	}
	s.state = Dragging
	s.dragStart = s.lineAxis(x, y)
	s.dragStartVal = s.lines[s.selected]
	s.last = s.selected
}

// Move handles pointer motion. Only drags change state; values are never
// clamped, so lines may leave their monitor.
func (s *Session) Move(x, y int) {
	if s.Done() || s.state != Dragging {
		return
	}
	if s.cfg.Step == StepGap {
		s.gap = s.dragStartVal + (s.gapAxis(x, y) - s.dragStart)
		return
	}
	if s.selected >= 0 {
		s.lines[s.selected] = s.dragStartVal + (s.lineAxis(x, y) - s.dragStart)
	}
}

// Release ends a drag.
func (s *Session) Release() {
	if s.Done() || s.state != Dragging {
		return
	}
	s.state = Idle
	s.selected = -1
}

// Select marks line i as the target for [Session.Nudge] without dragging
// it, as a keyboard focus change would. It reports whether i is a line.
func (s *Session) Select(i int) bool {
	if s.Done() || s.cfg.Step != StepScale || i < 0 || i >= len(s.lines) {
		return false
	}
	s.last = i
	return true
}

// Nudge moves the last interacted line (Scale) or the gap (Gap) by delta.
// Directional keys map up/left to -1 and down/right to +1. In the Scale step
// a nudge before any line was touched does nothing.
func (s *Session) Nudge(delta int) {
	if s.Done() {
		return
	}
	if s.cfg.Step == StepGap {
		s.gap += delta
		return
	}
	if s.last >= 0 {
		s.lines[s.last] += delta
	}
}

// Confirm ends the pass and keeps the current values.
func (s *Session) Confirm() {
	if s.Done() {
		return
	}
	s.outcome = Confirmed
	s.state = Idle
}

// Cancel ends the pass and discards it.
func (s *Session) Cancel() {
	if s.Done() {
		return
	}
	s.outcome = Cancelled
	s.state = Idle
}

// HitTest returns the index of the first line within [HitTolerance] of the
// point, or -1. A line only reacts inside its own monitor's extent across
// the calibration axis.
func (s *Session) HitTest(x, y int) int {
	for i, v := range s.lines {
		r := s.cfg.Rects[s.owner(i)]
		if s.cfg.horizontal() {
			if x >= r.X && x <= r.X+r.W && abs(y-v) <= HitTolerance {
				return i
			}
		} else if y >= r.Y && y <= r.Y+r.H && abs(x-v) <= HitTolerance {
			return i
		}
	}
	return -1
}

func (s *Session) owner(line int) int {
	if line%2 == 0 {
		return s.cfg.Child
	}
	return s.cfg.Parent
}

// Lines move along the calibration axis: y for side-by-side pairs.
func (s *Session) lineAxis(x, y int) int {
	if s.cfg.horizontal() {
		return y
	}
	return x
}

// The gap opens across the seam: x for side-by-side pairs.
func (s *Session) gapAxis(x, y int) int {
	if s.cfg.horizontal() {
		return x
	}
	return y
}

func (s *Session) Config() Config      { return s.cfg }
func (s *Session) State() State        { return s.state }
func (s *Session) Outcome() Outcome    { return s.outcome }
func (s *Session) Done() bool          { return s.outcome != Pending }
func (s *Session) Lines() [4]int       { return s.lines }
func (s *Session) Gap() int            { return s.gap }
func (s *Session) Midpoints() [2]int   { return s.midpoints }
func (s *Session) Selected() int       { return s.selected }
func (s *Session) LastInteracted() int { return s.last }

// Result returns the pass outcome. It is only final once [Session.Done]
// reports true.
func (s *Session) Result() Result {
	return Result{Cancelled: s.outcome == Cancelled, Lines: s.lines, Gap: s.gap}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
