package overlay

import (
	"context"
	"io"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/spancal/pkg/errors"
)

// ActionKind names one scripted input event.
type ActionKind string

const (
	ActPress   ActionKind = "press"
	ActMove    ActionKind = "move"
	ActRelease ActionKind = "release"
	ActSelect  ActionKind = "select"
	ActNudge   ActionKind = "nudge"
	ActConfirm ActionKind = "confirm"
	ActCancel  ActionKind = "cancel"
)

// Action is one input event for a [Session]. X and Y apply to press and
// move, Line to select and Delta to nudge.
type Action struct {
	Kind  ActionKind `toml:"kind"`
	X     int        `toml:"x"`
	Y     int        `toml:"y"`
	Line  int        `toml:"line"`
	Delta int        `toml:"delta"`
}

func PressAt(x, y int) Action  { return Action{Kind: ActPress, X: x, Y: y} }
func MoveTo(x, y int) Action   { return Action{Kind: ActMove, X: x, Y: y} }
func Lift() Action             { return Action{Kind: ActRelease} }
func SelectLine(i int) Action  { return Action{Kind: ActSelect, Line: i} }
func NudgeBy(delta int) Action { return Action{Kind: ActNudge, Delta: delta} }
func Enter() Action            { return Action{Kind: ActConfirm} }
func Escape() Action           { return Action{Kind: ActCancel} }

// Apply feeds a to s.
func Apply(s *Session, a Action) error {
	switch a.Kind {
	case ActPress:
		s.Press(a.X, a.Y)
	case ActMove:
		s.Move(a.X, a.Y)
	case ActRelease:
		s.Release()
	case ActSelect:
		s.Select(a.Line)
	case ActNudge:
		s.Nudge(a.Delta)
	case ActConfirm:
		s.Confirm()
	case ActCancel:
		s.Cancel()
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown action %q", a.Kind)
	}
	return nil
}

// Scripted is a [Surface] that replays queued actions, one list per pass,
// against a real [Session]. A pass whose actions leave the session open is
// confirmed; passes beyond the script confirm the initial values. It is used
// for headless runs and tests.
type Scripted struct {
	mu     sync.Mutex
	passes [][]Action
	seen   []Config
}

// NewScripted returns a surface that replays passes in order.
func NewScripted(passes ...[]Action) *Scripted {
	return &Scripted{passes: passes}
}

// Adjust implements [Surface].
func (s *Scripted) Adjust(ctx context.Context, cfg Config) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{Cancelled: true}, nil
	}
	sess, err := NewSession(cfg)
	if err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	var actions []Action
	if len(s.passes) > 0 {
		actions, s.passes = s.passes[0], s.passes[1:]
	}
	s.seen = append(s.seen, cfg)
	s.mu.Unlock()

	for _, a := range actions {
		if err := Apply(sess, a); err != nil {
			return Result{}, err
		}
	}
	sess.Confirm()
	return sess.Result(), nil
}

// Seen returns the configs passed to Adjust so far.
func (s *Scripted) Seen() []Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Config(nil), s.seen...)
}

type scriptFile struct {
	Passes []struct {
		Actions []Action `toml:"action"`
	} `toml:"pass"`
}

// ReadScript decodes a TOML script with one [[pass]] table per adjustment
// pass, each holding [[pass.action]] entries:
//
//	[[pass]]
//	[[pass.action]]
//	kind = "press"
//	x = 2200
//	y = 270
//	[[pass.action]]
//	kind = "move"
//	x = 2200
//	y = 250
func ReadScript(r io.Reader) (*Scripted, error) {
	var f scriptFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode script")
	}
	passes := make([][]Action, len(f.Passes))
	for i, p := range f.Passes {
		passes[i] = p.Actions
	}
	return NewScripted(passes...), nil
}
