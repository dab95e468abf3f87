package overlay

import (
	"context"

	"github.com/matzehuels/spancal/pkg/errors"
)

// Surface renders an adjustment pass and collects the user's input. Adjust
// blocks until the pass is confirmed or cancelled. A cancelled pass is a
// normal result with Cancelled set, not an error; errors mean the surface
// itself could not be driven.
type Surface interface {
	Adjust(ctx context.Context, cfg Config) (Result, error)
}

// SurfaceFunc adapts a function to [Surface].
type SurfaceFunc func(ctx context.Context, cfg Config) (Result, error)

// Adjust implements [Surface].
func (f SurfaceFunc) Adjust(ctx context.Context, cfg Config) (Result, error) {
	return f(ctx, cfg)
}

type handoff struct {
	res Result
	err error
}

// Dedicated runs every pass of s on its own goroutine and waits for the
// result on a one-shot channel. A surface that panics or exits without
// answering is reported as INTERACTION_SURFACE_FAILURE. If ctx ends first
// the pass counts as cancelled.
func Dedicated(s Surface) Surface {
	return SurfaceFunc(func(ctx context.Context, cfg Config) (Result, error) {
		ch := make(chan handoff, 1)
		go func() {
			sent := false
			defer func() {
				if sent {
					return
				}
				if r := recover(); r != nil {
					ch <- handoff{err: errors.New(errors.ErrCodeSurfaceFailure, "%s pass panicked: %v", cfg.Step, r)}
					return
				}
				ch <- handoff{err: errors.New(errors.ErrCodeSurfaceFailure, "%s pass exited without a result", cfg.Step)}
			}()
			res, err := s.Adjust(ctx, cfg)
			ch <- handoff{res: res, err: err}
			sent = true
		}()

		select {
		case h := <-ch:
			return h.res, h.err
		case <-ctx.Done():
			return Result{Cancelled: true}, nil
		}
	})
}
