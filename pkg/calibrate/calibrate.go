// Package calibrate drives the pairwise calibration of a monitor set.
//
// [Calibrator.Run] plans the binding order, runs the Scale and Gap passes
// for every pair on an [overlay.Surface], chains scale factors from the
// primary outwards and returns one [Result] per non-primary monitor.
//
// A run is all or nothing: cancelling any pass, or any surface failure,
// discards every result of the run. Only one run may be active per process.
package calibrate

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spancal/pkg/errors"
	"github.com/matzehuels/spancal/pkg/monitor"
	"github.com/matzehuels/spancal/pkg/observability"
	"github.com/matzehuels/spancal/pkg/overlay"
	"github.com/matzehuels/spancal/pkg/plan"
	"github.com/matzehuels/spancal/pkg/solver"
)

// Result is the calibration of one non-primary monitor against its parent.
type Result struct {
	MonitorID int `json:"monitorId" bson:"monitor_id"`
	BoundTo   int `json:"boundTo" bson:"bound_to"`

	// Scale is relative to the primary monitor, chained through every
	// ancestor.
	Scale float64 `json:"scale" bson:"scale"`
	// Offset places the child's origin in the parent's frame along the
	// cross axis, in virtual pixels.
	Offset    float64 `json:"offset" bson:"offset"`
	RelativeX float64 `json:"relativeX" bson:"relative_x"`
	RelativeY float64 `json:"relativeY" bson:"relative_y"`
	Gap       int     `json:"gap" bson:"gap"`

	Orientation monitor.Orientation `json:"bindOrientation" bson:"orientation"`

	// AlignChild and AlignParent split Offset into the near-line position on
	// each monitor, measured from that monitor's origin in its own pixels.
	// Reconstruction converts each side with its own pixel density.
	AlignChild  int `json:"alignChild" bson:"align_child"`
	AlignParent int `json:"alignParent" bson:"align_parent"`
}

// Calibrator runs calibration sessions on a surface.
type Calibrator struct {
	Surface overlay.Surface
	Logger  *log.Logger
}

// New creates a calibrator. A nil logger falls back to log.Default().
func New(surface overlay.Surface, logger *log.Logger) *Calibrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Calibrator{Surface: surface, Logger: logger}
}

// Run calibrates ms and returns one result per non-primary monitor, in
// binding order. On any error the returned slice is nil.
func (c *Calibrator) Run(ctx context.Context, ms []monitor.Monitor) ([]Result, error) {
	if len(ms) < 2 {
		return nil, errors.New(errors.ErrCodeInsufficientMonitors,
			"calibration needs at least 2 monitors, got %d", len(ms))
	}
	if err := monitor.Validate(ms); err != nil {
		return nil, err
	}
	if c.Surface == nil {
		return nil, errors.New(errors.ErrCodeSurfaceFailure, "no adjustment surface configured")
	}

	release, err := acquireSession()
	if err != nil {
		return nil, err
	}
	defer release()

	hooks := observability.Calibration()
	start := time.Now()
	hooks.OnRunStart(ctx, len(ms))

	results, err := c.run(ctx, ms)
	if err != nil {
		results = nil
	}
	hooks.OnRunComplete(ctx, len(results), time.Since(start), err)
	return results, err
}

func (c *Calibrator) run(ctx context.Context, ms []monitor.Monitor) ([]Result, error) {
	pairs := plan.Plan(ms)
	rects := Rects(ms)
	scales := make([]float64, len(ms))
	for i := range scales {
		scales[i] = 1
	}

	c.Logger.Info("planned calibration", "monitors", len(ms), "pairs", len(pairs))

	results := make([]Result, 0, len(pairs))
	for i, p := range pairs {
		child, parent := ms[p.Child], ms[p.Parent]
		observability.Calibration().OnPairStart(ctx, i, p.Child, p.Parent, string(p.Orientation))
		c.Logger.Info("calibrating pair",
			"pair", i+1,
			"of", len(pairs),
			"monitor", child.DisplayName(),
			"against", parent.DisplayName(),
			"orientation", p.Orientation)

		cfg := overlay.Config{
			Step:        overlay.StepScale,
			Child:       p.Child,
			Parent:      p.Parent,
			Orientation: p.Orientation,
			Rects:       rects,
		}
		scaleRes, err := c.adjust(ctx, i, len(pairs), cfg)
		if err != nil {
			return nil, err
		}

		fit := solver.SolveScale(scaleRes.Lines, p.Orientation, rects[p.Child], rects[p.Parent], scales[p.Parent])
		if fit.SpanChild == 0 || !solver.Finite(fit.Scale, fit.Offset) {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"pair %d: reference lines on %s collapsed to a single position", i+1, child.DisplayName())
		}
		scales[p.Child] = fit.Scale
		c.Logger.Debug("solved scale",
			"pair", i+1,
			"span_child", fit.SpanChild,
			"span_parent", fit.SpanParent,
			"scale", fit.Scale,
			"offset", fit.Offset)

		mid := solver.Midpoints(scaleRes.Lines)
		cfg.Step = overlay.StepGap
		cfg.Midpoints = &mid
		gapRes, err := c.adjust(ctx, i, len(pairs), cfg)
		if err != nil {
			return nil, err
		}

		rx, ry := solver.Relative(gapRes.Gap, p.Orientation, child, parent, fit.Scale, scales[p.Parent], fit.Offset)
		results = append(results, Result{
			MonitorID:   child.ID,
			BoundTo:     parent.ID,
			Scale:       fit.Scale,
			Offset:      fit.Offset,
			RelativeX:   rx,
			RelativeY:   ry,
			Gap:         gapRes.Gap,
			Orientation: p.Orientation,
			AlignChild:  fit.AlignChild,
			AlignParent: fit.AlignParent,
		})
		c.Logger.Info("pair calibrated", "pair", i+1, "scale", fit.Scale, "gap", gapRes.Gap)
	}
	return results, nil
}

// adjust runs one pass and turns cancellation and surface errors into the
// run's terminal error.
func (c *Calibrator) adjust(ctx context.Context, pair, total int, cfg overlay.Config) (overlay.Result, error) {
	start := time.Now()
	res, err := c.Surface.Adjust(ctx, cfg)
	cancelled := err == nil && (res.Cancelled || ctx.Err() != nil)
	observability.Calibration().OnStepComplete(ctx, pair, cfg.Step.String(), time.Since(start), cancelled)

	switch {
	case err != nil:
		if errors.GetCode(err) != "" {
			return overlay.Result{}, err
		}
		return overlay.Result{}, errors.Wrap(errors.ErrCodeSurfaceFailure, err,
			"%s pass of pair %d/%d", cfg.Step, pair+1, total)
	case cancelled:
		c.Logger.Warn("calibration cancelled", "pair", pair+1, "step", cfg.Step)
		return overlay.Result{}, errors.New(errors.ErrCodeCancelled,
			"cancelled during the %s pass of pair %d/%d", cfg.Step, pair+1, total)
	}
	return res, nil
}

// Rects returns the monitors' bounding boxes translated so the virtual
// screen's top-left corner is at 0,0.
func Rects(ms []monitor.Monitor) []monitor.Rect {
	if len(ms) == 0 {
		return nil
	}
	minX, minY := ms[0].PositionX, ms[0].PositionY
	for _, m := range ms[1:] {
		minX = min(minX, m.PositionX)
		minY = min(minY, m.PositionY)
	}
	rects := make([]monitor.Rect, len(ms))
	for i, m := range ms {
		r := m.Rect()
		r.X -= minX
		r.Y -= minY
		rects[i] = r
	}
	return rects
}
