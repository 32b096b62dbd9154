package effectengine

import (
	"github.com/nightgrid/halo/internal/model"
	"github.com/nightgrid/halo/internal/outputtarget"
)

// applyRamp produces a travelling ramp: each resolved fixture gets its own
// timing offset (phaseIndex = i/N), so a non-zero EffectTiming.Phase makes
// the ramp sweep across the fixture list instead of moving every fixture
// in lockstep.
func applyRamp[T Target[T]](target T, ctx Context, outputTarget model.OutputTarget, effect *model.Effect) {
	ids := outputtarget.Resolve(ctx.Project, outputTarget)
	n := len(ids)
	if n == 0 {
		return
	}

	for i, id := range ids {
		phaseIndex := float64(i) / float64(n)
		t := CalculateTiming(effect.RampTiming, ctx.MsSinceStart, ctx.EffectDurationMs, ctx.BeatT, phaseIndex)

		start := target.Clone()
		end := target.Clone()
		start.ApplyState(id, effect.RampStateStart, ctx.Palette)
		end.ApplyState(id, effect.RampStateEnd, ctx.Palette)

		target.Interpolate(start, end, t)
	}
}
