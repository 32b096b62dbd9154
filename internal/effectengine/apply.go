package effectengine

import (
	"github.com/nightgrid/halo/internal/model"
	"github.com/nightgrid/halo/internal/outputtarget"
)

// Target is the capability an effect renders against — mirrors
// render.Target[T] without importing the render package, so effectengine
// stays usable against any sibling render-target kind.
type Target[T any] interface {
	ApplyState(id model.QualifiedFixtureId, state model.FixtureState, palette model.ColorPalette)
	Interpolate(a, b T, t float64)
	Clone() T
}

// Context carries the per-frame values every effect evaluation needs.
// SystemT/Frame come from the output loop; Seed is the random effect's
// walk seed and is zero unless a caller sets it; MsSinceStart and
// EffectDurationMs are recomputed per nested call (sequence/random rescale
// them for their sub-effects).
type Context struct {
	Project          *model.Project
	SystemT          uint64
	Frame            uint32
	Seed             uint64
	MsSinceStart     uint64
	EffectDurationMs uint64
	BeatT            float64
	Palette          model.ColorPalette
}

// Apply evaluates effect against target for the given output target,
// dispatching on its kind.
func Apply[T Target[T]](target T, ctx Context, outputTarget model.OutputTarget, effect *model.Effect) {
	if effect == nil {
		return
	}
	switch effect.Kind {
	case model.EffectStatic:
		applyStatic(target, ctx, outputTarget, effect)
	case model.EffectRamp:
		applyRamp(target, ctx, outputTarget, effect)
	case model.EffectStrobe:
		applyStrobe(target, ctx, outputTarget, effect)
	case model.EffectRandom:
		applyRandom(target, ctx, outputTarget, effect)
	case model.EffectSequence:
		applySequence(target, ctx, outputTarget, effect)
	}
}

// firstResolvedFixture returns the first fixture id an output target
// resolves to in the active patch, if any.
func firstResolvedFixture(project *model.Project, target model.OutputTarget) (model.QualifiedFixtureId, bool) {
	ids := outputtarget.Resolve(project, target)
	if len(ids) == 0 {
		return model.QualifiedFixtureId{}, false
	}
	return ids[0], true
}

func applyStatic[T Target[T]](target T, ctx Context, outputTarget model.OutputTarget, effect *model.Effect) {
	id, ok := firstResolvedFixture(ctx.Project, outputTarget)
	if !ok {
		return
	}
	target.ApplyState(id, effect.State, ctx.Palette)
}

func applyStrobe[T Target[T]](target T, ctx Context, outputTarget model.OutputTarget, effect *model.Effect) {
	id, ok := firstResolvedFixture(ctx.Project, outputTarget)
	if !ok {
		return
	}
	period := effect.StrobeStateAFrames + effect.StrobeStateBFrames
	if period == 0 {
		return
	}
	if ctx.Frame%period < effect.StrobeStateAFrames {
		target.ApplyState(id, effect.StrobeStateA, ctx.Palette)
	} else {
		target.ApplyState(id, effect.StrobeStateB, ctx.Palette)
	}
}
