package effectengine

import (
	"math"

	"github.com/nightgrid/halo/internal/model"
	"github.com/nightgrid/halo/internal/outputtarget"
)

// applyRandom picks, deterministically from the global random table and
// the effect's seed, one of two child effects to apply and at what local
// progress — producing stable pseudo-random alternation rather than true
// randomness.
func applyRandom[T Target[T]](target T, ctx Context, outputTarget model.OutputTarget, effect *model.Effect) {
	ensureRandomTable()

	if !effect.RandomTreatFixturesIndividually {
		applyRandomOnce(target, ctx, outputTarget, effect, ctx.Seed)
		return
	}

	ids := outputtarget.Resolve(ctx.Project, outputTarget)
	for i, id := range ids {
		single := model.OutputTarget{Kind: model.OutputTargetFixtures, FixtureIDs: []model.QualifiedFixtureId{id}}
		applyRandomOnce(target, ctx, single, effect, uint64(i))
	}
}

func applyRandomOnce[T Target[T]](target T, ctx Context, outputTarget model.OutputTarget, effect *model.Effect, seed uint64) {
	windowSize := randomWindowSize(
		effect.RandomEffectAMin, effect.RandomEffectAVariation,
		effect.RandomEffectBMin, effect.RandomEffectBVariation,
	)
	if windowSize <= 0 {
		return
	}

	// Wrapping 64-bit arithmetic: Go's unsigned overflow wraps the same
	// way Rust's u64::wrapping_add/wrapping_mul do.
	effectT := (ctx.SystemT + LargePrime*(LargePrime*seed+effect.RandomSeed)) % uint64(windowSize)

	counter := 0.0
	for i, number := range randomTable {
		prevCounter := counter
		if i%2 == 0 {
			counter += number*effect.RandomEffectAVariation + effect.RandomEffectAMin
		} else {
			counter += number*effect.RandomEffectBVariation + effect.RandomEffectBMin
		}

		if effectT < uint64(counter) {
			subFract := (float64(effectT) - prevCounter) / (counter - prevCounter)
			subEffectT := uint64(subFract * math.MaxUint32)

			if i%2 == 0 {
				Apply(target, withTiming(ctx, subEffectT, math.MaxUint32), outputTarget, effect.RandomEffectA)
			} else {
				Apply(target, withTiming(ctx, subEffectT, math.MaxUint32), outputTarget, effect.RandomEffectB)
			}
			return
		}
	}
}

func withTiming(ctx Context, msSinceStart, effectDurationMs uint64) Context {
	ctx.MsSinceStart = msSinceStart
	ctx.EffectDurationMs = effectDurationMs
	return ctx
}
