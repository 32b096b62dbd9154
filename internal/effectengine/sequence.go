package effectengine

import (
	"github.com/nightgrid/halo/internal/model"
	"github.com/nightgrid/halo/internal/outputtarget"
)

// SequenceBeatResolution scales a sequence's native-beat progress into the
// integer millisecond-like coordinate its layer entries are authored in.
const SequenceBeatResolution = 7200.0

func applySequence[T Target[T]](target T, ctx Context, outputTarget model.OutputTarget, effect *model.Effect) {
	if effect.SequenceID == 0 {
		return
	}
	sequence, ok := ctx.Project.Sequences[effect.SequenceID]
	if !ok {
		return
	}

	fixtures := outputtarget.Resolve(ctx.Project, outputTarget)
	n := len(fixtures)
	if n == 0 {
		return
	}

	for i, id := range fixtures {
		phaseIndex := float64(i) / float64(n)
		beatT := ctx.BeatT
		if sequence.NativeBeats != 0 {
			beatT = ctx.BeatT / sequence.NativeBeats
		}
		t := CalculateTiming(effect.SequenceTiming, ctx.MsSinceStart, ctx.EffectDurationMs, beatT, phaseIndex)

		sequenceT := uint64(t * SequenceBeatResolution * sequence.NativeBeats)

		single := model.OutputTarget{Kind: model.OutputTargetFixtures, FixtureIDs: []model.QualifiedFixtureId{id}}

		for _, layer := range sequence.Layers {
			entry, ok := findLayerEntry(layer, sequenceT)
			if !ok {
				continue
			}
			subCtx := withTiming(ctx, sequenceT-entry.StartMs, entry.EndMs-entry.StartMs)
			Apply(target, subCtx, single, &entry.Effect)
		}
	}
}

func findLayerEntry(layer model.SequenceLayer, sequenceT uint64) (model.SequenceLayerEntry, bool) {
	for _, entry := range layer.Entries {
		if entry.StartMs < sequenceT && entry.EndMs >= sequenceT {
			return entry, true
		}
	}
	return model.SequenceLayerEntry{}, false
}
