// Package compositor renders one scene into a render target: it resolves
// the live beat and color-palette transition, orders tiles, computes each
// tile's fade amount, and composites its effects on top of whatever the
// target already holds.
package compositor

import (
	"fmt"
	"sort"

	"github.com/nightgrid/halo/internal/effectengine"
	"github.com/nightgrid/halo/internal/model"
)

// Target is the capability the compositor renders against.
type Target[T any] interface {
	ApplyState(id model.QualifiedFixtureId, state model.FixtureState, palette model.ColorPalette)
	Interpolate(a, b T, t float64)
	Clone() T
}

// RenderScene renders scene sceneID into target at system_t/frame against
// project, which must be held under at least a read lock by the caller for
// the duration of this call.
func RenderScene[T Target[T]](target T, project *model.Project, sceneID uint64, systemT uint64, frame uint32) error {
	scene, ok := project.Scenes[sceneID]
	if !ok {
		return fmt.Errorf("%w: scene %d", model.ErrConfigMissing, sceneID)
	}
	if project.LiveBeat == nil {
		return fmt.Errorf("%w: live beat not set", model.ErrConfigMissing)
	}
	beat := *project.LiveBeat

	beatT := (float64(systemT) - float64(beat.OffsetMs)) / beat.LengthMs

	palette := interpolatePalettes(
		scene.ColorPalettes[scene.LastActiveColorPalette],
		scene.ColorPalettes[scene.ActiveColorPalette],
		paletteTransitionT(scene, systemT),
	)

	tiles := orderedTiles(scene.TileMap)

	for _, entry := range tiles {
		tile := entry.Tile
		if tile == nil {
			continue
		}

		amount := tileAmount(tile, beat, systemT)
		if amount == 0 {
			continue
		}

		effectT, hasEffectT := tileEffectT(tile, beat, systemT)

		before := target.Clone()
		after := target.Clone()

		for _, channel := range tile.Channels {
			if channel.Effect == nil || channel.OutputTarget == nil {
				continue
			}

			ctx := effectengine.Context{
				Project: project,
				SystemT: systemT,
				Frame:   frame,
				BeatT:   beatT,
				Palette: palette,
			}
			if hasEffectT {
				ctx.MsSinceStart = uint64(effectT * float64(^uint32(0)))
				ctx.EffectDurationMs = uint64(^uint32(0))
			} else {
				ctx.MsSinceStart = systemT
			}

			effectengine.Apply(after, ctx, *channel.OutputTarget, channel.Effect)
		}

		target.Interpolate(before, after, amount)
	}

	return nil
}

// orderedTiles returns the tile map in composite order: ascending by
// priority (so higher-priority tiles are visited, and drawn, last — on
// top), with x/y descending as the tie-break within a priority. This is
// the net effect of sorting by (priority desc, x asc, y asc) and then
// reversing the whole list.
func orderedTiles(tileMap []model.TileMapEntry) []model.TileMapEntry {
	tiles := make([]model.TileMapEntry, len(tileMap))
	copy(tiles, tileMap)

	sort.SliceStable(tiles, func(i, j int) bool {
		a, b := tiles[i], tiles[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.X != b.X {
			return a.X > b.X
		}
		return a.Y > b.Y
	})
	return tiles
}

// TileAmount exposes tileAmount for callers outside the compositor (the
// controller-mapping package needs the same fade-in/fade-out strength a
// tile would render with, without running a full scene composite).
func TileAmount(tile *model.Tile, beat model.BeatMetadata, systemT uint64) float64 {
	return tileAmount(tile, beat, systemT)
}

func tileAmount(tile *model.Tile, beat model.BeatMetadata, systemT uint64) float64 {
	if tile.Transition == nil {
		return 0
	}

	switch tile.Transition.Kind {
	case model.TransitionAbsoluteStrength:
		return tile.Transition.AbsoluteStrength

	case model.TransitionStartFadeInMs:
		t0 := tile.Transition.TimestampMs
		if tile.TimingDetails == nil {
			return 0
		}
		switch tile.TimingDetails.Kind {
		case model.TimingOneShot:
			if tile.TimingDetails.OneShotDuration == nil {
				return 0
			}
			durationMs := tile.TimingDetails.OneShotDuration.AsMs(beat)
			if elapsedSince(systemT, t0) > durationMs {
				return 0
			}
			return 1
		case model.TimingLoop:
			if tile.TimingDetails.LoopFadeIn == nil {
				return 1
			}
			durationMs := tile.TimingDetails.LoopFadeIn.AsMs(beat)
			if durationMs == 0 {
				return 1
			}
			return clamp01(elapsedSince(systemT, t0) / durationMs)
		default:
			return 0
		}

	case model.TransitionStartFadeOutMs:
		t0 := tile.Transition.TimestampMs
		if tile.TimingDetails == nil || tile.TimingDetails.Kind != model.TimingLoop || tile.TimingDetails.LoopFadeOut == nil {
			return 0
		}
		durationMs := tile.TimingDetails.LoopFadeOut.AsMs(beat)
		if durationMs == 0 {
			return 0
		}
		return clamp01(1 - elapsedSince(systemT, t0)/durationMs)

	default:
		return 0
	}
}

// tileEffectT computes the optional normalized one-shot progress used to
// drive the effect-level timing context: only defined for a fading-in
// one-shot tile.
func tileEffectT(tile *model.Tile, beat model.BeatMetadata, systemT uint64) (float64, bool) {
	if tile.Transition == nil || tile.Transition.Kind != model.TransitionStartFadeInMs {
		return 0, false
	}
	if tile.TimingDetails == nil || tile.TimingDetails.Kind != model.TimingOneShot || tile.TimingDetails.OneShotDuration == nil {
		return 0, false
	}
	durationMs := tile.TimingDetails.OneShotDuration.AsMs(beat)
	if durationMs == 0 {
		return 0, false
	}
	t0 := tile.Transition.TimestampMs
	return clamp01(elapsedSince(systemT, t0) / durationMs), true
}

func elapsedSince(systemT, t0 uint64) float64 {
	if systemT < t0 {
		return 0
	}
	return float64(systemT - t0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func paletteTransitionT(scene model.Scene, systemT uint64) float64 {
	if scene.ColorPaletteTransitionMs == 0 {
		return 1
	}
	return clamp01(elapsedSince(systemT, scene.ColorPaletteStartTransition) / scene.ColorPaletteTransitionMs)
}

// interpolatePalettes blends two color palettes component-wise; a missing
// color on one side passes through from whichever side defines it. The
// destination (b) name is kept.
func interpolatePalettes(a, b model.ColorPalette, t float64) model.ColorPalette {
	return model.ColorPalette{
		Name:      b.Name,
		Primary:   interpolateDesc(a.Primary, b.Primary, t),
		Secondary: interpolateDesc(a.Secondary, b.Secondary, t),
		Tertiary:  interpolateDesc(a.Tertiary, b.Tertiary, t),
	}
}

func interpolateDesc(a, b *model.ColorDescription, t float64) *model.ColorDescription {
	switch {
	case a != nil && b != nil:
		return &model.ColorDescription{Color: interpolateColor(a.Color, b.Color, t)}
	case a != nil:
		return a
	case b != nil:
		return b
	default:
		return nil
	}
}

func interpolateColor(a, b model.Color, t float64) model.Color {
	out := model.Color{
		Red:   (1-t)*a.Red + t*b.Red,
		Green: (1-t)*a.Green + t*b.Green,
		Blue:  (1-t)*a.Blue + t*b.Blue,
	}
	switch {
	case a.White != nil && b.White != nil:
		w := (1-t)**a.White + t**b.White
		out.White = &w
	case a.White != nil:
		w := (1 - t) * *a.White
		out.White = &w
	case b.White != nil:
		w := t * *b.White
		out.White = &w
	}
	return out
}
