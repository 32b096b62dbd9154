// Package effectengine evaluates the five effect kinds (static, ramp,
// strobe, random, sequence) against a render target, given a tile's timing
// parameters and the current frame clock.
package effectengine

import (
	"math"

	"github.com/fogleman/ease"

	"github.com/nightgrid/halo/internal/model"
)

// EasingFunc maps a normalized [0,1] progress to an eased progress.
type EasingFunc func(t float64) float64

func easingFor(e model.Easing) EasingFunc {
	switch e {
	case model.EasingEaseIn:
		return ease.InCubic
	case model.EasingEaseOut:
		return ease.OutCubic
	case model.EasingEaseInOut:
		return easeInOut
	case model.EasingSine:
		return sineEase
	case model.EasingSawtooth:
		return sawtoothEase
	case model.EasingTriangle:
		return triangleEase
	default:
		return ease.Linear
	}
}

// sineEase has no fogleman/ease equivalent, so it's hand-rolled here.
func sineEase(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}

// easeInOut is the smoothstep curve t²(3-2t). fogleman/ease's InOutCubic
// uses a different (mirrored-cubic) shape, so this one is hand-rolled to
// match.
func easeInOut(t float64) float64 {
	return t * t * (3 - 2*t)
}

func sawtoothEase(t float64) float64 {
	return t - math.Floor(t)
}

func triangleEase(t float64) float64 {
	frac := t - math.Floor(t)
	if frac < 0.5 {
		return 2 * frac
	}
	return 2 * (1 - frac)
}

// CalculateTiming computes the normalized [0,1] progress for an effect
// timing configuration at a given point in wall-clock/beat time.
//
// phaseIndex lets callers offset multiple fixtures across the same timing
// (e.g. a travelling ramp): phaseIndex=i/N for fixture i of N.
func CalculateTiming(timing model.EffectTiming, msSinceStart uint64, effectDurationMs uint64, beatT float64, phaseIndex float64) float64 {
	var t float64
	switch timing.Mode {
	case model.TimingModeAbsolute:
		if timing.AbsoluteMs == 0 {
			t = 0
		} else {
			t = float64(msSinceStart) / float64(timing.AbsoluteMs)
		}
	case model.TimingModeBeat:
		if timing.BeatMultiplier == 0 {
			t = 0
		} else {
			t = beatT / timing.BeatMultiplier
		}
	case model.TimingModeOneShot:
		if effectDurationMs == 0 {
			t = 0
		} else {
			t = float64(msSinceStart) / float64(effectDurationMs)
		}
	}

	t = frac(t + timing.Phase*phaseIndex)

	if timing.Mirrored {
		if t < 0.5 {
			t = 2 * t
		} else {
			t = 2 * (1 - t)
		}
	}

	return easingFor(timing.Easing)(t)
}

// frac returns the fractional part of v, always non-negative — the Go
// equivalent of Rust's f64::fract() for our purposes, since phase offsets
// and beat ratios can run negative.
func frac(v float64) float64 {
	f := v - math.Floor(v)
	if f < 0 {
		f += 1
	}
	return f
}
