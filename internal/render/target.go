// Package render turns a semantic FixtureState into concrete channel
// values on a DMX universe or a WLED segment set.
package render

import "github.com/nightgrid/halo/internal/model"

// Target is the capability contract the scene compositor renders against.
// It is generic over the concrete kind (DmxTarget or WledTarget) so the
// compositor can clone and interpolate two "sibling" targets of the same
// kind without a type switch or reflection — the idiomatic substitute for
// the original's "targets must be of the same concrete type" trait bound.
type Target[T any] interface {
	// ApplyState writes a semantic fixture state into this target's
	// buffer for the given fixture, using palette to resolve symbolic
	// colors.
	ApplyState(id model.QualifiedFixtureId, state model.FixtureState, palette model.ColorPalette)

	// Interpolate sets this target's buffer to the blend of a and b at
	// t in [0,1]. a and b are untouched.
	Interpolate(a, b T, t float64)

	// Clone returns a deep-enough copy for the compositor's
	// before/after double-buffer pattern. Implementations use
	// fixed-size arrays and small slices so this stays cheap.
	Clone() T
}
