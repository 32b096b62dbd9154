package render

import (
	"sync"

	"github.com/nightgrid/halo/internal/model"
)

// UniverseSize is the number of channel slots in a DMX512 universe.
const UniverseSize = 512

// DmxTarget accumulates one frame's worth of a DMX universe. It holds
// references (not copies) to the patch output and fixture definitions it
// was built against — those are read-only for the target's lifetime, which
// is one render call.
type DmxTarget struct {
	Universe [UniverseSize]float64

	output      *model.Output
	fixtureDefs map[uint64]model.DmxFixtureDefinition

	nonInterpolated     []uint16
	nonInterpolatedOnce *sync.Once
}

// NewDmxTarget builds a zeroed DMX render target for the given output.
func NewDmxTarget(output *model.Output, fixtureDefs map[uint64]model.DmxFixtureDefinition) *DmxTarget {
	return &DmxTarget{
		output:              output,
		fixtureDefs:         fixtureDefs,
		nonInterpolatedOnce: &sync.Once{},
	}
}

// Clone returns a sibling target sharing the same (read-only) output and
// fixture-definition references, with its own universe buffer.
func (d *DmxTarget) Clone() *DmxTarget {
	clone := &DmxTarget{
		Universe:            d.Universe,
		output:              d.output,
		fixtureDefs:         d.fixtureDefs,
		nonInterpolatedOnce: &sync.Once{},
	}
	return clone
}

// Snapshot quantizes the universe into transport-ready bytes:
// clamp(v*255, 0, 255) per slot.
func (d *DmxTarget) Snapshot() [UniverseSize]byte {
	var out [UniverseSize]byte
	for i, v := range d.Universe {
		out[i] = quantizeByte(v)
	}
	return out
}

func quantizeByte(v float64) byte {
	scaled := v * 255.0
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return byte(scaled)
}

func (d *DmxTarget) fixtureMode(fixtureID uint64) (model.Mode, model.PhysicalDmxFixture, bool) {
	fixture, ok := d.output.DmxFixtures[fixtureID]
	if !ok {
		return model.Mode{}, model.PhysicalDmxFixture{}, false
	}
	def, ok := d.fixtureDefs[fixture.FixtureDefinitionID]
	if !ok {
		return model.Mode{}, model.PhysicalDmxFixture{}, false
	}
	mode, ok := def.Modes[fixture.FixtureMode]
	if !ok {
		return model.Mode{}, model.PhysicalDmxFixture{}, false
	}
	return mode, fixture, true
}

// nonInterpolatedIndices lazily computes, and memoizes on the instance,
// the set of universe indices backed by a ColorWheelMapping channel. Per
// the design notes, this assumes the output topology is stable for the
// target's lifetime — callers must build a fresh target when the project
// changes.
func (d *DmxTarget) nonInterpolatedIndices() []uint16 {
	d.nonInterpolatedOnce.Do(func() {
		var indices []uint16
		for fixtureID, fixture := range d.output.DmxFixtures {
			def, ok := d.fixtureDefs[fixture.FixtureDefinitionID]
			if !ok {
				continue
			}
			mode, ok := def.Modes[fixture.FixtureMode]
			if !ok {
				continue
			}
			_ = fixtureID
			for index, channel := range mode.Channels {
				if channel.Mapping.Kind == model.MappingKindColorWheel {
					indices = append(indices, uint16(index+fixture.ChannelOffset))
				}
			}
		}
		d.nonInterpolated = indices
	})
	return d.nonInterpolated
}

// Interpolate blends two sibling DMX targets. ColorWheelMapping channels
// are not interpolated — they pick a wholesale at t<0.5, b otherwise.
// Every other channel interpolates linearly.
func (d *DmxTarget) Interpolate(a, b *DmxTarget, t float64) {
	nonInterp := d.nonInterpolatedIndices()
	isNonInterp := make(map[uint16]struct{}, len(nonInterp))
	for _, idx := range nonInterp {
		isNonInterp[idx] = struct{}{}
	}

	for i := 0; i < UniverseSize; i++ {
		if _, ok := isNonInterp[uint16(i)]; ok {
			if t < 0.5 {
				d.Universe[i] = a.Universe[i]
			} else {
				d.Universe[i] = b.Universe[i]
			}
			continue
		}
		d.Universe[i] = a.Universe[i] + t*(b.Universe[i]-a.Universe[i])
	}
}

// ApplyState writes a semantic FixtureState onto this target's universe
// for the given fixture, per the fixture-state applicator rules (§4.C).
func (d *DmxTarget) ApplyState(id model.QualifiedFixtureId, state model.FixtureState, palette model.ColorPalette) {
	mode, fixture, ok := d.fixtureMode(id.Fixture)
	if !ok {
		return
	}

	if state.LightColor != nil {
		color, ok := resolveLightColor(*state.LightColor, palette)
		if ok {
			applyColorChannels(d, mode, fixture.ChannelOffset, color)
		}
	}

	applyAngleChannel(d, mode, fixture.ChannelOffset, "pan", state.Pan)
	applyAngleChannel(d, mode, fixture.ChannelOffset, "tilt", state.Tilt)
	applyAmountChannel(d, mode, fixture.ChannelOffset, "dimmer", state.Dimmer)
	applyAmountChannel(d, mode, fixture.ChannelOffset, "strobe", state.Strobe)
	applyAmountChannel(d, mode, fixture.ChannelOffset, "width", state.Width)
	applyAmountChannel(d, mode, fixture.ChannelOffset, "height", state.Height)
	applyAmountChannel(d, mode, fixture.ChannelOffset, "zoom", state.Zoom)
}

// resolveLightColor turns a LightColor (literal or symbolic palette
// reference) into a concrete Color. A palette index outside {0..4} or one
// whose palette slot is unset yields ok=false — "no color", the channels
// are left untouched.
func resolveLightColor(lc model.LightColor, palette model.ColorPalette) (model.Color, bool) {
	switch lc.Kind {
	case model.LightColorConcrete:
		return lc.Color, true
	case model.LightColorPalette:
		white1 := 1.0
		white0 := 0.0
		switch lc.PaletteIndex {
		case 0:
			return model.Color{White: &white0}, true
		case 1:
			return model.Color{White: &white1}, true
		case 2:
			return paletteColor(palette.Primary)
		case 3:
			return paletteColor(palette.Secondary)
		case 4:
			return paletteColor(palette.Tertiary)
		default:
			return model.Color{}, false
		}
	default:
		return model.Color{}, false
	}
}

func paletteColor(desc *model.ColorDescription) (model.Color, bool) {
	if desc == nil {
		return model.Color{}, false
	}
	return desc.Color, true
}

// applyColorChannels implements the RGBW fold: if the mode has any white
// channel, color fields pass through unmodified (RGBW direct); otherwise
// white folds into r/g/b and the white slot (if any — there is none in
// this branch) is zero.
func applyColorChannels(d *DmxTarget, mode model.Mode, fixtureOffset uint32, color model.Color) {
	hasWhiteChannel := false
	for _, channel := range mode.Channels {
		if channel.Type == "white" {
			hasWhiteChannel = true
			break
		}
	}

	whiteValue := 0.0
	if color.White != nil {
		whiteValue = *color.White
	}

	var red, green, blue, white float64
	if hasWhiteChannel {
		red, green, blue, white = color.Red, color.Green, color.Blue, whiteValue
	} else {
		red = color.Red + whiteValue
		green = color.Green + whiteValue
		blue = color.Blue + whiteValue
		white = 0
	}

	for index, channel := range mode.Channels {
		slot := int(index + fixtureOffset)
		if slot < 0 || slot >= UniverseSize {
			continue
		}
		switch channel.Type {
		case "red":
			d.Universe[slot] = red
		case "green":
			d.Universe[slot] = green
		case "blue":
			d.Universe[slot] = blue
		case "white":
			d.Universe[slot] = white
		}
	}
}

// applyAmountChannel maps a normalized [0,1] value through an
// AmountMapping (bytes) channel of the given semantic type.
func applyAmountChannel(d *DmxTarget, mode model.Mode, fixtureOffset uint32, channelType string, value *float64) {
	if value == nil {
		return
	}
	for index, channel := range mode.Channels {
		if channel.Type != channelType || channel.Mapping.Kind != model.MappingKindAmount {
			continue
		}
		slot := int(index + fixtureOffset)
		if slot < 0 || slot >= UniverseSize {
			continue
		}
		min := float64(channel.Mapping.MinValue) / 255.0
		max := float64(channel.Mapping.MaxValue) / 255.0
		d.Universe[slot] = min + *value*(max-min)
	}
}

// applyAngleChannel maps a degree value through an AngleMapping channel.
// The result is not clamped to [0,1] — only Snapshot's byte quantization
// clamps.
func applyAngleChannel(d *DmxTarget, mode model.Mode, fixtureOffset uint32, channelType string, degrees *float64) {
	if degrees == nil {
		return
	}
	for index, channel := range mode.Channels {
		if channel.Type != channelType || channel.Mapping.Kind != model.MappingKindAngle {
			continue
		}
		slot := int(index + fixtureOffset)
		if slot < 0 || slot >= UniverseSize {
			continue
		}
		span := channel.Mapping.MaxDegrees - channel.Mapping.MinDegrees
		d.Universe[slot] = (*degrees - channel.Mapping.MinDegrees) / span
	}
}
