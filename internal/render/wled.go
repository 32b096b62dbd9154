package render

import "github.com/nightgrid/halo/internal/model"

// WledSegment is one segment's accumulated render state.
type WledSegment struct {
	Effect        uint32
	Palette       uint32
	PrimaryColor  model.Color
	Speed         float64
	Brightness    float64
}

// WledTarget accumulates one frame's worth of segment state for a WLED
// output. Segment order follows the order of the ids passed to
// NewWledTarget and is fixed for the target's lifetime.
type WledTarget struct {
	SegmentIDs []uint64
	Segments   []WledSegment
}

// NewWledTarget builds a default-initialized WLED render target: every
// segment starts at effect 0, palette 0, black, speed 1, full brightness —
// mirroring the defaults a freshly constructed segment set uses before any
// tile writes to it.
func NewWledTarget(segmentIDs []uint64) *WledTarget {
	segments := make([]WledSegment, len(segmentIDs))
	for i := range segments {
		segments[i] = WledSegment{Speed: 1.0, Brightness: 1.0}
	}
	return &WledTarget{SegmentIDs: segmentIDs, Segments: segments}
}

// Clone returns a sibling target with its own segment slice.
func (w *WledTarget) Clone() *WledTarget {
	segments := make([]WledSegment, len(w.Segments))
	copy(segments, w.Segments)
	return &WledTarget{SegmentIDs: w.SegmentIDs, Segments: segments}
}

func (w *WledTarget) indexOf(segmentID uint64) (int, bool) {
	for i, id := range w.SegmentIDs {
		if id == segmentID {
			return i, true
		}
	}
	return 0, false
}

// ApplyState writes wled_effect/wled_palette/color/dimmer fields onto the
// named segment. Fields left nil on state are untouched.
func (w *WledTarget) ApplyState(id model.QualifiedFixtureId, state model.FixtureState, palette model.ColorPalette) {
	index, ok := w.indexOf(id.Fixture)
	if !ok {
		return
	}
	segment := &w.Segments[index]

	if state.WledEffect != nil {
		segment.Effect = *state.WledEffect
	}
	if state.WledPalette != nil {
		segment.Palette = *state.WledPalette
	}
	if state.LightColor != nil {
		if color, ok := resolveLightColor(*state.LightColor, palette); ok {
			white := 0.0
			if color.White != nil {
				white = *color.White
			}
			segment.PrimaryColor = model.Color{
				Red:   color.Red + white,
				Green: color.Green + white,
				Blue:  color.Blue + white,
			}
		}
	}
	if state.Dimmer != nil {
		segment.Brightness = *state.Dimmer
	}
}

// Interpolate blends two sibling WLED targets: effect/palette flip at
// t=0.5, color/speed/brightness interpolate linearly.
func (w *WledTarget) Interpolate(a, b *WledTarget, t float64) {
	for i := range w.Segments {
		as, bs := a.Segments[i], b.Segments[i]
		var out WledSegment

		if t < 0.5 {
			out.Effect, out.Palette = as.Effect, as.Palette
		} else {
			out.Effect, out.Palette = bs.Effect, bs.Palette
		}

		out.PrimaryColor = model.Color{
			Red:   lerp(as.PrimaryColor.Red, bs.PrimaryColor.Red, t),
			Green: lerp(as.PrimaryColor.Green, bs.PrimaryColor.Green, t),
			Blue:  lerp(as.PrimaryColor.Blue, bs.PrimaryColor.Blue, t),
		}
		out.Speed = lerp(as.Speed, bs.Speed, t)
		out.Brightness = lerp(as.Brightness, bs.Brightness, t)

		w.Segments[i] = out
	}
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// SegmentPayload is the wire-ready shape for one WLED segment (§6 produced
// formats): r/g/b, sx (speed), bri all floored into bytes.
type SegmentPayload struct {
	ID    uint64
	Red   byte
	Green byte
	Blue  byte
	Fx    uint32
	Sx    byte
	Pal   uint32
	Bri   byte
}

// Snapshot produces the transport-ready segment list.
func (w *WledTarget) Snapshot() []SegmentPayload {
	out := make([]SegmentPayload, len(w.Segments))
	for i, seg := range w.Segments {
		out[i] = SegmentPayload{
			ID:    w.SegmentIDs[i],
			Red:   floorByte(seg.PrimaryColor.Red),
			Green: floorByte(seg.PrimaryColor.Green),
			Blue:  floorByte(seg.PrimaryColor.Blue),
			Fx:    seg.Effect,
			Sx:    floorByte(seg.Speed),
			Pal:   seg.Palette,
			Bri:   floorByte(seg.Brightness),
		}
	}
	return out
}

func floorByte(v float64) byte {
	scaled := v * 255.0
	if scaled < 0 {
		return 0
	}
	if scaled > 255 {
		return 255
	}
	return byte(scaled)
}
