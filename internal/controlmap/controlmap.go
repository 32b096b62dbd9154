// Package controlmap computes the outgoing value for each channel a
// project's controller surface exposes — a MIDI or OSC control surface's
// feedback LEDs/faders, without touching any device I/O.
package controlmap

import (
	"fmt"
	"math"

	"github.com/nightgrid/halo/internal/compositor"
	"github.com/nightgrid/halo/internal/model"
)

// CalculateControllerOutput computes, for every channel the named
// controller exposes, the value [0,1] it should currently display:
// BeatMatch blinks once per beat, FirstBeat once per 4-beat phrase,
// SetTempo reports the live tempo scaled into a fader's range, and
// TileStrength mirrors a tile's current composite strength.
func CalculateControllerOutput(project *model.Project, controllerName string, systemT uint64) (map[string]float64, error) {
	output := make(map[string]float64)
	if controllerName == "" {
		return output, nil
	}

	if project.ControllerMap == nil {
		return nil, fmt.Errorf("%w: controller mapping", model.ErrConfigMissing)
	}
	controller, ok := project.ControllerMap.Controllers[controllerName]
	if !ok {
		return nil, fmt.Errorf("%w: controller %q", model.ErrConfigMissing, controllerName)
	}
	if project.LiveBeat == nil {
		return nil, fmt.Errorf("%w: live beat", model.ErrConfigMissing)
	}
	beat := *project.LiveBeat

	beatT := float64(systemT-beat.OffsetMs) / float64(beat.LengthMs)

	for channel, action := range controller.Actions {
		value, err := channelValue(project, action, beat, beatT, systemT)
		if err != nil {
			return nil, err
		}
		output[channel] = clamp01(value)
	}
	return output, nil
}

func channelValue(project *model.Project, action model.ControllerAction, beat model.BeatMetadata, beatT float64, systemT uint64) (float64, error) {
	switch action.Kind {
	case model.ActionBeatMatch:
		return 1.0 - math.Round(math.Mod(beatT, 1.0)), nil

	case model.ActionFirstBeat:
		return 1.0 - math.Round(math.Mod(beatT, 4.0)/4.0), nil

	case model.ActionSetTempo:
		return (60000.0/float64(beat.LengthMs) - 80.0) / 127.0, nil

	case model.ActionTileStrength:
		tile, beatMeta, ok := findActiveTile(project, action.TileID)
		if !ok {
			return 0, nil
		}
		return compositor.TileAmount(tile, beatMeta, systemT), nil

	default:
		return 0, nil
	}
}

func findActiveTile(project *model.Project, tileID uint64) (*model.Tile, model.BeatMetadata, bool) {
	scene, ok := project.Scenes[project.ActiveScene]
	if !ok {
		return nil, model.BeatMetadata{}, false
	}
	for _, entry := range scene.TileMap {
		if entry.ID == tileID && entry.Tile != nil {
			beat := model.BeatMetadata{}
			if project.LiveBeat != nil {
				beat = *project.LiveBeat
			}
			return entry.Tile, beat, true
		}
	}
	return nil, model.BeatMetadata{}, false
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
