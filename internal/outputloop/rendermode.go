package outputloop

import (
	"fmt"

	"github.com/nightgrid/halo/internal/compositor"
	"github.com/nightgrid/halo/internal/model"
	"github.com/nightgrid/halo/internal/outputtarget"
)

func full() *float64 {
	v := 1.0
	return &v
}

// ApplyRenderMode drives target according to the project's selected
// render mode: Blackout leaves it at its fresh default; Scene and Show run
// the compositor against a scene id; FixtureDebug/GroupDebug apply full
// brightness to every fixture an output or group resolves to, a utility
// for patch verification.
func ApplyRenderMode[T compositor.Target[T]](target T, project *model.Project, mode model.RenderMode, systemT uint64, frame uint32) error {
	switch mode.Kind {
	case model.RenderModeBlackout:
		return nil

	case model.RenderModeScene:
		return compositor.RenderScene(target, project, mode.SceneID, systemT, frame)

	case model.RenderModeShow:
		return compositor.RenderScene(target, project, project.ActiveScene, systemT, frame)

	case model.RenderModeFixtureDebug:
		return debugOutput(target, project, mode.OutputID)

	case model.RenderModeGroupDebug:
		return debugGroup(target, project, mode.GroupID)

	default:
		return fmt.Errorf("%w: unknown render mode", model.ErrInvalidArgument)
	}
}

func debugOutput[T compositor.Target[T]](target T, project *model.Project, outputID uint64) error {
	patch, ok := project.Patches[project.ActivePatch]
	if !ok {
		return fmt.Errorf("%w: active patch", model.ErrConfigMissing)
	}
	output, ok := patch.Outputs[outputID]
	if !ok {
		return fmt.Errorf("%w: output %d", model.ErrConfigMissing, outputID)
	}

	state := model.FixtureState{Dimmer: full()}
	for fixtureID := range output.DmxFixtures {
		target.ApplyState(model.QualifiedFixtureId{Patch: project.ActivePatch, Output: outputID, Fixture: fixtureID}, state, model.ColorPalette{})
	}
	for segmentID := range output.WledSegments {
		target.ApplyState(model.QualifiedFixtureId{Patch: project.ActivePatch, Output: outputID, Fixture: segmentID}, state, model.ColorPalette{})
	}
	return nil
}

func debugGroup[T compositor.Target[T]](target T, project *model.Project, groupID uint64) error {
	ids := outputtarget.Resolve(project, model.OutputTarget{Kind: model.OutputTargetGroup, GroupID: groupID})
	state := model.FixtureState{Dimmer: full()}
	for _, id := range ids {
		target.ApplyState(id, state, model.ColorPalette{})
	}
	return nil
}
