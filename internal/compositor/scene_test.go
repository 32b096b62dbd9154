package compositor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightgrid/halo/internal/model"
	"github.com/nightgrid/halo/internal/render"
)

func dimmerTestProject(fixtureID uint64) (*model.Project, *model.Output) {
	output := model.Output{
		Kind: model.OutputKindSerialDmx,
		DmxFixtures: map[uint64]model.PhysicalDmxFixture{
			fixtureID: {FixtureDefinitionID: 1, FixtureMode: "dimmer"},
		},
	}
	project := &model.Project{
		ActivePatch: 1,
		Patches:     map[uint64]model.Patch{1: {Outputs: map[uint64]model.Output{1: output}}},
		FixtureDefs: map[uint64]model.DmxFixtureDefinition{
			1: {
				Modes: map[string]model.Mode{
					"dimmer": {
						Channels: map[uint32]model.Channel{
							0: {Type: "dimmer", Mapping: model.ChannelMapping{Kind: model.MappingKindAmount, MinValue: 0, MaxValue: 255}},
						},
					},
				},
			},
		},
		LiveBeat: &model.BeatMetadata{OffsetMs: 0, LengthMs: 1000},
	}
	return project, &output
}

func staticTile(id uint64, priority, x, y int32, value float64, target uint64) model.TileMapEntry {
	v := value
	return model.TileMapEntry{
		ID: id, X: x, Y: y, Priority: priority,
		Tile: &model.Tile{
			Transition: &model.Transition{Kind: model.TransitionAbsoluteStrength, AbsoluteStrength: 1},
			Channels: []model.EffectChannel{
				{
					Effect:       &model.Effect{Kind: model.EffectStatic, State: model.FixtureState{Dimmer: &v}},
					OutputTarget: &model.OutputTarget{Kind: model.OutputTargetFixtures, FixtureIDs: []model.QualifiedFixtureId{{Patch: 1, Output: 1, Fixture: target}}},
				},
			},
		},
	}
}

func TestRenderSceneTileOrderingHigherPriorityWins(t *testing.T) {
	t.Parallel()

	project, output := dimmerTestProject(100)
	low := staticTile(1, 1, 0, 0, 0.2, 100)
	high := staticTile(2, 2, 0, 0, 0.8, 100)

	project.Scenes = map[uint64]model.Scene{
		1: {TileMap: []model.TileMapEntry{low, high}},
	}

	target := render.NewDmxTarget(output, project.FixtureDefs)
	err := RenderScene(target, project, 1, 0, 0)
	require.NoError(t, err)

	alone := render.NewDmxTarget(output, project.FixtureDefs)
	aloneProject := *project
	aloneProject.Scenes = map[uint64]model.Scene{1: {TileMap: []model.TileMapEntry{high}}}
	err = RenderScene(alone, &aloneProject, 1, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, alone.Snapshot(), target.Snapshot())
}

func TestRenderSceneMissingSceneErrors(t *testing.T) {
	t.Parallel()

	project, output := dimmerTestProject(100)
	project.Scenes = map[uint64]model.Scene{}
	target := render.NewDmxTarget(output, project.FixtureDefs)

	err := RenderScene(target, project, 99, 0, 0)
	assert.ErrorIs(t, err, model.ErrConfigMissing)
}

func TestRenderSceneMissingLiveBeatErrors(t *testing.T) {
	t.Parallel()

	project, output := dimmerTestProject(100)
	project.LiveBeat = nil
	project.Scenes = map[uint64]model.Scene{1: {}}
	target := render.NewDmxTarget(output, project.FixtureDefs)

	err := RenderScene(target, project, 1, 0, 0)
	assert.ErrorIs(t, err, model.ErrConfigMissing)
}

func TestTileAmountOneShotFadeIn(t *testing.T) {
	t.Parallel()

	beat := model.BeatMetadata{LengthMs: 1000}
	duration := &model.Duration{Kind: model.DurationMs, Ms: 500}
	tile := &model.Tile{
		Transition:    &model.Transition{Kind: model.TransitionStartFadeInMs, TimestampMs: 1000},
		TimingDetails: &model.TimingDetails{Kind: model.TimingOneShot, OneShotDuration: duration},
	}

	assert.Equal(t, 1.0, tileAmount(tile, beat, 1200))
	assert.Equal(t, 0.0, tileAmount(tile, beat, 2000))
}

func TestTileAmountLoopFadeInOut(t *testing.T) {
	t.Parallel()

	beat := model.BeatMetadata{LengthMs: 1000}
	fadeIn := &model.Duration{Kind: model.DurationMs, Ms: 1000}
	tile := &model.Tile{
		Transition:    &model.Transition{Kind: model.TransitionStartFadeInMs, TimestampMs: 0},
		TimingDetails: &model.TimingDetails{Kind: model.TimingLoop, LoopFadeIn: fadeIn},
	}
	assert.InDelta(t, 0.5, tileAmount(tile, beat, 500), 1e-9)

	fadeOut := &model.Duration{Kind: model.DurationMs, Ms: 1000}
	tileOut := &model.Tile{
		Transition:    &model.Transition{Kind: model.TransitionStartFadeOutMs, TimestampMs: 0},
		TimingDetails: &model.TimingDetails{Kind: model.TimingLoop, LoopFadeOut: fadeOut},
	}
	assert.InDelta(t, 0.5, tileAmount(tileOut, beat, 500), 1e-9)
}

func TestInterpolatePalettesPassesThroughMissingColor(t *testing.T) {
	t.Parallel()

	a := model.ColorPalette{Primary: &model.ColorDescription{Color: model.Color{Red: 1}}}
	b := model.ColorPalette{Name: "b"}

	got := interpolatePalettes(a, b, 0.5)
	assert.Equal(t, "b", got.Name)
	require.NotNil(t, got.Primary)
	assert.Equal(t, 1.0, got.Primary.Color.Red)
	assert.Nil(t, got.Secondary)
}
