package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightgrid/halo/internal/model"
	"github.com/nightgrid/halo/internal/projectstore"
)

func testFacade(t *testing.T) (*Facade, *projectstore.Store) {
	t.Helper()
	project := model.Project{
		ActiveScene: 1,
		Scenes: map[uint64]model.Scene{
			1: {TileMap: []model.TileMapEntry{
				{ID: 10, Tile: &model.Tile{Name: "wash"}},
			}},
		},
	}
	store := projectstore.New(project)
	facade := New(store, func() uint64 { return 5000 })
	return facade, store
}

func TestEnableTileSetsFadeIn(t *testing.T) {
	t.Parallel()

	facade, store := testFacade(t)
	require.NoError(t, facade.EnableTile(10))

	project := store.Snapshot()
	transition := project.Scenes[1].TileMap[0].Tile.Transition
	require.NotNil(t, transition)
	assert.Equal(t, model.TransitionStartFadeInMs, transition.Kind)
	assert.Equal(t, uint64(5000), transition.TimestampMs)
}

func TestDisableTileSetsFadeOut(t *testing.T) {
	t.Parallel()

	facade, store := testFacade(t)
	require.NoError(t, facade.DisableTile(10))

	project := store.Snapshot()
	transition := project.Scenes[1].TileMap[0].Tile.Transition
	require.NotNil(t, transition)
	assert.Equal(t, model.TransitionStartFadeOutMs, transition.Kind)
}

func TestSetTileAmountRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	facade, _ := testFacade(t)
	err := facade.SetTileAmount(10, 1.5)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestSetTileAmountValid(t *testing.T) {
	t.Parallel()

	facade, store := testFacade(t)
	require.NoError(t, facade.SetTileAmount(10, 0.75))

	project := store.Snapshot()
	transition := project.Scenes[1].TileMap[0].Tile.Transition
	require.NotNil(t, transition)
	assert.Equal(t, model.TransitionAbsoluteStrength, transition.Kind)
	assert.Equal(t, 0.75, transition.AbsoluteStrength)
}

func TestMutateTileUnknownIDErrors(t *testing.T) {
	t.Parallel()

	facade, _ := testFacade(t)
	err := facade.EnableTile(999)
	assert.ErrorIs(t, err, model.ErrConfigMissing)
}

func TestListTilesDerivesEnabledAmount(t *testing.T) {
	t.Parallel()

	facade, _ := testFacade(t)
	require.NoError(t, facade.SetTileAmount(10, 0.2))

	tiles, err := facade.ListTiles()
	require.NoError(t, err)
	require.Len(t, tiles, 1)
	assert.Equal(t, uint64(10), tiles[0].ID)
	assert.True(t, tiles[0].Enabled)
	assert.Equal(t, 0.2, tiles[0].Amount)
}
