// Package control exposes the tile mutators that sit in front of the
// project store: enable/disable/set-amount. A control server (JSON-RPC or
// otherwise) layers over this; that layer is not part of this module.
package control

import (
	"fmt"

	"github.com/nightgrid/halo/internal/model"
	"github.com/nightgrid/halo/internal/projectstore"
)

// Facade mutates tile transitions on the active scene. It holds no state
// of its own beyond the store reference and a clock for "now".
type Facade struct {
	store *projectstore.Store
	nowMs func() uint64
}

// New builds a Facade over store. nowMs supplies the current wall-clock
// time in milliseconds for transition timestamps.
func New(store *projectstore.Store, nowMs func() uint64) *Facade {
	return &Facade{store: store, nowMs: nowMs}
}

// EnableTile starts a fade-in on tile id within the active scene.
func (f *Facade) EnableTile(id uint64) error {
	now := f.nowMs()
	return f.mutateTile(id, func(tile *model.Tile) {
		tile.Transition = &model.Transition{Kind: model.TransitionStartFadeInMs, TimestampMs: now}
	})
}

// DisableTile starts a fade-out on tile id within the active scene.
func (f *Facade) DisableTile(id uint64) error {
	now := f.nowMs()
	return f.mutateTile(id, func(tile *model.Tile) {
		tile.Transition = &model.Transition{Kind: model.TransitionStartFadeOutMs, TimestampMs: now}
	})
}

// SetTileAmount pins tile id's strength to a fixed amount in [0,1].
func (f *Facade) SetTileAmount(id uint64, amount float64) error {
	if amount < 0 || amount > 1 {
		return fmt.Errorf("%w: amount %v outside [0,1]", model.ErrInvalidArgument, amount)
	}
	return f.mutateTile(id, func(tile *model.Tile) {
		tile.Transition = &model.Transition{Kind: model.TransitionAbsoluteStrength, AbsoluteStrength: amount}
	})
}

func (f *Facade) mutateTile(id uint64, fn func(tile *model.Tile)) error {
	var err error
	f.store.Update(func(project *model.Project) {
		scene, ok := project.Scenes[project.ActiveScene]
		if !ok {
			err = fmt.Errorf("%w: active scene", model.ErrConfigMissing)
			return
		}
		for i := range scene.TileMap {
			if scene.TileMap[i].ID != id || scene.TileMap[i].Tile == nil {
				continue
			}
			fn(scene.TileMap[i].Tile)
			return
		}
		err = fmt.Errorf("%w: tile %d", model.ErrConfigMissing, id)
	})
	return err
}

// TileSummary is the control-surface's listing shape for one tile.
type TileSummary struct {
	ID       uint64
	Name     string
	X, Y     int32
	Priority int32
	Enabled  bool
	Amount   float64
}

// ListTiles returns a summary of every tile in the active scene, deriving
// Enabled/Amount from the tile's transition kind.
func (f *Facade) ListTiles() ([]TileSummary, error) {
	var (
		out []TileSummary
		err error
	)
	viewErr := f.store.View(func(project *model.Project) error {
		scene, ok := project.Scenes[project.ActiveScene]
		if !ok {
			err = fmt.Errorf("%w: active scene", model.ErrConfigMissing)
			return nil
		}
		out = make([]TileSummary, 0, len(scene.TileMap))
		for _, entry := range scene.TileMap {
			if entry.Tile == nil {
				continue
			}
			enabled, amount := deriveEnabledAmount(entry.Tile.Transition)
			out = append(out, TileSummary{
				ID: entry.ID, Name: entry.Tile.Name,
				X: entry.X, Y: entry.Y, Priority: entry.Priority,
				Enabled: enabled, Amount: amount,
			})
		}
		return nil
	})
	if viewErr != nil {
		return nil, viewErr
	}
	return out, err
}

func deriveEnabledAmount(transition *model.Transition) (bool, float64) {
	if transition == nil {
		return false, 0
	}
	switch transition.Kind {
	case model.TransitionStartFadeInMs:
		return true, 1
	case model.TransitionStartFadeOutMs:
		return false, 0
	case model.TransitionAbsoluteStrength:
		return transition.AbsoluteStrength > 0.1, transition.AbsoluteStrength
	default:
		return false, 0
	}
}
