package outputtarget

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nightgrid/halo/internal/model"
)

func twoOutputProject() *model.Project {
	return &model.Project{
		ActivePatch: 1,
		Patches: map[uint64]model.Patch{
			1: {Outputs: map[uint64]model.Output{
				1: {Kind: model.OutputKindSerialDmx, DmxFixtures: map[uint64]model.PhysicalDmxFixture{
					20: {}, 10: {},
				}},
				2: {Kind: model.OutputKindWled, WledSegments: map[uint64]model.WledSegmentConfig{
					5: {},
				}},
			}},
			2: {Outputs: map[uint64]model.Output{
				1: {Kind: model.OutputKindSerialDmx, DmxFixtures: map[uint64]model.PhysicalDmxFixture{99: {}}},
			}},
		},
	}
}

func TestResolveFixturesFiltersOtherPatches(t *testing.T) {
	t.Parallel()

	project := twoOutputProject()
	target := model.OutputTarget{Kind: model.OutputTargetFixtures, FixtureIDs: []model.QualifiedFixtureId{
		{Patch: 1, Output: 1, Fixture: 10},
		{Patch: 2, Output: 1, Fixture: 99},
	}}

	got := Resolve(project, target)
	assert.Equal(t, []model.QualifiedFixtureId{{Patch: 1, Output: 1, Fixture: 10}}, got)
}

func TestResolveGroupZeroIsEveryActivePatchFixture(t *testing.T) {
	t.Parallel()

	project := twoOutputProject()
	got := Resolve(project, model.OutputTarget{Kind: model.OutputTargetGroup, GroupID: 0})

	assert.Equal(t, []model.QualifiedFixtureId{
		{Patch: 1, Output: 1, Fixture: 10},
		{Patch: 1, Output: 1, Fixture: 20},
		{Patch: 1, Output: 2, Fixture: 5},
	}, got)
}

func TestResolveGroupFlattensNestedTargets(t *testing.T) {
	t.Parallel()

	project := twoOutputProject()
	project.Groups = map[uint64]model.Group{
		1: {Targets: []model.OutputTarget{
			{Kind: model.OutputTargetFixtures, FixtureIDs: []model.QualifiedFixtureId{{Patch: 1, Output: 1, Fixture: 10}}},
			{Kind: model.OutputTargetGroup, GroupID: 2},
		}},
		2: {Targets: []model.OutputTarget{
			{Kind: model.OutputTargetFixtures, FixtureIDs: []model.QualifiedFixtureId{{Patch: 1, Output: 2, Fixture: 5}}},
		}},
	}

	got := Resolve(project, model.OutputTarget{Kind: model.OutputTargetGroup, GroupID: 1})
	assert.Equal(t, []model.QualifiedFixtureId{
		{Patch: 1, Output: 1, Fixture: 10},
		{Patch: 1, Output: 2, Fixture: 5},
	}, got)
}

func TestResolveGroupCycleDoesNotInfiniteLoop(t *testing.T) {
	t.Parallel()

	project := twoOutputProject()
	project.Groups = map[uint64]model.Group{
		1: {Targets: []model.OutputTarget{{Kind: model.OutputTargetGroup, GroupID: 2}}},
		2: {Targets: []model.OutputTarget{{Kind: model.OutputTargetGroup, GroupID: 1}}},
	}

	assert.NotPanics(t, func() {
		got := Resolve(project, model.OutputTarget{Kind: model.OutputTargetGroup, GroupID: 1})
		assert.Empty(t, got)
	})
}

func TestResolveUnknownGroupIsEmpty(t *testing.T) {
	t.Parallel()

	project := twoOutputProject()
	got := Resolve(project, model.OutputTarget{Kind: model.OutputTargetGroup, GroupID: 404})
	assert.Empty(t, got)
}
