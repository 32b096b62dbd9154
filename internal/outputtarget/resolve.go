// Package outputtarget resolves an OutputTarget reference (a direct
// fixture list, or a named group, possibly nested) into a concrete,
// ordered list of qualified fixture ids against a project.
package outputtarget

import (
	"golang.org/x/exp/slices"

	"github.com/nightgrid/halo/internal/model"
)

// Resolve flattens target into the ordered list of fixture ids it
// addresses, restricted to the active patch. Group(0) is the sentinel
// meaning "every fixture and segment in the active patch's outputs";
// Group(n>0) recursively flattens project.Groups[n].Targets, following
// nested Group references by worklist — first-seen ids are expanded once,
// but the flattened output itself may repeat an id if it's reachable by
// more than one path, matching the source behavior.
func Resolve(project *model.Project, target model.OutputTarget) []model.QualifiedFixtureId {
	switch target.Kind {
	case model.OutputTargetFixtures:
		return filterActivePatch(project, target.FixtureIDs)
	case model.OutputTargetGroup:
		if target.GroupID == 0 {
			return allActivePatchFixtures(project)
		}
		return flattenGroup(project, target.GroupID, make(map[uint64]struct{}))
	default:
		return nil
	}
}

func filterActivePatch(project *model.Project, ids []model.QualifiedFixtureId) []model.QualifiedFixtureId {
	out := make([]model.QualifiedFixtureId, 0, len(ids))
	for _, id := range ids {
		if id.Patch == project.ActivePatch {
			out = append(out, id)
		}
	}
	return out
}

// allActivePatchFixtures lists every DMX fixture and WLED segment in the
// active patch's outputs, ordered by output id then fixture/segment id.
func allActivePatchFixtures(project *model.Project) []model.QualifiedFixtureId {
	patch, ok := project.Patches[project.ActivePatch]
	if !ok {
		return nil
	}

	outputIDs := make([]uint64, 0, len(patch.Outputs))
	for id := range patch.Outputs {
		outputIDs = append(outputIDs, id)
	}
	slices.Sort(outputIDs)

	var out []model.QualifiedFixtureId
	for _, outputID := range outputIDs {
		output := patch.Outputs[outputID]

		fixtureIDs := make([]uint64, 0, len(output.DmxFixtures))
		for id := range output.DmxFixtures {
			fixtureIDs = append(fixtureIDs, id)
		}
		slices.Sort(fixtureIDs)
		for _, fid := range fixtureIDs {
			out = append(out, model.QualifiedFixtureId{Patch: project.ActivePatch, Output: outputID, Fixture: fid})
		}

		segmentIDs := make([]uint64, 0, len(output.WledSegments))
		for id := range output.WledSegments {
			segmentIDs = append(segmentIDs, id)
		}
		slices.Sort(segmentIDs)
		for _, sid := range segmentIDs {
			out = append(out, model.QualifiedFixtureId{Patch: project.ActivePatch, Output: outputID, Fixture: sid})
		}
	}
	return out
}

func flattenGroup(project *model.Project, groupID uint64, seen map[uint64]struct{}) []model.QualifiedFixtureId {
	if _, already := seen[groupID]; already {
		return nil
	}
	seen[groupID] = struct{}{}

	group, ok := project.Groups[groupID]
	if !ok {
		return nil
	}

	var out []model.QualifiedFixtureId
	for _, target := range group.Targets {
		switch target.Kind {
		case model.OutputTargetFixtures:
			out = append(out, filterActivePatch(project, target.FixtureIDs)...)
		case model.OutputTargetGroup:
			if target.GroupID == 0 {
				out = append(out, allActivePatchFixtures(project)...)
			} else {
				out = append(out, flattenGroup(project, target.GroupID, seen)...)
			}
		}
	}
	return out
}
