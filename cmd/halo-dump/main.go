// Command halo-dump loads a project file and hex-dumps the frames its
// render pipeline produces for one output, without any wire transport —
// a drop-in replacement for pointing unidump at a running OLA daemon,
// repointed at the in-process render path so a show file can be
// sanity-checked offline.
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/sirupsen/logrus"

	"github.com/nightgrid/halo/internal/compositor"
	"github.com/nightgrid/halo/internal/logging"
	"github.com/nightgrid/halo/internal/model"
	"github.com/nightgrid/halo/internal/outputloop"
	"github.com/nightgrid/halo/internal/outputtarget"
	"github.com/nightgrid/halo/internal/render"
)

func main() {
	projectPath := flag.String("project", "", "path to a gob-encoded project file")
	outputID := flag.Uint64("output", 0, "output id within the project's active patch to dump")
	duration := flag.Duration("duration", time.Second, "how long to render")
	colorHex := flag.String("color", "", "optional hex color (e.g. #ff8800) to paint the output instead of rendering the active scene")
	flag.Parse()

	log := logging.Logger()

	if *projectPath == "" {
		log.Fatal("halo-dump: -project is required")
	}

	f, err := os.Open(*projectPath)
	if err != nil {
		log.Fatalf("halo-dump: open project: %v", err)
	}
	defer f.Close()

	project, err := model.DecodeProject(f)
	if err != nil {
		log.Fatalf("halo-dump: decode project: %v", err)
	}

	patch, ok := project.Patches[project.ActivePatch]
	if !ok {
		log.Fatalf("halo-dump: active patch %d not found", project.ActivePatch)
	}
	output, ok := patch.Outputs[*outputID]
	if !ok {
		log.Fatalf("halo-dump: output %d not found in active patch", *outputID)
	}

	var debugColor *model.LightColor
	if *colorHex != "" {
		c, err := colorful.Hex(*colorHex)
		if err != nil {
			log.Fatalf("halo-dump: parse -color: %v", err)
		}
		r, g, b := c.RGB255()
		debugColor = &model.LightColor{
			Kind:  model.LightColorConcrete,
			Color: model.Color{Red: float64(r) / 255, Green: float64(g) / 255, Blue: float64(b) / 255},
		}
	}

	fps := outputloop.FPSSerialDMX
	switch output.Kind {
	case model.OutputKindSacnDmx:
		fps = outputloop.FPSSacnDMX
	case model.OutputKindWled:
		fps = outputloop.FPSWled
	}
	frameCount := int(duration.Seconds() * float64(fps))
	if frameCount < 1 {
		frameCount = 1
	}

	ctx := context.Background()
	if output.Kind == model.OutputKindWled {
		dumpWled(ctx, log, &project, *outputID, &output, frameCount, fps, debugColor)
	} else {
		dumpDmx(ctx, log, &project, *outputID, &output, frameCount, fps, debugColor)
	}
}

func dumpDmx(ctx context.Context, log *logrus.Logger, project *model.Project, outputID uint64, output *model.Output, frameCount, fps int, debugColor *model.LightColor) {
	sink := render.NewMemoryDmxSink()
	interval := time.Second / time.Duration(fps)

	for frame := 0; frame < frameCount; frame++ {
		target := render.NewDmxTarget(output, project.FixtureDefs)
		systemT := uint64(frame) * uint64(interval/time.Millisecond)

		if err := renderOneDmx(target, project, outputID, systemT, uint32(frame), debugColor); err != nil {
			log.Fatalf("halo-dump: render frame %d: %v", frame, err)
		}
		if err := sink.Send(ctx, uint32(outputID), target.Snapshot()); err != nil {
			log.Fatalf("halo-dump: send frame %d: %v", frame, err)
		}

		universe, _ := sink.Last(uint32(outputID))
		fmt.Printf("frame %4d t=%6dms %s\n", frame, systemT, hex.EncodeToString(universe[:]))
	}
}

func renderOneDmx(target *render.DmxTarget, project *model.Project, outputID uint64, systemT uint64, frame uint32, debugColor *model.LightColor) error {
	if debugColor == nil {
		return compositor.RenderScene(target, project, project.ActiveScene, systemT, frame)
	}

	dimmer := 1.0
	state := model.FixtureState{Dimmer: &dimmer, LightColor: debugColor}
	ids := outputtarget.Resolve(project, model.OutputTarget{Kind: model.OutputTargetFixtures, FixtureIDs: outputFixtureIDs(project, outputID)})
	for _, id := range ids {
		target.ApplyState(id, state, model.ColorPalette{})
	}
	return nil
}

func dumpWled(ctx context.Context, log *logrus.Logger, project *model.Project, outputID uint64, output *model.Output, frameCount, fps int, debugColor *model.LightColor) {
	sink := render.NewMemoryWledSink()
	interval := time.Second / time.Duration(fps)

	segmentIDs := make([]uint64, 0, len(output.WledSegments))
	for id := range output.WledSegments {
		segmentIDs = append(segmentIDs, id)
	}

	for frame := 0; frame < frameCount; frame++ {
		target := render.NewWledTarget(segmentIDs)
		systemT := uint64(frame) * uint64(interval/time.Millisecond)

		if err := renderOneWled(target, project, outputID, systemT, uint32(frame), debugColor); err != nil {
			log.Fatalf("halo-dump: render frame %d: %v", frame, err)
		}
		if err := sink.Send(ctx, target.Snapshot()); err != nil {
			log.Fatalf("halo-dump: send frame %d: %v", frame, err)
		}

		fmt.Printf("frame %4d t=%6dms segments=%+v\n", frame, systemT, sink.Last())
	}
}

func renderOneWled(target *render.WledTarget, project *model.Project, outputID uint64, systemT uint64, frame uint32, debugColor *model.LightColor) error {
	if debugColor == nil {
		return compositor.RenderScene(target, project, project.ActiveScene, systemT, frame)
	}

	dimmer := 1.0
	state := model.FixtureState{Dimmer: &dimmer, LightColor: debugColor}
	ids := outputtarget.Resolve(project, model.OutputTarget{Kind: model.OutputTargetFixtures, FixtureIDs: outputFixtureIDs(project, outputID)})
	for _, id := range ids {
		target.ApplyState(id, state, model.ColorPalette{})
	}
	return nil
}

func outputFixtureIDs(project *model.Project, outputID uint64) []model.QualifiedFixtureId {
	patch := project.Patches[project.ActivePatch]
	output := patch.Outputs[outputID]

	ids := make([]model.QualifiedFixtureId, 0, len(output.DmxFixtures)+len(output.WledSegments))
	for fixtureID := range output.DmxFixtures {
		ids = append(ids, model.QualifiedFixtureId{Patch: project.ActivePatch, Output: outputID, Fixture: fixtureID})
	}
	for segmentID := range output.WledSegments {
		ids = append(ids, model.QualifiedFixtureId{Patch: project.ActivePatch, Output: outputID, Fixture: segmentID})
	}
	return ids
}
