// Command halo-osc-bridge forwards a project's controller-mapping output
// to an OSC endpoint — a thin demonstration of wiring go-osc to
// internal/controlmap the way legacy/oscproxy wired it straight to a
// playlist trigger, without pulling OSC into the core engine.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"golang.org/x/exp/maps"

	"github.com/nightgrid/halo/internal/controlmap"
	"github.com/nightgrid/halo/internal/model"
)

func main() {
	projectPath := flag.String("project", "", "path to a gob-encoded project file")
	controllerName := flag.String("controller", "", "controller name within the project's controller mapping")
	oscHost := flag.String("osc-host", "127.0.0.1", "destination OSC host")
	oscPort := flag.Int("osc-port", 8000, "destination OSC port")
	interval := flag.Duration("interval", 25*time.Millisecond, "how often to poll and forward controller output")
	flag.Parse()

	if *projectPath == "" || *controllerName == "" {
		fmt.Fprintln(os.Stderr, "halo-osc-bridge: -project and -controller are required")
		os.Exit(1)
	}

	f, err := os.Open(*projectPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "halo-osc-bridge: open project: %v\n", err)
		os.Exit(1)
	}
	project, err := model.DecodeProject(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "halo-osc-bridge: decode project: %v\n", err)
		os.Exit(1)
	}

	client := osc.NewClient(*oscHost, *oscPort)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	fmt.Printf("halo-osc-bridge: forwarding %q to %s:%d every %s\n", *controllerName, *oscHost, *oscPort, *interval)

	for {
		select {
		case <-sigCh:
			return
		case now := <-ticker.C:
			systemT := uint64(now.UnixMilli())
			if err := forward(client, &project, *controllerName, systemT); err != nil {
				fmt.Fprintf(os.Stderr, "halo-osc-bridge: %v\n", err)
			}
		}
	}
}

func forward(client *osc.Client, project *model.Project, controllerName string, systemT uint64) error {
	values, err := controlmap.CalculateControllerOutput(project, controllerName, systemT)
	if err != nil {
		return err
	}

	channels := maps.Keys(values)
	sort.Strings(channels)

	for _, channel := range channels {
		address := fmt.Sprintf("/halo/%s/%s", controllerName, channel)
		msg := osc.NewMessage(address)
		msg.Append(float32(values[channel]))
		if err := client.Send(msg); err != nil {
			return fmt.Errorf("halo-osc-bridge: send %s: %w", address, err)
		}
	}
	return nil
}
