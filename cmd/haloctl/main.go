// Command haloctl is a small terminal front door onto the control facade
// — list tiles, toggle them, nudge their strength — standing in for the
// JSON-RPC server this module doesn't implement.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nightgrid/halo/internal/control"
	"github.com/nightgrid/halo/internal/model"
	"github.com/nightgrid/halo/internal/projectstore"
)

func main() {
	projectPath := flag.String("project", "", "path to a gob-encoded project file")
	flag.Parse()

	if *projectPath == "" {
		fmt.Fprintln(os.Stderr, "haloctl: -project is required")
		os.Exit(1)
	}

	f, err := os.Open(*projectPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "haloctl: open project: %v\n", err)
		os.Exit(1)
	}
	project, err := model.DecodeProject(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "haloctl: decode project: %v\n", err)
		os.Exit(1)
	}

	store := projectstore.New(project)
	facade := control.New(store, func() uint64 { return uint64(time.Now().UnixMilli()) })

	if _, err := tea.NewProgram(newModel(facade)).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "haloctl: %v\n", err)
		os.Exit(1)
	}
}
