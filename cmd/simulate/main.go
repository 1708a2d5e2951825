package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dineshkummarc/oge/internal/config"
	"github.com/dineshkummarc/oge/internal/core/observability/log"
	"github.com/dineshkummarc/oge/internal/injector"
	"github.com/dineshkummarc/oge/internal/snapshot"
)

func main() {
	path := flag.String("config", "", "path to a YAML scenario file")
	steps := flag.Int("steps", 100, "number of ticks to run")
	flag.Parse()

	if *path == "" || *steps < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}
	sc, err := injector.InitializeScenario(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error building scenario:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Provide().Sync() }()

	sc.World.Step(*steps)
	snap := snapshot.Capture(sc.World)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tX\tY\tACTIVE")
	for _, b := range snap.Bodies {
		fmt.Fprintf(tw, "%s\t%g\t%g\t%t\n", b.Name, b.X, b.Y, b.Active)
	}
	_ = tw.Flush()
	if picked := sc.Collected(); len(picked) > 0 {
		fmt.Printf("collected: %v\n", picked)
	}
	fmt.Printf("tick %d digest %016x\n", snap.Tick, snap.Digest())
}
