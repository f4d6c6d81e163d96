package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	persistlog "hexcraft.ai/internal/persistence/log"
	"hexcraft.ai/internal/sim/catalogs"
	"hexcraft.ai/internal/sim/scenario"
	"hexcraft.ai/internal/sim/tuning"
)

// replay rebuilds a world from its scenario and re-runs it against a
// recorded step log, verifying every state digest. A mismatch means
// the recorded run and this binary disagree on the rules.
func main() {
	var (
		scenarioPath = flag.String("scenario", "", "scenario the recorded world was started from")
		configDir    = flag.String("configs", "./configs", "config directory")
		tuningPath   = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		worldDir     = flag.String("world_dir", "", "world data directory containing steps/steps.jsonl.zst")
		toHeight     = flag.Uint64("to_height", 0, "stop at height (inclusive, optional)")
	)
	flag.Parse()

	if *scenarioPath == "" || *worldDir == "" {
		fmt.Fprintln(os.Stderr, "missing -scenario or -world_dir")
		os.Exit(2)
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}
	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			tune = tuning.Default()
		} else {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
	}

	sc, err := scenario.Load(*scenarioPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load scenario:", err)
		os.Exit(1)
	}
	w, err := scenario.Build(sc, cats, tune)
	if err != nil {
		fmt.Fprintln(os.Stderr, "build world:", err)
		os.Exit(1)
	}

	recorded, err := persistlog.ReadSteps(*worldDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read step log:", err)
		os.Exit(1)
	}
	if len(recorded) == 0 {
		fmt.Fprintln(os.Stderr, "empty step log")
		os.Exit(1)
	}

	var checked uint64
	for _, want := range recorded {
		if *toHeight != 0 && want.Height > *toHeight {
			break
		}
		got := w.Step()
		if got.Height != want.Height {
			fmt.Fprintf(os.Stderr, "height mismatch: stepped=%d recorded=%d\n", got.Height, want.Height)
			os.Exit(1)
		}
		if got.Digest != want.Digest {
			fmt.Fprintf(os.Stderr, "digest mismatch at height %d: got=%s want=%s\n", got.Height, got.Digest, want.Digest)
			os.Exit(1)
		}
		checked++
	}

	fmt.Printf("replay ok: world=%s checked=%d steps (through height=%d)\n", sc.ID, checked, w.Height())
}
