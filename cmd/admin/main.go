// admin inspects the runtime data of a world: lists world directories,
// queries the sqlite step index, and dumps recorded step reports.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	persistlog "hexcraft.ai/internal/persistence/log"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "db":
			dbCmd(os.Args[2:])
			return
		case "steps":
			stepsCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (optional)")
	_ = fs.Parse(args)

	base := filepath.Join(*dataDir, "worlds")
	if *worldID != "" {
		base = filepath.Join(base, *worldID)
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read:", err)
		os.Exit(1)
	}
	for _, e := range entries {
		fmt.Println(e.Name())
	}
}

// stepsCmd reads the compressed step log directly, bypassing the
// index, and prints the recorded reports as JSONL.
func stepsCmd(args []string) {
	fs := flag.NewFlagSet("steps", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (required)")
	fromHeight := fs.Uint64("from_height", 0, "print from height (inclusive)")
	toHeight := fs.Uint64("to_height", 0, "print up to height (inclusive, optional)")
	_ = fs.Parse(args)

	if *worldID == "" {
		fmt.Fprintln(os.Stderr, "missing -world")
		os.Exit(2)
	}

	reports, err := persistlog.ReadSteps(filepath.Join(*dataDir, "worlds", *worldID))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read step log:", err)
		os.Exit(1)
	}
	for _, r := range reports {
		if r.Height < *fromHeight {
			continue
		}
		if *toHeight != 0 && r.Height > *toHeight {
			break
		}
		printJSON(r)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
