// experiment sorts random tapes of 10, 100, ... 100000 records and writes
// "n,phases,page_operations" lines to a CSV file.
// Run: go run ./cmd/experiment -out data/data.csv
package main

import (
	"TapeSort/config"
	"TapeSort/policy"
	polyphase "TapeSort/sort_engine"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	out := flag.String("out", "data/data.csv", "CSV file to write")
	dir := flag.String("dir", "data", "directory for the random and sorted tapes")
	seed := flag.Uint64("seed", 1, "random seed")
	spec := flag.String("policy", cfg.Policy, "built-in policy name or CEL expression")
	flag.Parse()

	p, err := policy.Resolve(*spec)
	if err != nil {
		log.Fatalf("policy: %v", err)
	}
	if err := os.MkdirAll(*dir, 0755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}

	samples, err := polyphase.Measure(*dir, polyphase.ExperimentSizes(), p, *seed,
		polyphase.WithLogger(config.NewLogger(cfg)),
	)
	if err != nil {
		log.Fatalf("experiment: %v", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create %s: %v", *out, err)
	}
	defer f.Close()
	if err := polyphase.WriteCSV(f, samples); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}

	for _, s := range samples {
		fmt.Printf("%8s records: %2d phases, %s page operations\n",
			humanize.Comma(int64(s.N)), s.Result.Phases, humanize.Comma(int64(s.Result.PageOperations)))
	}
	fmt.Printf("Output written to %s\n", *out)
}
