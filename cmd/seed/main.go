// Seed program: writes a tape of random records for the sorter to chew on.
// Run: go run ./cmd/seed -n 1000 -out data/random.dat
// Then sort it: go run ./cmd/sortfile -in data/random.dat -out data/sorted.dat
package main

import (
	"TapeSort/record"
	"TapeSort/tapefile"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

func main() {
	n := flag.Int("n", 1000, "number of records")
	out := flag.String("out", "data/random.dat", "tape to create")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	flag.Parse()

	if *n < 0 {
		log.Fatalf("record count must not be negative, got %d", *n)
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}

	if err := tapefile.GenerateRandom(*out, *n, *seed); err != nil {
		log.Fatalf("generate: %v", err)
	}

	summary, err := tapefile.Summarize(*out, record.AscendingByMax)
	if err != nil {
		log.Fatalf("summarize: %v", err)
	}
	fmt.Printf("seed %d\n", *seed)
	fmt.Println(summary)
}
