// dump_tape prints every record of a tape followed by its summary, either to
// stdout or to a file. Run from repo root: go run ./cmd/dump_tape data/sorted.dat [out.txt]
package main

import (
	"TapeSort/record"
	"TapeSort/tapefile"
	"fmt"
	"io"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <tape> [output.txt]\n", os.Args[0])
		os.Exit(1)
	}
	path := os.Args[1]

	var w io.Writer = os.Stdout
	if len(os.Args) > 2 {
		f, err := os.Create(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "create output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	fmt.Fprintf(w, "========== %s ==========\n", path)
	if err := tapefile.PrintFile(w, path); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	summary, err := tapefile.Summarize(path, record.AscendingByMax)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintln(w, "==========")
	fmt.Fprintln(w, summary)
}
