// convert turns a text file of records such as "{ 1, -2, 3 }" into a tape.
// Usage: go run ./cmd/convert <input.txt> <output.tape>
package main

import (
	"TapeSort/tapefile"
	"fmt"
	"log"
	"os"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <input.txt> <output.tape>\n", os.Args[0])
		os.Exit(1)
	}

	n, err := tapefile.ConvertTextFile(os.Args[1], os.Args[2])
	if err != nil {
		log.Fatalf("convert %s: %v", os.Args[1], err)
	}
	fmt.Printf("%d records written to %s\n", n, os.Args[2])
}
