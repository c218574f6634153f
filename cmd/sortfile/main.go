// sortfile sorts a tape with the polyphase merge and reports the cost.
// Usage: go run ./cmd/sortfile -in data/random.dat -out data/sorted.dat [-policy desc] [-config tapesort.yaml]
package main

import (
	"TapeSort/config"
	"TapeSort/policy"
	polyphase "TapeSort/sort_engine"
	"TapeSort/tapefile"
	"flag"
	"fmt"
	"log"
)

func main() {
	in := flag.String("in", "", "tape to sort")
	out := flag.String("out", "", "sorted tape to write")
	configPath := flag.String("config", "", "optional YAML config file")
	spec := flag.String("policy", "", "built-in policy name or CEL expression (overrides config)")
	dump := flag.Bool("dump", false, "log tape contents after every phase")
	verify := flag.Bool("verify", true, "check the output is sorted")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		log.Fatalf("both -in and -out are required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *spec != "" {
		cfg.Policy = *spec
	}
	logger := config.NewLogger(cfg)

	p, err := policy.Resolve(cfg.Policy)
	if err != nil {
		log.Fatalf("policy: %v", err)
	}

	res, err := polyphase.Sort(*in, *out, p,
		polyphase.WithLogger(logger),
		polyphase.WithTapeDump(*dump),
		polyphase.WithWorkDir(cfg.WorkDir),
		polyphase.WithKeepWorkTapes(cfg.KeepWorkTapes),
	)
	if err != nil {
		log.Fatalf("sort %s: %v", *in, err)
	}

	if *verify {
		ok, err := tapefile.IsSorted(*out, p)
		if err != nil {
			log.Fatalf("verify %s: %v", *out, err)
		}
		if !ok {
			log.Fatalf("%s is not sorted", *out)
		}
	}

	fmt.Printf("phases: %d\npage operations: %d\n", res.Phases, res.PageOperations)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}
