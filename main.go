package main

import (
	"TapeSort/config"
	"TapeSort/policy"
	"TapeSort/record"
	polyphase "TapeSort/sort_engine"
	"TapeSort/tapefile"
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const menu = `Menu:
g <tape> <n>             - generate n random records
c <text> <tape>          - convert a text file of records to a tape
p <tape>                 - print a tape
s <in> <out> [policy]    - sort a tape
v <tape> [policy]        - check a tape is sorted
i <tape>                 - summarize a tape
e                        - exit`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := config.NewLogger(cfg)

	sh := &shell{cfg: cfg, out: os.Stdout, opts: []polyphase.Option{
		polyphase.WithLogger(logger),
		polyphase.WithWorkDir(cfg.WorkDir),
		polyphase.WithKeepWorkTapes(cfg.KeepWorkTapes),
	}}

	fmt.Println(menu)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("tapesort> ")

		if !scanner.Scan() { // Ctrl+D pressed
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, "e") || strings.EqualFold(line, "exit") {
			break
		}

		if err := sh.run(strings.Fields(line)); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}

type shell struct {
	cfg  *config.Config
	out  io.Writer
	opts []polyphase.Option
}

func (sh *shell) run(args []string) error {
	switch args[0] {
	case "g":
		if len(args) < 3 {
			return fmt.Errorf("usage: g <tape> <n>")
		}
		n, err := strconv.Atoi(args[2])
		if err != nil || n < 0 {
			return fmt.Errorf("bad record count %q", args[2])
		}
		if err := tapefile.GenerateRandom(args[1], n, uint64(time.Now().UnixNano())); err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "%d records written to %s\n", n, args[1])

	case "c":
		if len(args) < 3 {
			return fmt.Errorf("usage: c <text> <tape>")
		}
		n, err := tapefile.ConvertTextFile(args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "%d records written to %s\n", n, args[2])

	case "p":
		if len(args) < 2 {
			return fmt.Errorf("usage: p <tape>")
		}
		return tapefile.PrintFile(sh.out, args[1])

	case "s":
		if len(args) < 3 {
			return fmt.Errorf("usage: s <in> <out> [policy]")
		}
		p, err := sh.policy(args[3:])
		if err != nil {
			return err
		}
		res, err := polyphase.Sort(args[1], args[2], p, sh.opts...)
		if err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "sorted in %d phases, %d page operations\n", res.Phases, res.PageOperations)

	case "v":
		if len(args) < 2 {
			return fmt.Errorf("usage: v <tape> [policy]")
		}
		p, err := sh.policy(args[2:])
		if err != nil {
			return err
		}
		ok, err := tapefile.IsSorted(args[1], p)
		if err != nil {
			return err
		}
		if ok {
			fmt.Fprintln(sh.out, "tape is sorted")
		} else {
			fmt.Fprintln(sh.out, "tape is NOT sorted")
		}

	case "i":
		if len(args) < 2 {
			return fmt.Errorf("usage: i <tape>")
		}
		summary, err := tapefile.Summarize(args[1], record.AscendingByMax)
		if err != nil {
			return err
		}
		fmt.Fprintln(sh.out, summary)

	default:
		fmt.Fprintln(sh.out, menu)
	}
	return nil
}

// policy resolves the policy typed after the file names, the configured one otherwise.
// The rest of the line is joined so CEL expressions may contain spaces.
func (sh *shell) policy(rest []string) (record.Policy, error) {
	spec := sh.cfg.Policy
	if len(rest) > 0 {
		spec = strings.Join(rest, " ")
	}
	return policy.Resolve(spec)
}
