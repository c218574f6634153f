// Package polyphase sorts a tape file with the three-tape polyphase merge.
package polyphase

import (
	"TapeSort/record"
	tape "TapeSort/tape_manager"
	"TapeSort/tapefile"
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

/*
Sort works with three tapes: the input tape and two scratch tapes created in a
private work directory.

	distribution:  input -> tape1, tape2   (Fibonacci numbers of runs)
	merge phase:   bigger + smaller -> output, then the roles rotate

The input tape is rebound to the output path before the first merge, so the
input file is only ever read. A phase ends when the smaller tape runs out; the
sort ends when a phase leaves nothing on the tape that becomes smaller next.
*/

// Sort sorts the tape at inputPath into outputPath using policy and reports
// how many merge phases ran and how many page operations every tape performed.
//
// inputPath and outputPath may name the same file. policy must be total and
// transitive, otherwise the result is undefined.
func Sort(inputPath, outputPath string, policy record.Policy, opts ...Option) (Result, error) {
	if policy == nil {
		return Result{}, errors.New("sort policy is nil")
	}

	o := options{
		logger:  slog.New(slog.DiscardHandler),
		workDir: os.TempDir(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workDir == "" {
		o.workDir = os.TempDir()
	}

	s := &sorter{
		policy:     policy,
		log:        o.logger,
		opts:       o,
		inputPath:  inputPath,
		outputPath: outputPath,
	}

	dir := filepath.Join(o.workDir, "polyphase-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Result{}, fmt.Errorf("failed to create work directory: %w", err)
	}
	if !o.keepWorkTapes {
		defer os.RemoveAll(dir)
	}
	s.workPaths = [3]string{
		inputPath,
		filepath.Join(dir, "tape1.dat"),
		filepath.Join(dir, "tape2.dat"),
	}

	s.log.Debug("polyphase sort started",
		"input", inputPath,
		"output", outputPath,
		"work_dir", dir,
	)

	res, err := s.run()
	s.closeAll()
	if err != nil {
		s.log.Error("polyphase sort failed", "input", inputPath, "error", err)
		return res, err
	}

	s.log.Debug("polyphase sort finished",
		"phases", res.Phases,
		"page_operations", res.PageOperations,
	)
	return res, nil
}

func (s *sorter) run() (Result, error) {
	if err := s.openTapes(); err != nil {
		return Result{}, err
	}

	empty, err := s.tapes[inputTape].IsEmpty()
	if err != nil {
		return Result{}, err
	}
	if empty {
		s.log.Debug("input tape is empty")
		return s.copyInput()
	}

	first, err := s.tapes[inputTape].ReadNext()
	if err != nil {
		return Result{}, err
	}
	if !first.IsValid() {
		// only a partial slot: no record to sort
		s.log.Debug("input tape holds no complete record")
		return s.copyInput()
	}

	last, written, single, err := s.distribute()
	if err != nil {
		return Result{}, fmt.Errorf("distribution failed: %w", err)
	}
	if single {
		return s.copyInput()
	}

	if err := s.closeTapes(); err != nil {
		return Result{}, err
	}
	s.dump("after distribution")

	// the input is fully consumed: its tape becomes the first output
	if err := s.tapes[inputTape].Open(s.outputPath, tape.ModeWrite); err != nil {
		return Result{}, err
	}
	for _, id := range []int{firstWork, otherWork} {
		if err := s.tapes[id].Reopen(tape.ModeRead); err != nil {
			return Result{}, err
		}
	}

	// the tape written last holds more runs, unless its last step only joined series
	r := roles{bigger: last, smaller: s.other(last), output: inputTape}
	if written == 0 {
		r.swap()
	}

	phases, err := s.mergePhases(r)
	if err != nil {
		return Result{Phases: phases, PageOperations: s.pageOperations()}, err
	}
	return Result{Phases: phases, PageOperations: s.pageOperations()}, nil
}

func (s *sorter) mergePhases(r roles) (int, error) {
	for _, id := range []int{r.bigger, r.smaller} {
		empty, err := s.tapes[id].IsEmpty()
		if err != nil {
			return 0, err
		}
		if empty {
			return 0, violation(0, "work tape %d is empty after distribution", id)
		}
	}
	if _, err := s.tapes[r.smaller].ReadNext(); err != nil {
		return 0, err
	}
	if _, err := s.tapes[r.bigger].ReadNext(); err != nil {
		return 0, err
	}

	phases := 0
	for {
		if s.dummyRuns > 0 {
			want := s.dummyRuns
			s.log.Debug("resolving dummy runs", "dummy_runs", want, "from", r.smaller, "to", r.output)

			written, err := s.writeRuns(r.smaller, r.output, want)
			if err != nil {
				return phases, err
			}
			if written != want {
				return phases, violation(phases, "only %d of %d dummy runs could be copied", written, want)
			}
			s.dummyRuns = 0

			if !s.tapes[r.smaller].CurrentRecord().IsValid() {
				return phases, violation(phases, "dummy runs exhausted tape %d", r.smaller)
			}
		}

		s.log.Debug("merge phase started",
			"phase", phases+1,
			"bigger", r.bigger,
			"smaller", r.smaller,
			"output", r.output,
		)
		if err := s.merge(r); err != nil {
			return phases, fmt.Errorf("merge phase %d failed: %w", phases+1, err)
		}

		if err := s.tapes[r.smaller].Reopen(tape.ModeWrite); err != nil {
			return phases, err
		}
		if err := s.tapes[r.output].Reopen(tape.ModeRead); err != nil {
			return phases, err
		}
		if _, err := s.tapes[r.output].ReadNext(); err != nil {
			return phases, err
		}

		r.rotate()
		phases++

		s.log.Debug("tape roles rotated", "phase", phases, "bigger", r.bigger, "smaller", r.smaller, "output", r.output)

		if !s.tapes[r.smaller].CurrentRecord().IsValid() {
			break
		}
	}

	if err := s.closeTapes(); err != nil {
		return phases, err
	}
	s.dump("after merge")

	sorted := s.tapes[r.bigger].FilePath()
	if sorted != s.outputPath {
		s.log.Debug("copying sorted tape to output", "from", sorted)
		ops, err := tapefile.CopyBytes(sorted, s.outputPath)
		s.extraPageOps += ops
		if err != nil {
			return phases, err
		}
	}
	return phases, nil
}

func (s *sorter) openTapes() error {
	in, err := tape.New(s.workPaths[inputTape], tape.ModeRead)
	if err != nil {
		return err
	}
	s.tapes[inputTape] = in

	for _, id := range []int{firstWork, otherWork} {
		t, err := tape.New(s.workPaths[id], tape.ModeWrite)
		if err != nil {
			return err
		}
		s.tapes[id] = t
	}
	return nil
}

// copyInput finishes a sort whose input needs no merging. The output is a
// byte-for-byte copy of the input.
func (s *sorter) copyInput() (Result, error) {
	if err := s.closeTapes(); err != nil {
		return Result{}, err
	}
	if s.inputPath != s.outputPath {
		ops, err := tapefile.CopyBytes(s.inputPath, s.outputPath)
		s.extraPageOps += ops
		if err != nil {
			return Result{PageOperations: s.pageOperations()}, err
		}
	}
	return Result{PageOperations: s.pageOperations()}, nil
}

func (s *sorter) closeTapes() error {
	for _, t := range s.tapes {
		if t == nil {
			continue
		}
		if err := t.Close(); err != nil {
			return err
		}
	}
	return nil
}

// closeAll releases every tape and ignores errors. Used on the way out.
func (s *sorter) closeAll() {
	for _, t := range s.tapes {
		if t != nil {
			t.Close()
		}
	}
}

func (s *sorter) pageOperations() uint64 {
	total := s.extraPageOps
	for _, t := range s.tapes {
		if t != nil {
			total += t.PageOperations()
		}
	}
	return total
}

// dump writes the content of every tape to the log. Tapes must be closed.
func (s *sorter) dump(stage string) {
	if !s.opts.dumpTapes {
		return
	}
	for id, t := range s.tapes {
		var buf bytes.Buffer
		if err := tapefile.PrintFile(&buf, t.FilePath()); err != nil {
			s.log.Debug("tape dump failed", "stage", stage, "tape", id, "error", err)
			continue
		}
		s.log.Debug("tape dump", "stage", stage, "tape", id, "path", t.FilePath(), "records", strings.TrimRight(buf.String(), "\n"))
	}
}
