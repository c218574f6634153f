package polyphase

/*
Distribution phase

Runs are peeled off the input tape and appended to the two work tapes following
the two-pile Fibonacci schedule:

	tape1 <- 1 run
	tape2 <- 1 run       (tape1: 1, tape2: 1)
	tape1 <- 1 run       (tape1: 2, tape2: 1)
	tape2 <- 2 runs      (tape1: 2, tape2: 3)
	tape1 <- 3 runs      (tape1: 5, tape2: 3)
	...

so that after distribution the two tapes hold consecutive Fibonacci numbers of
runs. When the input runs out in the middle of a step the missing runs are
remembered as dummy runs and resolved at the start of the merge phase.
*/

// distribute spreads the input over the work tapes. It expects the first
// input record to be current. It returns the index of the tape written last,
// how many real runs the last step wrote, and whether the whole input was a
// single run.
func (s *sorter) distribute() (last int, written int, single bool, err error) {
	last = firstWork

	written, err = s.writeRuns(inputTape, last, 1)
	if err != nil {
		return last, written, false, err
	}

	fibPrev, fib := 0, 1
	for s.tapes[inputTape].CurrentRecord().IsValid() {
		last = s.other(last)
		s.fibPrev = fibPrev

		written, err = s.writeRuns(inputTape, last, fib)
		if err != nil {
			return last, written, false, err
		}

		fibPrev, fib = fib, fibPrev+fib
	}

	// the schedule never advanced: everything fit in the first run
	if fibPrev == 0 {
		s.log.Debug("input holds a single run")
		return last, written, true, nil
	}

	return last, written, false, nil
}

func (s *sorter) other(work int) int {
	if work == firstWork {
		return otherWork
	}
	return firstWork
}

// writeRuns moves n runs from tape src to tape dst and returns how many real
// runs it wrote. The current record of src must be the first record of a run;
// on return the current record of src is the first one not written yet, or
// DNE when src ran out.
//
// The first run is joined with the last run already on dst when the last
// record of dst may precede the first record of src. A joined run does not
// count towards n.
//
// When src runs out early the shortfall is stored in s.dummyRuns, unless no
// real run was written at all.
func (s *sorter) writeRuns(src, dst, n int) (int, error) {
	in, out := s.tapes[src], s.tapes[dst]

	s.log.Debug("writing runs",
		"runs", n,
		"from", src,
		"to", dst,
		"first", in.CurrentRecord().String(),
	)

	joined := false
	for i := 0; i < n; i++ {
		if i == 0 && !joined && out.CurrentRecord().IsValid() {
			if s.policy(out.CurrentRecord(), in.CurrentRecord()) {
				s.log.Debug("series are joining",
					"tape", dst,
					"last", out.CurrentRecord().String(),
					"next", in.CurrentRecord().String(),
				)
				joined = true
				i--
			}
		}

		for {
			if err := out.WriteNext(in.CurrentRecord()); err != nil {
				return 0, err
			}

			rec, err := in.ReadNext()
			if err != nil {
				return 0, err
			}

			if !rec.IsValid() {
				s.dummyRuns = n - i - 1
				if s.dummyRuns == n {
					s.log.Debug("no real run was written, dropping dummy runs", "tape", dst)
					s.dummyRuns = 0
				}

				s.log.Debug("source tape ran out",
					"written", i+1,
					"joined", joined,
					"dummy_runs", s.dummyRuns,
					"runs_on_tape", s.fibPrev+i+1,
				)
				return i + 1, nil
			}

			if !in.IsProgressing(s.policy) {
				break
			}
		}
	}

	s.log.Debug("runs written",
		"written", n,
		"joined", joined,
		"runs_on_tape", s.fibPrev+n,
		"next", in.CurrentRecord().String(),
	)
	return n, nil
}
