package polyphase

import (
	tape "TapeSort/tape_manager"
)

// merge combines runs pairwise from tapes bigger and smaller onto output
// until one of them runs out. Both tapes must be positioned on the first
// record of a run. Records left on bigger stay unread; its current record
// is the first one not written yet.
func (s *sorter) merge(r roles) error {
	t1, t2, out := s.tapes[r.bigger], s.tapes[r.smaller], s.tapes[r.output]

	// both runs start here, whatever came before
	t1.ClearLastRecord()
	t2.ClearLastRecord()

	merged := 0
	for {
		var from, other *tape.Tape
		for {
			from, other = t2, t1
			if s.policy(t1.CurrentRecord(), t2.CurrentRecord()) {
				from, other = t1, t2
			}

			ended, err := s.moveRecord(from, out)
			if err != nil {
				return err
			}
			if ended {
				break
			}
		}

		// the run on from is over, the rest of the run on other follows as is
		for {
			ended, err := s.moveRecord(other, out)
			if err != nil {
				return err
			}
			if ended {
				break
			}
		}
		merged++

		if !t1.CurrentRecord().IsValid() || !t2.CurrentRecord().IsValid() {
			break
		}
	}

	s.log.Debug("merge ended",
		"runs_merged", merged,
		"exhausted", r.smaller,
		"left_on", r.bigger,
		"next", t1.CurrentRecord().String(),
	)
	return nil
}

// moveRecord writes the current record of src to out and advances src.
// It reports whether that record closed the run on src.
func (s *sorter) moveRecord(src, out *tape.Tape) (bool, error) {
	if err := out.WriteNext(src.CurrentRecord()); err != nil {
		return false, err
	}

	rec, err := src.ReadNext()
	if err != nil {
		return false, err
	}
	if !rec.IsValid() {
		return true, nil
	}
	return !src.IsProgressing(s.policy), nil
}
