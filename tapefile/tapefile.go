// Package tapefile holds the utilities layered around tapes: copying,
// printing, verifying, materializing tapes from random or human-readable
// input, and inspecting tape files.
package tapefile

import (
	"TapeSort/record"
	tape "TapeSort/tape_manager"
	"fmt"
	"io"
)

// CopyFile copies every record of src to dst through two tapes and returns
// the page operations both tapes performed.
func CopyFile(src, dst string) (uint64, error) {
	in, err := tape.New(src, tape.ModeRead)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := tape.New(dst, tape.ModeWrite)
	if err != nil {
		return in.PageOperations(), err
	}

	for {
		rec, err := in.ReadNext()
		if err != nil {
			out.Close()
			return in.PageOperations() + out.PageOperations(), err
		}
		if !rec.IsValid() {
			break
		}
		if err := out.WriteNext(rec); err != nil {
			out.Close()
			return in.PageOperations() + out.PageOperations(), err
		}
	}

	if err := out.Close(); err != nil {
		return in.PageOperations() + out.PageOperations(), err
	}
	return in.PageOperations() + out.PageOperations(), nil
}

// ForEach calls fn with every record of the tape at path, in order.
func ForEach(path string, fn func(i int, rec record.Record) error) error {
	in, err := tape.New(path, tape.ModeRead)
	if err != nil {
		return err
	}
	defer in.Close()

	for i := 0; ; i++ {
		rec, err := in.ReadNext()
		if err != nil {
			return err
		}
		if !rec.IsValid() {
			return nil
		}
		if err := fn(i, rec); err != nil {
			return err
		}
	}
}

// PrintFile writes one record per line in "{ 1, 2, 3 }" form.
func PrintFile(w io.Writer, path string) error {
	return ForEach(path, func(_ int, rec record.Record) error {
		_, err := fmt.Fprintln(w, rec)
		return err
	})
}

func ReadAll(path string) ([]record.Record, error) {
	var recs []record.Record
	err := ForEach(path, func(_ int, rec record.Record) error {
		recs = append(recs, rec)
		return nil
	})
	return recs, err
}

func WriteAll(path string, recs []record.Record) error {
	out, err := tape.New(path, tape.ModeWrite)
	if err != nil {
		return err
	}
	for i, rec := range recs {
		if err := out.WriteNext(rec); err != nil {
			out.Close()
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	return out.Close()
}

// IsSorted reports whether every consecutive pair of records on the tape at
// path satisfies policy.
func IsSorted(path string, policy record.Policy) (bool, error) {
	in, err := tape.New(path, tape.ModeRead)
	if err != nil {
		return false, err
	}
	defer in.Close()

	for {
		rec, err := in.ReadNext()
		if err != nil {
			return false, err
		}
		if !rec.IsValid() {
			return true, nil
		}
		if !in.IsProgressing(policy) {
			return false, nil
		}
	}
}
