package tapefile

import (
	"TapeSort/record"
	tape "TapeSort/tape_manager"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrWrongInput = errors.New("wrong input")

// ParseRecord reads one human-readable record such as "{ 1, -2, 3 }" from r.
// Everything up to and including the next '}' is consumed. It returns io.EOF
// when only whitespace is left.
func ParseRecord(r *bufio.Reader) (record.Record, error) {
	chunk, err := r.ReadString('}')
	if err != nil {
		if err == io.EOF {
			if strings.TrimSpace(chunk) == "" {
				return record.DNE(), io.EOF
			}
			return record.DNE(), fmt.Errorf("%w: missing closing brace in %q", ErrWrongInput, strings.TrimSpace(chunk))
		}
		return record.DNE(), err
	}

	body := strings.TrimSpace(strings.TrimSuffix(chunk, "}"))
	if !strings.HasPrefix(body, "{") {
		return record.DNE(), fmt.Errorf("%w: missing opening brace in %q", ErrWrongInput, body)
	}
	body = strings.TrimSpace(strings.TrimPrefix(body, "{"))
	if body == "" {
		return record.DNE(), fmt.Errorf("%w: record has no values", ErrWrongInput)
	}

	fields := strings.Split(body, ",")
	values := make([]int32, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 32)
		if err != nil {
			return record.DNE(), fmt.Errorf("%w: %v", ErrWrongInput, err)
		}
		values = append(values, int32(v))
	}

	rec, err := record.FromSlice(values)
	if err != nil {
		return record.DNE(), fmt.Errorf("%w: %v", ErrWrongInput, err)
	}
	return rec, nil
}

// ConvertTextFile encodes every record of the human-readable file at
// textPath into a tape at tapePath and returns how many were written.
func ConvertTextFile(textPath, tapePath string) (int, error) {
	in, err := os.Open(textPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", textPath, err)
	}
	defer in.Close()

	return ConvertText(in, tapePath)
}

// ConvertText is ConvertTextFile over an arbitrary reader.
func ConvertText(r io.Reader, tapePath string) (int, error) {
	out, err := tape.New(tapePath, tape.ModeWrite)
	if err != nil {
		return 0, err
	}

	br := bufio.NewReader(r)
	n := 0
	for {
		rec, err := ParseRecord(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			out.Close()
			return n, fmt.Errorf("record %d: %w", n, err)
		}
		if err := out.WriteNext(rec); err != nil {
			out.Close()
			return n, err
		}
		n++
	}

	return n, out.Close()
}
