package tapefile

import (
	"TapeSort/record"
	tape "TapeSort/tape_manager"
	"TapeSort/types"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
)

// Summary describes the content of a tape file.
type Summary struct {
	Path    string
	Records int
	Runs    int // maximal stretches already ordered under the policy
	Bytes   int64
	Pages   int64
	Digest  uint64 // xxhash64 of the raw file bytes
	MinKey  int32
	MaxKey  int32
}

// Summarize scans the tape at path once, counting records and runs under
// policy, then hashes the raw bytes.
func Summarize(path string, policy record.Policy) (Summary, error) {
	s := Summary{Path: path}

	in, err := tape.New(path, tape.ModeRead)
	if err != nil {
		return s, err
	}
	defer in.Close()

	for {
		rec, err := in.ReadNext()
		if err != nil {
			return s, err
		}
		if !rec.IsValid() {
			break
		}

		key, _ := rec.Max()
		if s.Records == 0 || key < s.MinKey {
			s.MinKey = key
		}
		if s.Records == 0 || key > s.MaxKey {
			s.MaxKey = key
		}

		s.Records++
		if s.Records == 1 || !in.IsProgressing(policy) {
			s.Runs++
		}
	}

	s.Digest, s.Bytes, err = digestFile(path)
	if err != nil {
		return s, err
	}
	s.Pages = (s.Bytes + types.PageSize - 1) / types.PageSize
	return s, nil
}

func digestFile(path string) (uint64, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	h := xxhash.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, n, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return h.Sum64(), n, nil
}

func (s Summary) String() string {
	keys := "-"
	if s.Records > 0 {
		keys = fmt.Sprintf("%d..%d", s.MinKey, s.MaxKey)
	}
	return fmt.Sprintf("%s: %s records, %s runs, %s in %s pages, keys %s, xxhash %016x",
		s.Path,
		humanize.Comma(int64(s.Records)),
		humanize.Comma(int64(s.Runs)),
		humanize.IBytes(uint64(s.Bytes)),
		humanize.Comma(s.Pages),
		keys,
		s.Digest,
	)
}
