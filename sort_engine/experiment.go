package polyphase

import (
	"TapeSort/record"
	"TapeSort/tapefile"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
)

// Sample is the cost of sorting one random tape of N records.
type Sample struct {
	N      int
	Result Result
}

// ExperimentSizes are the tape lengths measured by default: 10, 100, ... 100000.
func ExperimentSizes() []int {
	var sizes []int
	for n := 10; n <= 100000; n *= 10 {
		sizes = append(sizes, n)
	}
	return sizes
}

// Measure sorts a fresh random tape of every size in dir and checks each
// output is sorted. The same seed produces the same tapes.
func Measure(dir string, sizes []int, policy record.Policy, seed uint64, opts ...Option) ([]Sample, error) {
	input := filepath.Join(dir, "random.dat")
	output := filepath.Join(dir, "sorted.dat")

	samples := make([]Sample, 0, len(sizes))
	for _, n := range sizes {
		if err := tapefile.GenerateRandom(input, n, seed+uint64(n)); err != nil {
			return samples, err
		}

		res, err := Sort(input, output, policy, append([]Option{WithWorkDir(dir)}, opts...)...)
		if err != nil {
			return samples, fmt.Errorf("sorting %d records: %w", n, err)
		}

		ok, err := tapefile.IsSorted(output, policy)
		if err != nil {
			return samples, err
		}
		if !ok {
			return samples, fmt.Errorf("tape of %d records came out unsorted", n)
		}

		samples = append(samples, Sample{N: n, Result: res})
	}
	return samples, nil
}

// WriteCSV writes one "n,phases,page_operations" line per sample.
func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.N),
			strconv.Itoa(s.Result.Phases),
			strconv.FormatUint(s.Result.PageOperations, 10),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
