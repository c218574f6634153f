package tapefile

import (
	"TapeSort/record"
	tape "TapeSort/tape_manager"
	"math/rand/v2"
)

// GenerateRandom writes n random records to a new tape at path. Record sizes
// are uniform in [1, record.Capacity], values uniform over the int32 range.
// The same seed always produces the same tape.
func GenerateRandom(path string, n int, seed uint64) error {
	out, err := tape.New(path, tape.ModeWrite)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	values := make([]int32, record.Capacity)

	for i := 0; i < n; i++ {
		size := 1 + rng.IntN(record.Capacity)
		for j := 0; j < size; j++ {
			values[j] = int32(rng.Uint32())
		}
		if err := out.WriteNext(record.New(values[:size]...)); err != nil {
			out.Close()
			return err
		}
	}

	return out.Close()
}
