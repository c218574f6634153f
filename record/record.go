package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Capacity is the number of integer slots every record carries on disk.
const Capacity = 15

var (
	ErrEmptyRecord    = errors.New("record has no data")
	ErrRecordTooLarge = errors.New("record exceeds capacity")
	ErrCorruptSlot    = errors.New("corrupt record slot")
)

// Record is a fixed-capacity sequence of int32 values. A record of size 0 is
// the DNE ("does not exist") sentinel used by tapes to signal that nothing was
// read yet or that the data is over.
type Record struct {
	size int
	data [Capacity]int32
}

// DNE returns the sentinel record.
func DNE() Record {
	return Record{}
}

// New builds a record from values. Values past Capacity are dropped.
func New(values ...int32) Record {
	var r Record
	r.size = copy(r.data[:], values)
	return r
}

// FromSlice builds a record from values and refuses to truncate.
func FromSlice(values []int32) (Record, error) {
	if len(values) > Capacity {
		return DNE(), fmt.Errorf("%w: %d values (max: %d)", ErrRecordTooLarge, len(values), Capacity)
	}
	return New(values...), nil
}

// Sized returns a zero-filled record of size n, clamped to [0, Capacity].
// Callers fill it with Set.
func Sized(n int) Record {
	if n < 0 {
		n = 0
	}
	if n > Capacity {
		n = Capacity
	}
	return Record{size: n}
}

func (r Record) Size() int {
	return r.size
}

// At returns the i-th value. It panics when i is outside [0, Size()).
func (r Record) At(i int) int32 {
	if i < 0 || i >= r.size {
		panic(fmt.Sprintf("record: index %d out of range [0:%d]", i, r.size))
	}
	return r.data[i]
}

// Set assigns the i-th value. It panics when i is outside [0, Size()).
func (r *Record) Set(i int, v int32) {
	if i < 0 || i >= r.size {
		panic(fmt.Sprintf("record: index %d out of range [0:%d]", i, r.size))
	}
	r.data[i] = v
}

// Values returns a copy of the meaningful prefix.
func (r Record) Values() []int32 {
	out := make([]int32, r.size)
	copy(out, r.data[:r.size])
	return out
}

// Max returns the sort key of the record, the largest of its values.
func (r Record) Max() (int32, error) {
	if r.size == 0 {
		return 0, ErrEmptyRecord
	}
	return r.max(), nil
}

// max assumes the record is valid.
func (r Record) max() int32 {
	m := r.data[0]
	for i := 1; i < r.size; i++ {
		if r.data[i] > m {
			m = r.data[i]
		}
	}
	return m
}

func (r Record) IsValid() bool {
	return r.size > 0
}

// Equal compares the meaningful prefixes of both records.
func (r Record) Equal(other Record) bool {
	if r.size != other.size {
		return false
	}
	for i := 0; i < r.size; i++ {
		if r.data[i] != other.data[i] {
			return false
		}
	}
	return true
}

// ShortFormat renders the record as its key, or "DNE".
func (r Record) ShortFormat() string {
	if !r.IsValid() {
		return "DNE"
	}
	return strconv.FormatInt(int64(r.max()), 10)
}

// String renders the record as "{ 1, 2, 3 }", or "DNE".
func (r Record) String() string {
	if !r.IsValid() {
		return "DNE"
	}

	var sb strings.Builder
	sb.WriteString("{ ")
	for i := 0; i < r.size; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatInt(int64(r.data[i]), 10))
	}
	sb.WriteString(" }")
	return sb.String()
}
