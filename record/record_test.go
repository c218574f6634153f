package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDNE(t *testing.T) {
	r := DNE()
	assert.False(t, r.IsValid())
	assert.Equal(t, 0, r.Size())
	assert.Equal(t, "DNE", r.String())
	assert.Equal(t, "DNE", r.ShortFormat())

	_, err := r.Max()
	assert.ErrorIs(t, err, ErrEmptyRecord)
}

func TestNew(t *testing.T) {
	r := New(4, -7, 12, 3)
	require.True(t, r.IsValid())
	assert.Equal(t, 4, r.Size())
	assert.Equal(t, int32(-7), r.At(1))
	assert.Equal(t, []int32{4, -7, 12, 3}, r.Values())

	m, err := r.Max()
	require.NoError(t, err)
	assert.Equal(t, int32(12), m)
	assert.Equal(t, "12", r.ShortFormat())
	assert.Equal(t, "{ 4, -7, 12, 3 }", r.String())
}

func TestNew_DropsValuesPastCapacity(t *testing.T) {
	values := make([]int32, Capacity+3)
	for i := range values {
		values[i] = int32(i)
	}
	r := New(values...)
	assert.Equal(t, Capacity, r.Size())

	m, err := r.Max()
	require.NoError(t, err)
	assert.Equal(t, int32(Capacity-1), m)
}

func TestFromSlice(t *testing.T) {
	r, err := FromSlice([]int32{1, 2})
	require.NoError(t, err)
	assert.True(t, r.Equal(New(1, 2)))

	_, err = FromSlice(make([]int32, Capacity+1))
	assert.ErrorIs(t, err, ErrRecordTooLarge)

	r, err = FromSlice(nil)
	require.NoError(t, err)
	assert.False(t, r.IsValid())
}

func TestSizedAndSet(t *testing.T) {
	r := Sized(3)
	r.Set(0, 10)
	r.Set(2, -1)
	assert.Equal(t, "{ 10, 0, -1 }", r.String())

	assert.Equal(t, Capacity, Sized(100).Size())
	assert.Equal(t, 0, Sized(-4).Size())

	assert.Panics(t, func() { r.Set(3, 1) })
	assert.Panics(t, func() { r.At(-1) })
}

func TestEqualIgnoresTail(t *testing.T) {
	a := New(1, 2, 3)
	b := Sized(3)
	b.Set(0, 1)
	b.Set(1, 2)
	b.Set(2, 3)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(New(1, 2)))
	assert.True(t, DNE().Equal(Record{}))
}

func TestPolicies(t *testing.T) {
	low, high := New(1, 5), New(9, 2)
	assert.True(t, AscendingByMax(low, high))
	assert.False(t, AscendingByMax(high, low))
	assert.True(t, AscendingByMax(low, low))

	assert.True(t, DescendingByMax(high, low))
	assert.False(t, DescendingByMax(low, high))

	assert.True(t, AscendingBySize(New(1), New(1, 1)))
	assert.False(t, AscendingBySize(New(1, 1), New(1)))
}
