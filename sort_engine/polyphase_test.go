package polyphase

import (
	"TapeSort/record"
	tape "TapeSort/tape_manager"
	"TapeSort/tapefile"
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singles(keys ...int32) []record.Record {
	recs := make([]record.Record, len(keys))
	for i, k := range keys {
		recs[i] = record.New(k)
	}
	return recs
}

func keysOf(t *testing.T, path string) []int32 {
	t.Helper()
	recs, err := tapefile.ReadAll(path)
	require.NoError(t, err)
	out := make([]int32, len(recs))
	for i, r := range recs {
		out[i], err = r.Max()
		require.NoError(t, err)
	}
	return out
}

func sortRecords(t *testing.T, recs []record.Record, policy record.Policy, opts ...Option) (Result, string) {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "in.tape")
	out := filepath.Join(dir, "out.tape")
	require.NoError(t, tapefile.WriteAll(in, recs))

	opts = append([]Option{WithWorkDir(dir)}, opts...)
	res, err := Sort(in, out, policy, opts...)
	require.NoError(t, err)
	return res, out
}

func TestSort_Scenario(t *testing.T) {
	res, out := sortRecords(t, singles(5, 3, 8, 1, 9, 2), record.AscendingByMax)

	assert.Equal(t, []int32{1, 2, 3, 5, 8, 9}, keysOf(t, out))
	assert.Equal(t, 3, res.Phases)
	assert.Greater(t, res.PageOperations, uint64(0))
}

func TestSort_EmptyInput(t *testing.T) {
	res, out := sortRecords(t, nil, record.AscendingByMax)

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
	assert.Equal(t, 0, res.Phases)
}

func TestSort_SingleRunIsCopied(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.tape")
	out := filepath.Join(dir, "out.tape")
	require.NoError(t, tapefile.WriteAll(in, singles(1, 1, 4, 7, 20)))

	res, err := Sort(in, out, record.AscendingByMax, WithWorkDir(dir))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Phases)

	a, err := os.ReadFile(in)
	require.NoError(t, err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSort_DummyRuns(t *testing.T) {
	// seven descending-started runs, so no two runs can join
	var recs []record.Record
	for i, size := range []int{3, 1, 4, 1, 5, 9, 2} {
		base := int32(7-i) * 100
		for j := 0; j < size; j++ {
			recs = append(recs, record.New(base+int32(j), -1))
		}
	}

	res, out := sortRecords(t, recs, record.AscendingByMax)

	got := keysOf(t, out)
	want := make([]int32, 0, len(recs))
	for _, r := range recs {
		k, _ := r.Max()
		want = append(want, k)
	}
	slices.Sort(want)
	assert.Equal(t, want, got)
	assert.GreaterOrEqual(t, res.Phases, 3)
}

func TestSort_SeriesJoining(t *testing.T) {
	res, out := sortRecords(t, singles(1, 2, 3, 2, 10, 4, 5), record.AscendingByMax)

	assert.Equal(t, []int32{1, 2, 2, 3, 4, 5, 10}, keysOf(t, out))
	assert.Equal(t, 1, res.Phases)
}

func TestDistribute_JoinsSeries(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.tape")
	require.NoError(t, tapefile.WriteAll(in, singles(1, 2, 3, 2, 10, 4, 5)))

	s := &sorter{
		policy:    record.AscendingByMax,
		log:       slog.New(slog.DiscardHandler),
		workPaths: [3]string{in, filepath.Join(dir, "t1"), filepath.Join(dir, "t2")},
	}
	require.NoError(t, s.openTapes())
	defer s.closeAll()

	_, err := s.tapes[inputTape].ReadNext()
	require.NoError(t, err)

	last, written, single, err := s.distribute()
	require.NoError(t, err)
	require.NoError(t, s.closeTapes())

	assert.False(t, single)
	assert.Equal(t, firstWork, last)
	assert.Equal(t, 0, written, "the last step only extended a run")
	assert.Equal(t, 0, s.dummyRuns)
	assert.Equal(t, []int32{1, 2, 3, 4, 5}, keysOf(t, s.workPaths[firstWork]))
	assert.Equal(t, []int32{2, 10}, keysOf(t, s.workPaths[otherWork]))
}

func TestDistribute_CountsDummyRuns(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.tape")
	require.NoError(t, tapefile.WriteAll(in, singles(5, 3, 8, 1, 9, 2)))

	s := &sorter{
		policy:    record.AscendingByMax,
		log:       slog.New(slog.DiscardHandler),
		workPaths: [3]string{in, filepath.Join(dir, "t1"), filepath.Join(dir, "t2")},
	}
	require.NoError(t, s.openTapes())
	defer s.closeAll()

	_, err := s.tapes[inputTape].ReadNext()
	require.NoError(t, err)

	last, written, _, err := s.distribute()
	require.NoError(t, err)
	require.NoError(t, s.closeTapes())

	assert.Equal(t, otherWork, last)
	assert.Equal(t, 1, written)
	assert.Equal(t, 1, s.dummyRuns)
	assert.Equal(t, []int32{5, 1, 9}, keysOf(t, s.workPaths[firstWork]))
	assert.Equal(t, []int32{3, 8, 2}, keysOf(t, s.workPaths[otherWork]))
}

func TestSort_Descending(t *testing.T) {
	_, out := sortRecords(t, singles(4, -7, 12, 0, 12, 3, -1), record.DescendingByMax)
	assert.Equal(t, []int32{12, 12, 4, 3, 0, -1, -7}, keysOf(t, out))
}

func TestSort_RandomTapes(t *testing.T) {
	for _, n := range []int{2, 10, 100, 1000, 5000} {
		dir := t.TempDir()
		in := filepath.Join(dir, "in.tape")
		out := filepath.Join(dir, "out.tape")
		require.NoError(t, tapefile.GenerateRandom(in, n, uint64(n)))

		res, err := Sort(in, out, record.AscendingByMax, WithWorkDir(dir))
		require.NoError(t, err, "n=%d", n)

		ok, err := tapefile.IsSorted(out, record.AscendingByMax)
		require.NoError(t, err)
		assert.True(t, ok, "n=%d", n)

		before, err := tapefile.Summarize(in, record.AscendingByMax)
		require.NoError(t, err)
		after, err := tapefile.Summarize(out, record.AscendingByMax)
		require.NoError(t, err)
		assert.Equal(t, before.Records, after.Records)
		assert.Equal(t, before.MinKey, after.MinKey)
		assert.Equal(t, before.MaxKey, after.MaxKey)
		assert.LessOrEqual(t, after.Runs, 1)
		assert.Greater(t, res.PageOperations, uint64(0))
	}
}

func TestSort_KeepsRecordContent(t *testing.T) {
	recs := []record.Record{
		record.New(9, 1, 2),
		record.New(-3),
		record.New(4, 4),
		record.New(0, 8, 1, 1),
		record.New(2),
	}
	_, out := sortRecords(t, recs, record.AscendingByMax)

	got, err := tapefile.ReadAll(out)
	require.NoError(t, err)
	want := []record.Record{recs[1], recs[4], recs[2], recs[3], recs[0]}
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(got[i]), "position %d: got %v want %v", i, got[i], want[i])
	}
}

func TestSort_IsIdempotent(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.tape")
	once := filepath.Join(dir, "once.tape")
	twice := filepath.Join(dir, "twice.tape")
	require.NoError(t, tapefile.GenerateRandom(in, 500, 11))

	_, err := Sort(in, once, record.AscendingByMax, WithWorkDir(dir))
	require.NoError(t, err)
	res, err := Sort(once, twice, record.AscendingByMax, WithWorkDir(dir))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Phases)

	a, err := os.ReadFile(once)
	require.NoError(t, err)
	b, err := os.ReadFile(twice)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSort_InPlace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.tape")
	require.NoError(t, tapefile.WriteAll(path, singles(5, 3, 8, 1, 9, 2)))

	_, err := Sort(path, path, record.AscendingByMax, WithWorkDir(dir))
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2, 3, 5, 8, 9}, keysOf(t, path))
}

func TestSort_RemovesWorkTapes(t *testing.T) {
	dir := t.TempDir()
	work := filepath.Join(dir, "work")
	require.NoError(t, os.Mkdir(work, 0755))
	in := filepath.Join(dir, "in.tape")
	require.NoError(t, tapefile.WriteAll(in, singles(3, 2, 1)))

	_, err := Sort(in, filepath.Join(dir, "out.tape"), record.AscendingByMax, WithWorkDir(work))
	require.NoError(t, err)
	entries, err := os.ReadDir(work)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = Sort(in, filepath.Join(dir, "out.tape"), record.AscendingByMax, WithWorkDir(work), WithKeepWorkTapes(true))
	require.NoError(t, err)
	entries, err = os.ReadDir(work)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSort_Narration(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, out := sortRecords(t, singles(5, 3, 8, 1, 9, 2), record.AscendingByMax,
		WithLogger(logger), WithTapeDump(true))

	assert.Equal(t, []int32{1, 2, 3, 5, 8, 9}, keysOf(t, out))
	assert.Contains(t, buf.String(), "resolving dummy runs")
	assert.Contains(t, buf.String(), "tape dump")
	assert.Contains(t, buf.String(), "merge phase started")
}

func TestSort_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Sort(filepath.Join(dir, "missing.tape"), filepath.Join(dir, "out.tape"), record.AscendingByMax, WithWorkDir(dir))
	assert.Error(t, err)

	_, err = Sort(filepath.Join(dir, "missing.tape"), filepath.Join(dir, "out.tape"), nil)
	assert.Error(t, err)
}

func TestSort_SingleRunKeepsTailBytes(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.tape")
	out := filepath.Join(dir, "out.tape")

	// three ascending single-value slots whose unused tails are not zeroed
	var data []byte
	for _, k := range []int32{1, 2, 3} {
		slot := make([]byte, record.SlotSize)
		record.EncodeSlot(record.New(k), slot)
		for i := 12; i < record.SlotSize; i++ {
			slot[i] = 0xAB
		}
		data = append(data, slot...)
	}
	require.NoError(t, os.WriteFile(in, data, 0644))

	res, err := Sort(in, out, record.AscendingByMax, WithWorkDir(dir))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Phases)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestSort_PartialSlotOnlyIsEmpty(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.tape")
	out := filepath.Join(dir, "out.tape")
	data := make([]byte, 30)
	require.NoError(t, os.WriteFile(in, data, 0644))

	res, err := Sort(in, out, record.AscendingByMax, WithWorkDir(dir))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Phases)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Empty(t, keysOf(t, out))
}

// mergeSorter builds a sorter positioned right after distribution: the
// output tape open for write on out, both work tapes open for read.
func mergeSorter(t *testing.T, bigger, smaller []record.Record) *sorter {
	t.Helper()
	dir := t.TempDir()
	s := &sorter{
		policy:     record.AscendingByMax,
		log:        slog.New(slog.DiscardHandler),
		outputPath: filepath.Join(dir, "out"),
		workPaths:  [3]string{filepath.Join(dir, "in"), filepath.Join(dir, "t1"), filepath.Join(dir, "t2")},
	}
	require.NoError(t, tapefile.WriteAll(s.workPaths[firstWork], bigger))
	require.NoError(t, tapefile.WriteAll(s.workPaths[otherWork], smaller))

	var err error
	s.tapes[inputTape], err = tape.New(s.outputPath, tape.ModeWrite)
	require.NoError(t, err)
	for _, id := range []int{firstWork, otherWork} {
		s.tapes[id], err = tape.New(s.workPaths[id], tape.ModeRead)
		require.NoError(t, err)
	}
	t.Cleanup(s.closeAll)
	return s
}

func TestMergePhases_EmptyWorkTapes(t *testing.T) {
	s := mergeSorter(t, nil, nil)

	_, err := s.mergePhases(roles{bigger: firstWork, smaller: otherWork, output: inputTape})

	var iv *InvariantViolation
	require.True(t, errors.As(err, &iv), "got %v", err)
	assert.Contains(t, iv.Reason, "empty after distribution")
}

func TestMergePhases_TooFewRunsForDummies(t *testing.T) {
	// smaller holds a single run but three dummy runs are owed
	s := mergeSorter(t, singles(4, 1, 6), singles(2, 3))
	s.dummyRuns = 3

	_, err := s.mergePhases(roles{bigger: firstWork, smaller: otherWork, output: inputTape})

	var iv *InvariantViolation
	require.True(t, errors.As(err, &iv), "got %v", err)
	assert.Contains(t, iv.Reason, "only 1 of 3 dummy runs")
}

func TestMergePhases_DummiesExhaustSmaller(t *testing.T) {
	// smaller holds exactly the two runs owed as dummies, nothing is left to merge
	s := mergeSorter(t, singles(4, 1, 6), singles(5, 2, 3))
	s.dummyRuns = 2

	_, err := s.mergePhases(roles{bigger: firstWork, smaller: otherWork, output: inputTape})

	var iv *InvariantViolation
	require.True(t, errors.As(err, &iv), "got %v", err)
	assert.Contains(t, iv.Reason, "exhausted tape")
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestInvariantViolation(t *testing.T) {
	err := violation(2, "tape %d is empty", 1)
	assert.ErrorIs(t, err, ErrInvariantViolation)
	assert.Contains(t, err.Error(), "phase 2")
	assert.Contains(t, err.Error(), "tape 1 is empty")
}

func TestRolesRotate(t *testing.T) {
	r := roles{bigger: 1, smaller: 2, output: 0}
	r.rotate()
	assert.Equal(t, roles{bigger: 0, smaller: 1, output: 2}, r)
	r.swap()
	assert.Equal(t, roles{bigger: 1, smaller: 0, output: 2}, r)
}
