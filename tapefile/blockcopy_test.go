package tapefile

import (
	"TapeSort/types"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyBytes_KeepsEveryByte(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.tape")
	dst := filepath.Join(dir, "dst.tape")

	data := make([]byte, types.PageSize+100)
	for i := range data {
		data[i] = byte(i*7 + 3)
	}
	require.NoError(t, os.WriteFile(src, data, 0644))

	ops, err := CopyBytes(src, dst)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), ops) // two block reads, two block writes

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestCopyBytes_ExactPagesAndEmpty(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.tape")
	dst := filepath.Join(dir, "dst.tape")

	require.NoError(t, os.WriteFile(src, make([]byte, 2*types.PageSize), 0644))
	ops, err := CopyBytes(src, dst)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), ops) // the third read finds the end

	require.NoError(t, os.WriteFile(src, nil, 0644))
	ops, err = CopyBytes(src, dst)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), ops)
	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.Size())
}

func TestCopyBytes_MissingSource(t *testing.T) {
	dir := t.TempDir()
	_, err := CopyBytes(filepath.Join(dir, "missing"), filepath.Join(dir, "dst"))
	assert.Error(t, err)
}
