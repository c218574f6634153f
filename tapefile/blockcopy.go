package tapefile

import (
	"TapeSort/types"
	"fmt"
	"io"
	"os"
)

// CopyBytes copies src to dst verbatim in PageSize blocks and returns the
// page operations spent: one per block read, including the read that finds
// the end of src, and one per block written. Unlike CopyFile it keeps every
// byte, tail slots and trailing partial slots included.
func CopyBytes(src, dst string) (uint64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s for copy: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s for copy: %w", dst, err)
	}

	var ops uint64
	block := make([]byte, types.PageSize)
	for {
		n, err := io.ReadFull(in, block)
		ops++
		if n > 0 {
			if _, werr := out.Write(block[:n]); werr != nil {
				out.Close()
				return ops, fmt.Errorf("failed to write page to %s: %w", dst, werr)
			}
			ops++
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			out.Close()
			return ops, fmt.Errorf("failed to read page from %s: %w", src, err)
		}
	}

	if err := out.Sync(); err != nil {
		out.Close()
		return ops, fmt.Errorf("failed to sync %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return ops, fmt.Errorf("failed to close %s: %w", dst, err)
	}
	return ops, nil
}
