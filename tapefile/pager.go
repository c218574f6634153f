package tapefile

import (
	"TapeSort/types"
	"fmt"
	"io"
	"os"
	"sync"
)

// pager reads PageSize blocks of a tape file at arbitrary page IDs.
// Tapes only ever stream; the pager is what random access goes through.
type pager struct {
	file     *os.File
	filePath string
	size     int64
	reads    uint64
	mu       sync.Mutex
}

func newPager(filePath string) (*pager, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open tape file %s: %w", filePath, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat tape file: %w", err)
	}

	return &pager{
		file:     file,
		filePath: filePath,
		size:     stat.Size(),
	}, nil
}

// readPage returns the bytes of page id. The last page of a file may be
// shorter than PageSize.
func (p *pager) readPage(id types.PageID) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.file == nil {
		return nil, fmt.Errorf("pager file is closed")
	}

	offset := id.Offset()
	if id < 0 || offset >= p.size {
		return nil, fmt.Errorf("page %d is outside %s (%d bytes)", id, p.filePath, p.size)
	}

	page := make([]byte, types.PageSize)
	n, err := p.file.ReadAt(page, offset)
	p.reads++
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read page %d: %w", id, err)
	}
	return page[:n], nil
}

func (p *pager) totalPages() int64 {
	return (p.size + types.PageSize - 1) / types.PageSize
}

func (p *pager) close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}
