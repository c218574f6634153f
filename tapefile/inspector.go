package tapefile

import (
	"TapeSort/record"
	"TapeSort/types"
	"errors"
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
)

var ErrRecordOutOfRange = errors.New("record index out of range")

// DefaultCachePages is the page budget of an Inspector when none is given.
const DefaultCachePages = 256

// Inspector gives random access to the records of a tape file. Pages are
// read through a pager and kept in a bounded cache, so looking at
// neighbouring records does not hit the disk again.
type Inspector struct {
	pager *pager
	cache *ristretto.Cache[int64, []byte]
}

// NewInspector opens the tape at path for random access. cachePages bounds
// how many pages stay in memory; zero or less means DefaultCachePages.
func NewInspector(path string, cachePages int64) (*Inspector, error) {
	if cachePages <= 0 {
		cachePages = DefaultCachePages
	}

	p, err := newPager(path)
	if err != nil {
		return nil, err
	}

	cache, err := ristretto.NewCache(&ristretto.Config[int64, []byte]{
		NumCounters: cachePages * 10,
		MaxCost:     cachePages,
		BufferItems: 64,
	})
	if err != nil {
		p.close()
		return nil, fmt.Errorf("failed to create page cache: %w", err)
	}

	return &Inspector{pager: p, cache: cache}, nil
}

// Len is the number of complete slots in the file.
func (in *Inspector) Len() int64 {
	return in.pager.size / record.SlotSize
}

// Pages is the number of PageSize blocks the file spans.
func (in *Inspector) Pages() int64 {
	return in.pager.totalPages()
}

// DiskReads is the number of pages fetched from the file so far.
func (in *Inspector) DiskReads() uint64 {
	in.pager.mu.Lock()
	defer in.pager.mu.Unlock()
	return in.pager.reads
}

// RecordAt decodes the i-th record. A slot may straddle two pages.
func (in *Inspector) RecordAt(i int64) (record.Record, error) {
	if i < 0 || i >= in.Len() {
		return record.DNE(), fmt.Errorf("%w: %d (records: %d)", ErrRecordOutOfRange, i, in.Len())
	}

	start := i * record.SlotSize
	slot := make([]byte, 0, record.SlotSize)
	for offset := start; len(slot) < record.SlotSize; {
		id := types.PageOf(offset)
		page, err := in.page(id)
		if err != nil {
			return record.DNE(), err
		}
		within := int(offset - id.Offset())
		need := record.SlotSize - len(slot)
		chunk := page[within:]
		if len(chunk) > need {
			chunk = chunk[:need]
		}
		if len(chunk) == 0 {
			return record.DNE(), fmt.Errorf("page %d ended inside record %d", id, i)
		}
		slot = append(slot, chunk...)
		offset += int64(len(chunk))
	}

	return record.DecodeSlot(slot)
}

func (in *Inspector) page(id types.PageID) ([]byte, error) {
	if page, ok := in.cache.Get(int64(id)); ok {
		return page, nil
	}

	page, err := in.pager.readPage(id)
	if err != nil {
		return nil, err
	}
	in.cache.Set(int64(id), page, 1)
	// Set is buffered; make the page visible to the next Get
	in.cache.Wait()
	return page, nil
}

func (in *Inspector) Close() error {
	in.cache.Close()
	return in.pager.close()
}
