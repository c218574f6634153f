package types

// PageSize is the block size of every tape and inspector read or write.
// One transfer of at most PageSize bytes counts as one page operation.
const PageSize = 4096

// PageID numbers PageSize-aligned blocks of a tape file from 0.
type PageID int64

// Offset returns the byte offset of the page inside its file.
func (id PageID) Offset() int64 {
	return int64(id) * PageSize
}

// PageOf returns the page containing the given byte offset.
func PageOf(offset int64) PageID {
	return PageID(offset / PageSize)
}
