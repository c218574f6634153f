package tape

import (
	"TapeSort/record"
	"TapeSort/types"
	"os"
)

// ############################################# MODES ###################################################

type Mode int

const (
	ModeClosed Mode = iota
	ModeRead
	ModeWrite
)

func (m Mode) String() string {
	switch m {
	case ModeClosed:
		return "closed"
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	default:
		return "unknown"
	}
}

// BufferSize is the size of the in-memory block a tape reads or flushes at once.
const BufferSize = types.PageSize

// ############################################# BUFFERS #################################################

// readBuffer holds the last block fetched from the file.
// Bytes in data[pos:end] have not been delivered yet.
type readBuffer struct {
	data      [BufferSize]byte
	pos       int
	end       int
	exhausted bool // file returned a short block, nothing more to fetch
}

// writeBuffer holds bytes appended since the last flush in data[:fill].
type writeBuffer struct {
	data [BufferSize]byte
	fill int
}

// ############################################# TAPE ####################################################

// Tape is a buffered sequential accessor over a file of fixed-width record
// slots. It remembers the current and the previous record so callers can
// detect run boundaries without lookahead.
type Tape struct {
	mode     Mode
	filePath string
	file     *os.File

	current record.Record
	last    record.Record

	rd *readBuffer
	wr *writeBuffer

	slot [record.SlotSize]byte

	pageOperations uint64
}
