package tape

import (
	"TapeSort/record"
	"fmt"
	"io"
	"os"
)

/*
Tape gives the sort engine strictly sequential access to a file of record slots.

Read mode:  blocks of BufferSize bytes are fetched on demand, each fetch is one page operation.
Write mode: slots are appended to an in-memory block, the block is flushed right before a byte
            would not fit and once more on close. Every flush is one page operation.

current/last are reset to DNE whenever the tape is opened, reopened or closed.
*/

// New creates a tape bound to filePath and opens it in mode.
func New(filePath string, mode Mode) (*Tape, error) {
	t := &Tape{
		filePath: filePath,
		current:  record.DNE(),
		last:     record.DNE(),
	}
	if err := t.initMode(mode); err != nil {
		return nil, err
	}
	return t, nil
}

// Open ends the current mode, rebinds the tape to filePath and starts mode.
// Opening for write truncates the file.
func (t *Tape) Open(filePath string, mode Mode) error {
	if err := t.endCurrentMode(); err != nil {
		return err
	}
	t.filePath = filePath
	return t.initMode(mode)
}

// Reopen switches the mode while keeping the file path.
func (t *Tape) Reopen(mode Mode) error {
	return t.Open(t.filePath, mode)
}

// Close flushes pending writes and releases the file handle.
func (t *Tape) Close() error {
	return t.endCurrentMode()
}

func (t *Tape) initMode(mode Mode) error {
	t.current = record.DNE()
	t.last = record.DNE()

	switch mode {
	case ModeRead:
		file, err := os.Open(t.filePath)
		if err != nil {
			return fmt.Errorf("failed to open tape %s for read: %w", t.filePath, err)
		}
		t.file = file
		if t.rd == nil {
			t.rd = &readBuffer{}
		}
		t.rd.pos, t.rd.end, t.rd.exhausted = 0, 0, false

	case ModeWrite:
		file, err := os.OpenFile(t.filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("failed to open tape %s for write: %w", t.filePath, err)
		}
		t.file = file
		if t.wr == nil {
			t.wr = &writeBuffer{}
		}
		t.wr.fill = 0

	case ModeClosed:

	default:
		return fmt.Errorf("unknown tape mode %d", mode)
	}

	t.mode = mode
	return nil
}

func (t *Tape) endCurrentMode() error {
	t.current = record.DNE()
	t.last = record.DNE()

	mode := t.mode
	t.mode = ModeClosed

	if t.file == nil {
		return nil
	}
	file := t.file
	t.file = nil

	if mode == ModeWrite {
		if t.wr.fill > 0 {
			if err := t.flush(file); err != nil {
				file.Close()
				return err
			}
		}
		if err := file.Sync(); err != nil {
			file.Close()
			return fmt.Errorf("failed to sync tape %s before close: %w", t.filePath, err)
		}
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close tape %s: %w", t.filePath, err)
	}
	return nil
}

// ReadNext advances the tape by one record. Past the end of data it yields DNE
// rather than an error.
func (t *Tape) ReadNext() (record.Record, error) {
	if t.mode != ModeRead {
		return record.DNE(), &ModeError{Op: "read next record", Want: ModeRead, Got: t.mode}
	}

	t.last = t.current

	empty, err := t.IsEmpty()
	if err != nil {
		return record.DNE(), err
	}
	if empty {
		t.current = record.DNE()
		return t.current, nil
	}

	n, err := t.readSlot()
	if err != nil {
		return record.DNE(), err
	}
	if n < record.SlotSize {
		// trailing partial slot, nothing decodable left
		t.current = record.DNE()
		return t.current, nil
	}

	rec, err := record.DecodeSlot(t.slot[:])
	if err != nil {
		return record.DNE(), fmt.Errorf("tape %s: %w", t.filePath, err)
	}
	if !rec.IsValid() {
		return record.DNE(), fmt.Errorf("tape %s: %w: empty slot before end of data", t.filePath, record.ErrCorruptSlot)
	}
	t.current = rec
	return t.current, nil
}

// readSlot copies up to SlotSize bytes into t.slot, fetching blocks as needed.
func (t *Tape) readSlot() (int, error) {
	n := 0
	for n < record.SlotSize {
		if t.rd.pos == t.rd.end {
			if t.rd.exhausted {
				return n, nil
			}
			if err := t.fill(); err != nil {
				return n, err
			}
			if t.rd.end == 0 {
				return n, nil
			}
		}
		c := copy(t.slot[n:], t.rd.data[t.rd.pos:t.rd.end])
		t.rd.pos += c
		n += c
	}
	return n, nil
}

// fill fetches the next block of the file into the read buffer.
func (t *Tape) fill() error {
	n, err := io.ReadFull(t.file, t.rd.data[:])
	t.pageOperations++

	switch err {
	case nil:
	case io.EOF, io.ErrUnexpectedEOF:
		t.rd.exhausted = true
	default:
		return fmt.Errorf("failed to read page from tape %s: %w", t.filePath, err)
	}

	t.rd.pos = 0
	t.rd.end = n
	return nil
}

// WriteNext appends rec to the tape and makes it the current record.
func (t *Tape) WriteNext(rec record.Record) error {
	if t.mode != ModeWrite {
		return &ModeError{Op: "write next record", Want: ModeWrite, Got: t.mode}
	}

	if !rec.IsValid() {
		return fmt.Errorf("tape %s: %w", t.filePath, ErrWriteDNE)
	}

	t.last = t.current
	t.current = rec

	record.EncodeSlot(rec, t.slot[:])
	pending := t.slot[:]
	for len(pending) > 0 {
		if t.wr.fill == BufferSize {
			if err := t.flush(t.file); err != nil {
				return err
			}
		}
		c := copy(t.wr.data[t.wr.fill:], pending)
		t.wr.fill += c
		pending = pending[c:]
	}
	return nil
}

// flush writes the pending part of the write buffer to file.
func (t *Tape) flush(file *os.File) error {
	_, err := file.Write(t.wr.data[:t.wr.fill])
	t.pageOperations++
	if err != nil {
		return fmt.Errorf("failed to write page to tape %s: %w", t.filePath, err)
	}
	t.wr.fill = 0
	return nil
}

// IsEmpty reports whether every byte of the file has been delivered.
// It may fetch the next block as a side effect.
func (t *Tape) IsEmpty() (bool, error) {
	if t.mode != ModeRead {
		return false, &ModeError{Op: "check emptiness", Want: ModeRead, Got: t.mode}
	}

	if t.rd.pos < t.rd.end {
		return false, nil
	}
	if t.rd.exhausted {
		return true, nil
	}
	if err := t.fill(); err != nil {
		return false, err
	}
	return t.rd.end == 0, nil
}

func (t *Tape) CurrentRecord() record.Record {
	return t.current
}

func (t *Tape) LastRecord() record.Record {
	return t.last
}

// ClearLastRecord makes the next IsProgressing call treat the current record
// as the start of a run.
func (t *Tape) ClearLastRecord() {
	t.last = record.DNE()
}

// IsProgressing reports whether the current record continues the run that
// the last record belongs to.
func (t *Tape) IsProgressing(policy record.Policy) bool {
	if !t.last.IsValid() {
		return true
	}
	if !t.current.IsValid() {
		return false
	}
	return policy(t.last, t.current)
}

func (t *Tape) PageOperations() uint64 {
	return t.pageOperations
}

func (t *Tape) FilePath() string {
	return t.filePath
}

func (t *Tape) Mode() Mode {
	return t.mode
}
