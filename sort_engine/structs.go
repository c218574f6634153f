package polyphase

import (
	"TapeSort/record"
	tape "TapeSort/tape_manager"
	"log/slog"
)

// ############################################# RESULT ##################################################

// Result is the cost of one sort.
type Result struct {
	Phases         int    // completed merge phases
	PageOperations uint64 // page reads and writes over every tape the sort opened
}

// ############################################# OPTIONS #################################################

type options struct {
	logger        *slog.Logger
	dumpTapes     bool
	workDir       string
	keepWorkTapes bool
}

type Option func(*options)

// WithLogger narrates every distribution and merge decision at debug level.
// Narration never changes what the sort does.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTapeDump adds the full content of the tapes to the narration after
// distribution and after every merge phase.
func WithTapeDump(dump bool) Option {
	return func(o *options) { o.dumpTapes = dump }
}

// WithWorkDir sets the directory the scratch tapes are created under.
func WithWorkDir(dir string) Option {
	return func(o *options) { o.workDir = dir }
}

// WithKeepWorkTapes leaves the scratch tapes on disk after the sort.
func WithKeepWorkTapes(keep bool) Option {
	return func(o *options) { o.keepWorkTapes = keep }
}

// ############################################# ROLES ###################################################

// roles names the tape indexes taking part in a merge phase.
// bigger holds more runs than smaller; output receives the merged runs.
type roles struct {
	bigger  int
	smaller int
	output  int
}

// rotate moves every tape to its role in the next phase: the exhausted
// smaller tape becomes the output, the fresh output holds the most runs,
// and the leftover of bigger is now the smaller tape.
func (r *roles) rotate() {
	r.smaller, r.output, r.bigger = r.bigger, r.smaller, r.output
}

// swap exchanges bigger and smaller.
func (r *roles) swap() {
	r.bigger, r.smaller = r.smaller, r.bigger
}

// ############################################# SORTER ##################################################

const (
	inputTape = 0
	firstWork = 1
	otherWork = 2
)

// sorter is the state of one polyphase sort invocation.
type sorter struct {
	tapes  [3]*tape.Tape
	policy record.Policy
	log    *slog.Logger
	opts   options

	inputPath  string
	outputPath string
	workPaths  [3]string

	dummyRuns int
	// fibPrev is the number of runs the tape being written already holds,
	// used for narration only
	fibPrev int

	extraPageOps uint64 // page operations of copy tapes
}
