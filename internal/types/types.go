package types

// Field is one positional column of a normalized row.
type Field struct {
	Name  string `yaml:"name"`
	Width int    `yaml:"width"`
}

// Schema describes the record shape of one source export.
type Schema struct {
	Name    string  `yaml:"name"`
	Version int     `yaml:"version"`
	Prefix  int     `yaml:"prefix"`
	Fields  []Field `yaml:"fields"`
}

type ExtractionResult struct {
	InputFile    string
	OutputFile   string
	Schema       string
	LinesRead    int
	LinesWritten int
	Halted       bool
}

type FileData struct {
	Headers []string
	Rows    [][]string
}

type CompareMode string

const (
	CompareNumeric CompareMode = "numeric"
	CompareString  CompareMode = "string"
)

// ColumnPair names a left column and its counterpart on the right.
type ColumnPair struct {
	Name   string      `mapstructure:"name" yaml:"name"`
	Left   string      `mapstructure:"left" yaml:"left"`
	Right  string      `mapstructure:"right" yaml:"right"`
	Mode   CompareMode `mapstructure:"mode" yaml:"mode"`
	Output string      `mapstructure:"output" yaml:"output"`
}

type DiffRecord struct {
	Line  int
	Left  string
	Right string
}

type PairResult struct {
	Pair       ColumnPair
	OutputFile string
	Compared   int
	Diffs      []DiffRecord
	Err        error
}

type ReconcileResult struct {
	LeftFile  string
	RightFile string
	Pairs     []PairResult
}

// Failed returns the pairs that did not produce a report.
func (r *ReconcileResult) Failed() []PairResult {
	var failed []PairResult
	for _, p := range r.Pairs {
		if p.Err != nil {
			failed = append(failed, p)
		}
	}
	return failed
}
