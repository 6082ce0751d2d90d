package domain

// ReadKind distinguishes the three ways a blocking line read can resolve.
// The protocol handler consumes this instead of treating stream exhaustion
// as an error to be caught.
type ReadKind int

const (
	ReadLine ReadKind = iota
	ReadEOF
	ReadError
)

// ReadOutcome is the result of reading one line from a connection.
// Line is only meaningful when Kind is ReadLine, Err when Kind is ReadError.
type ReadOutcome struct {
	Kind ReadKind
	Line string
	Err  error
}

func LineOutcome(line string) ReadOutcome { return ReadOutcome{Kind: ReadLine, Line: line} }
func EOFOutcome() ReadOutcome             { return ReadOutcome{Kind: ReadEOF} }
func ErrorOutcome(err error) ReadOutcome  { return ReadOutcome{Kind: ReadError, Err: err} }
