package errs

import (
	"fmt"
)

// Err represents structure of a custom error
type Err struct {
	Code    string
	Message string
}

func (e Err) Error() string {
	return fmt.Sprintf("%s : %s ", e.Code, e.Message)
}

// Error represents a simple text error.
type Error struct {
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// New returns a new error message.
func New(text string) error {
	return &Error{Message: text}
}

// ErrInvalidTestResultDir returns an error when the test results directory is unusable.
func ErrInvalidTestResultDir(dir string, err error) error {
	return New(fmt.Sprintf("unable to read test results directory %s: %v", dir, err))
}

var (
	// ErrNoEligibleTests is returned when no test result directory carries coverage data.
	ErrNoEligibleTests = New("no coverage-enabled test results found")
	// ErrMissingTestDir is returned when the positional test results directory argument is absent.
	ErrMissingTestDir = New("test results directory argument is required")
	// ErrMissingLcovOutput is returned when the lcov output directory flag is absent.
	ErrMissingLcovOutput = New("lcov output directory is required")
	// ErrInvalidLoggerInstance is returned when logger instance is not supported.
	ErrInvalidLoggerInstance = New("Invalid logger instance")
)

// DBOp identifies the database operation that failed.
type DBOp string

// Database operations that can fail distinctly.
const (
	DBConnect  DBOp = "connect"
	DBInsert   DBOp = "insert"
	DBRollback DBOp = "rollback"
	DBCommit   DBOp = "commit"
)

// DBError wraps a database failure with the operation that produced it, so
// callers can tell a connection failure from a statement or rollback failure.
type DBError struct {
	Op  DBOp
	Err error
}

func (e *DBError) Error() string {
	return fmt.Sprintf("coverage db %s failed: %v", e.Op, e.Err)
}

func (e *DBError) Unwrap() error {
	return e.Err
}

// NewDBError returns a DBError for the given operation.
func NewDBError(op DBOp, err error) error {
	return &DBError{Op: op, Err: err}
}
