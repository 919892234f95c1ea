package repository

import (
	"errors"
	"fmt"
)

// Kind separates errors that abort a command from errors that are reported
// to the user while the command still succeeds.
type Kind int

const (
	// KindFatal aborts the command with a non-zero exit status.
	KindFatal Kind = iota
	// KindReported is printed as "Error: ..." and the command exits normally.
	KindReported
)

func (k Kind) String() string {
	if k == KindReported {
		return "reported"
	}
	return "fatal"
}

// Error is returned by repository operations. Formatting for the user is
// left to the caller.
type Error struct {
	Kind    Kind
	Err     error
	Detail  string
	Context string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fatalf(err error, format string, args ...any) *Error {
	return &Error{Kind: KindFatal, Err: err, Detail: fmt.Sprintf(format, args...)}
}

func reportedf(err error, format string, args ...any) *Error {
	return &Error{Kind: KindReported, Err: err, Detail: fmt.Sprintf(format, args...)}
}

// IsReported reports whether err is a non-fatal, user-reported error.
func IsReported(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindReported
}

var (
	ErrNotRepository   = errors.New("not a sit repository (or any of the parent directories)")
	ErrAlreadyExists   = errors.New("repository already exists")
	ErrLocked          = errors.New("repository is locked by another sit process")
	ErrFileTooLarge    = errors.New("file larger than the size limit")
	ErrEmptyMessage    = errors.New("commit message is empty")
	ErrMissingConfig   = errors.New("config key not set")
	ErrHeadDetached    = errors.New("HEAD is not up-to-date with master, cannot commit")
	ErrNothingToAmend  = errors.New("nothing to amend")
	ErrNotAncestor     = errors.New("commit is not in master's history")
	ErrCommitNotFound  = errors.New("commit does not exist")
	ErrDirtyIndex      = errors.New("you have something staged, commit or reset before checkout")
	ErrPathNotFound    = errors.New("path does not exist in file list")
	ErrNoCommitID      = errors.New("checkout of the whole repository needs a commit id")
	ErrEmptyRepository = errors.New("the current repository is empty")
)
