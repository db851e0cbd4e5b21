package patch

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the ways a patch can fail to parse or build.
type ErrorKind int

const (
	InvalidEnvelope ErrorKind = iota + 1
	DuplicatePath
	MissingFile
	UnknownLine
	MissingEndPatch
	MalformedHunkLine
	ContextNotFound
	EmptySection
	InvalidAddLine
	InvalidChunk
	FuzzLimitExceeded
)

// String returns a stable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case InvalidEnvelope:
		return "InvalidEnvelope"
	case DuplicatePath:
		return "DuplicatePath"
	case MissingFile:
		return "MissingFile"
	case UnknownLine:
		return "UnknownLine"
	case MissingEndPatch:
		return "MissingEndPatch"
	case MalformedHunkLine:
		return "MalformedHunkLine"
	case ContextNotFound:
		return "ContextNotFound"
	case EmptySection:
		return "EmptySection"
	case InvalidAddLine:
		return "InvalidAddLine"
	case InvalidChunk:
		return "InvalidChunk"
	case FuzzLimitExceeded:
		return "FuzzLimitExceeded"
	default:
		return "UnknownError"
	}
}

// DiffError represents an error that occurred during patch processing.
//
// Index, Context and EOF are only set for ContextNotFound.
type DiffError struct {
	Kind    ErrorKind
	Message string

	Index   int
	Context string
	EOF     bool
}

func (e *DiffError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Is matches another DiffError of the same kind, so the Err* sentinels work
// with errors.Is.
func (e *DiffError) Is(target error) bool {
	t, ok := target.(*DiffError)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidEnvelope   = &DiffError{Kind: InvalidEnvelope}
	ErrDuplicatePath     = &DiffError{Kind: DuplicatePath}
	ErrMissingFile       = &DiffError{Kind: MissingFile}
	ErrUnknownLine       = &DiffError{Kind: UnknownLine}
	ErrMissingEndPatch   = &DiffError{Kind: MissingEndPatch}
	ErrMalformedHunkLine = &DiffError{Kind: MalformedHunkLine}
	ErrContextNotFound   = &DiffError{Kind: ContextNotFound}
	ErrEmptySection      = &DiffError{Kind: EmptySection}
	ErrInvalidAddLine    = &DiffError{Kind: InvalidAddLine}
	ErrInvalidChunk      = &DiffError{Kind: InvalidChunk}
	ErrFuzzLimitExceeded = &DiffError{Kind: FuzzLimitExceeded}
)

// IsDiffError reports whether err is a patch error rather than an I/O error
// from one of the injected collaborators.
func IsDiffError(err error) bool {
	var de *DiffError
	return errors.As(err, &de)
}

func newDiffError(kind ErrorKind, format string, args ...interface{}) *DiffError {
	return &DiffError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
