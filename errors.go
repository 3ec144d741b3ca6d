package svgexport

import (
	"errors"
	"fmt"
)

// ErrNotAnimation is wrapped by the StructuralError returned when a frame
// group is requested from a document that is not exported as an animation.
var ErrNotAnimation = errors.New("export mode is not animation")

// PathError reports an output location that cannot be created, opened or
// written. It aborts the current write only.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("svg export: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// StructuralError reports a pass whose ordering precondition does not hold,
// such as a fill pass running before the frame group it fills was created.
type StructuralError struct {
	Op  string
	Msg string
	Err error
}

func (e *StructuralError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("svg export: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("svg export: %s: %s", e.Op, e.Msg)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// MalformedDocumentError reports an output file that is not well-formed
// XML, or not an svg document, when a pass parses it. No repair is tried.
type MalformedDocumentError struct {
	Path string
	Err  error
}

func (e *MalformedDocumentError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("svg export: malformed document: %v", e.Err)
	}
	return fmt.Sprintf("svg export: malformed document %s: %v", e.Path, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }
