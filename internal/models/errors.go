package models

import "fmt"

// ConvertError is a fatal pipeline failure tagged with the stage that
// produced it.
type ConvertError struct {
	Stage   Stage
	Package string
	Err     error
}

// Error implements the error interface
func (e *ConvertError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Stage, e.Package, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Stage, e.Err)
}

// Unwrap returns the wrapped error
func (e *ConvertError) Unwrap() error {
	return e.Err
}

// MalformedMetadataError reports source metadata the parser cannot
// accept: a required field missing or a value that does not follow the
// source format's grammar.
type MalformedMetadataError struct {
	Field  string
	Reason string
}

func (e *MalformedMetadataError) Error() string {
	return fmt.Sprintf("malformed metadata: field %q: %s", e.Field, e.Reason)
}

// PathCollisionError reports two distinct source paths that normalize
// to the same target path.
type PathCollisionError struct {
	Target string
	First  string
	Second string
}

func (e *PathCollisionError) Error() string {
	return fmt.Sprintf("path collision: %s and %s both normalize to %s", e.First, e.Second, e.Target)
}

// ExternalToolError reports a missing or failed external tool
// invocation. ExitCode is -1 when the tool never ran.
type ExternalToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExternalToolError) Error() string {
	if e.ExitCode >= 0 {
		if e.Stderr != "" {
			return fmt.Sprintf("%s exited with code %d: %s", e.Tool, e.ExitCode, e.Stderr)
		}
		return fmt.Sprintf("%s exited with code %d", e.Tool, e.ExitCode)
	}
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

// Unwrap returns the wrapped error
func (e *ExternalToolError) Unwrap() error {
	return e.Err
}
