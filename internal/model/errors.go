package model

import "fmt"

// FormatError reports a file that claims a recognized format but cannot be
// parsed at all. Fatal to that single file, never to the run.
type FormatError struct {
	Path Path
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("cannot parse %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// RewriteError reports a position field that could not be safely located or
// written. It aborts the rewrite of its file only; the file is left untouched.
type RewriteError struct {
	Path   Path
	Detail string
}

func (e *RewriteError) Error() string {
	return fmt.Sprintf("cannot rewrite %s: %s", e.Path, e.Detail)
}

// DeletionError reports a delete candidate that could not be removed.
// Processing continues with the remaining candidates.
type DeletionError struct {
	Path Path
	Err  error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("cannot delete %s: %v", e.Path, e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }
