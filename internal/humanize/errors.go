package humanize

import "errors"

var (
	// ErrInputEmpty means the passage was blank after trimming. The rewriter is not called.
	ErrInputEmpty = errors.New("input is empty")
	// ErrExternalCall wraps any failure of the rewrite collaborator.
	ErrExternalCall = errors.New("rewrite call failed")
	// ErrNoClient is returned by Humanize on a Humanizer built without a client.
	ErrNoClient = errors.New("no rewrite client configured")
)
