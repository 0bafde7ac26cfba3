package roslib

import "errors"

// ErrNotFound reports a 404 for a target. Most of the
// architecture/filetype cross-product does not exist for any given
// version, so this is an expected outcome, not an error condition.
var ErrNotFound = errors.New("target not published for this version")
