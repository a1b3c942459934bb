package repos

import "errors"

// ErrNotFound is returned by lookups for a missing record. Services decide
// whether a miss is a hard error or a generate trigger.
var ErrNotFound = errors.New("record not found")
