package matchdb

import "errors"

// ErrDuplicateMatch indicates the match id is already in the log.
var ErrDuplicateMatch = errors.New("match already logged")
