package repositories

import "errors"

// ErrNotFound is wrapped by every lookup that matches no live row.
var ErrNotFound = errors.New("not found")
