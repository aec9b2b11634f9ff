package shortener

import "errors"

var (
	// ErrInvalidURL is returned when the shorten target cannot be normalized.
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidAlias is returned for aliases that would escape the file namespace.
	ErrInvalidAlias = errors.New("invalid alias")
	// ErrNameConflict is returned when a caller-chosen name is already taken.
	ErrNameConflict = errors.New("alias already exists")
	// ErrStoreRead wraps failures of existence and count probes.
	ErrStoreRead = errors.New("object store read failed")
	// ErrStoreWrite wraps failures of object writes.
	ErrStoreWrite = errors.New("object store write failed")
	// ErrNamespaceExhausted is returned when no free key was found within the attempt budget.
	ErrNamespaceExhausted = errors.New("namespace exhausted")
	// ErrKeyTaken is returned by stores when a conditional create lost to an existing key.
	ErrKeyTaken = errors.New("key already taken")
)
