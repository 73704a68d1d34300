package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is.
var (
	// ErrDuplicateEntry reports a start whose exact (title, start) pair
	// already exists.
	ErrDuplicateEntry = errors.New("entry with the same title and start already exists")

	// ErrNotFound reports a lookup that matched no entry.
	ErrNotFound = errors.New("entry not found")
)

// UnfinishedExistsError reports a start attempted while another entry is
// still unfinished. Title names the blocking entry.
type UnfinishedExistsError struct {
	Title string
}

func (e UnfinishedExistsError) Error() string {
	return fmt.Sprintf("starting new entry is not allowed while an unfinished entry exists: %s", e.Title)
}

// ImpossibleStateError reports a write that affected an unexpected number of
// rows. It signals storage corruption from out-of-band writes and is never
// produced by correct use of the store API.
type ImpossibleStateError struct {
	Detail string
}

func (e ImpossibleStateError) Error() string {
	return fmt.Sprintf("while, this should never happen: %s", e.Detail)
}

// InvalidInputError reports malformed input rejected before touching storage.
type InvalidInputError struct {
	Reason string
}

func (e InvalidInputError) Error() string {
	return fmt.Sprintf("input invalid: %s", e.Reason)
}

// IsInvalidInput reports whether err is an InvalidInputError.
func IsInvalidInput(err error) bool {
	var ie InvalidInputError
	return errors.As(err, &ie)
}
