package buddy

import "errors"

var (
	// ErrNoSpace indicates that no free block of sufficient order exists.
	ErrNoSpace = errors.New("buddy: no free block large enough")

	// ErrBadRef indicates an offset that does not name a currently allocated
	// block: out of range, not unit-aligned, or already freed.
	ErrBadRef = errors.New("buddy: bad block reference")

	// ErrBadConfig indicates an invalid MinOrder/MaxOrder combination.
	ErrBadConfig = errors.New("buddy: bad config")
)
