package weighted

import "errors"

// Errors for weighted selection.
var (
	ErrNoItems        = errors.New("weighted: no items to choose from")
	ErrInvalidWeight  = errors.New("weighted: item weight must be positive")
	ErrZeroTotal      = errors.New("weighted: total weight must be positive")
	ErrBadWeightTable = errors.New("weighted: malformed weight table")
)
