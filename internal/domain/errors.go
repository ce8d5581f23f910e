package domain

import "errors"

var (
	ErrListingNotFound     = errors.New("listing not found")
	ErrListingNotExtracted = errors.New("listing has not been extracted yet")
	ErrEmptyListingText    = errors.New("listing text is empty")
	ErrExtractionFailed    = errors.New("listing extraction failed")
)
