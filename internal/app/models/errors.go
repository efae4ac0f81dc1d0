package models

import "errors"

// Domain specific errors for the planner.
var (
	ErrNotFound          = errors.New("requested item not found")
	ErrValidation        = errors.New("validation failed")
	ErrEmptyCity         = errors.New("please enter a city")
	ErrEmptyItinerary    = errors.New("itinerary is empty")
	ErrUnknownAlgorithm  = errors.New("unknown route algorithm")
	ErrInvalidTransition = errors.New("action not allowed in current view")
	ErrStaleResponse     = errors.New("response superseded by a newer request")
	ErrBackend           = errors.New("backend request failed")
	ErrDirections        = errors.New("directions request failed")
)

// IsValidation reports whether err is a user-facing validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrEmptyCity) ||
		errors.Is(err, ErrEmptyItinerary) ||
		errors.Is(err, ErrUnknownAlgorithm)
}
