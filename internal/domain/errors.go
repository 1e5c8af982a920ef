package domain

import "errors"

var (
	ErrRouteNotFound         = errors.New("no saved route")
	ErrEmptySequence         = errors.New("nothing to save: sequence is empty")
	ErrSameOriginDestination = errors.New("invalid route: origin and destination are the same")
	ErrUnknownPlace          = errors.New("unknown place")
	ErrInvalidUnits          = errors.New("invalid units: enter a non-negative number")
	ErrMalformedSequence     = errors.New("malformed sequence")
	ErrInvalidDoor           = errors.New("invalid door")
)
