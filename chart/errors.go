package chart

import "github.com/pkg/errors"

var (
	// ErrNoData is returned by a maker when no usable row remains after parsing.
	ErrNoData = errors.New("no usable data rows")
	// ErrCycle is returned when a hierarchy refers back to itself.
	ErrCycle = errors.New("cycle detected in hierarchy")
	// ErrInvalidInput is returned for input that cannot be decoded at all.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownKind is returned when no maker is registered for a kind.
	ErrUnknownKind = errors.New("unknown chart kind")
	// ErrUnknownFormat is returned for an unsupported output format.
	ErrUnknownFormat = errors.New("unknown output format")
)
