package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownChannel      = errors.New("unknown channel")
	ErrEmptyAlignedPair    = errors.New("aligned pair has no points")
	ErrInvalidSegmentCount = errors.New("segment count must be at least 1")
)

// MissingChannelError is returned when a required channel is absent from a series
type MissingChannelError struct {
	Series  SeriesID
	Channel Channel
}

func (e *MissingChannelError) Error() string {
	return fmt.Sprintf("series %s: missing required channel %q", e.Series, e.Channel)
}

type ChannelLengthError struct {
	Series  SeriesID
	Channel Channel
	Want    int
	Got     int
}

func (e *ChannelLengthError) Error() string {
	return fmt.Sprintf("series %s: channel %q has %d samples, expected %d",
		e.Series, e.Channel, e.Got, e.Want)
}

// NonFiniteValueError reports a NaN or Inf sample value. Index is the position
// in the input columns.
type NonFiniteValueError struct {
	Series  SeriesID
	Channel Channel
	Index   int
	Value   float64
}

func (e *NonFiniteValueError) Error() string {
	return fmt.Sprintf("series %s: channel %q has non-finite value %g at sample %d",
		e.Series, e.Channel, e.Value, e.Index)
}

// DomainOverlapError reports two series whose distance ranges do not intersect
// in more than a single point.
type DomainOverlapError struct {
	A, B       SeriesID
	MinA, MaxA float64
	MinB, MaxB float64
}

func (e *DomainOverlapError) Error() string {
	return fmt.Sprintf("no distance overlap: %s covers [%g, %g], %s covers [%g, %g]",
		e.A, e.MinA, e.MaxA, e.B, e.MinB, e.MaxB)
}

// EmptyAlignedPairError signals an internal invariant violation of the aligner
type EmptyAlignedPairError struct {
	A, B SeriesID
}

func (e *EmptyAlignedPairError) Error() string {
	return fmt.Sprintf("aligned pair %s vs %s has no points", e.A, e.B)
}

func (e *EmptyAlignedPairError) Unwrap() error {
	return ErrEmptyAlignedPair
}

type EstimatorUnavailableError struct {
	Estimator Estimator
	Reason    string
}

func (e *EstimatorUnavailableError) Error() string {
	return fmt.Sprintf("gap estimator %q not available: %s", e.Estimator, e.Reason)
}
