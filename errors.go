package lexgo

import (
	"errors"
	"os"
)

var (
	// ErrIllegalArgument is returned for invalid offsets, lengths, positions or
	// document ids. It is always a caller error.
	ErrIllegalArgument = errors.New("illegal argument")

	// ErrIllegalState is returned when a structurally impossible condition is
	// detected, e.g. treating an empty file mapping as non-empty or writing to
	// a finalized writer.
	ErrIllegalState = errors.New("illegal state")

	// ErrDataCorruption indicates malformed persisted or in-flight data, such as
	// a norms field whose value count differs from the segment's document count
	// or a footer checksum mismatch.
	ErrDataCorruption = errors.New("data corruption")

	// ErrChannelFailure is returned when a per-segment collector cannot deliver
	// a scored document to the merge step.
	ErrChannelFailure = errors.New("channel failure")

	// ErrNotFound is returned when a file or object does not exist.
	//
	// It maps to os.ErrNotExist so errors.Is works for both local and remote
	// directories.
	ErrNotFound = os.ErrNotExist
)
