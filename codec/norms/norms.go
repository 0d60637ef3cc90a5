package norms

import (
	"fmt"
	"math"

	"github.com/hupe1980/lexgo"
)

const (
	// DataCodec is the codec name in the data file header.
	DataCodec = "Lucene53NormsData"
	// DataExtension is the data file extension.
	DataExtension = "nvd"
	// MetaCodec is the codec name in the metadata file header.
	MetaCodec = "Lucene53NormsMetadata"
	// MetaExtension is the metadata file extension.
	MetaExtension = "nvm"

	// VersionStart is the oldest readable format version.
	VersionStart int32 = 0
	// VersionCurrent is the format version written.
	VersionCurrent = VersionStart

	// constantMarker replaces the byte width for fields with a single value.
	constantMarker byte = 0
	// endOfFields terminates the field directory in the metadata file.
	endOfFields int32 = -1
)

// Options configures norms writers and readers.
type Options struct {
	// Logger receives per-field and finalization events.
	Logger *lexgo.Logger

	// Metrics records per-field and finalization outcomes.
	Metrics lexgo.MetricsCollector

	// VerifyChecksums makes Open recompute the data file checksum. The
	// metadata file is always verified.
	VerifyChecksums bool
}

// DefaultOptions are applied before any option functions.
var DefaultOptions = Options{
	Logger:          lexgo.NoopLogger(),
	Metrics:         lexgo.NoopMetricsCollector{},
	VerifyChecksums: true,
}

func newOptions(optFns []func(o *Options)) Options {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = lexgo.NoopLogger()
	}
	if opts.Metrics == nil {
		opts.Metrics = lexgo.NoopMetricsCollector{}
	}
	return opts
}

// CountMismatchError is returned when a field supplies a number of values
// different from the segment's document count.
type CountMismatchError struct {
	Field    string
	Expected int32
	Actual   int64
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("illegal norms data for field %s, expected count=%d, got=%d", e.Field, e.Expected, e.Actual)
}

// Unwrap returns lexgo.ErrDataCorruption.
func (e *CountMismatchError) Unwrap() error {
	return lexgo.ErrDataCorruption
}

// byteWidth returns the narrowest of 1, 2, 4 and 8 bytes whose signed range
// covers [minValue, maxValue].
func byteWidth(minValue, maxValue int64) int {
	switch {
	case minValue >= math.MinInt8 && maxValue <= math.MaxInt8:
		return 1
	case minValue >= math.MinInt16 && maxValue <= math.MaxInt16:
		return 2
	case minValue >= math.MinInt32 && maxValue <= math.MaxInt32:
		return 4
	default:
		return 8
	}
}
