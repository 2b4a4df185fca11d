package rerank

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions marks a rerank configuration outside its valid range.
var ErrInvalidOptions = errors.New("invalid rerank options")

const (
	DefaultMinScore           = 0.15
	DefaultMaxPerDomain       = 3
	DefaultDuplicateThreshold = 0.85
)

// Options tunes the thresholds of a rerank run.
type Options struct {
	// MinScore is the lowest final score that survives ranking, in [0, 1].
	MinScore float64
	// MaxPerDomain caps results sharing one domain, at least 1.
	MaxPerDomain int
	// DuplicateThreshold is the similarity at which two results collapse, in [0, 1].
	DuplicateThreshold float64
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		MinScore:           DefaultMinScore,
		MaxPerDomain:       DefaultMaxPerDomain,
		DuplicateThreshold: DefaultDuplicateThreshold,
	}
}

// DedupOptions disables score thresholding and domain capping so that a run
// only filters and collapses near-duplicates. Pair it with an empty query.
func DedupOptions() Options {
	return Options{
		MinScore:           0,
		MaxPerDomain:       999,
		DuplicateThreshold: DefaultDuplicateThreshold,
	}
}

// Validate reports every out-of-range field. Values are never clamped.
func (o Options) Validate() error {
	var errs []error
	if !inUnitRange(o.MinScore) {
		errs = append(errs, fmt.Errorf("min score %v outside [0, 1]", o.MinScore))
	}
	if o.MaxPerDomain < 1 {
		errs = append(errs, fmt.Errorf("max per domain %d is below 1", o.MaxPerDomain))
	}
	if !inUnitRange(o.DuplicateThreshold) {
		errs = append(errs, fmt.Errorf("duplicate threshold %v outside [0, 1]", o.DuplicateThreshold))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidOptions, errors.Join(errs...))
}

// NaN fails both comparisons.
func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}
