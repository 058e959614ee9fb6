package service

import (
	"context"
	"fmt"
	"time"
)

// Reference number prefixes.
const (
	PrefixEnquiry   = "ENQ"
	PrefixQuotation = "QUO"
)

// Sequencer produces unique, human-readable reference numbers that increase
// monotonically within a calendar month, e.g. ENQ26080001. The backing
// counter must be atomic so concurrent creations never collide.
type Sequencer interface {
	Next(ctx context.Context, prefix string) (string, error)
}

// SequencePeriod derives the {YY}{MM} period key from a point in time.
func SequencePeriod(now time.Time) string {
	return now.Format("0601")
}

// FormatReference builds a reference number from its parts.
func FormatReference(prefix, period string, sequence int64) string {
	return fmt.Sprintf("%s%s%04d", prefix, period, sequence)
}
