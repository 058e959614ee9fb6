package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSequencePeriod(t *testing.T) {
	assert.Equal(t, "2606", SequencePeriod(time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2601", SequencePeriod(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2512", SequencePeriod(time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)))
}

func TestFormatReference(t *testing.T) {
	assert.Equal(t, "ENQ26060001", FormatReference(PrefixEnquiry, "2606", 1))
	assert.Equal(t, "QUO26060042", FormatReference(PrefixQuotation, "2606", 42))
	assert.Equal(t, "ENQ26069999", FormatReference(PrefixEnquiry, "2606", 9999))
	// sequences past four digits keep their full width
	assert.Equal(t, "ENQ260610000", FormatReference(PrefixEnquiry, "2606", 10000))
}
