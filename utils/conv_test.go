package utils

import (
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestFormatScore(t *testing.T) {
	assert.Equal(t, "0.72", FormatScore(0.9*(1-0.2)))
	assert.Equal(t, "0.80", FormatScore(0.8))
	assert.Equal(t, "0.00", FormatScore(0))
	assert.Equal(t, "1.00", FormatScore(0.999))
}

func TestDurationToSeconds(t *testing.T) {
	assert.Equal(t, int64(600), DurationToSeconds(10*time.Minute))
	assert.Equal(t, int64(0), DurationToSeconds(999*time.Millisecond))
}
