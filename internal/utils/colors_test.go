package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestBucketColors_Deterministic(t *testing.T) {
	first := BucketColors(12)
	second := BucketColors(12)

	assert.Equal(t, first, second)
	assert.Len(t, first, 12)
}

func TestBucketColors_WellFormedAndDistinct(t *testing.T) {
	colors := BucketColors(24)

	seen := make(map[string]bool)
	for _, color := range colors {
		assert.Regexp(t, hexColorPattern, color)
		seen[color] = true
	}

	// Golden-ratio hue stepping keeps adjacent buckets apart
	assert.Equal(t, len(colors), len(seen))
}

func TestBucketColor_MatchesPalette(t *testing.T) {
	colors := BucketColors(8)
	for i, expected := range colors {
		assert.Equal(t, expected, BucketColor(i))
	}
}

func TestBucketColors_Empty(t *testing.T) {
	assert.Empty(t, BucketColors(0))
}
