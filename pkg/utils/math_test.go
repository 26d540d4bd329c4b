package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundDecimal(t *testing.T) {
	assert.Equal(t, 3.14, RoundDecimal(3.14159, 2))
	assert.Equal(t, 3.15, RoundDecimal(3.145, 2))
	assert.Equal(t, 3.0, RoundDecimal(3.14159, 0))
	assert.Equal(t, 0.667, RoundDecimal(2.0/3.0, 3))
	assert.Equal(t, 100.0, RoundDecimal(100.0, 2))
}
