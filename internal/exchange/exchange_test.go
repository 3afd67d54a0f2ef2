package exchange

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFixedRate_EURToRON(t *testing.T) {
	c, err := NewFixedRate("")
	assert.NoError(t, err)

	// exact decimal arithmetic, no float drift
	got := c.EURToRON(decimal.RequireFromString("350.00"))
	assert.True(t, got.Equal(decimal.RequireFromString("1750.00")), "got %s", got)

	got = c.EURToRON(decimal.RequireFromString("0.01"))
	assert.True(t, got.Equal(decimal.RequireFromString("0.05")), "got %s", got)
}

func TestFixedRate_CustomRate(t *testing.T) {
	c, err := NewFixedRate("4.9753")
	assert.NoError(t, err)

	got := c.EURToRON(decimal.RequireFromString("100"))
	assert.True(t, got.Equal(decimal.RequireFromString("497.53")), "got %s", got)
}

func TestNewFixedRate_Invalid(t *testing.T) {
	_, err := NewFixedRate("five")
	assert.Error(t, err)
}
