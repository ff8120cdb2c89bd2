package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	issLine1 = "1 25544U 98067A   24100.50000000  .00016717  00000-0  10270-3 0  9005"
	issLine2 = "2 25544  51.6400 100.0000 0001000   0.0000   0.0000 15.50000000    09"
)

func TestNewSet(t *testing.T) {
	set, err := NewSet(25544, "ISS (ZARYA)", issLine1, issLine2)
	require.NoError(t, err)

	assert.Equal(t, 25544, set.NoradID)
	assert.Equal(t, "ISS (ZARYA)", set.Name)
	assert.Equal(t, issLine1, set.Line1)
	assert.Equal(t, issLine2, set.Line2)
}

func TestNewSetNameFallback(t *testing.T) {
	set, err := NewSet(25544, "", issLine1, issLine2)
	require.NoError(t, err)
	assert.Equal(t, "25544", set.Name)
}

func TestNewSetRejectsIncomplete(t *testing.T) {
	_, err := NewSet(1, "x", "", issLine2)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = NewSet(1, "x", issLine1, "")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = NewSet(1, "x", "   ", "   ")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewSetRejectsWrongPrefixes(t *testing.T) {
	_, err := NewSet(1, "x", issLine2, issLine2)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = NewSet(1, "x", issLine1, issLine1)
	assert.ErrorIs(t, err, ErrUnavailable)
}
