package element

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves element sets from a map; missing IDs are
// unavailable.
type fakeSource struct {
	sets map[int]Set
}

func (f *fakeSource) Fetch(_ context.Context, noradID int) (Set, error) {
	set, ok := f.sets[noradID]
	if !ok {
		return Set{}, fmt.Errorf("norad %d: %w", noradID, ErrUnavailable)
	}
	return set, nil
}

func fakeSet(t *testing.T, id int, name string) Set {
	t.Helper()
	set, err := NewSet(id, name, issLine1, issLine2)
	require.NoError(t, err)
	return set
}

func TestFetchAllPartialFailure(t *testing.T) {
	src := &fakeSource{sets: map[int]Set{
		1: fakeSet(t, 1, "SAT-1"),
		3: fakeSet(t, 3, "SAT-3"),
		5: fakeSet(t, 5, "SAT-5"),
	}}

	ids := []int{1, 2, 3, 4, 5}
	sets, skips := FetchAll(context.Background(), src, ids, 4, testLogger)

	require.Len(t, sets, 3)
	require.Len(t, skips, 2)

	// Result order follows the configured ID order, not completion order.
	assert.Equal(t, "SAT-1", sets[0].Name)
	assert.Equal(t, "SAT-3", sets[1].Name)
	assert.Equal(t, "SAT-5", sets[2].Name)

	assert.Equal(t, 2, skips[0].NoradID)
	assert.Equal(t, 4, skips[1].NoradID)
	for _, s := range skips {
		assert.ErrorIs(t, s.Err, ErrUnavailable)
	}
}

func TestFetchAllTotalFailure(t *testing.T) {
	src := &fakeSource{sets: map[int]Set{}}

	sets, skips := FetchAll(context.Background(), src, []int{7, 8, 9}, 2, testLogger)
	assert.Empty(t, sets)
	assert.Len(t, skips, 3)
}

func TestFetchAllZeroConcurrency(t *testing.T) {
	src := &fakeSource{sets: map[int]Set{1: fakeSet(t, 1, "SAT-1")}}

	sets, skips := FetchAll(context.Background(), src, []int{1}, 0, testLogger)
	assert.Len(t, sets, 1)
	assert.Empty(t, skips)
}
