package level_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ssk090/git-contri-merged/internal/level"
)

func TestRawBoundaries(t *testing.T) {
	t.Parallel()

	cases := map[int]int{0: 0, 1: 1, 3: 1, 4: 2, 6: 2, 7: 3, 9: 3, 10: 4, 250: 4}
	for count, want := range cases {
		assert.Equal(t, want, level.Raw(count), "raw(%d)", count)
	}
}

func TestMergedBoundaries(t *testing.T) {
	t.Parallel()

	cases := map[int]int{0: 0, 1: 1, 5: 1, 6: 2, 10: 2, 11: 3, 15: 3, 16: 4, 900: 4}
	for count, want := range cases {
		assert.Equal(t, want, level.Merged(count), "merged(%d)", count)
	}
}

func TestNegativeCountsClampToZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, level.Raw(-3))
	assert.Equal(t, 0, level.Merged(-1))
}

func TestClassifiersAreMonotonicAndBounded(t *testing.T) {
	t.Parallel()

	for _, fn := range []func(int) int{level.Raw, level.Merged} {
		prev := 0
		for c := 0; c <= 100; c++ {
			got := fn(c)
			assert.GreaterOrEqual(t, got, prev, "count %d", c)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, level.Max)
			prev = got
		}
	}
}
