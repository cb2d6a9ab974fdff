package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func TestWindow_FiftyIntoForty(t *testing.T) {
	w := New[int](40)
	for i := 1; i <= 50; i++ {
		w.Append(i)
	}

	require.Equal(t, 40, w.Len())
	assert.Equal(t, seq(11, 50), w.All())
}

func TestWindow_LengthIsMinOfAppendsAndCapacity(t *testing.T) {
	for _, capacity := range []int{1, 3, 40, 50} {
		w := New[int](capacity)
		for n := 1; n <= 120; n++ {
			w.Append(n)

			want := min(n, capacity)
			require.Equal(t, want, w.Len(), "cap=%d appends=%d", capacity, n)
			require.Equal(t, seq(n-want+1, n), w.All(), "cap=%d appends=%d", capacity, n)
		}
	}
}

func TestWindow_Last(t *testing.T) {
	w := New[int](5)
	for i := 1; i <= 7; i++ {
		w.Append(i)
	}

	assert.Equal(t, []int{6, 7}, w.Last(2))
	assert.Equal(t, seq(3, 7), w.Last(10))
	assert.Empty(t, w.Last(0))
	assert.Empty(t, w.Last(-1))
}

func TestWindow_Empty(t *testing.T) {
	w := New[string](0)

	assert.Equal(t, 1, w.Cap())
	assert.NotNil(t, w.All())
	assert.Empty(t, w.All())

	_, ok := w.Newest()
	assert.False(t, ok)

	w.Append("a")
	w.Append("b")
	v, ok := w.Newest()
	require.True(t, ok)
	assert.Equal(t, "b", v)
	assert.Equal(t, []string{"b"}, w.All())
}

func TestWindow_CopiesAreDetached(t *testing.T) {
	w := New[int](3)
	w.Append(1)
	w.Append(2)

	snapshot := w.All()
	snapshot[0] = 99
	w.Append(3)

	assert.Equal(t, []int{1, 2, 3}, w.All())
}
