package queue

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSize(t *testing.T) {
	for i := 0; i <= 33; i++ {
		t.Run(fmt.Sprintf("%d elements", i), func(t *testing.T) {
			size := computeSize(i)
			assert.GreaterOrEqual(t, size, minSize)
			assert.Zero(t, size&(size+1), "expecting 2^n - 1, got %b", size)
			assert.GreaterOrEqual(t, size, i)
			if size > minSize {
				assert.Less(t, size>>1, i)
			}
		})
	}
}

func TestPrefilled(t *testing.T) {
	q := New(0, 1, 2)
	assert.Equal(t, minSize, q.size)
	assert.Equal(t, []int{0, 1, 2}, q.Items())

	q = New(0, 1, 2, 3)
	assert.Equal(t, (minSize<<1)+1, q.size)
	assert.Equal(t, 4, q.Len())
}

func TestGrowAndWrap(t *testing.T) {
	q := New[int]()
	for i := 0; i < 3; i++ {
		q.Append(i)
	}
	first, ok := q.First()
	require.True(t, ok)
	assert.Equal(t, 0, first)

	q.Append(3).Append(4)
	assert.Equal(t, []int{1, 2, 3, 4}, q.Items())
	q.Prepend(0)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, q.Items())
	assert.Equal(t, (minSize<<1)+1, q.size)
}

func TestShrink(t *testing.T) {
	q := New(make([]int, 16)...)
	full := q.size
	for !q.IsEmpty() {
		q.First()
	}
	q.Append(1)
	for i := 0; i < 40; i++ {
		q.Append(i)
		q.First()
	}
	assert.LessOrEqual(t, q.size, full)
	assert.Equal(t, 1, q.Len())
}

func TestFirstLast(t *testing.T) {
	q := New[string]()
	_, ok := q.First()
	assert.False(t, ok)
	_, ok = q.Last()
	assert.False(t, ok)

	q.Append("b").Append("c").Prepend("a")
	last, ok := q.Last()
	require.True(t, ok)
	assert.Equal(t, "c", last)
	first, ok := q.First()
	require.True(t, ok)
	assert.Equal(t, "a", first)
	assert.Equal(t, []string{"b"}, q.Items())
}
