// Package queue contains a generic double-ended ring buffer.
package queue

const minSize = 3

// Queue is a ring buffer, size is always 2^n - 1.
type Queue[T any] struct {
	items      []T
	size       int
	head, tail int
}

func New[T any](items ...T) *Queue[T] {
	l := len(items)
	result := &Queue[T]{tail: l, size: computeSize(l)}
	result.items = make([]T, result.size+1)
	copy(result.items, items)
	return result
}

func (q *Queue[T]) IsEmpty() bool {
	return q.head == q.tail
}

func (q *Queue[T]) Len() int {
	return (q.tail + q.size + 1 - q.head) & q.size
}

// Items returns queued items from first to last.
func (q *Queue[T]) Items() []T {
	if q.tail >= q.head {
		return q.items[q.head:q.tail]
	}

	result := make([]T, q.Len())
	copy(result, q.items[q.head:q.size+1])
	copy(result[q.size-q.head+1:], q.items[:q.tail])
	return result
}

func (q *Queue[T]) Append(item T) *Queue[T] {
	q.items[q.tail] = item
	q.tail = (q.tail + 1) & q.size
	if q.tail == q.head {
		q.grow()
	}
	return q
}

func (q *Queue[T]) Prepend(item T) *Queue[T] {
	q.head = (q.head - 1) & q.size
	q.items[q.head] = item
	if q.head == q.tail {
		q.grow()
	}
	return q
}

// First removes and returns the first item.
func (q *Queue[T]) First() (result T, ok bool) {
	if q.head == q.tail {
		return result, false
	}

	var zero T
	result = q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) & q.size

	if q.head == 0 && q.size > minSize && (q.tail<<2) <= q.size {
		q.size = computeSize(q.tail << 1)
		items := make([]T, q.size+1)
		copy(items, q.items[:q.tail])
		q.items = items
	}
	return result, true
}

// Last removes and returns the last item.
func (q *Queue[T]) Last() (result T, ok bool) {
	if q.head == q.tail {
		return result, false
	}

	var zero T
	q.tail = (q.tail - 1) & q.size
	result = q.items[q.tail]
	q.items[q.tail] = zero
	return result, true
}

func computeSize(length int) int {
	if length <= minSize {
		return minSize
	}
	length |= length >> 1
	length |= length >> 2
	length |= length >> 4
	length |= length >> 8
	length |= length >> 16
	return length | length>>32
}

func (q *Queue[T]) grow() {
	items := make([]T, (q.size+1)<<1)
	copy(items, q.items[q.head:])
	if q.head > 0 {
		copy(items[q.size+1-q.head:], q.items[:q.head])
	}
	q.head = 0
	q.tail = q.size + 1
	q.size += q.tail
	q.items = items
}
