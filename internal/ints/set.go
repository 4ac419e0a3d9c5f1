// Package ints contains a bit set of small non-negative integers.
package ints

import "math/bits"

const wordBits = bits.UintSize

// Set is a set of non-negative integers, the zero value is an empty set.
type Set struct {
	words []uint
}

func NewSet(items ...int) *Set {
	s := &Set{}
	s.Add(items...)
	return s
}

func (s *Set) grow(item int) {
	need := item/wordBits + 1
	if need > len(s.words) {
		words := make([]uint, need)
		copy(words, s.words)
		s.words = words
	}
}

// Add ignores negative items.
func (s *Set) Add(items ...int) *Set {
	for _, item := range items {
		if item < 0 {
			continue
		}
		s.grow(item)
		s.words[item/wordBits] |= 1 << (uint(item) % wordBits)
	}
	return s
}

func (s *Set) Remove(items ...int) *Set {
	for _, item := range items {
		if item >= 0 && item/wordBits < len(s.words) {
			s.words[item/wordBits] &^= 1 << (uint(item) % wordBits)
		}
	}
	return s
}

func (s *Set) Contains(item int) bool {
	if item < 0 || item/wordBits >= len(s.words) {
		return false
	}
	return s.words[item/wordBits]&(1<<(uint(item)%wordBits)) != 0
}

func (s *Set) Len() int {
	result := 0
	for _, w := range s.words {
		result += bits.OnesCount(w)
	}
	return result
}

func (s *Set) IsEmpty() bool {
	for _, w := range s.words {
		if w != 0 {
			return false
		}
	}
	return true
}

// ToSlice returns items in ascending order.
func (s *Set) ToSlice() []int {
	result := make([]int, 0, s.Len())
	for i, w := range s.words {
		for w != 0 {
			bit := bits.TrailingZeros(w)
			result = append(result, i*wordBits+bit)
			w &^= 1 << uint(bit)
		}
	}
	return result
}
