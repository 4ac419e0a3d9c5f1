// Package bmap implements basic map with []byte key type.
package bmap

import (
	"unsafe"
)

// BMap implements generic hashmap with []byte key type.
// Keys cannot be deleted.
// Added keys are copied into internal byte slice, so the caller may reuse its buffer.
// Zero value is an empty map ready to use.
type BMap[T any] struct {
	keys []byte
	smap map[string]T
}

// New creates bytes map. size is a hint for the number of stored keys.
func New[T any](size int) *BMap[T] {
	return &BMap[T]{
		smap: make(map[string]T, size),
	}
}

func view(key []byte) string {
	if len(key) == 0 {
		return ""
	}
	return unsafe.String(&key[0], len(key))
}

// Len returns the number of stored keys.
func (m *BMap[T]) Len() int {
	return len(m.smap)
}

// Get returns stored value by key and a flag telling whether this key is stored in the map.
// Returns zero value if the key is not present.
func (m *BMap[T]) Get(key []byte) (T, bool) {
	result, has := m.smap[view(key)]
	return result, has
}

// GetString is the same as Get for a string key.
func (m *BMap[T]) GetString(key string) (T, bool) {
	result, has := m.smap[key]
	return result, has
}

// Set adds or rewrites value for given key and returns the stored copy of the key.
func (m *BMap[T]) Set(key []byte, value T) string {
	if m.smap == nil {
		m.smap = make(map[string]T)
	}

	skey := view(key)
	if _, has := m.smap[skey]; !has && len(key) != 0 {
		ofs := len(m.keys)
		m.keys = append(m.keys, key...)
		skey = view(m.keys[ofs : ofs+len(key)])
	}
	m.smap[skey] = value
	return skey
}

// SetString is the same as Set for a string key.
func (m *BMap[T]) SetString(key string, value T) string {
	if m.smap == nil {
		m.smap = make(map[string]T)
	}
	m.smap[key] = value
	return key
}
