// SPDX-License-Identifier: MIT

package keyed

import "fmt"

// Index is an insertion-ordered bijection between string keys and positions.
// Positions are assigned on first insertion and never change.
type Index struct {
	keys []string
	pos  map[string]int
}

// NewIndex builds an Index from keys in order; repeated keys are rejected.
func NewIndex(keys ...string) (*Index, error) {
	x := &Index{keys: make([]string, 0, len(keys)), pos: make(map[string]int, len(keys))}
	for _, k := range keys {
		if _, dup := x.pos[k]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, k)
		}
		x.Add(k)
	}
	return x, nil
}

// Add returns the position of key, appending it when absent.
func (x *Index) Add(key string) int {
	if i, ok := x.pos[key]; ok {
		return i
	}
	i := len(x.keys)
	x.keys = append(x.keys, key)
	x.pos[key] = i
	return i
}

// Lookup returns the position of key.
func (x *Index) Lookup(key string) (int, bool) {
	i, ok := x.pos[key]
	return i, ok
}

// Contains reports whether key is indexed.
func (x *Index) Contains(key string) bool {
	_, ok := x.pos[key]
	return ok
}

// Key returns the key at position i, or "" when out of range.
func (x *Index) Key(i int) string {
	if i < 0 || i >= len(x.keys) {
		return ""
	}
	return x.keys[i]
}

// Len is the number of keys.
func (x *Index) Len() int { return len(x.keys) }

// Keys returns a copy of the keys in position order.
func (x *Index) Keys() []string {
	out := make([]string, len(x.keys))
	copy(out, x.keys)
	return out
}

// Equal reports whether both indices hold the same keys in the same order.
func (x *Index) Equal(y *Index) bool {
	if x.Len() != y.Len() {
		return false
	}
	for i, k := range x.keys {
		if y.keys[i] != k {
			return false
		}
	}
	return true
}

func (x *Index) clone() *Index {
	y := &Index{keys: x.Keys(), pos: make(map[string]int, len(x.keys))}
	for i, k := range y.keys {
		y.pos[k] = i
	}
	return y
}
