// Package pure memoizes pure functions in bounded lookup tables.
//
// Only use it for functions whose result depends on nothing but their
// arguments: parsing, arithmetic, formatting.
package pure

import "sync"

// Table is a bounded memo with two generations. Writes go to the head
// generation; when it fills up the generations rotate and the older one is
// dropped, so hot keys survive one rotation by being re-stored on lookup.
type Table[K comparable, V any] struct {
	mu      sync.Mutex
	gens    [2]map[K]V
	headIdx int
	maxSize int
}

func NewTable[K comparable, V any](maxSize int) *Table[K, V] {
	if maxSize <= 0 {
		panic("maxSize should be greater than 0")
	}
	return &Table[K, V]{
		gens:    [2]map[K]V{make(map[K]V, maxSize), make(map[K]V, maxSize)},
		maxSize: maxSize,
	}
}

func (t *Table[K, V]) Load(key K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if v, ok := t.gens[t.headIdx][key]; ok {
		return v, true
	}
	if v, ok := t.gens[1-t.headIdx][key]; ok {
		t.storeLocked(key, v)
		return v, true
	}
	var zero V
	return zero, false
}

func (t *Table[K, V]) Store(key K, value V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.storeLocked(key, value)
}

func (t *Table[K, V]) storeLocked(key K, value V) {
	if len(t.gens[t.headIdx]) >= t.maxSize {
		t.headIdx = 1 - t.headIdx
		t.gens[t.headIdx] = make(map[K]V, t.maxSize)
	}
	t.gens[t.headIdx][key] = value
}

// Len is the number of keys currently retained.
func (t *Table[K, V]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(t.gens[t.headIdx])
	for k := range t.gens[1-t.headIdx] {
		if _, dup := t.gens[t.headIdx][k]; !dup {
			n++
		}
	}
	return n
}
