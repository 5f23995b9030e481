// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package partitions

// Entry is an element together with the value it was pushed with.
type Entry struct {
	Element any
	Value   float64
}

// TopFinder keeps the n best (element, value) pairs, sorted by value:
// descending by default, ascending in find-minimum mode. Insertion is a
// linear scan, which is only acceptable for small n (a few hundred).
type TopFinder struct {
	n       int
	findMin bool
	tops    []Entry
}

// NewTopFinder returns a TopFinder keeping the n largest values.
func NewTopFinder(n int) *TopFinder {
	return &TopFinder{n: n}
}

// NewMinFinder returns a TopFinder keeping the n smallest values.
func NewMinFinder(n int) *TopFinder {
	return &TopFinder{n: n, findMin: true}
}

// Push inserts the element in sort position and truncates to capacity.
// Elements that fall outside the top n are dropped.
func (t *TopFinder) Push(element any, value float64) {
	pos := 0
	for i, e := range t.tops {
		if !t.findMin && e.Value >= value {
			pos = i + 1
		} else if t.findMin && e.Value <= value {
			pos = i + 1
		}
	}
	t.tops = append(t.tops, Entry{})
	copy(t.tops[pos+1:], t.tops[pos:])
	t.tops[pos] = Entry{Element: element, Value: value}
	if len(t.tops) > t.n {
		t.tops = t.tops[:t.n]
	}
}

// Entries returns the retained pairs in sort order.
func (t *TopFinder) Entries() []Entry {
	return t.tops
}
