package eventmodels

import (
	"sort"
	"time"
)

// TimeSorted is implemented by values that can live in a TimeSortedSet.
type TimeSorted interface {
	GetTimestamp() time.Time
	Identity() string
}

// TimeSortedSet is an ordered container keyed by each element's timestamp.
// Elements with equal timestamps keep their insertion order, and an element
// whose identity collides with one already present is rejected.
type TimeSortedSet[T TimeSorted] struct {
	items      []T
	identities map[string]struct{}
}

// NewTimeSortedSet builds a set from an unordered collection. Later
// duplicates of the same identity are dropped.
func NewTimeSortedSet[T TimeSorted](items ...T) *TimeSortedSet[T] {
	set := &TimeSortedSet[T]{
		identities: make(map[string]struct{}),
	}

	for _, item := range items {
		set.Add(item)
	}

	return set
}

// Add inserts the item in chronological order. It returns false if an item
// with the same identity is already present.
func (s *TimeSortedSet[T]) Add(item T) bool {
	if s.identities == nil {
		s.identities = make(map[string]struct{})
	}

	key := item.Identity()
	if _, found := s.identities[key]; found {
		return false
	}

	s.identities[key] = struct{}{}
	s.items = append(s.items, item)

	sort.SliceStable(s.items, func(i, j int) bool {
		return s.items[i].GetTimestamp().Before(s.items[j].GetTimestamp())
	})

	return true
}

// Merge adds every item of other, preserving chronological order and
// skipping identity collisions. It returns the number of items added.
func (s *TimeSortedSet[T]) Merge(other *TimeSortedSet[T]) int {
	if other == nil {
		return 0
	}

	added := 0
	for _, item := range other.items {
		if s.Add(item) {
			added++
		}
	}

	return added
}

func (s *TimeSortedSet[T]) Contains(item T) bool {
	_, found := s.identities[item.Identity()]
	return found
}

// Items returns the elements in ascending timestamp order. The slice is
// shared with the set and must not be modified.
func (s *TimeSortedSet[T]) Items() []T {
	return s.items
}

func (s *TimeSortedSet[T]) Len() int {
	if s == nil {
		return 0
	}

	return len(s.items)
}
