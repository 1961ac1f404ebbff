// Package dsu provides a disjoint-set (union-find) structure keyed by string ids.
//
// The structure partitions a fixed set of elements into disjoint sets and
// supports near-constant-time [Set.Union] and [Set.Find] through union by rank
// and path compression. There is no removal operation.
//
// A Set is a plain value container with no hidden global state, so it can be
// rebuilt from scratch whenever a caller needs a fresh partition. The Kruskal
// engine in package mst does exactly that on every step.
//
// # Usage
//
//	s := dsu.New([]string{"a", "b", "c"})
//	s.Union("a", "b")      // true
//	s.Union("b", "a")      // false, already joined
//	s.Connected("a", "c")  // false
package dsu

import "slices"

// Set is a disjoint-set forest over string ids.
//
// The zero value is not usable; construct one with [New].
// Set is not safe for concurrent use: Find mutates the forest.
type Set struct {
	parent map[string]string
	rank   map[string]int
	count  int
}

// New creates a Set where every id is its own singleton (parent[id] = id, rank[id] = 0).
// Duplicate ids are collapsed.
func New(ids []string) *Set {
	s := &Set{
		parent: make(map[string]string, len(ids)),
		rank:   make(map[string]int, len(ids)),
	}
	for _, id := range ids {
		s.add(id)
	}
	return s
}

func (s *Set) add(id string) {
	if _, ok := s.parent[id]; ok {
		return
	}
	s.parent[id] = id
	s.rank[id] = 0
	s.count++
}

// Find returns the representative of the set containing x, compressing the
// path so every visited element points directly at the root.
//
// Ids that were not passed to New are added as singletons on first use.
// Callers are expected to supply valid ids; this only keeps Find total.
func (s *Set) Find(x string) string {
	if _, ok := s.parent[x]; !ok {
		s.add(x)
		return x
	}

	root := x
	for s.parent[root] != root {
		root = s.parent[root]
	}
	for x != root {
		next := s.parent[x]
		s.parent[x] = root
		x = next
	}
	return root
}

// Union merges the sets containing x and y using union by rank: the root of
// the shallower tree is attached under the deeper one. On equal rank, y's root
// goes under x's root and x's root rank grows by one.
//
// Union returns false if x and y were already in the same set (no-op), true otherwise.
func (s *Set) Union(x, y string) bool {
	rx, ry := s.Find(x), s.Find(y)
	if rx == ry {
		return false
	}

	switch {
	case s.rank[rx] < s.rank[ry]:
		s.parent[rx] = ry
	case s.rank[rx] > s.rank[ry]:
		s.parent[ry] = rx
	default:
		s.parent[ry] = rx
		s.rank[rx]++
	}
	s.count--
	return true
}

// Connected reports whether x and y belong to the same set.
func (s *Set) Connected(x, y string) bool {
	return s.Find(x) == s.Find(y)
}

// Count returns the number of disjoint sets.
func (s *Set) Count() int {
	return s.count
}

// Len returns the number of elements tracked by the set.
func (s *Set) Len() int {
	return len(s.parent)
}

// Components returns the disjoint sets as sorted member lists, ordered by
// their smallest member. The output is deterministic for a given partition.
func (s *Set) Components() [][]string {
	groups := make(map[string][]string, s.count)
	for id := range s.parent {
		root := s.Find(id)
		groups[root] = append(groups[root], id)
	}

	out := make([][]string, 0, len(groups))
	for _, members := range groups {
		slices.Sort(members)
		out = append(out, members)
	}
	slices.SortFunc(out, func(a, b []string) int {
		switch {
		case a[0] < b[0]:
			return -1
		case a[0] > b[0]:
			return 1
		}
		return 0
	})
	return out
}
