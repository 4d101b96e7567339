// Package stitch aligns the vertices of the outer and inner boundaries so a
// displacement on one can be carried over to the other.
package stitch

import (
	"errors"
	"fmt"

	"sann/internal/mesh"
)

var (
	// ErrCountMismatch means the two lookup tables disagree on the number of
	// pairs. It indicates a bug, not bad input.
	ErrCountMismatch = errors.New("correspondence pair counts diverge")
	// ErrUncovered means some vertex has no correspondent.
	ErrUncovered = errors.New("vertex without correspondent")
)

// Correspondence maps outer ids to inner ids and back. Each vertex's list is
// kept in insertion order without duplicates.
type Correspondence struct {
	tables [2][][]int
}

// New returns an empty correspondence for boundaries of the given sizes.
func New(outerLen, innerLen int) *Correspondence {
	return &Correspondence{tables: [2][][]int{
		mesh.Outer: make([][]int, outerLen),
		mesh.Inner: make([][]int, innerLen),
	}}
}

// Put records that outer vertex o and inner vertex i correspond.
func (c *Correspondence) Put(o, i int) {
	c.tables[mesh.Outer][o] = appendUnique(c.tables[mesh.Outer][o], i)
	c.tables[mesh.Inner][i] = appendUnique(c.tables[mesh.Inner][i], o)
}

func appendUnique(ids []int, id int) []int {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

// Correspondents returns the ids on the opposite boundary paired with id on
// layer l. The slice must not be modified.
func (c *Correspondence) Correspondents(l mesh.Layer, id int) []int {
	t := c.tables[l]
	if id < 0 || id >= len(t) {
		return nil
	}
	return t[id]
}

// Size returns the number of vertices the table for l was built for.
func (c *Correspondence) Size(l mesh.Layer) int {
	return len(c.tables[l])
}

// Count returns the number of (outer, inner) pairs after checking that both
// tables agree on it.
func (c *Correspondence) Count() (int, error) {
	outer := countPairs(c.tables[mesh.Outer])
	inner := countPairs(c.tables[mesh.Inner])
	if outer != inner {
		return 0, fmt.Errorf("%w: %d from outer table, %d from inner table", ErrCountMismatch, outer, inner)
	}
	return outer, nil
}

func countPairs(t [][]int) int {
	n := 0
	for _, ids := range t {
		n += len(ids)
	}
	return n
}

// Covers reports the first vertex on either boundary with no correspondent.
func (c *Correspondence) Covers() error {
	for _, l := range mesh.Layers {
		for id, ids := range c.tables[l] {
			if len(ids) == 0 {
				return fmt.Errorf("%w: %s vertex %d", ErrUncovered, l, id)
			}
		}
	}
	return nil
}

// Validate checks coverage and the symmetric pair count.
func (c *Correspondence) Validate() error {
	if err := c.Covers(); err != nil {
		return err
	}
	_, err := c.Count()
	return err
}

// Pairs lists every (outer, inner) pair ordered by outer id.
func (c *Correspondence) Pairs() [][2]int {
	var out [][2]int
	for o, ids := range c.tables[mesh.Outer] {
		for _, i := range ids {
			out = append(out, [2]int{o, i})
		}
	}
	return out
}
