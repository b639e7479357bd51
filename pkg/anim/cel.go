// Package anim holds the editable animation model: cels made of OAM sprite
// placements, and animations that sequence cels over time.
package anim

import "github.com/decker502/yanimator/internal/oam"

// Cel is a named collection of OAM placements forming one visual frame.
//
// Z-order contract: OAMs[0] is the topmost object. Renderers draw
// back-to-front, from the last index down to index 0; DrawOrder yields the
// objects in that order so call sites never reverse the slice themselves.
type Cel struct {
	Name string
	OAMs []oam.OAM
}

// NewCel creates an empty cel.
func NewCel(name string) *Cel {
	return &Cel{Name: name}
}

// AddOAM appends o and returns its index.
func (c *Cel) AddOAM(o oam.OAM) int {
	c.OAMs = append(c.OAMs, o)
	return len(c.OAMs) - 1
}

// RemoveOAM deletes the object at index i. Out-of-range indices are ignored.
func (c *Cel) RemoveOAM(i int) bool {
	if i < 0 || i >= len(c.OAMs) {
		return false
	}
	c.OAMs = append(c.OAMs[:i], c.OAMs[i+1:]...)
	return true
}

// OAM returns a pointer to the object at index i for in-place edits.
func (c *Cel) OAM(i int) (*oam.OAM, bool) {
	if i < 0 || i >= len(c.OAMs) {
		return nil, false
	}
	return &c.OAMs[i], true
}

// DrawOrder returns the objects back-to-front: the last object first and
// OAMs[0] last, so painting in this order leaves OAMs[0] on top.
func (c *Cel) DrawOrder() []oam.OAM {
	ordered := make([]oam.OAM, len(c.OAMs))
	for i, o := range c.OAMs {
		ordered[len(c.OAMs)-1-i] = o
	}
	return ordered
}

// Select marks the object at index i as selected and clears the flag on every
// other object. A negative index clears all flags.
func (c *Cel) Select(i int) {
	for j := range c.OAMs {
		c.OAMs[j].Selected = j == i
	}
}

// Clone returns a deep copy of c under a new name. Selection flags are reset.
func (c *Cel) Clone(name string) *Cel {
	clone := &Cel{Name: name, OAMs: make([]oam.OAM, len(c.OAMs))}
	copy(clone.OAMs, c.OAMs)
	clone.Select(-1)
	return clone
}
