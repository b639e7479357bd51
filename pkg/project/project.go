// Package project holds the persisted editor document: every cel, keyed by
// name, and the ordered list of animations.
//
// A Project contains no UI state. Selection, playback and view settings live
// in editor.Session, which refers to a Project without embedding it.
package project

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/decker502/yanimator/pkg/anim"
)

var (
	// ErrNameEmpty is returned when a cel or animation name is blank.
	ErrNameEmpty = errors.New("name is empty")
	// ErrNameTaken is returned when a name is already used by the same kind.
	ErrNameTaken = errors.New("name already in use")
	// ErrNotFound is returned when a rename or duplicate source is missing.
	ErrNotFound = errors.New("not found")
)

// Project is the editable document.
type Project struct {
	Cels       map[string]*anim.Cel
	Animations []*anim.Animation
}

// New creates an empty project.
func New() *Project {
	return &Project{
		Cels:       make(map[string]*anim.Cel),
		Animations: []*anim.Animation{},
	}
}

// Cel looks up a cel by name. A missing cel is a normal state: frames refer to
// cels by name and may outlive them.
func (p *Project) Cel(name string) (*anim.Cel, bool) {
	c, ok := p.Cels[name]
	return c, ok
}

// CelNames returns all cel names in lexical order.
func (p *Project) CelNames() []string {
	names := make([]string, 0, len(p.Cels))
	for name := range p.Cels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Animation returns the animation at index i.
func (p *Project) Animation(i int) (*anim.Animation, bool) {
	if i < 0 || i >= len(p.Animations) {
		return nil, false
	}
	return p.Animations[i], true
}

// AnimationIndex returns the index of the named animation, or -1.
func (p *Project) AnimationIndex(name string) int {
	for i, a := range p.Animations {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// ValidateCelName reports whether name can be used for a new cel.
func (p *Project) ValidateCelName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameEmpty
	}
	if _, ok := p.Cels[name]; ok {
		return fmt.Errorf("cel %q: %w", name, ErrNameTaken)
	}
	return nil
}

// ValidateAnimationName reports whether name can be used for a new animation.
func (p *Project) ValidateAnimationName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameEmpty
	}
	if p.AnimationIndex(name) >= 0 {
		return fmt.Errorf("animation %q: %w", name, ErrNameTaken)
	}
	return nil
}

// AddCel creates an empty cel after validating its name.
func (p *Project) AddCel(name string) (*anim.Cel, error) {
	if err := p.ValidateCelName(name); err != nil {
		return nil, err
	}
	c := anim.NewCel(name)
	p.Cels[name] = c
	return c, nil
}

// PutCel inserts or replaces a cel under its own name.
func (p *Project) PutCel(c *anim.Cel) {
	p.Cels[c.Name] = c
}

// DuplicateCel copies an existing cel under a new name.
func (p *Project) DuplicateCel(src, dst string) (*anim.Cel, error) {
	c, ok := p.Cels[src]
	if !ok {
		return nil, fmt.Errorf("cel %q: %w", src, ErrNotFound)
	}
	if err := p.ValidateCelName(dst); err != nil {
		return nil, err
	}
	clone := c.Clone(dst)
	p.Cels[dst] = clone
	return clone, nil
}

// RenameCel renames a cel and rewrites every frame that referenced it.
func (p *Project) RenameCel(oldName, newName string) error {
	c, ok := p.Cels[oldName]
	if !ok {
		return fmt.Errorf("cel %q: %w", oldName, ErrNotFound)
	}
	if err := p.ValidateCelName(newName); err != nil {
		return err
	}
	delete(p.Cels, oldName)
	c.Name = newName
	p.Cels[newName] = c

	for _, a := range p.Animations {
		a.RenameCel(oldName, newName)
	}
	return nil
}

// RemoveCel deletes a cel and every frame referencing it. It returns the
// number of frames removed; removing a missing cel is a no-op.
func (p *Project) RemoveCel(name string) int {
	if _, ok := p.Cels[name]; !ok {
		return 0
	}
	delete(p.Cels, name)

	removed := 0
	for _, a := range p.Animations {
		removed += a.RemoveCelFrames(name)
		a.Duration = a.TotalFrames()
	}
	if removed > 0 {
		log.Printf("[Project] Removed cel %q and %d referencing frames", name, removed)
	}
	return removed
}

// AddAnimation appends an animation. When firstCel is not empty the
// animation starts with one frame showing it for duration ticks.
func (p *Project) AddAnimation(name, firstCel string, duration uint8) (*anim.Animation, error) {
	if err := p.ValidateAnimationName(name); err != nil {
		return nil, err
	}
	var frames []anim.AnimationFrame
	if firstCel != "" {
		frames = []anim.AnimationFrame{{Cel: firstCel, Duration: duration, ID: anim.HeadFrameID}}
	}
	a := anim.NewAnimation(name, frames)
	p.Animations = append(p.Animations, a)
	return a, nil
}

// RemoveAnimation deletes the animation at index i. Out-of-range is a no-op.
func (p *Project) RemoveAnimation(i int) bool {
	if i < 0 || i >= len(p.Animations) {
		return false
	}
	p.Animations = append(p.Animations[:i], p.Animations[i+1:]...)
	return true
}

// RenameAnimation renames the animation at index i.
func (p *Project) RenameAnimation(i int, name string) error {
	a, ok := p.Animation(i)
	if !ok {
		return fmt.Errorf("animation #%d: %w", i, ErrNotFound)
	}
	if a.Name == name {
		return nil
	}
	if err := p.ValidateAnimationName(name); err != nil {
		return err
	}
	a.Name = name
	return nil
}

// MissingCels lists, per animation, the referenced cel names that are not in
// the project.
func (p *Project) MissingCels() map[string][]string {
	missing := make(map[string][]string)
	for _, a := range p.Animations {
		for _, name := range a.UsedCels() {
			if _, ok := p.Cels[name]; !ok {
				missing[a.Name] = append(missing[a.Name], name)
			}
		}
	}
	return missing
}

// Merge copies the cels and animations of other into p. Cels replace
// existing ones with the same name; animations with a taken name are skipped
// and reported.
func (p *Project) Merge(other *Project) []string {
	for name, c := range other.Cels {
		p.Cels[name] = c
	}
	var skipped []string
	for _, a := range other.Animations {
		if p.AnimationIndex(a.Name) >= 0 {
			skipped = append(skipped, a.Name)
			continue
		}
		p.Animations = append(p.Animations, a)
	}
	return skipped
}

// OrderedCelNames returns the cel names for a picker: cels used by a (in order
// of first use) first, then all remaining cels by name. Used names that no
// longer exist are left out.
func (p *Project) OrderedCelNames(a *anim.Animation) []string {
	names := make([]string, 0, len(p.Cels))
	seen := make(map[string]bool, len(p.Cels))
	if a != nil {
		for _, name := range a.UsedCels() {
			if _, ok := p.Cels[name]; ok {
				names = append(names, name)
				seen[name] = true
			}
		}
	}
	for _, name := range p.CelNames() {
		if !seen[name] {
			names = append(names, name)
		}
	}
	return names
}
