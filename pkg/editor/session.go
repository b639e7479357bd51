// Package editor holds the non-persisted editing state: which animation and
// cel are open, the keyframe selection, playback and the timeline view. A
// Session refers to a project.Project and never copies it.
package editor

import (
	"log"
	"sort"

	"github.com/decker502/yanimator/internal/oam"
	"github.com/decker502/yanimator/pkg/anim"
	"github.com/decker502/yanimator/pkg/config"
	"github.com/decker502/yanimator/pkg/project"
)

// Mode selects what the viewport shows.
type Mode int

const (
	// ModeAnimation previews the current frame of the selected animation.
	ModeAnimation Mode = iota
	// ModeCel edits the OAMs of one cel.
	ModeCel
)

func (m Mode) String() string {
	if m == ModeCel {
		return "cel"
	}
	return "animation"
}

// NewAnimationDuration is the length of the first frame of a new animation.
const NewAnimationDuration = 10

// Session is the editor state around one project.
type Session struct {
	Project *project.Project

	Mode           Mode
	AnimationIndex int // -1 when the project has no animations
	EditingCel     string
	EditingOAM     int // -1 when no OAM is selected

	Player anim.Player

	Zoom         float64
	MaxZoom      float64
	ScrollOffset float64
	ScrollSpeed  float64

	// Creating is set while a name prompt is open; keyboard shortcuts are
	// suspended.
	Creating bool

	// TileCount and PaletteRows bound tile and palette edits to the loaded
	// graphics. Zero leaves only the hardware limits.
	TileCount   int
	PaletteRows int

	selected map[int]bool
	revision int
	dirty    bool
}

// NewSession opens p with the first animation selected.
func NewSession(p *project.Project) *Session {
	s := &Session{
		Project:        p,
		AnimationIndex: -1,
		EditingOAM:     -1,
		Zoom:           10,
		MaxZoom:        60,
		ScrollSpeed:    10,
		selected:       make(map[int]bool),
	}
	s.SelectAnimation(0)
	return s
}

// Revision changes whenever anything visible in a cel may have changed.
func (s *Session) Revision() int { return s.revision }

// Dirty reports unsaved changes.
func (s *Session) Dirty() bool { return s.dirty }

// MarkSaved clears the dirty flag.
func (s *Session) MarkSaved() { s.dirty = false }

func (s *Session) touch() {
	s.revision++
	s.dirty = true
}

// Animation returns the selected animation.
func (s *Session) Animation() (*anim.Animation, bool) {
	return s.Project.Animation(s.AnimationIndex)
}

// SelectAnimation opens animation i, rewinding playback and clearing the
// keyframe selection.
func (s *Session) SelectAnimation(i int) bool {
	a, ok := s.Project.Animation(i)
	if !ok {
		return false
	}
	s.AnimationIndex = i
	s.ClearSelection()
	s.Player.Reset(a)
	return true
}

// CycleAnimation selects the animation delta places away, wrapping around.
func (s *Session) CycleAnimation(delta int) bool {
	n := len(s.Project.Animations)
	if n == 0 {
		return false
	}
	i := ((s.AnimationIndex+delta)%n + n) % n
	return s.SelectAnimation(i)
}

// EditCel switches to cel mode on the named cel.
func (s *Session) EditCel(name string) bool {
	c, ok := s.Project.Cel(name)
	if !ok {
		return false
	}
	s.EditingCel = name
	s.Mode = ModeCel
	if len(c.OAMs) > 0 {
		s.SelectOAM(0)
	} else {
		s.EditingOAM = -1
	}
	s.revision++
	return true
}

// ToggleMode flips between animation and cel mode. Entering cel mode opens
// the last edited cel, or the cel under the playhead.
func (s *Session) ToggleMode() {
	if s.Mode == ModeCel {
		s.Mode = ModeAnimation
		s.revision++
		return
	}
	if _, ok := s.Project.Cel(s.EditingCel); ok {
		s.Mode = ModeCel
		s.revision++
		return
	}
	if a, ok := s.Animation(); ok {
		if f, ok := a.Current(); ok {
			s.EditCel(f.Cel)
		}
	}
}

// SelectOAM makes OAM i of the edited cel the target of property edits and
// moves the highlight to it.
func (s *Session) SelectOAM(i int) bool {
	c, ok := s.Project.Cel(s.EditingCel)
	if !ok || i < 0 || i >= len(c.OAMs) {
		return false
	}
	s.EditingOAM = i
	c.Select(i)
	s.revision++
	return true
}

// CycleOAM selects the OAM delta places away, wrapping around.
func (s *Session) CycleOAM(delta int) bool {
	c, ok := s.Project.Cel(s.EditingCel)
	if !ok || len(c.OAMs) == 0 {
		return false
	}
	n := len(c.OAMs)
	return s.SelectOAM(((s.EditingOAM+delta)%n + n) % n)
}

// EditingOAMRef returns the selected OAM for in-place edits.
func (s *Session) EditingOAMRef() (*oam.OAM, bool) {
	c, ok := s.Project.Cel(s.EditingCel)
	if !ok {
		return nil, false
	}
	return c.OAM(s.EditingOAM)
}

// AddOAM appends a default OAM to the edited cel and selects it.
func (s *Session) AddOAM() bool {
	c, ok := s.Project.Cel(s.EditingCel)
	if !ok {
		return false
	}
	i := c.AddOAM(oam.OAM{})
	s.touch()
	return s.SelectOAM(i)
}

// RemoveOAM deletes the selected OAM.
func (s *Session) RemoveOAM() bool {
	c, ok := s.Project.Cel(s.EditingCel)
	if !ok || !c.RemoveOAM(s.EditingOAM) {
		return false
	}
	s.touch()
	if s.EditingOAM >= len(c.OAMs) {
		s.EditingOAM = len(c.OAMs) - 1
	}
	c.Select(s.EditingOAM)
	return true
}

// EditOAM applies fn to the selected OAM, then clamps tile and palette to
// the loaded graphics.
func (s *Session) EditOAM(fn func(o *oam.OAM)) bool {
	o, ok := s.EditingOAMRef()
	if !ok {
		return false
	}
	fn(o)
	maxTile := maxTileIndex
	if s.TileCount > 0 {
		maxTile = min(s.TileCount-1, maxTileIndex)
	}
	rows := 16
	if s.PaletteRows > 0 && s.PaletteRows < rows {
		rows = s.PaletteRows
	}
	o.Tile = clampInt(o.Tile, 0, maxTile)
	o.Palette = clampInt(o.Palette, 0, rows-1)
	s.touch()
	return true
}

// maxTileIndex is the largest value the tile field of word 3 can hold.
const maxTileIndex = 0xFFF

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MoveOAM nudges the selected OAM, saturating at the signed 8-bit range.
func (s *Session) MoveOAM(dx, dy int) bool {
	return s.EditOAM(func(o *oam.OAM) {
		o.X = int8(clampInt(int(o.X)+dx, -128, 127))
		o.Y = int8(clampInt(int(o.Y)+dy, -128, 127))
	})
}

// CycleShape, CycleSize and CycleFlip step through the enum values.
func (s *Session) CycleShape() bool {
	return s.EditOAM(func(o *oam.OAM) { o.Shape = (o.Shape + 1) % (oam.ShapeVertical + 1) })
}

func (s *Session) CycleSize() bool {
	return s.EditOAM(func(o *oam.OAM) { o.Size = (o.Size + 1) % (oam.Size3 + 1) })
}

func (s *Session) CycleFlip() bool {
	return s.EditOAM(func(o *oam.OAM) { o.Flip = (o.Flip + 1) % (oam.FlipBoth + 1) })
}

// ShiftTile and ShiftPalette add delta to the selected OAM's tile or palette.
func (s *Session) ShiftTile(delta int) bool {
	return s.EditOAM(func(o *oam.OAM) { o.Tile += delta })
}

func (s *Session) ShiftPalette(delta int) bool {
	return s.EditOAM(func(o *oam.OAM) { o.Palette += delta })
}

// SelectKeyframe selects the frame with the given id in the current
// animation. Without additive the previous selection is dropped.
func (s *Session) SelectKeyframe(id int, additive bool) bool {
	a, ok := s.Animation()
	if !ok || a.IndexOf(id) < 0 {
		return false
	}
	if !additive {
		s.ClearSelection()
	}
	s.selected[id] = true
	return true
}

// ClearSelection deselects every keyframe.
func (s *Session) ClearSelection() {
	clear(s.selected)
}

// IsSelected reports whether the keyframe id is selected.
func (s *Session) IsSelected(id int) bool {
	return s.selected[id]
}

// SelectedKeyframes returns the selected ids in ascending order.
func (s *Session) SelectedKeyframes() []int {
	ids := make([]int, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// DeleteSelectedKeyframes removes the selected frames in one batch. The head
// frame cannot be removed and stays selected.
func (s *Session) DeleteSelectedKeyframes() int {
	a, ok := s.Animation()
	if !ok {
		return 0
	}
	removed := a.RemoveFrames(s.SelectedKeyframes())
	for id := range s.selected {
		if a.IndexOf(id) < 0 {
			delete(s.selected, id)
		}
	}
	if removed > 0 {
		s.Player.Scrub(a, s.Player.Elapsed)
		s.touch()
	}
	return removed
}

// MoveSelectedKeyframes shifts every selected frame by offset ticks.
func (s *Session) MoveSelectedKeyframes(offset int) int {
	a, ok := s.Animation()
	if !ok {
		return 0
	}
	moved := 0
	for _, id := range s.SelectedKeyframes() {
		if a.MoveFrame(id, offset) {
			moved++
		}
	}
	if moved > 0 {
		s.Player.Scrub(a, s.Player.Elapsed)
		s.touch()
	}
	return moved
}

// InsertKeyframe adds a frame showing cel at the playhead and selects it.
func (s *Session) InsertKeyframe(cel string) (int, bool) {
	a, ok := s.Animation()
	if !ok {
		return 0, false
	}
	if _, ok := s.Project.Cel(cel); !ok {
		return 0, false
	}
	id := a.InsertFrame(cel, s.Player.Elapsed)
	s.SelectKeyframe(id, false)
	s.Player.Scrub(a, s.Player.Elapsed)
	s.touch()
	return id, true
}

// TogglePlay starts or pauses playback.
func (s *Session) TogglePlay() {
	s.Player.Toggle()
}

// StepForward advances the playhead one tick.
func (s *Session) StepForward() {
	a, _ := s.Animation()
	s.Player.Step(a)
}

// StepBack moves the playhead back one tick.
func (s *Session) StepBack() {
	a, _ := s.Animation()
	s.Player.StepBack(a)
}

// Scrub jumps the playhead to tick k.
func (s *Session) Scrub(k int) {
	a, _ := s.Animation()
	s.Player.Scrub(a, k)
}

// Tick runs n playback ticks. Nothing happens while paused.
func (s *Session) Tick(n int) {
	a, ok := s.Animation()
	if !ok {
		return
	}
	for i := 0; i < n; i++ {
		s.Player.Update(a)
	}
}

// CurrentCel is the cel the viewport shows: the edited cel in cel mode, the
// cel under the playhead otherwise. A frame whose cel was deleted yields
// false.
func (s *Session) CurrentCel() (*anim.Cel, bool) {
	if s.Mode == ModeCel {
		return s.Project.Cel(s.EditingCel)
	}
	a, ok := s.Animation()
	if !ok {
		return nil, false
	}
	f, ok := a.Current()
	if !ok {
		return nil, false
	}
	return s.Project.Cel(f.Cel)
}

// AdjustZoom changes the timeline zoom, never below config.MinTimelineZoom.
func (s *Session) AdjustZoom(delta float64) {
	s.Zoom += delta
	if s.MaxZoom > 0 && s.Zoom > s.MaxZoom {
		s.Zoom = s.MaxZoom
	}
	if s.Zoom < config.MinTimelineZoom {
		s.Zoom = config.MinTimelineZoom
	}
}

// Scroll pans the timeline by delta wheel steps.
func (s *Session) Scroll(delta float64) {
	s.ScrollOffset += delta * s.ScrollSpeed
}

// TickAt converts a timeline x coordinate to a tick, the inverse of the
// keyframe layout x = tick*Zoom + ScrollOffset.
func (s *Session) TickAt(x float64) int {
	k := int((x - s.ScrollOffset) / s.Zoom)
	if k < 0 {
		return 0
	}
	return k
}

// NewCel creates an empty cel and opens it.
func (s *Session) NewCel(name string) error {
	if _, err := s.Project.AddCel(name); err != nil {
		return err
	}
	s.Creating = false
	s.touch()
	s.EditCel(name)
	return nil
}

// NewAnimation creates an animation starting with the edited cel, or the
// first cel by name, and selects it.
func (s *Session) NewAnimation(name string) error {
	first := s.EditingCel
	if _, ok := s.Project.Cel(first); !ok {
		first = ""
		if names := s.Project.CelNames(); len(names) > 0 {
			first = names[0]
		}
	}
	if _, err := s.Project.AddAnimation(name, first, NewAnimationDuration); err != nil {
		return err
	}
	s.Creating = false
	s.touch()
	s.SelectAnimation(len(s.Project.Animations) - 1)
	return nil
}

// DeleteCel removes a cel and every frame showing it.
func (s *Session) DeleteCel(name string) bool {
	if _, ok := s.Project.Cel(name); !ok {
		return false
	}
	removed := s.Project.RemoveCel(name)
	log.Printf("[Editor] Deleted cel %s (%d frames)", name, removed)

	if s.EditingCel == name {
		s.EditingCel = ""
		s.EditingOAM = -1
		s.Mode = ModeAnimation
	}
	if a, ok := s.Animation(); ok {
		for id := range s.selected {
			if a.IndexOf(id) < 0 {
				delete(s.selected, id)
			}
		}
		s.Player.Scrub(a, s.Player.Elapsed)
	}
	s.touch()
	return true
}

// SetAnimationDuration sets the declared length of the current animation,
// clamped to what its last frame can absorb.
func (s *Session) SetAnimationDuration(d int) bool {
	a, ok := s.Animation()
	if !ok {
		return false
	}
	a.SetDuration(d)
	s.Player.Scrub(a, s.Player.Elapsed)
	s.touch()
	return true
}

// OrderedCelNames lists cels for the picker: the current animation's cels
// first, then the rest by name.
func (s *Session) OrderedCelNames() []string {
	a, _ := s.Animation()
	return s.Project.OrderedCelNames(a)
}

// Replace swaps in another project, e.g. after opening a file.
func (s *Session) Replace(p *project.Project) {
	s.Project = p
	s.Mode = ModeAnimation
	s.EditingCel = ""
	s.EditingOAM = -1
	s.AnimationIndex = -1
	s.ClearSelection()
	s.Player = anim.Player{}
	s.SelectAnimation(0)
	s.revision++
	s.dirty = false
}
