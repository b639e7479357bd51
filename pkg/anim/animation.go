package anim

// AnimationFrame is one keyframe in duration form: the cel shown and for how
// many ticks.
//
// Cel is a name key into the project's cel collection. The lookup may fail if
// the cel was deleted; consumers must treat that as a normal state.
type AnimationFrame struct {
	Cel      string
	Duration uint8
	// ID is assigned once when the frame is created and never changes. It is
	// not an index.
	ID int
}

// PositionedFrame is a keyframe in position form: Position is the absolute
// start tick from the beginning of the animation.
type PositionedFrame struct {
	Cel      string
	Position int
	ID       int
}

// HeadFrameID is the id of the anchored first frame. It can be neither moved
// nor removed.
const HeadFrameID = 0

// MaxFrameDuration is the longest duration a single frame can hold.
const MaxFrameDuration = 255

// Animation is a timed sequence of cel references.
type Animation struct {
	Name string
	// Frames are kept sorted by implied position (prefix sum of durations).
	Frames []AnimationFrame
	// CurrentFrame is a transient playback cursor into Frames.
	CurrentFrame int
	// Duration is the declared length in ticks. It is authoritative: after
	// every edit the last frame's duration is recomputed so that the frame
	// durations sum to it.
	Duration int

	nextID int
}

// NewAnimation creates an animation from duration-form frames. The declared
// duration is the sum of the frame durations.
func NewAnimation(name string, frames []AnimationFrame) *Animation {
	a := &Animation{Name: name}
	a.SetFrames(frames)
	a.Duration = a.TotalFrames()
	return a
}

// SetFrames replaces the frame list and reseeds the id counter past the
// largest id in use.
func (a *Animation) SetFrames(frames []AnimationFrame) {
	a.Frames = frames
	a.nextID = 0
	for _, f := range frames {
		if f.ID >= a.nextID {
			a.nextID = f.ID + 1
		}
	}
	if a.CurrentFrame >= len(a.Frames) {
		a.CurrentFrame = 0
	}
}

// NextID returns the id the next inserted frame will receive.
func (a *Animation) NextID() int {
	return a.nextID
}

// IndexOf returns the index of the frame with the given id, or -1.
func (a *Animation) IndexOf(id int) int {
	for i, f := range a.Frames {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// Frame returns the frame with the given id.
func (a *Animation) Frame(id int) (AnimationFrame, bool) {
	i := a.IndexOf(id)
	if i < 0 {
		return AnimationFrame{}, false
	}
	return a.Frames[i], true
}

// Current returns the frame under the playback cursor.
func (a *Animation) Current() (AnimationFrame, bool) {
	if a.CurrentFrame < 0 || a.CurrentFrame >= len(a.Frames) {
		return AnimationFrame{}, false
	}
	return a.Frames[a.CurrentFrame], true
}

// UsedCels returns the distinct cel names referenced by the frames, in order
// of first appearance.
func (a *Animation) UsedCels() []string {
	seen := make(map[string]bool, len(a.Frames))
	used := make([]string, 0, len(a.Frames))
	for _, f := range a.Frames {
		if seen[f.Cel] {
			continue
		}
		seen[f.Cel] = true
		used = append(used, f.Cel)
	}
	return used
}

// RenameCel rewrites every frame referencing oldName. It returns the number of
// frames changed.
func (a *Animation) RenameCel(oldName, newName string) int {
	n := 0
	for i := range a.Frames {
		if a.Frames[i].Cel == oldName {
			a.Frames[i].Cel = newName
			n++
		}
	}
	return n
}
