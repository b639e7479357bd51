package anim

import "sort"

// Editing works on two representations of the same frame list. The stored
// form is duration based; edits convert to positions, adjust, and convert
// back. Moving a frame or inserting at a tick then becomes plain arithmetic on
// Position.

// ToPositioned converts duration-form frames to position form. Each frame
// starts at the prefix sum of the durations before it.
func ToPositioned(frames []AnimationFrame) []PositionedFrame {
	positioned := make([]PositionedFrame, 0, len(frames))
	position := 0
	for _, f := range frames {
		positioned = append(positioned, PositionedFrame{
			Cel:      f.Cel,
			Position: position,
			ID:       f.ID,
		})
		position += int(f.Duration)
	}
	return positioned
}

// ToDuration converts position-form frames back to duration form. Frames are
// sorted by position (stable, so equal positions keep their order); each
// frame lasts until the next one starts and the last one until total.
// Durations are clamped to [0, MaxFrameDuration].
func ToDuration(positioned []PositionedFrame, total int) []AnimationFrame {
	if len(positioned) == 0 {
		return []AnimationFrame{}
	}

	sorted := make([]PositionedFrame, len(positioned))
	copy(sorted, positioned)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	frames := make([]AnimationFrame, 0, len(sorted))
	for i, f := range sorted {
		next := total
		if i < len(sorted)-1 {
			next = sorted[i+1].Position
		}
		frames = append(frames, AnimationFrame{
			Cel:      f.Cel,
			Duration: clampDuration(next - f.Position),
			ID:       f.ID,
		})
	}
	return frames
}

func clampDuration(d int) uint8 {
	if d < 0 {
		return 0
	}
	if d > MaxFrameDuration {
		return MaxFrameDuration
	}
	return uint8(d)
}

// TotalFrames is the play length in ticks: the sum of all frame durations.
func (a *Animation) TotalFrames() int {
	total := 0
	for _, f := range a.Frames {
		total += int(f.Duration)
	}
	return total
}

// FrameAt maps an elapsed tick count to the index of the frame shown at that
// tick. It returns 0 when elapsed exceeds TotalFrames or there are no frames.
func (a *Animation) FrameAt(elapsed int) int {
	if len(a.Frames) == 0 || elapsed < 0 || elapsed > a.TotalFrames() {
		return 0
	}

	index := 0
	counter := 0
	for tick := 0; tick < elapsed; tick++ {
		if counter == int(a.Frames[index].Duration) && index < len(a.Frames)-1 {
			counter = 0
			index++
		}
		counter++
	}
	return index
}

// MoveFrame shifts the frame with the given id by offset ticks and re-sorts
// the timeline. The head frame, a zero offset and unknown ids are no-ops.
// The new position is not clamped.
func (a *Animation) MoveFrame(id, offset int) bool {
	if id == HeadFrameID || offset == 0 {
		return false
	}

	positioned := ToPositioned(a.Frames)
	found := false
	for i := range positioned {
		if positioned[i].ID == id {
			positioned[i].Position += offset
			found = true
			break
		}
	}
	if !found {
		return false
	}

	a.Frames = ToDuration(positioned, a.Duration)
	return true
}

// InsertFrame adds a keyframe showing cel at the given absolute position and
// returns its id. Ids come from a per-animation counter, so they are never
// reused after removals.
func (a *Animation) InsertFrame(cel string, position int) int {
	id := a.nextID
	a.nextID++

	positioned := ToPositioned(a.Frames)
	positioned = append(positioned, PositionedFrame{Cel: cel, Position: position, ID: id})
	a.Frames = ToDuration(positioned, a.Duration)
	return id
}

// RemoveFrame deletes the frame with the given id and hands its duration to
// the preceding frame, so TotalFrames is unchanged. The head frame, unknown
// ids and frames whose duration the neighbour cannot absorb are no-ops.
func (a *Animation) RemoveFrame(id int) bool {
	if id == HeadFrameID {
		return false
	}
	i := a.IndexOf(id)
	if i < 0 || !a.canRemove(i) {
		return false
	}
	a.removeAt(i)
	return true
}

// RemoveFrames removes several frames. Indices are resolved up front and
// removed from the highest down so earlier removals never shift later ones.
// Frames that RemoveFrame would refuse are kept.
func (a *Animation) RemoveFrames(ids []int) int {
	indices := make([]int, 0, len(ids))
	for _, id := range ids {
		if id == HeadFrameID {
			continue
		}
		if i := a.IndexOf(id); i >= 0 {
			indices = append(indices, i)
		}
	}
	sort.Ints(indices)

	removed := 0
	for k := len(indices) - 1; k >= 0; k-- {
		if k < len(indices)-1 && indices[k] == indices[k+1] {
			continue
		}
		if !a.canRemove(indices[k]) {
			continue
		}
		a.removeAt(indices[k])
		removed++
	}
	return removed
}

// RemoveCelFrames removes every frame that references cel, the head frame
// included. It is the cascade applied when a cel is deleted, so it never
// refuses: ticks a neighbour cannot absorb are dropped and Duration is reset
// to the new TotalFrames.
func (a *Animation) RemoveCelFrames(cel string) int {
	removed := 0
	for i := len(a.Frames) - 1; i >= 0; i-- {
		if a.Frames[i].Cel == cel {
			a.removeAt(i)
			removed++
		}
	}
	if removed > 0 {
		a.Duration = a.TotalFrames()
	}
	return removed
}

// canRemove reports whether the frame that would absorb Frames[i] has room
// for its duration.
func (a *Animation) canRemove(i int) bool {
	if len(a.Frames) < 2 {
		return true
	}
	target := i - 1
	if target < 0 {
		target = 1
	}
	return int(a.Frames[target].Duration)+int(a.Frames[i].Duration) <= MaxFrameDuration
}

// removeAt deletes Frames[i]. Its duration goes to the previous frame, or to
// the new first frame when i is 0, clamped to MaxFrameDuration.
func (a *Animation) removeAt(i int) {
	d := int(a.Frames[i].Duration)
	a.Frames = append(a.Frames[:i], a.Frames[i+1:]...)

	if len(a.Frames) == 0 {
		a.CurrentFrame = 0
		return
	}
	target := i - 1
	if target < 0 {
		target = 0
	}
	a.Frames[target].Duration = clampDuration(int(a.Frames[target].Duration) + d)

	if a.CurrentFrame >= len(a.Frames) {
		a.CurrentFrame = len(a.Frames) - 1
	}
}

// MinimumDuration is the start position of the last frame: the smallest
// declared duration that still fits every frame.
func (a *Animation) MinimumDuration() int {
	if len(a.Frames) == 0 {
		return 0
	}
	positioned := ToPositioned(a.Frames)
	return positioned[len(positioned)-1].Position
}

// UpdateDuration reconciles the frame list with the declared Duration by
// recomputing the last frame's duration.
func (a *Animation) UpdateDuration() {
	if len(a.Frames) == 0 {
		return
	}
	last := &a.Frames[len(a.Frames)-1]
	last.Duration = clampDuration(a.Duration - a.MinimumDuration())
}

// SetDuration changes the declared duration, limited to the range the last
// frame can absorb, and reconciles the frames.
func (a *Animation) SetDuration(d int) {
	lo := a.MinimumDuration()
	hi := lo + MaxFrameDuration
	if d < lo {
		d = lo
	}
	if d > hi {
		d = hi
	}
	a.Duration = d
	a.UpdateDuration()
}
