package app

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/yanimator/pkg/editor"
)

// Key repeat timing, in ticks.
const (
	repeatDelay    = 24
	repeatInterval = 4
)

type bindMode int

const (
	anyMode bindMode = iota
	animationMode
	celMode
)

func (m bindMode) matches(mode editor.Mode) bool {
	switch m {
	case animationMode:
		return mode == editor.ModeAnimation
	case celMode:
		return mode == editor.ModeCel
	}
	return true
}

// binding maps a key press to an action. Shift is passed to the action
// rather than matched, so one binding covers both the plain and the coarse
// variant of an edit.
type binding struct {
	key    ebiten.Key
	ctrl   bool
	mode   bindMode
	repeat bool
	run    func(a *App, shift bool)
}

func step(shift bool) int {
	if shift {
		return 8
	}
	return 1
}

var bindings = []binding{
	{key: ebiten.KeyS, ctrl: true, run: func(a *App, _ bool) { a.save() }},
	{key: ebiten.KeyE, ctrl: true, run: func(a *App, _ bool) { a.exportC() }},
	{key: ebiten.KeyO, ctrl: true, run: func(a *App, _ bool) { a.reopenLast() }},
	{key: ebiten.KeyN, ctrl: true, run: func(a *App, shift bool) {
		if shift {
			a.openPrompt(promptAnimation)
		} else {
			a.openPrompt(promptCel)
		}
	}},
	{key: ebiten.KeyF11, run: func(a *App, _ bool) { a.toggleFullscreen() }},
	{key: ebiten.KeyTab, run: func(a *App, _ bool) { a.session.ToggleMode() }},
	{key: ebiten.KeySpace, run: func(a *App, _ bool) { a.session.TogglePlay() }},

	// animation mode
	{key: ebiten.KeyArrowLeft, mode: animationMode, repeat: true, run: func(a *App, _ bool) { a.session.StepBack() }},
	{key: ebiten.KeyArrowRight, mode: animationMode, repeat: true, run: func(a *App, _ bool) { a.session.StepForward() }},
	{key: ebiten.KeyArrowLeft, ctrl: true, mode: animationMode, repeat: true, run: func(a *App, shift bool) {
		a.session.MoveSelectedKeyframes(-step(shift))
	}},
	{key: ebiten.KeyArrowRight, ctrl: true, mode: animationMode, repeat: true, run: func(a *App, shift bool) {
		a.session.MoveSelectedKeyframes(step(shift))
	}},
	{key: ebiten.KeyArrowUp, mode: animationMode, run: func(a *App, _ bool) { a.session.CycleAnimation(-1) }},
	{key: ebiten.KeyArrowDown, mode: animationMode, run: func(a *App, _ bool) { a.session.CycleAnimation(1) }},
	{key: ebiten.KeyHome, mode: animationMode, run: func(a *App, _ bool) { a.session.Scrub(0) }},
	{key: ebiten.KeyDelete, mode: animationMode, run: func(a *App, _ bool) { a.session.DeleteSelectedKeyframes() }},
	{key: ebiten.KeyEscape, mode: animationMode, run: func(a *App, _ bool) { a.session.ClearSelection() }},
	{key: ebiten.KeyI, mode: animationMode, run: func(a *App, _ bool) { a.insertKeyframe() }},
	{key: ebiten.KeyEqual, mode: animationMode, repeat: true, run: func(a *App, shift bool) { a.resizeAnimation(step(shift)) }},
	{key: ebiten.KeyMinus, mode: animationMode, repeat: true, run: func(a *App, shift bool) { a.resizeAnimation(-step(shift)) }},

	// cel mode
	{key: ebiten.KeyBracketLeft, mode: celMode, repeat: true, run: func(a *App, _ bool) { a.session.CycleOAM(-1) }},
	{key: ebiten.KeyBracketRight, mode: celMode, repeat: true, run: func(a *App, _ bool) { a.session.CycleOAM(1) }},
	{key: ebiten.KeyArrowLeft, mode: celMode, repeat: true, run: func(a *App, shift bool) { a.session.MoveOAM(-step(shift), 0) }},
	{key: ebiten.KeyArrowRight, mode: celMode, repeat: true, run: func(a *App, shift bool) { a.session.MoveOAM(step(shift), 0) }},
	{key: ebiten.KeyArrowUp, mode: celMode, repeat: true, run: func(a *App, shift bool) { a.session.MoveOAM(0, -step(shift)) }},
	{key: ebiten.KeyArrowDown, mode: celMode, repeat: true, run: func(a *App, shift bool) { a.session.MoveOAM(0, step(shift)) }},
	{key: ebiten.KeyPageUp, mode: celMode, run: func(a *App, _ bool) { a.cycleEditingCel(-1) }},
	{key: ebiten.KeyPageDown, mode: celMode, run: func(a *App, _ bool) { a.cycleEditingCel(1) }},
	{key: ebiten.KeyS, mode: celMode, run: func(a *App, _ bool) { a.session.CycleShape() }},
	{key: ebiten.KeyZ, mode: celMode, run: func(a *App, _ bool) { a.session.CycleSize() }},
	{key: ebiten.KeyF, mode: celMode, run: func(a *App, _ bool) { a.session.CycleFlip() }},
	{key: ebiten.KeyPeriod, mode: celMode, repeat: true, run: func(a *App, shift bool) { a.session.ShiftTile(step(shift)) }},
	{key: ebiten.KeyComma, mode: celMode, repeat: true, run: func(a *App, shift bool) { a.session.ShiftTile(-step(shift)) }},
	{key: ebiten.KeyP, mode: celMode, run: func(a *App, shift bool) {
		if shift {
			a.session.ShiftPalette(-1)
		} else {
			a.session.ShiftPalette(1)
		}
	}},
	{key: ebiten.KeyN, mode: celMode, run: func(a *App, _ bool) { a.session.AddOAM() }},
	{key: ebiten.KeyDelete, mode: celMode, run: func(a *App, _ bool) { a.session.RemoveOAM() }},
	{key: ebiten.KeyD, ctrl: true, mode: celMode, run: func(a *App, _ bool) { a.openPrompt(promptDuplicate) }},
	{key: ebiten.KeyDelete, ctrl: true, mode: celMode, run: func(a *App, _ bool) { a.session.DeleteCel(a.session.EditingCel) }},
}

// lookup finds the binding for key under the current mode.
func (a *App) lookup(key ebiten.Key, ctrl bool) (binding, bool) {
	for _, b := range bindings {
		if b.key == key && b.ctrl == ctrl && b.mode.matches(a.session.Mode) {
			return b, true
		}
	}
	return binding{}, false
}

// dispatch runs the binding for key under the given modifiers. It reports
// whether a binding matched.
func (a *App) dispatch(key ebiten.Key, ctrl, shift bool) bool {
	b, ok := a.lookup(key, ctrl)
	if !ok {
		return false
	}
	b.run(a, shift)
	return true
}

func (a *App) insertKeyframe() {
	cel := a.session.EditingCel
	if _, ok := a.session.Project.Cel(cel); !ok {
		names := a.session.OrderedCelNames()
		if len(names) == 0 {
			a.setMessage("no cels to insert")
			return
		}
		cel = names[0]
	}
	if _, ok := a.session.InsertKeyframe(cel); !ok {
		a.setMessage("cannot insert %s here", cel)
	}
}

func (a *App) resizeAnimation(delta int) {
	an, ok := a.session.Animation()
	if !ok {
		return
	}
	a.session.SetAnimationDuration(an.Duration + delta)
}

// cycleEditingCel opens the cel delta places away in the picker order.
func (a *App) cycleEditingCel(delta int) {
	names := a.session.OrderedCelNames()
	if len(names) == 0 {
		return
	}
	i := slices.Index(names, a.session.EditingCel)
	if i < 0 {
		i = 0
	} else {
		i = ((i+delta)%len(names) + len(names)) % len(names)
	}
	a.session.EditCel(names[i])
}

func pressed(key ebiten.Key, repeat bool) bool {
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return repeat && d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}

func (a *App) handleKeyboard() {
	if a.prompt != nil {
		a.handlePrompt()
		return
	}
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)

	a.keys = inpututil.AppendPressedKeys(a.keys[:0])
	for _, k := range a.keys {
		b, ok := a.lookup(k, ctrl)
		if ok && pressed(k, b.repeat) {
			b.run(a, shift)
		}
	}
}

func (a *App) handleMouse() {
	l := a.layout()
	x, y := ebiten.CursorPosition()
	inTimeline := y >= l.timelineTop

	if _, dy := ebiten.Wheel(); dy != 0 && inTimeline {
		if ebiten.IsKeyPressed(ebiten.KeyControl) {
			a.session.AdjustZoom(dy)
		} else {
			a.session.Scroll(dy)
		}
	}

	if inTimeline && ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		a.session.Scrub(a.session.TickAt(float64(x)))
	}
	if ok, px, py := justClicked(); ok && py >= l.timelineTop {
		a.clickTimeline(px, py, ebiten.IsKeyPressed(ebiten.KeyShift))
	}
}

// justClicked reports a new touch or left click and where it happened.
// Touches win over the mouse.
func justClicked() (bool, int, int) {
	if ids := inpututil.AppendJustPressedTouchIDs(nil); len(ids) > 0 {
		x, y := ebiten.TouchPosition(ids[0])
		return true, x, y
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		return true, x, y
	}
	return false, 0, 0
}

// clickTimeline selects the keyframe under (x, y). A click on empty space
// clears the selection unless additive.
func (a *App) clickTimeline(x, y int, additive bool) {
	if id, ok := a.keyframeAt(x, y); ok {
		a.session.SelectKeyframe(id, additive)
		return
	}
	if !additive {
		a.session.ClearSelection()
	}
}

type promptKind int

const (
	promptCel promptKind = iota
	promptAnimation
	promptDuplicate
)

func (k promptKind) label() string {
	switch k {
	case promptAnimation:
		return "new animation"
	case promptDuplicate:
		return "duplicate cel as"
	}
	return "new cel"
}

// prompt collects a name for a create operation.
type prompt struct {
	kind promptKind
	text []rune
	err  string
}

func (a *App) openPrompt(kind promptKind) {
	a.prompt = &prompt{kind: kind}
	a.session.Creating = true
}

func (a *App) closePrompt() {
	a.prompt = nil
	a.session.Creating = false
}

func (a *App) handlePrompt() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		a.closePrompt()
		return
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		a.commitPrompt()
		return
	case pressed(ebiten.KeyBackspace, true):
		a.prompt.backspace()
	}
	a.prompt.text = ebiten.AppendInputChars(a.prompt.text)
}

func (p *prompt) backspace() {
	if len(p.text) > 0 {
		p.text = p.text[:len(p.text)-1]
	}
}

// commitPrompt runs the create operation. On a name error the prompt stays
// open with the error shown.
func (a *App) commitPrompt() {
	name := string(a.prompt.text)
	var err error
	switch a.prompt.kind {
	case promptCel:
		err = a.session.NewCel(name)
	case promptAnimation:
		err = a.session.NewAnimation(name)
	case promptDuplicate:
		err = a.duplicateCel(name)
	}
	if err != nil {
		a.prompt.err = err.Error()
		return
	}
	a.closePrompt()
}

func (a *App) duplicateCel(name string) error {
	if _, err := a.session.Project.DuplicateCel(a.session.EditingCel, name); err != nil {
		return err
	}
	a.session.EditCel(name)
	return nil
}
