package app

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/decker502/yanimator/internal/oam"
	"github.com/decker502/yanimator/pkg/anim"
	"github.com/decker502/yanimator/pkg/editor"
)

var (
	backgroundColor = color.RGBA{R: 0x30, G: 0x30, B: 0x38, A: 0xFF}
	timelineColor   = color.RGBA{R: 0x20, G: 0x20, B: 0x24, A: 0xFF}
	rulerColor      = color.RGBA{R: 0x60, G: 0x60, B: 0x68, A: 0xFF}
	keyframeColor   = color.RGBA{R: 0x70, G: 0x90, B: 0xC0, A: 0xFF}
	selectedColor   = color.RGBA{R: 0x90, G: 0xEE, B: 0x90, A: 0xFF}
	playheadColor   = color.RGBA{R: 0xE0, G: 0x40, B: 0x40, A: 0xFF}
	endColor        = color.RGBA{R: 0xE0, G: 0xC0, B: 0x40, A: 0xFF}
	outlineColor    = color.RGBA{R: 0xA0, G: 0xA0, B: 0xA0, A: 0xFF}
	originColor     = color.RGBA{R: 0x50, G: 0x50, B: 0x58, A: 0xFF}
	textColor       = color.RGBA{R: 0xE8, G: 0xE8, B: 0xE8, A: 0xFF}
)

var uiFace = text.NewGoXFace(basicfont.Face7x13)

const (
	lineHeight  = 15
	rulerHeight = 20
	rulerStep   = 10 // ticks between ruler marks
)

// viewLayout splits the screen into the preview area and the timeline strip.
type viewLayout struct {
	width, height int
	timelineTop   int
	keyframeTop   int
	keyframeSize  int
	originX       int // cel origin in the preview
	originY       int
	scale         int
}

func (a *App) layout() viewLayout {
	w, h := a.cfg.Window.Width, a.cfg.Window.Height
	size := a.cfg.Timeline.KeyframeSize
	top := h - rulerHeight - 2*size
	return viewLayout{
		width:        w,
		height:       h,
		timelineTop:  top,
		keyframeTop:  top + rulerHeight + size/2,
		keyframeSize: size,
		originX:      w / 2,
		originY:      top / 2,
		scale:        a.cfg.SheetScale(),
	}
}

// keyframeX is the left edge of a keyframe marker at tick.
func (a *App) keyframeX(tick int) float64 {
	return float64(tick)*a.session.Zoom + a.session.ScrollOffset
}

// keyframeAt returns the id of the keyframe marker under (x, y). Later
// frames are drawn on top and win.
func (a *App) keyframeAt(x, y int) (int, bool) {
	an, ok := a.session.Animation()
	if !ok {
		return 0, false
	}
	l := a.layout()
	if y < l.keyframeTop || y >= l.keyframeTop+l.keyframeSize {
		return 0, false
	}
	frames := anim.ToPositioned(an.Frames)
	for i := len(frames) - 1; i >= 0; i-- {
		left := a.keyframeX(frames[i].Position)
		if float64(x) >= left && float64(x) < left+float64(l.keyframeSize) {
			return frames[i].ID, true
		}
	}
	return 0, false
}

// celCache keeps one GPU image per cel for the current session revision.
type celCache struct {
	revision int
	images   map[string]cachedCel
}

type cachedCel struct {
	img    *ebiten.Image // nil for a cel with nothing to draw
	origin image.Point   // cel-space position of the top-left pixel
}

func newCelCache() *celCache {
	return &celCache{revision: -1, images: make(map[string]cachedCel)}
}

// get returns the image for name at revision, rendering it on a miss. A
// revision change drops every cached image.
func (c *celCache) get(name string, revision int, render func() *image.NRGBA) cachedCel {
	if revision != c.revision {
		c.clear()
		c.revision = revision
	}
	if cc, ok := c.images[name]; ok {
		return cc
	}

	var cc cachedCel
	if rgba := render(); !rgba.Bounds().Empty() {
		cc = cachedCel{img: ebiten.NewImageFromImage(rgba), origin: rgba.Bounds().Min}
	}
	c.images[name] = cc
	return cc
}

func (c *celCache) clear() {
	for _, cc := range c.images {
		if cc.img != nil {
			cc.img.Deallocate()
		}
	}
	clear(c.images)
	c.revision = -1
}

func (a *App) hasGraphics() bool {
	return a.renderer.Sheet.Len() > 0 && len(a.renderer.Palette) > 0
}

func (a *App) drawPreview(screen *ebiten.Image, l viewLayout) {
	ox, oy := float32(l.originX), float32(l.originY)
	vector.StrokeLine(screen, ox-8, oy, ox+8, oy, 1, originColor, false)
	vector.StrokeLine(screen, ox, oy-8, ox, oy+8, 1, originColor, false)

	c, ok := a.session.CurrentCel()
	if !ok {
		return
	}
	celMode := a.session.Mode == editor.ModeCel

	if a.hasGraphics() {
		a.renderer.Highlight = celMode
		cc := a.cache.get(c.Name, a.session.Revision(), func() *image.NRGBA { return a.renderer.Render(c) })
		if cc.img != nil {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(cc.origin.X), float64(cc.origin.Y))
			op.GeoM.Scale(float64(l.scale), float64(l.scale))
			op.GeoM.Translate(float64(l.originX), float64(l.originY))
			screen.DrawImage(cc.img, op)
		}
	}

	if celMode || !a.hasGraphics() {
		for i, o := range c.DrawOrder() {
			clr := outlineColor
			if celMode && len(c.OAMs)-1-i == a.session.EditingOAM {
				clr = selectedColor
			}
			strokeOAM(screen, o, l, clr)
		}
	}
}

func strokeOAM(screen *ebiten.Image, o oam.OAM, l viewLayout, clr color.Color) {
	r := o.PixelBounds(oam.TileSize)
	s := float32(l.scale)
	vector.StrokeRect(screen,
		float32(l.originX)+float32(r.Min.X)*s,
		float32(l.originY)+float32(r.Min.Y)*s,
		float32(r.Dx())*s, float32(r.Dy())*s,
		1, clr, false)
}

func (a *App) drawTimeline(screen *ebiten.Image, l viewLayout) {
	top := float32(l.timelineTop)
	width := float32(l.width)
	vector.DrawFilledRect(screen, 0, top, width, float32(l.height-l.timelineTop), timelineColor, false)

	an, ok := a.session.Animation()
	if !ok {
		return
	}

	first := a.session.TickAt(0)
	first -= first % rulerStep
	for t := first; a.keyframeX(t) < float64(l.width); t += rulerStep {
		x := float32(a.keyframeX(t))
		vector.StrokeLine(screen, x, top, x, top+rulerHeight/2, 1, rulerColor, false)
		if t%(rulerStep*5) == 0 {
			drawText(screen, fmt.Sprint(t), float64(x)+2, float64(l.timelineTop)+rulerHeight/2)
		}
	}

	end := float32(a.keyframeX(an.Duration))
	vector.StrokeLine(screen, end, top, end, float32(l.height), 2, endColor, false)

	size := float32(l.keyframeSize)
	for _, f := range anim.ToPositioned(an.Frames) {
		clr := keyframeColor
		if a.session.IsSelected(f.ID) {
			clr = selectedColor
		}
		x := float32(a.keyframeX(f.Position))
		vector.DrawFilledRect(screen, x, float32(l.keyframeTop), size, size, clr, false)
		vector.StrokeRect(screen, x, float32(l.keyframeTop), size, size, 1, timelineColor, false)
	}

	head := float32(a.keyframeX(a.session.Player.Elapsed))
	vector.StrokeLine(screen, head, top, head, float32(l.height), 1, playheadColor, false)
}

func (a *App) drawStatus(screen *ebiten.Image) {
	drawText(screen, strings.Join(a.statusLines(), "\n"), 8, 4)
}

func drawText(dst *ebiten.Image, s string, x, y float64) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.LineSpacing = lineHeight
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(dst, s, uiFace, op)
}

// statusLines describes the session for the status block.
func (a *App) statusLines() []string {
	s := a.session
	title := a.savePath
	if s.Dirty() {
		title += " *"
	}
	lines := []string{title, "mode: " + s.Mode.String()}

	if an, ok := s.Animation(); ok {
		state := "paused"
		if s.Player.Playing {
			state = "playing"
		}
		lines = append(lines,
			fmt.Sprintf("animation %d/%d: %s", s.AnimationIndex+1, len(s.Project.Animations), an.Name),
			fmt.Sprintf("tick %d/%d  frame %d/%d  %s", s.Player.Elapsed, an.Duration, an.CurrentFrame+1, len(an.Frames), state),
		)
		if sel := s.SelectedKeyframes(); len(sel) > 0 {
			lines = append(lines, fmt.Sprintf("selected keyframes: %v", sel))
		}
	} else {
		lines = append(lines, "no animations (ctrl+shift+N creates one)")
	}

	if s.Mode == editor.ModeCel {
		lines = append(lines, "cel: "+s.EditingCel)
		if o, ok := s.EditingOAMRef(); ok {
			c, _ := s.Project.Cel(s.EditingCel)
			w, h := o.Dimensions()
			lines = append(lines,
				fmt.Sprintf("oam %d/%d  x %d  y %d  %dx%d  flip %s", s.EditingOAM+1, len(c.OAMs), o.X, o.Y, w, h, o.Flip),
				fmt.Sprintf("tile %d  palette %d", o.Tile, o.Palette),
			)
		} else {
			lines = append(lines, "no oam selected (N adds one)")
		}
	}

	if !a.hasGraphics() {
		lines = append(lines, "no sheet/palette loaded, drawing outlines")
	}
	if a.prompt != nil {
		line := a.prompt.kind.label() + ": " + string(a.prompt.text) + "_"
		if a.prompt.err != "" {
			line += "  (" + a.prompt.err + ")"
		}
		lines = append(lines, line)
	} else if a.message != "" {
		lines = append(lines, a.message)
	}
	return lines
}
