// yanrender draws cels or animation frames of a project to PNG.
//
// Usage:
//
//	yanrender -project walk.yan -sheet sprites.bin -pal sprites.pal -cel walk0 -out walk0.png
//	yanrender -project walk.yan -sheet sprites.bin -pal sprites.pal -anim walk -out strip.png
//	yanrender -project walk.yan -sheet sprites.bin -pal sprites.pal -anim walk -tick 7 -out t7.png
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"

	"github.com/decker502/yanimator/internal/gfx"
	"github.com/decker502/yanimator/pkg/anim"
	"github.com/decker502/yanimator/pkg/editor"
	"github.com/decker502/yanimator/pkg/project"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "yanrender: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	project, sheet, palette string
	cel, anim               string
	tick                    int
	scale                   int
	paletteRow              int
	out                     string
}

func run(args []string) error {
	var o options
	fs := flag.NewFlagSet("yanrender", flag.ContinueOnError)
	fs.StringVar(&o.project, "project", "", "project (.yan or .c)")
	fs.StringVar(&o.sheet, "sheet", "", "4bpp tile sheet")
	fs.StringVar(&o.palette, "pal", "", "RIFF palette")
	fs.StringVar(&o.cel, "cel", "", "cel to render")
	fs.StringVar(&o.anim, "anim", "", "animation to render as a strip of its keyframes")
	fs.IntVar(&o.tick, "tick", -1, "with -anim, render only the cel shown at this tick")
	fs.IntVar(&o.scale, "scale", 1, "integer upscale factor")
	fs.IntVar(&o.paletteRow, "palrow", 0, "palette row for objects whose row is missing; -1 skips them")
	fs.StringVar(&o.out, "out", "", "output PNG")
	verbose := fs.Bool("verbose", false, "enable logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *verbose {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}
	switch {
	case o.project == "" || o.sheet == "" || o.palette == "" || o.out == "":
		fs.Usage()
		return errors.New("-project, -sheet, -pal and -out are required")
	case (o.cel == "") == (o.anim == ""):
		return errors.New("exactly one of -cel and -anim is required")
	}

	img, err := render(o)
	if err != nil {
		return err
	}
	return writePNG(o.out, gfx.Scale(img, o.scale))
}

func render(o options) (*image.NRGBA, error) {
	p, err := editor.OpenProject(o.project)
	if err != nil {
		return nil, err
	}
	sheet, err := gfx.LoadSheet(o.sheet)
	if err != nil {
		return nil, err
	}
	pal, err := gfx.LoadPalette(o.palette)
	if err != nil {
		return nil, err
	}
	r := &gfx.Renderer{Sheet: sheet, Palette: pal, FallbackRow: o.paletteRow}

	if o.cel != "" {
		c, ok := p.Cel(o.cel)
		if !ok {
			return nil, fmt.Errorf("cel %q: %w", o.cel, project.ErrNotFound)
		}
		return originAtZero(r.Render(c)), nil
	}

	i := p.AnimationIndex(o.anim)
	a, ok := p.Animation(i)
	if !ok {
		return nil, fmt.Errorf("animation %q: %w", o.anim, project.ErrNotFound)
	}
	if len(a.Frames) == 0 {
		return nil, fmt.Errorf("animation %q has no frames", o.anim)
	}
	if o.tick >= 0 {
		f := a.Frames[a.FrameAt(o.tick)]
		c, ok := p.Cel(f.Cel)
		if !ok {
			return nil, fmt.Errorf("cel %q: %w", f.Cel, project.ErrNotFound)
		}
		return originAtZero(r.Render(c)), nil
	}
	return strip(r, p, a), nil
}

// strip lays the keyframes of a out left to right in equal cells that share
// one origin, so the sprite does not jump between cells. Frames whose cel is
// missing leave their cell empty.
func strip(r *gfx.Renderer, p *project.Project, a *anim.Animation) *image.NRGBA {
	var union image.Rectangle
	cels := make([]*anim.Cel, len(a.Frames))
	for i, f := range a.Frames {
		if c, ok := p.Cel(f.Cel); ok {
			cels[i] = c
			union = union.Union(gfx.Bounds(c))
		}
	}

	w, h := union.Dx(), union.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w*len(cels), h))
	for i, c := range cels {
		if c == nil {
			continue
		}
		gfx.Compose(out, r.Render(c), i*w-union.Min.X, -union.Min.Y)
	}
	return out
}

// originAtZero moves img so its bounds start at (0, 0).
func originAtZero(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	gfx.Compose(out, img, -b.Min.X, -b.Min.Y)
	return out
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
