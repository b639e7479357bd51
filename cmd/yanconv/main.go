// yanconv converts Yanimator projects between the binary .yan format and C
// source, and prints their contents.
//
// Usage:
//
//	yanconv -in walk.c -out walk.yan
//	yanconv -in walk.yan -out walk.c
//	yanconv -in walk.yan -list
//	yanconv -in walk.yan -dump
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decker502/yanimator/internal/oam"
	"github.com/decker502/yanimator/pkg/anim"
	"github.com/decker502/yanimator/pkg/editor"
	"github.com/decker502/yanimator/pkg/project"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "yanconv: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("yanconv", flag.ContinueOnError)
	in := fs.String("in", "", "input project (.yan, .c, .h)")
	out := fs.String("out", "", "output project; the extension picks the format")
	merge := fs.String("merge", "", "C file merged into the input before writing")
	list := fs.Bool("list", false, "print a summary of cels and animations")
	dump := fs.Bool("dump", false, "print the whole project as YAML")
	verbose := fs.Bool("verbose", false, "enable logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *verbose {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
	}
	if *in == "" {
		fs.Usage()
		return errors.New("-in is required")
	}

	p, err := editor.OpenProject(*in)
	if err != nil {
		return err
	}
	if *merge != "" {
		errs, err := editor.ImportC(*merge, p)
		if err != nil {
			return err
		}
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "yanconv: %s: %v\n", *merge, e)
		}
	}

	if *list {
		printSummary(stdout, p)
	}
	if *dump {
		if err := dumpYAML(stdout, p); err != nil {
			return err
		}
	}
	if *out != "" {
		return write(*out, p)
	}
	return nil
}

func write(path string, p *project.Project) error {
	format, err := editor.FormatOf(path)
	if err != nil {
		return err
	}
	if format == editor.FormatC {
		return editor.ExportC(path, p)
	}
	return editor.SaveProject(path, p)
}

func printSummary(w io.Writer, p *project.Project) {
	fmt.Fprintf(w, "%d cels, %d animations\n", len(p.Cels), len(p.Animations))
	for _, name := range p.CelNames() {
		c := p.Cels[name]
		fmt.Fprintf(w, "  cel %-24s %2d oams\n", name, len(c.OAMs))
	}
	for _, a := range p.Animations {
		fmt.Fprintf(w, "  animation %-18s %2d frames %4d ticks\n", a.Name, len(a.Frames), a.Duration)
	}
	for name, cels := range p.MissingCels() {
		fmt.Fprintf(w, "  warning: %s uses missing cels %v\n", name, cels)
	}
}

type dumpOAM struct {
	Shape   string `yaml:"shape"`
	Size    int    `yaml:"size"`
	Flip    string `yaml:"flip"`
	X       int    `yaml:"x"`
	Y       int    `yaml:"y"`
	Tile    int    `yaml:"tile"`
	Palette int    `yaml:"palette"`
}

type dumpCel struct {
	Name string    `yaml:"name"`
	OAMs []dumpOAM `yaml:"oams"`
}

type dumpFrame struct {
	Cel      string `yaml:"cel"`
	Duration uint8  `yaml:"duration"`
}

type dumpAnimation struct {
	Name     string      `yaml:"name"`
	Duration int         `yaml:"duration"`
	Frames   []dumpFrame `yaml:"frames"`
}

type dumpProject struct {
	Cels       []dumpCel       `yaml:"cels"`
	Animations []dumpAnimation `yaml:"animations"`
}

func newDump(p *project.Project) dumpProject {
	var d dumpProject
	for _, name := range p.CelNames() {
		d.Cels = append(d.Cels, dumpCelOf(p.Cels[name]))
	}
	for _, a := range p.Animations {
		da := dumpAnimation{Name: a.Name, Duration: a.Duration}
		for _, f := range a.Frames {
			da.Frames = append(da.Frames, dumpFrame{Cel: f.Cel, Duration: f.Duration})
		}
		d.Animations = append(d.Animations, da)
	}
	return d
}

func dumpCelOf(c *anim.Cel) dumpCel {
	dc := dumpCel{Name: c.Name, OAMs: make([]dumpOAM, 0, len(c.OAMs))}
	for _, o := range c.OAMs {
		dc.OAMs = append(dc.OAMs, dumpOAMOf(o))
	}
	return dc
}

func dumpOAMOf(o oam.OAM) dumpOAM {
	return dumpOAM{
		Shape:   o.Shape.String(),
		Size:    int(o.Size),
		Flip:    o.Flip.String(),
		X:       int(o.X),
		Y:       int(o.Y),
		Tile:    o.Tile,
		Palette: o.Palette,
	}
}

func dumpYAML(w io.Writer, p *project.Project) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newDump(p)); err != nil {
		return fmt.Errorf("failed to dump project: %w", err)
	}
	return enc.Close()
}
