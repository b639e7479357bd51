package csrc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/decker502/yanimator/pkg/anim"
	"github.com/decker502/yanimator/pkg/project"
)

// ErrBadIdentifier is returned when a cel or animation name cannot be written
// as a C identifier.
var ErrBadIdentifier = errors.New("not a C identifier")

var cKeywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "int": true, "long": true, "register": true, "return": true,
	"short": true, "signed": true, "sizeof": true, "static": true, "struct": true,
	"switch": true, "typedef": true, "union": true, "unsigned": true, "void": true,
	"volatile": true, "while": true,
}

func checkIdentifier(name string) error {
	if name == "" || !isIdentStart(name[0]) || cKeywords[name] {
		return fmt.Errorf("%q: %w", name, ErrBadIdentifier)
	}
	for i := 1; i < len(name); i++ {
		if !isIdentChar(name[i]) {
			return fmt.Errorf("%q: %w", name, ErrBadIdentifier)
		}
	}
	return nil
}

// WriteCel writes one cel block without a trailing blank line. Nothing is
// written when the name is not a C identifier.
func WriteCel(w io.Writer, c *anim.Cel) error {
	if err := checkIdentifier(c.Name); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %s[] = {\n", keywordCel, c.Name)
	if len(c.OAMs) == 0 {
		fmt.Fprintf(bw, "    /* Len */ 0\n")
	} else {
		fmt.Fprintf(bw, "    /* Len */ %d,\n", len(c.OAMs))
	}
	for i, o := range c.OAMs {
		w1, w2, w3 := o.Words()
		sep := ","
		if i == len(c.OAMs)-1 {
			sep = ""
		}
		fmt.Fprintf(bw, "    /* %03d */ 0x%04x, 0x%04x, 0x%04x%s\n", i, w1, w2, w3, sep)
	}
	fmt.Fprintf(bw, "};\n")
	return bw.Flush()
}

// WriteAnimation writes one animation block without a trailing blank line.
// The animation name and every referenced cel must be C identifiers.
func WriteAnimation(w io.Writer, a *anim.Animation) error {
	if err := checkIdentifier(a.Name); err != nil {
		return err
	}
	for _, f := range a.Frames {
		if err := checkIdentifier(f.Cel); err != nil {
			return err
		}
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s %s %s[] = {\n", keywordStruct, keywordAnimation, a.Name)
	for i, f := range a.Frames {
		sep := ","
		if i == len(a.Frames)-1 {
			sep = ""
		}
		fmt.Fprintf(bw, "    { %s, %d }%s\n", f.Cel, f.Duration, sep)
	}
	fmt.Fprintf(bw, "};\n")
	return bw.Flush()
}

// ExportCels writes cels sorted by name, separated by blank lines.
func ExportCels(w io.Writer, cels map[string]*anim.Cel) error {
	names := make([]string, 0, len(cels))
	for name := range cels {
		names = append(names, name)
	}
	sort.Strings(names)

	for i, name := range names {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := WriteCel(w, cels[name]); err != nil {
			return fmt.Errorf("csrc: cel %s: %w", name, err)
		}
	}
	return nil
}

// ExportAnimations writes animations in slice order, separated by blank lines.
func ExportAnimations(w io.Writer, anims []*anim.Animation) error {
	for i, a := range anims {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := WriteAnimation(w, a); err != nil {
			return fmt.Errorf("csrc: animation %s: %w", a.Name, err)
		}
	}
	return nil
}

// Export writes every cel followed by every animation, so that Import reads
// back the same project.
func Export(w io.Writer, p *project.Project) error {
	if err := ExportCels(w, p.Cels); err != nil {
		return err
	}
	if len(p.Cels) > 0 && len(p.Animations) > 0 {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return ExportAnimations(w, p.Animations)
}
