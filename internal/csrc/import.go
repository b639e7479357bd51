package csrc

import (
	"errors"
	"fmt"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/decker502/yanimator/pkg/anim"
	"github.com/decker502/yanimator/pkg/project"
)

// LenMismatchError reports a cel whose Len field disagrees with the number of
// OAM triples that follow it. The cel is still imported with every triple.
type LenMismatchError struct {
	Line     int
	Cel      string
	Declared int
	Found    int
}

func (e *LenMismatchError) Error() string {
	return fmt.Sprintf("line %d: %s: Len is %d but %d OAMs follow", e.Line, e.Cel, e.Declared, e.Found)
}

// parsed is the result slot for one located block.
type parsed struct {
	cel  *anim.Cel
	anim *anim.Animation
	err  error // ParseError, LenMismatchError or nil
}

// parseBlocks tokenizes src once and parses every block of the wanted kinds
// concurrently. Results come back in source order.
func parseBlocks(src string, wantCels, wantAnims bool) []parsed {
	var blocks []block
	for _, b := range locateBlocks(tokenize(src)) {
		if b.kind == blockCel && wantCels || b.kind == blockAnimation && wantAnims {
			blocks = append(blocks, b)
		}
	}

	results := make([]parsed, len(blocks))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, b := range blocks {
		g.Go(func() error {
			results[i] = parseBlock(src, b)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func parseBlock(src string, b block) parsed {
	switch b.kind {
	case blockCel:
		r, err := parseCel(src, b.toks)
		if err != nil {
			return parsed{err: err}
		}
		var mismatch error
		if r.declared != len(r.cel.OAMs) {
			mismatch = &LenMismatchError{Line: r.line, Cel: r.cel.Name, Declared: r.declared, Found: len(r.cel.OAMs)}
		}
		return parsed{cel: r.cel, err: mismatch}
	default:
		a, err := parseAnimation(src, b.toks)
		return parsed{anim: a, err: err}
	}
}

// collect keeps the first failure of each block and drops declarations.
func collect(results []parsed) (cels []*anim.Cel, anims []*anim.Animation, errs []error) {
	for _, r := range results {
		if errors.Is(r.err, errNotDefinition) {
			continue
		}
		if r.err != nil {
			var lm *LenMismatchError
			if errors.As(r.err, &lm) {
				log.Printf("[csrc] Warning: %v", lm)
			} else {
				log.Printf("[csrc] Dropped block: %v", r.err)
			}
			errs = append(errs, r.err)
		}
		if r.cel != nil {
			cels = append(cels, r.cel)
		}
		if r.anim != nil {
			anims = append(anims, r.anim)
		}
	}
	return cels, anims, errs
}

func celMap(cels []*anim.Cel) map[string]*anim.Cel {
	m := make(map[string]*anim.Cel, len(cels))
	for _, c := range cels {
		if _, dup := m[c.Name]; dup {
			log.Printf("[csrc] Cel %s defined twice, keeping the later one", c.Name)
		}
		m[c.Name] = c
	}
	return m
}

// ImportCels parses every cel block in src. Malformed blocks are dropped and
// reported; the rest are returned keyed by name. When a name repeats, the
// later definition wins.
func ImportCels(src string) (map[string]*anim.Cel, []error) {
	cels, _, errs := collect(parseBlocks(src, true, false))
	return celMap(cels), errs
}

// ImportAnimations parses every animation block in src, in source order.
func ImportAnimations(src string) ([]*anim.Animation, []error) {
	_, anims, errs := collect(parseBlocks(src, false, true))
	return anims, errs
}

// Import parses a file holding both cels and animations.
func Import(src string) (*project.Project, []error) {
	cels, anims, errs := collect(parseBlocks(src, true, true))
	p := project.New()
	p.Cels = celMap(cels)
	p.Animations = append(p.Animations, anims...)
	return p, errs
}
