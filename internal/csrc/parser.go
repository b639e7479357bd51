package csrc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/decker502/yanimator/internal/oam"
	"github.com/decker502/yanimator/pkg/anim"
)

const (
	keywordCel       = "AnimationCel"
	keywordStruct    = "struct"
	keywordAnimation = "Animation"
)

type blockKind int

const (
	blockCel blockKind = iota
	blockAnimation
)

// block is the token span of one cel or animation definition, from its
// keyword up to and including the terminating ';'.
type block struct {
	kind blockKind
	toks []token
}

// ErrSyntax is wrapped by every ParseError.
var ErrSyntax = errors.New("syntax error")

// errNotDefinition marks uses of the type names that are not array
// definitions: extern declarations, pointer tables, the struct definition
// itself. They carry no data and are skipped without an error.
var errNotDefinition = errors.New("not a definition")

// ParseError reports a dropped block.
type ParseError struct {
	Line  int
	Block string // cel or animation name when known
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Block != "" {
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Block, e.Msg)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrSyntax }

// locateBlocks finds every cel and animation definition in toks. A block ends
// at the first ';' outside braces, or at a closing brace not followed by ';'.
// A block with no terminator runs to the end of input and fails to parse.
func locateBlocks(toks []token) []block {
	var blocks []block
	for i := 0; i < len(toks); i++ {
		var kind blockKind
		switch {
		case toks[i].is(tokIdent, keywordCel):
			kind = blockCel
		case toks[i].is(tokIdent, keywordStruct) && i+1 < len(toks) && toks[i+1].is(tokIdent, keywordAnimation):
			kind = blockAnimation
		default:
			continue
		}

		end := i
		depth := 0
	scan:
		for ; end < len(toks); end++ {
			t := toks[end]
			switch {
			case t.kind == tokEOF:
				break scan
			case t.is(tokPunct, "{"):
				depth++
			case t.is(tokPunct, "}"):
				depth--
				// a brace group not followed by ';' is a function body
				if depth == 0 && end+1 < len(toks) && !toks[end+1].is(tokPunct, ";") {
					break scan
				}
			case t.is(tokPunct, ";") && depth <= 0:
				break scan
			}
		}
		if end >= len(toks) {
			end = len(toks) - 1
		}
		blocks = append(blocks, block{kind: kind, toks: toks[i : end+1]})
		i = end
	}
	return blocks
}

// parser walks the tokens of one block.
type parser struct {
	src  string
	toks []token
	i    int
	name string
}

func (p *parser) peek() token {
	if p.i >= len(p.toks) {
		return token{kind: tokEOF, pos: len(p.src)}
	}
	return p.toks[p.i]
}

func (p *parser) next() token {
	t := p.peek()
	if p.i < len(p.toks) {
		p.i++
	}
	return t
}

func (p *parser) errorf(t token, format string, args ...any) error {
	return &ParseError{Line: lineOf(p.src, t.pos), Block: p.name, Msg: fmt.Sprintf(format, args...)}
}

func describe(t token) string {
	if t.kind == tokEOF {
		return t.kind.String()
	}
	return strconv.Quote(t.text)
}

func (p *parser) expectPunct(text string) error {
	t := p.next()
	if !t.is(tokPunct, text) {
		return p.errorf(t, "expected %q, found %s", text, describe(t))
	}
	return nil
}

func (p *parser) acceptPunct(text string) bool {
	if p.peek().is(tokPunct, text) {
		p.i++
		return true
	}
	return false
}

func (p *parser) expectKeyword(word string) error {
	t := p.next()
	if !t.is(tokIdent, word) {
		return p.errorf(t, "expected %q, found %s", word, describe(t))
	}
	return nil
}

func (p *parser) expectIdent() (string, error) {
	t := p.next()
	if t.kind != tokIdent {
		return "", p.errorf(t, "expected identifier, found %s", describe(t))
	}
	return t.text, nil
}

// expectInt parses an unsigned C integer literal (decimal, hex or octal, with
// optional u/l suffixes) no larger than max.
func (p *parser) expectInt(max uint64) (uint64, error) {
	t := p.next()
	if t.kind != tokInt {
		return 0, p.errorf(t, "expected integer, found %s", describe(t))
	}
	text := strings.TrimRight(t.text, "uUlL")
	v, err := strconv.ParseUint(text, 0, 64)
	if err != nil {
		return 0, p.errorf(t, "bad integer %q", t.text)
	}
	if v > max {
		return 0, p.errorf(t, "%s out of range (max %#x)", t.text, max)
	}
	return v, nil
}

// declarator parses `NAME [ ] = {`. A size inside the brackets is allowed.
// `NAME ;` and `NAME [ ] ;` are declarations and yield errNotDefinition.
func (p *parser) declarator() error {
	name, err := p.expectIdent()
	if err != nil {
		return err
	}
	p.name = name
	if p.peek().is(tokPunct, ";") {
		return errNotDefinition
	}
	if err := p.expectPunct("["); err != nil {
		return err
	}
	if p.peek().kind == tokInt {
		p.next()
	}
	if err := p.expectPunct("]"); err != nil {
		return err
	}
	if p.peek().is(tokPunct, ";") {
		return errNotDefinition
	}
	if err := p.expectPunct("="); err != nil {
		return err
	}
	return p.expectPunct("{")
}

// end parses the closing `} ;`.
func (p *parser) end() error {
	if err := p.expectPunct("}"); err != nil {
		return err
	}
	return p.expectPunct(";")
}

// celResult is the outcome of parsing one cel block.
type celResult struct {
	cel      *anim.Cel
	declared int // value of the Len field
	line     int
}

// parseCel parses
//
//	"AnimationCel" IDENT "[" "]" "=" "{" LEN { "," W1 "," W2 "," W3 } [","] "}" ";"
func parseCel(src string, toks []token) (celResult, error) {
	p := &parser{src: src, toks: toks}
	line := lineOf(src, p.peek().pos)

	if err := p.expectKeyword(keywordCel); err != nil {
		return celResult{}, err
	}
	if p.peek().kind != tokIdent {
		return celResult{}, errNotDefinition
	}
	if err := p.declarator(); err != nil {
		return celResult{}, err
	}
	declared, err := p.expectInt(0xFF)
	if err != nil {
		return celResult{}, err
	}

	c := anim.NewCel(p.name)
	for {
		if p.peek().is(tokPunct, "}") {
			break
		}
		if err := p.expectPunct(","); err != nil {
			return celResult{}, err
		}
		if p.peek().is(tokPunct, "}") {
			break
		}

		var words [3]uint16
		for k := range words {
			if k > 0 {
				if err := p.expectPunct(","); err != nil {
					return celResult{}, err
				}
			}
			v, err := p.expectInt(0xFFFF)
			if err != nil {
				return celResult{}, err
			}
			words[k] = uint16(v)
		}
		c.AddOAM(oam.DecodeWords(words[0], words[1], words[2]))
	}

	if err := p.end(); err != nil {
		return celResult{}, err
	}
	return celResult{cel: c, declared: int(declared), line: line}, nil
}

// parseAnimation parses
//
//	"struct" "Animation" IDENT "[" "]" "=" "{" { "{" IDENT "," DURATION "}" [","] } "}" ";"
func parseAnimation(src string, toks []token) (*anim.Animation, error) {
	p := &parser{src: src, toks: toks}

	if err := p.expectKeyword(keywordStruct); err != nil {
		return nil, err
	}
	if err := p.expectKeyword(keywordAnimation); err != nil {
		return nil, err
	}
	if p.peek().kind != tokIdent {
		return nil, errNotDefinition
	}
	if err := p.declarator(); err != nil {
		return nil, err
	}

	var frames []anim.AnimationFrame
	for !p.peek().is(tokPunct, "}") {
		if err := p.expectPunct("{"); err != nil {
			return nil, err
		}
		cel, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(","); err != nil {
			return nil, err
		}
		duration, err := p.expectInt(anim.MaxFrameDuration)
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct("}"); err != nil {
			return nil, err
		}
		frames = append(frames, anim.AnimationFrame{
			Cel:      cel,
			Duration: uint8(duration),
			ID:       len(frames),
		})

		if !p.acceptPunct(",") {
			break
		}
	}

	if err := p.end(); err != nil {
		return nil, err
	}
	return anim.NewAnimation(p.name, frames), nil
}
