// Package csrc imports and exports cels and animations as C source, the
// interchange format of the game's build pipeline:
//
//	AnimationCel walk_cel000[] = {
//	    /* Len */ 2,
//	    /* 000 */ 0x00f7, 0x01fc, 0x0160,
//	    /* 001 */ 0x8008, 0x41fc, 0x0014
//	};
//
//	struct Animation anim_walk[] = {
//	    { walk_cel000, 8 },
//	    { walk_cel001, 8 }
//	};
//
// Each OAM is written as its three hardware attribute words. Export output is
// byte-for-byte stable; import tokenizes the source and matches blocks with a
// small grammar, so spacing and comments are free-form.
package csrc

import "strings"

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokString
	tokPunct
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokInt:
		return "integer"
	case tokString:
		return "string"
	case tokPunct:
		return "punctuation"
	}
	return "token"
}

type token struct {
	kind tokenKind
	text string
	pos  int // byte offset in the source
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

// tokenize splits C source into tokens. Comments, whitespace and
// preprocessor lines are dropped. Characters the grammar does not know become
// single-character punctuation tokens and are rejected by the parser.
func tokenize(src string) []token {
	var toks []token
	lineStart := true

	for i := 0; i < len(src); {
		c := src[i]

		switch {
		case c == '\n':
			lineStart = true
			i++
			continue
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			i++
			continue
		case c == '#' && lineStart:
			i = skipLine(src, i)
			continue
		case strings.HasPrefix(src[i:], "//"):
			i = skipLine(src, i)
			continue
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				i = len(src)
			} else {
				i += end + 4
			}
			continue
		}
		lineStart = false

		start := i
		switch {
		case isIdentStart(c):
			for i < len(src) && isIdentChar(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		case c >= '0' && c <= '9':
			for i < len(src) && isIdentChar(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokInt, text: src[start:i], pos: start})
		case c == '"' || c == '\'':
			i++
			for i < len(src) && src[i] != c && src[i] != '\n' {
				if src[i] == '\\' {
					i++
				}
				i++
			}
			if i < len(src) && src[i] == c {
				i++
			}
			toks = append(toks, token{kind: tokString, text: src[start:min(i, len(src))], pos: start})
		default:
			i++
			toks = append(toks, token{kind: tokPunct, text: src[start:i], pos: start})
		}
	}

	return append(toks, token{kind: tokEOF, pos: len(src)})
}

func skipLine(src string, i int) int {
	end := strings.IndexByte(src[i:], '\n')
	if end < 0 {
		return len(src)
	}
	return i + end
}

// lineOf returns the 1-based line number of a byte offset.
func lineOf(src string, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	return strings.Count(src[:pos], "\n") + 1
}
