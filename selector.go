package arbor

import (
	"errors"
	"fmt"
	"strings"
)

// Selector decides whether a node belongs to a set, the way a CSS selector
// picks elements out of a document.
type Selector interface {
	Match(n *Node) bool
}

// SelectorFunc adapts a plain function to the Selector interface.
type SelectorFunc func(n *Node) bool

// Match calls f(n).
func (f SelectorFunc) Match(n *Node) bool {
	return f(n)
}

// ErrInvalidSelector is returned (wrapped) by ParseSelector for malformed input.
var ErrInvalidSelector = errors.New("invalid selector")

// ParseSelector compiles a selector string. The supported grammar is a subset
// of CSS:
//
//	li                 tag
//	*                  any node
//	#intro             node named "intro"
//	.item              node carrying class "item"
//	li.item#a          compound
//	section li         descendant combinator
//	ul > li            child combinator
//	.a, .b             selector list
func ParseSelector(src string) (Selector, error) {
	var list selectorList
	for part := range strings.SplitSeq(src, ",") {
		cs, err := parseComplex(part)
		if err != nil {
			return nil, fmt.Errorf("parse selector %q: %w", src, err)
		}
		list.alts = append(list.alts, cs)
	}
	list.src = strings.TrimSpace(src)
	return &list, nil
}

// MustParseSelector is like ParseSelector but panics on error. Intended for
// selector literals in program setup.
func MustParseSelector(src string) Selector {
	sel, err := ParseSelector(src)
	if err != nil {
		panic("arbor: " + err.Error())
	}
	return sel
}

// selectorList matches when any alternative matches.
type selectorList struct {
	src  string
	alts []complexSelector
}

func (l *selectorList) Match(n *Node) bool {
	if n == nil {
		return false
	}
	for i := range l.alts {
		if l.alts[i].matchAt(n, len(l.alts[i].parts)-1) {
			return true
		}
	}
	return false
}

// String returns the selector source.
func (l *selectorList) String() string {
	return l.src
}

// compound is one run of simple selectors with no combinator in between.
type compound struct {
	tag     string // "" or "*" matches any tag
	name    string
	classes []string
}

func (c *compound) match(n *Node) bool {
	if c.tag != "" && c.tag != "*" && c.tag != n.Tag {
		return false
	}
	if c.name != "" && c.name != n.Name {
		return false
	}
	for _, cl := range c.classes {
		if !n.HasClass(cl) {
			return false
		}
	}
	return true
}

const (
	combDescendant byte = ' '
	combChild      byte = '>'
)

// complexSelector is a chain of compounds joined by combinators.
// combs[i] joins parts[i] and parts[i+1].
type complexSelector struct {
	parts []compound
	combs []byte
}

// matchAt matches parts[:i+1] against n and its ancestors, right to left.
func (cs *complexSelector) matchAt(n *Node, i int) bool {
	if !cs.parts[i].match(n) {
		return false
	}
	if i == 0 {
		return true
	}
	switch cs.combs[i-1] {
	case combChild:
		return n.Parent != nil && cs.matchAt(n.Parent, i-1)
	default:
		for p := n.Parent; p != nil; p = p.Parent {
			if cs.matchAt(p, i-1) {
				return true
			}
		}
		return false
	}
}

func parseComplex(src string) (complexSelector, error) {
	var cs complexSelector
	i := 0
	pending := byte(0)
	for {
		spaces := false
		for i < len(src) && isSelectorSpace(src[i]) {
			i++
			spaces = true
		}
		if i >= len(src) {
			break
		}
		if src[i] == '>' {
			if len(cs.parts) == 0 || pending == combChild {
				return cs, fmt.Errorf("%w: unexpected '>'", ErrInvalidSelector)
			}
			pending = combChild
			i++
			continue
		}
		if len(cs.parts) > 0 {
			switch {
			case pending == combChild:
			case spaces:
				pending = combDescendant
			default:
				return cs, fmt.Errorf("%w: unexpected %q", ErrInvalidSelector, src[i])
			}
			cs.combs = append(cs.combs, pending)
		}
		c, next, err := parseCompound(src, i)
		if err != nil {
			return cs, err
		}
		cs.parts = append(cs.parts, c)
		pending = 0
		i = next
	}
	if len(cs.parts) == 0 {
		return cs, fmt.Errorf("%w: empty selector", ErrInvalidSelector)
	}
	if pending == combChild {
		return cs, fmt.Errorf("%w: dangling '>'", ErrInvalidSelector)
	}
	return cs, nil
}

func parseCompound(src string, i int) (compound, int, error) {
	var c compound
	start := i
	if src[i] == '*' {
		c.tag = "*"
		i++
	} else if isIdentByte(src[i]) {
		j := scanIdent(src, i)
		c.tag = src[i:j]
		i = j
	}
	for i < len(src) {
		switch src[i] {
		case '#', '.':
			sigil := src[i]
			j := scanIdent(src, i+1)
			if j == i+1 {
				return c, i, fmt.Errorf("%w: expected name after %q", ErrInvalidSelector, sigil)
			}
			if sigil == '#' {
				c.name = src[i+1 : j]
			} else {
				c.classes = append(c.classes, src[i+1:j])
			}
			i = j
			continue
		}
		break
	}
	if i == start {
		return c, i, fmt.Errorf("%w: unexpected %q", ErrInvalidSelector, src[i])
	}
	return c, i, nil
}

func scanIdent(src string, i int) int {
	for i < len(src) && isIdentByte(src[i]) {
		i++
	}
	return i
}

func isIdentByte(b byte) bool {
	return b == '-' || b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') ||
		b >= 0x80
}

func isSelectorSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
