package newick

import (
	"errors"
	"fmt"
	"strings"

	"github.com/evolib/superrec/tree"
)

// ErrSyntax indicates that the input is not a well-formed Newick string.
// The wrapped message carries the byte offset of the offending character.
var ErrSyntax = errors.New("newick: syntax error")

// Parse converts a Newick description into a tree. Branch lengths
// (":1.5") are accepted and ignored; the final semicolon is optional.
func Parse(s string) (*tree.Tree, error) {
	p := parser{input: s}
	spec, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(s) && s[p.pos] == ';' {
		p.pos++
	}
	p.skipSpace()
	if p.pos != len(s) {
		return nil, fmt.Errorf("%w: trailing input at offset %d", ErrSyntax, p.pos)
	}

	t, err := tree.Build(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	return t, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// parseNode parses either a leaf label or a parenthesized child list
// followed by an optional internal label.
func (p *parser) parseNode() (*tree.Spec, error) {
	p.skipSpace()
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("%w: unexpected end of input", ErrSyntax)
	}

	spec := &tree.Spec{}
	if p.input[p.pos] == '(' {
		p.pos++
		for {
			child, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			spec.Children = append(spec.Children, child)
			p.skipSpace()
			if p.pos >= len(p.input) {
				return nil, fmt.Errorf("%w: unclosed parenthesis", ErrSyntax)
			}
			if p.input[p.pos] == ',' {
				p.pos++
				continue
			}
			if p.input[p.pos] == ')' {
				p.pos++
				break
			}

			return nil, fmt.Errorf("%w: unexpected %q at offset %d", ErrSyntax, p.input[p.pos], p.pos)
		}
	}

	spec.Name = p.parseLabel()
	p.skipBranchLength()

	if len(spec.Children) == 0 && spec.Name == "" {
		return nil, fmt.Errorf("%w: empty leaf label at offset %d", ErrSyntax, p.pos)
	}

	return spec, nil
}

func (p *parser) parseLabel() string {
	start := p.pos
	for p.pos < len(p.input) {
		switch p.input[p.pos] {
		case '(', ')', ',', ':', ';', ' ', '\t', '\n', '\r':
			return p.input[start:p.pos]
		default:
			p.pos++
		}
	}

	return p.input[start:p.pos]
}

func (p *parser) skipBranchLength() {
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != ':' {
		return
	}
	p.pos++
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		break
	}
}

// Format renders a tree back into Newick notation with a trailing
// semicolon. Round-trips the output of Parse up to whitespace.
func Format(t *tree.Tree) string {
	var b strings.Builder
	formatNode(t, t.Root(), &b)
	b.WriteByte(';')

	return b.String()
}

func formatNode(t *tree.Tree, v int, b *strings.Builder) {
	if !t.IsLeaf(v) {
		b.WriteByte('(')
		for i, c := range t.Children(v) {
			if i > 0 {
				b.WriteByte(',')
			}
			formatNode(t, c, b)
		}
		b.WriteByte(')')
	}
	b.WriteString(t.Name(v))
}
