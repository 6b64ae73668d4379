// internal/css/parser.go
package css

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse analyzes a stylesheet in the restricted grammar and returns the
// parsed rule list. Unlike browser parsers it does not skip malformed
// constructs: the first malformed rule aborts the parse with a
// *ParseError, so callers can reject bad input before layout begins.
func Parse(input string) (*Stylesheet, error) {
	p := &parser{input: input}
	var rules []Rule
	for {
		p.consumeWhitespace()
		if p.eof() {
			break
		}
		if p.startsWith("/*") {
			if err := p.skipComment(); err != nil {
				return nil, err
			}
			continue
		}
		rule, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return &Stylesheet{Rules: rules}, nil
}

// parser is a cursor over the input string. All parse methods leave the
// cursor just past what they consumed.
type parser struct {
	input string
	pos   int
}

func (p *parser) parseRule() (Rule, error) {
	selectors, err := p.parseSelectors()
	if err != nil {
		return Rule{}, err
	}
	declarations, err := p.parseDeclarations()
	if err != nil {
		return Rule{}, err
	}
	return Rule{Selectors: selectors, Declarations: declarations}, nil
}

// parseSelectors parses a comma-separated selector list terminated by '{'.
func (p *parser) parseSelectors() ([]SimpleSelector, error) {
	var selectors []SimpleSelector
	for {
		p.consumeWhitespace()
		sel, ok := p.parseSimpleSelector()
		if !ok {
			return nil, p.errorf(ErrEmptySelector, "expected a selector")
		}
		selectors = append(selectors, sel)

		p.consumeWhitespace()
		if p.eof() {
			return nil, p.errorf(ErrTruncated, "unterminated selector list")
		}
		switch p.currentChar() {
		case ',':
			p.consumeChar()
		case '{':
			p.consumeChar()
			return selectors, nil
		default:
			return nil, p.errorf(nil, "unexpected character %q in selector list", p.currentChar())
		}
	}
}

// parseSimpleSelector parses one compound of tag, #id, and .class parts.
// The universal selector '*' is accepted and recorded as the tag name.
func (p *parser) parseSimpleSelector() (SimpleSelector, bool) {
	var sel SimpleSelector
	universal := false
	for !p.eof() {
		switch ch := p.currentChar(); {
		case ch == '#':
			p.consumeChar()
			sel.ID = p.parseIdentifier()
		case ch == '.':
			p.consumeChar()
			sel.Classes = append(sel.Classes, p.parseIdentifier())
		case ch == '*':
			p.consumeChar()
			universal = true
		case isIdentifierStart(ch):
			sel.TagName = p.parseIdentifier()
		default:
			if sel.IsValid() || universal {
				if universal && sel.TagName == "" {
					sel.TagName = "*"
				}
				return sel, true
			}
			return sel, false
		}
	}
	if universal && sel.TagName == "" {
		sel.TagName = "*"
	}
	return sel, sel.IsValid()
}

// parseDeclarations parses the body of a rule. The opening '{' has
// already been consumed.
func (p *parser) parseDeclarations() ([]Declaration, error) {
	var declarations []Declaration
	for {
		p.consumeWhitespace()
		if p.eof() {
			return nil, p.errorf(ErrTruncated, "unterminated declaration block")
		}
		if p.startsWith("/*") {
			if err := p.skipComment(); err != nil {
				return nil, err
			}
			continue
		}
		if p.currentChar() == '}' {
			p.consumeChar()
			return declarations, nil
		}
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		declarations = append(declarations, decl)
	}
}

func (p *parser) parseDeclaration() (Declaration, error) {
	name := p.parseIdentifier()
	if name == "" {
		return Declaration{}, p.errorf(ErrBadDeclaration, "expected a property name")
	}
	p.consumeWhitespace()
	if p.eof() || p.currentChar() != ':' {
		return Declaration{}, p.errorf(ErrBadDeclaration, "expected ':' after property %q", name)
	}
	p.consumeChar()
	p.consumeWhitespace()

	value, err := p.parseValue()
	if err != nil {
		return Declaration{}, err
	}

	p.consumeWhitespace()
	if p.eof() {
		return Declaration{}, p.errorf(ErrTruncated, "unterminated declaration for %q", name)
	}
	// The semicolon is optional only before the closing brace.
	switch p.currentChar() {
	case ';':
		p.consumeChar()
	case '}':
	default:
		return Declaration{}, p.errorf(ErrBadDeclaration, "expected ';' after value of %q", name)
	}
	return Declaration{Name: strings.ToLower(name), Value: value}, nil
}

func (p *parser) parseValue() (Value, error) {
	if p.eof() {
		return Value{}, p.errorf(ErrTruncated, "expected a value")
	}
	switch ch := p.currentChar(); {
	case ch >= '0' && ch <= '9', ch == '.':
		return p.parseLength()
	case ch == '#':
		return p.parseColor()
	case isIdentifierStart(ch):
		return NewKeyword(p.parseIdentifier()), nil
	default:
		return Value{}, p.errorf(ErrBadDeclaration, "unexpected character %q in value", ch)
	}
}

// parseLength parses a float literal followed by a unit identifier. Only
// px is defined; any other unit is a parse-time failure, never a
// layout-time one.
func (p *parser) parseLength() (Value, error) {
	start := p.pos
	for !p.eof() {
		ch := p.currentChar()
		if (ch >= '0' && ch <= '9') || ch == '.' {
			p.pos++
			continue
		}
		break
	}
	magnitude, err := strconv.ParseFloat(p.input[start:p.pos], 64)
	if err != nil {
		return Value{}, p.errorf(ErrBadDeclaration, "invalid number %q", p.input[start:p.pos])
	}
	unit := strings.ToLower(p.parseIdentifier())
	if unit != "px" {
		return Value{}, p.errorf(ErrUnknownUnit, "unit %q", unit)
	}
	return NewLength(magnitude, UnitPx), nil
}

// parseColor parses a '#' followed by exactly six hex digits. Short
// 3-digit and alpha-carrying forms are not part of the grammar.
func (p *parser) parseColor() (Value, error) {
	p.consumeChar() // '#'
	if p.pos+6 > len(p.input) {
		return Value{}, p.errorf(ErrBadColor, "truncated color literal")
	}
	hex := p.input[p.pos : p.pos+6]
	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return Value{}, p.errorf(ErrBadColor, "invalid hex pair %q", hex[i*2:i*2+2])
		}
		rgb[i] = uint8(n)
	}
	p.pos += 6
	// Reject 7+ digit literals rather than silently splitting them.
	if !p.eof() && isHexDigit(p.currentChar()) {
		return Value{}, p.errorf(ErrBadColor, "color literal longer than 6 digits")
	}
	return NewColor(Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}), nil
}

// -- Cursor helpers --

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) currentChar() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) consumeChar() byte {
	ch := p.currentChar()
	if !p.eof() {
		p.pos++
	}
	return ch
}

func (p *parser) consumeWhitespace() {
	for !p.eof() && isWhitespace(p.currentChar()) {
		p.pos++
	}
}

func (p *parser) startsWith(s string) bool {
	return strings.HasPrefix(p.input[p.pos:], s)
}

func (p *parser) skipComment() error {
	start := p.pos
	p.pos += 2
	end := strings.Index(p.input[p.pos:], "*/")
	if end == -1 {
		p.pos = start
		return p.errorf(ErrTruncated, "unterminated comment")
	}
	p.pos += end + 2
	return nil
}

func (p *parser) parseIdentifier() string {
	start := p.pos
	for !p.eof() && isIdentifierChar(p.currentChar()) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) errorf(category error, format string, args ...any) error {
	return &ParseError{
		Offset: p.pos,
		Msg:    fmt.Sprintf(format, args...),
		Err:    category,
	}
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isIdentifierStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '-'
}

func isIdentifierChar(ch byte) bool {
	return isIdentifierStart(ch) || (ch >= '0' && ch <= '9')
}

func isHexDigit(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}
