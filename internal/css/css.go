// internal/css/css.go
// Package css defines the stylesheet model consumed by the cascade and
// layout stages, plus a parser for the restricted grammar the pipeline
// accepts: simple selectors, pixel lengths, keywords, and 6-digit hex
// colors.
package css

import (
	"fmt"
	"strings"
)

// Stylesheet is an ordered list of rules. Rule order is significant: the
// cascade breaks specificity ties by source order.
type Stylesheet struct {
	Rules []Rule
}

// Rule pairs one or more selectors with an ordered declaration list.
type Rule struct {
	Selectors    []SimpleSelector
	Declarations []Declaration
}

// SimpleSelector is a compound of an optional tag name, an optional id,
// and any number of class names. All present constraints must hold for a
// match. The tag name "*" is the universal selector and constrains
// nothing.
type SimpleSelector struct {
	TagName string
	ID      string
	Classes []string
}

// IsValid reports whether the selector has at least one component.
func (s SimpleSelector) IsValid() bool {
	return s.TagName != "" || s.ID != "" || len(s.Classes) > 0
}

// Specificity returns the cascade ordering key for this selector.
func (s SimpleSelector) Specificity() Specificity {
	var sp Specificity
	if s.ID != "" {
		sp.ID = 1
	}
	sp.Class = len(s.Classes)
	if s.TagName != "" && s.TagName != "*" {
		sp.Tag = 1
	}
	return sp
}

func (s SimpleSelector) String() string {
	var b strings.Builder
	b.WriteString(s.TagName)
	if s.ID != "" {
		b.WriteByte('#')
		b.WriteString(s.ID)
	}
	for _, c := range s.Classes {
		b.WriteByte('.')
		b.WriteString(c)
	}
	return b.String()
}

// Specificity is the (id, class, tag) cascade tie-break key, ordered
// lexicographically. A selector with an id always outranks any selector
// without one, regardless of class and tag counts.
type Specificity struct {
	ID    int
	Class int
	Tag   int
}

// Compare returns -1, 0, or 1 as s orders before, equal to, or after o.
func (s Specificity) Compare(o Specificity) int {
	switch {
	case s.ID != o.ID:
		return cmpInt(s.ID, o.ID)
	case s.Class != o.Class:
		return cmpInt(s.Class, o.Class)
	default:
		return cmpInt(s.Tag, o.Tag)
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Declaration is a single property: value pair.
type Declaration struct {
	Name  string
	Value Value
}

// Unit enumerates the length units the pipeline understands. Only pixels
// are defined; every other unit is rejected at parse time.
type Unit int

const (
	UnitPx Unit = iota
)

func (u Unit) String() string {
	return "px"
}

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	Keyword ValueKind = iota
	Length
	ColorValue
)

// Value is one of: a keyword identifier, a length with a unit, or a
// color.
type Value struct {
	Kind    ValueKind
	Keyword string
	Length  float64
	Unit    Unit
	Color   Color
}

// NewKeyword builds a keyword value.
func NewKeyword(s string) Value {
	return Value{Kind: Keyword, Keyword: s}
}

// NewLength builds a length value.
func NewLength(v float64, u Unit) Value {
	return Value{Kind: Length, Length: v, Unit: u}
}

// NewColor builds a color value.
func NewColor(c Color) Value {
	return Value{Kind: ColorValue, Color: c}
}

// ToPx returns the pixel magnitude of a length value, and 0 for every
// other kind. Keyword "auto" therefore contributes nothing to box-model
// sums.
func (v Value) ToPx() float64 {
	if v.Kind == Length && v.Unit == UnitPx {
		return v.Length
	}
	return 0
}

// IsKeyword reports whether the value is the given keyword.
func (v Value) IsKeyword(name string) bool {
	return v.Kind == Keyword && v.Keyword == name
}

func (v Value) String() string {
	switch v.Kind {
	case Length:
		return fmt.Sprintf("%g%s", v.Length, v.Unit)
	case ColorValue:
		return fmt.Sprintf("#%02x%02x%02x", v.Color.R, v.Color.G, v.Color.B)
	default:
		return v.Keyword
	}
}
