// internal/style/style.go

// Package style resolves stylesheet rules against a document tree and
// produces the styled tree consumed by layout.
package style

import (
	"sort"

	"github.com/xantheum/reflow/internal/css"
	"github.com/xantheum/reflow/internal/dom"
)

// PropertyMap holds the specified value of every property that the
// cascade assigned to one element.
type PropertyMap map[string]css.Value

// StyledNode pairs a document node with its cascaded property map. The
// styled tree mirrors the document tree shape exactly; pruning of
// display:none subtrees happens later, during box tree construction.
type StyledNode struct {
	Node     *dom.Node
	Values   PropertyMap
	Children []*StyledNode
}

// Display classifies how an element generates boxes.
type Display int

const (
	DisplayInline Display = iota
	DisplayBlock
	DisplayNone
)

func (d Display) String() string {
	switch d {
	case DisplayBlock:
		return "block"
	case DisplayNone:
		return "none"
	default:
		return "inline"
	}
}

// Value returns the specified value of a property, if any.
func (sn *StyledNode) Value(name string) (css.Value, bool) {
	v, ok := sn.Values[name]
	return v, ok
}

// Lookup returns the value of name, then of fallback, then def. Layout
// uses this for shorthand-style defaulting (margin-left falls back to
// margin).
func (sn *StyledNode) Lookup(name, fallback string, def css.Value) css.Value {
	if v, ok := sn.Values[name]; ok {
		return v
	}
	if v, ok := sn.Values[fallback]; ok {
		return v
	}
	return def
}

// Display reads the display property. Text nodes are always inline and
// unknown keywords fall back to inline, matching the initial value.
func (sn *StyledNode) Display() Display {
	if sn.Node != nil && sn.Node.Type == dom.TextNode {
		return DisplayInline
	}
	v, ok := sn.Values["display"]
	if !ok {
		return DisplayInline
	}
	switch {
	case v.IsKeyword("block"):
		return DisplayBlock
	case v.IsKeyword("none"):
		return DisplayNone
	default:
		return DisplayInline
	}
}

// Matches reports whether a simple selector matches an element. A tag
// of "*" matches any element; class lists match when the element
// carries at least one of the listed classes.
func Matches(n *dom.Node, sel css.SimpleSelector) bool {
	if n.Type != dom.ElementNode {
		return false
	}
	if sel.TagName != "" && sel.TagName != "*" && sel.TagName != n.TagName {
		return false
	}
	if sel.ID != "" {
		id, ok := n.ID()
		if !ok || id != sel.ID {
			return false
		}
	}
	if len(sel.Classes) > 0 {
		matched := false
		for _, class := range sel.Classes {
			if n.HasClass(class) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// matchedRule records one rule hit together with the highest
// specificity among its matching selectors.
type matchedRule struct {
	specificity css.Specificity
	rule        *css.Rule
}

func matchRule(n *dom.Node, rule *css.Rule) (matchedRule, bool) {
	var best css.Specificity
	found := false
	for _, sel := range rule.Selectors {
		if !Matches(n, sel) {
			continue
		}
		if s := sel.Specificity(); !found || s.Compare(best) > 0 {
			best = s
		}
		found = true
	}
	return matchedRule{specificity: best, rule: rule}, found
}

func matchingRules(n *dom.Node, sheet *css.Stylesheet) []matchedRule {
	var matched []matchedRule
	for i := range sheet.Rules {
		if m, ok := matchRule(n, &sheet.Rules[i]); ok {
			matched = append(matched, m)
		}
	}
	return matched
}

// SpecifiedValues runs the cascade for one element. Matching rules are
// applied in ascending specificity order with source order as the tie
// break, so the last write into the map is the winning declaration.
func SpecifiedValues(n *dom.Node, sheet *css.Stylesheet) PropertyMap {
	values := make(PropertyMap)
	matched := matchingRules(n, sheet)

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].specificity.Compare(matched[j].specificity) < 0
	})

	for _, m := range matched {
		for _, decl := range m.rule.Declarations {
			values[decl.Name] = decl.Value
		}
	}
	return values
}

// Tree builds the styled tree for a whole document. Text nodes get an
// empty property map; display:none elements keep their children so the
// caller sees the full document shape.
func Tree(root *dom.Node, sheet *css.Stylesheet) *StyledNode {
	sn := &StyledNode{Node: root, Values: PropertyMap{}}
	if root.Type == dom.ElementNode {
		sn.Values = SpecifiedValues(root, sheet)
	}
	for _, child := range root.Children {
		sn.Children = append(sn.Children, Tree(child, sheet))
	}
	return sn
}
