// Package selector picks a default track out of an ordered candidate list by evaluating
// an ordered chain of selection rules.
//
// Rules are tried in the order given. The first rule that matches a candidate decides
// the selection, a rule that matches nothing hands over to the next one, and an Off rule
// ends the chain with no selection no matter where it appears.
package selector

import (
	"fmt"
	"strings"
)

// Kind tags the variant of a Rule.
type Kind uint8

const (
	KindOff Kind = iota
	KindCustom
	KindLabelSubstring
)

func (k Kind) String() string {
	switch k {
	case KindOff:
		return "off"
	case KindCustom:
		return "custom"
	case KindLabelSubstring:
		return "substring"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Predicate reports whether the candidate at index with the given label is acceptable.
type Predicate func(index int, label string) bool

// Rule is one step of a selection chain. The zero value is an Off rule.
type Rule struct {
	kind Kind
	text string
	pred Predicate
}

// Off terminates the chain with no selection.
func Off() Rule {
	return Rule{kind: KindOff}
}

// Custom matches candidates accepted by fn. A nil fn never matches.
func Custom(fn Predicate) Rule {
	return Rule{kind: KindCustom, text: "custom", pred: fn}
}

// LabelSubstring matches labels containing text, ignoring case.
func LabelSubstring(text string) Rule {
	return Rule{kind: KindLabelSubstring, text: text}
}

// Exact matches labels equal to text, ignoring case and surrounding space.
func Exact(text string) Rule {
	want := strings.TrimSpace(text)
	r := Custom(func(_ int, label string) bool {
		return strings.EqualFold(strings.TrimSpace(label), want)
	})
	r.text = "=" + want
	return r
}

// Kind returns the variant tag.
func (r Rule) Kind() Kind {
	return r.kind
}

// String renders the rule in the syntax accepted by Parse.
func (r Rule) String() string {
	switch r.kind {
	case KindOff:
		return "off"
	case KindLabelSubstring:
		return "@" + r.text + "@"
	default:
		return r.text
	}
}

// matches evaluates a non-Off rule against one candidate.
func (r Rule) matches(index int, label string) bool {
	switch r.kind {
	case KindCustom:
		return r.pred != nil && r.pred(index, label)
	case KindLabelSubstring:
		return strings.Contains(strings.ToLower(label), strings.ToLower(r.text))
	case KindOff:
		return false
	default:
		panic(fmt.Sprintf("selector: unhandled rule %s", r.kind))
	}
}
