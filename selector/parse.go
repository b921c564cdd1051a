package selector

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Fuzzy matches labels in which the characters of text appear in order, ignoring case.
// "1080" matches "1080p60" and "hd1080", "fhd" matches "Full HD".
func Fuzzy(text string) Rule {
	r := Custom(func(_ int, label string) bool {
		return fuzzy.MatchFold(text, label)
	})
	r.text = "~" + text
	return r
}

// Parse reads a single rule expression:
//
//	off          terminate the chain
//	=text        exact label, case-insensitive
//	~text        fuzzy label
//	@text@       label substring
//	text         label substring
func Parse(expr string) (Rule, error) {
	e := strings.TrimSpace(expr)
	if e == "" {
		return Rule{}, fmt.Errorf("empty selection rule")
	}

	if strings.EqualFold(e, "off") {
		return Off(), nil
	}

	body := func(prefix, suffix string) (string, error) {
		b := strings.TrimSuffix(strings.TrimPrefix(e, prefix), suffix)
		if strings.TrimSpace(b) == "" {
			return "", fmt.Errorf("selection rule %q has no text", expr)
		}
		return b, nil
	}

	switch {
	case strings.HasPrefix(e, "="):
		b, err := body("=", "")
		if err != nil {
			return Rule{}, err
		}
		return Exact(b), nil
	case strings.HasPrefix(e, "~"):
		b, err := body("~", "")
		if err != nil {
			return Rule{}, err
		}
		return Fuzzy(b), nil
	case len(e) >= 2 && strings.HasPrefix(e, "@") && strings.HasSuffix(e, "@"):
		b, err := body("@", "@")
		if err != nil {
			return Rule{}, err
		}
		return LabelSubstring(b), nil
	default:
		return LabelSubstring(e), nil
	}
}

// ParseAll parses every expression, preserving order.
func ParseAll(exprs []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(exprs))
	for _, expr := range exprs {
		r, err := Parse(expr)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, nil
}
