package normalizer

import (
	"fmt"
	"regexp"
)

// Rule pairs a compiled pattern with its replacement. Rules are applied in
// order by [Normalizer.Normalize]; a later rule sees the output of earlier ones.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Apply replaces every match of the rule's pattern in s.
// Replacement may reference capture groups with $1 or ${name}.
func (r Rule) Apply(s string) string {
	return r.Pattern.ReplaceAllString(s, r.Replacement)
}

// Substitution is a user-supplied rule before compilation.
type Substitution struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
}

// --- Named token substitutions ---

var (
	rePossessive = regexp.MustCompile(`['’‘]([sS])`)
	reAnd        = regexp.MustCompile(`&`)
	rePlus       = regexp.MustCompile(`\+`)
	reAt         = regexp.MustCompile(`@`)
	rePercent    = regexp.MustCompile(`%`)
)

// --- Characters dropped without a separator ---

var (
	reQuotes      = regexp.MustCompile(`['’‘"“”]`)
	reMarks       = regexp.MustCompile(`[!?.,]`)
	reParentheses = regexp.MustCompile(`[()]`)
)

// DefaultRules returns the ordered punctuation table for policy.
//
// The possessive rule must run before the quote-dropping rule, otherwise
// "K1RA's" would become "K1RAs" and merge with an unrelated "K1RAs".
func DefaultRules(policy Policy) []Rule {
	rules := []Rule{
		{Name: "possessive", Pattern: rePossessive, Replacement: "_${1}"},
		{Name: "and", Pattern: reAnd, Replacement: "_and_"},
		{Name: "plus", Pattern: rePlus, Replacement: "_plus_"},
		{Name: "at", Pattern: reAt, Replacement: "_at_"},
		{Name: "percent", Pattern: rePercent, Replacement: "_percent_"},
		{Name: "drop-quotes", Pattern: reQuotes, Replacement: ""},
		{Name: "drop-marks", Pattern: reMarks, Replacement: ""},
	}
	if !policy.AllowParentheses {
		rules = append(rules, Rule{Name: "drop-parentheses", Pattern: reParentheses, Replacement: ""})
	}
	return rules
}

// CompileRules compiles user substitutions in order. The returned rules are
// named "custom-N" after their position.
func CompileRules(subs []Substitution) ([]Rule, error) {
	rules := make([]Rule, 0, len(subs))
	for i, sub := range subs {
		re, err := regexp.Compile(sub.Pattern)
		if err != nil {
			return nil, fmt.Errorf("substitutions[%d]: %w", i, err)
		}
		rules = append(rules, Rule{
			Name:        fmt.Sprintf("custom-%d", i),
			Pattern:     re,
			Replacement: sub.Replacement,
		})
	}
	return rules, nil
}
