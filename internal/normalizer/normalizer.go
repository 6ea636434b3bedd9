// Package normalizer turns image filenames into lookup keys for imagelinks.
//
// A key is the join column between the generated link table and an
// independently maintained spreadsheet, so the transformation must stay
// deterministic and in lock-step with whatever the spreadsheet side does.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Policy selects the optional behaviors of the normalizer.
type Policy struct {
	Lowercase        bool // Lowercase the finished key
	AllowParentheses bool // Keep ( and ) in keys instead of dropping them
	FoldDiacritics   bool // Map accented letters to their base letter (é -> e)
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		Lowercase:        true,
		AllowParentheses: false,
		FoldDiacritics:   true,
	}
}

// Allowed reports whether r may appear in a finished key.
func (p Policy) Allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == '-':
		return true
	case r == '(' || r == ')':
		return p.AllowParentheses
	}
	return false
}

// Valid reports whether key could have been produced under this policy.
func (p Policy) Valid(key string) bool {
	for _, r := range key {
		if !p.Allowed(r) {
			return false
		}
		if p.Lowercase && r >= 'A' && r <= 'Z' {
			return false
		}
	}
	return !strings.HasPrefix(key, "_") &&
		!strings.HasSuffix(key, "_") &&
		!strings.Contains(key, "__")
}

var underscoreRun = regexp.MustCompile(`_{2,}`)

// Normalizer converts filenames into keys. It is safe for sequential reuse
// and holds no state between calls.
type Normalizer struct {
	policy Policy
	rules  []Rule
}

// New creates a Normalizer with the default punctuation table for policy.
func New(policy Policy) *Normalizer {
	return NewWithRules(policy, nil)
}

// NewWithRules creates a Normalizer that applies extra before the default
// punctuation table.
func NewWithRules(policy Policy, extra []Rule) *Normalizer {
	rules := make([]Rule, 0, len(extra)+8)
	rules = append(rules, extra...)
	rules = append(rules, DefaultRules(policy)...)
	return &Normalizer{
		policy: policy,
		rules:  rules,
	}
}

// Rules returns a copy of the ordered rule list.
func (n *Normalizer) Rules() []Rule {
	result := make([]Rule, len(n.rules))
	copy(result, n.rules)
	return result
}

// Normalize converts filename into a key.
//
// The steps run in a fixed order, since later steps clean up after earlier ones:
//  1. strip the extension (last "." onward)
//  2. spaces become underscores
//  3. ordered punctuation rules
//  4. anything outside the allowed set becomes an underscore
//  5. underscore runs collapse to one
//  6. leading and trailing underscores are trimmed
//  7. optional lowercasing
//
// Before step 1 the input is brought to NFC, so decomposed and composed
// spellings of the same name produce the same key.
func (n *Normalizer) Normalize(filename string) string {
	key := n.canonicalize(filename)

	key = StripExtension(key)

	key = strings.ReplaceAll(key, " ", "_")

	for _, rule := range n.rules {
		key = rule.Apply(key)
	}

	key = strings.Map(func(r rune) rune {
		if n.policy.Allowed(r) {
			return r
		}
		return '_'
	}, key)

	key = underscoreRun.ReplaceAllString(key, "_")
	key = strings.Trim(key, "_")

	if n.policy.Lowercase {
		key = strings.ToLower(key)
	}
	return key
}

// canonicalize applies NFC and, when enabled, strips combining marks.
func (n *Normalizer) canonicalize(s string) string {
	if !n.policy.FoldDiacritics {
		return norm.NFC.String(s)
	}
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		return norm.NFC.String(s)
	}
	return folded
}

// StripExtension removes everything from the last "." onward.
// A name without a dot is returned unchanged.
func StripExtension(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		return filename[:i]
	}
	return filename
}

var defaultNormalizer = New(DefaultPolicy())

// Normalize converts filename into a key using the default policy.
func Normalize(filename string) string {
	return defaultNormalizer.Normalize(filename)
}
