// Package vocab holds the static tables the inference strategies match
// against: autofill hint matchers and multilingual label word lists.
//
// A Vocabulary is plain data that can be loaded from YAML. Compile turns it
// into an immutable Table that is safe for concurrent use.
package vocab

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/formsense/internal/model"
)

// MatcherRule maps a hint token to a semantic hint
type MatcherRule struct {
	Hint    model.Hint `yaml:"hint"`
	Target  string     `yaml:"target"`
	Partial bool       `yaml:"partial,omitempty"` // Substring match instead of equality
	Regex   bool       `yaml:"regex,omitempty"`   // Target is a regular expression
}

// LabelLists are the word lists used to read visible label text
type LabelLists struct {
	Email      []string `yaml:"email"`
	Username   []string `yaml:"username"`
	Password   []string `yaml:"password"`
	CardNumber []string `yaml:"card_number"` // Regular expressions, matched against the whole label
}

// Vocabulary is the uncompiled form of a Table
type Vocabulary struct {
	Matchers []MatcherRule `yaml:"matchers"`
	Labels   LabelLists    `yaml:"labels"`
}

// Match is one rule firing for an input string
type Match struct {
	Hint     model.Hint
	Accuracy model.Accuracy
	Rule     string
}

type compiledRule struct {
	rule     MatcherRule
	target   string
	pattern  *regexp.Regexp
	accuracy model.Accuracy
}

func (r *compiledRule) matches(value string) bool {
	switch {
	case r.pattern != nil:
		return r.pattern.MatchString(value)
	case r.rule.Partial:
		return strings.Contains(value, r.target)
	default:
		return value == r.target
	}
}

// Table is a compiled Vocabulary
type Table struct {
	rules      []compiledRule
	email      []string
	username   []string
	password   []string
	cardNumber []*regexp.Regexp
}

// Compile validates v and builds an immutable Table
func Compile(v Vocabulary) (*Table, error) {
	t := &Table{
		rules:    make([]compiledRule, 0, len(v.Matchers)),
		email:    normalizeWords(v.Labels.Email),
		username: normalizeWords(v.Labels.Username),
		password: normalizeWords(v.Labels.Password),
	}

	for i, rule := range v.Matchers {
		if !rule.Hint.Valid() {
			return nil, fmt.Errorf("matcher %d: unknown hint %q", i, rule.Hint)
		}
		if strings.TrimSpace(rule.Target) == "" {
			return nil, fmt.Errorf("matcher %d: empty target", i)
		}

		cr := compiledRule{
			rule:     rule,
			target:   strings.ToLower(rule.Target),
			accuracy: model.AccuracyHigh,
		}
		switch {
		case rule.Regex:
			re, err := regexp.Compile("(?i)^(?:" + rule.Target + ")$")
			if err != nil {
				return nil, fmt.Errorf("matcher %d: compile %q: %w", i, rule.Target, err)
			}
			cr.pattern = re
		case rule.Partial:
			cr.accuracy = model.AccuracyMedium
		}
		t.rules = append(t.rules, cr)
	}

	for _, expr := range v.Labels.CardNumber {
		re, err := regexp.Compile("(?i)^(?:" + expr + ")$")
		if err != nil {
			return nil, fmt.Errorf("card number label %q: %w", expr, err)
		}
		t.cardNumber = append(t.cardNumber, re)
	}

	return t, nil
}

// MustCompile is Compile for tables known to be valid
func MustCompile(v Vocabulary) *Table {
	t, err := Compile(v)
	if err != nil {
		panic(err)
	}
	return t
}

// Match returns every rule that fires for value, in table order. Exact
// matches are HIGH, substring matches MEDIUM, regex matches HIGH.
func (t *Table) Match(value string) []Match {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return nil
	}

	var out []Match
	for i := range t.rules {
		r := &t.rules[i]
		if r.matches(value) {
			out = append(out, Match{
				Hint:     r.rule.Hint,
				Accuracy: r.accuracy,
				Rule:     r.rule.Target,
			})
		}
	}
	return out
}

// MatchLabel reads human label text. Word lists are checked in the order
// email, username, password, then the card number patterns; the first
// list that matches decides.
func (t *Table) MatchLabel(label string) (model.Hint, bool) {
	text := strings.ToLower(strings.TrimSpace(label))
	if text == "" {
		return "", false
	}

	switch {
	case containsAny(text, t.email):
		return model.HintEmail, true
	case containsAny(text, t.username):
		return model.HintUsername, true
	case containsAny(text, t.password):
		return model.HintPassword, true
	}
	for _, re := range t.cardNumber {
		if re.MatchString(text) {
			return model.HintCardNumber, true
		}
	}
	return "", false
}

// Rules returns the number of matcher rules
func (t *Table) Rules() int {
	return len(t.rules)
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func normalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
