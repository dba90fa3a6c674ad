package rules

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule is one ordered substitution applied to recognized text.
type Rule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

type compiledRule struct {
	re          *regexp.Regexp
	replacement string
}

// Engine normalizes transcripts with a deterministic, order-applied
// substitution table. Rules run once each, in declaration order; trailing
// whitespace runs are collapsed afterwards.
type Engine struct {
	rules []compiledRule
}

// NewEngine compiles the given rules. An empty slice falls back to the
// built-in correction table for common mis-transcriptions of domain terms.
func NewEngine(rules []Rule) (*Engine, error) {
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	compiled := make([]compiledRule, 0, len(rules))
	for i, rule := range rules {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d: invalid pattern %q: %w", i, rule.Pattern, err)
		}
		compiled = append(compiled, compiledRule{re: re, replacement: rule.Replacement})
	}
	return &Engine{rules: compiled}, nil
}

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Apply normalizes text and collapses whitespace.
func (e *Engine) Apply(text string) string {
	result := text
	for _, rule := range e.rules {
		result = rule.re.ReplaceAllString(result, rule.replacement)
	}
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(result, " "))
}

// DefaultRules is the stock correction table for recognizer slips on
// interview vocabulary and technology names.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: `\bfrustrated\b`, Replacement: "first of all"},
		// RE2 has no lookahead, so "bye" not followed by "bye" is expressed
		// as a shelter/rewrite/restore triple relying on rule order.
		{Pattern: `\bbye bye\b`, Replacement: "\x00b-b\x00"},
		{Pattern: `\bbye\b`, Replacement: "by"},
		{Pattern: "\x00b-b\x00", Replacement: "bye bye"},
		{Pattern: `\bsafe introduction\b`, Replacement: "self introduction"},
		{Pattern: `\bepic opportunity\b`, Replacement: "this opportunity"},
		{Pattern: `\bcoming to my place\b`, Replacement: "coming to my background"},
		{Pattern: `\bworked has\b`, Replacement: "worked as"},
		{Pattern: `\bworked ass\b`, Replacement: "worked as"},
		{Pattern: `\bhave experience\b`, Replacement: "have experience in"},
		{Pattern: `\bI am from\s+(?:my|the)\s+`, Replacement: "I am from "},
		{Pattern: `\breact js\b`, Replacement: "React"},
		{Pattern: `\bnode js\b`, Replacement: "Node.js"},
		{Pattern: `\bmongo db\b`, Replacement: "MongoDB"},
		{Pattern: `\bpost gre sql\b`, Replacement: "PostgreSQL"},
		{Pattern: `\bmy sql\b`, Replacement: "MySQL"},
		{Pattern: `\brest api\b`, Replacement: "REST API"},
		{Pattern: `\bgraph ql\b`, Replacement: "GraphQL"},
		{Pattern: `\bci cd\b`, Replacement: "CI/CD"},
	}
}
