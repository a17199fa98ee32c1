// Package annotate plans the insertion of categorized section headers above
// the leading import groups of a TypeScript source file.
//
// Planning is pure: it takes file content and returns the rewritten content
// together with the detected groups. Writing the result back is the caller's
// concern.
package annotate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Category labels the origin of an import group.
type Category int

// Categories in their fixed order.
const (
	CategoryStyles Category = iota
	CategoryParentRelative
	CategoryLocalRelative
	CategoryProjectAliases
	CategoryThirdParty
)

var categoryNames = [...]string{
	CategoryStyles:         "Styles",
	CategoryParentRelative: "Parent Relative",
	CategoryLocalRelative:  "Local Relative",
	CategoryProjectAliases: "Project Aliases",
	CategoryThirdParty:     "Framework and Third-Party",
}

// String returns the header label of the category.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}

	return categoryNames[c]
}

// Categories returns every category in order.
func Categories() []Category {
	return []Category{
		CategoryStyles,
		CategoryParentRelative,
		CategoryLocalRelative,
		CategoryProjectAliases,
		CategoryThirdParty,
	}
}

// DefaultAliases are the project path aliases recognized out of the box.
var DefaultAliases = []string{
	"@root",
	"@lib",
	"@i18n",
	"@components",
	"@clientComponents",
	"@serverComponents",
}

// ErrInvalidAlias is returned when an alias prefix is empty or contains whitespace.
var ErrInvalidAlias = errors.New("invalid alias prefix")

var styleSourcePattern = regexp.MustCompile(`\.(css|scss)$`)

// Rule maps import sources accepted by Match to Category.
type Rule struct {
	Name     string
	Match    func(source string) bool
	Category Category
}

// Classifier assigns a Category to an import source by evaluating its rules
// in order. The first matching rule wins; sources no rule accepts are
// third-party.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds the default rule chain with the given alias prefixes.
// An alias only matches when followed by a word boundary, so "@lib" accepts
// "@lib/x" but not "@library".
func NewClassifier(aliases []string) (*Classifier, error) {
	aliasPattern, err := compileAliasPattern(aliases)
	if err != nil {
		return nil, err
	}

	return NewClassifierWithRules(DefaultRules(aliasPattern)), nil
}

// MustNewClassifier is like NewClassifier but panics on error.
func MustNewClassifier(aliases []string) *Classifier {
	c, err := NewClassifier(aliases)
	if err != nil {
		panic(err)
	}

	return c
}

// NewClassifierWithRules returns a classifier over an explicit rule list.
func NewClassifierWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: append([]Rule(nil), rules...)}
}

// DefaultRules returns the standard rule chain. A nil aliasPattern disables
// the project alias rule.
func DefaultRules(aliasPattern *regexp.Regexp) []Rule {
	rules := []Rule{
		{Name: "styles", Match: styleSourcePattern.MatchString, Category: CategoryStyles},
		{Name: "parent-relative", Match: hasPrefix("../"), Category: CategoryParentRelative},
		{Name: "local-relative", Match: hasPrefix("./"), Category: CategoryLocalRelative},
	}

	if aliasPattern != nil {
		rules = append(rules, Rule{Name: "project-alias", Match: aliasPattern.MatchString, Category: CategoryProjectAliases})
	}

	return rules
}

// Rules returns a copy of the classifier's rule chain.
func (c *Classifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Classify returns the category of source.
func (c *Classifier) Classify(source string) Category {
	for _, rule := range c.rules {
		if rule.Match(source) {
			return rule.Category
		}
	}

	return CategoryThirdParty
}

func hasPrefix(prefix string) func(string) bool {
	return func(s string) bool {
		return strings.HasPrefix(s, prefix)
	}
}

func compileAliasPattern(aliases []string) (*regexp.Regexp, error) {
	if len(aliases) == 0 {
		return nil, nil //nolint:nilnil // no aliases means no alias rule.
	}

	quoted := make([]string, 0, len(aliases))

	for _, alias := range aliases {
		if alias == "" || strings.ContainsFunc(alias, isSpace) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAlias, alias)
		}

		quoted = append(quoted, regexp.QuoteMeta(alias))
	}

	pattern, err := regexp.Compile(`^(?:` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("compile alias pattern: %w", err)
	}

	return pattern, nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
