package categorizer

import (
	"context"
	"strings"
)

// Category is a coarse classification of prompt intent.
type Category string

const (
	CategoryChat       Category = "chat"
	CategoryCode       Category = "code"
	CategoryReasoning  Category = "reasoning"
	CategoryWriting    Category = "writing"
	CategoryMultimodal Category = "multimodal"
)

// DefaultCategory is used whenever a classifier cannot produce a known category.
const DefaultCategory = CategoryChat

// AllCategories lists every valid category in declaration order.
var AllCategories = []Category{
	CategoryChat,
	CategoryCode,
	CategoryReasoning,
	CategoryWriting,
	CategoryMultimodal,
}

// Valid reports whether c is one of the five known categories.
func (c Category) Valid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

// ParseCategory normalizes raw (trim + lowercase) and reports whether it names a
// known category. Unknown input yields DefaultCategory and false.
func ParseCategory(raw string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if c.Valid() {
		return c, true
	}
	return DefaultCategory, false
}

// Rule maps a keyword set to a category. Rules are evaluated in slice order and
// the first rule with any keyword contained in the text wins.
type Rule struct {
	Keywords []string
	Category Category
}

// DefaultRules is the keyword precedence list used by the prompt endpoints.
var DefaultRules = []Rule{
	{Keywords: []string{"code", "program", "function"}, Category: CategoryCode},
	{Keywords: []string{"explain", "analyze", "compare"}, Category: CategoryReasoning},
	{Keywords: []string{"write", "draft", "create"}, Category: CategoryWriting},
	{Keywords: []string{"image", "picture", "visual"}, Category: CategoryMultimodal},
}

// CategorizationResult holds the outcome of classifying a piece of text.
type CategorizationResult struct {
	Category   Category
	Confidence float64
	// Tokens is the provider-reported token total when an LLM was involved.
	Tokens int
}

// ContentCategorizer classifies free text into a Category.
type ContentCategorizer interface {
	Categorize(ctx context.Context, text string) (CategorizationResult, error)
}

// KeywordCategorizer is the deterministic, first-match-wins classifier.
type KeywordCategorizer struct {
	rules []Rule
}

// NewKeywordCategorizer builds a categorizer over rules. A nil slice selects
// DefaultRules. Keywords are lowercased once here.
func NewKeywordCategorizer(rules []Rule) *KeywordCategorizer {
	if rules == nil {
		rules = DefaultRules
	}
	normalized := make([]Rule, len(rules))
	for i, r := range rules {
		kws := make([]string, len(r.Keywords))
		for j, kw := range r.Keywords {
			kws[j] = strings.ToLower(kw)
		}
		normalized[i] = Rule{Keywords: kws, Category: r.Category}
	}
	return &KeywordCategorizer{rules: normalized}
}

// Detect returns the category of the first matching rule, or DefaultCategory.
func (k *KeywordCategorizer) Detect(text string) Category {
	lower := strings.ToLower(text)
	for _, r := range k.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return r.Category
			}
		}
	}
	return DefaultCategory
}

// Categorize implements ContentCategorizer. Keyword matches are reported with
// full confidence since the mapping is deterministic.
func (k *KeywordCategorizer) Categorize(_ context.Context, text string) (CategorizationResult, error) {
	return CategorizationResult{Category: k.Detect(text), Confidence: 1.0}, nil
}

var defaultKeywordCategorizer = NewKeywordCategorizer(nil)

// Detect classifies text with DefaultRules.
func Detect(text string) Category {
	return defaultKeywordCategorizer.Detect(text)
}
