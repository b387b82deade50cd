// Package classification maps billing items to one of the four billing
// categories. The rules are heuristics over the item code and description
// because upstream files do not tag the category reliably.
package classification

import (
	"oncobilling-service/internal/app/models"
	"oncobilling-service/internal/pkg/utils"
	"strings"
)

type Rule interface {
	Name() string
	Classify(code, description string) (models.Category, bool)
}

// PatternRule matches when the code starts with one of CodePrefixes or the
// description contains one of Keywords (accent and case insensitive).
type PatternRule struct {
	RuleName     string
	Category     models.Category
	CodePrefixes []string
	Keywords     []string
}

func (r PatternRule) Name() string {
	return r.RuleName
}

func (r PatternRule) Classify(code, description string) (models.Category, bool) {
	code = strings.TrimSpace(code)
	for _, prefix := range r.CodePrefixes {
		if prefix != "" && strings.HasPrefix(code, prefix) {
			return r.Category, true
		}
	}

	folded := utils.FoldText(description)
	for _, keyword := range r.Keywords {
		if keyword != "" && strings.Contains(folded, utils.FoldText(keyword)) {
			return r.Category, true
		}
	}
	return "", false
}

// CodeTableRule classifies by exact code lookup, for when an authoritative
// code table is available.
type CodeTableRule struct {
	RuleName string
	Table    map[string]models.Category
}

func (r CodeTableRule) Name() string {
	return r.RuleName
}

func (r CodeTableRule) Classify(code, _ string) (models.Category, bool) {
	category, ok := r.Table[strings.TrimSpace(code)]
	return category, ok
}

func DefaultRules() []Rule {
	return []Rule{
		PatternRule{
			RuleName:     "medication",
			Category:     models.CategoryMedication,
			CodePrefixes: []string{"90"},
			Keywords:     []string{"medicamento"},
		},
		PatternRule{
			RuleName:     "material",
			Category:     models.CategoryMaterial,
			CodePrefixes: []string{"78"},
			Keywords:     []string{"material"},
		},
		PatternRule{
			RuleName:     "fee",
			Category:     models.CategoryFee,
			CodePrefixes: []string{"60"},
			Keywords:     []string{"taxa"},
		},
	}
}

// Classifier evaluates its rules in order; the first match wins and items
// matching nothing are procedures.
type Classifier struct {
	rules    []Rule
	fallback models.Category
}

func NewClassifier(rules ...Rule) *Classifier {
	return &Classifier{
		rules:    rules,
		fallback: models.CategoryProcedure,
	}
}

func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultRules()...)
}

// WithPriorityRules returns a classifier that consults rules before the
// current ones.
func (c *Classifier) WithPriorityRules(rules ...Rule) *Classifier {
	combined := make([]Rule, 0, len(rules)+len(c.rules))
	combined = append(combined, rules...)
	combined = append(combined, c.rules...)
	return &Classifier{rules: combined, fallback: c.fallback}
}

func (c *Classifier) Classify(code, description string) models.Category {
	for _, rule := range c.rules {
		if category, ok := rule.Classify(code, description); ok {
			return category
		}
	}
	return c.fallback
}

func (c *Classifier) ClassifyItem(item models.Item) models.ClassifiedItem {
	return models.ClassifiedItem{
		Item:     item,
		Category: c.Classify(item.Code, item.Description),
	}
}
