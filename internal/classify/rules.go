// Package classify assigns budget lines to categories using ordered
// include/exclude rules over the line's free text.
package classify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/wipflags/internal/model"
)

// Action is what a matching rule does to membership.
type Action string

// Rule actions.
const (
	Include Action = "include"
	Exclude Action = "exclude"
)

// Field selects the budget line text a rule looks at.
type Field string

// Rule fields. QtyText matches lines whose quantity cell held text and
// takes no patterns.
const (
	Description Field = "description"
	Unit        Field = "unit"
	QtyText     Field = "qty_text"
)

// Rule is one step of a category's membership test.
type Rule struct {
	Category model.Category `yaml:"category"`
	Action   Action         `yaml:"action"`
	Field    Field          `yaml:"field"`
	Any      []string       `yaml:"any,omitempty"`
}

// Matches reports whether the rule's field contains any of its patterns,
// ignoring case.
func (r Rule) Matches(line model.BudgetLine) bool {
	var text string
	switch r.Field {
	case Description:
		text = line.Description
	case Unit:
		text = line.Unit
	case QtyText:
		return line.QtyText
	default:
		return false
	}

	text = strings.ToLower(text)
	for _, p := range r.Any {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Validate checks the rule is well formed.
func (r Rule) Validate() error {
	switch r.Action {
	case Include, Exclude:
	default:
		return fmt.Errorf("%s: unknown action %q", r.Category.Key(), r.Action)
	}
	switch r.Field {
	case Description, Unit:
		if len(r.Any) == 0 {
			return fmt.Errorf("%s: %s rule on %s has no patterns", r.Category.Key(), r.Action, r.Field)
		}
	case QtyText:
	default:
		return fmt.Errorf("%s: unknown field %q", r.Category.Key(), r.Field)
	}
	if r.Category == model.EndingWIP {
		return fmt.Errorf("%s is derived and cannot have rules", r.Category.Key())
	}
	return nil
}

// RuleSet is an ordered rule list. Rules of one category are evaluated in
// list order; rules of other categories are ignored.
type RuleSet struct {
	Rules []Rule `yaml:"rules"`
}

// Validate checks every rule and that each category starts with an include.
func (rs *RuleSet) Validate() error {
	first := make(map[model.Category]bool)
	for i, r := range rs.Rules {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
		if !first[r.Category] {
			first[r.Category] = true
			if r.Action != Include {
				return fmt.Errorf("rule %d: first rule for %s must be an include", i+1, r.Category.Key())
			}
		}
	}
	return nil
}

// Categories returns the categories that have rules, in category order.
func (rs *RuleSet) Categories() []model.Category {
	seen := make(map[model.Category]bool)
	var out []model.Category
	for _, r := range rs.Rules {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Member reports whether line belongs to category c: the last of c's rules
// that matched must be an include.
func (rs *RuleSet) Member(c model.Category, line model.BudgetLine) bool {
	in := false
	for _, r := range rs.Rules {
		if r.Category != c || !r.Matches(line) {
			continue
		}
		in = r.Action == Include
	}
	return in
}

// Classify returns every category line belongs to, in category order.
// Categories overlap: a kit line is both a kit count and a kit sale.
func (rs *RuleSet) Classify(line model.BudgetLine) []model.Category {
	var out []model.Category
	for _, c := range rs.Categories() {
		if rs.Member(c, line) {
			out = append(out, c)
		}
	}
	return out
}

// Result is the outcome of classifying a whole budget sheet.
type Result struct {
	ByCategory   map[model.Category][]model.BudgetLine
	Unclassified []model.BudgetLine
}

// Lines returns the members of c.
func (r Result) Lines(c model.Category) []model.BudgetLine {
	return r.ByCategory[c]
}

// Partition classifies every line. Lines matching no category are kept in
// Unclassified rather than dropped.
func (rs *RuleSet) Partition(lines []model.BudgetLine) Result {
	res := Result{ByCategory: make(map[model.Category][]model.BudgetLine)}
	for _, line := range lines {
		cats := rs.Classify(line)
		if len(cats) == 0 {
			res.Unclassified = append(res.Unclassified, line)
			continue
		}
		for _, c := range cats {
			res.ByCategory[c] = append(res.ByCategory[c], line)
		}
	}
	return res
}
