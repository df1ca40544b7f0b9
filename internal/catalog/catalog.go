// Package catalog holds the reference-range rules used to interpret CBC results.
//
// A Catalog is built once, validated, and never mutated afterwards; callers share the
// same *Catalog across requests.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/labreport/constants"
)

// DefaultNoPrecautions is emitted when no rule produced a precaution.
const DefaultNoPrecautions = "No precautions needed. Your reports are normal. Just maintain a healthy lifestyle and continue regular check-ups."

// Messages holds the summary sentence for each classification.
// Templates may use {reading} (value with unit), {value} and {unit}.
type Messages struct {
	Low    string
	Normal string
	High   string
}

// Precautions holds optional advice for out-of-range results. Empty means none.
type Precautions struct {
	Low  string
	High string
}

// Rule describes one analyte: how to recognize it and how to judge its result.
type Rule struct {
	Analyte     constants.Analyte
	DisplayName string
	Unit        string
	Low         *float64 // nil: no lower bound
	High        *float64 // nil: no upper bound

	// Aliases are literal OCR keys, matched exactly.
	Aliases []string
	// Synonyms are analyte names matched against normalized keys.
	Synonyms []string
	// MatchUnits restricts normalized matches to records with one of these units.
	MatchUnits []string

	Messages    Messages
	Precautions Precautions
}

// Classify compares value against the rule's bounds. Bounds themselves are normal.
func (r Rule) Classify(value float64) constants.Classification {
	switch {
	case r.Low != nil && value < *r.Low:
		return constants.ClassLow
	case r.High != nil && value > *r.High:
		return constants.ClassHigh
	default:
		return constants.ClassNormal
	}
}

// Summary renders the summary sentence for class.
func (r Rule) Summary(class constants.Classification, value float64) string {
	var tmpl string
	switch class {
	case constants.ClassLow:
		tmpl = r.Messages.Low
	case constants.ClassHigh:
		tmpl = r.Messages.High
	case constants.ClassNormal:
		tmpl = r.Messages.Normal
	}
	return r.render(tmpl, value)
}

// Precaution renders the precaution for class; "" when none is defined.
func (r Rule) Precaution(class constants.Classification, value float64) string {
	switch class {
	case constants.ClassLow:
		return r.render(r.Precautions.Low, value)
	case constants.ClassHigh:
		return r.render(r.Precautions.High, value)
	}
	return ""
}

func (r Rule) render(tmpl string, value float64) string {
	if tmpl == "" {
		return ""
	}
	v := FormatValue(value)
	return strings.NewReplacer(
		"{reading}", Reading(v, r.Unit),
		"{value}", v,
		"{unit}", r.Unit,
	).Replace(tmpl)
}

// FormatValue prints a result like a float literal, always with a fractional part.
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// Reading joins a formatted value with its unit; percentages are not spaced.
func Reading(value, unit string) string {
	switch unit {
	case "":
		return value
	case "%":
		return value + unit
	default:
		return value + " " + unit
	}
}

// Catalog is an immutable, ordered set of rules.
type Catalog struct {
	version       string
	noPrecautions string
	rules         []Rule
	exactAliases  map[string]struct{}
	normalized    []map[string]struct{}
	units         []map[string]struct{}
}

// Option customizes a Catalog under construction.
type Option func(*Catalog)

// WithNoPrecautionsMessage overrides the reassurance sentence.
func WithNoPrecautionsMessage(msg string) Option {
	return func(c *Catalog) {
		if msg != "" {
			c.noPrecautions = msg
		}
	}
}

// New validates rules and builds a catalog. The rules are deep-copied.
func New(version string, rules []Rule, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		version:       version,
		noPrecautions: DefaultNoPrecautions,
		exactAliases:  make(map[string]struct{}),
	}
	for _, o := range opts {
		o(c)
	}

	seen := make(map[constants.Analyte]struct{}, len(rules))
	for i, r := range rules {
		if err := validateRule(r); err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, r.Analyte, err)
		}
		if _, dup := seen[r.Analyte]; dup {
			return nil, fmt.Errorf("rule %d: duplicate analyte %q", i, r.Analyte)
		}
		seen[r.Analyte] = struct{}{}

		cp := copyRule(r)
		names := make(map[string]struct{})
		for _, a := range cp.Aliases {
			c.exactAliases[a] = struct{}{}
			if n := NormalizeKey(a); n != "" {
				names[n] = struct{}{}
			}
		}
		for _, s := range cp.Synonyms {
			if n := NormalizeKey(s); n != "" {
				names[n] = struct{}{}
			}
		}
		if n := NormalizeKey(cp.DisplayName); n != "" {
			names[n] = struct{}{}
		}
		units := make(map[string]struct{})
		for _, u := range cp.MatchUnits {
			units[normalizeUnit(u)] = struct{}{}
		}

		c.rules = append(c.rules, cp)
		c.normalized = append(c.normalized, names)
		c.units = append(c.units, units)
	}
	return c, nil
}

func validateRule(r Rule) error {
	if strings.TrimSpace(string(r.Analyte)) == "" {
		return fmt.Errorf("analyte is required")
	}
	if len(r.Aliases) == 0 && len(r.Synonyms) == 0 {
		return fmt.Errorf("at least one alias or synonym is required")
	}
	if r.Low == nil && r.High == nil {
		return fmt.Errorf("at least one threshold is required")
	}
	if r.Low != nil && r.High != nil && *r.Low > *r.High {
		return fmt.Errorf("low threshold %v exceeds high threshold %v", *r.Low, *r.High)
	}
	if r.Messages.Normal == "" {
		return fmt.Errorf("normal message is required")
	}
	if r.Low != nil && r.Messages.Low == "" {
		return fmt.Errorf("low message is required when a low threshold is set")
	}
	if r.High != nil && r.Messages.High == "" {
		return fmt.Errorf("high message is required when a high threshold is set")
	}
	return nil
}

func copyRule(r Rule) Rule {
	cp := r
	cp.Low = copyFloat(r.Low)
	cp.High = copyFloat(r.High)
	cp.Aliases = append([]string(nil), r.Aliases...)
	cp.Synonyms = append([]string(nil), r.Synonyms...)
	cp.MatchUnits = append([]string(nil), r.MatchUnits...)
	return cp
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// Version identifies the reference table revision.
func (c *Catalog) Version() string { return c.version }

// NoPrecautionsMessage is the sentence emitted when nothing needs attention.
func (c *Catalog) NoPrecautionsMessage() string { return c.noPrecautions }

// Len returns the number of rules.
func (c *Catalog) Len() int { return len(c.rules) }

// Rules returns copies of the rules in declaration order.
func (c *Catalog) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, r := range c.rules {
		out[i] = copyRule(r)
	}
	return out
}

// Rule returns a copy of the i-th rule.
func (c *Catalog) Rule(i int) Rule { return copyRule(c.rules[i]) }

// Lookup returns the rule for analyte.
func (c *Catalog) Lookup(analyte constants.Analyte) (Rule, bool) {
	for _, r := range c.rules {
		if r.Analyte == analyte {
			return copyRule(r), true
		}
	}
	return Rule{}, false
}

// IsExactAlias reports whether key is a literal alias of any rule.
func (c *Catalog) IsExactAlias(key string) bool {
	_, ok := c.exactAliases[key]
	return ok
}

// MatchesNormalized reports whether key, once normalized, names the i-th rule's analyte
// and units is acceptable for it.
func (c *Catalog) MatchesNormalized(i int, key, units string) bool {
	n := NormalizeKey(key)
	if n == "" {
		return false
	}
	if _, ok := c.normalized[i][n]; !ok {
		return false
	}
	if len(c.units[i]) == 0 {
		return true
	}
	_, ok := c.units[i][normalizeUnit(units)]
	return ok
}
