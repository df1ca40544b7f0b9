// Package interpret compares extracted CBC results against the rule catalog and
// produces the summary and precaution sentences shown to the patient.
package interpret

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/labreport/constants"
	"github.com/joseph-ayodele/labreport/internal/catalog"
	"github.com/joseph-ayodele/labreport/internal/report"
)

// MatchKind records how a result key was tied to a rule.
type MatchKind string

const (
	MatchExact      MatchKind = "exact"
	MatchNormalized MatchKind = "normalized"
)

// ErrNotNumeric is wrapped by evaluations whose result could not be parsed.
var ErrNotNumeric = errors.New("result is not a finite number")

// Evaluation is the outcome of one rule against one result key.
// Class is ClassInvalid and Err is set when the result did not parse.
type Evaluation struct {
	Analyte    constants.Analyte
	Key        string
	Match      MatchKind
	Raw        string
	Value      float64
	Class      constants.Classification
	Summary    string
	Precaution string
	Err        error
}

// Result is the interpretation of one report.
type Result struct {
	Summary     []string     `json:"summary"`
	Precautions []string     `json:"precautions"`
	Evaluations []Evaluation `json:"-"`
}

// Engine evaluates result tables against an immutable catalog. Safe for concurrent use.
type Engine struct {
	catalog   *catalog.Catalog
	logger    *slog.Logger
	exactOnly bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-analyte warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithExactMatchOnly disables the normalized second matching stage.
func WithExactMatchOnly() Option {
	return func(e *Engine) { e.exactOnly = true }
}

// NewEngine builds an engine bound to c.
func NewEngine(c *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{catalog: c, logger: slog.Default()}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Catalog returns the catalog the engine evaluates against.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Interpret walks the catalog in declaration order. Each rule first checks its exact
// aliases in declaration order, then any remaining result keys whose normalized name and
// unit identify the same analyte. Repeated matches for one analyte are all reported.
func (e *Engine) Interpret(results *report.ResultTable) Result {
	res := Result{Summary: []string{}, Precautions: []string{}}
	if results == nil {
		results = report.NewResultTable()
	}

	for i := 0; i < e.catalog.Len(); i++ {
		rule := e.catalog.Rule(i)
		seen := make(map[string]struct{})

		for _, alias := range rule.Aliases {
			if _, dup := seen[alias]; dup {
				continue
			}
			rec, ok := results.Get(alias)
			if !ok {
				continue
			}
			seen[alias] = struct{}{}
			res.add(e.evaluate(rule, alias, rec, MatchExact))
		}

		if e.exactOnly {
			continue
		}
		for _, key := range results.Keys() {
			if _, dup := seen[key]; dup || e.catalog.IsExactAlias(key) {
				continue
			}
			rec, _ := results.Get(key)
			if !e.catalog.MatchesNormalized(i, key, rec.Units) {
				continue
			}
			seen[key] = struct{}{}
			res.add(e.evaluate(rule, key, rec, MatchNormalized))
		}
	}

	if len(res.Precautions) == 0 {
		res.Precautions = append(res.Precautions, e.catalog.NoPrecautionsMessage())
	}
	return res
}

func (r *Result) add(ev Evaluation) {
	r.Evaluations = append(r.Evaluations, ev)
	if ev.Err != nil {
		return
	}
	r.Summary = append(r.Summary, ev.Summary)
	if ev.Precaution != "" {
		r.Precautions = append(r.Precautions, ev.Precaution)
	}
}

func (e *Engine) evaluate(rule catalog.Rule, key string, rec report.TestRecord, match MatchKind) Evaluation {
	ev := Evaluation{Analyte: rule.Analyte, Key: key, Match: match, Raw: rec.Result}
	v, err := ParseResult(rec.Result)
	if err != nil {
		ev.Class = constants.ClassInvalid
		ev.Err = err
		e.logger.Warn("interpret.parse.failed",
			"analyte", string(rule.Analyte), "key", key, "result", rec.Result, "err", err)
		return ev
	}
	ev.Value = v
	ev.Class = rule.Classify(v)
	ev.Summary = rule.Summary(ev.Class, v)
	ev.Precaution = rule.Precaution(ev.Class, v)
	e.logger.Debug("interpret.evaluated",
		"analyte", string(rule.Analyte), "match", string(match), "value", v, "class", string(ev.Class))
	return ev
}

// ParseResult converts a Result string into a finite float.
func ParseResult(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	return v, nil
}
