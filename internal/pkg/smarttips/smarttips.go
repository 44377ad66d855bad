// Package smarttips flags logged utterances worth reviewing. Classification
// is an ordered rule chain; the first rule that matches produces the tip and
// later rules are not consulted.
package smarttips

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Tip codes, in rule order.
const (
	CodeOutdated        = "outdated"
	CodeIntentBelowTh   = "intentBelowTh"
	CodeEntitiesBelowTh = "entitiesBelowTh"
	CodeEntitiesInTD    = "entitiesInTD"
	CodeAboveTh         = "aboveTh"
)

const (
	tipOutdated       = "Outdated"
	tipLowConfidence  = "Low confidence"
	tipHighConfidence = "High confidence"

	labelingChangedMessage = "You have made some changes to the labeling."
	outdatedMessage        = "The model was trained since this utterance was logged."
)

// Entity is a named entity with its prediction confidence.
type Entity struct {
	Entity     string  `json:"entity"`
	Confidence float64 `json:"confidence"`
}

// Utterance is a logged user message with its NLU prediction.
type Utterance struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Intent     string    `json:"intent"`
	Confidence float64   `json:"confidence"`
	Entities   []Entity  `json:"entities"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Example is a training example from the model's common examples.
type Example struct {
	Text      string   `json:"text"`
	Intent    string   `json:"intent"`
	Entities  []Entity `json:"entities"`
	Canonical bool     `json:"canonical"`
}

// Context carries the per-project inputs the rules compare against.
type Context struct {
	Threshold       float64
	TrainingEndTime *time.Time
	Examples        []Example
}

// Tip is the classification result. ExtraEntities is only populated by the
// entitiesInTD rule.
type Tip struct {
	Tip           string   `json:"tip"`
	Code          string   `json:"code"`
	Message       string   `json:"message"`
	ExtraEntities []string `json:"extraEntities"`
}

type rule struct {
	code  string
	match func(ctx Context, u Utterance) (Tip, bool)
}

// rules are evaluated in order; the final rule always matches. aboveTh is a
// fallback by elimination: it does not verify that any confidence actually
// exceeds the threshold, only that no earlier rule fired.
var rules = []rule{
	{CodeOutdated, matchOutdated},
	{CodeIntentBelowTh, matchIntentBelowTh},
	{CodeEntitiesBelowTh, matchEntitiesBelowTh},
	{CodeEntitiesInTD, matchEntitiesInTD},
	{CodeAboveTh, matchAboveTh},
}

// Classify runs the rule chain over one utterance.
func Classify(ctx Context, u Utterance) Tip {
	for _, r := range rules {
		if tip, ok := r.match(ctx, u); ok {
			return tip
		}
	}
	// unreachable, matchAboveTh always matches
	return Tip{}
}

// ClassifyAll classifies a batch and keys results by utterance id.
func ClassifyAll(ctx Context, utterances []Utterance) map[string]Tip {
	out := make(map[string]Tip, len(utterances))
	for _, u := range utterances {
		out[u.ID] = Classify(ctx, u)
	}
	return out
}

// roundPercent renders a confidence as a percentage with two decimals.
func roundPercent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 2, 64)
}

func matchOutdated(ctx Context, u Utterance) (Tip, bool) {
	if ctx.TrainingEndTime == nil || !u.UpdatedAt.Before(*ctx.TrainingEndTime) {
		return Tip{}, false
	}
	return Tip{Tip: tipOutdated, Code: CodeOutdated, Message: outdatedMessage}, true
}

func matchIntentBelowTh(ctx Context, u Utterance) (Tip, bool) {
	if u.Confidence >= ctx.Threshold {
		return Tip{}, false
	}
	msg := labelingChangedMessage
	if u.Confidence > 0 {
		msg = fmt.Sprintf(
			"Intent *%s* was predicted with confidence %s, which is below your set threshold.",
			u.Intent, roundPercent(u.Confidence),
		)
	}
	return Tip{Tip: tipLowConfidence, Code: CodeIntentBelowTh, Message: msg}, true
}

func matchEntitiesBelowTh(ctx Context, u Utterance) (Tip, bool) {
	var low []Entity
	for _, e := range u.Entities {
		if e.Confidence < ctx.Threshold {
			low = append(low, e)
		}
	}
	if len(low) == 0 {
		return Tip{}, false
	}

	allPositive := true
	names := make([]string, len(low))
	confs := make([]string, len(low))
	for i, e := range low {
		names[i] = "*" + e.Entity + "*"
		confs[i] = roundPercent(e.Confidence)
		if e.Confidence <= 0 {
			allPositive = false
		}
	}

	msg := labelingChangedMessage
	if allPositive {
		noun, verb := "Entity", "was"
		if len(low) > 1 {
			noun, verb = "Entities", "were"
		}
		msg = fmt.Sprintf(
			"%s %s %s predicted with confidence %s, which is below your set threshold.",
			noun, strings.Join(names, ", "), verb, strings.Join(confs, ", "),
		)
	}
	return Tip{Tip: tipLowConfidence, Code: CodeEntitiesBelowTh, Message: msg}, true
}

// matchEntitiesInTD looks for canonical examples with the same intent whose
// entity set strictly contains the utterance's, and flags the extra entities.
func matchEntitiesInTD(ctx Context, u Utterance) (Tip, bool) {
	present := make(map[string]bool, len(u.Entities))
	for _, e := range u.Entities {
		present[e.Entity] = true
	}

	seen := make(map[string]bool)
	var extra []string
	for _, ex := range ctx.Examples {
		if !ex.Canonical || ex.Intent != u.Intent {
			continue
		}
		exSet := make(map[string]bool, len(ex.Entities))
		for _, e := range ex.Entities {
			exSet[e.Entity] = true
		}
		superset := true
		for name := range present {
			if !exSet[name] {
				superset = false
				break
			}
		}
		if !superset || len(exSet) <= len(present) {
			continue
		}
		for _, e := range ex.Entities {
			if !present[e.Entity] && !seen[e.Entity] {
				seen[e.Entity] = true
				extra = append(extra, e.Entity)
			}
		}
	}
	if len(extra) == 0 {
		return Tip{}, false
	}

	names := make([]string, len(extra))
	for i, n := range extra {
		names[i] = "*" + n + "*"
	}
	noun := "entity"
	if len(extra) > 1 {
		noun = "entities"
	}
	msg := fmt.Sprintf(
		"Are you sure this utterance does not contain %s %s? If so, we recommend you delete this utterance, since confidence levels of prediction exceed your set threshold.",
		noun, strings.Join(names, ", "),
	)
	return Tip{Tip: tipHighConfidence, Code: CodeEntitiesInTD, Message: msg, ExtraEntities: extra}, true
}

func matchAboveTh(_ Context, u Utterance) (Tip, bool) {
	if len(u.Entities) == 0 {
		msg := fmt.Sprintf(
			"Intent *%s* was predicted with a confidence level above your set threshold. We recommend you delete this kind of utterance.",
			u.Intent,
		)
		return Tip{Tip: tipHighConfidence, Code: CodeAboveTh, Message: msg}, true
	}

	names := make([]string, len(u.Entities))
	for i, e := range u.Entities {
		names[i] = "*" + e.Entity + "*"
	}
	noun := "entity"
	if len(u.Entities) > 1 {
		noun = "entities"
	}
	msg := fmt.Sprintf(
		"Intent *%s* and %s %s were predicted with a confidence level above your set threshold. We recommend you delete this kind of utterance.",
		u.Intent, noun, strings.Join(names, ", "),
	)
	return Tip{Tip: tipHighConfidence, Code: CodeAboveTh, Message: msg}, true
}
