package smarttips

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestClassifyOutdatedDominates(t *testing.T) {
	end := ts("2024-05-02T00:00:00Z")
	ctx := Context{Threshold: 0.5, TrainingEndTime: &end}
	u := Utterance{
		Intent:     "greet",
		Confidence: 0.1, // would be intentBelowTh otherwise
		UpdatedAt:  ts("2024-05-01T00:00:00Z"),
	}

	tip := Classify(ctx, u)
	assert.Equal(t, CodeOutdated, tip.Code)
	assert.Equal(t, "Outdated", tip.Tip)
	assert.Equal(t, "The model was trained since this utterance was logged.", tip.Message)
}

func TestClassifyNotOutdatedWhenLoggedAfterTraining(t *testing.T) {
	end := ts("2024-05-02T00:00:00Z")
	ctx := Context{Threshold: 0.5, TrainingEndTime: &end}
	u := Utterance{Intent: "greet", Confidence: 0.9, UpdatedAt: ts("2024-05-03T00:00:00Z")}

	assert.Equal(t, CodeAboveTh, Classify(ctx, u).Code)
}

func TestClassifyIntentBelowThreshold(t *testing.T) {
	ctx := Context{Threshold: 0.5}
	u := Utterance{Intent: "greet", Confidence: 0.3}

	tip := Classify(ctx, u)
	assert.Equal(t, CodeIntentBelowTh, tip.Code)
	assert.Equal(t, "Low confidence", tip.Tip)
	assert.Contains(t, tip.Message, "30.00")
	assert.Contains(t, tip.Message, "*greet*")
}

func TestClassifyIntentZeroConfidence(t *testing.T) {
	ctx := Context{Threshold: 0.5}
	u := Utterance{Intent: "greet", Confidence: 0}

	tip := Classify(ctx, u)
	assert.Equal(t, CodeIntentBelowTh, tip.Code)
	assert.Equal(t, "You have made some changes to the labeling.", tip.Message)
}

func TestClassifyEntitiesBelowThreshold(t *testing.T) {
	ctx := Context{Threshold: 0.5}
	u := Utterance{
		Intent:     "book",
		Confidence: 0.9,
		Entities: []Entity{
			{Entity: "city", Confidence: 0.2},
			{Entity: "date", Confidence: 0.4},
		},
	}

	tip := Classify(ctx, u)
	assert.Equal(t, CodeEntitiesBelowTh, tip.Code)
	assert.Contains(t, tip.Message, "Entities *city*, *date* were predicted")
	assert.Contains(t, tip.Message, "20.00, 40.00")
}

func TestClassifyEntitiesBelowThresholdSingular(t *testing.T) {
	ctx := Context{Threshold: 0.5}
	u := Utterance{
		Intent:     "book",
		Confidence: 0.9,
		Entities:   []Entity{{Entity: "city", Confidence: 0.2}},
	}

	tip := Classify(ctx, u)
	assert.Equal(t, CodeEntitiesBelowTh, tip.Code)
	assert.Contains(t, tip.Message, "Entity *city* was predicted")
}

func TestClassifyEntitiesBelowThresholdZeroConfidence(t *testing.T) {
	ctx := Context{Threshold: 0.5}
	u := Utterance{
		Intent:     "book",
		Confidence: 0.9,
		Entities: []Entity{
			{Entity: "city", Confidence: 0.4},
			{Entity: "date", Confidence: 0},
		},
	}

	tip := Classify(ctx, u)
	assert.Equal(t, CodeEntitiesBelowTh, tip.Code)
	assert.Equal(t, "You have made some changes to the labeling.", tip.Message)
}

func TestClassifyEntitiesInTrainingData(t *testing.T) {
	ctx := Context{
		Threshold: 0.5,
		Examples: []Example{
			{
				Intent:    "book",
				Canonical: true,
				Entities:  []Entity{{Entity: "city"}, {Entity: "date"}},
			},
			{
				// same entities, not canonical: must not contribute
				Intent:   "book",
				Entities: []Entity{{Entity: "city"}, {Entity: "time"}},
			},
			{
				// different intent: must not contribute
				Intent:    "cancel",
				Canonical: true,
				Entities:  []Entity{{Entity: "city"}, {Entity: "reason"}},
			},
		},
	}
	u := Utterance{
		Intent:     "book",
		Confidence: 0.9,
		Entities:   []Entity{{Entity: "city", Confidence: 0.8}},
	}

	tip := Classify(ctx, u)
	assert.Equal(t, CodeEntitiesInTD, tip.Code)
	assert.Equal(t, "High confidence", tip.Tip)
	assert.Equal(t, []string{"date"}, tip.ExtraEntities)
	assert.Contains(t, tip.Message, "entity *date*")
}

func TestClassifyEntitiesInTDRequiresStrictSuperset(t *testing.T) {
	ctx := Context{
		Threshold: 0.5,
		Examples: []Example{
			{
				// equal set, not a strict superset
				Intent:    "book",
				Canonical: true,
				Entities:  []Entity{{Entity: "city"}},
			},
			{
				// missing "city", not a superset at all
				Intent:    "book",
				Canonical: true,
				Entities:  []Entity{{Entity: "date"}},
			},
		},
	}
	u := Utterance{
		Intent:     "book",
		Confidence: 0.9,
		Entities:   []Entity{{Entity: "city", Confidence: 0.8}},
	}

	assert.Equal(t, CodeAboveTh, Classify(ctx, u).Code)
}

func TestClassifyAboveThresholdFallback(t *testing.T) {
	ctx := Context{Threshold: 0.5}
	u := Utterance{Intent: "greet", Confidence: 0.95}

	tip := Classify(ctx, u)
	assert.Equal(t, CodeAboveTh, tip.Code)
	assert.Equal(t, "Intent *greet* was predicted with a confidence level above your set threshold. We recommend you delete this kind of utterance.", tip.Message)
}

func TestClassifyAboveThresholdWithEntities(t *testing.T) {
	ctx := Context{Threshold: 0.5}
	u := Utterance{
		Intent:     "book",
		Confidence: 0.95,
		Entities: []Entity{
			{Entity: "city", Confidence: 0.9},
			{Entity: "date", Confidence: 0.8},
		},
	}

	tip := Classify(ctx, u)
	assert.Equal(t, CodeAboveTh, tip.Code)
	assert.Contains(t, tip.Message, "Intent *book* and entities *city*, *date*")
}

func TestClassifyAll(t *testing.T) {
	ctx := Context{Threshold: 0.5}
	tips := ClassifyAll(ctx, []Utterance{
		{ID: "u1", Intent: "greet", Confidence: 0.3},
		{ID: "u2", Intent: "greet", Confidence: 0.9},
	})

	assert.Len(t, tips, 2)
	assert.Equal(t, CodeIntentBelowTh, tips["u1"].Code)
	assert.Equal(t, CodeAboveTh, tips["u2"].Code)
}
