package storydsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	s := Story{
		Story: "root",
		Branches: []Story{
			{Story: "a", Branches: []Story{{Story: "a1"}}},
			{Story: "b"},
		},
	}
	assert.Equal(t, []string{"root", "a", "a1", "b"}, Flatten(s))
}

func TestExtractDomainFromStories(t *testing.T) {
	stories := []string{
		"* greet\n  - utter_hello\n* book{\"city\": \"paris\", \"date\": \"tomorrow\"}\n  - action_book",
		"* greet\n  - utter_hello",
	}

	d, err := ExtractDomain(stories, nil, nil, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"greet", "book"}, d.Intents)
	assert.Equal(t, []string{"city", "date"}, d.Entities)
	assert.Equal(t, []string{"utter_hello", "action_book"}, d.Actions)
}

func TestExtractDomainMergesDefaultDomainAndTemplates(t *testing.T) {
	defaultDomain := `
intents:
  - get_started
entities:
  - name
actions:
  - action_defaultdbqa
`
	stories := []string{"* get_started\n  - utter_get_started"}

	d, err := ExtractDomain(stories, nil, []string{"utter_goodbye", "utter_get_started"}, defaultDomain)
	require.NoError(t, err)

	assert.Equal(t, []string{"get_started"}, d.Intents)
	assert.Equal(t, []string{"name"}, d.Entities)
	// default domain first, then story actions, then unseen templates
	assert.Equal(t, []string{"action_defaultdbqa", "utter_get_started", "utter_goodbye"}, d.Actions)
}

func TestExtractDomainBadYAML(t *testing.T) {
	_, err := ExtractDomain(nil, nil, nil, "{not yaml: [")
	assert.Error(t, err)
}

func TestExtractDomainBadEntityPayload(t *testing.T) {
	_, err := ExtractDomain([]string{"* greet{broken"}, nil, nil, "")
	assert.Error(t, err)
}

func TestExtractDomainEmptyStories(t *testing.T) {
	d, err := ExtractDomain(nil, []Slot{{Name: "cuisine", Type: "text"}}, nil, "")
	require.NoError(t, err)
	assert.Empty(t, d.Intents)
	assert.Empty(t, d.Entities)
	assert.Empty(t, d.Actions)
}
