// Package storydsl parses the markdown story format and derives the domain
// (intents, entities, actions) referenced by a set of stories.
package storydsl

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"
)

// Story is a story body plus its branch tree. Branch bodies continue the
// parent story, so domain extraction walks every path.
type Story struct {
	Story    string  `json:"story"`
	Title    string  `json:"title"`
	Branches []Story `json:"branches"`
}

// Slot is the subset of the slot document the extractor needs.
type Slot struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Domain is the union of symbols referenced by stories, templates and the
// project default domain. Lists keep first-seen order.
type Domain struct {
	Intents  []string `json:"intents"`
	Entities []string `json:"entities"`
	Actions  []string `json:"actions"`
}

// Flatten returns the story body followed by every branch body, depth first.
func Flatten(s Story) []string {
	out := []string{s.Story}
	for _, b := range s.Branches {
		out = append(out, Flatten(b)...)
	}
	return out
}

type defaultDomainFile struct {
	Intents  []string `yaml:"intents"`
	Entities []string `yaml:"entities"`
	Actions  []string `yaml:"actions"`
}

type ordered struct {
	seen map[string]bool
	list []string
}

func (o *ordered) add(v string) {
	if v == "" || o.seen[v] {
		return
	}
	o.seen[v] = true
	o.list = append(o.list, v)
}

func newOrdered() *ordered {
	return &ordered{seen: map[string]bool{}}
}

// ExtractDomain scans story bodies for user lines ("* intent{...}") and bot
// lines ("- action"), merges in response template names and the default
// domain yaml, and returns the resulting domain. Slots do not contribute
// symbols but are accepted so callers can pass the full project context.
func ExtractDomain(storyTexts []string, slots []Slot, templates []string, defaultDomainYAML string) (Domain, error) {
	_ = slots

	intents := newOrdered()
	entities := newOrdered()
	actions := newOrdered()

	if defaultDomainYAML != "" {
		var dd defaultDomainFile
		if err := yaml.Unmarshal([]byte(defaultDomainYAML), &dd); err != nil {
			return Domain{}, fmt.Errorf("parse default domain: %w", err)
		}
		for _, v := range dd.Intents {
			intents.add(v)
		}
		for _, v := range dd.Entities {
			entities.add(v)
		}
		for _, v := range dd.Actions {
			actions.add(v)
		}
	}

	for _, text := range storyTexts {
		for _, raw := range strings.Split(text, "\n") {
			line := strings.TrimSpace(raw)
			switch {
			case strings.HasPrefix(line, "*"):
				intent, ents, err := parseUserLine(line)
				if err != nil {
					return Domain{}, err
				}
				intents.add(intent)
				for _, e := range ents {
					entities.add(e)
				}
			case strings.HasPrefix(line, "-"):
				actions.add(strings.TrimSpace(strings.TrimPrefix(line, "-")))
			}
		}
	}

	for _, t := range templates {
		actions.add(t)
	}

	return Domain{Intents: intents.list, Entities: entities.list, Actions: actions.list}, nil
}

// parseUserLine splits "* intent{\"k\": \"v\"}" into the intent name and the
// sorted entity names from the payload.
func parseUserLine(line string) (string, []string, error) {
	body := strings.TrimSpace(strings.TrimPrefix(line, "*"))
	brace := strings.Index(body, "{")
	if brace < 0 {
		return body, nil, nil
	}

	intent := strings.TrimSpace(body[:brace])
	var payload map[string]any
	if err := sonic.UnmarshalString(body[brace:], &payload); err != nil {
		return "", nil, fmt.Errorf("parse entities in %q: %w", line, err)
	}
	ents := make([]string, 0, len(payload))
	for k := range payload {
		ents = append(ents, k)
	}
	sort.Strings(ents)
	return intent, ents, nil
}
