package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/chatforge-io/chatforge/internal/modules/model"
	"github.com/chatforge-io/chatforge/internal/modules/repo"
	"github.com/chatforge-io/chatforge/internal/pkg/storydsl"
)

// InsightsService answers the read-composition queries over stories, slots,
// templates and training data. Results are cached in redis and invalidated
// by the worker on project and training events.
type InsightsService interface {
	EntitiesAndIntents(ctx context.Context, projectID uuid.UUID, language string) (*EntitiesAndIntents, error)
	Actions(ctx context.Context, projectID uuid.UUID) ([]string, error)
	Invalidate(ctx context.Context, projectID uuid.UUID) error
}

// EntitiesAndIntents buckets canonical training examples under their intent.
// Intents seeded from the story domain map to empty buckets.
type EntitiesAndIntents struct {
	Intents  map[string][]IntentExample `json:"intents"`
	Entities []string                   `json:"entities"`
}

type IntentExample struct {
	Entities []string            `json:"entities"`
	Example  model.CommonExample `json:"example"`
}

type InsightsDeps struct {
	Projects  repo.ProjectRepo
	NLUModels repo.NLUModelRepo
	Stories   repo.StoryRepo
	Slots     repo.SlotRepo
	Responses repo.BotResponseRepo
	Redis     *redis.Client
	CacheTTL  time.Duration
	Log       *zap.Logger
}

type insightsService struct {
	d InsightsDeps
}

func NewInsightsService(d InsightsDeps) InsightsService {
	return &insightsService{d: d}
}

func entitiesIntentsKey(projectID uuid.UUID, language string) string {
	return fmt.Sprintf("insights:%s:entities_intents:%s", projectID, language)
}

func actionsKey(projectID uuid.UUID) string {
	return fmt.Sprintf("insights:%s:actions", projectID)
}

func (s *insightsService) EntitiesAndIntents(ctx context.Context, projectID uuid.UUID, language string) (*EntitiesAndIntents, error) {
	key := entitiesIntentsKey(projectID, language)
	if cached, err := s.d.Redis.Get(ctx, key).Result(); err == nil {
		var out EntitiesAndIntents
		if err := sonic.UnmarshalString(cached, &out); err == nil {
			return &out, nil
		}
	} else if err != redis.Nil {
		s.d.Log.Warn("insight cache read", zap.Error(err))
	}

	p, err := s.d.Projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	domain, err := s.storyDomain(ctx, projectID, nil, "")
	if err != nil {
		return nil, err
	}

	examples, err := s.trainingExamples(ctx, p, language)
	if err != nil {
		return nil, err
	}
	out := bucketExamples(examples, domain.Intents, domain.Entities)

	s.cacheSet(ctx, key, out)
	return out, nil
}

// Actions extracts the action set referenced by stories, merged with the
// project default domain and the response template names.
func (s *insightsService) Actions(ctx context.Context, projectID uuid.UUID) ([]string, error) {
	key := actionsKey(projectID)
	if cached, err := s.d.Redis.Get(ctx, key).Result(); err == nil {
		var out []string
		if err := sonic.UnmarshalString(cached, &out); err == nil {
			return out, nil
		}
	} else if err != redis.Nil {
		s.d.Log.Warn("insight cache read", zap.Error(err))
	}

	p, err := s.d.Projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	responses, err := s.d.Responses.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	templates := make([]string, len(responses))
	for i, r := range responses {
		templates[i] = r.Key
	}

	domain, err := s.storyDomain(ctx, projectID, templates, p.DefaultDomain)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, domain.Actions)
	return domain.Actions, nil
}

// Invalidate drops every cached insight for the project.
func (s *insightsService) Invalidate(ctx context.Context, projectID uuid.UUID) error {
	pattern := fmt.Sprintf("insights:%s:*", projectID)
	iter := s.d.Redis.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := s.d.Redis.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *insightsService) cacheSet(ctx context.Context, key string, v any) {
	raw, err := sonic.MarshalString(v)
	if err != nil {
		return
	}
	if err := s.d.Redis.Set(ctx, key, raw, s.d.CacheTTL).Err(); err != nil {
		s.d.Log.Warn("insight cache write", zap.Error(err))
	}
}

// storyDomain flattens every story, including branches, and runs domain
// extraction over the combined text. No stories means an empty domain; the
// default domain blob is ignored in that case, matching the lifetime of
// domains compiled from story content.
func (s *insightsService) storyDomain(ctx context.Context, projectID uuid.UUID, templates []string, defaultDomainYAML string) (storydsl.Domain, error) {
	stories, err := s.d.Stories.ListByProject(ctx, projectID)
	if err != nil {
		return storydsl.Domain{}, err
	}
	if len(stories) == 0 {
		return storydsl.Domain{}, nil
	}

	slots, err := s.d.Slots.ListByProject(ctx, projectID)
	if err != nil {
		return storydsl.Domain{}, err
	}
	dslSlots := make([]storydsl.Slot, len(slots))
	for i, sl := range slots {
		dslSlots[i] = storydsl.Slot{Name: sl.Name, Type: sl.Type}
	}

	var texts []string
	for _, st := range stories {
		texts = append(texts, storydsl.Flatten(toDSLStory(st))...)
	}
	return storydsl.ExtractDomain(texts, dslSlots, templates, defaultDomainYAML)
}

func toDSLStory(st *model.Story) storydsl.Story {
	return storydsl.Story{
		Title:    st.Title,
		Story:    st.Story,
		Branches: toDSLBranches(st.Branches),
	}
}

func toDSLBranches(branches []model.StoryBranch) []storydsl.Story {
	if len(branches) == 0 {
		return nil
	}
	out := make([]storydsl.Story, len(branches))
	for i, b := range branches {
		out[i] = storydsl.Story{Title: b.Title, Story: b.Story, Branches: toDSLBranches(b.Branches)}
	}
	return out
}

func (s *insightsService) trainingExamples(ctx context.Context, p *model.Project, language string) ([]model.CommonExample, error) {
	models, err := s.d.NLUModels.ListByIDs(ctx, p.NLUModels)
	if err != nil {
		return nil, err
	}
	var examples []model.CommonExample
	for _, m := range models {
		if m.Language != language {
			continue
		}
		examples = append(examples, m.TrainingData.CommonExamples...)
	}
	return examples, nil
}

// bucketExamples seeds the intent map from the story domain, then walks the
// training data: every example registers its intent and entities, canonical
// examples are additionally kept under their intent bucket.
func bucketExamples(examples []model.CommonExample, startIntents, startEntities []string) *EntitiesAndIntents {
	intents := make(map[string][]IntentExample, len(startIntents))
	for _, in := range startIntents {
		intents[in] = []IntentExample{}
	}
	entities := append([]string(nil), startEntities...)
	seen := make(map[string]bool, len(entities))
	for _, e := range entities {
		seen[e] = true
	}

	for _, ex := range examples {
		names := make([]string, len(ex.Entities))
		for i, en := range ex.Entities {
			names[i] = en.Entity
			if !seen[en.Entity] {
				seen[en.Entity] = true
				entities = append(entities, en.Entity)
			}
		}
		if _, ok := intents[ex.Intent]; !ok {
			intents[ex.Intent] = []IntentExample{}
		}
		if ex.Canonical {
			intents[ex.Intent] = append(intents[ex.Intent], IntentExample{Entities: names, Example: ex})
		}
	}
	return &EntitiesAndIntents{Intents: intents, Entities: entities}
}
