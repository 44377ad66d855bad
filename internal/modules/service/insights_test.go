package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/chatforge-io/chatforge/internal/modules/model"
)

type MockNLUModelRepo struct{ mock.Mock }

func (m *MockNLUModelRepo) Create(ctx context.Context, nm *model.NLUModel) error {
	return m.Called(ctx, nm).Error(0)
}

func (m *MockNLUModelRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.NLUModel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.NLUModel), args.Error(1)
}

func (m *MockNLUModelRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.NLUModel, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.NLUModel), args.Error(1)
}

type MockBotResponseRepo struct{ mock.Mock }

func (m *MockBotResponseRepo) Create(ctx context.Context, b *model.BotResponse) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBotResponseRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*model.BotResponse, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.BotResponse), args.Error(1)
}

type insightsFixture struct {
	projects  *MockProjectRepo
	models    *MockNLUModelRepo
	stories   *MockStoryRepo
	slots     *MockSlotRepo
	responses *MockBotResponseRepo
	redis     *miniredis.Miniredis
	svc       InsightsService
}

func newInsightsFixture(t *testing.T) *insightsFixture {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	f := &insightsFixture{
		projects:  &MockProjectRepo{},
		models:    &MockNLUModelRepo{},
		stories:   &MockStoryRepo{},
		slots:     &MockSlotRepo{},
		responses: &MockBotResponseRepo{},
		redis:     mr,
	}
	f.svc = NewInsightsService(InsightsDeps{
		Projects:  f.projects,
		NLUModels: f.models,
		Stories:   f.stories,
		Slots:     f.slots,
		Responses: f.responses,
		Redis:     rdb,
		CacheTTL:  time.Minute,
		Log:       zap.NewNop(),
	})
	return f
}

func TestInsights_EntitiesAndIntents(t *testing.T) {
	f := newInsightsFixture(t)
	ctx := context.Background()
	projectID := uuid.New()
	modelID := uuid.New()

	f.projects.On("GetByID", mock.Anything, projectID).
		Return(&model.Project{ID: projectID, NLUModels: []uuid.UUID{modelID}}, nil)
	f.stories.On("ListByProject", mock.Anything, projectID).Return([]*model.Story{
		{Story: "* greet\n  - utter_hello"},
	}, nil)
	f.slots.On("ListByProject", mock.Anything, projectID).Return([]*model.Slot{}, nil)
	f.models.On("ListByIDs", mock.Anything, []uuid.UUID{modelID}).Return([]*model.NLUModel{
		{
			ID:       modelID,
			Language: "en",
			TrainingData: model.TrainingData{CommonExamples: []model.CommonExample{
				{
					Text:      "book a table in paris",
					Intent:    "book",
					Canonical: true,
					Entities:  []model.ExampleEntity{{Entity: "city", Value: "paris"}},
				},
				{Text: "hi there", Intent: "greet"},
			}},
		},
	}, nil)

	out, err := f.svc.EntitiesAndIntents(ctx, projectID, "en")
	require.NoError(t, err)

	// "greet" seeded from the story domain, "book" registered from training
	// data; only canonical examples land in the bucket
	require.Contains(t, out.Intents, "greet")
	require.Contains(t, out.Intents, "book")
	assert.Empty(t, out.Intents["greet"])
	require.Len(t, out.Intents["book"], 1)
	assert.Equal(t, []string{"city"}, out.Intents["book"][0].Entities)
	assert.Equal(t, []string{"city"}, out.Entities)
}

func TestInsights_EntitiesAndIntentsLanguageFilter(t *testing.T) {
	f := newInsightsFixture(t)
	ctx := context.Background()
	projectID := uuid.New()
	modelID := uuid.New()

	f.projects.On("GetByID", mock.Anything, projectID).
		Return(&model.Project{ID: projectID, NLUModels: []uuid.UUID{modelID}}, nil)
	f.stories.On("ListByProject", mock.Anything, projectID).Return([]*model.Story{}, nil)
	f.models.On("ListByIDs", mock.Anything, []uuid.UUID{modelID}).Return([]*model.NLUModel{
		{
			ID:       modelID,
			Language: "fr",
			TrainingData: model.TrainingData{CommonExamples: []model.CommonExample{
				{Text: "bonjour", Intent: "greet", Canonical: true},
			}},
		},
	}, nil)

	out, err := f.svc.EntitiesAndIntents(ctx, projectID, "en")
	require.NoError(t, err)
	assert.Empty(t, out.Intents)
	assert.Empty(t, out.Entities)
}

func TestInsights_EntitiesAndIntentsCached(t *testing.T) {
	f := newInsightsFixture(t)
	ctx := context.Background()
	projectID := uuid.New()

	f.projects.On("GetByID", mock.Anything, projectID).
		Return(&model.Project{ID: projectID}, nil).Once()
	f.stories.On("ListByProject", mock.Anything, projectID).Return([]*model.Story{}, nil).Once()
	f.models.On("ListByIDs", mock.Anything, []uuid.UUID(nil)).Return([]*model.NLUModel{}, nil).Once()

	_, err := f.svc.EntitiesAndIntents(ctx, projectID, "en")
	require.NoError(t, err)

	// second call is served from redis, no repo calls
	_, err = f.svc.EntitiesAndIntents(ctx, projectID, "en")
	require.NoError(t, err)
	f.projects.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestInsights_Actions(t *testing.T) {
	f := newInsightsFixture(t)
	ctx := context.Background()
	projectID := uuid.New()

	f.projects.On("GetByID", mock.Anything, projectID).
		Return(&model.Project{
			ID:            projectID,
			DefaultDomain: "actions:\n  - action_defaultdbqa\n",
		}, nil)
	f.responses.On("ListByProject", mock.Anything, projectID).Return([]*model.BotResponse{
		{Key: "utter_goodbye"},
	}, nil)
	f.stories.On("ListByProject", mock.Anything, projectID).Return([]*model.Story{
		{
			Story: "* greet\n  - utter_hello",
			Branches: []model.StoryBranch{
				{Story: "* book\n  - action_book"},
			},
		},
	}, nil)
	f.slots.On("ListByProject", mock.Anything, projectID).Return([]*model.Slot{}, nil)

	actions, err := f.svc.Actions(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, []string{"action_defaultdbqa", "utter_hello", "action_book", "utter_goodbye"}, actions)
}

func TestInsights_ActionsNoStories(t *testing.T) {
	f := newInsightsFixture(t)
	ctx := context.Background()
	projectID := uuid.New()

	f.projects.On("GetByID", mock.Anything, projectID).
		Return(&model.Project{ID: projectID, DefaultDomain: "actions:\n  - action_x\n"}, nil)
	f.responses.On("ListByProject", mock.Anything, projectID).Return([]*model.BotResponse{
		{Key: "utter_goodbye"},
	}, nil)
	f.stories.On("ListByProject", mock.Anything, projectID).Return([]*model.Story{}, nil)

	actions, err := f.svc.Actions(ctx, projectID)
	require.NoError(t, err)
	// no stories means no extracted domain at all
	assert.Empty(t, actions)
}

func TestInsights_Invalidate(t *testing.T) {
	f := newInsightsFixture(t)
	ctx := context.Background()
	projectID := uuid.New()
	other := uuid.New()

	f.projects.On("GetByID", mock.Anything, projectID).Return(&model.Project{ID: projectID}, nil)
	f.stories.On("ListByProject", mock.Anything, projectID).Return([]*model.Story{}, nil)
	f.models.On("ListByIDs", mock.Anything, []uuid.UUID(nil)).Return([]*model.NLUModel{}, nil)

	_, err := f.svc.EntitiesAndIntents(ctx, projectID, "en")
	require.NoError(t, err)

	f.redis.Set("insights:"+other.String()+":actions", "[]")

	require.NoError(t, f.svc.Invalidate(ctx, projectID))

	assert.False(t, f.redis.Exists(entitiesIntentsKey(projectID, "en")))
	assert.True(t, f.redis.Exists("insights:"+other.String()+":actions"))
}
