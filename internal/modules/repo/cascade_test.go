package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/chatforge-io/chatforge/internal/modules/model"
)

func TestProjectDeletionStepOrder(t *testing.T) {
	d := NewProjectDeletion(uuid.New(), []uuid.UUID{uuid.New()})

	assert.Equal(t, []string{
		"nlu_models",
		"activity_logs",
		"instances",
		"core_policies",
		"credentials",
		"endpoints",
		"conversations",
		"story_groups",
		"stories",
		"slots",
		"bot_responses",
		"projects",
		"deployments",
		"role_bindings",
	}, d.StepNames())
}

// setupCascadeTestDB creates a test database connection for cascade tests
func setupCascadeTestDB(t *testing.T) *gorm.DB {
	// Skip if no test database is configured
	dsn := "host=localhost user=chatforge password=chatforge dbname=chatforge_test port=5432 sslmode=disable"
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Skip("Test database not available, skipping integration tests")
		return nil
	}

	err = db.AutoMigrate(
		&model.Project{},
		&model.NLUModel{},
		&model.Instance{},
		&model.CorePolicy{},
		&model.Credentials{},
		&model.Endpoints{},
		&model.Deployment{},
		&model.StoryGroup{},
		&model.Story{},
		&model.Slot{},
		&model.Conversation{},
		&model.BotResponse{},
		&model.ActivityLog{},
		&model.User{},
	)
	require.NoError(t, err)

	return db
}

func TestProjectDeletionExecute(t *testing.T) {
	db := setupCascadeTestDB(t)
	if db == nil {
		return // Test was skipped
	}
	ctx := context.Background()

	project := &model.Project{Name: "Doomed", Namespace: "doomed-" + uuid.NewString()[:8]}
	require.NoError(t, db.Create(project).Error)

	nluModel := &model.NLUModel{Name: "Doomed model", Language: "en"}
	require.NoError(t, db.Create(nluModel).Error)
	require.NoError(t, db.Model(project).Update("nlu_models", []uuid.UUID{nluModel.ID}).Error)

	seed := []any{
		&model.ActivityLog{ModelID: nluModel.ID, Text: "hi"},
		&model.Instance{ProjectID: project.ID, Host: "http://rasa:5005"},
		&model.CorePolicy{ProjectID: project.ID, Policies: "policies: []"},
		&model.Credentials{ProjectID: project.ID, Credentials: "rest: {}"},
		&model.Endpoints{ProjectID: project.ID, Endpoints: "nlg: {}"},
		&model.Deployment{ProjectID: project.ID},
		&model.StoryGroup{ProjectID: project.ID, Name: "Intro stories"},
		&model.Story{ProjectID: project.ID, StoryGroupID: uuid.New(), Title: "Greeting"},
		&model.Slot{ProjectID: project.ID, Name: "cuisine"},
		&model.Conversation{ProjectID: project.ID},
		&model.BotResponse{ProjectID: project.ID, Key: "utter_hello"},
	}
	for _, row := range seed {
		require.NoError(t, db.Create(row).Error)
	}

	bound := &model.User{
		Email:      "bound-" + uuid.NewString()[:8] + "@chatforge.local",
		APIKeyHMAC: uuid.NewString(),
		Roles:      map[string][]string{project.ID.String(): {"project-admin"}},
	}
	require.NoError(t, db.Create(bound).Error)
	defer db.Delete(bound)

	require.NoError(t, NewProjectDeletion(project.ID, []uuid.UUID{nluModel.ID}).Execute(ctx, db))

	var count int64
	for table, filter := range map[string][]any{
		"projects":      {"id = ?", project.ID},
		"nlu_models":    {"id = ?", nluModel.ID},
		"activity_logs": {"model_id = ?", nluModel.ID},
		"instances":     {"project_id = ?", project.ID},
		"core_policies": {"project_id = ?", project.ID},
		"credentials":   {"project_id = ?", project.ID},
		"endpoints":     {"project_id = ?", project.ID},
		"deployments":   {"project_id = ?", project.ID},
		"story_groups":  {"project_id = ?", project.ID},
		"stories":       {"project_id = ?", project.ID},
		"slots":         {"project_id = ?", project.ID},
		"conversations": {"project_id = ?", project.ID},
		"bot_responses": {"project_id = ?", project.ID},
	} {
		require.NoError(t, db.Table(table).Where(filter[0].(string), filter[1]).Count(&count).Error)
		assert.Zero(t, count, "rows left in %s", table)
	}

	// role binding pruned from the user
	var after model.User
	require.NoError(t, db.Where("id = ?", bound.ID).First(&after).Error)
	assert.NotContains(t, after.Roles, project.ID.String())

	// a second run is a no-op
	require.NoError(t, NewProjectDeletion(project.ID, []uuid.UUID{nluModel.ID}).Execute(ctx, db))
}
