package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chatforge-io/chatforge/internal/infra/httpclient"
	"github.com/chatforge-io/chatforge/internal/modules/model"
	"github.com/chatforge-io/chatforge/internal/modules/repo"
)

// ProjectService orchestrates the project lifecycle: creation seeds every
// dependent resource in a fixed order, deletion tears them down through the
// ordered manifest.
type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput) (*model.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	List(ctx context.Context) ([]*model.Project, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, id uuid.UUID, opts DeleteOptions) error
	MarkTrainingStarted(ctx context.Context, id uuid.UUID) error
	MarkTrainingStopped(ctx context.Context, id uuid.UUID, status, message string) error
	GetDefaultLanguage(ctx context.Context, id uuid.UUID) (string, error)
	GetDeploymentEnvironments(ctx context.Context, id uuid.UUID) ([]string, error)
	GetSlots(ctx context.Context, id uuid.UUID) ([]*model.Slot, error)
}

type CreateProjectInput struct {
	Name            string  `json:"name"`
	Namespace       string  `json:"namespace"`
	DefaultLanguage string  `json:"default_language"`
	NLUThreshold    float64 `json:"nlu_threshold"`
}

type DeleteOptions struct {
	// FailSilently swallows teardown errors so callers can clean up after a
	// partial creation without surfacing secondary failures.
	FailSilently bool
}

type ProjectDeps struct {
	Cascade     repo.CascadeRunner
	Projects    repo.ProjectRepo
	Instances   repo.InstanceRepo
	Policies    repo.CorePolicyRepo
	Credentials repo.CredentialsRepo
	Endpoints   repo.EndpointsRepo
	Deployments repo.DeploymentRepo
	StoryGroups repo.StoryGroupRepo
	Stories     repo.StoryRepo
	Slots       repo.SlotRepo
	Runner      InstanceRunner
	Events      EventPublisher
	Log         *zap.Logger
}

// InstanceRunner is satisfied by httpclient.RunnerClient.
type InstanceRunner interface {
	ProvisionInstance(ctx context.Context, in httpclient.ProvisionInstanceRequest) (*httpclient.ProvisionedInstance, error)
	DeprovisionInstance(ctx context.Context, projectID uuid.UUID) error
}

type projectService struct {
	d ProjectDeps
}

func NewProjectService(d ProjectDeps) ProjectService {
	return &projectService{d: d}
}

// Create inserts the project and then seeds endpoints, deployment,
// credentials, policies and the two initial story groups, in that order,
// before waiting on instance provisioning. Any failure triggers a silent
// compensating delete of everything created so far.
func (s *projectService) Create(ctx context.Context, in CreateProjectInput) (*model.Project, error) {
	if in.DefaultLanguage == "" {
		in.DefaultLanguage = "en"
	}
	if in.NLUThreshold == 0 {
		in.NLUThreshold = 0.75
	}

	p := &model.Project{
		Name:            in.Name,
		Namespace:       in.Namespace,
		DefaultLanguage: in.DefaultLanguage,
		DefaultDomain:   defaultDomain,
		NLUThreshold:    in.NLUThreshold,
	}
	if err := s.d.Projects.Create(ctx, p); err != nil {
		return nil, err
	}

	if err := s.seedResources(ctx, p); err != nil {
		s.compensate(ctx, p.ID)
		return nil, err
	}

	instance, err := s.d.Runner.ProvisionInstance(ctx, httpclient.ProvisionInstanceRequest{
		ProjectID: p.ID,
		Namespace: p.Namespace,
		Language:  p.DefaultLanguage,
	})
	if err != nil {
		s.compensate(ctx, p.ID)
		return nil, err
	}
	inst := &model.Instance{ProjectID: p.ID, Host: instance.Host, Token: instance.Token}
	if err := s.d.Instances.Create(ctx, inst); err != nil {
		s.compensate(ctx, p.ID)
		return nil, err
	}
	if err := s.d.Projects.SetInstanceID(ctx, p.ID, inst.ID); err != nil {
		s.compensate(ctx, p.ID)
		return nil, err
	}
	p.InstanceID = &inst.ID

	if err := s.d.Events.PublishJSON(ctx, RKProjectCreated, ProjectEvent{
		ProjectID: p.ID, Namespace: p.Namespace, At: time.Now().UTC(),
	}); err != nil {
		s.d.Log.Warn("publish project.created", zap.Error(err))
	}
	return p, nil
}

func (s *projectService) seedResources(ctx context.Context, p *model.Project) error {
	if err := s.d.Endpoints.Create(ctx, &model.Endpoints{
		ProjectID: p.ID, Environment: "development", Endpoints: defaultEndpoints,
	}); err != nil {
		return err
	}
	if err := s.d.Deployments.Create(ctx, &model.Deployment{ProjectID: p.ID}); err != nil {
		return err
	}
	if err := s.d.Credentials.Create(ctx, &model.Credentials{
		ProjectID: p.ID, Environment: "development", Credentials: defaultCredentials,
	}); err != nil {
		return err
	}
	if err := s.d.Policies.Create(ctx, &model.CorePolicy{
		ProjectID: p.ID, Policies: defaultPolicies,
	}); err != nil {
		return err
	}

	intro := &model.StoryGroup{ProjectID: p.ID, Name: introStoryGroupName, Intro: true}
	if err := s.d.StoryGroups.Create(ctx, intro); err != nil {
		return err
	}
	if err := s.d.Stories.Create(ctx, &model.Story{
		ProjectID: p.ID, StoryGroupID: intro.ID, Title: "Get started", Story: introStory,
	}); err != nil {
		return err
	}

	def := &model.StoryGroup{ProjectID: p.ID, Name: defaultStoryGroupName}
	if err := s.d.StoryGroups.Create(ctx, def); err != nil {
		return err
	}
	return s.d.Stories.Create(ctx, &model.Story{
		ProjectID: p.ID, StoryGroupID: def.ID, Title: "Fallback", Story: defaultFallbackStory,
	})
}

func (s *projectService) compensate(ctx context.Context, id uuid.UUID) {
	if err := s.Delete(ctx, id, DeleteOptions{FailSilently: true}); err != nil {
		s.d.Log.Error("compensating delete failed", zap.String("project_id", id.String()), zap.Error(err))
	}
}

func (s *projectService) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	p, err := s.d.Projects.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	return p, err
}

func (s *projectService) List(ctx context.Context) ([]*model.Project, error) {
	return s.d.Projects.List(ctx)
}

// Update applies a partial update. created_at is immutable and silently
// dropped from the patch, as are the id fields.
func (s *projectService) Update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	delete(fields, "created_at")
	delete(fields, "createdAt")
	delete(fields, "id")
	delete(fields, "_id")
	if len(fields) == 0 {
		return nil
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.d.Projects.UpdateFields(ctx, id, fields); err != nil {
		return err
	}

	// cached insight compositions read default_domain and the model list, so
	// an update has to reach the invalidation worker
	if err := s.d.Events.PublishJSON(ctx, RKProjectUpdated, ProjectEvent{
		ProjectID: id, Namespace: p.Namespace, At: time.Now().UTC(),
	}); err != nil {
		s.d.Log.Warn("publish project.updated", zap.Error(err))
	}
	return nil
}

// Delete runs the ordered teardown manifest. The instance runtime is
// deprovisioned first; dependent rows go before the project row so a crash
// mid-way never leaves orphans pointing at a deleted project.
func (s *projectService) Delete(ctx context.Context, id uuid.UUID, opts DeleteOptions) error {
	fail := func(err error) error {
		if opts.FailSilently {
			s.d.Log.Warn("project delete", zap.String("project_id", id.String()), zap.Error(err))
			return nil
		}
		return err
	}

	p, err := s.d.Projects.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(ErrProjectNotFound)
	}
	if err != nil {
		return fail(err)
	}

	if err := s.d.Runner.DeprovisionInstance(ctx, id); err != nil {
		s.d.Log.Warn("deprovision instance", zap.String("project_id", id.String()), zap.Error(err))
	}

	if err := s.d.Cascade.DeleteProject(ctx, id, p.NLUModels); err != nil {
		return fail(err)
	}

	if err := s.d.Events.PublishJSON(ctx, RKProjectDeleted, ProjectEvent{
		ProjectID: id, Namespace: p.Namespace, At: time.Now().UTC(),
	}); err != nil {
		s.d.Log.Warn("publish project.deleted", zap.Error(err))
	}
	return nil
}

func (s *projectService) MarkTrainingStarted(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	now := time.Now().UTC()
	err := s.d.Projects.SetTraining(ctx, id, model.TrainingState{
		Status:    model.TrainingStatusTraining,
		StartTime: &now,
	})
	if err != nil {
		return err
	}
	if err := s.d.Events.PublishJSON(ctx, RKTrainingStarted, TrainingEvent{
		ProjectID: id, Status: model.TrainingStatusTraining, At: now,
	}); err != nil {
		s.d.Log.Warn("publish training.started", zap.Error(err))
	}
	return nil
}

// MarkTrainingStopped stores the reported status verbatim; it is not
// validated against the known status constants.
func (s *projectService) MarkTrainingStopped(ctx context.Context, id uuid.UUID, status, message string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	now := time.Now().UTC()
	training := model.TrainingState{Status: status, EndTime: &now}
	if message != "" {
		training.Message = message
	}
	if err := s.d.Projects.SetTraining(ctx, id, training); err != nil {
		return err
	}
	if err := s.d.Events.PublishJSON(ctx, RKTrainingStopped, TrainingEvent{
		ProjectID: id, Status: status, At: now,
	}); err != nil {
		s.d.Log.Warn("publish training.stopped", zap.Error(err))
	}
	return nil
}

func (s *projectService) GetDefaultLanguage(ctx context.Context, id uuid.UUID) (string, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return p.DefaultLanguage, nil
}

// GetDeploymentEnvironments always contains "development", first. An unset
// list means development only; a stored list missing development gets it
// prepended.
func (s *projectService) GetDeploymentEnvironments(ctx context.Context, id uuid.UUID) ([]string, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.DeploymentEnvironments == nil {
		return []string{"development"}, nil
	}
	for _, env := range p.DeploymentEnvironments {
		if env == "development" {
			return p.DeploymentEnvironments, nil
		}
	}
	return append([]string{"development"}, p.DeploymentEnvironments...), nil
}

func (s *projectService) GetSlots(ctx context.Context, id uuid.UUID) ([]*model.Slot, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.d.Slots.ListByProject(ctx, id)
}
