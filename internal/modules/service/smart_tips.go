package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/chatforge-io/chatforge/internal/modules/model"
	"github.com/chatforge-io/chatforge/internal/modules/repo"
	"github.com/chatforge-io/chatforge/internal/pkg/smarttips"
)

// SmartTipsService classifies a model's logged utterances against the
// project threshold and training state.
type SmartTipsService interface {
	ForModel(ctx context.Context, projectID, modelID uuid.UUID, utteranceIDs []uuid.UUID) (map[string]smarttips.Tip, error)
}

type SmartTipsDeps struct {
	Projects repo.ProjectRepo
	Models   repo.NLUModelRepo
	Activity repo.ActivityLogRepo
	Log      *zap.Logger
}

type smartTipsService struct {
	d SmartTipsDeps
}

func NewSmartTipsService(d SmartTipsDeps) SmartTipsService {
	return &smartTipsService{d: d}
}

// ForModel classifies utterances of the model. An empty utteranceIDs
// classifies the model's whole activity log. Project, model and log rows are
// independent so they are fetched concurrently.
func (s *smartTipsService) ForModel(ctx context.Context, projectID, modelID uuid.UUID, utteranceIDs []uuid.UUID) (map[string]smarttips.Tip, error) {
	var (
		project *model.Project
		nlu     *model.NLUModel
		logs    []*model.ActivityLog
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.d.Projects.GetByID(gctx, projectID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		project = p
		return err
	})
	g.Go(func() error {
		m, err := s.d.Models.GetByID(gctx, modelID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrModelNotFound
		}
		nlu = m
		return err
	})
	g.Go(func() error {
		var err error
		if len(utteranceIDs) > 0 {
			logs, err = s.d.Activity.GetByIDs(gctx, modelID, utteranceIDs)
		} else {
			logs, err = s.d.Activity.ListByModel(gctx, modelID)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tipsCtx := smarttips.Context{
		Threshold:       project.NLUThreshold,
		TrainingEndTime: project.Training.EndTime,
		Examples:        toTipExamples(nlu.TrainingData.CommonExamples),
	}
	utterances := make([]smarttips.Utterance, len(logs))
	for i, l := range logs {
		utterances[i] = toTipUtterance(l)
	}
	return smarttips.ClassifyAll(tipsCtx, utterances), nil
}

func toTipExamples(examples []model.CommonExample) []smarttips.Example {
	out := make([]smarttips.Example, len(examples))
	for i, ex := range examples {
		entities := make([]smarttips.Entity, len(ex.Entities))
		for j, en := range ex.Entities {
			entities[j] = smarttips.Entity{Entity: en.Entity}
		}
		out[i] = smarttips.Example{
			Text:      ex.Text,
			Intent:    ex.Intent,
			Entities:  entities,
			Canonical: ex.Canonical,
		}
	}
	return out
}

func toTipUtterance(l *model.ActivityLog) smarttips.Utterance {
	entities := make([]smarttips.Entity, len(l.Entities))
	for i, en := range l.Entities {
		entities[i] = smarttips.Entity{Entity: en.Entity, Confidence: en.Confidence}
	}
	return smarttips.Utterance{
		ID:         l.ID.String(),
		Text:       l.Text,
		Intent:     l.Intent,
		Confidence: l.Confidence,
		Entities:   entities,
		UpdatedAt:  l.UpdatedAt,
	}
}
