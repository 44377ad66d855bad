package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/chatforge-io/chatforge/internal/config"
	"github.com/chatforge-io/chatforge/internal/infra/cache"
	"github.com/chatforge-io/chatforge/internal/infra/db"
	"github.com/chatforge-io/chatforge/internal/infra/httpclient"
	"github.com/chatforge-io/chatforge/internal/infra/logger"
	mq "github.com/chatforge-io/chatforge/internal/infra/queue"
	"github.com/chatforge-io/chatforge/internal/modules/handler"
	"github.com/chatforge-io/chatforge/internal/modules/model"
	"github.com/chatforge-io/chatforge/internal/modules/repo"
	"github.com/chatforge-io/chatforge/internal/modules/service"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			_ = d.AutoMigrate(
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
		}

		if err := EnsureRootUserExists(context.Background(), repo.NewUserRepo(d), cfg, log); err != nil {
			return nil, err
		}

		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg)
	})

	// RabbitMQ DialFunc for connection and reconnection
	do.Provide(inj, func(i *do.Injector) (mq.DialFunc, error) {
		cfg := do.MustInvoke[*config.Config](i)

		dialFn := func() (*amqp.Connection, error) {
			useTLS := cfg.RabbitMQ.EnableTLS || strings.HasPrefix(cfg.RabbitMQ.URL, "amqps://")

			if useTLS {
				tlsConfig := &tls.Config{
					MinVersion: tls.VersionTLS12,
				}
				url := cfg.RabbitMQ.URL
				if strings.HasPrefix(url, "amqp://") {
					url = strings.Replace(url, "amqp://", "amqps://", 1)
				}
				return amqp.DialTLS(url, tlsConfig)
			}

			return amqp.Dial(cfg.RabbitMQ.URL)
		}

		return dialFn, nil
	})

	// RabbitMQ Connection
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		dialFn := do.MustInvoke[mq.DialFunc](i)
		return dialFn()
	})

	// RabbitMQ Publisher
	do.Provide(inj, func(i *do.Injector) (*mq.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		conn := do.MustInvoke[*amqp.Connection](i)
		log := do.MustInvoke[*zap.Logger](i)
		return mq.NewPublisher(conn, log, cfg)
	})

	// runner
	do.Provide(inj, func(i *do.Injector) (*httpclient.RunnerClient, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		return httpclient.NewRunnerClient(cfg, log), nil
	})

	// repos
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.NLUModelRepo, error) {
		return repo.NewNLUModelRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.InstanceRepo, error) {
		return repo.NewInstanceRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.CorePolicyRepo, error) {
		return repo.NewCorePolicyRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.CredentialsRepo, error) {
		return repo.NewCredentialsRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.EndpointsRepo, error) {
		return repo.NewEndpointsRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.DeploymentRepo, error) {
		return repo.NewDeploymentRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.StoryGroupRepo, error) {
		return repo.NewStoryGroupRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.StoryRepo, error) {
		return repo.NewStoryRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.SlotRepo, error) {
		return repo.NewSlotRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.BotResponseRepo, error) {
		return repo.NewBotResponseRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ActivityLogRepo, error) {
		return repo.NewActivityLogRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.UserRepo, error) {
		return repo.NewUserRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// services
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(service.ProjectDeps{
			Cascade:     repo.NewCascadeRunner(do.MustInvoke[*gorm.DB](i)),
			Projects:    do.MustInvoke[repo.ProjectRepo](i),
			Instances:   do.MustInvoke[repo.InstanceRepo](i),
			Policies:    do.MustInvoke[repo.CorePolicyRepo](i),
			Credentials: do.MustInvoke[repo.CredentialsRepo](i),
			Endpoints:   do.MustInvoke[repo.EndpointsRepo](i),
			Deployments: do.MustInvoke[repo.DeploymentRepo](i),
			StoryGroups: do.MustInvoke[repo.StoryGroupRepo](i),
			Stories:     do.MustInvoke[repo.StoryRepo](i),
			Slots:       do.MustInvoke[repo.SlotRepo](i),
			Runner:      do.MustInvoke[*httpclient.RunnerClient](i),
			Events:      do.MustInvoke[*mq.Publisher](i),
			Log:         do.MustInvoke[*zap.Logger](i),
		}), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.InsightsService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewInsightsService(service.InsightsDeps{
			Projects:  do.MustInvoke[repo.ProjectRepo](i),
			NLUModels: do.MustInvoke[repo.NLUModelRepo](i),
			Stories:   do.MustInvoke[repo.StoryRepo](i),
			Slots:     do.MustInvoke[repo.SlotRepo](i),
			Responses: do.MustInvoke[repo.BotResponseRepo](i),
			Redis:     do.MustInvoke[*redis.Client](i),
			CacheTTL:  time.Duration(cfg.Redis.InsightTTL) * time.Second,
			Log:       do.MustInvoke[*zap.Logger](i),
		}), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.SmartTipsService, error) {
		return service.NewSmartTipsService(service.SmartTipsDeps{
			Projects: do.MustInvoke[repo.ProjectRepo](i),
			Models:   do.MustInvoke[repo.NLUModelRepo](i),
			Activity: do.MustInvoke[repo.ActivityLogRepo](i),
			Log:      do.MustInvoke[*zap.Logger](i),
		}), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.RolesService, error) {
		return service.NewRolesService(), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.UserService, error) {
		return service.NewUserService(
			do.MustInvoke[repo.UserRepo](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// handlers
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.InsightsHandler, error) {
		return handler.NewInsightsHandler(do.MustInvoke[service.InsightsService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.SmartTipsHandler, error) {
		return handler.NewSmartTipsHandler(do.MustInvoke[service.SmartTipsService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.RolesHandler, error) {
		return handler.NewRolesHandler(do.MustInvoke[service.RolesService](i)), nil
	})

	return inj
}
