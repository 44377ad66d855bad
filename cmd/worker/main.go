// The worker consumes project lifecycle and training events and drops the
// cached insight entries affected by them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/chatforge-io/chatforge/internal/bootstrap"
	"github.com/chatforge-io/chatforge/internal/config"
	mq "github.com/chatforge-io/chatforge/internal/infra/queue"
	"github.com/chatforge-io/chatforge/internal/modules/service"
)

type projectEventBody struct {
	ProjectID uuid.UUID `json:"project_id"`
}

func main() {
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer log.Sync()

	conn := do.MustInvoke[*amqp.Connection](inj)
	insights := do.MustInvoke[service.InsightsService](inj)

	consumer, err := mq.NewConsumer(conn, log, cfg, []string{
		service.RKProjectUpdated,
		service.RKProjectDeleted,
		service.RKTrainingStarted,
		service.RKTrainingStopped,
	})
	if err != nil {
		log.Fatal("setup consumer", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handle := func(ctx context.Context, routingKey string, body []byte) error {
		var evt projectEventBody
		if err := sonic.Unmarshal(body, &evt); err != nil {
			log.Warn("bad event body", zap.String("routing_key", routingKey), zap.Error(err))
			return nil
		}
		log.Info("invalidating insights",
			zap.String("routing_key", routingKey),
			zap.String("project_id", evt.ProjectID.String()),
		)
		return insights.Invalidate(ctx, evt.ProjectID)
	}

	log.Info("worker consuming", zap.String("queue", cfg.RabbitMQ.Queue.ProjectEvents))
	if err := consumer.Consume(ctx, handle); err != nil && ctx.Err() == nil {
		log.Error("consume", zap.Error(err))
		os.Exit(1)
	}
}
