package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
)

// TypeTrustRecalculate is the asynq task pattern for an on-demand full rescore.
const TypeTrustRecalculate = "trust:recalculate"

// NewTrustRecalculateTask builds the task enqueued by the admin endpoint.
func NewTrustRecalculateTask() *asynq.Task {
	return asynq.NewTask(TypeTrustRecalculate, nil, asynq.MaxRetry(3))
}

// TaskClient enqueues background tasks over redis.
type TaskClient struct {
	client *asynq.Client
}

func NewTaskClient(client *asynq.Client) *TaskClient {
	return &TaskClient{client: client}
}

// EnqueueRecalculation schedules a full trust score rescore.
func (c *TaskClient) EnqueueRecalculation(ctx context.Context) (string, error) {
	info, err := c.client.EnqueueContext(ctx, NewTrustRecalculateTask())
	if err != nil {
		return "", fmt.Errorf("enqueue recalculation: %w", err)
	}

	return info.ID, nil
}

// TrustRecalculateHandler processes TypeTrustRecalculate tasks.
type TrustRecalculateHandler struct {
	agencyService recalculationService
}

func NewTrustRecalculateHandler(agencyService recalculationService) *TrustRecalculateHandler {
	return &TrustRecalculateHandler{agencyService: agencyService}
}

func (h *TrustRecalculateHandler) Handle(ctx context.Context, _ *asynq.Task) error {
	updated, err := h.agencyService.RecalculateAll(ctx)
	if err != nil {
		return fmt.Errorf("recalculate all: %w", err)
	}

	recalcRuns.Inc()
	recalcUpdated.Add(float64(updated))

	logger(ctx).Info("recalculation task completed", "updated", updated)

	return nil
}
