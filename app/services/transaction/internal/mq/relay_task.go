package mq

import (
	"context"
	"encoding/json"

	"SwapIt/app/services/transaction/internal/svc"

	"github.com/hibiken/asynq"
)

// NewAsynqMux registers handlers for scheduled tasks.
func NewAsynqMux(sc *svc.ServiceContext) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskRelayCompensations, func(ctx context.Context, t *asynq.Task) error {
		p := RelayTaskPayload{BatchSize: sc.Config.Relay.BatchSize}
		if len(t.Payload()) > 0 {
			if err := json.Unmarshal(t.Payload(), &p); err != nil {
				return asynq.SkipRetry
			}
		}
		_, err := sc.Saga.RelayCompensations(ctx, p.BatchSize)
		return err
	})
	return mux
}

// NewRelayTask builds the task the scheduler enqueues.
func NewRelayTask(batchSize int64) *asynq.Task {
	payload, _ := json.Marshal(RelayTaskPayload{BatchSize: batchSize})
	return asynq.NewTask(TaskRelayCompensations, payload)
}
