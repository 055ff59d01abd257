package saga

import (
	"context"
	"fmt"

	orderdal "SwapIt/app/dal/order"

	"github.com/zeromicro/go-zero/core/logx"
)

// settle performs one compensation against the catalog and records the result
// in the outbox. A refused compensation is parked as failed at once: retrying
// cannot change the catalog's answer. Compensations act under the order's
// hold, so a repeated release cannot free a newer buyer's reservation.
func (c *Coordinator) settle(ctx context.Context, row orderdal.Compensations) bool {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()
	logger := logx.WithContext(ctx).WithFields(
		logx.Field("compensationId", row.Id),
		logx.Field("orderId", row.OrderId),
		logx.Field("productId", row.ProductId),
		logx.Field("action", row.Action),
	)

	var (
		outcome Outcome
		err     error
	)
	switch row.Action {
	case orderdal.ActionRelease:
		outcome, err = c.guard.Release(ctx, row.ProductId, row.OrderId)
	case orderdal.ActionFinalize:
		outcome, err = c.guard.Finalize(ctx, row.ProductId, row.OrderId)
	default:
		err = fmt.Errorf("unknown compensation action %q", row.Action)
		outcome = Conflict
	}

	switch {
	case err == nil && outcome == Applied:
		if err := c.outbox.MarkDone(ctx, row.Id); err != nil {
			logger.Errorw("mark compensation done failed", logx.Field("err", err))
		}
		return true
	case err == nil || outcome == Conflict:
		logger.Errorw("catalog refused compensation, needs reconciliation",
			logx.Field("outcome", outcome.String()), logx.Field("err", err))
		if err := c.outbox.MarkFailed(ctx, row.Id); err != nil {
			logger.Errorw("mark compensation failed failed", logx.Field("err", err))
		}
		return false
	}

	logger.Errorw("compensation failed", logx.Field("attempt", row.Attempts+1), logx.Field("err", err))
	if rerr := c.outbox.RecordFailure(ctx, row.Id, err.Error()); rerr != nil {
		logger.Errorw("record compensation failure failed", logx.Field("err", rerr))
		return false
	}
	if row.Attempts+1 >= c.maxAttempts {
		logger.Errorw("compensation exhausted retries, needs reconciliation", logx.Field("attempts", row.Attempts+1))
		if err := c.outbox.MarkFailed(ctx, row.Id); err != nil {
			logger.Errorw("mark compensation failed failed", logx.Field("err", err))
		}
	}
	return false
}

// RelayCompensations retries up to limit pending compensations, oldest first,
// and reports how many were settled.
func (c *Coordinator) RelayCompensations(ctx context.Context, limit int64) (int, error) {
	stepCtx, cancel := context.WithTimeout(ctx, c.timeout)
	rows, err := c.outbox.Pending(stepCtx, limit)
	cancel()
	if err != nil {
		return 0, err
	}
	done := 0
	for _, row := range rows {
		if ctx.Err() != nil {
			break
		}
		if c.settle(ctx, *row) {
			done++
		}
	}
	if len(rows) > 0 {
		logx.WithContext(ctx).Infow("relayed compensations", logx.Field("pending", len(rows)), logx.Field("settled", done))
	}
	return done, nil
}
