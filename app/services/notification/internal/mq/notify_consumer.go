package mq

import (
	"context"

	"SwapIt/app/common/bus"
	"SwapIt/app/common/consts/biz"
	"SwapIt/app/services/notification/internal/svc"

	"github.com/zeromicro/go-zero/core/logx"
)

// StartNotifyConsumer mails users about the events that concern them. It blocks until ctx is done.
func StartNotifyConsumer(ctx context.Context, sc *svc.ServiceContext) error {
	return sc.Bus.Subscribe(ctx, bus.Binding{
		Queue:    biz.NotificationQueue,
		Patterns: []string{bus.TypeUserRegistered, bus.TypeOrderPlaced, bus.TypeMessageSent},
	}, HandleNotification(sc))
}

// HandleNotification sends at most one mail per event when a dedup store is
// configured, at least one otherwise. A failed send gives up its claim and
// asks for redelivery.
func HandleNotification(sc *svc.ServiceContext) bus.Handler {
	return func(ctx context.Context, env bus.Envelope) error {
		logger := logx.WithContext(ctx).WithFields(logx.Field("event", env.Type), logx.Field("key", env.Event.Key()))

		mail, err := compose(env.Event)
		if err != nil {
			logger.Errorw("drop notification", logx.Field("err", err))
			return bus.Discard(err)
		}

		key := env.DedupKey()
		claimed := false
		if sc.Dedup != nil {
			first, err := sc.Dedup.Claim(ctx, key)
			switch {
			case err != nil:
				logger.Errorw("dedup claim failed, sending anyway", logx.Field("err", err))
			case !first:
				logger.Infow("duplicate notification skipped")
				return nil
			default:
				claimed = true
			}
		}

		if err := sc.Mailer.Send(ctx, mail); err != nil {
			logger.Errorw("send notification failed", logx.Field("to", mail.To), logx.Field("err", err))
			if claimed {
				if rerr := sc.Dedup.Release(context.WithoutCancel(ctx), key); rerr != nil {
					logger.Errorw("release dedup claim failed", logx.Field("err", rerr))
				}
			}
			return err
		}
		logger.Infow("notification sent", logx.Field("to", mail.To))
		return nil
	}
}
