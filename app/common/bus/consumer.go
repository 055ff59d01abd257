package bus

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/zeromicro/go-zero/core/logx"
)

// Handler processes one delivery. Returning nil acknowledges it; any other
// error redelivers it, unless the error is wrapped with Discard.
type Handler func(ctx context.Context, env Envelope) error

type discardError struct{ err error }

func (e discardError) Error() string { return "discard: " + e.err.Error() }
func (e discardError) Unwrap() error { return e.err }

// Discard marks err as permanent so the delivery is acknowledged without a retry.
func Discard(err error) error {
	if err == nil {
		return nil
	}
	return discardError{err: err}
}

func IsDiscard(err error) bool {
	var d discardError
	return errors.As(err, &d) || errors.Is(err, ErrMalformed)
}

// Subscribe declares b and consumes its queue until ctx is done.
// On a degraded client it logs and returns nil right away.
func (c *Client) Subscribe(ctx context.Context, b Binding, h Handler) error {
	if err := b.validate(); err != nil {
		return err
	}
	if !c.Enabled() {
		logx.Infow("subscription skipped, bus disabled", logx.Field("queue", b.Queue))
		return nil
	}
	b.Exchange = c.exchangeOf(b)
	if err := c.DeclareBinding(ctx, b); err != nil {
		return err
	}

	r := c.newReader(b)
	defer r.Close()
	logx.Infow("subscribed", logx.Field("queue", b.Queue), logx.Field("exchange", b.Exchange), logx.Field("patterns", b.Patterns))
	return c.consume(ctx, r, b, h)
}

func (c *Client) consume(ctx context.Context, r messageReader, b Binding, h Handler) error {
	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logx.WithContext(ctx).Errorw("fetch message failed", logx.Field("queue", b.Queue), logx.Field("err", err))
			if !sleep(ctx, c.conf.RedeliveryDelay) {
				return nil
			}
			continue
		}

		if !c.deliver(ctx, b, h, m) {
			return nil
		}
		if err := r.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logx.WithContext(ctx).Errorw("ack message failed", logx.Field("queue", b.Queue), logx.Field("offset", m.Offset), logx.Field("err", err))
		}
	}
}

// deliver runs h until the message is acknowledged. Rejected deliveries are
// requeued in place with a capped exponential delay. It returns false only
// when ctx ends first, leaving the offset uncommitted.
func (c *Client) deliver(ctx context.Context, b Binding, h Handler, m kafka.Message) bool {
	key := routingKey(m)
	if !b.Matches(key) {
		return true
	}

	env, err := Decode(m.Value)
	if err != nil {
		logx.WithContext(ctx).Errorw("drop malformed message", logx.Field("queue", b.Queue), logx.Field("routingKey", key), logx.Field("err", err))
		return true
	}

	delay := c.conf.RedeliveryDelay
	for attempt := 1; ; attempt++ {
		err := h(ctx, env)
		if err == nil {
			return true
		}
		if IsDiscard(err) {
			logx.WithContext(ctx).Errorw("discard message",
				logx.Field("queue", b.Queue), logx.Field("dedupKey", env.DedupKey()), logx.Field("err", err))
			return true
		}
		logx.WithContext(ctx).Errorw("handle message failed, requeue",
			logx.Field("queue", b.Queue), logx.Field("dedupKey", env.DedupKey()),
			logx.Field("attempt", attempt), logx.Field("err", err))
		if !sleep(ctx, delay) {
			return false
		}
		delay = min(delay*2, c.conf.MaxRedeliveryDelay)
	}
}

func routingKey(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == headerType {
			return string(h.Value)
		}
	}
	return string(m.Key)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
