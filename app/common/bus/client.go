package bus

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/zeromicro/go-zero/core/logx"
)

// ErrDisabled is returned internally when the client runs without a broker.
var ErrDisabled = errors.New("event bus disabled")

const headerType = "type"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Client publishes to and consumes from the shared exchange.
// A client whose broker is unreachable at start stays degraded: publishes are
// dropped with a log line and subscriptions return immediately.
type Client struct {
	conf      Conf
	writer    messageWriter
	newReader func(b Binding) messageReader
	declare   func(ctx context.Context, topic string) error
	now       func() time.Time
}

func NewClient(c Conf) *Client {
	c = c.withDefaults()
	cli := &Client{conf: c, now: time.Now}
	if len(c.Brokers) == 0 {
		logx.Infow("event bus disabled, no brokers configured")
		return cli
	}
	if err := probe(c); err != nil {
		logx.Errorw("event bus unreachable, running degraded", logx.Field("brokers", c.Brokers), logx.Field("err", err))
		return cli
	}

	cli.writer = &kafka.Writer{
		Addr:                   kafka.TCP(c.Brokers...),
		Topic:                  c.Exchange,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           5 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	cli.newReader = func(b Binding) messageReader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers:     c.Brokers,
			GroupID:     b.Queue,
			Topic:       b.Exchange,
			MinBytes:    1,
			MaxBytes:    10 << 20,
			StartOffset: kafka.FirstOffset,
		})
	}
	cli.declare = func(ctx context.Context, topic string) error {
		return createTopic(ctx, c, topic)
	}
	logx.Infow("event bus connected", logx.Field("brokers", c.Brokers), logx.Field("exchange", c.Exchange))
	return cli
}

func probe(c Conf) error {
	d := &kafka.Dialer{Timeout: c.DialTimeout}
	var err error
	for _, addr := range c.Brokers {
		var conn *kafka.Conn
		conn, err = d.Dial("tcp", addr)
		if err == nil {
			return conn.Close()
		}
	}
	return err
}

// createTopic declares the exchange topic on the controller. An existing topic is fine.
func createTopic(ctx context.Context, c Conf, topic string) error {
	d := &kafka.Dialer{Timeout: c.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", c.Brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	ctrl, err := d.DialContext(ctx, "tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer ctrl.Close()

	err = ctrl.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     c.Partitions,
		ReplicationFactor: c.ReplicationFactor,
	})
	if errors.Is(err, kafka.TopicAlreadyExists) {
		return nil
	}
	return err
}

// Enabled reports whether the client holds a live broker connection.
func (c *Client) Enabled() bool {
	return c != nil && c.writer != nil
}

// Publish emits evt with its type as routing key. It never fails the caller:
// errors and timeouts are logged and the event is dropped.
func (c *Client) Publish(ctx context.Context, evt Event) {
	err := c.publish(ctx, evt)
	switch {
	case err == nil:
	case errors.Is(err, ErrDisabled):
		logx.WithContext(ctx).Debugw("event dropped, bus disabled", logx.Field("type", evt.Type()), logx.Field("key", evt.Key()))
	default:
		logx.WithContext(ctx).Errorw("publish event failed",
			logx.Field("type", evt.Type()), logx.Field("key", evt.Key()), logx.Field("err", err))
	}
}

func (c *Client) publish(ctx context.Context, evt Event) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	body, err := NewEnvelope(evt, c.now()).Encode()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.conf.PublishTimeout)
	defer cancel()
	return c.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(evt.Type()),
		Value:   body,
		Headers: []kafka.Header{{Key: headerType, Value: []byte(evt.Type())}},
	})
}

// DeclareBinding makes sure the exchange exists before a queue consumes from it.
func (c *Client) DeclareBinding(ctx context.Context, b Binding) error {
	if err := b.validate(); err != nil {
		return err
	}
	if !c.Enabled() {
		return ErrDisabled
	}
	return c.declare(ctx, c.exchangeOf(b))
}

func (c *Client) exchangeOf(b Binding) string {
	if b.Exchange != "" {
		return b.Exchange
	}
	return c.conf.Exchange
}

func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.writer.Close()
}
