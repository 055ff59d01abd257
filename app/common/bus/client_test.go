package bus

import (
	"context"
	"testing"
	"time"
)

func TestDegradedClientIsNoop(t *testing.T) {
	c := NewClient(Conf{})
	if c.Enabled() {
		t.Fatalf("client without brokers should be degraded")
	}
	c.Publish(context.Background(), OrderPlaced{OrderID: "o1"})
	if err := c.Subscribe(context.Background(), Binding{Queue: "q", Patterns: []string{"#"}}, nil); err != nil {
		t.Fatalf("degraded subscribe: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestPublishSetsRoutingKey(t *testing.T) {
	w := &fakeWriter{}
	c := testClient(nil, w)
	c.Publish(context.Background(), ItemCreated{ProductID: "p1", Title: "Lamp"})
	if len(w.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.sent))
	}
	m := w.sent[0]
	if routingKey(m) != TypeItemCreated {
		t.Fatalf("unexpected routing key %q", routingKey(m))
	}
	env, err := Decode(m.Value)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Event.(ItemCreated).Title != "Lamp" {
		t.Fatalf("unexpected payload %+v", env.Event)
	}
}

func TestPublishIsBoundedByTimeout(t *testing.T) {
	c := testClient(nil, &fakeWriter{block: true})
	start := time.Now()
	c.Publish(context.Background(), OrderPlaced{OrderID: "o1"})
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("publish blocked for %v", elapsed)
	}
}

func TestPublishOutlivesCanceledRequest(t *testing.T) {
	w := &fakeWriter{}
	c := testClient(nil, w)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Publish(ctx, OrderPlaced{OrderID: "o1"})
	if len(w.sent) != 1 {
		t.Fatalf("publish dropped after request ended")
	}
}
