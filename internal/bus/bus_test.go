package bus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/opensource-finance/frictrak/internal/domain"
)

func receiveOne(t *testing.T, ch <-chan *domain.Message) *domain.Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
		return nil
	}
}

func collect(ch chan *domain.Message) domain.MessageHandler {
	return func(_ context.Context, msg *domain.Message) error {
		ch <- msg
		return nil
	}
}

func TestChannelBus(t *testing.T) {
	bus := NewChannelBus(100)
	defer bus.Close()

	ctx := context.Background()
	tenantID := "tenant-001"

	t.Run("PublishAndSubscribe", func(t *testing.T) {
		got := make(chan *domain.Message, 1)
		if _, err := bus.Subscribe(ctx, tenantID, domain.TopicBatchSubmitted, collect(got)); err != nil {
			t.Fatalf("subscribe failed: %v", err)
		}
		if err := bus.Publish(ctx, tenantID, domain.TopicBatchSubmitted, []byte("hello")); err != nil {
			t.Fatalf("publish failed: %v", err)
		}

		msg := receiveOne(t, got)
		if string(msg.Payload) != "hello" {
			t.Errorf("expected payload 'hello', got '%s'", string(msg.Payload))
		}
		if msg.TenantID != tenantID || msg.Topic != domain.TopicBatchSubmitted {
			t.Errorf("unexpected envelope: %+v", msg)
		}
		if msg.ID == "" || msg.Timestamp == 0 {
			t.Error("expected id and timestamp to be set")
		}
	})

	t.Run("TenantIsolation", func(t *testing.T) {
		got1 := make(chan *domain.Message, 1)
		got2 := make(chan *domain.Message, 1)
		_, _ = bus.Subscribe(ctx, "tenant-a", "isolation.topic", collect(got1))
		_, _ = bus.Subscribe(ctx, "tenant-b", "isolation.topic", collect(got2))

		_ = bus.Publish(ctx, "tenant-a", "isolation.topic", []byte("msg1"))
		receiveOne(t, got1)

		select {
		case msg := <-got2:
			t.Errorf("tenant-b should receive nothing, got %+v", msg)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("RequiresTenantID", func(t *testing.T) {
		if err := bus.Publish(ctx, "", "topic", []byte("data")); !errors.Is(err, ErrTenantRequired) {
			t.Errorf("expected ErrTenantRequired, got %v", err)
		}
		_, err := bus.Subscribe(ctx, "", "topic", func(context.Context, *domain.Message) error { return nil })
		if !errors.Is(err, ErrTenantRequired) {
			t.Errorf("expected ErrTenantRequired, got %v", err)
		}
		if _, err := bus.Request(ctx, "", "topic", nil); !errors.Is(err, ErrTenantRequired) {
			t.Errorf("expected ErrTenantRequired, got %v", err)
		}
	})

	t.Run("Unsubscribe", func(t *testing.T) {
		got := make(chan *domain.Message, 2)
		sub, _ := bus.Subscribe(ctx, tenantID, "unsub.topic", collect(got))

		_ = bus.Publish(ctx, tenantID, "unsub.topic", []byte("msg1"))
		receiveOne(t, got)

		if err := sub.Unsubscribe(); err != nil {
			t.Fatalf("unsubscribe failed: %v", err)
		}
		_ = sub.Unsubscribe()

		bus.mu.RLock()
		_, present := bus.subs[subscriptionKey(tenantID, "unsub.topic")]
		bus.mu.RUnlock()
		if present {
			t.Error("expected subscription to be removed")
		}

		_ = bus.Publish(ctx, tenantID, "unsub.topic", []byte("msg2"))
		select {
		case msg := <-got:
			t.Errorf("expected no delivery after unsubscribe, got %q", msg.Payload)
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("MultipleSubscribers", func(t *testing.T) {
		got1 := make(chan *domain.Message, 1)
		got2 := make(chan *domain.Message, 1)
		_, _ = bus.Subscribe(ctx, tenantID, domain.TopicAnalysisCompleted, collect(got1))
		_, _ = bus.Subscribe(ctx, tenantID, domain.TopicAnalysisCompleted, collect(got2))

		_ = bus.Publish(ctx, tenantID, domain.TopicAnalysisCompleted, []byte("broadcast"))
		receiveOne(t, got1)
		receiveOne(t, got2)
	})

	t.Run("RequestRespond", func(t *testing.T) {
		_, err := bus.Subscribe(ctx, tenantID, "echo", func(ctx context.Context, msg *domain.Message) error {
			return bus.Respond(ctx, msg, append([]byte("re:"), msg.Payload...))
		})
		if err != nil {
			t.Fatalf("subscribe failed: %v", err)
		}

		reqCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		reply, err := bus.Request(reqCtx, tenantID, "echo", []byte("ping"))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if string(reply) != "re:ping" {
			t.Errorf("expected 're:ping', got %q", reply)
		}
	})

	t.Run("RequestTimeout", func(t *testing.T) {
		reqCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		if _, err := bus.Request(reqCtx, tenantID, "nobody.home", nil); !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
	})

	t.Run("RespondWithoutReplyTo", func(t *testing.T) {
		if err := bus.Respond(ctx, &domain.Message{TenantID: tenantID}, []byte("x")); err != nil {
			t.Errorf("expected no-op, got %v", err)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		if err := bus.Ping(ctx); err != nil {
			t.Errorf("ping failed: %v", err)
		}
	})

	t.Run("SubscriptionTopic", func(t *testing.T) {
		sub, _ := bus.Subscribe(ctx, tenantID, "my.topic", func(context.Context, *domain.Message) error { return nil })
		if sub.Topic() != "my.topic" {
			t.Errorf("expected topic 'my.topic', got '%s'", sub.Topic())
		}
	})
}

func TestChannelBusDropsWhenFull(t *testing.T) {
	bus := NewChannelBus(1)
	defer bus.Close()

	ctx := context.Background()
	release := make(chan struct{})
	started := make(chan struct{}, 1)

	_, _ = bus.Subscribe(ctx, "t", "slow", func(context.Context, *domain.Message) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	})

	_ = bus.Publish(ctx, "t", "slow", []byte("1"))
	<-started
	_ = bus.Publish(ctx, "t", "slow", []byte("2"))
	_ = bus.Publish(ctx, "t", "slow", []byte("3"))
	close(release)

	if got := bus.Dropped(); got != 1 {
		t.Errorf("expected 1 dropped message, got %d", got)
	}
}

func TestChannelBusClose(t *testing.T) {
	bus := NewChannelBus(100)
	ctx := context.Background()

	_, _ = bus.Subscribe(ctx, "tenant-001", "close.topic", func(context.Context, *domain.Message) error { return nil })

	if err := bus.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("second close failed: %v", err)
	}
	if err := bus.Publish(ctx, "tenant-001", "close.topic", []byte("data")); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if _, err := bus.Subscribe(ctx, "tenant-001", "x", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := bus.Ping(ctx); err == nil {
		t.Error("expected ping error after close")
	}
}

func TestNewBus(t *testing.T) {
	t.Run("ChannelType", func(t *testing.T) {
		bus, err := New(domain.EventBusConfig{Type: "channel", ChannelBufferSize: 50})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		defer bus.Close()

		if _, ok := bus.(*ChannelBus); !ok {
			t.Error("expected ChannelBus for channel type")
		}
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		if _, err := New(domain.EventBusConfig{Type: "kafka"}); err == nil {
			t.Error("expected error for unsupported type")
		}
	})
}

func TestSubject(t *testing.T) {
	if got := Subject("t1", domain.TopicAnalysisRefused); got != "frictrak.t1.frictrak.analysis.refused" {
		t.Errorf("unexpected subject %q", got)
	}
}

func TestChannelBusHighLoad(t *testing.T) {
	bus := NewChannelBus(1000)
	defer bus.Close()

	ctx := context.Background()
	const messageCount = 100

	var received atomic.Int32
	done := make(chan struct{})
	_, _ = bus.Subscribe(ctx, "tenant-load", "load.topic", func(context.Context, *domain.Message) error {
		if received.Add(1) == messageCount {
			close(done)
		}
		return nil
	})

	for i := 0; i < messageCount; i++ {
		_ = bus.Publish(ctx, "tenant-load", "load.topic", []byte("msg"))
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("timeout: received %d/%d messages", received.Load(), messageCount)
	}
}
