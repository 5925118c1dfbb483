package bus

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/opensource-finance/frictrak/internal/domain"
)

// ChannelBus is the in-process bus. Each subscription owns a buffered
// channel drained by one goroutine; a full buffer drops the message.
type ChannelBus struct {
	mu         sync.RWMutex
	bufferSize int
	subs       map[string]map[string]*channelSubscription
	closed     bool
	dropped    atomic.Int64
}

type channelSubscription struct {
	id      string
	key     string
	topic   string
	handler domain.MessageHandler
	msgCh   chan *domain.Message
	ctx     context.Context
	cancel  context.CancelFunc
	owner   *ChannelBus
	once    sync.Once
}

// NewChannelBus creates a channel bus with the given per-subscriber buffer.
func NewChannelBus(bufferSize int) *ChannelBus {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	return &ChannelBus{
		bufferSize: bufferSize,
		subs:       make(map[string]map[string]*channelSubscription),
	}
}

func (b *ChannelBus) Publish(_ context.Context, tenantID, topic string, payload []byte) error {
	if tenantID == "" {
		return ErrTenantRequired
	}
	return b.deliver(newMessage(tenantID, topic, payload))
}

func (b *ChannelBus) deliver(msg *domain.Message) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}
	for _, sub := range b.subs[subscriptionKey(msg.TenantID, msg.Topic)] {
		select {
		case sub.msgCh <- msg:
		default:
			b.dropped.Add(1)
			slog.Warn("bus subscriber full, message dropped",
				"topic", msg.Topic,
				"tenant_id", msg.TenantID,
				"message_id", msg.ID,
			)
		}
	}
	return nil
}

func (b *ChannelBus) Subscribe(ctx context.Context, tenantID, topic string, handler domain.MessageHandler) (domain.Subscription, error) {
	if tenantID == "" {
		return nil, ErrTenantRequired
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	subCtx, cancel := context.WithCancel(ctx)
	sub := &channelSubscription{
		id:      uuid.NewString(),
		key:     subscriptionKey(tenantID, topic),
		topic:   topic,
		handler: handler,
		msgCh:   make(chan *domain.Message, b.bufferSize),
		ctx:     subCtx,
		cancel:  cancel,
		owner:   b,
	}
	if b.subs[sub.key] == nil {
		b.subs[sub.key] = make(map[string]*channelSubscription)
	}
	b.subs[sub.key][sub.id] = sub

	go sub.run()
	return sub, nil
}

func (s *channelSubscription) run() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case msg := <-s.msgCh:
			if err := s.handler(s.ctx, msg); err != nil {
				slog.Error("bus handler error",
					"topic", msg.Topic,
					"message_id", msg.ID,
					"error", err,
				)
			}
		}
	}
}

// Request publishes payload and waits for the first Respond to it.
func (b *ChannelBus) Request(ctx context.Context, tenantID, topic string, payload []byte) ([]byte, error) {
	if tenantID == "" {
		return nil, ErrTenantRequired
	}

	replyCh := make(chan []byte, 1)
	msg := newMessage(tenantID, topic, payload)
	msg.ReplyTo = topic + ".reply." + msg.ID

	sub, err := b.Subscribe(ctx, tenantID, msg.ReplyTo, func(_ context.Context, reply *domain.Message) error {
		select {
		case replyCh <- reply.Payload:
		default:
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	defer sub.Unsubscribe()

	if err := b.deliver(msg); err != nil {
		return nil, err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultRequestTimeout)
		defer cancel()
	}

	select {
	case reply := <-replyCh:
		return reply, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *ChannelBus) Respond(ctx context.Context, msg *domain.Message, payload []byte) error {
	if msg == nil || msg.ReplyTo == "" {
		return nil
	}
	return b.Publish(ctx, msg.TenantID, msg.ReplyTo, payload)
}

func (b *ChannelBus) Ping(context.Context) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	return nil
}

// Dropped reports how many deliveries were lost to full buffers.
func (b *ChannelBus) Dropped() int64 {
	return b.dropped.Load()
}

// Close cancels every subscription. Further calls fail with ErrClosed.
func (b *ChannelBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, group := range b.subs {
		for _, sub := range group {
			sub.cancel()
		}
	}
	b.subs = make(map[string]map[string]*channelSubscription)
	return nil
}

func (b *ChannelBus) remove(s *channelSubscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	group := b.subs[s.key]
	delete(group, s.id)
	if len(group) == 0 {
		delete(b.subs, s.key)
	}
}

func subscriptionKey(tenantID, topic string) string {
	return tenantID + ":" + topic
}

func (s *channelSubscription) Unsubscribe() error {
	s.once.Do(func() {
		s.cancel()
		s.owner.remove(s)
	})
	return nil
}

func (s *channelSubscription) Topic() string {
	return s.topic
}
