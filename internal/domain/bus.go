package domain

import "context"

// Analysis pipeline topics. Transports scope them per tenant.
const (
	TopicBatchSubmitted    = "frictrak.batch.submitted"
	TopicAnalysisCompleted = "frictrak.analysis.completed"
	TopicAnalysisRefused   = "frictrak.analysis.refused"
)

// OutcomeTopic is where the summary of a finished analysis is published.
func OutcomeTopic(status string) string {
	if status == StatusRefused {
		return TopicAnalysisRefused
	}
	return TopicAnalysisCompleted
}

// EventBus carries batches to the worker and outcomes back out. Every
// call is scoped to a tenant; a subscriber never sees another tenant's
// messages. Implementations: buffered channels (community) and NATS (pro).
type EventBus interface {
	Publish(ctx context.Context, tenantID, topic string, payload []byte) error

	// Subscribe delivers messages on topic to handler until the returned
	// subscription is cancelled.
	Subscribe(ctx context.Context, tenantID, topic string, handler MessageHandler) (Subscription, error)

	// Request publishes payload and blocks until a subscriber answers with
	// Respond or ctx ends.
	Request(ctx context.Context, tenantID, topic string, payload []byte) ([]byte, error)

	// Respond answers a message received through Request. Messages without
	// a reply address are ignored.
	Respond(ctx context.Context, msg *Message, payload []byte) error

	Ping(ctx context.Context) error
	Close() error
}

// MessageHandler processes one delivered message.
type MessageHandler func(ctx context.Context, msg *Message) error

// Message is the envelope every transport carries.
type Message struct {
	ID        string            `json:"id"`
	TenantID  string            `json:"tenantId"`
	Topic     string            `json:"topic"`
	Payload   []byte            `json:"payload"`
	Metadata  map[string]string `json:"metadata"`
	Timestamp int64             `json:"timestamp"`

	// ReplyTo is set on messages sent with Request.
	ReplyTo string `json:"replyTo,omitempty"`
}

// Subscription is a live handler registration.
type Subscription interface {
	Unsubscribe() error
	Topic() string
}

// EventBusConfig selects and tunes the transport.
type EventBusConfig struct {
	Type string // "channel" (default) or "nats"

	ChannelBufferSize int

	NATSUrl           string
	NATSToken         string
	NATSMaxReconnects int
	NATSReconnectWait int // seconds
}
