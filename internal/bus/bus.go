// Package bus carries batch submissions and analysis outcomes between the
// API and the background worker, over Go channels or NATS.
package bus

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opensource-finance/frictrak/internal/domain"
)

var (
	// ErrTenantRequired is returned when a call omits the tenant.
	ErrTenantRequired = errors.New("bus: tenantID is required")

	// ErrClosed is returned once Close has been called.
	ErrClosed = errors.New("bus: closed")
)

// DefaultRequestTimeout bounds Request when ctx has no deadline.
const DefaultRequestTimeout = 30 * time.Second

// New creates the bus named by cfg.Type: "channel" or "nats".
func New(cfg domain.EventBusConfig) (domain.EventBus, error) {
	switch cfg.Type {
	case "", "channel":
		return NewChannelBus(cfg.ChannelBufferSize), nil
	case "nats":
		return NewNATSBus(cfg)
	default:
		return nil, fmt.Errorf("unsupported event bus type: %s", cfg.Type)
	}
}

func newMessage(tenantID, topic string, payload []byte) *domain.Message {
	return &domain.Message{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Topic:     topic,
		Payload:   payload,
		Metadata:  make(map[string]string),
		Timestamp: time.Now().UnixNano(),
	}
}
