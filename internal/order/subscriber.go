package order

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/muehlenhof/pos/pkg"
	"github.com/muehlenhof/pos/pkg/event"
	"github.com/muehlenhof/pos/pkg/logging"
)

// ChangeSubscriber keeps the order cache in sync with other terminals. Each
// order-changed event re-reads the named table's document; a closed order
// drops the entry.
type ChangeSubscriber struct {
	subscriber pkg.Subscriber
	cache      *Cache
	logger     *slog.Logger
}

func NewChangeSubscriber(sub pkg.Subscriber, cache *Cache, logger *slog.Logger) *ChangeSubscriber {
	if logger == nil {
		logger = logging.Noop()
	}
	return &ChangeSubscriber{subscriber: sub, cache: cache, logger: logger}
}

func (s *ChangeSubscriber) Start(ctx context.Context) error {
	s.logger.Info("starting order change subscriber", "topic", event.OrderItemsTopic)
	if s.subscriber == nil {
		return fmt.Errorf("order change subscriber not configured")
	}
	return s.subscriber.Subscribe(ctx, event.OrderItemsTopic, s.handleEvent)
}

func (s *ChangeSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.OrderChangedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Info("invalid order change event", "error", err)
		return nil
	}
	if evt.Room == "" || evt.Table == "" {
		return nil
	}

	if evt.EventType == event.EventOrderClosed {
		s.cache.Drop(evt.Room, evt.Table)
		return nil
	}

	if _, err := s.cache.Refresh(ctx, evt.Room, evt.Table); err != nil {
		s.logger.Info("order cache refresh failed", "error", err, "room", evt.Room, "table", evt.Table)
	}
	return nil
}
