package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/muehlenhof/pos/pkg"
	"github.com/muehlenhof/pos/pkg/event"
	"github.com/muehlenhof/pos/pkg/logging"
)

// ChangeSubscriber refreshes the catalog cache whenever a menu-changed event
// arrives. Each event triggers a full re-read; there is no incremental merge.
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
	s.logger.Info("starting menu change subscriber", "topic", event.MenuTopic)
	if s.cache != nil {
		if err := s.cache.Warm(ctx); err != nil {
			s.logger.Info("menu cache warmup failed", "error", err)
		}
	}
	if s.subscriber == nil {
		return fmt.Errorf("menu change subscriber not configured")
	}
	return s.subscriber.Subscribe(ctx, event.MenuTopic, s.handleEvent)
}

func (s *ChangeSubscriber) handleEvent(ctx context.Context, msg []byte) error {
	var evt event.MenuChangedEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		s.logger.Info("invalid menu change event", "error", err)
		return nil
	}

	if err := s.cache.Refresh(ctx); err != nil {
		s.logger.Info("menu cache refresh failed", "error", err)
	}
	return nil
}
