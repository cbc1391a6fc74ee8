package order

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/muehlenhof/pos/pkg/logging"
)

// Cache holds the open orders by table so views never wait on the database.
// Entries are replaced wholesale from repo snapshots on every change event.
type Cache struct {
	mu     sync.RWMutex
	orders map[string]*Order
	repo   Repo
	logger *slog.Logger
}

func NewCache(repo Repo, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.Noop()
	}
	return &Cache{
		orders: make(map[string]*Order),
		repo:   repo,
		logger: logger,
	}
}

// Get returns the cached open order, reading through to the repo on a miss.
// Returns nil, nil when the table has no open order.
func (c *Cache) Get(ctx context.Context, room, table string) (*Order, error) {
	id := OrderID(room, table)

	c.mu.RLock()
	o, ok := c.orders[id]
	c.mu.RUnlock()
	if ok {
		return o, nil
	}

	return c.Refresh(ctx, room, table)
}

// Refresh re-reads one table's order from the repo and replaces the cached
// snapshot. A missing order clears the entry.
func (c *Cache) Refresh(ctx context.Context, room, table string) (*Order, error) {
	o, err := c.repo.Get(ctx, room, table)
	if err != nil {
		return nil, fmt.Errorf("cannot refresh order cache: %w", err)
	}

	id := OrderID(room, table)
	c.mu.Lock()
	if o == nil {
		delete(c.orders, id)
	} else {
		c.orders[id] = o
	}
	c.mu.Unlock()

	return o, nil
}

// Drop removes one table's entry, used after an order was closed.
func (c *Cache) Drop(room, table string) {
	c.mu.Lock()
	delete(c.orders, OrderID(room, table))
	c.mu.Unlock()
}
