package menu

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/muehlenhof/pos/pkg/logging"
)

// Cache holds the current catalog, rebuilt wholesale from every snapshot of
// the stored menu document.
type Cache struct {
	mu      sync.RWMutex
	catalog *Catalog
	repo    Repo
	rules   SortRules
	logger  *slog.Logger
}

func NewCache(repo Repo, rules SortRules, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.Noop()
	}
	if rules == nil {
		rules = DefaultSortRules()
	}
	return &Cache{
		catalog: BuildCatalog(map[string]any{}, rules, logger),
		repo:    repo,
		rules:   rules,
		logger:  logger,
	}
}

// Warm loads the menu document and builds the initial catalog.
func (c *Cache) Warm(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Refresh re-reads the full menu document and replaces the catalog. A failed
// read leaves the previous catalog in place.
func (c *Cache) Refresh(ctx context.Context) error {
	if c.repo == nil {
		return fmt.Errorf("menu cache uninitialized")
	}

	doc, err := c.repo.Get(ctx)
	if err != nil {
		return fmt.Errorf("cannot load menu document: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	catalog := BuildCatalog(doc, c.rules, c.logger)

	c.mu.Lock()
	c.catalog = catalog
	c.mu.Unlock()

	c.logger.Debug("menu catalog rebuilt",
		"drink_categories", len(catalog.Drinks), "food_categories", len(catalog.Foods))
	return nil
}

// Catalog returns the current catalog. Catalogs are immutable after build.
func (c *Cache) Catalog() *Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalog
}
