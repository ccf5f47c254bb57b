// Package catalog загружает список групп и держит его упорядоченную копию.
package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MrPunder/grouppicker/internal/groups"
	"github.com/MrPunder/grouppicker/internal/logger"
	"github.com/MrPunder/grouppicker/internal/models"
)

var ErrNotLoaded = errors.New("group list is not loaded yet")

// Fetcher источник списка групп
type Fetcher interface {
	FetchGroups(ctx context.Context) ([]models.Group, error)
}

// Catalog упорядоченный список групп, общий для всех пользователей
type Catalog struct {
	fetcher Fetcher
	sorter  groups.Sorter
	logger  logger.Logger

	mu        sync.RWMutex
	groups    []models.Group
	byID      map[string]models.Group
	loaded    bool
	updatedAt time.Time
}

func New(fetcher Fetcher, sorter groups.Sorter, logger logger.Logger) *Catalog {
	return &Catalog{
		fetcher: fetcher,
		sorter:  sorter,
		logger:  logger,
		byID:    make(map[string]models.Group),
	}
}

// Refresh загружает список заново. При ошибке прежний список остаётся в силе
func (c *Catalog) Refresh(ctx context.Context) error {
	fetched, err := c.fetcher.FetchGroups(ctx)
	if err != nil {
		c.logger.Errorf("Failed to fetch group list: %v", err)
		return err
	}

	c.Replace(fetched)
	c.logger.Infof("Group list refreshed: %d groups", len(fetched))
	return nil
}

// Replace упорядочивает и публикует новый список
func (c *Catalog) Replace(fetched []models.Group) {
	ordered := c.sorter.Order(fetched)
	byID := make(map[string]models.Group, len(ordered))
	for _, g := range ordered {
		byID[g.ID] = g
	}

	c.mu.Lock()
	c.groups = ordered
	c.byID = byID
	c.loaded = true
	c.updatedAt = models.GetCurrentTime()
	c.mu.Unlock()
}

// Run обновляет список каждые interval, пока не отменён ctx
func (c *Catalog) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		c.logger.Errorf("Periodic group list refresh disabled: invalid interval %s", interval)
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// ошибка уже залогирована в Refresh
			_ = c.Refresh(ctx)
		}
	}
}

// Groups упорядоченный список. Срез нельзя изменять
func (c *Catalog) Groups() []models.Group {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.groups
}

// Search фильтрует упорядоченный список по строке поиска
func (c *Catalog) Search(query string) []models.Group {
	return groups.Filter(c.Groups(), query)
}

func (c *Catalog) Find(id string) (models.Group, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.byID[id]
	return g, ok
}

// Loaded сообщает, был ли хотя бы один успешный Refresh, и когда был последний
func (c *Catalog) Loaded() (bool, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded, c.updatedAt
}
