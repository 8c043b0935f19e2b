package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Aybis/maya-family/internal/model"
	"github.com/Aybis/maya-family/internal/repository"
	"github.com/Aybis/maya-family/internal/safe"
)

// Error strings surfaced by warehouse actions.
const (
	MsgItemSavedLocally   = "Item saved locally - API unavailable"
	MsgItemUpdatedLocally = "Item updated locally - API unavailable"
	MsgItemNotFound       = "Item not found"
	MsgStockNegative      = "Stock cannot be negative"
)

// WarehouseGateway is the slice of the remote gateway this store needs.
type WarehouseGateway interface {
	ListWarehouseItems(ctx context.Context) ([]model.WarehouseItem, error)
	CreateWarehouseItem(ctx context.Context, draft model.ItemDraft) (model.WarehouseItem, error)
	UpdateWarehouseItem(ctx context.Context, id string, patch model.ItemPatch) (model.WarehouseItem, error)
	DummyWarehouse(ctx context.Context, userID string) ([]model.WarehouseItem, error)
}

// WarehouseStore owns the household inventory items.
type WarehouseStore struct {
	gw        WarehouseGateway
	snapshots repository.Snapshots
	log       zerolog.Logger
	userID    string

	now   func() time.Time
	newID func() string

	mu          sync.RWMutex
	items       []model.WarehouseItem
	loading     bool
	err         string
	initialized bool
}

// NewWarehouseStore builds a store and rehydrates it from the snapshot
// partition.
func NewWarehouseStore(gw WarehouseGateway, snapshots repository.Snapshots, userID string, log zerolog.Logger) *WarehouseStore {
	s := &WarehouseStore{
		gw:        gw,
		snapshots: snapshots,
		log:       log,
		userID:    userID,
		now:       time.Now,
		newID:     func() string { return model.LocalIDPrefix + uuid.NewString() },
	}
	items, initialized, err := snapshots.LoadItems()
	if err != nil {
		log.Warn().Err(err).Msg("warehouse snapshot rehydration failed")
		return s
	}
	s.items = items
	s.initialized = initialized
	return s
}

// FetchItems loads the collection through the three-tier fallback chain.
func (s *WarehouseStore) FetchItems(ctx context.Context) {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	outcome := fetchWithFallback(ctx, s.log,
		s.gw.ListWarehouseItems,
		func(ctx context.Context) ([]model.WarehouseItem, error) {
			return s.gw.DummyWarehouse(ctx, s.userID)
		},
		model.DefaultWarehouseItems,
	)

	s.mu.Lock()
	s.items = outcome.records
	s.err = outcome.tier.Provenance()
	s.loading = false
	s.initialized = true
	s.persistLocked()
	s.mu.Unlock()
}

// AddItem validates the draft, attempts the remote create, and falls back
// to a local-origin record on failure. LastUpdated is always re-stamped to
// the current date. Returns nil only when the draft fails validation.
func (s *WarehouseStore) AddItem(ctx context.Context, draft model.ItemDraft) *model.WarehouseItem {
	if err := draft.Validate(); err != nil {
		s.mu.Lock()
		s.err = err.Error()
		s.mu.Unlock()
		return nil
	}

	today := s.now().Format(model.DateLayout)
	item, err := s.gw.CreateWarehouseItem(ctx, draft)
	note := ""
	if err != nil {
		s.log.Warn().Err(err).Msg("remote item create failed, saving locally")
		item = model.WarehouseItem{
			ID:           s.newID(),
			Name:         draft.Name,
			CurrentStock: draft.CurrentStock,
			MinStock:     draft.MinStock,
			Unit:         draft.Unit,
			Category:     draft.Category,
		}
		note = MsgItemSavedLocally
	}
	item.LastUpdated = today

	s.mu.Lock()
	s.items = append(s.items, item)
	s.err = note
	s.persistLocked()
	s.mu.Unlock()
	return &item
}

// UpdateItem attempts the remote update (the only resource with a remote
// update endpoint) and applies the patch locally anyway on failure, so an
// edit is never silently lost. Returns false when the id is unknown.
func (s *WarehouseStore) UpdateItem(ctx context.Context, id string, patch model.ItemPatch) bool {
	s.mu.RLock()
	idx := -1
	for i, item := range s.items {
		if item.ID == id {
			idx = i
			break
		}
	}
	s.mu.RUnlock()

	if idx == -1 {
		s.mu.Lock()
		s.err = MsgItemNotFound
		s.mu.Unlock()
		return false
	}

	updated, err := s.gw.UpdateWarehouseItem(ctx, id, patch)
	note := ""
	if err != nil {
		s.log.Warn().Err(err).Str("id", id).Msg("remote item update failed, patching locally")
		note = MsgItemUpdatedLocally
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID != id {
			continue
		}
		if err != nil {
			updated = patch.Apply(item)
		}
		updated.LastUpdated = s.now().Format(model.DateLayout)
		s.items[i] = updated
		s.err = note
		s.persistLocked()
		return true
	}
	s.err = MsgItemNotFound
	return false
}

// DeleteItem removes the item from local state. The backend exposes no
// delete endpoint; deliberately local-only.
func (s *WarehouseStore) DeleteItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID != id {
			continue
		}
		s.items = append(s.items[:i], s.items[i+1:]...)
		s.err = ""
		s.persistLocked()
		return true
	}
	s.err = MsgItemNotFound
	return false
}

// UpdateStock sets the item's current stock via UpdateItem. Negative values
// are rejected before any network call.
func (s *WarehouseStore) UpdateStock(ctx context.Context, id string, newStock float64) bool {
	if newStock < 0 {
		s.mu.Lock()
		s.err = MsgStockNegative
		s.mu.Unlock()
		return false
	}
	return s.UpdateItem(ctx, id, model.ItemPatch{CurrentStock: &newStock})
}

// ConsumeItem decrements stock for every item whose name contains name,
// case-insensitively, flooring at zero. Intentionally approximate, silent
// and best-effort: zero matches is a quiet no-op and the store error state
// is never touched, because this runs as a side effect of recording a
// transaction and must never block that flow.
func (s *WarehouseStore) ConsumeItem(name string, quantity float64) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" || quantity <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	today := s.now().Format(model.DateLayout)
	for i, item := range s.items {
		if !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}
		stock := item.CurrentStock - quantity
		if stock < 0 {
			stock = 0
		}
		s.items[i].CurrentStock = stock
		s.items[i].LastUpdated = today
		changed = true
	}
	if changed {
		s.persistLocked()
	}
}

// Items returns a copy of the current collection.
func (s *WarehouseStore) Items() []model.WarehouseItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.WarehouseItem, len(s.items))
	copy(out, s.items)
	return out
}

// Loading reports whether a fetch is in flight.
func (s *WarehouseStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Error returns the current error or provenance note.
func (s *WarehouseStore) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Initialized reports whether a fetch chain has completed at least once.
func (s *WarehouseStore) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// LowStockItems returns every item at or below its minimum threshold.
func (s *WarehouseStore) LowStockItems() []model.WarehouseItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return safe.Filter(s.items, model.WarehouseItem.IsLowStock)
}

// ItemByName returns the first case-insensitive substring match.
func (s *WarehouseStore) ItemByName(name string) (model.WarehouseItem, bool) {
	needle := strings.ToLower(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return safe.Find(s.items, func(item model.WarehouseItem) bool {
		return strings.Contains(strings.ToLower(item.Name), needle)
	})
}

// ItemsByCategory filters by exact category.
func (s *WarehouseStore) ItemsByCategory(category string) []model.WarehouseItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return safe.Filter(s.items, func(item model.WarehouseItem) bool {
		return item.Category == category
	})
}

// Categories returns the de-duplicated category list, sorted ascending.
func (s *WarehouseStore) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	out := []string{}
	for _, item := range s.items {
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	sort.Strings(out)
	return out
}

// TotalItems counts tracked items.
func (s *WarehouseStore) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return safe.Length(s.items)
}

// TotalStockValue sums current stock across all items. This adds up
// heterogeneous units (kg plus bottles plus packs); a known limitation of
// the metric, kept as-is.
func (s *WarehouseStore) TotalStockValue() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return safe.Reduce(s.items, func(sum float64, item model.WarehouseItem) float64 {
		return sum + item.CurrentStock
	}, 0)
}

// StockStatus classifies an item: empty beats low, low beats good.
func (s *WarehouseStore) StockStatus(item model.WarehouseItem) model.StockStatus {
	return item.StockStatus()
}

func (s *WarehouseStore) persistLocked() {
	if err := s.snapshots.SaveItems(s.items, s.initialized); err != nil {
		s.log.Warn().Err(err).Msg("warehouse snapshot write failed")
	}
}
