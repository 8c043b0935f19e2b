package store

import (
	"context"
	"testing"

	"github.com/Aybis/maya-family/internal/logger"
	"github.com/Aybis/maya-family/internal/model"
)

func newWarehouseStore(gw *fakeGateway, snaps *memSnapshots) *WarehouseStore {
	s := NewWarehouseStore(gw, snaps, "user1", logger.Nop())
	s.now = fixedClock()
	s.newID = sequentialIDs(model.LocalIDPrefix)
	return s
}

func pantry() []model.WarehouseItem {
	return []model.WarehouseItem{
		{ID: "1", Name: "Rice", CurrentStock: 5, MinStock: 10, Unit: "kg", Category: "Food", LastUpdated: "2024-01-14"},
		{ID: "2", Name: "Cooking Oil", CurrentStock: 2, MinStock: 3, Unit: "bottles", Category: "Food", LastUpdated: "2024-01-13"},
		{ID: "3", Name: "Tissue Paper", CurrentStock: 15, MinStock: 5, Unit: "packs", Category: "Household", LastUpdated: "2024-01-12"},
	}
}

func TestFetchItemsFallbackTiers(t *testing.T) {
	tests := []struct {
		name      string
		gw        *fakeGateway
		wantErr   string
		wantCount int
	}{
		{
			"remote",
			&fakeGateway{listItems: func(context.Context) ([]model.WarehouseItem, error) { return pantry(), nil }},
			"", 3,
		},
		{
			"demo",
			&fakeGateway{dummyItems: func(context.Context, string) ([]model.WarehouseItem, error) { return pantry(), nil }},
			MsgDemoData, 3,
		},
		{
			"defaults",
			&fakeGateway{},
			MsgDefaultData, 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newWarehouseStore(tt.gw, &memSnapshots{})
			s.FetchItems(context.Background())
			if s.Error() != tt.wantErr {
				t.Errorf("error = %q, want %q", s.Error(), tt.wantErr)
			}
			if len(s.Items()) != tt.wantCount {
				t.Errorf("items = %d, want %d", len(s.Items()), tt.wantCount)
			}
			if !s.Initialized() {
				t.Error("store should be initialized after fetch")
			}
		})
	}
}

func TestAddItemLocalFallback(t *testing.T) {
	s := newWarehouseStore(&fakeGateway{}, &memSnapshots{})

	got := s.AddItem(context.Background(), model.ItemDraft{
		Name: "Sugar", CurrentStock: 3, MinStock: 2, Unit: "kg", Category: "Groceries",
	})

	if got == nil {
		t.Fatal("item should be created locally")
	}
	if got.LastUpdated != "2024-03-10" {
		t.Errorf("lastUpdated = %q, want today", got.LastUpdated)
	}
	if s.Error() != MsgItemSavedLocally {
		t.Errorf("error = %q", s.Error())
	}

	if s.AddItem(context.Background(), model.ItemDraft{Unit: "kg", Category: "x"}) != nil {
		t.Error("invalid draft should not create an item")
	}
	if s.Error() != "Name is required" {
		t.Errorf("error = %q", s.Error())
	}
}

func TestUpdateItemRemoteFailurePatchesLocally(t *testing.T) {
	s := newWarehouseStore(&fakeGateway{}, &memSnapshots{})
	s.items = pantry()

	stock := 12.0
	if !s.UpdateItem(context.Background(), "1", model.ItemPatch{CurrentStock: &stock}) {
		t.Fatal("update should find item 1")
	}
	got := s.Items()[0]
	if got.CurrentStock != 12 {
		t.Errorf("stock = %v, want local patch applied", got.CurrentStock)
	}
	if got.LastUpdated != "2024-03-10" {
		t.Errorf("lastUpdated = %q, want restamped", got.LastUpdated)
	}
	if s.Error() != MsgItemUpdatedLocally {
		t.Errorf("error = %q", s.Error())
	}

	if s.UpdateItem(context.Background(), "missing", model.ItemPatch{}) {
		t.Error("unknown id should return false")
	}
	if s.Error() != MsgItemNotFound {
		t.Errorf("error = %q", s.Error())
	}
}

func TestUpdateItemRemoteSuccess(t *testing.T) {
	gw := &fakeGateway{
		updateItem: func(_ context.Context, id string, patch model.ItemPatch) (model.WarehouseItem, error) {
			return model.WarehouseItem{ID: id, Name: "Rice", CurrentStock: *patch.CurrentStock, MinStock: 10, Unit: "kg", Category: "Food", LastUpdated: "2024-03-01"}, nil
		},
	}
	s := newWarehouseStore(gw, &memSnapshots{})
	s.items = pantry()

	stock := 20.0
	if !s.UpdateItem(context.Background(), "1", model.ItemPatch{CurrentStock: &stock}) {
		t.Fatal("update failed")
	}
	got := s.Items()[0]
	if got.CurrentStock != 20 {
		t.Errorf("stock = %v", got.CurrentStock)
	}
	if s.Error() != "" {
		t.Errorf("remote success should leave error empty, got %q", s.Error())
	}
}

func TestUpdateStockRejectsNegative(t *testing.T) {
	s := newWarehouseStore(&fakeGateway{}, &memSnapshots{})
	s.items = pantry()

	if s.UpdateStock(context.Background(), "1", -1) {
		t.Error("negative stock should be rejected")
	}
	if s.Error() != MsgStockNegative {
		t.Errorf("error = %q", s.Error())
	}
	if s.Items()[0].CurrentStock != 5 {
		t.Error("stock should be untouched")
	}

	if !s.UpdateStock(context.Background(), "1", 0) {
		t.Error("zero stock is a valid update")
	}
}

func TestConsumeItem(t *testing.T) {
	snaps := &memSnapshots{}
	s := newWarehouseStore(&fakeGateway{}, snaps)
	s.items = []model.WarehouseItem{
		{ID: "1", Name: "Rice Premium", CurrentStock: 5, MinStock: 10, Unit: "kg", Category: "Food", LastUpdated: "2024-01-14"},
		{ID: "2", Name: "Brown Rice", CurrentStock: 0.5, MinStock: 1, Unit: "kg", Category: "Food", LastUpdated: "2024-01-14"},
		{ID: "3", Name: "Cooking Oil", CurrentStock: 2, MinStock: 3, Unit: "bottles", Category: "Food", LastUpdated: "2024-01-14"},
	}

	s.ConsumeItem("rice", 1)

	items := s.Items()
	if items[0].CurrentStock != 4 {
		t.Errorf("Rice Premium = %v, want 4", items[0].CurrentStock)
	}
	if items[1].CurrentStock != 0 {
		t.Errorf("Brown Rice = %v, want floored at 0", items[1].CurrentStock)
	}
	if items[2].CurrentStock != 2 {
		t.Errorf("Cooking Oil = %v, should be untouched", items[2].CurrentStock)
	}
	if items[0].LastUpdated != "2024-03-10" {
		t.Errorf("lastUpdated = %q, want restamped", items[0].LastUpdated)
	}
	if s.Error() != "" {
		t.Errorf("consume must not touch error state, got %q", s.Error())
	}

	// Zero matches and non-positive quantities are silent no-ops.
	before := len(snaps.items)
	s.ConsumeItem("caviar", 1)
	s.ConsumeItem("rice", 0)
	s.ConsumeItem(" ", 1)
	if len(snaps.items) != before {
		t.Error("no-op consume should not persist")
	}
}

func TestWarehouseQueries(t *testing.T) {
	s := newWarehouseStore(&fakeGateway{}, &memSnapshots{})
	s.items = pantry()

	low := s.LowStockItems()
	if len(low) != 2 {
		t.Errorf("LowStockItems = %d, want 2", len(low))
	}

	item, ok := s.ItemByName("oil")
	if !ok || item.Name != "Cooking Oil" {
		t.Errorf("ItemByName(oil) = %+v, %v", item, ok)
	}
	if _, ok := s.ItemByName("caviar"); ok {
		t.Error("ItemByName should miss")
	}

	if got := s.ItemsByCategory("Food"); len(got) != 2 {
		t.Errorf("ItemsByCategory = %d", len(got))
	}
	if got := s.Categories(); len(got) != 2 || got[0] != "Food" || got[1] != "Household" {
		t.Errorf("Categories = %v", got)
	}
	if got := s.TotalItems(); got != 3 {
		t.Errorf("TotalItems = %d", got)
	}
	if got := s.TotalStockValue(); got != 22 {
		t.Errorf("TotalStockValue = %v", got)
	}
}

func TestDeleteItem(t *testing.T) {
	s := newWarehouseStore(&fakeGateway{}, &memSnapshots{})
	s.items = pantry()

	if !s.DeleteItem("2") {
		t.Fatal("delete should find item 2")
	}
	if len(s.Items()) != 2 {
		t.Error("item not removed")
	}
	if s.DeleteItem("2") {
		t.Error("second delete should return false")
	}
	if s.Error() != MsgItemNotFound {
		t.Errorf("error = %q", s.Error())
	}
}
