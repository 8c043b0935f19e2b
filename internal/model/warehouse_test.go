package model

import "testing"

func TestStockStatus(t *testing.T) {
	tests := []struct {
		name             string
		current, minimum float64
		want             StockStatus
	}{
		{"empty beats low", 0, 5, StockEmpty},
		{"empty with zero min", 0, 0, StockEmpty},
		{"at threshold", 5, 5, StockLow},
		{"below threshold", 2, 5, StockLow},
		{"above threshold", 6, 5, StockGood},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := WarehouseItem{CurrentStock: tt.current, MinStock: tt.minimum}
			if got := item.StockStatus(); got != tt.want {
				t.Errorf("StockStatus(%v/%v) = %v, want %v", tt.current, tt.minimum, got, tt.want)
			}
		})
	}
}

func TestItemValidate(t *testing.T) {
	valid := WarehouseItem{
		ID: "1", Name: "Rice", CurrentStock: 5, MinStock: 10,
		Unit: "kg", Category: "Food", LastUpdated: "2024-01-14",
	}

	tests := []struct {
		name   string
		mutate func(*WarehouseItem)
		wantOK bool
	}{
		{"valid", func(*WarehouseItem) {}, true},
		{"zero stock is valid", func(i *WarehouseItem) { i.CurrentStock = 0 }, true},
		{"missing id", func(i *WarehouseItem) { i.ID = "" }, false},
		{"missing name", func(i *WarehouseItem) { i.Name = "  " }, false},
		{"negative stock", func(i *WarehouseItem) { i.CurrentStock = -1 }, false},
		{"negative min", func(i *WarehouseItem) { i.MinStock = -1 }, false},
		{"missing unit", func(i *WarehouseItem) { i.Unit = "" }, false},
		{"bad date", func(i *WarehouseItem) { i.LastUpdated = "jan 14" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid
			tt.mutate(&item)
			err := item.Validate()
			if (err == nil) != tt.wantOK {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.wantOK)
			}
		})
	}
}

func TestItemPatchApply(t *testing.T) {
	item := WarehouseItem{ID: "1", Name: "Rice", CurrentStock: 5, MinStock: 10, Unit: "kg", Category: "Food", LastUpdated: "2024-01-14"}

	stock := 12.0
	got := ItemPatch{CurrentStock: &stock}.Apply(item)
	if got.CurrentStock != 12 {
		t.Errorf("CurrentStock = %v, want 12", got.CurrentStock)
	}
	if got.Name != "Rice" || got.MinStock != 10 {
		t.Errorf("unpatched fields changed: %+v", got)
	}
}

func TestDefaultWarehouseItemsAreValid(t *testing.T) {
	items := DefaultWarehouseItems()
	if len(items) != 5 {
		t.Fatalf("expected 5 default items, got %d", len(items))
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			t.Errorf("default item %s invalid: %v", item.Name, err)
		}
	}
}
