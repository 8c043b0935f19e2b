package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aybis/maya-family/internal/logger"
	"github.com/Aybis/maya-family/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, logger.Nop())
}

func TestListTransactionsDropsInvalid(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"1","type":"income","amount":5000,"category":"Salary","description":"pay","paymentMethod":"Bank Transfer","date":"2024-01-15"},
			{"id":"","type":"income","amount":10,"category":"Salary","description":"x","paymentMethod":"Cash","date":"2024-01-15"},
			{"id":"3","type":"expense","amount":-4,"category":"Food","description":"x","paymentMethod":"Cash","date":"2024-01-15"},
			{"id":"4","type":"expense","amount":20,"category":"Food","description":"snack","paymentMethod":"Cash","date":"not a date"},
			"garbage",
			{"id":"6","type":"expense","amount":30,"category":"Food","description":"lunch","paymentMethod":"QRIS","date":"2024-01-16"}
		]`))
	})

	got, err := client.ListTransactions(context.Background())
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2 valid survivors", len(got))
	}
	if got[0].ID != "1" || got[1].ID != "6" {
		t.Errorf("wrong survivors: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestListTransactionsServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ListTransactions(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", apiErr.Status)
	}
}

func TestNetworkErrorHasZeroStatus(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", logger.Nop())

	_, err := client.ListTransactions(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %T", err)
	}
	if apiErr.Status != 0 {
		t.Errorf("network error status = %d, want 0", apiErr.Status)
	}
}

func TestCreateTransaction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		var draft model.TransactionDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			t.Errorf("decode draft: %v", err)
		}
		json.NewEncoder(w).Encode(model.Transaction{
			ID: "srv-1", Type: draft.Type, Amount: draft.Amount,
			Category: draft.Category, Description: draft.Description,
			PaymentMethod: draft.PaymentMethod, Date: draft.Date,
		})
	})

	got, err := client.CreateTransaction(context.Background(), model.TransactionDraft{
		Type: model.TypeExpense, Amount: 250000, Category: "Food",
		Description: "Groceries", PaymentMethod: "QRIS", Date: "2024-01-14",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if got.ID != "srv-1" || got.Amount != 250000 {
		t.Errorf("record = %+v", got)
	}
}

func TestCreateTransactionMissingID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"amount":10}`))
	})

	_, err := client.CreateTransaction(context.Background(), model.TransactionDraft{})
	if err == nil {
		t.Fatal("response without id should fail")
	}
}

func TestUpdateWarehouseItem(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/warehouse/item-9" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(model.WarehouseItem{
			ID: "item-9", Name: "Rice", CurrentStock: 12, MinStock: 10,
			Unit: "kg", Category: "Food", LastUpdated: "2024-01-20",
		})
	})

	stock := 12.0
	got, err := client.UpdateWarehouseItem(context.Background(), "item-9", model.ItemPatch{CurrentStock: &stock})
	if err != nil {
		t.Fatalf("UpdateWarehouseItem: %v", err)
	}
	if got.CurrentStock != 12 {
		t.Errorf("stock = %v", got.CurrentStock)
	}
}

func TestMonthlyReportNormalizesPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("month"); got != "2024-02" {
			t.Errorf("month query = %q", got)
		}
		w.Write([]byte(`{"month":"2024-02","totalIncome":"5500000","savingsRate":250}`))
	})

	got, err := client.MonthlyReport(context.Background(), "2024-02")
	if err != nil {
		t.Fatalf("MonthlyReport: %v", err)
	}
	if got.TotalIncome != 5500000 {
		t.Errorf("string-typed income should parse, got %v", got.TotalIncome)
	}
	if got.SavingsRate != 100 {
		t.Errorf("savings rate should clamp, got %v", got.SavingsRate)
	}
}

func TestDummyTransactionsDefaultsToAll(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dummy/transactions/all" {
			t.Errorf("path = %s, want /dummy/transactions/all", r.URL.Path)
		}
		w.Write([]byte(`[]`))
	})

	if _, err := client.DummyTransactions(context.Background(), ""); err != nil {
		t.Fatalf("DummyTransactions: %v", err)
	}
}

func TestScanInvoiceSendsImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["image"] != "data:image/jpeg;base64,xyz" {
			t.Errorf("image = %q", body["image"])
		}
		w.Write([]byte(`{"amount":125000,"category":"Food"}`))
	})

	payload, err := client.ScanInvoice(context.Background(), "data:image/jpeg;base64,xyz")
	if err != nil {
		t.Fatalf("ScanInvoice: %v", err)
	}
	if payload["category"] != "Food" {
		t.Errorf("payload = %v", payload)
	}
}
