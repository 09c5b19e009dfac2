package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"commerce-console/internal/client"
	"commerce-console/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Mock CatalogClient
type mockCatalog struct {
	entries map[string]*model.CatalogEntry
	calls   int
}

func (m *mockCatalog) GetProduct(ctx context.Context, productID string) (*model.CatalogEntry, error) {
	m.calls++
	e, ok := m.entries[productID]
	if !ok {
		return nil, &client.APIError{StatusCode: 404, Message: "product not found"}
	}
	copied := *e
	copied.FetchedAt = time.Now()
	return &copied, nil
}

// Mock SnapshotRepository
type mockSnapshots struct {
	mu      sync.Mutex
	entries map[string]*model.CatalogEntry
}

func newMockSnapshots() *mockSnapshots {
	return &mockSnapshots{entries: make(map[string]*model.CatalogEntry)}
}

func (m *mockSnapshots) Upsert(ctx context.Context, entry *model.CatalogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *entry
	m.entries[entry.ProductID] = &copied
	return nil
}

func (m *mockSnapshots) Get(ctx context.Context, productID string) (*model.CatalogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[productID]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (m *mockSnapshots) GetMany(ctx context.Context, productIDs []string) ([]*model.CatalogEntry, error) {
	var out []*model.CatalogEntry
	for _, id := range productIDs {
		e, _ := m.Get(ctx, id)
		if e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func entry(id, sku string, price string, available int) *model.CatalogEntry {
	return &model.CatalogEntry{
		ProductID: id,
		SKU:       sku,
		Name:      sku,
		UnitPrice: decimal.RequireFromString(price),
		Available: available,
		Unit:      "pcs",
	}
}

func newTestComposer(entries ...*model.CatalogEntry) (*Composer, *mockSnapshots) {
	catalog := &mockCatalog{entries: make(map[string]*model.CatalogEntry)}
	snapshots := newMockSnapshots()
	for _, e := range entries {
		catalog.entries[e.ProductID] = e
		snapshots.Upsert(context.Background(), e)
	}
	return NewComposer(catalog, snapshots, zap.NewNop()), snapshots
}

func TestSelectProduct_OutOfStock(t *testing.T) {
	composer, _ := newTestComposer(entry("p1", "SKU-1", "10.00", 0))
	draft := &Draft{CustomerID: "cust-1", PaymentMethod: model.MethodCash}

	_, err := composer.SelectProduct(context.Background(), draft, 0, "p1")
	if !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got: %v", err)
	}
	if len(draft.Lines) != 0 {
		t.Errorf("rejected selection must not add a line, got %d lines", len(draft.Lines))
	}
}

func TestSelectProduct_SeedsPriceAndQuantity(t *testing.T) {
	composer, _ := newTestComposer(entry("p1", "SKU-1", "25.50", 4))
	draft := &Draft{}

	warning, err := composer.SelectProduct(context.Background(), draft, 0, "p1")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if warning != "" {
		t.Errorf("unexpected warning: %q", warning)
	}

	line := draft.Lines[0]
	if line.Quantity != 1 {
		t.Errorf("expected quantity seeded to 1, got %d", line.Quantity)
	}
	if !line.UnitPrice.Equal(decimal.RequireFromString("25.50")) {
		t.Errorf("expected unit price 25.50, got %s", line.UnitPrice)
	}
}

func TestSelectProduct_ClampsExistingQuantity(t *testing.T) {
	composer, _ := newTestComposer(entry("p1", "SKU-1", "10.00", 3))
	draft := &Draft{Lines: []LineItem{{Quantity: 8}}}

	warning, err := composer.SelectProduct(context.Background(), draft, 0, "p1")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if warning == "" {
		t.Error("expected a clamp warning")
	}
	if draft.Lines[0].Quantity != 3 {
		t.Errorf("expected quantity clamped to 3, got %d", draft.Lines[0].Quantity)
	}
}

func TestSetQuantity_OverAvailability(t *testing.T) {
	composer, _ := newTestComposer(entry("p1", "SKU-1", "25.50", 4))
	draft := &Draft{}

	if _, err := composer.SelectProduct(context.Background(), draft, 0, "p1"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	warning, err := composer.SetQuantity(context.Background(), draft, 0, 10)
	if err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if warning == "" {
		t.Error("expected a warning for over-availability quantity")
	}
	if draft.Lines[0].Quantity != 4 {
		t.Errorf("expected quantity clamped to 4, got %d", draft.Lines[0].Quantity)
	}

	subtotal := composer.Subtotal(draft)
	if !subtotal.Equal(decimal.RequireFromString("102.00")) {
		t.Errorf("expected subtotal 102.00 computed on the clamped quantity, got %s", subtotal)
	}
}

func TestSetQuantity_Accepted(t *testing.T) {
	composer, _ := newTestComposer(entry("p1", "SKU-1", "25.50", 4))
	draft := &Draft{}

	if _, err := composer.SelectProduct(context.Background(), draft, 0, "p1"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	warning, err := composer.SetQuantity(context.Background(), draft, 0, 3)
	if err != nil {
		t.Fatalf("set quantity failed: %v", err)
	}
	if warning != "" {
		t.Errorf("unexpected warning: %q", warning)
	}
	if draft.Lines[0].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", draft.Lines[0].Quantity)
	}
}

func TestSetQuantity_NonPositive(t *testing.T) {
	composer, _ := newTestComposer(entry("p1", "SKU-1", "25.50", 4))
	draft := &Draft{}

	if _, err := composer.SelectProduct(context.Background(), draft, 0, "p1"); err != nil {
		t.Fatalf("select failed: %v", err)
	}

	var validation *ValidationError
	if _, err := composer.SetQuantity(context.Background(), draft, 0, 0); !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got: %v", err)
	}
}

func TestSubtotal_OrderIndependent(t *testing.T) {
	composer, _ := newTestComposer()

	lines := []LineItem{
		{ProductID: "p1", Quantity: 2, UnitPrice: decimal.RequireFromString("9.99")},
		{ProductID: "p2", Quantity: 1, UnitPrice: decimal.RequireFromString("100.00")},
		{ProductID: "p3", Quantity: 7, UnitPrice: decimal.RequireFromString("0.35")},
	}
	reversed := []LineItem{lines[2], lines[1], lines[0]}

	a := composer.Subtotal(&Draft{Lines: lines})
	b := composer.Subtotal(&Draft{Lines: reversed})

	if !a.Equal(b) {
		t.Errorf("subtotal depends on line order: %s vs %s", a, b)
	}
	if !a.Equal(decimal.RequireFromString("122.43")) {
		t.Errorf("expected subtotal 122.43, got %s", a)
	}
}

func TestValidateForSubmission_AggregatesProblems(t *testing.T) {
	composer, snapshots := newTestComposer(
		entry("p1", "SKU-1", "10.00", 4),
		entry("p2", "SKU-2", "5.00", 2),
	)

	// Availability moved underneath the draft since composition.
	snapshots.Upsert(context.Background(), entry("p1", "SKU-1", "10.00", 0))

	draft := &Draft{
		PaymentMethod: model.MethodCash,
		Lines: []LineItem{
			{ProductID: "p1", SKU: "SKU-1", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
			{ProductID: "p2", SKU: "SKU-2", Quantity: 5, UnitPrice: decimal.RequireFromString("5.00")},
		},
	}

	err := composer.ValidateForSubmission(context.Background(), draft)

	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got: %v", err)
	}
	// missing customer + p1 out of stock + p2 over quantity, in one failure
	if len(validation.Problems) != 3 {
		t.Errorf("expected 3 aggregated problems, got %d: %v", len(validation.Problems), validation.Problems)
	}
}

func TestValidateForSubmission_OK(t *testing.T) {
	composer, _ := newTestComposer(entry("p1", "SKU-1", "10.00", 4))

	draft := &Draft{
		CustomerID:    "cust-1",
		PaymentMethod: model.MethodCard,
		Lines: []LineItem{
			{ProductID: "p1", SKU: "SKU-1", Quantity: 4, UnitPrice: decimal.RequireFromString("10.00")},
		},
	}

	if err := composer.ValidateForSubmission(context.Background(), draft); err != nil {
		t.Fatalf("expected draft to validate, got: %v", err)
	}
}
