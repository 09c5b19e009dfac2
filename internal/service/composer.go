package service

import (
	"context"
	"fmt"

	"commerce-console/internal/client"
	"commerce-console/internal/model"
	"commerce-console/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LineItem exists only inside a Draft; the order service assigns nothing
// until submission.
type LineItem struct {
	ProductID string
	SKU       string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Draft is the client-side order being composed. It is ephemeral: the UI
// sends it whole with every composer call.
type Draft struct {
	CustomerID    string
	Lines         []LineItem
	PaymentMethod model.PaymentMethod
	Notes         string
}

// Composer builds and validates line items against the last-fetched catalog
// snapshot. All of its checks are optimistic: a race against another buyer is
// possible and must be caught by the order service.
type Composer struct {
	catalog   client.CatalogClient
	snapshots repository.SnapshotRepository
	log       *zap.Logger
}

func NewComposer(catalog client.CatalogClient, snapshots repository.SnapshotRepository, log *zap.Logger) *Composer {
	return &Composer{
		catalog:   catalog,
		snapshots: snapshots,
		log:       log,
	}
}

// RefreshSnapshot fetches current product detail and replaces the cached entry.
func (c *Composer) RefreshSnapshot(ctx context.Context, productID string) (*model.CatalogEntry, error) {
	entry, err := c.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := c.snapshots.Upsert(ctx, entry); err != nil {
		return nil, fmt.Errorf("cache catalog entry: %w", err)
	}
	return entry, nil
}

// Snapshot returns the cached entry, fetching through the catalog service
// only when the product has never been seen.
func (c *Composer) Snapshot(ctx context.Context, productID string) (*model.CatalogEntry, error) {
	entry, err := c.snapshots.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		return entry, nil
	}
	return c.RefreshSnapshot(ctx, productID)
}

// SelectProduct puts a product on the given line. A product with zero
// availability is rejected and the line is left untouched. The unit price is
// seeded from the snapshot; a quantity above availability is clamped down
// with a warning.
func (c *Composer) SelectProduct(ctx context.Context, draft *Draft, lineIndex int, productID string) (warning string, err error) {
	if lineIndex < 0 || lineIndex > len(draft.Lines) {
		return "", &ValidationError{Problems: []string{fmt.Sprintf("line %d does not exist", lineIndex)}}
	}

	entry, err := c.Snapshot(ctx, productID)
	if err != nil {
		return "", err
	}
	if entry.Available == 0 {
		return "", fmt.Errorf("%s: %w", entry.SKU, ErrOutOfStock)
	}

	if lineIndex == len(draft.Lines) {
		draft.Lines = append(draft.Lines, LineItem{})
	}
	line := &draft.Lines[lineIndex]
	line.ProductID = entry.ProductID
	line.SKU = entry.SKU
	line.UnitPrice = entry.UnitPrice
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	if line.Quantity > entry.Available {
		line.Quantity = entry.Available
		warning = fmt.Sprintf("only %d × %s available, quantity reduced", entry.Available, entry.SKU)
	}
	return warning, nil
}

// SetQuantity accepts the requested quantity when the snapshot can cover it.
// A request above availability is rejected: the quantity stays clamped to
// availability and a warning is returned.
func (c *Composer) SetQuantity(ctx context.Context, draft *Draft, lineIndex, quantity int) (warning string, err error) {
	if lineIndex < 0 || lineIndex >= len(draft.Lines) {
		return "", &ValidationError{Problems: []string{fmt.Sprintf("line %d does not exist", lineIndex)}}
	}
	line := &draft.Lines[lineIndex]
	if line.ProductID == "" {
		return "", &ValidationError{Problems: []string{"select a product before setting a quantity"}}
	}
	if quantity <= 0 {
		return "", &ValidationError{Problems: []string{"quantity must be a positive integer"}}
	}

	entry, err := c.Snapshot(ctx, line.ProductID)
	if err != nil {
		return "", err
	}
	if quantity > entry.Available {
		line.Quantity = entry.Available
		return fmt.Sprintf("only %d × %s available, quantity reduced", entry.Available, entry.SKU), nil
	}

	line.Quantity = quantity
	return "", nil
}

// Subtotal is the sum of quantity × unit price over all lines. It is
// deterministic and independent of line order.
func (c *Composer) Subtotal(draft *Draft) decimal.Decimal {
	total := decimal.Zero
	for _, line := range draft.Lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// ValidateForSubmission re-checks every line against the snapshot and returns
// a single aggregate failure, never a partial one.
func (c *Composer) ValidateForSubmission(ctx context.Context, draft *Draft) error {
	var problems []string

	if draft.CustomerID == "" {
		problems = append(problems, "customer is required")
	}
	if len(draft.Lines) == 0 {
		problems = append(problems, "order has no items")
	}
	switch draft.PaymentMethod {
	case model.MethodCash, model.MethodCard, model.MethodBankTransfer, model.MethodCheck:
	default:
		problems = append(problems, fmt.Sprintf("unsupported payment method %q", draft.PaymentMethod))
	}

	productIDs := make([]string, 0, len(draft.Lines))
	for _, line := range draft.Lines {
		if line.ProductID != "" {
			productIDs = append(productIDs, line.ProductID)
		}
	}
	entries, err := c.snapshots.GetMany(ctx, productIDs)
	if err != nil {
		return err
	}
	byID := make(map[string]*model.CatalogEntry, len(entries))
	for _, e := range entries {
		byID[e.ProductID] = e
	}

	for i, line := range draft.Lines {
		if line.ProductID == "" {
			problems = append(problems, fmt.Sprintf("line %d has no product", i+1))
			continue
		}
		if line.Quantity <= 0 {
			problems = append(problems, fmt.Sprintf("line %d has no quantity", i+1))
			continue
		}

		entry := byID[line.ProductID]
		switch {
		case entry == nil:
			problems = append(problems, fmt.Sprintf("%s is no longer in the catalog", line.ProductID))
		case entry.Available == 0:
			problems = append(problems, fmt.Sprintf("%s is out of stock", entry.SKU))
		case line.Quantity > entry.Available:
			problems = append(problems, fmt.Sprintf("only %d × %s available", entry.Available, entry.SKU))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
