package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogEntry is the locally cached view of a product's availability.
// It is refreshed from the catalog service and may be stale relative to
// the server; submission-time validation against it is optimistic.
type CatalogEntry struct {
	ProductID string          `gorm:"primaryKey;size:64" json:"product_id"`
	SKU       string          `gorm:"size:64;index" json:"sku"`
	Name      string          `gorm:"size:255" json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:numeric;not null" json:"unit_price"`
	Available int             `gorm:"not null" json:"available"`
	Unit      string          `gorm:"size:16" json:"unit"`
	FetchedAt time.Time       `json:"fetched_at"`
}
