package client

import (
	"context"
	"fmt"
	"time"

	"commerce-console/internal/config"
	"commerce-console/internal/model"

	"github.com/shopspring/decimal"
)

// CatalogClient reads product detail from the catalog/inventory service.
// No mutation calls originate from this core.
type CatalogClient interface {
	GetProduct(ctx context.Context, productID string) (*model.CatalogEntry, error)
}

type catalogClientImpl struct {
	gateway *Gateway
	baseURL string
}

func NewCatalogClient(cfg *config.Catalog, gateway *Gateway) CatalogClient {
	return &catalogClientImpl{
		gateway: gateway,
		baseURL: cfg.BaseURL,
	}
}

type productResponse struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	AvailableQuantity int             `json:"available_quantity"`
	Unit              string          `json:"unit"`
}

func (c *catalogClientImpl) GetProduct(ctx context.Context, productID string) (*model.CatalogEntry, error) {
	var res productResponse
	err := c.gateway.GetJSON(ctx, c.baseURL+"/products/"+productID, &res)
	if err != nil {
		return nil, fmt.Errorf("catalog get product %s: %w", productID, err)
	}

	return &model.CatalogEntry{
		ProductID: res.ID,
		SKU:       res.SKU,
		Name:      res.Name,
		UnitPrice: res.Price,
		Available: res.AvailableQuantity,
		Unit:      res.Unit,
		FetchedAt: time.Now(),
	}, nil
}
