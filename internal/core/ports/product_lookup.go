package ports

import (
	"context"

	"receiving/internal/core/domain/model/kernel"
)

// Product is the master data the capturing engine needs about an article.
type Product struct {
	SKU                string
	BaseUnit           kernel.Unit
	OverbookingAllowed bool
}

// ProductLookup resolves products. Both methods return ObjectNotFoundError for
// unknown references.
type ProductLookup interface {
	FindBySKU(ctx context.Context, sku string) (Product, error)

	// FindByUomRelation resolves the product behind a unit-of-measure relation
	// (e.g. "box of 12" of an article).
	FindByUomRelation(ctx context.Context, relationID string) (Product, error)
}
