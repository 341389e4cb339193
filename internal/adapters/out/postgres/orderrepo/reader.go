package orderrepo

import (
	"context"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/core/ports"
	"receiving/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderReader loads orders outside of a unit of work and without row locks.
// It backs the read-side queries.
type GormOrderReader struct {
	db *gorm.DB
}

func NewGormOrderReader(db *gorm.DB) *GormOrderReader {
	return &GormOrderReader{db: db}
}

func (r *GormOrderReader) Get(ctx context.Context, pKey kernel.PKey) (*order.Order, error) {
	if err := pKey.Validate(); err != nil {
		return nil, err
	}
	return loadOne(r.db.WithContext(ctx), "order", pKey.String(), "pkey = ?", pKey.UUID())
}

func (r *GormOrderReader) GetByOrderID(ctx context.Context, orderID string) (*order.Order, error) {
	if orderID == "" {
		return nil, errs.NewValueIsRequiredError("orderId")
	}
	return loadOne(r.db.WithContext(ctx), "orderId", orderID, "order_id = ?", orderID)
}

func (r *GormOrderReader) GetAll(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	return loadMany(r.db.WithContext(ctx), filter)
}
