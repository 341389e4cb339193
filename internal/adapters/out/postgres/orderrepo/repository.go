package orderrepo

import (
	"context"
	"errors"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/core/ports"
	"receiving/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultLimit = 100

	uniqueViolation = "23505"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
// Get locks the order row until the surrounding transaction ends.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(aggregate kernel.EventSource)
}

var _ ports.OrderRepository = (*GormOrderRepository)(nil)

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order together with its positions.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return errs.NewObjectAlreadyExistsError("orderId", aggregate.OrderID())
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate)
	return nil
}

// Update rewrites the order row and upserts all of its positions.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).
		Where("pkey = ?", dto.PKey).
		Select("*").
		Omit("pkey", "created_at", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.PKey().String())
	}

	if len(dto.Positions) > 0 {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_pkey"}, {Name: "pos_no"}},
			UpdateAll: true,
		}).Create(&dto.Positions).Error
		if err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate)
	return nil
}

// Get retrieves an order by pKey and locks its row.
func (r *GormOrderRepository) Get(ctx context.Context, pKey kernel.PKey) (*order.Order, error) {
	if err := pKey.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	return loadOne(db, "order", pKey.String(), "pkey = ?", pKey.UUID())
}

// GetByOrderID retrieves an order by its business identifier without locking.
func (r *GormOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*order.Order, error) {
	if orderID == "" {
		return nil, errs.NewValueIsRequiredError("orderId")
	}

	return loadOne(r.db.WithContext(ctx), "orderId", orderID, "order_id = ?", orderID)
}

// GetAll lists orders oldest first.
func (r *GormOrderRepository) GetAll(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	return loadMany(r.db.WithContext(ctx), filter)
}

func loadOne(db *gorm.DB, param string, id any, query string, args ...any) (*order.Order, error) {
	var dto OrderDTO
	err := db.Preload("Positions", orderedPositions).Where(query, args...).Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError(param, id)
		}
		return nil, err
	}

	return toDomain(dto)
}

func loadMany(db *gorm.DB, filter ports.OrderFilter) ([]*order.Order, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := db.Preload("Positions", orderedPositions).
		Order("created_at, pkey").
		Limit(limit).
		Offset(filter.Offset)
	if len(filter.States) > 0 {
		states := make([]int, 0, len(filter.States))
		for _, s := range filter.States {
			states = append(states, int(s))
		}
		query = query.Where("state IN ?", states)
	}

	var dtos []OrderDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func orderedPositions(db *gorm.DB) *gorm.DB {
	return db.Order("pos_no")
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
