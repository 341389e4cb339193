// Package sequencerepo stores the order number counters in order_sequences.
package sequencerepo

import (
	"context"
	"errors"
	"time"

	"receiving/internal/core/domain/model/sequence"
	"receiving/internal/core/ports"
	"receiving/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceDTO is the row of order_sequences.
type SequenceDTO struct {
	Tenant       string `gorm:"primaryKey"`
	Prefix       string
	CurrentValue string
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (SequenceDTO) TableName() string {
	return "order_sequences"
}

// GormSequenceRepository implements ports.SequenceRepository. Counters are read
// with SELECT ... FOR UPDATE, so it must run inside a transaction for the lock
// to hold until the counter is saved.
//
// A missing counter is inserted with ON CONFLICT DO NOTHING before it is
// locked. Concurrent first uses of a tenant block on the primary key until the
// inserting transaction ends and then lock the same row.
type GormSequenceRepository struct {
	db *gorm.DB
}

var _ ports.SequenceRepository = (*GormSequenceRepository)(nil)

func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

func (r *GormSequenceRepository) GetForUpdate(ctx context.Context, tenant, prefix string) (*sequence.Counter, error) {
	if tenant == "" {
		return nil, errs.NewValueIsRequiredError("tenant")
	}
	db := r.db.WithContext(ctx)

	seed := SequenceDTO{Tenant: tenant, Prefix: prefix, CurrentValue: sequence.InitialValue}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return nil, err
	}

	var dto SequenceDTO
	err := db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant = ?", tenant).
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("sequence", tenant)
		}
		return nil, err
	}

	return sequence.RestoreCounter(dto.Tenant, dto.Prefix, dto.CurrentValue), nil
}

// Save rewrites the counter's value and prefix.
func (r *GormSequenceRepository) Save(ctx context.Context, counter *sequence.Counter) error {
	result := r.db.WithContext(ctx).Model(&SequenceDTO{}).
		Where("tenant = ?", counter.Name()).
		Updates(map[string]any{"prefix": counter.Prefix(), "current_value": counter.Current()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("sequence", counter.Name())
	}
	return nil
}
