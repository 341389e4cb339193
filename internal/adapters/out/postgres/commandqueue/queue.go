// Package commandqueue is the outbox for remote commands that could not be
// delivered synchronously. Commands are stored in async_commands and replayed by
// the relay job.
package commandqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"receiving/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Status int

const (
	Pending   Status = 1
	Delivered Status = 2
	Failed    Status = 3
)

// CommandDTO is the row of async_commands.
type CommandDTO struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Kind      string         `gorm:"size:64"`
	Payload   datatypes.JSON `gorm:"type:jsonb"`
	Status    Status         `gorm:"type:smallint"`
	Attempts  int
	LastError *string
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (CommandDTO) TableName() string {
	return "async_commands"
}

// Command is a stored remote command.
type Command struct {
	ID       uuid.UUID
	Kind     string
	Payload  json.RawMessage
	Attempts int
}

// GormCommandQueue stores commands with GORM.
type GormCommandQueue struct {
	db *gorm.DB
}

func NewGormCommandQueue(db *gorm.DB) *GormCommandQueue {
	return &GormCommandQueue{db: db}
}

// Enqueue stores payload as JSON under kind.
func (q *GormCommandQueue) Enqueue(ctx context.Context, kind string, payload any) error {
	if kind == "" {
		return errs.NewValueIsRequiredError("kind")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", kind, err)
	}

	dto := CommandDTO{
		ID:      uuid.New(),
		Kind:    kind,
		Payload: datatypes.JSON(raw),
		Status:  Pending,
	}
	return q.db.WithContext(ctx).Create(&dto).Error
}

// Pending returns up to limit pending commands, oldest first. Rows locked by a
// concurrent relay are skipped.
func (q *GormCommandQueue) Pending(ctx context.Context, limit int) ([]Command, error) {
	var dtos []CommandDTO
	err := q.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", Pending).
		Order("created_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	commands := make([]Command, 0, len(dtos))
	for _, dto := range dtos {
		commands = append(commands, Command{
			ID:       dto.ID,
			Kind:     dto.Kind,
			Payload:  json.RawMessage(dto.Payload),
			Attempts: dto.Attempts,
		})
	}
	return commands, nil
}

func (q *GormCommandQueue) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	return q.update(ctx, id, map[string]any{
		"status":   Delivered,
		"attempts": gorm.Expr("attempts + 1"),
	})
}

// MarkAttemptFailed records cause. The command stays pending until it has been
// tried maxAttempts times.
func (q *GormCommandQueue) MarkAttemptFailed(ctx context.Context, id uuid.UUID, cause error, maxAttempts int) error {
	return q.update(ctx, id, map[string]any{
		"status":     gorm.Expr("CASE WHEN attempts + 1 >= ? THEN ? ELSE status END", maxAttempts, Failed),
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": cause.Error(),
	})
}

// RelayResult counts the outcome of one Relay run.
type RelayResult struct {
	Delivered int
	Failed    int
}

// Relay locks up to limit pending commands, hands each to deliver and records
// the outcome, all in one transaction. A deliver error only fails that command.
func (q *GormCommandQueue) Relay(
	ctx context.Context,
	limit, maxAttempts int,
	deliver func(ctx context.Context, cmd Command) error,
) (RelayResult, error) {
	var result RelayResult
	err := q.Transaction(ctx, func(tx *GormCommandQueue) error {
		result = RelayResult{}

		pending, err := tx.Pending(ctx, limit)
		if err != nil {
			return err
		}

		for _, cmd := range pending {
			if deliverErr := deliver(ctx, cmd); deliverErr != nil {
				if err = tx.MarkAttemptFailed(ctx, cmd.ID, deliverErr, maxAttempts); err != nil {
					return err
				}
				result.Failed++
				continue
			}
			if err = tx.MarkDelivered(ctx, cmd.ID); err != nil {
				return err
			}
			result.Delivered++
		}
		return nil
	})
	return result, err
}

// WithTx returns a queue bound to tx.
func (q *GormCommandQueue) WithTx(tx *gorm.DB) *GormCommandQueue {
	return &GormCommandQueue{db: tx}
}

// Transaction runs fn with a queue bound to a new transaction.
func (q *GormCommandQueue) Transaction(ctx context.Context, fn func(q *GormCommandQueue) error) error {
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(q.WithTx(tx))
	})
}

func (q *GormCommandQueue) update(ctx context.Context, id uuid.UUID, values map[string]any) error {
	result := q.db.WithContext(ctx).Model(&CommandDTO{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("command", id.String())
	}
	return nil
}
