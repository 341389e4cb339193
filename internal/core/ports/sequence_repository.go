package ports

import (
	"context"

	"receiving/internal/core/domain/model/sequence"
)

// SequenceRepository stores the per-tenant order number counters.
type SequenceRepository interface {
	// GetForUpdate loads the counter of tenant and locks it until the enclosing
	// transaction ends. A missing counter is created first at
	// sequence.InitialValue with prefix.
	GetForUpdate(ctx context.Context, tenant, prefix string) (*sequence.Counter, error)

	// Save rewrites a counter returned by GetForUpdate.
	Save(ctx context.Context, counter *sequence.Counter) error
}
