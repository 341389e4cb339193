// Package ordernumber produces tenant-scoped business identifiers for orders
// that are created without one.
package ordernumber

import (
	"context"

	"receiving/internal/core/ports"
	"receiving/internal/pkg/errs"
)

// Generator numbers orders of one tenant.
//
// Next is a read-modify-write of the tenant's counter inside the caller's
// transaction. Uniqueness under concurrent creation relies on the repository
// creating and locking the counter row (SequenceRepository.GetForUpdate), also
// for the very first number of a tenant.
type Generator struct {
	tenant string
	prefix string
}

// NewGenerator returns a generator for tenant. prefix is used only when the
// tenant's counter does not exist yet; afterwards the stored prefix wins.
func NewGenerator(tenant, prefix string) (*Generator, error) {
	if tenant == "" {
		return nil, errs.NewValueIsRequiredError("tenant")
	}
	return &Generator{tenant: tenant, prefix: prefix}, nil
}

// Next returns the next identifier, e.g. "RO-42".
func (g *Generator) Next(ctx context.Context, repo ports.SequenceRepository) (string, error) {
	counter, err := repo.GetForUpdate(ctx, g.tenant, g.prefix)
	if err != nil {
		return "", err
	}
	if err = counter.Increment(); err != nil {
		return "", err
	}

	if err = repo.Save(ctx, counter); err != nil {
		return "", err
	}
	return counter.Identifier(), nil
}
