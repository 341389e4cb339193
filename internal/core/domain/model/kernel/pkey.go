package kernel

import (
	"fmt"

	"receiving/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrPKeyIsNotConstructed is returned when a zero PKey is validated.
var ErrPKeyIsNotConstructed = errs.NewValueIsRequiredError("pKey must be created via NewPKey or ParsePKey")

// PKey is the synthetic, persistent identity of an aggregate. It is assigned once
// when the aggregate is first built and never changes; business identifiers such
// as the order number live next to it.
//
// The zero value is invalid.
type PKey struct {
	id uuid.UUID
}

// NewPKey returns a fresh random (version 4) key.
func NewPKey() PKey {
	return PKey{id: uuid.New()}
}

// ParsePKey parses the textual form produced by String.
func ParsePKey(s string) (PKey, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return PKey{}, errs.NewValueIsInvalidErrorWithCause("pKey", err)
	}
	return PKeyFromUUID(id)
}

// PKeyFromUUID wraps an existing UUID, typically one read back from storage.
func PKeyFromUUID(id uuid.UUID) (PKey, error) {
	key := PKey{id: id}
	if err := key.Validate(); err != nil {
		return PKey{}, err
	}
	return key, nil
}

// MustParsePKey is ParsePKey for constants in tests and fixtures.
func MustParsePKey(s string) PKey {
	key, err := ParsePKey(s)
	if err != nil {
		panic(fmt.Sprintf("kernel: invalid pKey %q: %v", s, err))
	}
	return key
}

func (k PKey) String() string {
	return k.id.String()
}

// UUID exposes the underlying value for persistence adapters.
func (k PKey) UUID() uuid.UUID {
	return k.id
}

func (k PKey) IsEqual(other PKey) bool {
	return k.id == other.id
}

func (k PKey) IsZero() bool {
	return k.id == uuid.Nil
}

func (k PKey) Validate() error {
	if k.IsZero() {
		return ErrPKeyIsNotConstructed
	}
	return nil
}
