package kernel_test

import (
	"testing"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPKey(t *testing.T) {
	k1 := kernel.NewPKey()
	k2 := kernel.NewPKey()

	require.NoError(t, k1.Validate())
	assert.False(t, k1.IsZero())
	assert.False(t, k1.IsEqual(k2))
	assert.True(t, k1.IsEqual(k1))
}

func TestParsePKey(t *testing.T) {
	const raw = "550e8400-e29b-41d4-a716-446655440000"

	t.Run("should parse canonical form", func(t *testing.T) {
		k, err := kernel.ParsePKey(raw)

		require.NoError(t, err)
		assert.Equal(t, raw, k.String())
		assert.Equal(t, uuid.MustParse(raw), k.UUID())
	})

	t.Run("should reject garbage", func(t *testing.T) {
		_, err := kernel.ParsePKey("not-a-key")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject the nil uuid", func(t *testing.T) {
		_, err := kernel.ParsePKey(uuid.Nil.String())

		require.ErrorIs(t, err, kernel.ErrPKeyIsNotConstructed)
	})

	t.Run("must parse panics on invalid input", func(t *testing.T) {
		assert.Panics(t, func() { kernel.MustParsePKey("x") })
		assert.NotPanics(t, func() { kernel.MustParsePKey(raw) })
	})
}

func TestPKey_ZeroValue(t *testing.T) {
	var k kernel.PKey

	assert.True(t, k.IsZero())
	require.ErrorIs(t, k.Validate(), errs.ErrValueIsRequired)
}
