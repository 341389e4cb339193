package kernel

import (
	"fmt"
	"strings"

	"receiving/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Dimension groups units that can be converted into each other.
type Dimension int

const (
	DimensionUnknown Dimension = iota
	DimensionPiece
	DimensionWeight
	DimensionVolume
)

func (d Dimension) String() string {
	switch d {
	case DimensionPiece:
		return "piece"
	case DimensionWeight:
		return "weight"
	case DimensionVolume:
		return "volume"
	default:
		return "unknown"
	}
}

// Unit is a unit of measure. Units of the same dimension convert through their
// factor relative to the dimension's base unit (piece, gram, milliliter).
type Unit struct {
	code      string
	dimension Dimension
	factor    decimal.Decimal
}

var (
	Piece      = Unit{code: "PCS", dimension: DimensionPiece, factor: decimal.NewFromInt(1)}
	Dozen      = Unit{code: "DOZ", dimension: DimensionPiece, factor: decimal.NewFromInt(12)}
	Gram       = Unit{code: "G", dimension: DimensionWeight, factor: decimal.NewFromInt(1)}
	Kilogram   = Unit{code: "KG", dimension: DimensionWeight, factor: decimal.NewFromInt(1_000)}
	Ton        = Unit{code: "T", dimension: DimensionWeight, factor: decimal.NewFromInt(1_000_000)}
	Milliliter = Unit{code: "ML", dimension: DimensionVolume, factor: decimal.NewFromInt(1)}
	Liter      = Unit{code: "L", dimension: DimensionVolume, factor: decimal.NewFromInt(1_000)}
)

var unitsByCode = map[string]Unit{
	Piece.code:      Piece,
	Dozen.code:      Dozen,
	Gram.code:       Gram,
	Kilogram.code:   Kilogram,
	Ton.code:        Ton,
	Milliliter.code: Milliliter,
	Liter.code:      Liter,
}

var baseUnits = map[Dimension]Unit{
	DimensionPiece:  Piece,
	DimensionWeight: Gram,
	DimensionVolume: Milliliter,
}

func baseUnit(d Dimension) Unit {
	return baseUnits[d]
}

// UnitFromCode resolves a unit by its code, case-insensitively.
func UnitFromCode(code string) (Unit, error) {
	if code == "" {
		return Unit{}, errs.NewValueIsRequiredError("unit")
	}
	u, ok := unitsByCode[strings.ToUpper(code)]
	if !ok {
		return Unit{}, errs.NewValueIsInvalidErrorWithCause("unit", fmt.Errorf("%q is not a known unit of measure", code))
	}
	return u, nil
}

func (u Unit) Code() string {
	return u.code
}

func (u Unit) Dimension() Dimension {
	return u.dimension
}

func (u Unit) IsZero() bool {
	return u.code == ""
}

func (u Unit) IsEqual(other Unit) bool {
	return u.code == other.code
}

// IsCompatible reports whether quantities in u and other can be converted into each other.
func (u Unit) IsCompatible(other Unit) bool {
	return !u.IsZero() && u.dimension == other.dimension
}

func (u Unit) String() string {
	return u.code
}
