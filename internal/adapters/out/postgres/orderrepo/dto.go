// Package orderrepo persists receiving orders and their positions with GORM.
// An order is stored in receiving_orders, each position in receiving_positions
// keyed by (order_pkey, pos_no).
package orderrepo

import (
	"errors"
	"fmt"
	"time"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO is the row of receiving_orders.
type OrderDTO struct {
	PKey              uuid.UUID                             `gorm:"column:pkey;type:uuid;primaryKey"`
	OrderID           string                                `gorm:"column:order_id;uniqueIndex:receiving_orders_order_id_key"`
	State             int                                   `gorm:"index:receiving_orders_state_idx,priority:1"`
	Details           datatypes.JSONType[map[string]string] `gorm:"type:jsonb"`
	Locked            bool
	ExpectedReceipt   *time.Time
	EarliestReceipt   *time.Time
	LatestReceipt     *time.Time
	StartDate         *time.Time
	EndDate           *time.Time
	ProblemMessage    *string
	ProblemCode       *string
	ProblemOccurredAt *time.Time
	CreatedAt         time.Time     `gorm:"autoCreateTime;index:receiving_orders_state_idx,priority:2"`
	UpdatedAt         time.Time     `gorm:"autoUpdateTime"`
	Positions         []PositionDTO `gorm:"foreignKey:OrderPKey;references:PKey;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "receiving_orders"
}

// PositionDTO is the row of receiving_positions. Quantity columns are set for
// quantity positions, transport unit columns for transport-unit positions.
type PositionDTO struct {
	OrderPKey         uuid.UUID                             `gorm:"column:order_pkey;type:uuid;primaryKey"`
	Number            int                                   `gorm:"column:pos_no;primaryKey;autoIncrement:false"`
	Kind              int                                   `gorm:"type:smallint"`
	State             int                                   `gorm:"type:smallint"`
	Details           datatypes.JSONType[map[string]string] `gorm:"type:jsonb"`
	SKU               *string                               `gorm:"column:sku"`
	ExpectedAmount    decimal.NullDecimal                   `gorm:"type:numeric"`
	ExpectedUnit      *string
	ReceivedAmount    decimal.NullDecimal `gorm:"type:numeric"`
	ReceivedUnit      *string
	TransportUnitBK   *string `gorm:"column:transport_unit_bk"`
	TransportUnitType *string
}

func (PositionDTO) TableName() string {
	return "receiving_positions"
}

func fromDomain(o *order.Order) OrderDTO {
	schedule := o.Schedule()
	dto := OrderDTO{
		PKey:            o.PKey().UUID(),
		OrderID:         o.OrderID(),
		State:           int(o.State()),
		Details:         datatypes.NewJSONType(o.Details()),
		Locked:          o.IsLocked(),
		ExpectedReceipt: schedule.ExpectedReceipt,
		EarliestReceipt: schedule.Earliest,
		LatestReceipt:   schedule.Latest,
		StartDate:       schedule.Start,
		EndDate:         schedule.End,
	}

	if p := o.Problem(); p != nil {
		dto.ProblemMessage = &p.Message
		dto.ProblemCode = &p.Code
		dto.ProblemOccurredAt = &p.OccurredAt
	}

	positions := o.Positions()
	dto.Positions = make([]PositionDTO, 0, len(positions))
	for _, p := range positions {
		dto.Positions = append(dto.Positions, positionFromDomain(dto.PKey, p))
	}

	return dto
}

func positionFromDomain(orderPKey uuid.UUID, p order.Position) PositionDTO {
	dto := PositionDTO{
		OrderPKey: orderPKey,
		Number:    p.Number(),
		Kind:      int(p.Kind()),
		State:     int(p.State()),
		Details:   datatypes.NewJSONType(p.Details()),
	}

	if line, ok := p.AsQuantity(); ok {
		sku := line.SKU()
		dto.SKU = &sku
		expected := line.Expected()
		dto.ExpectedAmount = decimal.NewNullDecimal(expected.Amount())
		dto.ExpectedUnit = ptr(expected.Unit().Code())
		if received, has := line.Received(); has {
			dto.ReceivedAmount = decimal.NewNullDecimal(received.Amount())
			dto.ReceivedUnit = ptr(received.Unit().Code())
		}
	}

	if line, ok := p.AsTransportUnit(); ok {
		dto.TransportUnitBK = ptr(line.TransportUnitBK())
		dto.TransportUnitType = ptr(line.TransportUnitType())
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	pKey, err := kernel.PKeyFromUUID(dto.PKey)
	if err != nil {
		return nil, err
	}

	positions := make([]*order.Position, 0, len(dto.Positions))
	for _, pd := range dto.Positions {
		p, posErr := positionToDomain(pd)
		if posErr != nil {
			return nil, fmt.Errorf("order %s position %d: %w", dto.OrderID, pd.Number, posErr)
		}
		positions = append(positions, p)
	}

	var problem *order.Problem
	if dto.ProblemCode != nil {
		problem = &order.Problem{Code: *dto.ProblemCode}
		if dto.ProblemMessage != nil {
			problem.Message = *dto.ProblemMessage
		}
		if dto.ProblemOccurredAt != nil {
			problem.OccurredAt = *dto.ProblemOccurredAt
		}
	}

	schedule := order.Schedule{
		ExpectedReceipt: dto.ExpectedReceipt,
		Earliest:        dto.EarliestReceipt,
		Latest:          dto.LatestReceipt,
		Start:           dto.StartDate,
		End:             dto.EndDate,
	}

	return order.RestoreOrder(
		pKey,
		dto.OrderID,
		order.State(dto.State),
		dto.Details.Data(),
		dto.Locked,
		schedule,
		problem,
		positions,
	), nil
}

func positionToDomain(dto PositionDTO) (*order.Position, error) {
	state := order.PositionState(dto.State)
	details := dto.Details.Data()

	switch order.PositionKind(dto.Kind) {
	case order.QuantityKind:
		expected, err := quantityFromColumns(dto.ExpectedAmount, dto.ExpectedUnit)
		if err != nil {
			return nil, err
		}
		var received *kernel.Quantity
		if dto.ReceivedAmount.Valid {
			q, recErr := quantityFromColumns(dto.ReceivedAmount, dto.ReceivedUnit)
			if recErr != nil {
				return nil, recErr
			}
			received = &q
		}
		return order.RestoreQuantityPosition(dto.Number, state, details, deref(dto.SKU), expected, received), nil
	case order.TransportUnitKind:
		return order.RestoreTransportUnitPosition(
			dto.Number, state, details, deref(dto.TransportUnitBK), deref(dto.TransportUnitType),
		), nil
	default:
		return nil, fmt.Errorf("unknown position kind %d", dto.Kind)
	}
}

func quantityFromColumns(amount decimal.NullDecimal, unitCode *string) (kernel.Quantity, error) {
	if !amount.Valid || unitCode == nil {
		return kernel.Quantity{}, errors.New("quantity columns are incomplete")
	}
	unit, err := kernel.UnitFromCode(*unitCode)
	if err != nil {
		return kernel.Quantity{}, err
	}
	return kernel.NewQuantity(amount.Decimal, unit)
}

func ptr(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
