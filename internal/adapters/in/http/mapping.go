package http

import (
	"fmt"

	"receiving/internal/core/application/usecases/commands"
	"receiving/internal/core/application/usecases/queries"
	"receiving/internal/core/domain/model/capture"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/pkg/errs"
)

func quantityFromDTO(q *Quantity, field string) (kernel.Quantity, error) {
	if q == nil {
		return kernel.Quantity{}, errs.NewValueIsRequiredError(field)
	}
	parsed, err := kernel.ParseQuantity(q.Amount, q.Unit)
	if err != nil {
		return kernel.Quantity{}, errs.NewValueIsInvalidErrorWithCause(field, err)
	}
	return parsed, nil
}

func quantityToDTO(q kernel.Quantity) *Quantity {
	return &Quantity{Amount: q.Amount().String(), Unit: q.Unit().Code()}
}

func scheduleFromDTO(s *Schedule) order.Schedule {
	if s == nil {
		return order.Schedule{}
	}
	return order.Schedule{
		ExpectedReceipt: s.ExpectedReceipt,
		Earliest:        s.EarliestReceipt,
		Latest:          s.LatestReceipt,
		Start:           s.Start,
		End:             s.End,
	}
}

func positionInputsFromDTO(positions []NewPosition) ([]commands.PositionInput, error) {
	inputs := make([]commands.PositionInput, 0, len(positions))
	for i, p := range positions {
		kind, err := order.ParsePositionKind(p.Kind)
		if err != nil {
			return nil, err
		}

		input := commands.PositionInput{
			Number:            p.Number,
			Kind:              kind,
			SKU:               p.SKU,
			TransportUnitBK:   p.TransportUnitBK,
			TransportUnitType: p.TransportUnitType,
			Details:           p.Details,
		}
		if kind == order.QuantityKind {
			input.Quantity, err = quantityFromDTO(p.Quantity, fmt.Sprintf("positions[%d].quantity", i))
			if err != nil {
				return nil, err
			}
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

func captureRequestsFromDTO(batch CaptureBatch) ([]capture.Request, error) {
	requests := make([]capture.Request, 0, len(batch.Requests))
	for i, r := range batch.Requests {
		kind, err := capture.ParseKind(r.Kind)
		if err != nil {
			return nil, err
		}

		quantityField := fmt.Sprintf("requests[%d].quantity", i)
		switch kind {
		case capture.KindQuantityOnTransportUnit:
			q, qErr := quantityFromDTO(r.Quantity, quantityField)
			if qErr != nil {
				return nil, qErr
			}
			requests = append(requests, capture.QuantityOnTransportUnit{
				SKU:             r.SKU,
				Quantity:        q,
				TransportUnitBK: r.TransportUnitBK,
				SerialNumbers:   r.SerialNumbers,
				Details:         r.Details,
			})
		case capture.KindQuantityOnLocation:
			q, qErr := quantityFromDTO(r.Quantity, quantityField)
			if qErr != nil {
				return nil, qErr
			}
			requests = append(requests, capture.QuantityOnLocation{
				SKU:             r.SKU,
				UomRelationID:   r.UomRelationID,
				Quantity:        q,
				LocationErpCode: r.LocationErpCode,
				SerialNumbers:   r.SerialNumbers,
				Details:         r.Details,
			})
		case capture.KindTransportUnitReceipt:
			requests = append(requests, capture.TransportUnitReceipt{
				TransportUnitBK:       r.TransportUnitBK,
				TransportUnitType:     r.TransportUnitType,
				ActualLocationErpCode: r.ActualLocationErpCode,
				Details:               r.Details,
			})
		}
	}
	return requests, nil
}

func orderToDTO(o *order.Order) Order {
	s := o.Schedule()
	dto := Order{
		PKey:    o.PKey().UUID(),
		OrderID: o.OrderID(),
		State:   o.State().String(),
		Locked:  o.IsLocked(),
		Details: o.Details(),
		Schedule: Schedule{
			ExpectedReceipt: s.ExpectedReceipt,
			EarliestReceipt: s.Earliest,
			LatestReceipt:   s.Latest,
			Start:           s.Start,
			End:             s.End,
		},
	}

	if p := o.Problem(); p != nil {
		dto.Problem = &Problem{Message: p.Message, Code: p.Code, OccurredAt: p.OccurredAt}
	}

	positions := o.Positions()
	dto.Positions = make([]Position, 0, len(positions))
	for _, p := range positions {
		dto.Positions = append(dto.Positions, positionToDTO(p))
	}

	return dto
}

func positionToDTO(p order.Position) Position {
	dto := Position{
		Number:  p.Number(),
		Kind:    p.Kind().String(),
		State:   p.State().String(),
		Details: p.Details(),
	}

	if line, ok := p.AsQuantity(); ok {
		dto.SKU = line.SKU()
		dto.Expected = quantityToDTO(line.Expected())
		if received, has := line.Received(); has {
			dto.Received = quantityToDTO(received)
		}
	}
	if line, ok := p.AsTransportUnit(); ok {
		dto.TransportUnitBK = line.TransportUnitBK()
		dto.TransportUnitType = line.TransportUnitType()
	}

	return dto
}

func summaryToDTO(row queries.ListOrdersQueryResponse) OrderSummary {
	return OrderSummary{
		PKey:              row.PKey.UUID(),
		OrderID:           row.OrderID,
		State:             row.State.String(),
		Locked:            row.Locked,
		PositionCount:     row.PositionCount,
		OpenPositionCount: row.OpenPositionCount,
		ProblemCode:       row.ProblemCode,
		CreatedAt:         row.CreatedAt,
	}
}
