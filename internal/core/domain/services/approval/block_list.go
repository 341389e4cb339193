package approval

import (
	"context"

	"receiving/internal/core/domain/model/capture"
	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"
	"receiving/internal/pkg/errs"
)

// BlockList rejects requests whose subject is listed. The subject is the SKU for
// quantity captures and the transport unit type for transport-unit receipts.
type BlockList struct {
	kind    capture.Kind
	code    string
	blocked map[string]string
}

// NewBlockList builds a block list for kind. blocked maps subject to the reason
// reported in the rejection payload.
func NewBlockList(kind capture.Kind, code string, blocked map[string]string) (*BlockList, error) {
	if _, err := capture.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	if code == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}
	b := &BlockList{kind: kind, code: code, blocked: make(map[string]string, len(blocked))}
	for subject, reason := range blocked {
		b.blocked[subject] = reason
	}
	return b, nil
}

func (b *BlockList) Kind() capture.Kind {
	return b.kind
}

func (b *BlockList) Approve(_ context.Context, orderPKey kernel.PKey, position order.Position, request capture.Request) error {
	subject := subjectOf(request)
	reason, ok := b.blocked[subject]
	if !ok {
		return nil
	}
	return errs.NewNotApprovedError(b.code, map[string]any{
		"order":    orderPKey.String(),
		"position": position.Number(),
		"subject":  subject,
		"reason":   reason,
	})
}

func subjectOf(request capture.Request) string {
	switch r := request.(type) {
	case capture.QuantityOnTransportUnit:
		return r.SKU
	case capture.QuantityOnLocation:
		return r.SKU
	case capture.TransportUnitReceipt:
		return r.TransportUnitType
	default:
		return ""
	}
}
