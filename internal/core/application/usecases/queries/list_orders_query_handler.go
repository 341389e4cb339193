package queries

import (
	"context"
	"database/sql"

	"receiving/internal/core/domain/model/kernel"
	"receiving/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler reads the order overview with a single aggregate SQL
// query instead of loading full aggregates.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListOrdersQuery,
) ([]ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	stateFilter := "TRUE"
	args := []any{int(order.PositionCreated), int(order.PositionProcessing)}
	if states := query.States(); len(states) > 0 {
		stateFilter = "o.state IN ?"
		values := make([]int, 0, len(states))
		for _, s := range states {
			values = append(values, int(s))
		}
		args = append(args, values)
	}
	args = append(args, query.Limit(), query.Offset())

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.pkey,
			o.order_id,
			o.state,
			o.locked,
			o.problem_code,
			o.created_at,
			COUNT(p.pos_no) AS position_count,
			COUNT(p.pos_no) FILTER (WHERE p.state IN (?, ?)) AS open_position_count
		FROM receiving_orders o
		LEFT JOIN receiving_positions p ON p.order_pkey = o.pkey
		WHERE `+stateFilter+`
		GROUP BY o.pkey
		ORDER BY o.created_at, o.pkey
		LIMIT ? OFFSET ?
	`, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]ListOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			resp        ListOrdersQueryResponse
			id          uuid.UUID
			state       int
			problemCode sql.NullString
		)

		err = rows.Scan(
			&id,
			&resp.OrderID,
			&state,
			&resp.Locked,
			&problemCode,
			&resp.CreatedAt,
			&resp.PositionCount,
			&resp.OpenPositionCount,
		)
		if err != nil {
			return nil, err
		}

		pKey, keyErr := kernel.PKeyFromUUID(id)
		if keyErr != nil {
			return nil, keyErr
		}
		resp.PKey = pKey
		resp.State = order.State(state)
		resp.ProblemCode = problemCode.String
		result = append(result, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
