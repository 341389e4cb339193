package capturing

import "receiving/internal/pkg/errs"

// Conflicts reported by capturers. All of them match errs.ErrCapturingConflict.
var (
	ErrNoOpenPosition              = errs.NewCapturingConflictError("no open position")
	ErrOverbookingNotAllowed       = errs.NewCapturingConflictError("overbooking not allowed")
	ErrNoOpenTransportUnitPosition = errs.NewCapturingConflictError("no open transport unit position")
	ErrUnsupportedRequest          = errs.NewCapturingConflictError("unsupported capture request")
)
