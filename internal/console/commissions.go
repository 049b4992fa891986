package console

import (
	"context"
	"errors"

	"tripdesk.io/internal/agency"
	"tripdesk.io/internal/audit"
	"tripdesk.io/internal/gateway"
)

// FallbackCommissionRate is the fixed rate applied when commissions must be
// derived client-side.
const FallbackCommissionRate = 0.10

// CommissionSource is the slice of the gateway the commissions page needs.
type CommissionSource interface {
	ListCommissions(ctx context.Context, q gateway.Query) ([]agency.Commission, error)
	ListBookings(ctx context.Context, q gateway.Query) ([]agency.Booking, error)
}

// LoadCommissions returns the backend's commission sheet when the aggregate
// endpoint answers. When it fails, a client-derived approximation from
// confirmed and completed bookings is substituted. That path is degraded
// mode, never the default: entering it is audit-logged, the records carry
// the Derived mark, and auth failures are never masked by it.
func LoadCommissions(ctx context.Context, src CommissionSource, q gateway.Query) ([]agency.Commission, error) {
	commissions, err := src.ListCommissions(ctx, q)
	if err == nil {
		return commissions, nil
	}
	if errors.Is(err, gateway.ErrUnauthorized) {
		return nil, err
	}

	_ = audit.LogEvent(ctx, "commissions.degraded_fallback", map[string]any{"error": err.Error()})

	bookings, berr := src.ListBookings(ctx, q)
	if berr != nil {
		// Report the original aggregate failure; the fallback could not
		// run either.
		return nil, err
	}
	return DeriveCommissions(bookings, FallbackCommissionRate), nil
}

// DeriveCommissions computes an approximate sheet from bookings: confirmed
// and completed bookings earn amount*rate. The result is an estimate, not
// authoritative.
func DeriveCommissions(bookings []agency.Booking, rate float64) []agency.Commission {
	out := make([]agency.Commission, 0, len(bookings))
	for _, b := range bookings {
		if b.Status != agency.BookingConfirmed && b.Status != agency.BookingCompleted {
			continue
		}
		out = append(out, agency.Commission{
			ID:      "derived-" + b.ID,
			Booking: agency.Ref{ID: b.ID},
			Amount:  b.Amount * rate,
			Rate:    rate,
			Status:  "estimated",
			Derived: true,
		})
	}
	return out
}
