package admin

import (
	"context"

	"github.com/clinic/clinic/internal/platform/auth"
)

// Repository answers the aggregate queries behind the dashboard.
type Repository interface {
	AppointmentCountsByStatus(ctx context.Context) (map[string]int, error)
	RevenueTotals(ctx context.Context) (*RevenueTotals, error)
	CountUsersByRole(ctx context.Context, role auth.Role) (int, error)
}
