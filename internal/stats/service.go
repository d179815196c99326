package stats

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// PaymentSource supplies order/payment totals owned by the external
// payment service; this core does not produce that data.
type PaymentSource interface {
	Totals(ctx context.Context) (orders int64, revenue float64, err error)
}

// NoopPaymentSource reports zero totals; used when no payment collaborator
// is wired.
type NoopPaymentSource struct{}

func (NoopPaymentSource) Totals(ctx context.Context) (int64, float64, error) { return 0, 0, nil }

// Snapshot is the admin statistics payload.
type Snapshot struct {
	Accounts        int64   `json:"accounts"`
	Chefs           int64   `json:"chefs"`
	Meals           int64   `json:"meals"`
	Reviews         int64   `json:"reviews"`
	PendingRequests int64   `json:"pendingRequests"`
	Orders          int64   `json:"orders"`
	Revenue         float64 `json:"revenue"`
}

// Service aggregates platform record counts plus external payment totals.
type Service struct {
	db       *sqlx.DB
	payments PaymentSource
}

func NewService(db *sqlx.DB, payments PaymentSource) *Service {
	if payments == nil {
		payments = NoopPaymentSource{}
	}
	return &Service{db: db, payments: payments}
}

func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot
	counts := []struct {
		query string
		dest  *int64
	}{
		{`SELECT COUNT(*) FROM accounts`, &snap.Accounts},
		{`SELECT COUNT(*) FROM accounts WHERE role='chef'`, &snap.Chefs},
		{`SELECT COUNT(*) FROM meals`, &snap.Meals},
		{`SELECT COUNT(*) FROM reviews`, &snap.Reviews},
		{`SELECT COUNT(*) FROM role_requests WHERE status='pending'`, &snap.PendingRequests},
	}
	for _, c := range counts {
		if err := s.db.GetContext(ctx, c.dest, c.query); err != nil {
			return nil, err
		}
	}
	orders, revenue, err := s.payments.Totals(ctx)
	if err != nil {
		return nil, err
	}
	snap.Orders = orders
	snap.Revenue = revenue
	return &snap, nil
}
