package reports

import (
	"context"
	"fmt"

	"github.com/dreamboutique/boutique-backend/pkg/enums"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// Dashboard is the back-office overview card set.
type Dashboard struct {
	TotalProducts    int64           `json:"total_products"`
	FeaturedProducts int64           `json:"featured_products"`
	TotalOrders      int64           `json:"total_orders"`
	PendingOrders    int64           `json:"pending_orders"`
	DeliveredOrders  int64           `json:"delivered_orders"`
	CancelledOrders  int64           `json:"cancelled_orders"`
	DeliveredRevenue decimal.Decimal `json:"delivered_revenue"`
}

type catalogCounter interface {
	Count(ctx context.Context) (int64, error)
	CountFeatured(ctx context.Context) (int64, error)
}

type orderCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error)
	SumDeliveredRevenue(ctx context.Context) (decimal.Decimal, error)
}

// Service aggregates store figures for the admin dashboard.
type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type service struct {
	catalog catalogCounter
	orders  orderCounter
}

// NewService constructs a reports service.
func NewService(catalog catalogCounter, orders orderCounter) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog counter required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order counter required")
	}
	return &service{catalog: catalog, orders: orders}, nil
}

// Dashboard collects the counters. Revenue only counts delivered orders;
// pending and shipped money is not booked yet.
func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	out := &Dashboard{}

	var err error
	if out.TotalProducts, err = s.catalog.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count products")
	}
	if out.FeaturedProducts, err = s.catalog.CountFeatured(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count featured products")
	}
	if out.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count orders")
	}
	if out.PendingOrders, err = s.orders.CountByStatus(ctx, enums.OrderStatusPending); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count pending orders")
	}
	if out.DeliveredOrders, err = s.orders.CountByStatus(ctx, enums.OrderStatusDelivered); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count delivered orders")
	}
	if out.CancelledOrders, err = s.orders.CountByStatus(ctx, enums.OrderStatusCancelled); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count cancelled orders")
	}
	if out.DeliveredRevenue, err = s.orders.SumDeliveredRevenue(ctx); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum delivered revenue")
	}
	return out, nil
}
