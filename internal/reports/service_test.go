package reports

import (
	"context"
	"fmt"
	"testing"

	"github.com/dreamboutique/boutique-backend/pkg/enums"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubCatalogCounter struct {
	total    int64
	featured int64
}

func (s *stubCatalogCounter) Count(context.Context) (int64, error)         { return s.total, nil }
func (s *stubCatalogCounter) CountFeatured(context.Context) (int64, error) { return s.featured, nil }

type stubOrderCounter struct {
	total    int64
	byStatus map[enums.OrderStatus]int64
	revenue  decimal.Decimal
	fail     bool
}

func (s *stubOrderCounter) Count(context.Context) (int64, error) {
	if s.fail {
		return 0, fmt.Errorf("connection refused")
	}
	return s.total, nil
}

func (s *stubOrderCounter) CountByStatus(_ context.Context, status enums.OrderStatus) (int64, error) {
	return s.byStatus[status], nil
}

func (s *stubOrderCounter) SumDeliveredRevenue(context.Context) (decimal.Decimal, error) {
	return s.revenue, nil
}

func TestDashboardAggregates(t *testing.T) {
	t.Parallel()
	svc, err := NewService(
		&stubCatalogCounter{total: 42, featured: 6},
		&stubOrderCounter{
			total: 10,
			byStatus: map[enums.OrderStatus]int64{
				enums.OrderStatusPending:   3,
				enums.OrderStatusDelivered: 5,
				enums.OrderStatusCancelled: 1,
			},
			revenue: decimal.RequireFromString("1234.50"),
		},
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	dash, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if dash.TotalProducts != 42 || dash.FeaturedProducts != 6 {
		t.Fatalf("product counts wrong: %+v", dash)
	}
	if dash.TotalOrders != 10 || dash.PendingOrders != 3 || dash.DeliveredOrders != 5 || dash.CancelledOrders != 1 {
		t.Fatalf("order counts wrong: %+v", dash)
	}
	if !dash.DeliveredRevenue.Equal(decimal.RequireFromString("1234.50")) {
		t.Fatalf("revenue wrong: %s", dash.DeliveredRevenue)
	}
}

func TestDashboardStoreFailure(t *testing.T) {
	t.Parallel()
	svc, err := NewService(&stubCatalogCounter{}, &stubOrderCounter{fail: true})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Dashboard(context.Background())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
