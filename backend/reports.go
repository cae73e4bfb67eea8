package backend

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) report(ctx context.Context, endpoint string, outletID int64, r ReportRange) (*Series, error) {
	var out struct {
		Series Series `json:"series"`
	}
	path := fmt.Sprintf("/staff/outlets/%s/%d", endpoint, outletID)
	if err := c.do(ctx, call{method: http.MethodPost, path: path, body: r, out: &out}); err != nil {
		return nil, err
	}
	return &out.Series, nil
}

// SalesTrend returns revenue over time.
func (c *Client) SalesTrend(ctx context.Context, outletID int64, r ReportRange) (*Series, error) {
	return c.report(ctx, "sales-trend", outletID, r)
}

// OrderTypeBreakdown returns order counts by type (app, manual, delivery).
func (c *Client) OrderTypeBreakdown(ctx context.Context, outletID int64, r ReportRange) (*Series, error) {
	return c.report(ctx, "order-type-breakdown", outletID, r)
}

// NewCustomersTrend returns first-time customers over time.
func (c *Client) NewCustomersTrend(ctx context.Context, outletID int64, r ReportRange) (*Series, error) {
	return c.report(ctx, "new-customers-trend", outletID, r)
}

// CategoryBreakdown returns revenue by product category.
func (c *Client) CategoryBreakdown(ctx context.Context, outletID int64, r ReportRange) (*Series, error) {
	return c.report(ctx, "category-breakdown", outletID, r)
}

// DeliveryTimeOrders returns order counts by delivery time slot.
func (c *Client) DeliveryTimeOrders(ctx context.Context, outletID int64, r ReportRange) (*Series, error) {
	return c.report(ctx, "delivery-time-orders", outletID, r)
}

// CancellationRefunds returns cancellation and refund totals over time.
func (c *Client) CancellationRefunds(ctx context.Context, outletID int64, r ReportRange) (*Series, error) {
	return c.report(ctx, "cancellation-refunds", outletID, r)
}

// QuantitySold returns units sold by product.
func (c *Client) QuantitySold(ctx context.Context, outletID int64, r ReportRange) (*Series, error) {
	return c.report(ctx, "quantity-sold", outletID, r)
}
