package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// HomeData returns the dashboard landing stats for an outlet.
func (c *Client) HomeData(ctx context.Context, outletID int64) (*HomeData, error) {
	var out struct {
		Data HomeData `json:"data"`
	}
	path := fmt.Sprintf("/staff/outlets/get-home-data/%d", outletID)
	if err := c.do(ctx, call{method: http.MethodGet, path: path, out: &out}); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// RecentOrders lists recent orders for an outlet, narrowed by filters.
func (c *Client) RecentOrders(ctx context.Context, outletID int64, f OrderFilters) ([]Order, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.From != "" {
		q.Set("startDate", f.From)
	}
	if f.To != "" {
		q.Set("endDate", f.To)
	}
	var out struct {
		Orders []Order `json:"orders"`
	}
	path := fmt.Sprintf("/staff/outlets/get-recent-orders/%d", outletID)
	if err := c.do(ctx, call{method: http.MethodGet, path: path, query: q, out: &out}); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// Order fetches one order by ID.
func (c *Client) Order(ctx context.Context, outletID, orderID int64) (*Order, error) {
	var out struct {
		Order Order `json:"order"`
	}
	path := fmt.Sprintf("/staff/outlets/get-order/%d/%d", outletID, orderID)
	if err := c.do(ctx, call{method: http.MethodGet, path: path, out: &out}); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

// UpdateOrder transitions an order to the given status.
func (c *Client) UpdateOrder(ctx context.Context, orderID int64, status string) (*Order, error) {
	var out struct {
		Order Order `json:"order"`
	}
	path := fmt.Sprintf("/staff/outlets/update-order/%d", orderID)
	body := map[string]string{"status": status}
	if err := c.do(ctx, call{method: http.MethodPost, path: path, body: body, out: &out}); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

// PlaceManualOrder submits a point-of-sale order keyed by req.IdempotencyKey.
func (c *Client) PlaceManualOrder(ctx context.Context, req ManualOrderRequest) (*Order, error) {
	var out struct {
		Order Order `json:"order"`
	}
	path := fmt.Sprintf("/staff/outlets/add-manual-order/%d", req.OutletID)
	if err := c.do(ctx, call{method: http.MethodPost, path: path, body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

// OrderHistory lists completed and cancelled orders for a date.
func (c *Client) OrderHistory(ctx context.Context, outletID int64, date string) ([]Order, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	var out struct {
		Orders []Order `json:"orders"`
	}
	path := fmt.Sprintf("/staff/outlets/get-order-history/%d", outletID)
	if err := c.do(ctx, call{method: http.MethodGet, path: path, query: q, out: &out}); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// OrderDates lists the dates that have order history, newest first.
func (c *Client) OrderDates(ctx context.Context, outletID int64) ([]string, error) {
	q := url.Values{"outletId": {fmt.Sprint(outletID)}}
	var out struct {
		Dates []string `json:"dates"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/staff/outlets/get-orderdates", query: q, out: &out}); err != nil {
		return nil, err
	}
	return out.Dates, nil
}
