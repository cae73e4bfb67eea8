package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Stocks returns current stock levels for every product at an outlet.
func (c *Client) Stocks(ctx context.Context, outletID int64) ([]Stock, error) {
	var out struct {
		Stocks []Stock `json:"stocks"`
	}
	path := fmt.Sprintf("/staff/outlets/get-stocks/%d", outletID)
	if err := c.do(ctx, call{method: http.MethodGet, path: path, out: &out}); err != nil {
		return nil, err
	}
	return out.Stocks, nil
}

// ProductsInStock lists products with a positive quantity, for the manual
// order product picker.
func (c *Client) ProductsInStock(ctx context.Context, outletID int64) ([]Stock, error) {
	var out struct {
		Products []Stock `json:"products"`
	}
	path := fmt.Sprintf("/staff/outlets/get-products-in-stock/%d", outletID)
	if err := c.do(ctx, call{method: http.MethodGet, path: path, out: &out}); err != nil {
		return nil, err
	}
	return out.Products, nil
}

// AddStock increases a product's stock level. The backend's field name for
// additions is addedQuantity, unlike deductions.
func (c *Client) AddStock(ctx context.Context, outletID, productID int64, quantity int) (*Stock, error) {
	var out struct {
		Stock Stock `json:"stock"`
	}
	body := map[string]any{
		"productId":     productID,
		"outletId":      outletID,
		"addedQuantity": quantity,
	}
	if err := c.do(ctx, call{method: http.MethodPost, path: "/staff/outlets/add-stock", body: body, out: &out}); err != nil {
		return nil, err
	}
	return &out.Stock, nil
}

// DeductStock decreases a product's stock level.
func (c *Client) DeductStock(ctx context.Context, outletID, productID int64, quantity int) (*Stock, error) {
	var out struct {
		Stock Stock `json:"stock"`
	}
	body := map[string]any{
		"productId": productID,
		"outletId":  outletID,
		"quantity":  quantity,
	}
	if err := c.do(ctx, call{method: http.MethodPost, path: "/staff/outlets/deduct-stock", body: body, out: &out}); err != nil {
		return nil, err
	}
	return &out.Stock, nil
}

// StockHistory lists recent stock movements for an outlet.
func (c *Client) StockHistory(ctx context.Context, outletID int64) ([]StockMovement, error) {
	q := url.Values{"outletId": {fmt.Sprint(outletID)}}
	var out struct {
		History []StockMovement `json:"history"`
	}
	if err := c.do(ctx, call{method: http.MethodGet, path: "/staff/outlets/get-stock-history", query: q, out: &out}); err != nil {
		return nil, err
	}
	return out.History, nil
}
