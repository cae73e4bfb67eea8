package backend

import (
	"context"
	"fmt"
	"net/http"
)

// RechargeHistory lists wallet top-ups processed at an outlet.
func (c *Client) RechargeHistory(ctx context.Context, outletID int64) ([]Recharge, error) {
	var out struct {
		Recharges []Recharge `json:"recharges"`
	}
	path := fmt.Sprintf("/staff/outlets/get-recharge-history/%d", outletID)
	if err := c.do(ctx, call{method: http.MethodGet, path: path, out: &out}); err != nil {
		return nil, err
	}
	return out.Recharges, nil
}

// RechargeWallet credits a customer wallet.
func (c *Client) RechargeWallet(ctx context.Context, req RechargeRequest) (*Recharge, error) {
	var out struct {
		Recharge Recharge `json:"recharge"`
	}
	if err := c.do(ctx, call{method: http.MethodPost, path: "/staff/outlets/recharge-wallet", body: req, out: &out}); err != nil {
		return nil, err
	}
	return &out.Recharge, nil
}
