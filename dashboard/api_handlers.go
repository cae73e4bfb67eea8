package dashboard

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mealpoint/staffdesk/backend"
)

// apiOutletID resolves the session's outlet for JSON handlers.
func (s *Server) apiOutletID(w http.ResponseWriter) (int64, bool) {
	snap := s.sess.Snapshot()
	if snap.Outlet == nil {
		writeError(w, http.StatusConflict, "no outlet assigned")
		return 0, false
	}
	return snap.Outlet.ID, true
}

// UpdateOrderRequest is the JSON body for POST /api/v1/orders/{orderID}/status.
type UpdateOrderRequest struct {
	Status string `json:"status"`
}

// APIUpdateOrder handles POST /api/v1/orders/{orderID}/status.
func (s *Server) APIUpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown order")
		return
	}
	req, ok := decodeJSON[UpdateOrderRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	order, err := s.sess.Backend().UpdateOrder(r.Context(), orderID, req.Status)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// APIManualOrder handles POST /api/v1/orders.
func (s *Server) APIManualOrder(w http.ResponseWriter, r *http.Request) {
	outletID, ok := s.apiOutletID(w)
	if !ok {
		return
	}
	req, ok := decodeJSON[backend.ManualOrderRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	req.OutletID = outletID
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "order has no items")
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.NewString()
	}
	order, err := s.sess.Backend().PlaceManualOrder(r.Context(), req)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// StockRequest is the JSON body for the inventory add/deduct endpoints.
type StockRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

func (s *Server) apiStock(w http.ResponseWriter, r *http.Request, add bool) {
	outletID, ok := s.apiOutletID(w)
	if !ok {
		return
	}
	req, ok := decodeJSON[StockRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}
	var (
		stock *backend.Stock
		err   error
	)
	if add {
		stock, err = s.sess.Backend().AddStock(r.Context(), outletID, req.ProductID, req.Quantity)
	} else {
		stock, err = s.sess.Backend().DeductStock(r.Context(), outletID, req.ProductID, req.Quantity)
	}
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stock)
}

// APIAddStock handles POST /api/v1/inventory/add.
func (s *Server) APIAddStock(w http.ResponseWriter, r *http.Request) {
	s.apiStock(w, r, true)
}

// APIDeductStock handles POST /api/v1/inventory/deduct.
func (s *Server) APIDeductStock(w http.ResponseWriter, r *http.Request) {
	s.apiStock(w, r, false)
}

// APIRecharge handles POST /api/v1/wallet/recharge.
func (s *Server) APIRecharge(w http.ResponseWriter, r *http.Request) {
	outletID, ok := s.apiOutletID(w)
	if !ok {
		return
	}
	req, ok := decodeJSON[backend.RechargeRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	req.OutletID = outletID
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	recharge, err := s.sess.Backend().RechargeWallet(r.Context(), req)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recharge)
}
