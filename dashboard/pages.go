package dashboard

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mealpoint/staffdesk/backend"
	"github.com/mealpoint/staffdesk/session"
	"github.com/mealpoint/staffdesk/web"
)

var orderStatuses = []string{
	backend.OrderPending,
	backend.OrderConfirmed,
	backend.OrderPreparing,
	backend.OrderReady,
	backend.OrderCompleted,
	backend.OrderCancelled,
}

type homeData struct {
	Home   *backend.HomeData
	Recent []backend.Order
}

// HomePage handles GET /.
func (s *Server) HomePage(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	outletID, ok := s.outletID(w, snap)
	if !ok {
		return
	}
	client := s.sess.Backend()
	home, err := client.HomeData(r.Context(), outletID)
	if err != nil {
		s.renderError(w, snap, err)
		return
	}
	var recent []backend.Order
	if snap.HasPermission(session.PermViewOrders) {
		recent, err = client.RecentOrders(r.Context(), outletID, backend.OrderFilters{})
		if err != nil {
			s.renderError(w, snap, err)
			return
		}
	}
	s.render(w, http.StatusOK, "home.html", web.Page{
		Title:  "Dashboard",
		Active: "home",
		Snap:   snap,
		Data:   homeData{Home: home, Recent: recent},
	})
}

type ordersData struct {
	Orders   []backend.Order
	Status   string
	Statuses []string
}

// OrdersPage handles GET /orders.
func (s *Server) OrdersPage(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	outletID, ok := s.outletID(w, snap)
	if !ok {
		return
	}
	status := r.URL.Query().Get("status")
	orders, err := s.sess.Backend().RecentOrders(r.Context(), outletID, backend.OrderFilters{Status: status})
	if err != nil {
		s.renderError(w, snap, err)
		return
	}
	s.render(w, http.StatusOK, "orders.html", web.Page{
		Title:  "Orders",
		Active: "orders",
		Snap:   snap,
		Data:   ordersData{Orders: orders, Status: status, Statuses: orderStatuses},
	})
}

type orderDetailData struct {
	Order     *backend.Order
	Statuses  []string
	CanManage bool
}

// OrderDetailPage handles GET /orders/{orderID}.
func (s *Server) OrderDetailPage(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	outletID, ok := s.outletID(w, snap)
	if !ok {
		return
	}
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	order, err := s.sess.Backend().Order(r.Context(), outletID, orderID)
	if err != nil {
		s.renderError(w, snap, err)
		return
	}
	s.render(w, http.StatusOK, "order_detail.html", web.Page{
		Title:  fmt.Sprintf("Order #%d", orderID),
		Active: "orders",
		Snap:   snap,
		Data: orderDetailData{
			Order:     order,
			Statuses:  orderStatuses,
			CanManage: snap.HasPermission(session.PermManageOrders),
		},
	})
}

// UpdateOrderSubmit handles POST /orders/{orderID}/status.
func (s *Server) UpdateOrderSubmit(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if _, err := s.sess.Backend().UpdateOrder(r.Context(), orderID, r.PostFormValue("status")); err != nil {
		s.renderError(w, snap, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/orders/%d", orderID), http.StatusSeeOther)
}

type manualOrderData struct {
	Products       []backend.Stock
	IdempotencyKey string
}

// ManualOrderPage handles GET /manual-order. The idempotency key is minted
// at render time so a double-submitted form re-posts the same key.
func (s *Server) ManualOrderPage(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	outletID, ok := s.outletID(w, snap)
	if !ok {
		return
	}
	products, err := s.sess.Backend().ProductsInStock(r.Context(), outletID)
	if err != nil {
		s.renderError(w, snap, err)
		return
	}
	s.render(w, http.StatusOK, "manual_order.html", web.Page{
		Title:  "Manual order",
		Active: "manual-order",
		Snap:   snap,
		Data:   manualOrderData{Products: products, IdempotencyKey: uuid.NewString()},
	})
}

// ManualOrderSubmit handles POST /manual-order.
func (s *Server) ManualOrderSubmit(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	outletID, ok := s.outletID(w, snap)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	// Resolve selected products against current stock for names and prices.
	products, err := s.sess.Backend().ProductsInStock(r.Context(), outletID)
	if err != nil {
		s.renderError(w, snap, err)
		return
	}
	byID := make(map[int64]backend.Stock, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}

	var items []backend.OrderItem
	for _, raw := range r.Form["product"] {
		productID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		p, ok := byID[productID]
		if !ok {
			continue
		}
		qty, err := strconv.Atoi(r.PostFormValue("qty_" + raw))
		if err != nil || qty < 1 {
			qty = 1
		}
		items = append(items, backend.OrderItem{
			ProductID: productID,
			Name:      p.Name,
			Quantity:  qty,
			UnitPrice: p.UnitPrice,
		})
	}
	if len(items) == 0 {
		s.render(w, http.StatusBadRequest, "error.html", web.Page{
			Title: "Manual order", Snap: snap, Data: "Select at least one product.",
		})
		return
	}

	key := r.PostFormValue("idempotencyKey")
	if key == "" {
		key = uuid.NewString()
	}
	order, err := s.sess.Backend().PlaceManualOrder(r.Context(), backend.ManualOrderRequest{
		OutletID:       outletID,
		CustomerName:   r.PostFormValue("customerName"),
		Items:          items,
		PaymentMethod:  r.PostFormValue("paymentMethod"),
		IdempotencyKey: key,
	})
	if err != nil {
		s.renderError(w, snap, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/orders/%d", order.ID), http.StatusSeeOther)
}

type orderHistoryData struct {
	Dates  []string
	Date   string
	Orders []backend.Order
}

// OrderHistoryPage handles GET /order-history.
func (s *Server) OrderHistoryPage(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	outletID, ok := s.outletID(w, snap)
	if !ok {
		return
	}
	client := s.sess.Backend()
	dates, err := client.OrderDates(r.Context(), outletID)
	if err != nil {
		s.renderError(w, snap, err)
		return
	}
	date := r.URL.Query().Get("date")
	if date == "" && len(dates) > 0 {
		date = dates[0]
	}
	var orders []backend.Order
	if date != "" {
		orders, err = client.OrderHistory(r.Context(), outletID, date)
		if err != nil {
			s.renderError(w, snap, err)
			return
		}
	}
	s.render(w, http.StatusOK, "order_history.html", web.Page{
		Title:  "Order history",
		Active: "order-history",
		Snap:   snap,
		Data:   orderHistoryData{Dates: dates, Date: date, Orders: orders},
	})
}

type inventoryData struct {
	Stocks    []backend.Stock
	History   []backend.StockMovement
	CanManage bool
}

// InventoryPage handles GET /inventory.
func (s *Server) InventoryPage(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	outletID, ok := s.outletID(w, snap)
	if !ok {
		return
	}
	client := s.sess.Backend()
	stocks, err := client.Stocks(r.Context(), outletID)
	if err != nil {
		s.renderError(w, snap, err)
		return
	}
	history, err := client.StockHistory(r.Context(), outletID)
	if err != nil {
		s.renderError(w, snap, err)
		return
	}
	s.render(w, http.StatusOK, "inventory.html", web.Page{
		Title:  "Inventory",
		Active: "inventory",
		Snap:   snap,
		Data: inventoryData{
			Stocks:    stocks,
			History:   history,
			CanManage: snap.HasPermission(session.PermManageInventory),
		},
	})
}

// AdjustStockSubmit handles POST /inventory/adjust with op=add|deduct.
func (s *Server) AdjustStockSubmit(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	outletID, ok := s.outletID(w, snap)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	productID, err := strconv.ParseInt(r.PostFormValue("productId"), 10, 64)
	if err != nil {
		http.Error(w, "bad product id", http.StatusBadRequest)
		return
	}
	qty, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil || qty < 1 {
		http.Error(w, "quantity must be positive", http.StatusBadRequest)
		return
	}
	client := s.sess.Backend()
	switch r.PostFormValue("op") {
	case "add":
		_, err = client.AddStock(r.Context(), outletID, productID, qty)
	case "deduct":
		_, err = client.DeductStock(r.Context(), outletID, productID, qty)
	default:
		http.Error(w, "unknown op", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.renderError(w, snap, err)
		return
	}
	http.Redirect(w, r, "/inventory", http.StatusSeeOther)
}

type walletData struct {
	Recharges []backend.Recharge
	CanManage bool
}

// WalletPage handles GET /wallet.
func (s *Server) WalletPage(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	outletID, ok := s.outletID(w, snap)
	if !ok {
		return
	}
	recharges, err := s.sess.Backend().RechargeHistory(r.Context(), outletID)
	if err != nil {
		s.renderError(w, snap, err)
		return
	}
	s.render(w, http.StatusOK, "wallet.html", web.Page{
		Title:  "Wallet",
		Active: "wallet",
		Snap:   snap,
		Data: walletData{
			Recharges: recharges,
			CanManage: snap.HasPermission(session.PermManageWallet),
		},
	})
}

// RechargeSubmit handles POST /wallet/recharge.
func (s *Server) RechargeSubmit(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	outletID, ok := s.outletID(w, snap)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	customerID, err := strconv.ParseInt(r.PostFormValue("customerId"), 10, 64)
	if err != nil {
		http.Error(w, "bad customer id", http.StatusBadRequest)
		return
	}
	amount, err := strconv.ParseFloat(r.PostFormValue("amount"), 64)
	if err != nil || amount <= 0 {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}
	_, err = s.sess.Backend().RechargeWallet(r.Context(), backend.RechargeRequest{
		OutletID:   outletID,
		CustomerID: customerID,
		Amount:     amount,
		Method:     r.PostFormValue("method"),
	})
	if err != nil {
		s.renderError(w, snap, err)
		return
	}
	http.Redirect(w, r, "/wallet", http.StatusSeeOther)
}

type settingsData struct {
	User   *backend.User
	Grants []backend.PermissionGrant
}

// SettingsPage handles GET /settings.
func (s *Server) SettingsPage(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	s.render(w, http.StatusOK, "settings.html", web.Page{
		Title:  "Settings",
		Active: "settings",
		Snap:   snap,
		Data:   settingsData{User: snap.User, Grants: snap.Grants},
	})
}

// UpdateProfileSubmit handles POST /settings/profile.
func (s *Server) UpdateProfileSubmit(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	_, err := s.sess.Backend().UpdateProfile(r.Context(), backend.ProfileUpdate{
		Name:    r.PostFormValue("name"),
		Contact: r.PostFormValue("contact"),
	})
	if err != nil {
		s.renderError(w, snap, err)
		return
	}
	// Pull the updated record into session state.
	s.sess.RefreshPermissions(r.Context())
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// ChangePasswordSubmit handles POST /settings/password.
func (s *Server) ChangePasswordSubmit(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	err := s.sess.Backend().ChangePassword(r.Context(), backend.PasswordChange{
		CurrentPassword: r.PostFormValue("currentPassword"),
		NewPassword:     r.PostFormValue("newPassword"),
	})
	if err != nil {
		s.renderError(w, snap, err)
		return
	}
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// RefreshPermissionsSubmit handles POST /settings/refresh-permissions.
func (s *Server) RefreshPermissionsSubmit(w http.ResponseWriter, r *http.Request) {
	s.sess.RefreshPermissions(r.Context())
	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}
