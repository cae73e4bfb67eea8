package backend

import "time"

// Outlet is the physical location a staff user is scoped to.
type Outlet struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Code    string `json:"code,omitempty"`
}

// PermissionGrant is a single capability flag issued by the backend.
// Kind values the dashboard understands are declared in the session package;
// unknown kinds are carried through untouched.
type PermissionGrant struct {
	Type    string `json:"type"`
	Granted bool   `json:"isGranted"`
}

// StaffDetails carries the staff-specific portion of a user record.
type StaffDetails struct {
	Designation string            `json:"designation,omitempty"`
	Permissions []PermissionGrant `json:"permissions,omitempty"`
}

// User is the identity record returned by sign-in and /auth/me.
type User struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	Contact      string        `json:"contact,omitempty"`
	AvatarURL    string        `json:"avatarUrl,omitempty"`
	Outlet       *Outlet       `json:"outlet,omitempty"`
	StaffDetails *StaffDetails `json:"staffDetails,omitempty"`
}

// Permissions returns the user's grant list, tolerating absent staff details.
func (u *User) Permissions() []PermissionGrant {
	if u == nil || u.StaffDetails == nil {
		return nil
	}
	return u.StaffDetails.Permissions
}

// AuthResult is returned from POST /auth/staff-signin.
type AuthResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// SignUpRequest is the JSON body for POST /auth/staff-signup.
type SignUpRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	OutletCode string `json:"outletCode"`
}

// SignUpResult confirms registration. Sign-up does not establish a session;
// the user signs in separately.
type SignUpResult struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

// Identity is returned from GET /auth/me.
type Identity struct {
	User *User `json:"user"`
}

// Order statuses as issued by the backend.
const (
	OrderPending   = "PENDING"
	OrderConfirmed = "CONFIRMED"
	OrderPreparing = "PREPARING"
	OrderReady     = "READY"
	OrderCompleted = "COMPLETED"
	OrderCancelled = "CANCELLED"
)

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// Order is a customer or manual point-of-sale order.
type Order struct {
	ID           int64       `json:"id"`
	OutletID     int64       `json:"outletId"`
	CustomerName string      `json:"customerName,omitempty"`
	Status       string      `json:"status"`
	Type         string      `json:"type,omitempty"`
	Items        []OrderItem `json:"items,omitempty"`
	Total        float64     `json:"total"`
	PlacedAt     time.Time   `json:"placedAt"`
}

// OrderFilters narrows order listings. Zero values are omitted from the query.
type OrderFilters struct {
	Status string
	From   string // YYYY-MM-DD
	To     string // YYYY-MM-DD
}

// HomeData is the dashboard landing payload.
type HomeData struct {
	TodayOrders   int     `json:"todayOrders"`
	TodayRevenue  float64 `json:"todayRevenue"`
	PendingOrders int     `json:"pendingOrders"`
	LowStockItems int     `json:"lowStockItems"`
	OpenTickets   int     `json:"openTickets"`
}

// ManualOrderRequest is the JSON body for the manual point-of-sale endpoint.
// IdempotencyKey lets the backend deduplicate a retried submission.
type ManualOrderRequest struct {
	OutletID       int64       `json:"outletId"`
	CustomerName   string      `json:"customerName,omitempty"`
	Items          []OrderItem `json:"items"`
	PaymentMethod  string      `json:"paymentMethod"`
	IdempotencyKey string      `json:"idempotencyKey"`
}

// Stock is the current level of one product at an outlet.
type Stock struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Category  string  `json:"category,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	LowStock  bool    `json:"lowStock,omitempty"`
}

// StockMovement is one entry of the stock audit trail.
type StockMovement struct {
	ProductID int64     `json:"productId"`
	Name      string    `json:"name"`
	Change    int       `json:"change"`
	Reason    string    `json:"reason,omitempty"`
	At        time.Time `json:"at"`
}

// Recharge is one wallet top-up transaction.
type Recharge struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customerId"`
	CustomerName string    `json:"customerName,omitempty"`
	Amount       float64   `json:"amount"`
	Method       string    `json:"method,omitempty"`
	At           time.Time `json:"at"`
}

// RechargeRequest is the JSON body for the wallet recharge endpoint.
type RechargeRequest struct {
	OutletID   int64   `json:"outletId"`
	CustomerID int64   `json:"customerId"`
	Amount     float64 `json:"amount"`
	Method     string  `json:"method"`
}

// ReportRange bounds a reporting query.
type ReportRange struct {
	StartDate string `json:"startDate"` // YYYY-MM-DD
	EndDate   string `json:"endDate"`   // YYYY-MM-DD
	Interval  string `json:"interval,omitempty"`
}

// SeriesPoint is one (label, value) pair of a report series.
type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is a named report data series.
type Series struct {
	Name   string        `json:"name"`
	Points []SeriesPoint `json:"points"`
}

// ProfileUpdate is the JSON body for PUT /staff/profile.
type ProfileUpdate struct {
	Name    string `json:"name,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// PasswordChange is the JSON body for the change-password endpoint.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
