// Package dashboard serves the staff-operations web dashboard: server-side
// rendered pages plus a small JSON API, all thin views over the MealPoint
// backend via the process-wide session.
package dashboard

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"

	"github.com/mealpoint/staffdesk/session"
	"github.com/mealpoint/staffdesk/web"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Server holds the dependencies needed by the dashboard handlers.
type Server struct {
	sess   *session.Session
	views  *web.Views
	logger *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger. If not set, a default JSON logger
// writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a dashboard server bound to the given session.
func New(sess *session.Session, opts ...Option) (*Server, error) {
	views, err := web.NewViews()
	if err != nil {
		return nil, err
	}
	s := &Server{sess: sess, views: views}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	return s, nil
}

// Router returns a chi.Router with all dashboard routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})
	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/openapi.yaml",
		Path:    "docs",
	}, nil))
	r.Handle("/redoc*", middleware.Redoc(middleware.RedocOpts{
		SpecURL: "/openapi.yaml",
		Path:    "redoc",
	}, nil))

	// Auth entry points are the only unguarded pages.
	r.Get("/signin", s.SignInPage)
	r.Post("/signin", s.SignInSubmit)
	r.Get("/signup", s.SignUpPage)
	r.Post("/signup", s.SignUpSubmit)
	r.Post("/signout", s.SignOutSubmit)

	r.Group(func(r chi.Router) {
		r.Use(s.RequireAuthPage)

		r.Get("/", s.HomePage)
		r.Get("/settings", s.SettingsPage)
		r.Post("/settings/profile", s.UpdateProfileSubmit)
		r.Post("/settings/password", s.ChangePasswordSubmit)
		r.Post("/settings/refresh-permissions", s.RefreshPermissionsSubmit)

		r.With(s.RequirePermissionPage(session.PermViewOrders)).Get("/orders", s.OrdersPage)
		r.With(s.RequirePermissionPage(session.PermViewOrders)).Get("/orders/{orderID}", s.OrderDetailPage)
		r.With(s.RequirePermissionPage(session.PermManageOrders)).Post("/orders/{orderID}/status", s.UpdateOrderSubmit)
		r.With(s.RequirePermissionPage(session.PermManageOrders)).Get("/manual-order", s.ManualOrderPage)
		r.With(s.RequirePermissionPage(session.PermManageOrders)).Post("/manual-order", s.ManualOrderSubmit)
		r.With(s.RequirePermissionPage(session.PermViewOrders)).Get("/order-history", s.OrderHistoryPage)
		r.With(s.RequirePermissionPage(session.PermViewInventory)).Get("/inventory", s.InventoryPage)
		r.With(s.RequirePermissionPage(session.PermManageInventory)).Post("/inventory/adjust", s.AdjustStockSubmit)
		r.With(s.RequirePermissionPage(session.PermViewWallet)).Get("/wallet", s.WalletPage)
		r.With(s.RequirePermissionPage(session.PermManageWallet)).Post("/wallet/recharge", s.RechargeSubmit)
		r.With(s.RequirePermissionPage(session.PermViewReports)).Get("/reports", s.ReportsPage)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/sign-in", s.APISignIn)
		r.Post("/auth/sign-up", s.APISignUp)
		r.Post("/auth/sign-out", s.APISignOut)
		r.Get("/session", s.APISession)

		r.Group(func(r chi.Router) {
			r.Use(s.RequireAuthAPI)
			r.Post("/session/refresh", s.APIRefreshPermissions)
			r.With(s.RequirePermissionAPI(session.PermManageOrders)).Post("/orders/{orderID}/status", s.APIUpdateOrder)
			r.With(s.RequirePermissionAPI(session.PermManageOrders)).Post("/orders", s.APIManualOrder)
			r.With(s.RequirePermissionAPI(session.PermManageInventory)).Post("/inventory/add", s.APIAddStock)
			r.With(s.RequirePermissionAPI(session.PermManageInventory)).Post("/inventory/deduct", s.APIDeductStock)
			r.With(s.RequirePermissionAPI(session.PermManageWallet)).Post("/wallet/recharge", s.APIRecharge)
			r.With(s.RequirePermissionAPI(session.PermViewReports)).Get("/reports/overview", s.APIReportsOverview)
		})
	})

	return r
}
