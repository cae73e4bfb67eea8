package dashboard

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/mealpoint/staffdesk/session"
	"github.com/mealpoint/staffdesk/web"
)

// GateState is the authentication gate's view of the session. The decision
// is a pure function of the snapshot; gates perform no I/O of their own.
type GateState int

const (
	// GateLoading means a lifecycle operation is in flight; no redirect
	// decision is made so an unfinished rehydrate never flashes sign-in.
	GateLoading GateState = iota
	GateUnauthenticated
	GateAuthenticated
)

// Decide maps a session snapshot to a gate state. Loading wins regardless
// of the authenticated flag.
func Decide(snap session.Snapshot) GateState {
	switch {
	case snap.Loading:
		return GateLoading
	case snap.Authenticated:
		return GateAuthenticated
	default:
		return GateUnauthenticated
	}
}

// RequireAuthPage gates HTML routes. Unauthenticated requests are redirected
// to sign-in with the requested location captured for post-sign-in return.
func (s *Server) RequireAuthPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := s.sess.Snapshot()
		switch Decide(snap) {
		case GateLoading:
			w.Header().Set("Refresh", "1")
			s.render(w, http.StatusOK, "loading.html", web.Page{Title: "Loading", Snap: snap})
		case GateUnauthenticated:
			target := "/signin"
			if requested := r.URL.RequestURI(); requested != "/" {
				target += "?next=" + url.QueryEscape(requested)
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// RequireAuthAPI gates JSON routes: 503 while loading, 401 when signed out.
func (s *Server) RequireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap := s.sess.Snapshot()
		switch Decide(snap) {
		case GateLoading:
			writeError(w, http.StatusServiceUnavailable, "session is loading")
		case GateUnauthenticated:
			writeError(w, http.StatusUnauthorized, "authentication required")
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// RequirePermissionPage composes after RequireAuthPage. A missing grant
// renders the in-place restricted view; it never redirects, so the user can
// navigate back.
func (s *Server) RequirePermissionPage(kind session.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := s.sess.Snapshot()
			if !snap.HasPermission(kind) {
				s.render(w, http.StatusForbidden, "restricted.html", web.Page{Title: "Access restricted", Snap: snap})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermissionAPI is the JSON variant: 403 with the missing kind named.
func (s *Server) RequirePermissionAPI(kind session.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.sess.Snapshot().HasPermission(kind) {
				writeError(w, http.StatusForbidden, "missing permission "+string(kind))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// sanitizeNext accepts only same-origin absolute paths for the post-sign-in
// redirect, rejecting protocol-relative and external URLs.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	if u, err := url.Parse(next); err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return next
}
