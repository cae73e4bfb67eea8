package dashboard_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealpoint/staffdesk/credstore/memory"
	"github.com/mealpoint/staffdesk/dashboard"
	"github.com/mealpoint/staffdesk/session"
)

// fakeBackend serves the MealPoint endpoints the dashboard reaches during
// these tests: auth plus the report batch.
type fakeBackend struct {
	mu          sync.Mutex
	permissions []map[string]any
	failReport  string // report endpoint name that fails
	failStatus  int    // status for the failing report, default 500
	reportCalls int
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	respond := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
	user := map[string]any{
		"id": 7, "name": "Asha", "email": "staff1@gmail.com",
		"outlet":       map[string]any{"id": 7, "name": "North Canteen"},
		"staffDetails": map[string]any{"permissions": f.permissions},
	}
	switch {
	case r.URL.Path == "/auth/staff-signin":
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "staff123" {
			respond(http.StatusUnauthorized, map[string]string{"message": "invalid credentials"})
			return
		}
		respond(http.StatusOK, map[string]any{"token": "tok-abc", "user": user})
	case r.URL.Path == "/auth/me":
		respond(http.StatusOK, map[string]any{"user": user})
	case r.URL.Path == "/auth/signout":
		respond(http.StatusOK, map[string]string{"message": "ok"})
	case strings.HasPrefix(r.URL.Path, "/staff/outlets/"):
		f.reportCalls++
		name := strings.Split(strings.TrimPrefix(r.URL.Path, "/staff/outlets/"), "/")[0]
		if name == f.failReport {
			status := f.failStatus
			if status == 0 {
				status = http.StatusInternalServerError
			}
			respond(status, map[string]string{"message": "report exploded"})
			return
		}
		respond(http.StatusOK, map[string]any{"series": map[string]any{
			"name":   name,
			"points": []map[string]any{{"label": "2026-08-01", "value": 120.5}},
		}})
	default:
		respond(http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

func grants(kinds ...session.Permission) []map[string]any {
	out := make([]map[string]any, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, map[string]any{"type": string(k), "isGranted": true})
	}
	return out
}

// newServer builds a dashboard over a real session talking to the fake
// backend. The returned session has not been rehydrated, so it starts in the
// loading state.
func newServer(t *testing.T, api *fakeBackend) (*session.Session, http.Handler) {
	t.Helper()
	backendSrv := httptest.NewServer(api)
	t.Cleanup(backendSrv.Close)

	sess := session.New(session.Config{
		BackendURL: backendSrv.URL,
		Store:      memory.NewStore(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	srv, err := dashboard.New(sess, dashboard.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return sess, srv.Router()
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func postForm(h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestDecide(t *testing.T) {
	cases := []struct {
		name string
		snap session.Snapshot
		want dashboard.GateState
	}{
		{"initial", session.Snapshot{Loading: true}, dashboard.GateLoading},
		{"loading wins over authenticated", session.Snapshot{Loading: true, Authenticated: true}, dashboard.GateLoading},
		{"signed out", session.Snapshot{}, dashboard.GateUnauthenticated},
		{"signed in", session.Snapshot{Authenticated: true}, dashboard.GateAuthenticated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, dashboard.Decide(tc.snap))
		})
	}
}

func TestPageGateRendersLoadingBeforeRehydrate(t *testing.T) {
	_, router := newServer(t, &fakeBackend{})

	rec := get(router, "/orders")

	assert.Equal(t, http.StatusOK, rec.Code, "loading never redirects")
	assert.Equal(t, "1", rec.Header().Get("Refresh"), "the loading page polls until the session settles")
	assert.Contains(t, rec.Body.String(), "Loading")
}

func TestPageGateRedirectsWithCapturedLocation(t *testing.T) {
	sess, router := newServer(t, &fakeBackend{})
	sess.Rehydrate(context.Background())

	rec := get(router, "/orders?status=pending")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin?next="+url.QueryEscape("/orders?status=pending"), rec.Header().Get("Location"))

	rec = get(router, "/")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin", rec.Header().Get("Location"), "the root page needs no next param")
}

func TestAPIGate(t *testing.T) {
	sess, router := newServer(t, &fakeBackend{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/session/refresh", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "loading maps to 503, not 401")

	sess.Rehydrate(context.Background())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/session/refresh", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPermissionGateRendersRestrictedInPlace(t *testing.T) {
	api := &fakeBackend{permissions: grants(session.PermViewOrders)}
	sess, router := newServer(t, api)
	require.NoError(t, sess.SignIn(context.Background(), "staff1@gmail.com", "staff123"))

	rec := get(router, "/manual-order")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Location"), "a missing grant never redirects")
	assert.Contains(t, rec.Body.String(), "Access restricted")
}

func TestPermissionGateAPI(t *testing.T) {
	api := &fakeBackend{permissions: grants(session.PermViewOrders)}
	sess, router := newServer(t, api)
	require.NoError(t, sess.SignIn(context.Background(), "staff1@gmail.com", "staff123"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/overview", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), string(session.PermViewReports))
}

func TestSignInResumesCapturedLocation(t *testing.T) {
	api := &fakeBackend{permissions: grants(session.PermViewOrders)}
	sess, router := newServer(t, api)
	sess.Rehydrate(context.Background())

	rec := postForm(router, "/signin", url.Values{
		"email":    {"staff1@gmail.com"},
		"password": {"staff123"},
		"next":     {"/orders?status=pending"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/orders?status=pending", rec.Header().Get("Location"))
}

func TestSignInRejectsForeignRedirects(t *testing.T) {
	for _, next := range []string{"https://evil.example/", "//evil.example/", "javascript:alert(1)", "orders"} {
		api := &fakeBackend{}
		sess, router := newServer(t, api)
		sess.Rehydrate(context.Background())

		rec := postForm(router, "/signin", url.Values{
			"email":    {"staff1@gmail.com"},
			"password": {"staff123"},
			"next":     {next},
		})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"), "next=%q must fall back to the root", next)
	}
}

func TestSignInFailureRerendersWithInlineError(t *testing.T) {
	sess, router := newServer(t, &fakeBackend{})
	sess.Rehydrate(context.Background())

	rec := postForm(router, "/signin", url.Values{
		"email":    {"staff1@gmail.com"},
		"password": {"wrong-pass"},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password.")
	assert.Contains(t, rec.Body.String(), "staff1@gmail.com", "the email field keeps its value")
}

func TestReportsOverviewJoinsAllSections(t *testing.T) {
	api := &fakeBackend{permissions: grants(session.PermViewReports)}
	sess, router := newServer(t, api)
	require.NoError(t, sess.SignIn(context.Background(), "staff1@gmail.com", "staff123"))

	rec := get(router, "/api/v1/reports/overview?startDate=2026-08-01&endDate=2026-08-28")
	require.Equal(t, http.StatusOK, rec.Code)

	var overview struct {
		Range    struct{ StartDate, EndDate string }
		Sections []struct {
			Key    string
			Series struct {
				Points []struct{ Value float64 }
			}
		}
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	require.Len(t, overview.Sections, 7)
	keys := make(map[string]bool)
	for _, sec := range overview.Sections {
		keys[sec.Key] = true
		require.Len(t, sec.Series.Points, 1)
		assert.Equal(t, 120.5, sec.Series.Points[0].Value)
	}
	assert.True(t, keys["sales-trend"])
	assert.True(t, keys["quantity-sold"])
}

func TestReportsOverviewFailsAsAWhole(t *testing.T) {
	api := &fakeBackend{
		permissions: grants(session.PermViewReports),
		failReport:  "category-breakdown",
	}
	sess, router := newServer(t, api)
	require.NoError(t, sess.SignIn(context.Background(), "staff1@gmail.com", "staff123"))

	rec := get(router, "/api/v1/reports/overview")

	assert.Equal(t, http.StatusBadGateway, rec.Code, "one failed report fails the batch")
	assert.NotContains(t, rec.Body.String(), "sections", "no partial overview is returned")
}

func TestReportsOverviewSurfacesTheTriggeringFailure(t *testing.T) {
	api := &fakeBackend{
		permissions: grants(session.PermViewReports),
		failReport:  "new-customers-trend",
		failStatus:  http.StatusNotFound,
	}
	sess, router := newServer(t, api)
	require.NoError(t, sess.SignIn(context.Background(), "staff1@gmail.com", "staff123"))

	rec := get(router, "/api/v1/reports/overview")

	assert.Equal(t, http.StatusNotFound, rec.Code,
		"the report that failed is reported, not a canceled sibling")
	assert.Contains(t, rec.Body.String(), "report exploded")
}
