package dashboard

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mealpoint/staffdesk/backend"
	"github.com/mealpoint/staffdesk/session"
	"github.com/mealpoint/staffdesk/web"
)

const maxBodySize = 1 << 20

// ErrorResponse is the JSON error envelope for the local API.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func decodeJSON[T any](w http.ResponseWriter, r *http.Request, maxSize int64) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return v, false
	}
	return v, true
}

// mapError translates session/backend error kinds to HTTP statuses. Callers
// branch on kind; message text is display only.
func mapError(w http.ResponseWriter, err error) {
	var valErr *session.ValidationError
	var apiErr *backend.APIError
	switch {
	case errors.As(err, &valErr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: valErr.Reason, Field: valErr.Field})
	case errors.Is(err, session.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, session.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, "session expired")
	case errors.Is(err, session.ErrUnavailable):
		writeError(w, http.StatusBadGateway, "backend unavailable")
	case errors.As(err, &apiErr):
		writeError(w, apiErr.Status, apiErr.Message)
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// render writes an HTML page, logging render failures after headers are gone.
func (s *Server) render(w http.ResponseWriter, status int, name string, p web.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.views.Render(w, name, p); err != nil {
		s.logger.Error("rendering page", slog.String("template", name), slog.String("error", err.Error()))
	}
}

// renderError shows the in-place error view for a failed page action.
func (s *Server) renderError(w http.ResponseWriter, snap session.Snapshot, err error) {
	status := http.StatusInternalServerError
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, session.ErrUnavailable):
		status = http.StatusBadGateway
	case errors.As(err, &apiErr):
		status = apiErr.Status
	}
	s.render(w, status, "error.html", web.Page{Title: "Error", Snap: snap, Data: err.Error()})
}

// outletID returns the session's bound outlet, or renders the error view.
func (s *Server) outletID(w http.ResponseWriter, snap session.Snapshot) (int64, bool) {
	if snap.Outlet == nil {
		s.render(w, http.StatusConflict, "error.html", web.Page{
			Title: "No outlet",
			Snap:  snap,
			Data:  "Your account has no outlet assigned. Contact your administrator.",
		})
		return 0, false
	}
	return snap.Outlet.ID, true
}
