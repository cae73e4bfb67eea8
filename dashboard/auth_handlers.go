package dashboard

import (
	"errors"
	"net/http"

	"github.com/mealpoint/staffdesk/backend"
	"github.com/mealpoint/staffdesk/session"
	"github.com/mealpoint/staffdesk/web"
)

// SignInPage handles GET /signin.
func (s *Server) SignInPage(w http.ResponseWriter, r *http.Request) {
	snap := s.sess.Snapshot()
	if Decide(snap) == GateAuthenticated {
		http.Redirect(w, r, sanitizeNext(r.URL.Query().Get("next")), http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusOK, "signin.html", web.Page{
		Title: "Sign in",
		Snap:  snap,
		Next:  r.URL.Query().Get("next"),
	})
}

// SignInSubmit handles POST /signin. Validation and credential failures
// re-render the form with inline errors; success resumes the captured
// location.
func (s *Server) SignInSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue("email")
	next := r.PostFormValue("next")

	err := s.sess.SignIn(r.Context(), email, r.PostFormValue("password"))
	if err == nil {
		http.Redirect(w, r, sanitizeNext(next), http.StatusSeeOther)
		return
	}

	page := web.Page{
		Title:  "Sign in",
		Snap:   s.sess.Snapshot(),
		Next:   next,
		Errors: map[string]string{},
		Data:   email,
	}
	status := http.StatusBadRequest
	var valErr *session.ValidationError
	switch {
	case errors.As(err, &valErr):
		page.Errors[valErr.Field] = valErr.Reason
	case errors.Is(err, session.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		page.Errors["form"] = "Invalid email or password."
	case errors.Is(err, session.ErrUnavailable):
		status = http.StatusBadGateway
		page.Errors["form"] = "The server is unreachable. Try again in a moment."
	default:
		status = http.StatusInternalServerError
		page.Errors["form"] = err.Error()
	}
	s.render(w, status, "signin.html", page)
}

// SignUpPage handles GET /signup.
func (s *Server) SignUpPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "signup.html", web.Page{Title: "Sign up", Snap: s.sess.Snapshot()})
}

// SignUpSubmit handles POST /signup. Registration never signs the user in.
func (s *Server) SignUpSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	req := backend.SignUpRequest{
		Name:       r.PostFormValue("name"),
		Email:      r.PostFormValue("email"),
		Password:   r.PostFormValue("password"),
		OutletCode: r.PostFormValue("outletCode"),
	}
	if _, err := s.sess.SignUp(r.Context(), req); err != nil {
		page := web.Page{Title: "Sign up", Snap: s.sess.Snapshot(), Errors: map[string]string{}}
		var valErr *session.ValidationError
		if errors.As(err, &valErr) {
			page.Errors[valErr.Field] = valErr.Reason
		} else {
			page.Errors["form"] = err.Error()
		}
		s.render(w, http.StatusBadRequest, "signup.html", page)
		return
	}
	s.render(w, http.StatusOK, "signin.html", web.Page{
		Title: "Sign in",
		Snap:  s.sess.Snapshot(),
		Flash: "Account created. Sign in once your outlet manager approves it.",
	})
}

// SignOutSubmit handles POST /signout. Always lands on sign-in, signed out
// locally even if the backend call failed.
func (s *Server) SignOutSubmit(w http.ResponseWriter, r *http.Request) {
	s.sess.SignOut(r.Context())
	http.Redirect(w, r, "/signin", http.StatusSeeOther)
}

// SessionResponse is the JSON view of session state.
type SessionResponse struct {
	Authenticated bool                      `json:"authenticated"`
	Loading       bool                      `json:"loading"`
	User          *backend.User             `json:"user,omitempty"`
	Outlet        *backend.Outlet           `json:"outlet,omitempty"`
	Permissions   []backend.PermissionGrant `json:"permissions,omitempty"`
	Error         string                    `json:"error,omitempty"`
}

func sessionResponse(snap session.Snapshot) SessionResponse {
	return SessionResponse{
		Authenticated: snap.Authenticated,
		Loading:       snap.Loading,
		User:          snap.User,
		Outlet:        snap.Outlet,
		Permissions:   snap.Grants,
		Error:         snap.Err,
	}
}

// APISession handles GET /api/v1/session.
func (s *Server) APISession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionResponse(s.sess.Snapshot()))
}

// SignInRequest is the JSON body for POST /api/v1/auth/sign-in.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// APISignIn handles POST /api/v1/auth/sign-in.
func (s *Server) APISignIn(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[SignInRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	if err := s.sess.SignIn(r.Context(), req.Email, req.Password); err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(s.sess.Snapshot()))
}

// APISignUp handles POST /api/v1/auth/sign-up.
func (s *Server) APISignUp(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeJSON[backend.SignUpRequest](w, r, maxBodySize)
	if !ok {
		return
	}
	res, err := s.sess.SignUp(r.Context(), req)
	if err != nil {
		mapError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// APISignOut handles POST /api/v1/auth/sign-out. Idempotent.
func (s *Server) APISignOut(w http.ResponseWriter, r *http.Request) {
	s.sess.SignOut(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// APIRefreshPermissions handles POST /api/v1/session/refresh.
func (s *Server) APIRefreshPermissions(w http.ResponseWriter, r *http.Request) {
	s.sess.RefreshPermissions(r.Context())
	writeJSON(w, http.StatusOK, sessionResponse(s.sess.Snapshot()))
}
