package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nordmarket/authcore/internal/account"
)

// NewRouter assembles the HTTP surface. Admin routes run the ordered
// guard chain: authenticate, then exact-role check.
func NewRouter(h *Handler, m *Middleware) *mux.Router {
	r := mux.NewRouter()

	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return Chain(h.log, next, m.Authenticated, m.HasRole(account.RoleAdmin))
	}
	authed := func(next http.HandlerFunc) http.HandlerFunc {
		return Chain(h.log, next, m.Authenticated)
	}

	a := r.PathPrefix("/api/auth").Subrouter()
	a.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	a.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	a.HandleFunc("/login/access-token", h.Refresh).Methods(http.MethodPost)
	a.HandleFunc("/oauth/{provider}", h.OAuthLogin).Methods(http.MethodPost)

	b := r.PathPrefix("/api/bans").Subrouter()
	b.HandleFunc("", admin(h.SetBan)).Methods(http.MethodPost)
	b.HandleFunc("", admin(h.GetBannedUsers)).Methods(http.MethodGet)
	b.HandleFunc("/sweep", admin(h.SweepExpiredBans)).Methods(http.MethodPost)
	b.HandleFunc("/{accountId}", admin(h.GetUserBans)).Methods(http.MethodGet)
	b.HandleFunc("/{accountId}", admin(h.RemoveBan)).Methods(http.MethodDelete)
	b.HandleFunc("/{accountId}/extend", admin(h.ExtendBan)).Methods(http.MethodPatch)
	b.HandleFunc("/{accountId}/active", admin(h.IsUserBanned)).Methods(http.MethodGet)
	b.HandleFunc("/{accountId}/status", admin(h.GetUserStatus)).Methods(http.MethodGet)

	u := r.PathPrefix("/api/users").Subrouter()
	u.HandleFunc("", admin(h.ListAccounts)).Methods(http.MethodGet)
	u.HandleFunc("/profile", authed(h.GetProfile)).Methods(http.MethodGet)
	u.HandleFunc("/profile", Chain(h.log, h.UpdateProfile, m.Authenticated, m.NotBanned)).Methods(http.MethodPut)
	u.HandleFunc("/{accountId}", admin(h.DeleteAccount)).Methods(http.MethodDelete)

	return r
}
