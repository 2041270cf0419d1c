package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nordmarket/authcore/internal/account"
	"github.com/nordmarket/authcore/internal/apperr"
)

type updateProfileRequest struct {
	Name    string `json:"name" validate:"required,max=50"`
	Surname string `json:"surname" validate:"required,max=50"`
	Phone   string `json:"phoneNumber" validate:"omitempty,e164"`
	Avatar  string `json:"avatar" validate:"omitempty,url"`
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	var accounts []account.Account
	var err error

	if role := r.URL.Query().Get("role"); role != "" {
		accounts, err = h.accounts.ListByRole(r.Context(), account.Role(role), 0)
	} else {
		accounts, err = h.accounts.List(r.Context(), r.URL.Query().Get("searchTerm"))
	}
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	summaries := make([]account.Summary, 0, len(accounts))
	for i := range accounts {
		summaries = append(summaries, accounts[i].Summary())
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	summary, ok := AccountFromContext(r.Context())
	if !ok {
		writeError(w, h.log, apperr.Authentication(apperr.ReasonInvalid, "missing authentication"))
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	summary, ok := AccountFromContext(r.Context())
	if !ok {
		writeError(w, h.log, apperr.Authentication(apperr.ReasonInvalid, "missing authentication"))
		return
	}

	var req updateProfileRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	updated, err := h.accounts.UpdateProfile(r.Context(), summary.ID, req.Name, req.Surname, req.Phone, req.Avatar)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, updated.Summary())
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["accountId"]

	if err := h.accounts.Delete(r.Context(), accountID); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
