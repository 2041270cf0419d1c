package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/nordmarket/authcore/internal/account"
	"github.com/nordmarket/authcore/internal/ban"
)

type setBanRequest struct {
	AccountID    string  `json:"accountId" validate:"required"`
	Reason       string  `json:"reason" validate:"required,min=10,max=200"`
	Notes        string  `json:"additionalNotes" validate:"omitempty,max=200"`
	AdminID      string  `json:"adminId" validate:"omitempty"`
	DurationDays float64 `json:"durationDays" validate:"required,gt=0"`
}

type extendBanRequest struct {
	AdditionalDays int `json:"additionalDays" validate:"required"`
}

type bannedStatusResponse struct {
	AccountID string `json:"accountId"`
	Banned    bool   `json:"banned"`
}

type sweepResponse struct {
	Deactivated int64 `json:"deactivated"`
}

func (h *Handler) SetBan(w http.ResponseWriter, r *http.Request) {
	var req setBanRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	adminID := req.AdminID
	if adminID == "" {
		if summary, ok := AccountFromContext(r.Context()); ok {
			adminID = summary.ID
		}
	}

	b, err := h.bans.SetBan(r.Context(), ban.SetBanParams{
		AccountID:    req.AccountID,
		Reason:       req.Reason,
		Notes:        req.Notes,
		AdminID:      adminID,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handler) RemoveBan(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["accountId"]

	if err := h.bans.RemoveBan(r.Context(), accountID); err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) ExtendBan(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["accountId"]

	var req extendBanRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	b, err := h.bans.ExtendBan(r.Context(), accountID, req.AdditionalDays)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handler) SweepExpiredBans(w http.ResponseWriter, r *http.Request) {
	count, err := h.bans.DeactivateExpiredBans(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sweepResponse{Deactivated: count})
}

func (h *Handler) IsUserBanned(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["accountId"]

	banned, err := h.bans.IsUserBanned(r.Context(), accountID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, bannedStatusResponse{AccountID: accountID, Banned: banned})
}

func (h *Handler) GetUserBans(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["accountId"]

	bans, err := h.bans.GetUserBans(r.Context(), accountID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, bans)
}

func (h *Handler) GetUserStatus(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["accountId"]

	status, err := h.bans.GetUserStatus(r.Context(), accountID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) GetBannedUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.bans.GetBannedUsers(r.Context())
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
