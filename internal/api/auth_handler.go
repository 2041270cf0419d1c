package api

import (
	"encoding/json"
	"net/http"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/nordmarket/authcore/internal/account"
	"github.com/nordmarket/authcore/internal/apperr"
	"github.com/nordmarket/authcore/internal/auth"
	"github.com/nordmarket/authcore/internal/ban"
	"github.com/nordmarket/authcore/internal/oauth"
)

type Handler struct {
	log      *zap.Logger
	auth     *auth.Service
	bans     *ban.Service
	accounts *account.Service
	validate *validator.Validate
}

func NewHandler(log *zap.Logger, authSvc *auth.Service, banSvc *ban.Service, accountSvc *account.Service) *Handler {
	v := validator.New()
	_ = v.RegisterValidation("passwd", hasLetterAndDigit)

	return &Handler{
		log:      log,
		auth:     authSvc,
		bans:     banSvc,
		accounts: accountSvc,
		validate: v,
	}
}

func hasLetterAndDigit(fl validator.FieldLevel) bool {
	var letter, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}

func (h *Handler) decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("malformed request body")
	}
	if err := h.validate.Struct(dst); err != nil {
		return apperr.Validation(err.Error())
	}
	return nil
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	resp, err := h.auth.RegisterByEmail(r.Context(), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	resp, err := h.auth.LoginByEmail(r.Context(), req)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	resp, err := h.auth.GetNewTokens(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// OAuthLogin consumes the provider profile produced by the upstream
// redirect handshake; the handshake itself lives outside this service.
func (h *Handler) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	provider := oauth.Provider(mux.Vars(r)["provider"])

	var profile oauth.Profile
	switch provider {
	case oauth.ProviderGoogle:
		var raw oauth.GoogleProfile
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeError(w, h.log, apperr.Validation("malformed provider profile"))
			return
		}
		profile = oauth.NormalizeGoogle(raw)
	case oauth.ProviderGitHub:
		var raw oauth.GitHubProfile
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeError(w, h.log, apperr.Validation("malformed provider profile"))
			return
		}
		profile = oauth.NormalizeGitHub(raw)
	case oauth.ProviderFacebook:
		var raw oauth.FacebookProfile
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeError(w, h.log, apperr.Validation("malformed provider profile"))
			return
		}
		profile = oauth.NormalizeFacebook(raw)
	default:
		writeError(w, h.log, apperr.Validation("unsupported oauth provider"))
		return
	}

	resp, err := h.auth.HandleOAuthUser(r.Context(), profile)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
