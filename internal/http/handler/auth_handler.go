package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/immobarok/mailbox-backend/internal/http/response"
	"github.com/immobarok/mailbox-backend/internal/observability"
	"github.com/immobarok/mailbox-backend/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthServiceInterface
}

func NewAuthHandler(authSvc service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}

	result, err := h.authSvc.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
		case errors.Is(err, service.ErrEmailTaken):
			response.Error(w, r, http.StatusConflict, "CONFLICT", "email already registered", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "registration failed", nil)
		}
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "auth.register",
		ActorUserID: observability.ActorUserID(result.User.ID),
		TargetType:  "user",
		TargetID:    observability.ActorUserID(result.User.ID),
		Action:      "register",
		Outcome:     "success",
		Reason:      "account_created",
	}, "mail_dispatched", result.MailDispatched)
	response.JSON(w, r, http.StatusCreated, map[string]any{
		"user":            result.User,
		"mail_dispatched": result.MailDispatched,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}

	result, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// One code for every credential failure; nothing to enumerate.
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid email or password", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "login failed", nil)
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "auth.login",
		ActorUserID: observability.ActorUserID(result.User.ID),
		TargetType:  "user",
		TargetID:    observability.ActorUserID(result.User.ID),
		Action:      "login",
		Outcome:     "success",
		Reason:      "credentials_ok",
	})
	response.JSON(w, r, http.StatusOK, map[string]any{
		"token": result.Token,
		"user":  result.User,
		"auth": map[string]any{
			"type":       "Bearer",
			"expires_in": int(result.ExpiresIn.Seconds()),
		},
	})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	view, err := h.authSvc.VerifyEmail(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVerificationTokenExpired):
			response.Error(w, r, http.StatusBadRequest, "EXPIRED_TOKEN", "verification token expired, request a new one", nil)
		case errors.Is(err, service.ErrInvalidVerificationToken):
			response.Error(w, r, http.StatusBadRequest, "INVALID_TOKEN", "invalid verification token", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "verification failed", nil)
		}
		return
	}

	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "auth.verify_email",
		ActorUserID: observability.ActorUserID(view.ID),
		TargetType:  "user",
		TargetID:    observability.ActorUserID(view.ID),
		Action:      "verify_email",
		Outcome:     "success",
		Reason:      "token_consumed",
	})
	response.JSON(w, r, http.StatusOK, map[string]any{"user": view, "verified": true})
}

type resendRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body", nil)
		return
	}

	dispatched, err := h.authSvc.ResendVerification(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "no account for that email", nil)
		case errors.Is(err, service.ErrAlreadyVerified):
			response.Error(w, r, http.StatusConflict, "ALREADY_VERIFIED", "email is already verified", nil)
		default:
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "resend failed", nil)
		}
		return
	}

	response.JSON(w, r, http.StatusOK, map[string]any{"mail_dispatched": dispatched})
}

// Profile returns the identity embedded in the bearer token, no store
// lookup.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, userID, err := authClaims(r)
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{
		"user_id": userID,
		"email":   claims.Email,
	})
}
