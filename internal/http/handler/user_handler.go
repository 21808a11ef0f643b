package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/immobarok/mailbox-backend/internal/http/middleware"
	"github.com/immobarok/mailbox-backend/internal/http/response"
	"github.com/immobarok/mailbox-backend/internal/repository"
	"github.com/immobarok/mailbox-backend/internal/security"
	"github.com/immobarok/mailbox-backend/internal/service"
)

type UserHandler struct {
	userSvc service.UserServiceInterface
}

func NewUserHandler(userSvc service.UserServiceInterface) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	_, userID, err := authClaims(r)
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}
	view, err := h.userSvc.GetByID(userID)
	if err != nil {
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, view)
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id64, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid user id", nil)
		return
	}
	view, err := h.userSvc.GetByID(uint(id64))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load user", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, view)
}

func authClaims(r *http.Request) (*security.Claims, uint, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return nil, 0, errors.New("missing auth context")
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, 0, err
	}
	return claims, userID, nil
}
