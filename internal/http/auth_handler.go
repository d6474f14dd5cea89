package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/amrtikande/shoop/internal/auth"
)

type AuthHandler struct {
	auth   *auth.Service
	logger *slog.Logger
}

func NewAuthHandler(authService *auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		logger: logger,
	}
}

type loginDTO struct {
	Password string `json:"password"`
}

type loginResponseDTO struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

type verifyResponseDTO struct {
	Valid bool `json:"valid"`
	Admin bool `json:"admin,omitempty"`
}

// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			respondError(w, http.StatusUnauthorized, "invalid_password", "incorrect password")
			return
		}
		h.logger.Error("login failed", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, loginResponseDTO{
		Token:   token,
		Message: "login successful",
	})
}

// POST /api/auth/verify
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, err := h.auth.Verify(extractToken(r))
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, verifyResponseDTO{Valid: false})
		return
	}

	respondJSON(w, http.StatusOK, verifyResponseDTO{
		Valid: true,
		Admin: claims.Admin,
	})
}
