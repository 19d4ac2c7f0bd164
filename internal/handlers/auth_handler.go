package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"boostapi/internal/config"
	"boostapi/internal/interfaces"
	"boostapi/internal/models"
)

type AuthHandler struct {
	users     interfaces.UserRepository
	cfg       *config.Config
	validator *validator.Validate
}

func NewAuthHandler(users interfaces.UserRepository, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		users:     users,
		cfg:       cfg,
		validator: validator.New(),
	}
}

// Login handles POST /api/v1/auth/login
// @Tags Auth
// @Summary Exchange credentials for an access token
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		writeJSONErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
			return
		}
		writeJSONErrorResponse(w, http.StatusInternalServerError, "login_failed", "Failed to log in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeJSONErrorResponse(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	}

	if user.IsBlocked {
		writeJSONErrorResponse(w, http.StatusForbidden, "account_blocked", "This account is blocked")
		return
	}

	now := time.Now().UTC()
	expiresIn := h.cfg.AuthTokenTTL
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(expiresIn).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		writeJSONErrorResponse(w, http.StatusInternalServerError, "login_failed", "Failed to sign token")
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(expiresIn.Seconds()),
		Email:       user.Email,
		Role:        string(user.Role),
		Name:        user.Name,
	})
}
