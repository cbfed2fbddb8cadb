package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pratik-mahalle/processimo/internal/api/dto"
	"github.com/pratik-mahalle/processimo/internal/api/middleware"
	"github.com/pratik-mahalle/processimo/internal/auth"
	"github.com/pratik-mahalle/processimo/internal/config"
	"github.com/pratik-mahalle/processimo/internal/domain/user"
	"github.com/pratik-mahalle/processimo/internal/pkg/errors"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
	"github.com/pratik-mahalle/processimo/internal/pkg/utils"
	"github.com/pratik-mahalle/processimo/internal/pkg/validator"
)

const refreshTokenCookie = "refreshToken"

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	userService user.Service
	config      *config.Config
	logger      *logger.Logger
	validator   *validator.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	userService user.Service,
	cfg *config.Config,
	log *logger.Logger,
	val *validator.Validator,
) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		config:      cfg,
		logger:      log,
		validator:   val,
	}
}

// Register handles user registration
// @Summary User registration
// @Description Register a new marketplace account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.AuthResponse "User successfully registered"
// @Failure 400 {object} utils.ErrorResponse "Invalid request or validation error"
// @Failure 409 {object} utils.ErrorResponse "Username or email taken"
// @Router /register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	newUser, err := h.userService.Register(r.Context(), req.ToInput())
	if err != nil {
		respondErr(w, h.logger, err, "Failed to register user")
		return
	}

	h.issueTokens(w, newUser, http.StatusCreated)
}

// Login handles user login
// @Summary User login
// @Description Authenticate with username and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Successfully authenticated"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 401 {object} utils.ErrorResponse "Invalid credentials"
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	authenticated, err := h.userService.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		h.logger.With("username", req.Username).Warn("Authentication failed")
		respondErr(w, h.logger, err, "Failed to authenticate")
		return
	}

	h.logger.With("user_id", authenticated.ID).Info("User logged in")
	h.issueTokens(w, authenticated, http.StatusOK)
}

// Refresh exchanges a refresh token cookie for a new token pair
// @Summary Refresh access token
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.AuthResponse "New tokens generated"
// @Failure 401 {object} utils.ErrorResponse "Invalid refresh token"
// @Router /refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := refreshTokenFrom(r)
	if token == "" {
		utils.WriteError(w, errors.Unauthorized("Missing refresh token"))
		return
	}
	claims, err := auth.ParseRefreshToken(token, h.config.Auth.JWTSecret)
	if err != nil {
		utils.WriteError(w, errors.Unauthorized("Invalid refresh token"))
		return
	}

	// Reload so role changes since the last login take effect
	current, err := h.userService.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, errors.ErrCodeNotFound) {
			utils.WriteError(w, errors.Unauthorized("Invalid refresh token"))
			return
		}
		respondErr(w, h.logger, err, "Failed to load user")
		return
	}

	h.issueTokens(w, current, http.StatusOK)
}

// Logout handles user logout
// @Summary User logout
// @Tags Auth
// @Success 200 {object} utils.SuccessResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.setCookie(w, middleware.AccessTokenCookie, "", -1)
	h.setCookie(w, refreshTokenCookie, "", -1)

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Logged out successfully", nil)
}

// Me returns the current user's information
// @Summary Get current user
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.UserDTO "User information"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /user [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	current, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		respondErr(w, h.logger, err, "Failed to get user")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.NewUserDTO(current))
}

func (h *AuthHandler) issueTokens(w http.ResponseWriter, u *user.User, status int) {
	tokens, err := auth.MintTokens(
		auth.Identity{UserID: u.ID, Email: u.Email, Role: u.Role},
		h.config.Auth.JWTSecret,
		h.config.Auth.AccessTokenExpiry,
		h.config.Auth.RefreshTokenExpiry,
	)
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to generate tokens")
		utils.WriteError(w, errors.Internal("Failed to generate tokens", err))
		return
	}

	h.setCookie(w, middleware.AccessTokenCookie, tokens.AccessToken, h.config.Auth.AccessTokenExpiry)
	h.setCookie(w, refreshTokenCookie, tokens.RefreshToken, h.config.Auth.RefreshTokenExpiry)

	utils.WriteSuccess(w, status, dto.AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		User:         dto.NewUserDTO(u),
	})
}

// setCookie writes an HttpOnly cookie; a negative ttl deletes it
func (h *AuthHandler) setCookie(w http.ResponseWriter, name, value string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		HttpOnly: true,
		Secure:   h.config.IsProduction(),
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   maxAge,
	})
}

// refreshTokenFrom prefers the browser cookie and falls back to a JSON body,
// which is how the CLI sends its stored token.
func refreshTokenFrom(r *http.Request) string {
	if c, err := r.Cookie(refreshTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if r.Body == nil {
		return ""
	}
	var body dto.RefreshRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 8<<10)).Decode(&body); err != nil {
		return ""
	}
	return body.RefreshToken
}
