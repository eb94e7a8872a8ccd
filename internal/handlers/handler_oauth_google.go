package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tmtrack/time_tracker_app/internal/apperrors"
	"github.com/tmtrack/time_tracker_app/internal/core/domain"
	portssvc "github.com/tmtrack/time_tracker_app/internal/core/ports/services"
	"github.com/tmtrack/time_tracker_app/internal/dto"
	"github.com/tmtrack/time_tracker_app/internal/middleware"
	"github.com/tmtrack/time_tracker_app/internal/platform/config"
)

const oauthStateCookieName = "oauth_state"

// googleOAuthHandler handles Google OAuth related requests.
type googleOAuthHandler struct {
	cfg                *config.Config
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	authService        portssvc.AuthSvcFacade
	session            *authHandler
}

// registerGoogleOAuthRoutes sets up the Google sign-in routes under the auth group.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := &googleOAuthHandler{
		cfg:                cfg,
		googleOAuthService: services.GoogleOAuthHandler,
		authService:        services.Auth,
		session:            newAuthHandler(cfg, services),
	}

	google := rg.Group("/google")
	{
		google.GET("/login", h.loginGoogle)
		google.POST("/exchange-code", h.exchangeCodeGoogle)
		google.POST("/token", h.tokenSignInGoogle)
	}
}

// ExchangeCodeRequest is the body for the /google/exchange-code endpoint.
type ExchangeCodeRequest struct {
	Code             string `json:"code" binding:"required"`
	InviteCode       string `json:"inviteCode"`
	OrganizationName string `json:"organizationName"`
}

// loginGoogle godoc
// @Summary Start the Google OAuth flow
// @Description Returns the Google consent page URL and sets the CSRF state cookie.
// @Tags oauth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string "Failed to start OAuth flow"
// @Router /auth/google/login [get]
func (h *googleOAuthHandler) loginGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		logger.Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start Google sign-in"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookieName, state, 300, "/", "", h.cfg.IsProduction, true)
	c.JSON(http.StatusOK, gin.H{"url": h.googleOAuthService.GetGoogleLoginURL(ctx, state)})
}

// exchangeCodeGoogle godoc
// @Summary Exchange a Google authorization code for a session
// @Description Exchanges the authorization code, validates the ID token, provisions the user if needed and starts a session.
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body ExchangeCodeRequest true "Authorization code and optional onboarding fields"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} map[string]string "Invalid authorization code"
// @Failure 401 {object} map[string]string "Invalid Google ID token"
// @Router /auth/google/exchange-code [post]
func (h *googleOAuthHandler) exchangeCodeGoogle(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, req.Code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") || strings.Contains(strings.ToLower(err.Error()), "bad request") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired authorization code"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to communicate with Google"})
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.Error("ID token not found in Google's token response")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve ID token from Google"})
		return
	}

	h.signInWithIDToken(c, idTokenString, req.InviteCode, req.OrganizationName)
}

// tokenSignInGoogle godoc
// @Summary Sign in with a Google ID token
// @Description Validates an ID token obtained client-side, provisions the user if needed and starts a session.
// @Tags oauth
// @Accept json
// @Produce json
// @Param token body dto.GoogleTokenRequest true "Google ID token and optional onboarding fields"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Invalid Google ID token"
// @Router /auth/google/token [post]
func (h *googleOAuthHandler) tokenSignInGoogle(c *gin.Context) {
	var req dto.GoogleTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	h.signInWithIDToken(c, req.IDToken, req.InviteCode, req.OrganizationName)
}

// signInWithIDToken validates the Google ID token, resolves or provisions the
// user and issues a session.
func (h *googleOAuthHandler) signInWithIDToken(c *gin.Context, idTokenString, inviteCode, organizationName string) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(ctx, idTokenString)
	if err != nil {
		logger.Warn("Google ID token validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google ID token"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	emailVerified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || payload.Subject == "" {
		logger.Error("Essential claims missing from Google ID token payload")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google ID token"})
		return
	}
	if !emailVerified {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Google account email is not verified"})
		return
	}

	userInfo := domain.GoogleUserInfo{
		ID:            payload.Subject,
		Email:         email,
		VerifiedEmail: emailVerified,
		Name:          name,
	}

	user, err := h.authService.GetOrCreateGoogleUser(ctx, userInfo, inviteCode, organizationName)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": userFacingMessage(err, "Invalid sign-in request")})
			return
		}
		logger.Error("Failed to get or create Google user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
		return
	}

	h.session.issueSession(c, user, http.StatusOK)
}
