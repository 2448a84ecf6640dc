package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/credisur/creditledger/internal/core/domain"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/middleware"
	"github.com/credisur/creditledger/internal/platform/config"

	"github.com/gin-gonic/gin"
)

const oauthStateCookieName = "oauthstate"

// googleOAuthHandler handles the Google OAuth flows. The redirect flow
// serves browser logins; the exchange-code flow serves SPAs that run the
// consent screen themselves and post the authorization code here.
type googleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	operatorService    portssvc.OperatorSvcFacade
	auth               *authHandler
}

// newGoogleOAuthHandler creates a new googleOAuthHandler.
func newGoogleOAuthHandler(gs portssvc.GoogleOAuthHandlerSvcFacade, os portssvc.OperatorSvcFacade, auth *authHandler) *googleOAuthHandler {
	return &googleOAuthHandler{
		googleOAuthService: gs,
		operatorService:    os,
		auth:               auth,
	}
}

// ExchangeCodeRequest defines the JSON body for the exchange-code endpoint.
type ExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// registerGoogleOAuthRoutes registers the Google OAuth routes under the auth group.
func registerGoogleOAuthRoutes(auth *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newGoogleOAuthHandler(services.GoogleOAuth, services.Operator, newAuthHandler(services.Operator, services.Token, cfg))

	google := auth.Group("/google")
	{
		google.GET("/login", h.loginGoogle)
		google.GET("/callback", h.callbackGoogle)
		google.POST("/exchange-code", h.exchangeCodeGoogle)
	}
}

// loginGoogle godoc
// @Summary Start the Google login flow
// @Description Redirects the browser to Google's consent screen with a CSRF state cookie
// @Tags oauth
// @Success 307 "Redirect to Google"
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login [get]
func (h *googleOAuthHandler) loginGoogle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	state, err := h.googleOAuthService.GenerateStateString(c.Request.Context())
	if err != nil {
		logger.Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start Google login"})
		return
	}

	// State round-trips through a short-lived cookie for the CSRF check.
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookieName, state, 600, "/", "", h.auth.cfg.IsProduction, true)

	c.Redirect(http.StatusTemporaryRedirect, h.googleOAuthService.GetGoogleLoginURL(c.Request.Context(), state))
}

// callbackGoogle godoc
// @Summary Complete the Google login flow
// @Description Handles Google's redirect, exchanges the code, resolves the operator and issues a session
// @Tags oauth
// @Produce json
// @Param state query string true "CSRF state"
// @Param code query string true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse "State mismatch or missing code"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *googleOAuthHandler) callbackGoogle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	stateCookie, err := c.Cookie(oauthStateCookieName)
	if err != nil || stateCookie == "" || c.Query("state") != stateCookie {
		logger.Warn("OAuth state mismatch on Google callback")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	// State is single use.
	c.SetCookie(oauthStateCookieName, "", -1, "/", "", h.auth.cfg.IsProduction, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Authorization code is required"})
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(c.Request.Context(), code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authorization code"})
		return
	}

	info, err := h.googleOAuthService.GetUserInfo(c.Request.Context(), oauth2Token)
	if err != nil {
		logger.Error("Failed to fetch Google user info", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to fetch user information from Google"})
		return
	}

	h.finishGoogleLogin(c, info)
}

// exchangeCodeGoogle godoc
// @Summary Exchange a Google authorization code for a session
// @Description Exchanges the authorization code posted by the frontend, validates Google's ID token and issues an application session
// @Tags oauth
// @Accept json
// @Produce json
// @Param code body ExchangeCodeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse "Invalid or expired authorization code"
// @Failure 401 {object} ErrorResponse "ID token validation failed"
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/exchange-code [post]
func (h *googleOAuthHandler) exchangeCodeGoogle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req ExchangeCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(c.Request.Context(), req.Code)
	if err != nil {
		logger.Error("Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		// invalid_grant means the code is spent or expired, a client mistake
		if strings.Contains(strings.ToLower(err.Error()), "invalid_grant") {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired authorization code"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to communicate with Google"})
		return
	}

	idTokenString, ok := oauth2Token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		logger.Error("ID token missing from Google's token response")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve ID token from Google"})
		return
	}

	payload, err := h.googleOAuthService.ValidateGoogleIDToken(c.Request.Context(), idTokenString)
	if err != nil {
		logger.Warn("Google ID token validation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid Google ID token"})
		return
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	if email == "" || payload.Subject == "" {
		logger.Error("Essential claims missing from Google ID token", slog.Any("claims", payload.Claims))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Essential user information missing from Google token"})
		return
	}

	h.finishGoogleLogin(c, &domain.GoogleUserInfo{
		ID:            payload.Subject,
		Email:         email,
		VerifiedEmail: verified,
		Name:          name,
	})
}

// finishGoogleLogin resolves the operator behind a verified Google identity
// and issues the session tokens.
func (h *googleOAuthHandler) finishGoogleLogin(c *gin.Context, info *domain.GoogleUserInfo) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	operator, err := h.operatorService.FindOrCreateOperatorFromGoogle(c.Request.Context(), info)
	if err != nil {
		logger.Error("Failed to resolve operator from Google identity", slog.String("error", err.Error()), slog.String("google_id", info.ID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to process Google login"})
		return
	}

	logger.Info("Operator authenticated via Google", slog.String("operator_id", operator.OperatorID), slog.String("email", operator.Email))
	h.auth.issueSession(c, operator)
}
