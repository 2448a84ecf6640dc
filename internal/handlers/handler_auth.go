package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/core/domain"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/dto"
	"github.com/credisur/creditledger/internal/middleware"
	"github.com/credisur/creditledger/internal/platform/config"

	"github.com/gin-gonic/gin"
)

// authHandler handles authentication related requests.
type authHandler struct {
	operatorService portssvc.OperatorSvcFacade
	tokenService    portssvc.TokenSvcFacade
	cfg             *config.Config
}

// newAuthHandler creates a new authHandler.
func newAuthHandler(os portssvc.OperatorSvcFacade, ts portssvc.TokenSvcFacade, cfg *config.Config) *authHandler {
	return &authHandler{
		operatorService: os,
		tokenService:    ts,
		cfg:             cfg,
	}
}

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newAuthHandler(services.Operator, services.Token, cfg)

	// 5 attempts per minute per IP on the password endpoint
	rate, _ := limiter.NewRateFromFormatted("5-M")
	store := memory.NewStore()
	ipLimiter := limiter.New(store, rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/login", limitMiddleware, h.login)
		auth.POST("/register", h.register)
		auth.POST("/refresh", h.refresh)
		auth.POST("/logout", h.logout)
	}

	registerGoogleOAuthRoutes(auth, cfg, services)
}

// login godoc
// @Summary Operator login
// @Description Authenticates an operator and returns an access token plus a refresh token. The refresh token is also set as an HttpOnly cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse "Too many attempts"
// @Failure 500 {object} ErrorResponse
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	operator, err := h.operatorService.AuthenticateOperator(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
			return
		}
		logger.Error("Failed to authenticate operator", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to authenticate"})
		return
	}

	h.issueSession(c, operator)
}

// refresh godoc
// @Summary Refresh an access token
// @Description Exchanges a valid refresh token for a new access token and rotates the refresh token. The token is read from the body or from the refresh cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshRequest true "Refresh details"
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Invalid or expired refresh token"
// @Failure 500 {object} ErrorResponse
// @Router /auth/refresh [post]
func (h *authHandler) refresh(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	token := req.RefreshToken
	if token == "" {
		if cookie, err := c.Cookie(h.cfg.RefreshTokenCookieName); err == nil {
			token = cookie
		}
	}
	if token == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Refresh token required"})
		return
	}

	operator, err := h.tokenService.ValidateAndParseRefreshToken(c.Request.Context(), req.OperatorID, token)
	if err != nil {
		// One message for every failure mode so a caller cannot probe
		// which operator IDs exist.
		if errors.Is(err, apperrors.ErrInvalidRefreshToken) ||
			errors.Is(err, apperrors.ErrRefreshTokenExpired) ||
			errors.Is(err, apperrors.ErrNotFound) ||
			errors.Is(err, apperrors.ErrUnauthorized) {
			h.clearRefreshCookie(c)
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired refresh token"})
			return
		}
		logger.Error("Failed to validate refresh token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to refresh token"})
		return
	}

	accessToken, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), operator)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()), slog.String("operator_id", operator.OperatorID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	// Rotation: persisting the new token hash invalidates the presented one.
	refreshToken, _, err := h.tokenService.GenerateRefreshToken(c.Request.Context(), operator)
	if err != nil {
		logger.Error("Failed to rotate refresh token", slog.String("error", err.Error()), slog.String("operator_id", operator.OperatorID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	h.setRefreshCookie(c, refreshToken)
	c.JSON(http.StatusOK, dto.RefreshTokenResponse{
		AccessToken:  accessToken,
		ExpiresAt:    expiresAt,
		RefreshToken: refreshToken,
	})
}

// logout godoc
// @Summary Operator logout
// @Description Revokes the operator's refresh token and clears the refresh cookie. Idempotent; an already invalid token still clears the cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param logout body dto.RefreshRequest true "Session details"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *authHandler) logout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	token := req.RefreshToken
	if token == "" {
		if cookie, err := c.Cookie(h.cfg.RefreshTokenCookieName); err == nil {
			token = cookie
		}
	}

	if token != "" {
		if operator, err := h.tokenService.ValidateAndParseRefreshToken(c.Request.Context(), req.OperatorID, token); err == nil {
			if err := h.operatorService.ClearRefreshToken(c.Request.Context(), operator.OperatorID); err != nil {
				logger.Error("Failed to clear refresh token", slog.String("error", err.Error()), slog.String("operator_id", operator.OperatorID))
			} else {
				logger.Info("Operator logged out", slog.String("operator_id", operator.OperatorID))
			}
		}
	}

	h.clearRefreshCookie(c)
	c.Status(http.StatusNoContent)
}

// register godoc
// @Summary Register new operator
// @Description Creates a new operator account.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.CreateOperatorRequest true "Operator Registration Info"
// @Success 201 {object} dto.OperatorResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Username already taken"
// @Failure 500 {object} ErrorResponse
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	operator, err := h.operatorService.CreateOperator(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Username already taken"})
			return
		}
		logger.Error("Failed to register operator", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to register operator"})
		return
	}

	logger.Info("Operator registered", slog.String("operator_id", operator.OperatorID), slog.String("username", operator.Username))
	c.JSON(http.StatusCreated, dto.ToOperatorResponse(operator))
}

// issueSession generates the access and refresh token pair for an
// authenticated operator, sets the refresh cookie and writes the login
// response. Shared by password login and the Google flows.
func (h *authHandler) issueSession(c *gin.Context, operator *domain.Operator) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accessToken, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), operator)
	if err != nil {
		logger.Error("Failed to generate access token", slog.String("error", err.Error()), slog.String("operator_id", operator.OperatorID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	refreshToken, _, err := h.tokenService.GenerateRefreshToken(c.Request.Context(), operator)
	if err != nil {
		logger.Error("Failed to generate refresh token", slog.String("error", err.Error()), slog.String("operator_id", operator.OperatorID))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	h.setRefreshCookie(c, refreshToken)

	logger.Info("Operator logged in", slog.String("operator_id", operator.OperatorID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		Operator:     dto.ToOperatorResponse(operator),
		AccessToken:  accessToken,
		ExpiresAt:    expiresAt,
		RefreshToken: refreshToken,
	})
}

func (h *authHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		h.cfg.RefreshTokenCookieName,
		token,
		int(h.cfg.RefreshTokenExpiryDuration.Seconds()),
		h.cfg.RefreshTokenCookiePath,
		"",
		h.cfg.IsProduction, // Secure only behind TLS
		true,
	)
}

func (h *authHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(h.cfg.RefreshTokenCookieName, "", -1, h.cfg.RefreshTokenCookiePath, "", h.cfg.IsProduction, true)
}
