package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/credisur/creditledger/internal/apperrors"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/core/services"
	"github.com/credisur/creditledger/internal/dto"
	"github.com/credisur/creditledger/internal/middleware"
	"github.com/credisur/creditledger/internal/utils/amortization"

	"github.com/gin-gonic/gin"
)

// creditHandler handles HTTP requests related to credits and their schedules.
type creditHandler struct {
	creditService portssvc.CreditSvcFacade
}

// newCreditHandler creates a new creditHandler.
func newCreditHandler(cs portssvc.CreditSvcFacade) *creditHandler {
	return &creditHandler{
		creditService: cs,
	}
}

// registerCreditRoutes registers all credit-related routes. Collection routes
// nested under a credit are delegated to the collection handler.
func registerCreditRoutes(rg *gin.RouterGroup, creditService portssvc.CreditSvcFacade, collectionService portssvc.CollectionSvcFacade) {
	h := newCreditHandler(creditService)

	credits := rg.Group("/credits")
	{
		credits.POST("", h.originateCredit)
		credits.POST("/penalty", h.originatePenalty)
		credits.POST("/preview", h.previewSchedule)
		credits.GET("", h.listCredits)
		credits.GET("/:creditID", h.getCredit)
		credits.GET("/:creditID/schedule", h.getSchedule)
		credits.POST("/:creditID/cancel", h.cancelCredit)
	}

	registerCreditCollectionRoutes(credits, collectionService)
}

// originateCredit godoc
// @Summary Originate a new credit
// @Description Generates the amortization schedule for the requested terms and persists the credit with all its installments atomically
// @Tags credits
// @Accept  json
// @Produce  json
// @Param   credit body dto.OriginateCreditRequest true "Credit details"
// @Success 201 {object} dto.ScheduleResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Client or credit type not found"
// @Failure 500 {object} map[string]string "Failed to originate credit"
// @Security BearerAuth
// @Router /credits [post]
func (h *creditHandler) originateCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OriginateCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for originate credit request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("client_id", req.ClientID), slog.String("creator_id", creatorID))
	logger.Info("Received request to originate credit", slog.String("amount", req.AmountDisbursed.String()), slog.Int("term", req.Term))

	credit, installments, err := h.creditService.OriginateCredit(c.Request.Context(), req, creatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Referenced entity not found for origination", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrClientInactive),
			errors.Is(err, services.ErrCreditTypeInactive),
			errors.Is(err, services.ErrPenaltyViaOriginate),
			errors.Is(err, amortization.ErrInvalidScheduleInput),
			errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Origination rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrHousePartnerUnset):
			// Deployment misconfiguration, not a client mistake.
			logger.Error("House partner not configured")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to originate credit", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to originate credit"})
		}
		return
	}

	logger.Info("Credit originated successfully", slog.String("credit_id", credit.CreditID), slog.Int("installments", len(installments)))
	c.JSON(http.StatusCreated, dto.ScheduleResponse{
		Credit:       dto.ToCreditResponse(credit),
		Installments: dto.ToInstallmentResponses(installments),
	})
}

// originatePenalty godoc
// @Summary Originate a penalty credit
// @Description Creates a one-installment penalty credit attached to an existing credit; nothing is disbursed
// @Tags credits
// @Accept  json
// @Produce  json
// @Param   penalty body dto.OriginatePenaltyRequest true "Penalty details"
// @Success 201 {object} dto.ScheduleResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 409 {object} map[string]string "Credit is not active"
// @Failure 500 {object} map[string]string "Failed to originate penalty"
// @Security BearerAuth
// @Router /credits/penalty [post]
func (h *creditHandler) originatePenalty(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OriginatePenaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for originate penalty request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("credit_id", req.CreditID), slog.String("creator_id", creatorID))
	logger.Info("Received request to originate penalty", slog.String("surcharge", req.Surcharge.String()))

	credit, installments, err := h.creditService.OriginatePenalty(c.Request.Context(), req, creatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Credit not found for penalty", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrCreditNotActive):
			logger.Warn("Penalty rejected on inactive credit", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, amortization.ErrInvalidScheduleInput):
			logger.Warn("Penalty request rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrHousePartnerUnset):
			logger.Error("House partner not configured")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to originate penalty", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to originate penalty"})
		}
		return
	}

	logger.Info("Penalty originated successfully", slog.String("penalty_credit_id", credit.CreditID))
	c.JSON(http.StatusCreated, dto.ScheduleResponse{
		Credit:       dto.ToCreditResponse(credit),
		Installments: dto.ToInstallmentResponses(installments),
	})
}

// previewSchedule godoc
// @Summary Preview an amortization schedule
// @Description Computes the installment drafts a credit would get without persisting anything
// @Tags credits
// @Accept  json
// @Produce  json
// @Param   preview body dto.PreviewScheduleRequest true "Schedule terms"
// @Success 200 {array} dto.InstallmentDraftResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Credit type not found"
// @Failure 500 {object} map[string]string "Failed to compute schedule"
// @Security BearerAuth
// @Router /credits/preview [post]
func (h *creditHandler) previewSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PreviewScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for preview schedule request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to preview schedule", slog.String("credit_type_id", req.CreditTypeID), slog.Int("term", req.Term))

	drafts, err := h.creditService.PreviewSchedule(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Credit type not found for preview", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrCreditTypeInactive),
			errors.Is(err, amortization.ErrInvalidScheduleInput),
			errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Preview rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to compute schedule preview", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute schedule"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToInstallmentDraftResponses(drafts))
}

// listCredits godoc
// @Summary List credits
// @Description Retrieves a paginated list of credits, newest first
// @Tags credits
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Token for the next page"
// @Success 200 {object} dto.ListCreditsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list credits"
// @Security BearerAuth
// @Router /credits [get]
func (h *creditHandler) listCredits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListCreditsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for list credits", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.creditService.ListCredits(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid pagination token for list credits", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list credits", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list credits"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getCredit godoc
// @Summary Get a credit by ID
// @Description Retrieves details for a specific credit
// @Tags credits
// @Produce  json
// @Param   creditID path string true "Credit ID"
// @Success 200 {object} dto.CreditResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 500 {object} map[string]string "Failed to retrieve credit"
// @Security BearerAuth
// @Router /credits/{creditID} [get]
func (h *creditHandler) getCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditID := c.Param("creditID")

	credit, err := h.creditService.GetCreditByID(c.Request.Context(), creditID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Credit not found", slog.String("credit_id", creditID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Credit not found"})
		} else {
			logger.Error("Failed to get credit", slog.String("credit_id", creditID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve credit"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCreditResponse(credit))
}

// getSchedule godoc
// @Summary Get a credit with its schedule
// @Description Retrieves a credit together with its full installment schedule in order
// @Tags credits
// @Produce  json
// @Param   creditID path string true "Credit ID"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 500 {object} map[string]string "Failed to retrieve schedule"
// @Security BearerAuth
// @Router /credits/{creditID}/schedule [get]
func (h *creditHandler) getSchedule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditID := c.Param("creditID")

	credit, installments, err := h.creditService.GetCreditWithSchedule(c.Request.Context(), creditID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Credit not found for schedule", slog.String("credit_id", creditID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Credit not found"})
		} else {
			logger.Error("Failed to get credit schedule", slog.String("credit_id", creditID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve schedule"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ScheduleResponse{
		Credit:       dto.ToCreditResponse(credit),
		Installments: dto.ToInstallmentResponses(installments),
	})
}

// cancelCredit godoc
// @Summary Cancel a credit
// @Description Transitions a credit to cancelled status; only credits without collections can be cancelled
// @Tags credits
// @Produce  json
// @Param   creditID path string true "Credit ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 409 {object} map[string]string "Credit cannot be cancelled"
// @Failure 500 {object} map[string]string "Failed to cancel credit"
// @Security BearerAuth
// @Router /credits/{creditID}/cancel [post]
func (h *creditHandler) cancelCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditID := c.Param("creditID")

	requestingID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Requesting operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("credit_id", creditID), slog.String("requesting_id", requestingID))
	logger.Info("Received request to cancel credit")

	err := h.creditService.CancelCredit(c.Request.Context(), creditID, requestingID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Credit not found for cancellation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Credit not found"})
		case errors.Is(err, services.ErrCreditNotActive), errors.Is(err, services.ErrCreditHasCollections):
			logger.Warn("Credit cancellation rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to cancel credit", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel credit"})
		}
		return
	}

	logger.Info("Credit cancelled successfully")
	c.Status(http.StatusNoContent)
}
