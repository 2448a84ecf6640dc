package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/core/domain"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/core/services"
	"github.com/credisur/creditledger/internal/dto"
	"github.com/credisur/creditledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

// collectionHandler handles HTTP requests related to collections.
type collectionHandler struct {
	collectionService portssvc.CollectionSvcFacade
}

// newCollectionHandler creates a new collectionHandler.
func newCollectionHandler(cs portssvc.CollectionSvcFacade) *collectionHandler {
	return &collectionHandler{
		collectionService: cs,
	}
}

// registerCollectionRoutes registers top-level collection routes.
func registerCollectionRoutes(rg *gin.RouterGroup, collectionService portssvc.CollectionSvcFacade) {
	h := newCollectionHandler(collectionService)

	collections := rg.Group("/collections")
	{
		collections.POST("", h.recordCollection)
		collections.GET("", h.listCollections)
		collections.POST("/sweep", h.sweepResiduals)
		collections.GET("/:collectionID", h.getCollection)
	}
}

// registerCreditCollectionRoutes registers the collection routes nested under
// a credit. The group is the /credits group owned by the credit handler.
func registerCreditCollectionRoutes(credits *gin.RouterGroup, collectionService portssvc.CollectionSvcFacade) {
	h := newCollectionHandler(collectionService)

	credits.POST("/:creditID/collections", h.allocatePayment)
	credits.GET("/:creditID/collections", h.listCreditCollections)
	credits.POST("/:creditID/settlement", h.settleInAdvance)
}

// recordCollection godoc
// @Summary Record a collection
// @Description Applies a single payment against one installment, decomposing the amount in the installment's own proportions
// @Tags collections
// @Accept  json
// @Produce  json
// @Param   collection body dto.RecordCollectionRequest true "Collection details"
// @Success 201 {object} dto.CollectionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Installment not found"
// @Failure 409 {object} map[string]string "Installment settled or amount exceeds what is owed"
// @Failure 500 {object} map[string]string "Failed to record collection"
// @Security BearerAuth
// @Router /collections [post]
func (h *collectionHandler) recordCollection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for record collection request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("installment_id", req.InstallmentID), slog.String("creator_id", creatorID))
	logger.Info("Received request to record collection", slog.String("amount", req.Amount.String()))

	collection, err := h.collectionService.RecordCollection(c.Request.Context(), req, creatorID)
	if err != nil {
		respondCollectionError(c, logger, err, "Failed to record collection")
		return
	}

	logger.Info("Collection recorded successfully", slog.String("collection_id", collection.CollectionID))
	c.JSON(http.StatusCreated, dto.ToCollectionResponse(collection))
}

// listCollections godoc
// @Summary List collections by date range
// @Description Retrieves a paginated list of collections whose collection date falls inside the window
// @Tags collections
// @Produce  json
// @Param   from query string true "Start date (YYYY-MM-DD)"
// @Param   to query string true "End date (YYYY-MM-DD)"
// @Param   limit query int false "Limit number of results" default(50)
// @Param   nextToken query string false "Token for the next page"
// @Success 200 {object} dto.ListCollectionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list collections"
// @Security BearerAuth
// @Router /collections [get]
func (h *collectionHandler) listCollections(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListCollectionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for list collections", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.collectionService.ListCollectionsByDateRange(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid date range for list collections", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list collections", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list collections"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getCollection godoc
// @Summary Get a collection by ID
// @Description Retrieves details for a specific collection
// @Tags collections
// @Produce  json
// @Param   collectionID path string true "Collection ID"
// @Success 200 {object} dto.CollectionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Collection not found"
// @Failure 500 {object} map[string]string "Failed to retrieve collection"
// @Security BearerAuth
// @Router /collections/{collectionID} [get]
func (h *collectionHandler) getCollection(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	collectionID := c.Param("collectionID")

	collection, err := h.collectionService.GetCollectionByID(c.Request.Context(), collectionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Collection not found", slog.String("collection_id", collectionID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		} else {
			logger.Error("Failed to get collection", slog.String("collection_id", collectionID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve collection"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCollectionResponse(collection))
}

// sweepResiduals godoc
// @Summary Sweep sub-threshold residuals
// @Description Waives residual balances below the configured threshold across every credit that has them, settling the affected installments
// @Tags collections
// @Produce  json
// @Success 200 {object} dto.SweepResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to sweep residuals"
// @Security BearerAuth
// @Router /collections/sweep [post]
func (h *collectionHandler) sweepResiduals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_id", creatorID))
	logger.Info("Received request to sweep residuals")

	summary, err := h.collectionService.SweepResiduals(c.Request.Context(), creatorID)
	if err != nil {
		logger.Error("Failed to sweep residuals", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sweep residuals"})
		return
	}

	logger.Info("Residual sweep completed",
		slog.Int("credits_swept", summary.CreditsSwept),
		slog.Int("collections", summary.Collections),
		slog.String("total_waived", summary.TotalWaived.String()))
	c.JSON(http.StatusOK, dto.SweepResponse{
		CreditsSwept: summary.CreditsSwept,
		Collections:  summary.Collections,
		TotalWaived:  summary.TotalWaived,
	})
}

// allocatePayment godoc
// @Summary Allocate a payment across a credit
// @Description Spreads a payment across the credit's outstanding installments oldest first and returns any unapplied remainder
// @Tags collections
// @Accept  json
// @Produce  json
// @Param   creditID path string true "Credit ID"
// @Param   payment body dto.AllocatePaymentRequest true "Payment details"
// @Success 201 {object} dto.AllocationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 409 {object} map[string]string "Credit is not active"
// @Failure 500 {object} map[string]string "Failed to allocate payment"
// @Security BearerAuth
// @Router /credits/{creditID}/collections [post]
func (h *collectionHandler) allocatePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditID := c.Param("creditID")

	var req dto.AllocatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for allocate payment request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("credit_id", creditID), slog.String("creator_id", creatorID))
	logger.Info("Received request to allocate payment", slog.String("amount", req.Amount.String()))

	result, err := h.collectionService.AllocatePayment(c.Request.Context(), creditID, req, creatorID)
	if err != nil {
		respondCollectionError(c, logger, err, "Failed to allocate payment")
		return
	}

	logger.Info("Payment allocated successfully",
		slog.Int("collections", len(result.Collections)),
		slog.String("remainder", result.Remainder.String()),
		slog.Bool("credit_settled", result.CreditSettled))
	c.JSON(http.StatusCreated, dto.ToAllocationResponse(result))
}

// listCreditCollections godoc
// @Summary List a credit's collections
// @Description Retrieves every collection recorded against a credit
// @Tags collections
// @Produce  json
// @Param   creditID path string true "Credit ID"
// @Success 200 {array} dto.CollectionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 500 {object} map[string]string "Failed to list collections"
// @Security BearerAuth
// @Router /credits/{creditID}/collections [get]
func (h *collectionHandler) listCreditCollections(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditID := c.Param("creditID")

	collections, err := h.collectionService.ListCollectionsByCredit(c.Request.Context(), creditID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Credit not found for collection listing", slog.String("credit_id", creditID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Credit not found"})
		} else {
			logger.Error("Failed to list credit collections", slog.String("credit_id", creditID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list collections"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCollectionResponses(collections))
}

// settleInAdvance godoc
// @Summary Settle a credit in advance
// @Description Clears a credit early: remaining capital is collected, remaining interest and tax are waived
// @Tags collections
// @Accept  json
// @Produce  json
// @Param   creditID path string true "Credit ID"
// @Param   settlement body dto.SettleInAdvanceRequest true "Settlement details"
// @Success 200 {object} dto.AllocationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Credit not found"
// @Failure 409 {object} map[string]string "Credit is not active"
// @Failure 500 {object} map[string]string "Failed to settle credit"
// @Security BearerAuth
// @Router /credits/{creditID}/settlement [post]
func (h *collectionHandler) settleInAdvance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditID := c.Param("creditID")

	var req dto.SettleInAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for settle in advance request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("credit_id", creditID), slog.String("creator_id", creatorID))
	logger.Info("Received request to settle credit in advance")

	result, err := h.collectionService.SettleInAdvance(c.Request.Context(), creditID, req, creatorID)
	if err != nil {
		respondCollectionError(c, logger, err, "Failed to settle credit")
		return
	}

	logger.Info("Credit settled in advance", slog.Bool("credit_settled", result.CreditSettled))
	c.JSON(http.StatusOK, dto.ToAllocationResponse(result))
}

// respondCollectionError maps the collection service's errors onto HTTP
// statuses. fallback is the message for unclassified errors.
func respondCollectionError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, domain.ErrUnknownInstallment):
		logger.Warn("Referenced entity not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAmountNotPositive),
		errors.Is(err, services.ErrCollectionTypeInactive),
		errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Collection request rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInstallmentSettled),
		errors.Is(err, services.ErrCreditNotActive),
		errors.Is(err, services.ErrNoActiveCredits),
		errors.Is(err, domain.ErrOverCollection),
		errors.Is(err, domain.ErrPrematureSettlement),
		errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Collection conflicts with ledger state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
