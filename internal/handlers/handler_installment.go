package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/core/domain"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/dto"
	"github.com/credisur/creditledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

// installmentHandler handles HTTP requests related to installments. Reads go
// through the credit service; settlement goes through the collection service
// because it is a ledger mutation.
type installmentHandler struct {
	creditService     portssvc.InstallmentReaderSvc
	collectionService portssvc.CollectionSvcFacade
}

// newInstallmentHandler creates a new installmentHandler.
func newInstallmentHandler(cs portssvc.InstallmentReaderSvc, col portssvc.CollectionSvcFacade) *installmentHandler {
	return &installmentHandler{
		creditService:     cs,
		collectionService: col,
	}
}

// registerInstallmentRoutes registers all installment-related routes.
func registerInstallmentRoutes(rg *gin.RouterGroup, creditService portssvc.CreditSvcFacade, collectionService portssvc.CollectionSvcFacade) {
	h := newInstallmentHandler(creditService, collectionService)

	installments := rg.Group("/installments")
	{
		installments.GET("/overdue", h.listOverdue)
		installments.GET("/:installmentID", h.getInstallment)
		installments.GET("/:installmentID/collections", h.listInstallmentCollections)
		installments.POST("/:installmentID/settle", h.forceSettle)
	}
}

// listOverdue godoc
// @Summary List overdue installments
// @Description Retrieves unsettled installments whose due date has passed, oldest first
// @Tags installments
// @Produce  json
// @Param   asOf query string false "Reference date (YYYY-MM-DD), defaults to today"
// @Param   limit query int false "Limit number of results" default(50)
// @Param   nextToken query string false "Token for the next page"
// @Success 200 {object} dto.ListInstallmentsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list overdue installments"
// @Security BearerAuth
// @Router /installments/overdue [get]
func (h *installmentHandler) listOverdue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListOverdueParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for overdue listing", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.creditService.ListOverdueInstallments(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid pagination token for overdue listing", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list overdue installments", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list overdue installments"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getInstallment godoc
// @Summary Get an installment by ID
// @Description Retrieves details for a specific installment including its collected total
// @Tags installments
// @Produce  json
// @Param   installmentID path string true "Installment ID"
// @Success 200 {object} dto.InstallmentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Installment not found"
// @Failure 500 {object} map[string]string "Failed to retrieve installment"
// @Security BearerAuth
// @Router /installments/{installmentID} [get]
func (h *installmentHandler) getInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID := c.Param("installmentID")

	installment, err := h.creditService.GetInstallmentByID(c.Request.Context(), installmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Installment not found", slog.String("installment_id", installmentID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Installment not found"})
		} else {
			logger.Error("Failed to get installment", slog.String("installment_id", installmentID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve installment"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToInstallmentResponse(installment))
}

// listInstallmentCollections godoc
// @Summary List an installment's collections
// @Description Retrieves every collection applied against an installment
// @Tags installments
// @Produce  json
// @Param   installmentID path string true "Installment ID"
// @Success 200 {array} dto.CollectionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Installment not found"
// @Failure 500 {object} map[string]string "Failed to list collections"
// @Security BearerAuth
// @Router /installments/{installmentID}/collections [get]
func (h *installmentHandler) listInstallmentCollections(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID := c.Param("installmentID")

	collections, err := h.collectionService.ListCollectionsByInstallment(c.Request.Context(), installmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Installment not found for collection listing", slog.String("installment_id", installmentID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Installment not found"})
		} else {
			logger.Error("Failed to list installment collections", slog.String("installment_id", installmentID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list collections"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCollectionResponses(collections))
}

// forceSettle godoc
// @Summary Settle a fully collected installment
// @Description Stamps the settlement date on an installment whose collections already cover its total
// @Tags installments
// @Accept  json
// @Produce  json
// @Param   installmentID path string true "Installment ID"
// @Param   settlement body dto.ForceSettleRequest true "Settlement details"
// @Success 200 {object} dto.InstallmentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Installment not found"
// @Failure 409 {object} map[string]string "Installment not fully collected or already settled"
// @Failure 500 {object} map[string]string "Failed to settle installment"
// @Security BearerAuth
// @Router /installments/{installmentID}/settle [post]
func (h *installmentHandler) forceSettle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID := c.Param("installmentID")

	var req dto.ForceSettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for force settle request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Requesting operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("installment_id", installmentID), slog.String("requesting_id", requestingID))
	logger.Info("Received request to settle installment")

	installment, err := h.collectionService.ForceSettleInstallment(c.Request.Context(), installmentID, req, requestingID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Installment not found for settlement")
			c.JSON(http.StatusNotFound, gin.H{"error": "Installment not found"})
		case errors.Is(err, domain.ErrPrematureSettlement), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Installment settlement rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to settle installment", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to settle installment"})
		}
		return
	}

	logger.Info("Installment settled successfully")
	c.JSON(http.StatusOK, dto.ToInstallmentResponse(installment))
}
