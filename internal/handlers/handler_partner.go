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

	"github.com/gin-gonic/gin"
)

// partnerHandler handles HTTP requests related to business partners and
// portfolio trades.
type partnerHandler struct {
	partnerService portssvc.PartnerSvcFacade
}

// newPartnerHandler creates a new partnerHandler.
func newPartnerHandler(ps portssvc.PartnerSvcFacade) *partnerHandler {
	return &partnerHandler{
		partnerService: ps,
	}
}

// registerPartnerRoutes registers partner and portfolio trade routes.
func registerPartnerRoutes(rg *gin.RouterGroup, partnerService portssvc.PartnerSvcFacade) {
	h := newPartnerHandler(partnerService)

	partners := rg.Group("/partners")
	{
		partners.POST("", h.createPartner)
		partners.GET("", h.listPartners)
		partners.GET("/:partnerID", h.getPartner)
		partners.PUT("/:partnerID", h.updatePartner)
		partners.DELETE("/:partnerID", h.deactivatePartner)
	}

	purchases := rg.Group("/purchases")
	{
		purchases.POST("", h.recordPurchase)
		purchases.GET("/:purchaseID", h.getPurchase)
	}

	sales := rg.Group("/sales")
	{
		sales.POST("", h.recordSale)
		sales.GET("/:saleID", h.getSale)
	}
}

// createPartner godoc
// @Summary Create a new business partner
// @Tags partners
// @Accept  json
// @Produce  json
// @Param   partner body dto.CreatePartnerRequest true "Partner details"
// @Success 201 {object} dto.PartnerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Partner with this tax ID already exists"
// @Failure 500 {object} map[string]string "Failed to create partner"
// @Security BearerAuth
// @Router /partners [post]
func (h *partnerHandler) createPartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create partner request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_id", creatorID))
	logger.Info("Received request to create partner", slog.String("name", req.Name))

	partner, err := h.partnerService.CreatePartner(c.Request.Context(), req, creatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Partner creation rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Duplicate partner", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create partner", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create partner"})
		}
		return
	}

	logger.Info("Partner created successfully", slog.String("partner_id", partner.PartnerID))
	c.JSON(http.StatusCreated, dto.ToPartnerResponse(partner))
}

// listPartners godoc
// @Summary List business partners
// @Tags partners
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Token for the next page"
// @Success 200 {object} dto.ListPartnersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list partners"
// @Security BearerAuth
// @Router /partners [get]
func (h *partnerHandler) listPartners(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListPartnersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for list partners", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.partnerService.ListPartners(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid pagination token for list partners", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list partners", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list partners"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getPartner godoc
// @Summary Get a business partner by ID
// @Tags partners
// @Produce  json
// @Param   partnerID path string true "Partner ID"
// @Success 200 {object} dto.PartnerResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Partner not found"
// @Failure 500 {object} map[string]string "Failed to retrieve partner"
// @Security BearerAuth
// @Router /partners/{partnerID} [get]
func (h *partnerHandler) getPartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partnerID := c.Param("partnerID")

	partner, err := h.partnerService.GetPartnerByID(c.Request.Context(), partnerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Partner not found", slog.String("partner_id", partnerID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		} else {
			logger.Error("Failed to get partner", slog.String("partner_id", partnerID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve partner"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPartnerResponse(partner))
}

// updatePartner godoc
// @Summary Update a business partner
// @Tags partners
// @Accept  json
// @Produce  json
// @Param   partnerID path string true "Partner ID"
// @Param   partner body dto.UpdatePartnerRequest true "Fields to update"
// @Success 200 {object} dto.PartnerResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Partner not found"
// @Failure 500 {object} map[string]string "Failed to update partner"
// @Security BearerAuth
// @Router /partners/{partnerID} [put]
func (h *partnerHandler) updatePartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partnerID := c.Param("partnerID")

	var req dto.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update partner request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Requesting operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("partner_id", partnerID), slog.String("requesting_id", requestingID))
	logger.Info("Received request to update partner")

	partner, err := h.partnerService.UpdatePartner(c.Request.Context(), partnerID, req, requestingID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Partner not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Partner update rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update partner", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update partner"})
		}
		return
	}

	logger.Info("Partner updated successfully")
	c.JSON(http.StatusOK, dto.ToPartnerResponse(partner))
}

// deactivatePartner godoc
// @Summary Deactivate a business partner
// @Description Marks a partner inactive. The configured house partner cannot be deactivated.
// @Tags partners
// @Produce  json
// @Param   partnerID path string true "Partner ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Partner not found"
// @Failure 409 {object} map[string]string "House partner cannot be deactivated"
// @Failure 500 {object} map[string]string "Failed to deactivate partner"
// @Security BearerAuth
// @Router /partners/{partnerID} [delete]
func (h *partnerHandler) deactivatePartner(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	partnerID := c.Param("partnerID")

	requestingID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Requesting operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("partner_id", partnerID), slog.String("requesting_id", requestingID))
	logger.Info("Received request to deactivate partner")

	if err := h.partnerService.DeactivatePartner(c.Request.Context(), partnerID, requestingID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Partner not found for deactivation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		case errors.Is(err, services.ErrHousePartnerLocked):
			logger.Warn("Refused to deactivate house partner")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to deactivate partner", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate partner"})
		}
		return
	}

	logger.Info("Partner deactivated successfully")
	c.Status(http.StatusNoContent)
}

// recordPurchase godoc
// @Summary Record a portfolio purchase
// @Description Registers a purchase of credits from a partner and links the bought credits to it. Depending on configuration the unsettled installments are reassigned to the house partner.
// @Tags trades
// @Accept  json
// @Produce  json
// @Param   purchase body dto.RecordPurchaseRequest true "Purchase details"
// @Success 201 {object} dto.PurchaseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Partner or credit not found"
// @Failure 500 {object} map[string]string "Failed to record purchase"
// @Security BearerAuth
// @Router /purchases [post]
func (h *partnerHandler) recordPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for record purchase request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("partner_id", req.PartnerID), slog.String("creator_id", creatorID))
	logger.Info("Received request to record purchase", slog.Int("credits", len(req.CreditIDs)))

	purchase, err := h.partnerService.RecordPurchase(c.Request.Context(), req, creatorID)
	if err != nil {
		h.respondTradeError(c, logger, err, "Failed to record purchase")
		return
	}

	logger.Info("Purchase recorded successfully", slog.String("purchase_id", purchase.PurchaseID))
	c.JSON(http.StatusCreated, dto.ToPurchaseResponse(purchase))
}

// getPurchase godoc
// @Summary Get a portfolio purchase by ID
// @Tags trades
// @Produce  json
// @Param   purchaseID path string true "Purchase ID"
// @Success 200 {object} dto.PurchaseResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Purchase not found"
// @Failure 500 {object} map[string]string "Failed to retrieve purchase"
// @Security BearerAuth
// @Router /purchases/{purchaseID} [get]
func (h *partnerHandler) getPurchase(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	purchaseID := c.Param("purchaseID")

	purchase, err := h.partnerService.GetPurchaseByID(c.Request.Context(), purchaseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Purchase not found", slog.String("purchase_id", purchaseID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
		} else {
			logger.Error("Failed to get purchase", slog.String("purchase_id", purchaseID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve purchase"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPurchaseResponse(purchase))
}

// recordSale godoc
// @Summary Record a portfolio sale
// @Description Registers a sale of credits to a partner and reassigns the sold credits' unsettled installments to the buyer
// @Tags trades
// @Accept  json
// @Produce  json
// @Param   sale body dto.RecordSaleRequest true "Sale details"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Partner or credit not found"
// @Failure 500 {object} map[string]string "Failed to record sale"
// @Security BearerAuth
// @Router /sales [post]
func (h *partnerHandler) recordSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for record sale request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("partner_id", req.PartnerID), slog.String("creator_id", creatorID))
	logger.Info("Received request to record sale", slog.Int("credits", len(req.CreditIDs)))

	sale, err := h.partnerService.RecordSale(c.Request.Context(), req, creatorID)
	if err != nil {
		h.respondTradeError(c, logger, err, "Failed to record sale")
		return
	}

	logger.Info("Sale recorded successfully", slog.String("sale_id", sale.SaleID))
	c.JSON(http.StatusCreated, dto.ToSaleResponse(sale))
}

// getSale godoc
// @Summary Get a portfolio sale by ID
// @Tags trades
// @Produce  json
// @Param   saleID path string true "Sale ID"
// @Success 200 {object} dto.SaleResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Sale not found"
// @Failure 500 {object} map[string]string "Failed to retrieve sale"
// @Security BearerAuth
// @Router /sales/{saleID} [get]
func (h *partnerHandler) getSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	saleID := c.Param("saleID")

	sale, err := h.partnerService.GetSaleByID(c.Request.Context(), saleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Sale not found", slog.String("sale_id", saleID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		} else {
			logger.Error("Failed to get sale", slog.String("sale_id", saleID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sale"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

// respondTradeError maps portfolio trade errors onto HTTP statuses.
func (h *partnerHandler) respondTradeError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Referenced entity not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPartnerInactive), errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Trade rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrHousePartnerUnset):
		logger.Error("House partner not configured")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
