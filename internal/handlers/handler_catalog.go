package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/core/domain"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/dto"
	"github.com/credisur/creditledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

// catalogHandler handles HTTP requests for the reference catalogs: credit
// types, collection types, business lines and organisms.
type catalogHandler struct {
	catalogService portssvc.CatalogSvcFacade
}

// newCatalogHandler creates a new catalogHandler.
func newCatalogHandler(cs portssvc.CatalogSvcFacade) *catalogHandler {
	return &catalogHandler{
		catalogService: cs,
	}
}

// registerCatalogRoutes registers all catalog routes.
func registerCatalogRoutes(rg *gin.RouterGroup, catalogService portssvc.CatalogSvcFacade) {
	h := newCatalogHandler(catalogService)

	creditTypes := rg.Group("/credit-types")
	{
		creditTypes.POST("", h.createCreditType)
		creditTypes.GET("", h.listCreditTypes)
		creditTypes.GET("/by-method/:method", h.getCreditTypeByMethod)
		creditTypes.GET("/:creditTypeID", h.getCreditType)
		creditTypes.DELETE("/:creditTypeID", h.deactivateCreditType)
	}

	collectionTypes := rg.Group("/collection-types")
	{
		collectionTypes.POST("", h.createCollectionType)
		collectionTypes.GET("", h.listCollectionTypes)
		collectionTypes.GET("/:code", h.getCollectionTypeByCode)
	}

	businessLines := rg.Group("/business-lines")
	{
		businessLines.POST("", h.createBusinessLine)
		businessLines.GET("", h.listBusinessLines)
	}

	organisms := rg.Group("/organisms")
	{
		organisms.POST("", h.createOrganism)
		organisms.GET("", h.listOrganisms)
		organisms.GET("/:organismID", h.getOrganism)
		organisms.DELETE("/:organismID", h.deactivateOrganism)
	}
}

// createCreditType godoc
// @Summary Create a credit type
// @Tags catalog
// @Accept  json
// @Produce  json
// @Param   creditType body dto.CreateCreditTypeRequest true "Credit type details"
// @Success 201 {object} dto.CreditTypeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Credit type with this name already exists"
// @Failure 500 {object} map[string]string "Failed to create credit type"
// @Security BearerAuth
// @Router /credit-types [post]
func (h *catalogHandler) createCreditType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCreditTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create credit type request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	creditType, err := h.catalogService.CreateCreditType(c.Request.Context(), req, creatorID)
	if err != nil {
		h.respondCatalogError(c, logger, err, "Failed to create credit type")
		return
	}

	logger.Info("Credit type created", slog.String("credit_type_id", creditType.CreditTypeID), slog.String("creator_id", creatorID))
	c.JSON(http.StatusCreated, dto.ToCreditTypeResponse(creditType))
}

// listCreditTypes godoc
// @Summary List active credit types
// @Tags catalog
// @Produce  json
// @Success 200 {array} dto.CreditTypeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list credit types"
// @Security BearerAuth
// @Router /credit-types [get]
func (h *catalogHandler) listCreditTypes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	types, err := h.catalogService.ListCreditTypes(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list credit types", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list credit types"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCreditTypeResponses(types))
}

// getCreditType godoc
// @Summary Get a credit type by ID
// @Tags catalog
// @Produce  json
// @Param   creditTypeID path string true "Credit type ID"
// @Success 200 {object} dto.CreditTypeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Credit type not found"
// @Failure 500 {object} map[string]string "Failed to retrieve credit type"
// @Security BearerAuth
// @Router /credit-types/{creditTypeID} [get]
func (h *catalogHandler) getCreditType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditTypeID := c.Param("creditTypeID")

	creditType, err := h.catalogService.GetCreditTypeByID(c.Request.Context(), creditTypeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Credit type not found", slog.String("credit_type_id", creditTypeID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Credit type not found"})
		} else {
			logger.Error("Failed to get credit type", slog.String("credit_type_id", creditTypeID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve credit type"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCreditTypeResponse(creditType))
}

// getCreditTypeByMethod godoc
// @Summary Get the active credit type for a schedule method
// @Description Retrieves the credit type origination would pick for the given schedule method (FRENCH, GERMAN or PENALTY)
// @Tags catalog
// @Produce  json
// @Param   method path string true "Schedule method"
// @Success 200 {object} dto.CreditTypeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No active credit type for this method"
// @Failure 500 {object} map[string]string "Failed to retrieve credit type"
// @Security BearerAuth
// @Router /credit-types/by-method/{method} [get]
func (h *catalogHandler) getCreditTypeByMethod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	method := domain.ScheduleMethod(strings.ToUpper(c.Param("method")))

	creditType, err := h.catalogService.GetCreditTypeByMethod(c.Request.Context(), method)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("No active credit type for method", slog.String("method", string(method)))
			c.JSON(http.StatusNotFound, gin.H{"error": "No active credit type for this method"})
		} else {
			logger.Error("Failed to get credit type by method", slog.String("method", string(method)), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve credit type"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCreditTypeResponse(creditType))
}

// deactivateCreditType godoc
// @Summary Deactivate a credit type
// @Description Marks a credit type inactive; existing credits keep their schedules
// @Tags catalog
// @Produce  json
// @Param   creditTypeID path string true "Credit type ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Credit type not found or already inactive"
// @Failure 500 {object} map[string]string "Failed to deactivate credit type"
// @Security BearerAuth
// @Router /credit-types/{creditTypeID} [delete]
func (h *catalogHandler) deactivateCreditType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditTypeID := c.Param("creditTypeID")

	requestingID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Requesting operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.catalogService.DeactivateCreditType(c.Request.Context(), creditTypeID, requestingID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Credit type not found for deactivation", slog.String("credit_type_id", creditTypeID))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to deactivate credit type", slog.String("credit_type_id", creditTypeID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate credit type"})
		}
		return
	}

	logger.Info("Credit type deactivated", slog.String("credit_type_id", creditTypeID), slog.String("requesting_id", requestingID))
	c.Status(http.StatusNoContent)
}

// createCollectionType godoc
// @Summary Create a collection type
// @Tags catalog
// @Accept  json
// @Produce  json
// @Param   collectionType body dto.CreateCollectionTypeRequest true "Collection type details"
// @Success 201 {object} dto.CollectionTypeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Collection type with this code already exists"
// @Failure 500 {object} map[string]string "Failed to create collection type"
// @Security BearerAuth
// @Router /collection-types [post]
func (h *catalogHandler) createCollectionType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCollectionTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create collection type request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	collectionType, err := h.catalogService.CreateCollectionType(c.Request.Context(), req, creatorID)
	if err != nil {
		h.respondCatalogError(c, logger, err, "Failed to create collection type")
		return
	}

	logger.Info("Collection type created", slog.String("collection_type_id", collectionType.CollectionTypeID), slog.String("creator_id", creatorID))
	c.JSON(http.StatusCreated, dto.ToCollectionTypeResponse(collectionType))
}

// listCollectionTypes godoc
// @Summary List active collection types
// @Tags catalog
// @Produce  json
// @Success 200 {array} dto.CollectionTypeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list collection types"
// @Security BearerAuth
// @Router /collection-types [get]
func (h *catalogHandler) listCollectionTypes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	types, err := h.catalogService.ListCollectionTypes(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list collection types", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list collection types"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCollectionTypeResponses(types))
}

// getCollectionTypeByCode godoc
// @Summary Get a collection type by code
// @Tags catalog
// @Produce  json
// @Param   code path string true "Collection type code"
// @Success 200 {object} dto.CollectionTypeResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Collection type not found"
// @Failure 500 {object} map[string]string "Failed to retrieve collection type"
// @Security BearerAuth
// @Router /collection-types/{code} [get]
func (h *catalogHandler) getCollectionTypeByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code := c.Param("code")

	collectionType, err := h.catalogService.GetCollectionTypeByCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Collection type not found", slog.String("code", code))
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection type not found"})
		} else {
			logger.Error("Failed to get collection type", slog.String("code", code), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve collection type"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCollectionTypeResponse(collectionType))
}

// createBusinessLine godoc
// @Summary Create a business line
// @Tags catalog
// @Accept  json
// @Produce  json
// @Param   businessLine body dto.CreateBusinessLineRequest true "Business line details"
// @Success 201 {object} dto.BusinessLineResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Business line with this name already exists"
// @Failure 500 {object} map[string]string "Failed to create business line"
// @Security BearerAuth
// @Router /business-lines [post]
func (h *catalogHandler) createBusinessLine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateBusinessLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create business line request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	businessLine, err := h.catalogService.CreateBusinessLine(c.Request.Context(), req, creatorID)
	if err != nil {
		h.respondCatalogError(c, logger, err, "Failed to create business line")
		return
	}

	logger.Info("Business line created", slog.String("business_line_id", businessLine.BusinessLineID), slog.String("creator_id", creatorID))
	c.JSON(http.StatusCreated, dto.ToBusinessLineResponse(businessLine))
}

// listBusinessLines godoc
// @Summary List active business lines
// @Tags catalog
// @Produce  json
// @Success 200 {array} dto.BusinessLineResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list business lines"
// @Security BearerAuth
// @Router /business-lines [get]
func (h *catalogHandler) listBusinessLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	lines, err := h.catalogService.ListBusinessLines(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list business lines", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list business lines"})
		return
	}

	responses := make([]dto.BusinessLineResponse, len(lines))
	for i := range lines {
		responses[i] = dto.ToBusinessLineResponse(&lines[i])
	}
	c.JSON(http.StatusOK, responses)
}

// createOrganism godoc
// @Summary Create an organism
// @Description Creates a payroll deduction organism under a business line
// @Tags catalog
// @Accept  json
// @Produce  json
// @Param   organism body dto.CreateOrganismRequest true "Organism details"
// @Success 201 {object} dto.OrganismResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Organism with this name already exists"
// @Failure 500 {object} map[string]string "Failed to create organism"
// @Security BearerAuth
// @Router /organisms [post]
func (h *catalogHandler) createOrganism(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOrganismRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create organism request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	organism, err := h.catalogService.CreateOrganism(c.Request.Context(), req, creatorID)
	if err != nil {
		h.respondCatalogError(c, logger, err, "Failed to create organism")
		return
	}

	logger.Info("Organism created", slog.String("organism_id", organism.OrganismID), slog.String("creator_id", creatorID))
	c.JSON(http.StatusCreated, dto.ToOrganismResponse(organism))
}

// listOrganisms godoc
// @Summary List active organisms
// @Tags catalog
// @Produce  json
// @Success 200 {array} dto.OrganismResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list organisms"
// @Security BearerAuth
// @Router /organisms [get]
func (h *catalogHandler) listOrganisms(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	organisms, err := h.catalogService.ListOrganisms(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list organisms", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list organisms"})
		return
	}

	responses := make([]dto.OrganismResponse, len(organisms))
	for i := range organisms {
		responses[i] = dto.ToOrganismResponse(&organisms[i])
	}
	c.JSON(http.StatusOK, responses)
}

// getOrganism godoc
// @Summary Get an organism by ID
// @Tags catalog
// @Produce  json
// @Param   organismID path string true "Organism ID"
// @Success 200 {object} dto.OrganismResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Organism not found"
// @Failure 500 {object} map[string]string "Failed to retrieve organism"
// @Security BearerAuth
// @Router /organisms/{organismID} [get]
func (h *catalogHandler) getOrganism(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organismID := c.Param("organismID")

	organism, err := h.catalogService.GetOrganismByID(c.Request.Context(), organismID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Organism not found", slog.String("organism_id", organismID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Organism not found"})
		} else {
			logger.Error("Failed to get organism", slog.String("organism_id", organismID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve organism"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganismResponse(organism))
}

// deactivateOrganism godoc
// @Summary Deactivate an organism
// @Tags catalog
// @Produce  json
// @Param   organismID path string true "Organism ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Organism not found or already inactive"
// @Failure 500 {object} map[string]string "Failed to deactivate organism"
// @Security BearerAuth
// @Router /organisms/{organismID} [delete]
func (h *catalogHandler) deactivateOrganism(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organismID := c.Param("organismID")

	requestingID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Requesting operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.catalogService.DeactivateOrganism(c.Request.Context(), organismID, requestingID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Organism not found for deactivation", slog.String("organism_id", organismID))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to deactivate organism", slog.String("organism_id", organismID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate organism"})
		}
		return
	}

	logger.Info("Organism deactivated", slog.String("organism_id", organismID), slog.String("requesting_id", requestingID))
	c.Status(http.StatusNoContent)
}

// respondCatalogError maps catalog write errors onto HTTP statuses.
func (h *catalogHandler) respondCatalogError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Catalog request rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate catalog entry", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Referenced entity not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
