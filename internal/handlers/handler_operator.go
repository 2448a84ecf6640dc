package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/credisur/creditledger/internal/apperrors"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/dto"
	"github.com/credisur/creditledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

// operatorHandler handles HTTP requests related to back-office operators.
type operatorHandler struct {
	operatorService portssvc.OperatorSvcFacade
}

// newOperatorHandler creates a new operatorHandler.
func newOperatorHandler(os portssvc.OperatorSvcFacade) *operatorHandler {
	return &operatorHandler{
		operatorService: os,
	}
}

// registerOperatorRoutes registers all operator-related routes.
func registerOperatorRoutes(rg *gin.RouterGroup, operatorService portssvc.OperatorSvcFacade) {
	h := newOperatorHandler(operatorService)

	operators := rg.Group("/operators")
	{
		operators.GET("", h.listOperators)
		operators.POST("", h.createOperator)
		operators.GET("/:operatorID", h.getOperator)
		operators.PUT("/:operatorID", h.updateOperator)
		operators.DELETE("/:operatorID", h.deleteOperator)
	}
}

// createOperator godoc
// @Summary Create a new operator
// @Description Creates an operator account for a colleague
// @Tags operators
// @Accept  json
// @Produce  json
// @Param   operator body dto.CreateOperatorRequest true "Operator details"
// @Success 201 {object} dto.OperatorResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Username already taken"
// @Failure 500 {object} map[string]string "Failed to create operator"
// @Security BearerAuth
// @Router /operators [post]
func (h *operatorHandler) createOperator(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create operator request", slog.String("error", err.Error()))
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
	logger.Info("Received request to create operator", slog.String("username", req.Username))

	operator, err := h.operatorService.CreateOperator(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Username already taken", slog.String("username", req.Username))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create operator", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create operator"})
		}
		return
	}

	logger.Info("Operator created successfully", slog.String("new_operator_id", operator.OperatorID))
	c.JSON(http.StatusCreated, dto.ToOperatorResponse(operator))
}

// getOperator godoc
// @Summary Get an operator by ID
// @Tags operators
// @Produce  json
// @Param   operatorID path string true "Operator ID"
// @Success 200 {object} dto.OperatorResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Operator not found"
// @Failure 500 {object} map[string]string "Failed to retrieve operator"
// @Security BearerAuth
// @Router /operators/{operatorID} [get]
func (h *operatorHandler) getOperator(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	operatorID := c.Param("operatorID")

	operator, err := h.operatorService.GetOperatorByID(c.Request.Context(), operatorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Operator not found", slog.String("operator_id", operatorID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Operator not found"})
		} else {
			logger.Error("Failed to get operator", slog.String("operator_id", operatorID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve operator"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToOperatorResponse(operator))
}

// listOperators godoc
// @Summary List operators
// @Tags operators
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListOperatorsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list operators"
// @Security BearerAuth
// @Router /operators [get]
func (h *operatorHandler) listOperators(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListOperatorsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for list operators", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	operators, err := h.operatorService.ListOperators(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		logger.Error("Failed to list operators", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list operators"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListOperatorsResponse(operators))
}

// updateOperator godoc
// @Summary Update an operator
// @Description Updates an operator's name or email; operators can only update their own account
// @Tags operators
// @Accept  json
// @Produce  json
// @Param   operatorID path string true "Operator ID to update"
// @Param   operator body dto.UpdateOperatorRequest true "Fields to update"
// @Success 200 {object} dto.OperatorResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Operator not found"
// @Failure 500 {object} map[string]string "Failed to update operator"
// @Security BearerAuth
// @Router /operators/{operatorID} [put]
func (h *operatorHandler) updateOperator(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	operatorID := c.Param("operatorID")

	var req dto.UpdateOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update operator request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Requesting operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	// No role system; operators only manage their own account.
	if requestingID != operatorID {
		logger.Warn("Operator forbidden to update another operator", slog.String("requesting_id", requestingID), slog.String("target_id", operatorID))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	operator, err := h.operatorService.UpdateOperator(c.Request.Context(), operatorID, req, requestingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Operator not found for update", slog.String("operator_id", operatorID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Operator not found"})
		} else {
			logger.Error("Failed to update operator", slog.String("operator_id", operatorID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update operator"})
		}
		return
	}

	logger.Info("Operator updated successfully", slog.String("operator_id", operatorID))
	c.JSON(http.StatusOK, dto.ToOperatorResponse(operator))
}

// deleteOperator godoc
// @Summary Delete an operator
// @Description Marks an operator as deleted (soft delete) and revokes their refresh token
// @Tags operators
// @Produce  json
// @Param   operatorID path string true "Operator ID to delete"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Operator not found"
// @Failure 500 {object} map[string]string "Failed to delete operator"
// @Security BearerAuth
// @Router /operators/{operatorID} [delete]
func (h *operatorHandler) deleteOperator(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	operatorID := c.Param("operatorID")

	requestingID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Requesting operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("target_operator_id", operatorID), slog.String("requesting_id", requestingID))
	logger.Info("Received request to delete operator")

	if err := h.operatorService.DeleteOperator(c.Request.Context(), operatorID, requestingID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Operator not found for deletion")
			c.JSON(http.StatusNotFound, gin.H{"error": "Operator not found"})
		} else {
			logger.Error("Failed to delete operator", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete operator"})
		}
		return
	}

	logger.Info("Operator deleted successfully")
	c.Status(http.StatusNoContent)
}
