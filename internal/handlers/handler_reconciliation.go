package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/credisur/creditledger/internal/apperrors"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/middleware"

	"github.com/gin-gonic/gin"
)

// reconciliationHandler exposes the read-only invariant checks.
type reconciliationHandler struct {
	reconciliationService portssvc.ReconciliationSvcFacade
}

func newReconciliationHandler(rs portssvc.ReconciliationSvcFacade) *reconciliationHandler {
	return &reconciliationHandler{reconciliationService: rs}
}

// registerReconciliationRoutes registers the reconciliation routes.
func registerReconciliationRoutes(rg *gin.RouterGroup, reconciliationService portssvc.ReconciliationSvcFacade) {
	h := newReconciliationHandler(reconciliationService)

	recon := rg.Group("/reconciliation")
	{
		recon.GET("/credits/:creditID", h.checkCredit)
		recon.POST("/run", h.runAll)
	}
}

// checkCredit godoc
// @Summary Reconcile a single credit
// @Description Recomputes the credit's arithmetic invariants against its stored schedule and collections
// @Tags reconciliation
// @Produce json
// @Param creditID path string true "Credit ID"
// @Success 200 {object} domain.ReconciliationReport
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Credit not found"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /reconciliation/credits/{creditID} [get]
func (h *reconciliationHandler) checkCredit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	creditID := c.Param("creditID")

	operatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	logger = logger.With(slog.String("credit_id", creditID), slog.String("operator_id", operatorID))

	report, err := h.reconciliationService.CheckCredit(c.Request.Context(), creditID)
	if err != nil {
		logger.Error("Failed to reconcile credit", slog.String("error", err.Error()))
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Credit not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reconcile credit"})
		return
	}

	if !report.Passed {
		logger.Warn("Credit failed reconciliation", slog.Int("violations", len(report.Violations)))
	}
	c.JSON(http.StatusOK, report)
}

// runAll godoc
// @Summary Reconcile every active credit
// @Description Runs the invariant checks over all active credits and reports the failures
// @Tags reconciliation
// @Produce json
// @Success 200 {object} domain.ReconciliationRun
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /reconciliation/run [post]
func (h *reconciliationHandler) runAll(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	operatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	logger = logger.With(slog.String("operator_id", operatorID))

	run, err := h.reconciliationService.CheckAllCredits(c.Request.Context())
	if err != nil {
		logger.Error("Reconciliation run failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation run failed"})
		return
	}

	logger.Info("Reconciliation run finished",
		slog.Int("credits_checked", run.CreditsChecked),
		slog.Int("failed", len(run.Failed)))
	c.JSON(http.StatusOK, run)
}
