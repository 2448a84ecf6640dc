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

// clientHandler handles HTTP requests related to clients and their child
// records. Credit and payment routes nested under a client delegate to the
// credit and collection services.
type clientHandler struct {
	clientService     portssvc.ClientSvcFacade
	creditService     portssvc.CreditReaderSvc
	collectionService portssvc.CollectionSvcFacade
}

// newClientHandler creates a new clientHandler.
func newClientHandler(cs portssvc.ClientSvcFacade, credit portssvc.CreditReaderSvc, col portssvc.CollectionSvcFacade) *clientHandler {
	return &clientHandler{
		clientService:     cs,
		creditService:     credit,
		collectionService: col,
	}
}

// registerClientRoutes registers all client-related routes.
func registerClientRoutes(rg *gin.RouterGroup, clientService portssvc.ClientSvcFacade, creditService portssvc.CreditSvcFacade, collectionService portssvc.CollectionSvcFacade) {
	h := newClientHandler(clientService, creditService, collectionService)

	clients := rg.Group("/clients")
	{
		clients.POST("", h.createClient)
		clients.GET("", h.listClients)
		clients.GET("/by-cuil/:cuil", h.getClientByCUIL)
		clients.GET("/:clientID", h.getClient)
		clients.PUT("/:clientID", h.updateClient)
		clients.DELETE("/:clientID", h.deactivateClient)

		clients.POST("/:clientID/phones", h.addPhone)
		clients.DELETE("/:clientID/phones/:phoneID", h.archivePhone)
		clients.POST("/:clientID/addresses", h.addAddress)
		clients.DELETE("/:clientID/addresses/:addressID", h.archiveAddress)
		clients.POST("/:clientID/employments", h.addEmployment)
		clients.DELETE("/:clientID/employments/:employmentID", h.archiveEmployment)

		clients.GET("/:clientID/credits", h.listClientCredits)
		clients.POST("/:clientID/collections", h.allocateForClient)
	}
}

// createClient godoc
// @Summary Create a new client
// @Description Creates a new client after validating its identity numbers
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   client body dto.CreateClientRequest true "Client details"
// @Success 201 {object} dto.ClientResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Client with this CUIL already exists"
// @Failure 500 {object} map[string]string "Failed to create client"
// @Security BearerAuth
// @Router /clients [post]
func (h *clientHandler) createClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for create client request", slog.String("error", err.Error()))
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
	logger.Info("Received request to create client", slog.String("name", req.FirstName+" "+req.LastName))

	client, err := h.clientService.CreateClient(c.Request.Context(), req, creatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Client creation rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Duplicate client", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create client", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		}
		return
	}

	logger.Info("Client created successfully", slog.String("client_id", client.ClientID))
	c.JSON(http.StatusCreated, dto.ToClientResponse(client))
}

// listClients godoc
// @Summary List clients
// @Description Retrieves a paginated list of clients
// @Tags clients
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Token for the next page"
// @Success 200 {object} dto.ListClientsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list clients"
// @Security BearerAuth
// @Router /clients [get]
func (h *clientHandler) listClients(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListClientsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for list clients", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.clientService.ListClients(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid pagination token for list clients", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list clients", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list clients"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getClientByCUIL godoc
// @Summary Get a client by CUIL
// @Description Retrieves a client by its CUIL; the input is normalized before lookup
// @Tags clients
// @Produce  json
// @Param   cuil path string true "Client CUIL"
// @Success 200 {object} dto.ClientResponse
// @Failure 400 {object} map[string]string "Malformed CUIL"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 500 {object} map[string]string "Failed to retrieve client"
// @Security BearerAuth
// @Router /clients/by-cuil/{cuil} [get]
func (h *clientHandler) getClientByCUIL(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	cuil := c.Param("cuil")

	client, err := h.clientService.GetClientByCUIL(c.Request.Context(), cuil)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Malformed CUIL in lookup", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Client not found by CUIL")
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		default:
			logger.Error("Failed to get client by CUIL", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve client"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// getClient godoc
// @Summary Get a client with its child records
// @Description Retrieves a client together with its unarchived phones, addresses and employment records
// @Tags clients
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Success 200 {object} dto.ClientDetailResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 500 {object} map[string]string "Failed to retrieve client"
// @Security BearerAuth
// @Router /clients/{clientID} [get]
func (h *clientHandler) getClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("clientID")

	detail, err := h.clientService.GetClientDetail(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Client not found", slog.String("client_id", clientID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		} else {
			logger.Error("Failed to get client", slog.String("client_id", clientID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve client"})
		}
		return
	}

	c.JSON(http.StatusOK, detail)
}

// updateClient godoc
// @Summary Update a client
// @Description Updates a client's mutable fields; omitted fields are left unchanged
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   client body dto.UpdateClientRequest true "Fields to update"
// @Success 200 {object} dto.ClientResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 500 {object} map[string]string "Failed to update client"
// @Security BearerAuth
// @Router /clients/{clientID} [put]
func (h *clientHandler) updateClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("clientID")

	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for update client request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	requestingID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Requesting operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("client_id", clientID), slog.String("requesting_id", requestingID))
	logger.Info("Received request to update client")

	client, err := h.clientService.UpdateClient(c.Request.Context(), clientID, req, requestingID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Client not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Client update rejected", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update client", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		}
		return
	}

	logger.Info("Client updated successfully")
	c.JSON(http.StatusOK, dto.ToClientResponse(client))
}

// deactivateClient godoc
// @Summary Deactivate a client
// @Description Marks a client inactive and stamps the status date
// @Tags clients
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Client not found or already inactive"
// @Failure 500 {object} map[string]string "Failed to deactivate client"
// @Security BearerAuth
// @Router /clients/{clientID} [delete]
func (h *clientHandler) deactivateClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("clientID")

	requestingID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Requesting operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("client_id", clientID), slog.String("requesting_id", requestingID))
	logger.Info("Received request to deactivate client")

	if err := h.clientService.DeactivateClient(c.Request.Context(), clientID, requestingID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Client not found for deactivation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		} else {
			logger.Error("Failed to deactivate client", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate client"})
		}
		return
	}

	logger.Info("Client deactivated successfully")
	c.Status(http.StatusNoContent)
}

// addPhone godoc
// @Summary Add a phone to a client
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   phone body dto.AddPhoneRequest true "Phone details"
// @Success 201 {object} dto.PhoneResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 500 {object} map[string]string "Failed to add phone"
// @Security BearerAuth
// @Router /clients/{clientID}/phones [post]
func (h *clientHandler) addPhone(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("clientID")

	var req dto.AddPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for add phone request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	phone, err := h.clientService.AddPhone(c.Request.Context(), clientID, req, creatorID)
	if err != nil {
		h.respondClientChildError(c, logger, err, "Failed to add phone")
		return
	}

	logger.Info("Phone added to client", slog.String("client_id", clientID), slog.String("phone_id", phone.PhoneID))
	c.JSON(http.StatusCreated, dto.ToPhoneResponse(phone))
}

// archivePhone godoc
// @Summary Archive a client phone
// @Tags clients
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   phoneID path string true "Phone ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Phone not found"
// @Failure 500 {object} map[string]string "Failed to archive phone"
// @Security BearerAuth
// @Router /clients/{clientID}/phones/{phoneID} [delete]
func (h *clientHandler) archivePhone(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("clientID")
	phoneID := c.Param("phoneID")

	requestingID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Requesting operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.clientService.ArchivePhone(c.Request.Context(), clientID, phoneID, requestingID); err != nil {
		h.respondClientChildError(c, logger, err, "Failed to archive phone")
		return
	}

	logger.Info("Phone archived", slog.String("client_id", clientID), slog.String("phone_id", phoneID))
	c.Status(http.StatusNoContent)
}

// addAddress godoc
// @Summary Add an address to a client
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   address body dto.AddAddressRequest true "Address details"
// @Success 201 {object} dto.AddressResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 500 {object} map[string]string "Failed to add address"
// @Security BearerAuth
// @Router /clients/{clientID}/addresses [post]
func (h *clientHandler) addAddress(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("clientID")

	var req dto.AddAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for add address request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	address, err := h.clientService.AddAddress(c.Request.Context(), clientID, req, creatorID)
	if err != nil {
		h.respondClientChildError(c, logger, err, "Failed to add address")
		return
	}

	logger.Info("Address added to client", slog.String("client_id", clientID), slog.String("address_id", address.AddressID))
	c.JSON(http.StatusCreated, dto.ToAddressResponse(address))
}

// archiveAddress godoc
// @Summary Archive a client address
// @Tags clients
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   addressID path string true "Address ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Address not found"
// @Failure 500 {object} map[string]string "Failed to archive address"
// @Security BearerAuth
// @Router /clients/{clientID}/addresses/{addressID} [delete]
func (h *clientHandler) archiveAddress(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("clientID")
	addressID := c.Param("addressID")

	requestingID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Requesting operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.clientService.ArchiveAddress(c.Request.Context(), clientID, addressID, requestingID); err != nil {
		h.respondClientChildError(c, logger, err, "Failed to archive address")
		return
	}

	logger.Info("Address archived", slog.String("client_id", clientID), slog.String("address_id", addressID))
	c.Status(http.StatusNoContent)
}

// addEmployment godoc
// @Summary Add an employment record to a client
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   employment body dto.AddEmploymentRequest true "Employment details"
// @Success 201 {object} dto.EmploymentResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 500 {object} map[string]string "Failed to add employment record"
// @Security BearerAuth
// @Router /clients/{clientID}/employments [post]
func (h *clientHandler) addEmployment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("clientID")

	var req dto.AddEmploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for add employment request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	employment, err := h.clientService.AddEmployment(c.Request.Context(), clientID, req, creatorID)
	if err != nil {
		h.respondClientChildError(c, logger, err, "Failed to add employment record")
		return
	}

	logger.Info("Employment record added to client", slog.String("client_id", clientID), slog.String("employment_id", employment.EmploymentID))
	c.JSON(http.StatusCreated, dto.ToEmploymentResponse(employment))
}

// archiveEmployment godoc
// @Summary Archive a client employment record
// @Tags clients
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   employmentID path string true "Employment record ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Employment record not found"
// @Failure 500 {object} map[string]string "Failed to archive employment record"
// @Security BearerAuth
// @Router /clients/{clientID}/employments/{employmentID} [delete]
func (h *clientHandler) archiveEmployment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("clientID")
	employmentID := c.Param("employmentID")

	requestingID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Requesting operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.clientService.ArchiveEmployment(c.Request.Context(), clientID, employmentID, requestingID); err != nil {
		h.respondClientChildError(c, logger, err, "Failed to archive employment record")
		return
	}

	logger.Info("Employment record archived", slog.String("client_id", clientID), slog.String("employment_id", employmentID))
	c.Status(http.StatusNoContent)
}

// listClientCredits godoc
// @Summary List a client's credits
// @Description Retrieves every credit of a client regardless of status
// @Tags clients
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Success 200 {array} dto.CreditResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 500 {object} map[string]string "Failed to list credits"
// @Security BearerAuth
// @Router /clients/{clientID}/credits [get]
func (h *clientHandler) listClientCredits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("clientID")

	credits, err := h.creditService.ListCreditsByClient(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Client not found for credit listing", slog.String("client_id", clientID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		} else {
			logger.Error("Failed to list client credits", slog.String("client_id", clientID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list credits"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCreditResponses(credits))
}

// allocateForClient godoc
// @Summary Allocate a payment across a client's credits
// @Description Spreads a payment across all of the client's active credits, earliest outstanding due date first, and returns any unapplied remainder
// @Tags clients
// @Accept  json
// @Produce  json
// @Param   clientID path string true "Client ID"
// @Param   payment body dto.AllocatePaymentRequest true "Payment details"
// @Success 201 {object} dto.ClientAllocationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 409 {object} map[string]string "Client has no active credits"
// @Failure 500 {object} map[string]string "Failed to allocate payment"
// @Security BearerAuth
// @Router /clients/{clientID}/collections [post]
func (h *clientHandler) allocateForClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	clientID := c.Param("clientID")

	var req dto.AllocatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for client allocation request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorID, ok := middleware.GetOperatorIDFromContext(c)
	if !ok {
		logger.Error("Creator operator ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("client_id", clientID), slog.String("creator_id", creatorID))
	logger.Info("Received request to allocate payment for client", slog.String("amount", req.Amount.String()))

	result, err := h.collectionService.AllocateForClient(c.Request.Context(), clientID, req, creatorID)
	if err != nil {
		respondCollectionError(c, logger, err, "Failed to allocate payment")
		return
	}

	logger.Info("Client payment allocated successfully",
		slog.Int("credits", len(result.Results)),
		slog.String("remainder", result.Remainder.String()))
	c.JSON(http.StatusCreated, dto.ToClientAllocationResponse(result))
}

// respondClientChildError maps child-record service errors onto HTTP statuses.
func (h *clientHandler) respondClientChildError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Record not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Request rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
