package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/core/domain"
	portsrepo "github.com/credisur/creditledger/internal/core/ports/repositories"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/dto"
	"github.com/credisur/creditledger/internal/middleware"
	"github.com/credisur/creditledger/internal/utils/identity"
)

// clientService provides borrower record operations.
type clientService struct {
	clientRepo portsrepo.ClientRepositoryWithTx
}

// NewClientService creates a new ClientService.
func NewClientService(clientRepo portsrepo.ClientRepositoryWithTx) portssvc.ClientSvcFacade {
	return &clientService{clientRepo: clientRepo}
}

// Ensure clientService implements the portssvc.ClientSvcFacade interface
var _ portssvc.ClientSvcFacade = (*clientService)(nil)

// CreateClient creates a new client. Both identity numbers are normalized and
// cross-checked before anything is persisted.
// Implements portssvc.ClientSvcFacade
func (s *clientService) CreateClient(ctx context.Context, req dto.CreateClientRequest, creatorID string) (*domain.Client, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	dni, cuil, err := identity.ValidateDNICUIL(req.DNI, req.CUIL)
	if err != nil {
		return nil, err
	}

	existing, err := s.clientRepo.FindClientByCUIL(ctx, cuil)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check CUIL uniqueness: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: CUIL %s belongs to client %s", apperrors.ErrDuplicate, cuil, existing.ClientID)
	}

	now := time.Now().UTC()
	client := domain.Client{
		ClientID:   uuid.NewString(),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		DNI:        dni,
		CUIL:       cuil,
		Street:     req.Street,
		IsActive:   true,
		StatusDate: &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if req.GenderID != nil {
		client.GenderID = *req.GenderID
	}
	if req.MaritalStatusID != nil {
		client.MaritalStatusID = *req.MaritalStatusID
	}
	if req.NationalityID != nil {
		client.NationalityID = *req.NationalityID
	}
	if req.ProvinceID != nil {
		client.ProvinceID = *req.ProvinceID
	}
	if req.CityID != nil {
		client.CityID = *req.CityID
	}

	if err := s.clientRepo.SaveClient(ctx, client); err != nil {
		logger.Error("Failed to save client", slog.String("error", err.Error()), slog.String("cuil", cuil))
		return nil, fmt.Errorf("failed to save client: %w", err)
	}

	logger.Info("Client created", slog.String("client_id", client.ClientID), slog.String("cuil", client.CUIL))
	return &client, nil
}

// UpdateClient updates an existing client's mutable fields. Identity numbers
// are immutable once stored.
// Implements portssvc.ClientSvcFacade
func (s *clientService) UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, requestingID string) (*domain.Client, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client: %w", err)
	}

	if req.FirstName != nil {
		client.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		client.LastName = *req.LastName
	}
	if req.GenderID != nil {
		client.GenderID = *req.GenderID
	}
	if req.MaritalStatusID != nil {
		client.MaritalStatusID = *req.MaritalStatusID
	}
	if req.NationalityID != nil {
		client.NationalityID = *req.NationalityID
	}
	if req.ProvinceID != nil {
		client.ProvinceID = *req.ProvinceID
	}
	if req.CityID != nil {
		client.CityID = *req.CityID
	}
	if req.Street != nil {
		client.Street = *req.Street
	}
	client.LastUpdatedAt = time.Now().UTC()
	client.LastUpdatedBy = requestingID

	if err := s.clientRepo.UpdateClient(ctx, *client); err != nil {
		logger.Error("Failed to update client", slog.String("error", err.Error()), slog.String("client_id", clientID))
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	logger.Info("Client updated", slog.String("client_id", clientID))
	return client, nil
}

// DeactivateClient marks a client inactive, stamps the status date, and
// archives its phones, addresses and employment records. Existing credits
// keep collecting; only new origination is blocked.
// Implements portssvc.ClientSvcFacade
func (s *clientService) DeactivateClient(ctx context.Context, clientID string, requestingID string) error {
	if err := s.clientRepo.DeactivateClient(ctx, clientID, requestingID); err != nil {
		return fmt.Errorf("failed to deactivate client: %w", err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Client deactivated", slog.String("client_id", clientID))
	return nil
}

// GetClientByID retrieves a client by its ID.
// Implements portssvc.ClientSvcFacade
func (s *clientService) GetClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch client: %w", err)
	}
	return client, nil
}

// GetClientByCUIL retrieves a client by its CUIL, normalizing the input first.
// Implements portssvc.ClientSvcFacade
func (s *clientService) GetClientByCUIL(ctx context.Context, cuil string) (*domain.Client, error) {
	normalized, err := identity.NormalizeCUIL(cuil)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindClientByCUIL(ctx, normalized)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch client: %w", err)
	}
	return client, nil
}

// ListClients retrieves a paginated list of clients.
// Implements portssvc.ClientSvcFacade
func (s *clientService) ListClients(ctx context.Context, params dto.ListClientsParams) (*dto.ListClientsResponse, error) {
	clients, nextToken, err := s.clientRepo.ListClients(ctx, params.Limit, params.NextToken)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list clients", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return &dto.ListClientsResponse{
		Clients:   dto.ToClientResponses(clients),
		NextToken: nextToken,
	}, nil
}

// activeClient loads a client and rejects inactive ones. Child records can
// only be attached to active clients.
func (s *clientService) activeClient(ctx context.Context, clientID string) (*domain.Client, error) {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client: %w", err)
	}
	if !client.IsActive {
		return nil, fmt.Errorf("%w: client %s", ErrClientInactive, clientID)
	}
	return client, nil
}

// AddPhone attaches a phone to a client.
// Implements portssvc.ClientSvcFacade
func (s *clientService) AddPhone(ctx context.Context, clientID string, req dto.AddPhoneRequest, creatorID string) (*domain.ClientPhone, error) {
	if _, err := s.activeClient(ctx, clientID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	phone := domain.ClientPhone{
		PhoneID:  uuid.NewString(),
		ClientID: clientID,
		Number:   req.Number,
		Kind:     req.Kind,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.clientRepo.SavePhone(ctx, phone); err != nil {
		return nil, fmt.Errorf("failed to save phone: %w", err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Phone added", slog.String("client_id", clientID), slog.String("phone_id", phone.PhoneID))
	return &phone, nil
}

// ArchivePhone archives a client phone after verifying ownership.
// Implements portssvc.ClientSvcFacade
func (s *clientService) ArchivePhone(ctx context.Context, clientID string, phoneID string, requestingID string) error {
	phones, err := s.clientRepo.FindPhonesByClientID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to fetch client phones: %w", err)
	}
	if !ownsRecord(phones, phoneID, func(p domain.ClientPhone) string { return p.PhoneID }) {
		return apperrors.NewNotFoundError(fmt.Sprintf("phone %s not found for client %s", phoneID, clientID))
	}
	if err := s.clientRepo.ArchivePhone(ctx, phoneID, requestingID); err != nil {
		return fmt.Errorf("failed to archive phone: %w", err)
	}
	return nil
}

// AddAddress attaches an address to a client.
// Implements portssvc.ClientSvcFacade
func (s *clientService) AddAddress(ctx context.Context, clientID string, req dto.AddAddressRequest, creatorID string) (*domain.ClientAddress, error) {
	if _, err := s.activeClient(ctx, clientID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	address := domain.ClientAddress{
		AddressID:  uuid.NewString(),
		ClientID:   clientID,
		Street:     req.Street,
		Number:     req.Number,
		Floor:      req.Floor,
		PostalCode: req.PostalCode,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if req.CityID != nil {
		address.CityID = *req.CityID
	}
	if req.ProvinceID != nil {
		address.ProvinceID = *req.ProvinceID
	}
	if err := s.clientRepo.SaveAddress(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to save address: %w", err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Address added", slog.String("client_id", clientID), slog.String("address_id", address.AddressID))
	return &address, nil
}

// ArchiveAddress archives a client address after verifying ownership.
// Implements portssvc.ClientSvcFacade
func (s *clientService) ArchiveAddress(ctx context.Context, clientID string, addressID string, requestingID string) error {
	addresses, err := s.clientRepo.FindAddressesByClientID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to fetch client addresses: %w", err)
	}
	if !ownsRecord(addresses, addressID, func(a domain.ClientAddress) string { return a.AddressID }) {
		return apperrors.NewNotFoundError(fmt.Sprintf("address %s not found for client %s", addressID, clientID))
	}
	if err := s.clientRepo.ArchiveAddress(ctx, addressID, requestingID); err != nil {
		return fmt.Errorf("failed to archive address: %w", err)
	}
	return nil
}

// AddEmployment attaches an employment record to a client.
// Implements portssvc.ClientSvcFacade
func (s *clientService) AddEmployment(ctx context.Context, clientID string, req dto.AddEmploymentRequest, creatorID string) (*domain.EmploymentRecord, error) {
	if _, err := s.activeClient(ctx, clientID); err != nil {
		return nil, err
	}
	if req.MonthlyIncome.IsNegative() {
		return nil, fmt.Errorf("%w: monthly income must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	employment := domain.EmploymentRecord{
		EmploymentID:  uuid.NewString(),
		ClientID:      clientID,
		Employer:      req.Employer,
		Position:      req.Position,
		MonthlyIncome: req.MonthlyIncome,
		Since:         req.Since,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.clientRepo.SaveEmployment(ctx, employment); err != nil {
		return nil, fmt.Errorf("failed to save employment record: %w", err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Employment record added", slog.String("client_id", clientID), slog.String("employment_id", employment.EmploymentID))
	return &employment, nil
}

// ArchiveEmployment archives an employment record after verifying ownership.
// Implements portssvc.ClientSvcFacade
func (s *clientService) ArchiveEmployment(ctx context.Context, clientID string, employmentID string, requestingID string) error {
	records, err := s.clientRepo.FindEmploymentByClientID(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to fetch employment records: %w", err)
	}
	if !ownsRecord(records, employmentID, func(e domain.EmploymentRecord) string { return e.EmploymentID }) {
		return apperrors.NewNotFoundError(fmt.Sprintf("employment record %s not found for client %s", employmentID, clientID))
	}
	if err := s.clientRepo.ArchiveEmployment(ctx, employmentID, requestingID); err != nil {
		return fmt.Errorf("failed to archive employment record: %w", err)
	}
	return nil
}

// GetClientDetail retrieves a client with its unarchived child records.
// Implements portssvc.ClientSvcFacade
func (s *clientService) GetClientDetail(ctx context.Context, clientID string) (*dto.ClientDetailResponse, error) {
	client, err := s.GetClientByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	phones, err := s.clientRepo.FindPhonesByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client phones: %w", err)
	}
	addresses, err := s.clientRepo.FindAddressesByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client addresses: %w", err)
	}
	employment, err := s.clientRepo.FindEmploymentByClientID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employment records: %w", err)
	}

	return &dto.ClientDetailResponse{
		Client:     dto.ToClientResponse(client),
		Phones:     dto.ToPhoneResponses(phones),
		Addresses:  dto.ToAddressResponses(addresses),
		Employment: dto.ToEmploymentResponses(employment),
	}, nil
}

// ownsRecord reports whether the record with the given ID is in the slice.
func ownsRecord[T any](records []T, id string, idOf func(T) string) bool {
	for _, r := range records {
		if idOf(r) == id {
			return true
		}
	}
	return false
}
