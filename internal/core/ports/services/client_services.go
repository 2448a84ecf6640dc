package services

import (
	"context"

	"github.com/credisur/creditledger/internal/core/domain"
	"github.com/credisur/creditledger/internal/dto"
)

// ClientReaderSvc defines read operations for client data
type ClientReaderSvc interface {
	// GetClientByID retrieves a client by its ID.
	GetClientByID(ctx context.Context, clientID string) (*domain.Client, error)

	// GetClientByCUIL retrieves a client by its CUIL, normalizing the input first.
	GetClientByCUIL(ctx context.Context, cuil string) (*domain.Client, error)

	// ListClients retrieves a paginated list of clients.
	ListClients(ctx context.Context, params dto.ListClientsParams) (*dto.ListClientsResponse, error)
}

// ClientWriterSvc defines write operations for client data
type ClientWriterSvc interface {
	// CreateClient creates a new client after validating its identity numbers.
	CreateClient(ctx context.Context, req dto.CreateClientRequest, creatorID string) (*domain.Client, error)

	// UpdateClient updates an existing client.
	UpdateClient(ctx context.Context, clientID string, req dto.UpdateClientRequest, requestingID string) (*domain.Client, error)

	// DeactivateClient marks a client inactive and stamps the status date.
	DeactivateClient(ctx context.Context, clientID string, requestingID string) error
}

// ClientChildSvc defines operations on a client's dependent records
type ClientChildSvc interface {
	// AddPhone attaches a phone to a client.
	AddPhone(ctx context.Context, clientID string, req dto.AddPhoneRequest, creatorID string) (*domain.ClientPhone, error)

	// ArchivePhone archives a client phone.
	ArchivePhone(ctx context.Context, clientID string, phoneID string, requestingID string) error

	// AddAddress attaches an address to a client.
	AddAddress(ctx context.Context, clientID string, req dto.AddAddressRequest, creatorID string) (*domain.ClientAddress, error)

	// ArchiveAddress archives a client address.
	ArchiveAddress(ctx context.Context, clientID string, addressID string, requestingID string) error

	// AddEmployment attaches an employment record to a client.
	AddEmployment(ctx context.Context, clientID string, req dto.AddEmploymentRequest, creatorID string) (*domain.EmploymentRecord, error)

	// ArchiveEmployment archives an employment record.
	ArchiveEmployment(ctx context.Context, clientID string, employmentID string, requestingID string) error

	// GetClientDetail retrieves a client with its unarchived child records.
	GetClientDetail(ctx context.Context, clientID string) (*dto.ClientDetailResponse, error)
}

// ClientSvcFacade combines all client-related service interfaces
// This is a facade for clients that need access to all operations
type ClientSvcFacade interface {
	ClientReaderSvc
	ClientWriterSvc
	ClientChildSvc
}
