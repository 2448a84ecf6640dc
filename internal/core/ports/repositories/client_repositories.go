package repositories

import (
	"context"

	"github.com/credisur/creditledger/internal/core/domain"
)

// ClientReader defines read operations for clients
type ClientReader interface {
	// FindClientByID retrieves a client by its ID
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)
	// FindClientByCUIL retrieves a client by its normalized CUIL
	FindClientByCUIL(ctx context.Context, cuil string) (*domain.Client, error)
	// ListClients retrieves a paginated list of clients
	ListClients(ctx context.Context, limit int, nextToken *string) ([]domain.Client, *string, error)
}

// ClientWriter defines write operations for clients
type ClientWriter interface {
	// SaveClient persists a new client
	SaveClient(ctx context.Context, client domain.Client) error
	// UpdateClient persists changes to an existing client
	UpdateClient(ctx context.Context, client domain.Client) error
	// DeactivateClient marks a client inactive, stamps the status date, and
	// archives its child records in the same transaction
	DeactivateClient(ctx context.Context, clientID string, updatedBy string) error
}

// ClientChildReader defines read operations for client child records
type ClientChildReader interface {
	// FindPhonesByClientID retrieves a client's unarchived phones
	FindPhonesByClientID(ctx context.Context, clientID string) ([]domain.ClientPhone, error)
	// FindAddressesByClientID retrieves a client's unarchived addresses
	FindAddressesByClientID(ctx context.Context, clientID string) ([]domain.ClientAddress, error)
	// FindEmploymentByClientID retrieves a client's unarchived employment records
	FindEmploymentByClientID(ctx context.Context, clientID string) ([]domain.EmploymentRecord, error)
}

// ClientChildWriter defines write operations for client child records
type ClientChildWriter interface {
	// SavePhone persists a new client phone
	SavePhone(ctx context.Context, phone domain.ClientPhone) error
	// ArchivePhone marks a client phone archived
	ArchivePhone(ctx context.Context, phoneID string, updatedBy string) error
	// SaveAddress persists a new client address
	SaveAddress(ctx context.Context, address domain.ClientAddress) error
	// ArchiveAddress marks a client address archived
	ArchiveAddress(ctx context.Context, addressID string, updatedBy string) error
	// SaveEmployment persists a new employment record
	SaveEmployment(ctx context.Context, employment domain.EmploymentRecord) error
	// ArchiveEmployment marks an employment record archived
	ArchiveEmployment(ctx context.Context, employmentID string, updatedBy string) error
}

// ClientRepositoryFacade combines all client-related repository interfaces
// This is a facade for clients that need access to all operations
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
	ClientChildReader
	ClientChildWriter
}

// ClientRepositoryWithTx extends ClientRepositoryFacade with transaction capabilities
type ClientRepositoryWithTx interface {
	ClientRepositoryFacade
	TransactionManager
}
