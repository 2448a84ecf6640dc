package services

import (
	"github.com/credisur/creditledger/internal/core/ports/events"
	portsrepo "github.com/credisur/creditledger/internal/core/ports/repositories"
	portssvc "github.com/credisur/creditledger/internal/core/ports/services"
	"github.com/credisur/creditledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher events.Publisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Catalog and client services first since credit origination depends on both
	container.Catalog = NewCatalogService(repos.CatalogRepo)
	container.Client = NewClientService(repos.ClientRepo)

	container.Credit = NewCreditService(cfg, repos.CreditRepo, repos.CollectionRepo, container.Catalog, container.Client, publisher)
	container.Collection = NewCollectionService(cfg, repos.CollectionRepo, repos.CreditRepo, container.Catalog, publisher)
	container.Reconciliation = NewReconciliationService(cfg, repos.ReconciliationRepo, repos.CreditRepo, publisher)
	container.Partner = NewPartnerService(cfg, repos.PartnerRepo, repos.CreditRepo)

	container.Operator = NewOperatorService(repos.OperatorRepo)

	// Initialize TokenService
	container.Token = NewTokenService(cfg, container.Operator)

	// Initialize GoogleOAuthHandlerSvcFacade
	container.GoogleOAuth = NewGoogleOAuthHandlerService(cfg)

	return container
}
