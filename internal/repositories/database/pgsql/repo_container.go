package pgsql

import (
	portsrepo "github.com/credisur/creditledger/internal/core/ports/repositories"
	"github.com/credisur/creditledger/internal/platform/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool, cfg *config.Config) portsrepo.RepositoryProvider {
	creditRepo := newPgxCreditRepository(dbPool)
	collectionRepo := newPgxCollectionRepository(dbPool, cfg.SettleTolerance)
	partnerRepo := newPgxPartnerRepository(dbPool)
	clientRepo := newPgxClientRepository(dbPool)
	catalogRepo := newPgxCatalogRepository(dbPool)
	operatorRepo := newPgxOperatorRepository(dbPool)
	reconciliationRepo := newPgxReconciliationRepository(dbPool)

	return portsrepo.RepositoryProvider{
		CreditRepo:         creditRepo,
		CollectionRepo:     collectionRepo,
		PartnerRepo:        partnerRepo,
		ClientRepo:         clientRepo,
		CatalogRepo:        catalogRepo,
		OperatorRepo:       operatorRepo,
		ReconciliationRepo: reconciliationRepo,
	}
}
