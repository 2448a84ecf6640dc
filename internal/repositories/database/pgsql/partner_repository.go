package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/core/domain"
	portsrepo "github.com/credisur/creditledger/internal/core/ports/repositories"
	"github.com/credisur/creditledger/internal/models"
	"github.com/credisur/creditledger/internal/utils/mapping"
	"github.com/credisur/creditledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxPartnerRepository struct {
	BaseRepository
}

// newPgxPartnerRepository creates a new repository for business partner,
// purchase and sale data.
func newPgxPartnerRepository(pool *pgxpool.Pool) portsrepo.PartnerRepositoryWithTx {
	return &PgxPartnerRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxPartnerRepository implements portsrepo.PartnerRepositoryWithTx
var _ portsrepo.PartnerRepositoryWithTx = (*PgxPartnerRepository)(nil)

var FULL_PARTNER_SELECT_QUERY = `
SELECT
	p.partner_id, p.name, p.tax_id, p.email, p.phone, p.is_active,
	p.created_at, p.created_by, p.last_updated_at, p.last_updated_by, p.version
FROM partners p
`

// getPartners runs the shared partner select with the given filter suffix.
func (r *PgxPartnerRepository) getPartners(ctx context.Context, filterQuery string, args ...any) ([]models.BusinessPartner, error) {
	query := FULL_PARTNER_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query partners", err)
	}
	defer rows.Close()

	modelPartners, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.BusinessPartner])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect partner rows", err)
	}
	return modelPartners, nil
}

// FindPartnerByID retrieves a business partner by its ID.
func (r *PgxPartnerRepository) FindPartnerByID(ctx context.Context, partnerID string) (*domain.BusinessPartner, error) {
	partners, err := r.getPartners(ctx, `WHERE p.partner_id = $1`, partnerID)
	if err != nil {
		return nil, err
	}
	if len(partners) == 0 {
		return nil, apperrors.ErrNotFound
	}
	domainPartner := mapping.ToDomainPartner(partners[0])
	return &domainPartner, nil
}

// FindPartnerByTaxID retrieves a business partner by its tax identifier.
func (r *PgxPartnerRepository) FindPartnerByTaxID(ctx context.Context, taxID string) (*domain.BusinessPartner, error) {
	partners, err := r.getPartners(ctx, `WHERE p.tax_id = $1`, taxID)
	if err != nil {
		return nil, err
	}
	if len(partners) == 0 {
		return nil, apperrors.ErrNotFound
	}
	domainPartner := mapping.ToDomainPartner(partners[0])
	return &domainPartner, nil
}

// ListPartners retrieves a paginated list of business partners, newest first,
// using token-based pagination on the creation time.
func (r *PgxPartnerRepository) ListPartners(ctx context.Context, limit int, nextToken *string) ([]domain.BusinessPartner, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	var filter string
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, decodeErr := pagination.DecodeDateBasedToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		filter = `WHERE p.created_at < $1 ORDER BY p.created_at DESC`
		args = append(args, lastCreatedAt)
	} else {
		filter = `ORDER BY p.created_at DESC`
	}
	filter += ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	modelPartners, err := r.getPartners(ctx, filter, args...)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	results := modelPartners
	if len(modelPartners) > limit {
		lastPartner := modelPartners[limit-1]
		token := pagination.EncodeDateBasedToken(lastPartner.CreatedAt)
		nextTokenVal = &token
		results = modelPartners[:limit]
	}

	return mapping.ToDomainPartnerSlice(results), nextTokenVal, nil
}

// SavePartner persists a new business partner.
func (r *PgxPartnerRepository) SavePartner(ctx context.Context, partner domain.BusinessPartner) error {
	m := mapping.ToModelPartner(partner)
	query := `
		INSERT INTO partners (partner_id, name, tax_id, email, phone, is_active, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PartnerID, m.Name, m.TaxID, m.Email, m.Phone, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, 1,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewDuplicateError("partner with tax ID " + m.TaxID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save partner "+m.PartnerID, err)
	}
	return nil
}

// UpdatePartner persists changes to an existing business partner.
func (r *PgxPartnerRepository) UpdatePartner(ctx context.Context, partner domain.BusinessPartner) error {
	m := mapping.ToModelPartner(partner)
	query := `
		UPDATE partners
		SET name = $2, tax_id = $3, email = $4, phone = $5, is_active = $6,
		    last_updated_at = $7, last_updated_by = $8, version = version + 1
		WHERE partner_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.PartnerID, m.Name, m.TaxID, m.Email, m.Phone, m.IsActive,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewDuplicateError("partner with tax ID " + m.TaxID + " already exists")
		}
		return apperrors.NewAppError(500, "failed to update partner "+m.PartnerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("partner " + m.PartnerID + " not found for update")
	}
	return nil
}

// DeactivatePartner marks a business partner inactive.
func (r *PgxPartnerRepository) DeactivatePartner(ctx context.Context, partnerID string, updatedBy string) error {
	query := `
		UPDATE partners
		SET is_active = FALSE, last_updated_at = NOW(), last_updated_by = $2, version = version + 1
		WHERE partner_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, partnerID, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate partner "+partnerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("partner " + partnerID + " not found or already inactive")
	}
	return nil
}

// FindPurchaseByID retrieves a purchase by its ID.
func (r *PgxPartnerRepository) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	query := `
		SELECT purchase_id, partner_id, annual_rate, date, has_resource, has_vat,
		       created_at, created_by, last_updated_at, last_updated_by, version
		FROM purchases
		WHERE purchase_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query purchase "+purchaseID, err)
	}
	defer rows.Close()

	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Purchase])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to collect purchase row "+purchaseID, err)
	}
	domainPurchase := mapping.ToDomainPurchase(m)
	return &domainPurchase, nil
}

// FindPurchasesByPartnerID retrieves a partner's purchases, newest first.
func (r *PgxPartnerRepository) FindPurchasesByPartnerID(ctx context.Context, partnerID string) ([]domain.Purchase, error) {
	query := `
		SELECT purchase_id, partner_id, annual_rate, date, has_resource, has_vat,
		       created_at, created_by, last_updated_at, last_updated_by, version
		FROM purchases
		WHERE partner_id = $1
		ORDER BY date DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, partnerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query purchases for partner "+partnerID, err)
	}
	defer rows.Close()

	modelPurchases, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Purchase])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect purchase rows for partner "+partnerID, err)
	}

	domainPurchases := make([]domain.Purchase, len(modelPurchases))
	for i, m := range modelPurchases {
		domainPurchases[i] = mapping.ToDomainPurchase(m)
	}
	return domainPurchases, nil
}

// SavePurchase persists a purchase, links the purchased credits to it and,
// when newOwnerID is set, reassigns their unsettled installments to that
// partner, all in one transaction.
func (r *PgxPartnerRepository) SavePurchase(ctx context.Context, purchase domain.Purchase, creditIDs []string, newOwnerID *string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	m := mapping.ToModelPurchase(purchase)
	insertQuery := `
		INSERT INTO purchases (purchase_id, partner_id, annual_rate, date, has_resource, has_vat, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.PurchaseID, m.PartnerID, m.AnnualRate, m.Date, m.HasResource, m.HasVAT,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, 1,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert purchase "+m.PurchaseID, err)
	}

	// The credit keeps only its latest purchase link.
	linkQuery := `
		UPDATE credits
		SET purchase_id = $1, last_updated_at = $3, last_updated_by = $4, version = version + 1
		WHERE credit_id = ANY($2);
	`
	cmdTag, err := tx.Exec(ctx, linkQuery, m.PurchaseID, creditIDs, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to link credits to purchase "+m.PurchaseID, err)
	}
	if int(cmdTag.RowsAffected()) != len(creditIDs) {
		return apperrors.NewNotFoundError("one or more credits of purchase " + m.PurchaseID + " not found")
	}

	if newOwnerID != nil {
		if err := reassignUnsettledInstallments(ctx, tx, creditIDs, *newOwnerID, m.LastUpdatedAt, m.LastUpdatedBy); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// FindSaleByID retrieves a sale by its ID.
func (r *PgxPartnerRepository) FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	query := `
		SELECT sale_id, partner_id, annual_rate, date, has_resource, has_vat,
		       created_at, created_by, last_updated_at, last_updated_by, version
		FROM sales
		WHERE sale_id = $1;
	`
	rows, err := r.Pool.Query(ctx, query, saleID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query sale "+saleID, err)
	}
	defer rows.Close()

	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Sale])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to collect sale row "+saleID, err)
	}
	domainSale := mapping.ToDomainSale(m)
	return &domainSale, nil
}

// FindSalesByPartnerID retrieves a partner's sales, newest first.
func (r *PgxPartnerRepository) FindSalesByPartnerID(ctx context.Context, partnerID string) ([]domain.Sale, error) {
	query := `
		SELECT sale_id, partner_id, annual_rate, date, has_resource, has_vat,
		       created_at, created_by, last_updated_at, last_updated_by, version
		FROM sales
		WHERE partner_id = $1
		ORDER BY date DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, partnerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query sales for partner "+partnerID, err)
	}
	defer rows.Close()

	modelSales, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Sale])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect sale rows for partner "+partnerID, err)
	}

	domainSales := make([]domain.Sale, len(modelSales))
	for i, m := range modelSales {
		domainSales[i] = mapping.ToDomainSale(m)
	}
	return domainSales, nil
}

// SaveSale persists a sale, links the sold credits to it, and reassigns their
// unsettled installments to the buying partner, all in one transaction.
// Settled installments keep their owner: proceeds already collected belong to
// whoever owned them at collection time.
func (r *PgxPartnerRepository) SaveSale(ctx context.Context, sale domain.Sale, creditIDs []string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelSale(sale)
	insertQuery := `
		INSERT INTO sales (sale_id, partner_id, annual_rate, date, has_resource, has_vat, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.SaleID, m.PartnerID, m.AnnualRate, m.Date, m.HasResource, m.HasVAT,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, 1,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert sale "+m.SaleID, err)
	}

	linkQuery := `
		UPDATE credits
		SET sale_id = $1, last_updated_at = $3, last_updated_by = $4, version = version + 1
		WHERE credit_id = ANY($2);
	`
	cmdTag, err := tx.Exec(ctx, linkQuery, m.SaleID, creditIDs, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to link credits to sale "+m.SaleID, err)
	}
	if int(cmdTag.RowsAffected()) != len(creditIDs) {
		return apperrors.NewNotFoundError("one or more credits of sale " + m.SaleID + " not found")
	}

	if err := reassignUnsettledInstallments(ctx, tx, creditIDs, m.PartnerID, m.LastUpdatedAt, m.LastUpdatedBy); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// reassignUnsettledInstallments moves ownership of every unsettled installment
// of the given credits to the new owner.
func reassignUnsettledInstallments(ctx context.Context, tx pgx.Tx, creditIDs []string, newOwnerID string, updatedAt time.Time, updatedBy string) error {
	query := `
		UPDATE installments
		SET owner_id = $1, last_updated_at = $3, last_updated_by = $4, version = version + 1
		WHERE credit_id = ANY($2) AND settlement_date IS NULL;
	`
	if _, err := tx.Exec(ctx, query, newOwnerID, creditIDs, updatedAt, updatedBy); err != nil {
		return apperrors.NewAppError(500, "failed to reassign installment ownership", err)
	}
	return nil
}
