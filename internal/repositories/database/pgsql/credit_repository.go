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

type PgxCreditRepository struct {
	BaseRepository
}

// newPgxCreditRepository creates a new repository for credit and installment data.
func newPgxCreditRepository(pool *pgxpool.Pool) portsrepo.CreditRepositoryWithTx {
	return &PgxCreditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCreditRepository implements portsrepo.CreditRepositoryWithTx
var _ portsrepo.CreditRepositoryWithTx = (*PgxCreditRepository)(nil)

var FULL_CREDIT_SELECT_QUERY = `
SELECT
	c.credit_id, c.origin_ref, c.client_id, c.credit_type_id, c.organism_id, c.purchase_id,
	c.sale_id, c.origin_credit_id, c.disbursement_date, c.first_due_date, c.amount_disbursed,
	c.capital, c.annual_rate, c.term, c.status,
	c.created_at, c.created_by, c.last_updated_at, c.last_updated_by, c.version
FROM credits c
`

var FULL_INSTALLMENT_SELECT_QUERY = `
SELECT
	i.installment_id, i.credit_id, i.inst_num, i.due_date, i.owner_id,
	i.capital, i.interest, i.tax, i.total, i.collected_total, i.settlement_date,
	i.created_at, i.created_by, i.last_updated_at, i.last_updated_by, i.version
FROM installments i
`

// getCredits runs the shared credit select with the given filter suffix.
func (r *PgxCreditRepository) getCredits(ctx context.Context, filterQuery string, args ...any) ([]models.Credit, error) {
	query := FULL_CREDIT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query credits", err)
	}
	return collectCredits(rows)
}

// collectCredits drains rows produced by FULL_CREDIT_SELECT_QUERY.
func collectCredits(rows pgx.Rows) ([]models.Credit, error) {
	defer rows.Close()

	modelCredits := []models.Credit{}
	for rows.Next() {
		var m models.Credit
		err := rows.Scan(
			&m.CreditID,
			&m.OriginRef,
			&m.ClientID,
			&m.CreditTypeID,
			&m.OrganismID,
			&m.PurchaseID,
			&m.SaleID,
			&m.OriginCreditID,
			&m.DisbursementDate,
			&m.FirstDueDate,
			&m.AmountDisbursed,
			&m.Capital,
			&m.AnnualRate,
			&m.Term,
			&m.Status,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&m.Version,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan credit row", err)
		}
		modelCredits = append(modelCredits, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating credit rows", err)
	}
	return modelCredits, nil
}

// getInstallments runs the shared installment select with the given filter suffix.
func (r *PgxCreditRepository) getInstallments(ctx context.Context, filterQuery string, args ...any) ([]models.Installment, error) {
	query := FULL_INSTALLMENT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query installments", err)
	}
	return collectInstallments(rows)
}

// collectInstallments drains rows produced by FULL_INSTALLMENT_SELECT_QUERY.
func collectInstallments(rows pgx.Rows) ([]models.Installment, error) {
	defer rows.Close()

	modelInstallments := []models.Installment{}
	for rows.Next() {
		var m models.Installment
		err := rows.Scan(
			&m.InstallmentID,
			&m.CreditID,
			&m.InstNum,
			&m.DueDate,
			&m.OwnerID,
			&m.Capital,
			&m.Interest,
			&m.Tax,
			&m.Total,
			&m.CollectedTotal,
			&m.SettlementDate,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&m.Version,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan installment row", err)
		}
		modelInstallments = append(modelInstallments, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating installment rows", err)
	}
	return modelInstallments, nil
}

// SaveCreditWithSchedule persists a credit and its full installment schedule
// in one transaction. A credit never exists without its schedule.
func (r *PgxCreditRepository) SaveCreditWithSchedule(ctx context.Context, credit domain.Credit, installments []domain.Installment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	modelCredit := mapping.ToModelCredit(credit)
	creditQuery := `
		INSERT INTO credits (
			credit_id, origin_ref, client_id, credit_type_id, organism_id, purchase_id,
			sale_id, origin_credit_id, disbursement_date, first_due_date, amount_disbursed,
			capital, annual_rate, term, status,
			created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20);
	`
	_, err = tx.Exec(ctx, creditQuery,
		modelCredit.CreditID,
		modelCredit.OriginRef,
		modelCredit.ClientID,
		modelCredit.CreditTypeID,
		modelCredit.OrganismID,
		modelCredit.PurchaseID,
		modelCredit.SaleID,
		modelCredit.OriginCreditID,
		modelCredit.DisbursementDate,
		modelCredit.FirstDueDate,
		modelCredit.AmountDisbursed,
		modelCredit.Capital,
		modelCredit.AnnualRate,
		modelCredit.Term,
		modelCredit.Status,
		modelCredit.CreatedAt,
		modelCredit.CreatedBy,
		modelCredit.LastUpdatedAt,
		modelCredit.LastUpdatedBy,
		1,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return apperrors.NewDuplicateError("credit " + modelCredit.CreditID + " already exists")
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("credit " + modelCredit.CreditID + " references a missing " + pgErr.ConstraintName)
			}
		}
		return apperrors.NewAppError(500, "failed to insert credit "+modelCredit.CreditID, err)
	}

	batch := &pgx.Batch{}
	instQuery := `
		INSERT INTO installments (
			installment_id, credit_id, inst_num, due_date, owner_id,
			capital, interest, tax, total, collected_total, settlement_date,
			created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	for _, inst := range installments {
		modelInst := mapping.ToModelInstallment(inst)
		batch.Queue(instQuery,
			modelInst.InstallmentID,
			modelInst.CreditID,
			modelInst.InstNum,
			modelInst.DueDate,
			modelInst.OwnerID,
			modelInst.Capital,
			modelInst.Interest,
			modelInst.Tax,
			modelInst.Total,
			modelInst.CollectedTotal,
			modelInst.SettlementDate,
			modelInst.CreatedAt,
			modelInst.CreatedBy,
			modelInst.LastUpdatedAt,
			modelInst.LastUpdatedBy,
			1,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert installment schedule for credit "+modelCredit.CreditID, err)
	}

	return r.Commit(ctx, tx)
}

// FindCreditByID retrieves a credit by its ID.
func (r *PgxCreditRepository) FindCreditByID(ctx context.Context, creditID string) (*domain.Credit, error) {
	credits, err := r.getCredits(ctx, `WHERE c.credit_id = $1`, creditID)
	if err != nil {
		return nil, err
	}
	if len(credits) == 0 {
		return nil, apperrors.ErrNotFound
	}
	domainCredit := mapping.ToDomainCredit(credits[0])
	return &domainCredit, nil
}

// FindCreditsByClientID retrieves all credits for a client, newest disbursement first.
func (r *PgxCreditRepository) FindCreditsByClientID(ctx context.Context, clientID string) ([]domain.Credit, error) {
	credits, err := r.getCredits(ctx, `WHERE c.client_id = $1 ORDER BY c.disbursement_date DESC, c.created_at DESC;`, clientID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainCreditSlice(credits), nil
}

// FindActiveCreditsByClientID retrieves the client's active credits in payment
// allocation order: the credit whose oldest unsettled installment is due first
// comes first, disbursement date and credit ID break ties.
func (r *PgxCreditRepository) FindActiveCreditsByClientID(ctx context.Context, clientID string) ([]domain.Credit, error) {
	filter := `
		WHERE c.client_id = $1 AND c.status = 'ACTIVE'
		ORDER BY
			(SELECT MIN(i.due_date) FROM installments i WHERE i.credit_id = c.credit_id AND i.settlement_date IS NULL),
			c.disbursement_date,
			c.credit_id;
	`
	credits, err := r.getCredits(ctx, filter, clientID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainCreditSlice(credits), nil
}

// ListCredits retrieves a paginated list of credits using token-based pagination.
// It returns the credits, a token for the next page, and an error.
func (r *PgxCreditRepository) ListCredits(ctx context.Context, limit int, nextToken *string) ([]domain.Credit, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	// Ordering must be stable: disbursement_date DESC with created_at as tie-breaker.
	orderByClause := `ORDER BY c.disbursement_date DESC, c.created_at DESC`

	var filter string
	args := []interface{}{}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		// Row comparison matches the ORDER BY tuple, so the cursor resumes
		// exactly after the last returned row.
		filter = `WHERE (c.disbursement_date, c.created_at) < ($1, $2) ` + orderByClause
		args = append(args, lastDate, lastCreatedAt)
	} else {
		filter = orderByClause
	}
	filter += ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	modelCredits, err := r.getCredits(ctx, filter, args...)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	results := modelCredits
	if len(modelCredits) > limit {
		lastCredit := modelCredits[limit-1] // The last item included in this page
		token := pagination.EncodeToken(lastCredit.DisbursementDate, lastCredit.CreatedAt)
		nextTokenVal = &token
		results = modelCredits[:limit]
	}

	return mapping.ToDomainCreditSlice(results), nextTokenVal, nil
}

// ListActiveCreditIDs retrieves the IDs of every credit still in active status.
func (r *PgxCreditRepository) ListActiveCreditIDs(ctx context.Context) ([]string, error) {
	query := `SELECT credit_id FROM credits WHERE status = 'ACTIVE' ORDER BY created_at;`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query active credit IDs", err)
	}
	defer rows.Close()

	creditIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan credit ID row", err)
		}
		creditIDs = append(creditIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating credit ID rows", err)
	}
	return creditIDs, nil
}

// UpdateCreditStatus transitions a credit to the given status.
func (r *PgxCreditRepository) UpdateCreditStatus(ctx context.Context, creditID string, status domain.CreditStatus, updatedBy string) error {
	query := `
		UPDATE credits
		SET status = $2, last_updated_at = NOW(), last_updated_by = $3, version = version + 1
		WHERE credit_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, creditID, string(status), updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of credit "+creditID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("credit " + creditID + " not found for status update")
	}
	return nil
}

// FindInstallmentByID retrieves an installment by its ID.
func (r *PgxCreditRepository) FindInstallmentByID(ctx context.Context, installmentID string) (*domain.Installment, error) {
	installments, err := r.getInstallments(ctx, `WHERE i.installment_id = $1`, installmentID)
	if err != nil {
		return nil, err
	}
	if len(installments) == 0 {
		return nil, apperrors.ErrNotFound
	}
	domainInstallment := mapping.ToDomainInstallment(installments[0])
	return &domainInstallment, nil
}

// FindInstallmentsByCreditID retrieves a credit's installments ordered by installment number.
func (r *PgxCreditRepository) FindInstallmentsByCreditID(ctx context.Context, creditID string) ([]domain.Installment, error) {
	installments, err := r.getInstallments(ctx, `WHERE i.credit_id = $1 ORDER BY i.inst_num;`, creditID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainInstallmentSlice(installments), nil
}

// FindOutstandingByCreditID retrieves the credit's unsettled installments ordered by installment number.
func (r *PgxCreditRepository) FindOutstandingByCreditID(ctx context.Context, creditID string) ([]domain.Installment, error) {
	installments, err := r.getInstallments(ctx, `WHERE i.credit_id = $1 AND i.settlement_date IS NULL ORDER BY i.inst_num;`, creditID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainInstallmentSlice(installments), nil
}

// FindOverdueInstallments retrieves unsettled installments due strictly before
// asOf, oldest due date first, using token-based pagination.
func (r *PgxCreditRepository) FindOverdueInstallments(ctx context.Context, asOf time.Time, limit int, nextToken *string) ([]domain.Installment, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	// Ascending here: the longest overdue installments are the ones collection
	// work starts from, so they come first.
	orderByClause := `ORDER BY i.due_date, i.created_at`

	filter := `WHERE i.settlement_date IS NULL AND i.due_date < $1 `
	args := []interface{}{asOf}

	if nextToken != nil && *nextToken != "" {
		lastDueDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		filter += `AND (i.due_date, i.created_at) > ($2, $3) `
		args = append(args, lastDueDate, lastCreatedAt)
	}
	filter += orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	modelInstallments, err := r.getInstallments(ctx, filter, args...)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	results := modelInstallments
	if len(modelInstallments) > limit {
		lastInst := modelInstallments[limit-1]
		token := pagination.EncodeToken(lastInst.DueDate, lastInst.CreatedAt)
		nextTokenVal = &token
		results = modelInstallments[:limit]
	}

	return mapping.ToDomainInstallmentSlice(results), nextTokenVal, nil
}
