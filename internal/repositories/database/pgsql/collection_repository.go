package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/core/domain"
	portsrepo "github.com/credisur/creditledger/internal/core/ports/repositories"
	"github.com/credisur/creditledger/internal/models"
	"github.com/credisur/creditledger/internal/utils/allocation"
	"github.com/credisur/creditledger/internal/utils/mapping"
	"github.com/credisur/creditledger/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxCollectionRepository holds the ledger arithmetic that must run under the
// credit row lock. Every write method opens its own transaction, locks the
// credit, re-reads installment state, and only then mutates, so concurrent
// collections against one credit serialize at the database.
type PgxCollectionRepository struct {
	BaseRepository
	tolerance decimal.Decimal
}

// newPgxCollectionRepository creates a new repository for collection data.
// tolerance is the settlement tolerance: an installment counts as covered once
// its collected total is within tolerance of its total.
func newPgxCollectionRepository(pool *pgxpool.Pool, tolerance decimal.Decimal) portsrepo.CollectionRepositoryWithTx {
	return &PgxCollectionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		tolerance:      tolerance,
	}
}

// Ensure PgxCollectionRepository implements portsrepo.CollectionRepositoryWithTx
var _ portsrepo.CollectionRepositoryWithTx = (*PgxCollectionRepository)(nil)

var FULL_COLLECTION_SELECT_QUERY = `
SELECT
	co.collection_id, co.installment_id, co.credit_id, co.collection_type_id, co.collection_date,
	co.capital, co.interest, co.tax, co.total,
	co.created_at, co.created_by, co.last_updated_at, co.last_updated_by, co.version
FROM collections co
`

const insertCollectionQuery = `
	INSERT INTO collections (
		collection_id, installment_id, credit_id, collection_type_id, collection_date,
		capital, interest, tax, total,
		created_at, created_by, last_updated_at, last_updated_by, version
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
`

const applyToInstallmentQuery = `
	UPDATE installments
	SET collected_total = $2, settlement_date = $3, last_updated_at = $4, last_updated_by = $5, version = version + 1
	WHERE installment_id = $1;
`

// getCollections runs the shared collection select with the given filter suffix.
func (r *PgxCollectionRepository) getCollections(ctx context.Context, filterQuery string, args ...any) ([]models.Collection, error) {
	query := FULL_COLLECTION_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query collections", err)
	}
	defer rows.Close()

	modelCollections := []models.Collection{}
	for rows.Next() {
		var m models.Collection
		err := rows.Scan(
			&m.CollectionID,
			&m.InstallmentID,
			&m.CreditID,
			&m.CollectionTypeID,
			&m.CollectionDate,
			&m.Capital,
			&m.Interest,
			&m.Tax,
			&m.Total,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&m.Version,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan collection row", err)
		}
		modelCollections = append(modelCollections, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating collection rows", err)
	}
	return modelCollections, nil
}

// lockCredit takes the credit row lock and returns the credit's status.
// Everything that mutates installments or collections goes through here first.
func (r *PgxCollectionRepository) lockCredit(ctx context.Context, tx pgx.Tx, creditID string) (domain.CreditStatus, error) {
	var status string
	err := tx.QueryRow(ctx, `SELECT status FROM credits WHERE credit_id = $1 FOR UPDATE;`, creditID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFoundError("credit " + creditID + " not found")
		}
		return "", apperrors.NewAppError(500, "failed to lock credit "+creditID, err)
	}
	return domain.CreditStatus(status), nil
}

// installmentInTx re-reads one installment inside the transaction.
func (r *PgxCollectionRepository) installmentInTx(ctx context.Context, tx pgx.Tx, installmentID string) (*domain.Installment, error) {
	query := `
		SELECT installment_id, credit_id, inst_num, due_date, owner_id,
		       capital, interest, tax, total, collected_total, settlement_date,
		       created_at, created_by, last_updated_at, last_updated_by, version
		FROM installments
		WHERE installment_id = $1;
	`
	var m models.Installment
	err := tx.QueryRow(ctx, query, installmentID).Scan(
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
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to read installment "+installmentID, err)
	}
	domainInstallment := mapping.ToDomainInstallment(m)
	return &domainInstallment, nil
}

// outstandingInTx reads the credit's unsettled installments inside the
// transaction, ordered oldest first for allocation.
func (r *PgxCollectionRepository) outstandingInTx(ctx context.Context, tx pgx.Tx, creditID string) ([]domain.Installment, error) {
	query := `
		SELECT installment_id, credit_id, inst_num, due_date, owner_id,
		       capital, interest, tax, total, collected_total, settlement_date,
		       created_at, created_by, last_updated_at, last_updated_by, version
		FROM installments
		WHERE credit_id = $1 AND settlement_date IS NULL
		ORDER BY inst_num;
	`
	rows, err := tx.Query(ctx, query, creditID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query outstanding installments for credit "+creditID, err)
	}
	defer rows.Close()

	installments := []domain.Installment{}
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
			return nil, apperrors.NewAppError(500, "failed to scan installment row for credit "+creditID, err)
		}
		installments = append(installments, mapping.ToDomainInstallment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating installment rows for credit "+creditID, err)
	}
	return installments, nil
}

// queueCollectionInsert adds one collection insert to the batch.
func queueCollectionInsert(batch *pgx.Batch, collection domain.Collection) {
	m := mapping.ToModelCollection(collection)
	batch.Queue(insertCollectionQuery,
		m.CollectionID,
		m.InstallmentID,
		m.CreditID,
		m.CollectionTypeID,
		m.CollectionDate,
		m.Capital,
		m.Interest,
		m.Tax,
		m.Total,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		1,
	)
}

// settleCreditIfComplete flips the credit to SETTLED once no unsettled
// installments remain. Cancelled credits stay cancelled.
func (r *PgxCollectionRepository) settleCreditIfComplete(ctx context.Context, tx pgx.Tx, creditID string, updatedBy string) (bool, error) {
	var hasOutstanding bool
	err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM installments WHERE credit_id = $1 AND settlement_date IS NULL);`, creditID).Scan(&hasOutstanding)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to check outstanding installments for credit "+creditID, err)
	}
	if hasOutstanding {
		return false, nil
	}

	query := `
		UPDATE credits
		SET status = $2, last_updated_at = NOW(), last_updated_by = $3, version = version + 1
		WHERE credit_id = $1 AND status = $4;
	`
	cmdTag, err := tx.Exec(ctx, query, creditID, string(domain.CreditSettled), updatedBy, string(domain.CreditActive))
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to settle credit "+creditID, err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// RecordCollection persists a decomposed collection against its installment.
// The cumulative over-collection check runs here, under the credit row lock,
// so two concurrent payments cannot both fit into the same remaining gap.
func (r *PgxCollectionRepository) RecordCollection(ctx context.Context, collection domain.Collection) (*domain.Collection, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	if _, err := r.lockCredit(ctx, tx, collection.CreditID); err != nil {
		return nil, err
	}

	installment, err := r.installmentInTx(ctx, tx, collection.InstallmentID)
	if err != nil {
		return nil, err
	}
	if installment.CreditID != collection.CreditID {
		return nil, fmt.Errorf("%w: installment %s does not belong to credit %s",
			domain.ErrUnknownInstallment, installment.InstallmentID, collection.CreditID)
	}
	if installment.IsSettled() {
		return nil, apperrors.NewConflictError("installment " + installment.InstallmentID + " is already settled")
	}

	newCollected := installment.CollectedTotal.Add(collection.Total)
	if newCollected.GreaterThan(installment.Total) {
		return nil, fmt.Errorf("%w: installment %s holds %s of %s, cannot apply %s",
			domain.ErrOverCollection, installment.InstallmentID,
			installment.CollectedTotal.String(), installment.Total.String(), collection.Total.String())
	}

	batch := &pgx.Batch{}
	queueCollectionInsert(batch, collection)

	var settledOn *time.Time
	if allocation.Covers(newCollected, installment.Total, r.tolerance) {
		settledOn = &collection.CollectionDate
	}
	batch.Queue(applyToInstallmentQuery,
		installment.InstallmentID,
		newCollected,
		settledOn,
		collection.LastUpdatedAt,
		collection.LastUpdatedBy,
	)

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to apply collection "+collection.CollectionID, err)
	}

	if settledOn != nil {
		if _, err := r.settleCreditIfComplete(ctx, tx, collection.CreditID, collection.LastUpdatedBy); err != nil {
			return nil, err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	saved := collection
	return &saved, nil
}

// AllocatePayment spreads a payment across the credit's outstanding
// installments oldest first and reports any unapplied remainder.
func (r *PgxCollectionRepository) AllocatePayment(ctx context.Context, creditID string, payment decimal.Decimal, date time.Time, typeID string, createdBy string) (*domain.AllocationResult, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	status, err := r.lockCredit(ctx, tx, creditID)
	if err != nil {
		return nil, err
	}
	if status != domain.CreditActive {
		return nil, apperrors.NewConflictError("credit " + creditID + " is not active")
	}

	outstanding, err := r.outstandingInTx(ctx, tx, creditID)
	if err != nil {
		return nil, err
	}

	entries, remainder := allocation.OldestFirst(outstanding, payment, r.tolerance)

	byID := make(map[string]domain.Installment, len(outstanding))
	for _, inst := range outstanding {
		byID[inst.InstallmentID] = inst
	}

	now := time.Now().UTC()
	result := &domain.AllocationResult{Remainder: remainder}
	batch := &pgx.Batch{}
	anySettled := false

	for _, entry := range entries {
		collection := domain.Collection{
			CollectionID:     uuid.NewString(),
			InstallmentID:    entry.InstallmentID,
			CreditID:         creditID,
			CollectionTypeID: typeID,
			CollectionDate:   date,
			Capital:          entry.Capital,
			Interest:         entry.Interest,
			Tax:              entry.Tax,
			Total:            entry.Total,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     createdBy,
				LastUpdatedAt: now,
				LastUpdatedBy: createdBy,
			},
		}
		queueCollectionInsert(batch, collection)
		result.Collections = append(result.Collections, collection)

		inst := byID[entry.InstallmentID]
		newCollected := inst.CollectedTotal.Add(entry.Total)
		var settledOn *time.Time
		if entry.Settles {
			settledOn = &date
			anySettled = true
		}
		batch.Queue(applyToInstallmentQuery, entry.InstallmentID, newCollected, settledOn, now, createdBy)
	}

	if len(entries) > 0 {
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return nil, apperrors.NewAppError(500, "failed to apply allocation for credit "+creditID, err)
		}
	}

	if anySettled {
		settled, err := r.settleCreditIfComplete(ctx, tx, creditID, createdBy)
		if err != nil {
			return nil, err
		}
		result.CreditSettled = settled
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return result, nil
}

// SettleInAdvance clears every outstanding installment: the capital share of
// each outstanding amount is collected as an advance payment, the interest and
// tax shares are waived. The client ends up paying only remaining capital.
func (r *PgxCollectionRepository) SettleInAdvance(ctx context.Context, creditID string, date time.Time, advanceTypeID string, waiverTypeID string, createdBy string) (*domain.AllocationResult, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	status, err := r.lockCredit(ctx, tx, creditID)
	if err != nil {
		return nil, err
	}
	if status != domain.CreditActive {
		return nil, apperrors.NewConflictError("credit " + creditID + " is not active")
	}

	outstanding, err := r.outstandingInTx(ctx, tx, creditID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: createdBy, LastUpdatedAt: now, LastUpdatedBy: createdBy}
	result := &domain.AllocationResult{Remainder: decimal.Zero}
	batch := &pgx.Batch{}

	for _, inst := range outstanding {
		capital, interest, tax := allocation.AdvanceSplit(inst)

		if capital.IsPositive() {
			advance := domain.Collection{
				CollectionID:     uuid.NewString(),
				InstallmentID:    inst.InstallmentID,
				CreditID:         creditID,
				CollectionTypeID: advanceTypeID,
				CollectionDate:   date,
				Capital:          capital,
				Interest:         decimal.Zero,
				Tax:              decimal.Zero,
				Total:            capital,
				AuditFields:      audit,
			}
			queueCollectionInsert(batch, advance)
			result.Collections = append(result.Collections, advance)
		}

		waived := interest.Add(tax)
		if waived.IsPositive() {
			waiver := domain.Collection{
				CollectionID:     uuid.NewString(),
				InstallmentID:    inst.InstallmentID,
				CreditID:         creditID,
				CollectionTypeID: waiverTypeID,
				CollectionDate:   date,
				Capital:          decimal.Zero,
				Interest:         interest,
				Tax:              tax,
				Total:            waived,
				AuditFields:      audit,
			}
			queueCollectionInsert(batch, waiver)
			result.Collections = append(result.Collections, waiver)
		}

		// Advance plus waiver always tops the installment up to its total.
		batch.Queue(applyToInstallmentQuery, inst.InstallmentID, inst.Total, &date, now, createdBy)
	}

	if len(outstanding) > 0 {
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return nil, apperrors.NewAppError(500, "failed to settle credit "+creditID+" in advance", err)
		}
	}

	settled, err := r.settleCreditIfComplete(ctx, tx, creditID, createdBy)
	if err != nil {
		return nil, err
	}
	result.CreditSettled = settled

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return result, nil
}

// SweepCreditResiduals waives sub-threshold residuals on the credit's
// unsettled installments so they can settle. A credit that settled between
// the candidate query and the lock is a no-op, not an error.
func (r *PgxCollectionRepository) SweepCreditResiduals(ctx context.Context, creditID string, threshold decimal.Decimal, date time.Time, waiverTypeID string, createdBy string) (*domain.AllocationResult, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	status, err := r.lockCredit(ctx, tx, creditID)
	if err != nil {
		return nil, err
	}
	result := &domain.AllocationResult{Remainder: decimal.Zero}
	if status != domain.CreditActive {
		return result, nil
	}

	outstanding, err := r.outstandingInTx(ctx, tx, creditID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{CreatedAt: now, CreatedBy: createdBy, LastUpdatedAt: now, LastUpdatedBy: createdBy}
	batch := &pgx.Batch{}
	swept := 0

	for _, inst := range outstanding {
		residual := inst.Outstanding()
		if !residual.IsPositive() || residual.GreaterThan(threshold) {
			continue
		}

		capital, interest, tax := allocation.Split(inst, residual)
		waiver := domain.Collection{
			CollectionID:     uuid.NewString(),
			InstallmentID:    inst.InstallmentID,
			CreditID:         creditID,
			CollectionTypeID: waiverTypeID,
			CollectionDate:   date,
			Capital:          capital,
			Interest:         interest,
			Tax:              tax,
			Total:            residual,
			AuditFields:      audit,
		}
		queueCollectionInsert(batch, waiver)
		result.Collections = append(result.Collections, waiver)
		batch.Queue(applyToInstallmentQuery, inst.InstallmentID, inst.Total, &date, now, createdBy)
		swept++
	}

	if swept == 0 {
		return result, r.Commit(ctx, tx)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to sweep residuals for credit "+creditID, err)
	}

	settled, err := r.settleCreditIfComplete(ctx, tx, creditID, createdBy)
	if err != nil {
		return nil, err
	}
	result.CreditSettled = settled

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return result, nil
}

// ForceSettleInstallment stamps the settlement date on a fully collected
// installment. Settling twice is a no-op.
func (r *PgxCollectionRepository) ForceSettleInstallment(ctx context.Context, installmentID string, date time.Time, updatedBy string) (*domain.Installment, error) {
	var creditID string
	err := r.Pool.QueryRow(ctx, `SELECT credit_id FROM installments WHERE installment_id = $1;`, installmentID).Scan(&creditID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to resolve credit for installment "+installmentID, err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if _, err := r.lockCredit(ctx, tx, creditID); err != nil {
		return nil, err
	}

	installment, err := r.installmentInTx(ctx, tx, installmentID)
	if err != nil {
		return nil, err
	}
	if installment.IsSettled() {
		return installment, r.Commit(ctx, tx)
	}
	if !allocation.Covers(installment.CollectedTotal, installment.Total, r.tolerance) {
		return nil, fmt.Errorf("%w: installment %s holds %s of %s",
			domain.ErrPrematureSettlement, installmentID,
			installment.CollectedTotal.String(), installment.Total.String())
	}

	now := time.Now().UTC()
	query := `
		UPDATE installments
		SET settlement_date = $2, last_updated_at = $3, last_updated_by = $4, version = version + 1
		WHERE installment_id = $1;
	`
	if _, err := tx.Exec(ctx, query, installmentID, date, now, updatedBy); err != nil {
		return nil, apperrors.NewAppError(500, "failed to force settle installment "+installmentID, err)
	}

	if _, err := r.settleCreditIfComplete(ctx, tx, creditID, updatedBy); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	installment.SettlementDate = &date
	installment.LastUpdatedAt = now
	installment.LastUpdatedBy = updatedBy
	installment.Version++
	return installment, nil
}

// FindCollectionByID retrieves a collection by its ID.
func (r *PgxCollectionRepository) FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error) {
	collections, err := r.getCollections(ctx, `WHERE co.collection_id = $1`, collectionID)
	if err != nil {
		return nil, err
	}
	if len(collections) == 0 {
		return nil, apperrors.ErrNotFound
	}
	domainCollection := mapping.ToDomainCollection(collections[0])
	return &domainCollection, nil
}

// FindCollectionsByInstallmentID retrieves an installment's collections ordered by collection date.
func (r *PgxCollectionRepository) FindCollectionsByInstallmentID(ctx context.Context, installmentID string) ([]domain.Collection, error) {
	collections, err := r.getCollections(ctx, `WHERE co.installment_id = $1 ORDER BY co.collection_date, co.created_at;`, installmentID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainCollectionSlice(collections), nil
}

// FindCollectionsByCreditID retrieves a credit's collections ordered by collection date.
func (r *PgxCollectionRepository) FindCollectionsByCreditID(ctx context.Context, creditID string) ([]domain.Collection, error) {
	collections, err := r.getCollections(ctx, `WHERE co.credit_id = $1 ORDER BY co.collection_date, co.created_at;`, creditID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainCollectionSlice(collections), nil
}

// FindCollectionsByDateRange retrieves a paginated list of collections whose
// collection date falls in [from, to), newest first, using token-based pagination.
func (r *PgxCollectionRepository) FindCollectionsByDateRange(ctx context.Context, from time.Time, to time.Time, limit int, nextToken *string) ([]domain.Collection, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	orderByClause := `ORDER BY co.collection_date DESC, co.created_at DESC`

	filter := `WHERE co.collection_date >= $1 AND co.collection_date < $2 `
	args := []interface{}{from, to}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		filter += `AND (co.collection_date, co.created_at) < ($3, $4) `
		args = append(args, lastDate, lastCreatedAt)
	}
	filter += orderByClause + ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	modelCollections, err := r.getCollections(ctx, filter, args...)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	results := modelCollections
	if len(modelCollections) > limit {
		lastCollection := modelCollections[limit-1]
		token := pagination.EncodeToken(lastCollection.CollectionDate, lastCollection.CreatedAt)
		nextTokenVal = &token
		results = modelCollections[:limit]
	}

	return mapping.ToDomainCollectionSlice(results), nextTokenVal, nil
}

// FindCreditIDsWithResiduals retrieves the IDs of active credits holding
// unsettled installments whose outstanding amount is positive but at or below
// the threshold. These are the sweep candidates.
func (r *PgxCollectionRepository) FindCreditIDsWithResiduals(ctx context.Context, threshold decimal.Decimal) ([]string, error) {
	query := `
		SELECT DISTINCT i.credit_id
		FROM installments i
		JOIN credits c ON c.credit_id = i.credit_id
		WHERE c.status = 'ACTIVE'
		  AND i.settlement_date IS NULL
		  AND (i.total - i.collected_total) > 0
		  AND (i.total - i.collected_total) <= $1
		ORDER BY i.credit_id;
	`
	rows, err := r.Pool.Query(ctx, query, threshold)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query credits with residuals", err)
	}
	defer rows.Close()

	creditIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan residual credit ID row", err)
		}
		creditIDs = append(creditIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating residual credit ID rows", err)
	}
	return creditIDs, nil
}
