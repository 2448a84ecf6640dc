package pgsql

import (
	"context"

	"github.com/credisur/creditledger/internal/apperrors"
	portsrepo "github.com/credisur/creditledger/internal/core/ports/repositories"
	"github.com/credisur/creditledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxReconciliationRepository struct {
	BaseRepository
}

func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxReconciliationRepository implements portsrepo.ReconciliationRepositoryFacade
var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

// SnapshotCredit reads the credit, its installments and the per-installment
// collection sums inside one repeatable read transaction, so the three reads
// cannot interleave with a concurrent collection write.
func (r *PgxReconciliationRepository) SnapshotCredit(ctx context.Context, creditID string) (*portsrepo.CreditSnapshot, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin snapshot transaction", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Read-only; rollback after commit is a no-op.

	creditRows, err := tx.Query(ctx, FULL_CREDIT_SELECT_QUERY+` WHERE c.credit_id = $1;`, creditID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query credit "+creditID+" for snapshot", err)
	}
	credits, err := collectCredits(creditRows)
	if err != nil {
		return nil, err
	}
	if len(credits) == 0 {
		return nil, apperrors.ErrNotFound
	}

	installmentRows, err := tx.Query(ctx, FULL_INSTALLMENT_SELECT_QUERY+` WHERE i.credit_id = $1 ORDER BY i.inst_num;`, creditID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query installments of credit "+creditID+" for snapshot", err)
	}
	installments, err := collectInstallments(installmentRows)
	if err != nil {
		return nil, err
	}

	sumQuery := `
		SELECT installment_id, COALESCE(SUM(total), 0), COUNT(*)
		FROM collections
		WHERE credit_id = $1
		GROUP BY installment_id;
	`
	sumRows, err := tx.Query(ctx, sumQuery, creditID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query collection sums of credit "+creditID, err)
	}
	defer sumRows.Close()

	collectedTotals := map[string]decimal.Decimal{}
	rowCounts := map[string]int{}
	for sumRows.Next() {
		var installmentID string
		var total decimal.Decimal
		var count int
		if err := sumRows.Scan(&installmentID, &total, &count); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan collection sum row", err)
		}
		collectedTotals[installmentID] = total
		rowCounts[installmentID] = count
	}
	if sumRows.Err() != nil {
		return nil, apperrors.NewAppError(500, "error iterating collection sum rows", sumRows.Err())
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperrors.NewAppError(500, "failed to commit snapshot transaction", err)
	}

	return &portsrepo.CreditSnapshot{
		Credit:              mapping.ToDomainCredit(credits[0]),
		Installments:        mapping.ToDomainInstallmentSlice(installments),
		CollectedTotals:     collectedTotals,
		CollectionRowCounts: rowCounts,
	}, nil
}
