package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/core/domain"
	portsrepo "github.com/credisur/creditledger/internal/core/ports/repositories"
	"github.com/credisur/creditledger/internal/models"
	"github.com/credisur/creditledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxOperatorRepository struct {
	db *pgxpool.Pool
}

func newPgxOperatorRepository(db *pgxpool.Pool) portsrepo.OperatorRepositoryFacade {
	return &PgxOperatorRepository{db: db}
}

// Ensure PgxOperatorRepository implements portsrepo.OperatorRepositoryFacade
var _ portsrepo.OperatorRepositoryFacade = (*PgxOperatorRepository)(nil)

func scanOperatorRow(row pgx.Row) (*models.Operator, error) {
	var m models.Operator
	err := row.Scan(
		&m.OperatorID,
		&m.Username,
		&m.PasswordHash,
		&m.Name,
		&m.Email,
		&m.GoogleID,
		&m.RefreshTokenHash,
		&m.RefreshTokenExpiryTime,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Version,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const operatorSelectColumns = `operator_id, username, password_hash, name, email, google_id, refresh_token_hash, refresh_token_expiry_time, created_at, created_by, last_updated_at, last_updated_by, version, deleted_at`

func (r *PgxOperatorRepository) findOperatorBy(ctx context.Context, column string, value string) (*domain.Operator, error) {
	// column is one of the fixed names below, never user input.
	query := `
		SELECT ` + operatorSelectColumns + `
		FROM operators
		WHERE ` + column + ` = $1 AND deleted_at IS NULL;
	`
	modelOperator, err := scanOperatorRow(r.db.QueryRow(ctx, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find operator by %s: %w", column, err)
	}

	domainOperator := mapping.ToDomainOperator(*modelOperator)
	return &domainOperator, nil
}

func (r *PgxOperatorRepository) FindOperatorByID(ctx context.Context, operatorID string) (*domain.Operator, error) {
	return r.findOperatorBy(ctx, "operator_id", operatorID)
}

func (r *PgxOperatorRepository) FindOperatorByUsername(ctx context.Context, username string) (*domain.Operator, error) {
	return r.findOperatorBy(ctx, "username", username)
}

func (r *PgxOperatorRepository) FindOperatorByGoogleID(ctx context.Context, googleID string) (*domain.Operator, error) {
	return r.findOperatorBy(ctx, "google_id", googleID)
}

func (r *PgxOperatorRepository) FindOperators(ctx context.Context, limit int, offset int) ([]domain.Operator, error) {
	// Default limit if not specified or invalid
	if limit <= 0 {
		limit = 20
	}
	// Ensure offset is non-negative
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + operatorSelectColumns + `
		FROM operators
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query operators: %w", err)
	}
	defer rows.Close()

	modelOperators := []models.Operator{}
	for rows.Next() {
		modelOperator, err := scanOperatorRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operator row: %w", err)
		}
		modelOperators = append(modelOperators, *modelOperator)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating operator rows: %w", rows.Err())
	}

	return mapping.ToDomainOperatorSlice(modelOperators), nil
}

func (r *PgxOperatorRepository) SaveOperator(ctx context.Context, operator domain.Operator) error {
	modelOperator := mapping.ToModelOperator(operator)
	query := `
		INSERT INTO operators (operator_id, username, password_hash, name, email, google_id, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db.Exec(ctx, query,
		modelOperator.OperatorID,
		modelOperator.Username,
		modelOperator.PasswordHash,
		modelOperator.Name,
		modelOperator.Email,
		modelOperator.GoogleID,
		modelOperator.CreatedAt,
		modelOperator.CreatedBy,
		modelOperator.LastUpdatedAt,
		modelOperator.LastUpdatedBy,
		1,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewDuplicateError("operator with username " + modelOperator.Username + " already exists")
		}
		return fmt.Errorf("failed to save operator: %w", err)
	}
	return nil
}

func (r *PgxOperatorRepository) UpdateOperator(ctx context.Context, operator domain.Operator) error {
	modelOperator := mapping.ToModelOperator(operator)
	query := `
		UPDATE operators
		SET name = $1, email = $2, password_hash = $3, google_id = $4, last_updated_at = $5, last_updated_by = $6, version = version + 1
		WHERE operator_id = $7 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		modelOperator.Name,
		modelOperator.Email,
		modelOperator.PasswordHash,
		modelOperator.GoogleID,
		modelOperator.LastUpdatedAt,
		modelOperator.LastUpdatedBy,
		modelOperator.OperatorID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update operator query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("operator not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}

// UpdateRefreshToken stores the hash and expiry of the operator's single
// active refresh token. Nil values clear it, which is how logout revokes.
func (r *PgxOperatorRepository) UpdateRefreshToken(ctx context.Context, operatorID string, tokenHash *string, expiresAt *time.Time) error {
	// Token rotation is self-service, so the operator is their own updater.
	query := `
		UPDATE operators
		SET refresh_token_hash = $1, refresh_token_expiry_time = $2, last_updated_at = NOW(), last_updated_by = $3, version = version + 1
		WHERE operator_id = $4 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query, tokenHash, expiresAt, operatorID, operatorID)
	if err != nil {
		return fmt.Errorf("failed to update refresh token for operator %s: %w", operatorID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("operator not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxOperatorRepository) MarkOperatorDeleted(ctx context.Context, operatorID string, deletedAt time.Time, deletedBy string) error {
	query := `
		UPDATE operators
		SET deleted_at = $1, refresh_token_hash = NULL, refresh_token_expiry_time = NULL, last_updated_at = $1, last_updated_by = $2, version = version + 1
		WHERE operator_id = $3 AND deleted_at IS NULL;
	`
	cmdTag, err := r.db.Exec(ctx, query, deletedAt, deletedBy, operatorID)
	if err != nil {
		return fmt.Errorf("failed to mark operator as deleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Operator might not exist or was already deleted
		return fmt.Errorf("operator not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}
