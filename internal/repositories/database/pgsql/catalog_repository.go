package pgsql

import (
	"context"
	"errors"

	"github.com/credisur/creditledger/internal/apperrors"
	"github.com/credisur/creditledger/internal/core/domain"
	portsrepo "github.com/credisur/creditledger/internal/core/ports/repositories"
	"github.com/credisur/creditledger/internal/models"
	"github.com/credisur/creditledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxCatalogRepository stores the reference entities credits hang off of:
// credit types, collection types, business lines and organisms.
type PgxCatalogRepository struct {
	BaseRepository
}

func newPgxCatalogRepository(pool *pgxpool.Pool) portsrepo.CatalogRepositoryWithTx {
	return &PgxCatalogRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxCatalogRepository implements portsrepo.CatalogRepositoryWithTx
var _ portsrepo.CatalogRepositoryWithTx = (*PgxCatalogRepository)(nil)

const creditTypeColumns = `credit_type_id, name, schedule_method, is_active, created_at, created_by, last_updated_at, last_updated_by, version`
const collectionTypeColumns = `collection_type_id, code, name, is_waiver, is_active, created_at, created_by, last_updated_at, last_updated_by, version`
const businessLineColumns = `business_line_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by, version`
const organismColumns = `organism_id, name, business_line_id, city_id, is_active, created_at, created_by, last_updated_at, last_updated_by, version`

// FindCreditTypeByID retrieves a credit type by its ID.
func (r *PgxCatalogRepository) FindCreditTypeByID(ctx context.Context, creditTypeID string) (*domain.CreditType, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+creditTypeColumns+` FROM credit_types WHERE credit_type_id = $1;`, creditTypeID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query credit type "+creditTypeID, err)
	}
	defer rows.Close()

	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.CreditType])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to collect credit type row "+creditTypeID, err)
	}
	domainType := mapping.ToDomainCreditType(m)
	return &domainType, nil
}

// FindCreditTypeByMethod retrieves the oldest active credit type using the
// given schedule method. Origination by method picks this one.
func (r *PgxCatalogRepository) FindCreditTypeByMethod(ctx context.Context, method domain.ScheduleMethod) (*domain.CreditType, error) {
	query := `SELECT ` + creditTypeColumns + ` FROM credit_types WHERE schedule_method = $1 AND is_active = TRUE ORDER BY created_at LIMIT 1;`
	rows, err := r.Pool.Query(ctx, query, string(method))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query credit type by method "+string(method), err)
	}
	defer rows.Close()

	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.CreditType])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to collect credit type row for method "+string(method), err)
	}
	domainType := mapping.ToDomainCreditType(m)
	return &domainType, nil
}

// ListCreditTypes retrieves all active credit types.
func (r *PgxCatalogRepository) ListCreditTypes(ctx context.Context) ([]domain.CreditType, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+creditTypeColumns+` FROM credit_types WHERE is_active = TRUE ORDER BY name;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query credit types", err)
	}
	defer rows.Close()

	modelTypes, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CreditType])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect credit type rows", err)
	}
	return mapping.ToDomainCreditTypeSlice(modelTypes), nil
}

// FindCollectionTypeByID retrieves a collection type by its ID.
func (r *PgxCatalogRepository) FindCollectionTypeByID(ctx context.Context, collectionTypeID string) (*domain.CollectionType, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+collectionTypeColumns+` FROM collection_types WHERE collection_type_id = $1;`, collectionTypeID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query collection type "+collectionTypeID, err)
	}
	defer rows.Close()

	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.CollectionType])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to collect collection type row "+collectionTypeID, err)
	}
	domainType := mapping.ToDomainCollectionType(m)
	return &domainType, nil
}

// FindCollectionTypeByCode retrieves a collection type by its stable code.
func (r *PgxCatalogRepository) FindCollectionTypeByCode(ctx context.Context, code string) (*domain.CollectionType, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+collectionTypeColumns+` FROM collection_types WHERE code = $1;`, code)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query collection type by code "+code, err)
	}
	defer rows.Close()

	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.CollectionType])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to collect collection type row for code "+code, err)
	}
	domainType := mapping.ToDomainCollectionType(m)
	return &domainType, nil
}

// ListCollectionTypes retrieves all active collection types.
func (r *PgxCatalogRepository) ListCollectionTypes(ctx context.Context) ([]domain.CollectionType, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+collectionTypeColumns+` FROM collection_types WHERE is_active = TRUE ORDER BY code;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query collection types", err)
	}
	defer rows.Close()

	modelTypes, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CollectionType])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect collection type rows", err)
	}
	return mapping.ToDomainCollectionTypeSlice(modelTypes), nil
}

// FindBusinessLineByID retrieves a business line by its ID.
func (r *PgxCatalogRepository) FindBusinessLineByID(ctx context.Context, businessLineID string) (*domain.BusinessLine, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+businessLineColumns+` FROM business_lines WHERE business_line_id = $1;`, businessLineID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query business line "+businessLineID, err)
	}
	defer rows.Close()

	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.BusinessLine])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to collect business line row "+businessLineID, err)
	}
	domainLine := mapping.ToDomainBusinessLine(m)
	return &domainLine, nil
}

// ListBusinessLines retrieves all active business lines.
func (r *PgxCatalogRepository) ListBusinessLines(ctx context.Context) ([]domain.BusinessLine, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+businessLineColumns+` FROM business_lines WHERE is_active = TRUE ORDER BY name;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query business lines", err)
	}
	defer rows.Close()

	modelLines, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.BusinessLine])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect business line rows", err)
	}
	return mapping.ToDomainBusinessLineSlice(modelLines), nil
}

// FindOrganismByID retrieves an organism by its ID.
func (r *PgxCatalogRepository) FindOrganismByID(ctx context.Context, organismID string) (*domain.Organism, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+organismColumns+` FROM organisms WHERE organism_id = $1;`, organismID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query organism "+organismID, err)
	}
	defer rows.Close()

	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Organism])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to collect organism row "+organismID, err)
	}
	domainOrganism := mapping.ToDomainOrganism(m)
	return &domainOrganism, nil
}

// ListOrganisms retrieves all active organisms.
func (r *PgxCatalogRepository) ListOrganisms(ctx context.Context) ([]domain.Organism, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+organismColumns+` FROM organisms WHERE is_active = TRUE ORDER BY name;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query organisms", err)
	}
	defer rows.Close()

	modelOrganisms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Organism])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect organism rows", err)
	}
	return mapping.ToDomainOrganismSlice(modelOrganisms), nil
}

// SaveCreditType persists a new credit type.
func (r *PgxCatalogRepository) SaveCreditType(ctx context.Context, creditType domain.CreditType) error {
	m := mapping.ToModelCreditType(creditType)
	query := `
		INSERT INTO credit_types (credit_type_id, name, schedule_method, is_active, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CreditTypeID, m.Name, m.ScheduleMethod, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, 1,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewDuplicateError("credit type named " + m.Name + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save credit type "+m.CreditTypeID, err)
	}
	return nil
}

// SaveCollectionType persists a new collection type.
func (r *PgxCatalogRepository) SaveCollectionType(ctx context.Context, collectionType domain.CollectionType) error {
	m := mapping.ToModelCollectionType(collectionType)
	query := `
		INSERT INTO collection_types (collection_type_id, code, name, is_waiver, is_active, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CollectionTypeID, m.Code, m.Name, m.IsWaiver, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, 1,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewDuplicateError("collection type with code " + m.Code + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save collection type "+m.CollectionTypeID, err)
	}
	return nil
}

// SaveBusinessLine persists a new business line.
func (r *PgxCatalogRepository) SaveBusinessLine(ctx context.Context, businessLine domain.BusinessLine) error {
	m := mapping.ToModelBusinessLine(businessLine)
	query := `
		INSERT INTO business_lines (business_line_id, name, is_active, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BusinessLineID, m.Name, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, 1,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewDuplicateError("business line named " + m.Name + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save business line "+m.BusinessLineID, err)
	}
	return nil
}

// SaveOrganism persists a new organism.
func (r *PgxCatalogRepository) SaveOrganism(ctx context.Context, organism domain.Organism) error {
	m := mapping.ToModelOrganism(organism)
	query := `
		INSERT INTO organisms (organism_id, name, business_line_id, city_id, is_active, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.OrganismID, m.Name, m.BusinessLineID, m.CityID, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, 1,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" {
				return apperrors.NewDuplicateError("organism named " + m.Name + " already exists")
			}
			if pgErr.Code == "23503" { // foreign_key_violation
				return apperrors.NewValidationFailedError("business line " + m.BusinessLineID + " does not exist")
			}
		}
		return apperrors.NewAppError(500, "failed to save organism "+m.OrganismID, err)
	}
	return nil
}

// DeactivateCreditType marks a credit type inactive.
func (r *PgxCatalogRepository) DeactivateCreditType(ctx context.Context, creditTypeID string, updatedBy string) error {
	query := `
		UPDATE credit_types
		SET is_active = FALSE, last_updated_at = NOW(), last_updated_by = $2, version = version + 1
		WHERE credit_type_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, creditTypeID, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate credit type "+creditTypeID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("credit type " + creditTypeID + " not found or already inactive")
	}
	return nil
}

// DeactivateOrganism marks an organism inactive.
func (r *PgxCatalogRepository) DeactivateOrganism(ctx context.Context, organismID string, updatedBy string) error {
	query := `
		UPDATE organisms
		SET is_active = FALSE, last_updated_at = NOW(), last_updated_by = $2, version = version + 1
		WHERE organism_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, organismID, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate organism "+organismID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("organism " + organismID + " not found or already inactive")
	}
	return nil
}
