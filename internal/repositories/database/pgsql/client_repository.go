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
	"github.com/credisur/creditledger/internal/utils/mapping"
	"github.com/credisur/creditledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxClientRepository struct {
	BaseRepository
}

// newPgxClientRepository creates a new repository for client data.
func newPgxClientRepository(pool *pgxpool.Pool) portsrepo.ClientRepositoryWithTx {
	return &PgxClientRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxClientRepository implements portsrepo.ClientRepositoryWithTx
var _ portsrepo.ClientRepositoryWithTx = (*PgxClientRepository)(nil)

var FULL_CLIENT_SELECT_QUERY = `
SELECT
	cl.client_id, cl.first_name, cl.last_name, cl.dni, cl.cuil,
	cl.gender_id, cl.marital_status_id, cl.nationality_id, cl.province_id, cl.city_id,
	cl.street, cl.is_active, cl.status_date,
	cl.created_at, cl.created_by, cl.last_updated_at, cl.last_updated_by, cl.version
FROM clients cl
`

// getClients runs the shared client select with the given filter suffix.
func (r *PgxClientRepository) getClients(ctx context.Context, filterQuery string, args ...any) ([]models.Client, error) {
	query := FULL_CLIENT_SELECT_QUERY + filterQuery
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query clients", err)
	}
	defer rows.Close()

	modelClients := []models.Client{}
	for rows.Next() {
		var m models.Client
		err := rows.Scan(
			&m.ClientID,
			&m.FirstName,
			&m.LastName,
			&m.DNI,
			&m.CUIL,
			&m.GenderID,
			&m.MaritalStatusID,
			&m.NationalityID,
			&m.ProvinceID,
			&m.CityID,
			&m.Street,
			&m.IsActive,
			&m.StatusDate,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
			&m.Version,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan client row", err)
		}
		modelClients = append(modelClients, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating client rows", err)
	}
	return modelClients, nil
}

// FindClientByID retrieves a client by its ID.
func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	clients, err := r.getClients(ctx, `WHERE cl.client_id = $1`, clientID)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, apperrors.ErrNotFound
	}
	domainClient := mapping.ToDomainClient(clients[0])
	return &domainClient, nil
}

// FindClientByCUIL retrieves a client by its normalized CUIL.
func (r *PgxClientRepository) FindClientByCUIL(ctx context.Context, cuil string) (*domain.Client, error) {
	clients, err := r.getClients(ctx, `WHERE cl.cuil = $1`, cuil)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, apperrors.ErrNotFound
	}
	domainClient := mapping.ToDomainClient(clients[0])
	return &domainClient, nil
}

// ListClients retrieves a paginated list of clients, newest first, using
// token-based pagination on the creation time.
func (r *PgxClientRepository) ListClients(ctx context.Context, limit int, nextToken *string) ([]domain.Client, *string, error) {
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
		filter = `WHERE cl.created_at < $1 ORDER BY cl.created_at DESC`
		args = append(args, lastCreatedAt)
	} else {
		filter = `ORDER BY cl.created_at DESC`
	}
	filter += ` LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	modelClients, err := r.getClients(ctx, filter, args...)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	results := modelClients
	if len(modelClients) > limit {
		lastClient := modelClients[limit-1]
		token := pagination.EncodeDateBasedToken(lastClient.CreatedAt)
		nextTokenVal = &token
		results = modelClients[:limit]
	}

	return mapping.ToDomainClientSlice(results), nextTokenVal, nil
}

// SaveClient persists a new client.
func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
		INSERT INTO clients (
			client_id, first_name, last_name, dni, cuil,
			gender_id, marital_status_id, nationality_id, province_id, city_id,
			street, is_active, status_date,
			created_at, created_by, last_updated_at, last_updated_by, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ClientID,
		m.FirstName,
		m.LastName,
		m.DNI,
		m.CUIL,
		m.GenderID,
		m.MaritalStatusID,
		m.NationalityID,
		m.ProvinceID,
		m.CityID,
		m.Street,
		m.IsActive,
		m.StatusDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		1,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.NewDuplicateError("client with CUIL " + m.CUIL + " already exists")
		}
		return apperrors.NewAppError(500, "failed to save client "+m.ClientID, err)
	}
	return nil
}

// UpdateClient persists changes to an existing client.
func (r *PgxClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	m := mapping.ToModelClient(client)
	query := `
		UPDATE clients
		SET first_name = $2, last_name = $3, dni = $4, cuil = $5,
		    gender_id = $6, marital_status_id = $7, nationality_id = $8, province_id = $9, city_id = $10,
		    street = $11, is_active = $12, status_date = $13,
		    last_updated_at = $14, last_updated_by = $15, version = version + 1
		WHERE client_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.ClientID,
		m.FirstName,
		m.LastName,
		m.DNI,
		m.CUIL,
		m.GenderID,
		m.MaritalStatusID,
		m.NationalityID,
		m.ProvinceID,
		m.CityID,
		m.Street,
		m.IsActive,
		m.StatusDate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewDuplicateError("client with CUIL " + m.CUIL + " already exists")
		}
		return apperrors.NewAppError(500, "failed to update client "+m.ClientID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("client " + m.ClientID + " not found for update")
	}
	return nil
}

// DeactivateClient marks a client inactive, stamps the status date, and
// archives its phones, addresses and employment records in one transaction.
func (r *PgxClientRepository) DeactivateClient(ctx context.Context, clientID string, updatedBy string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	now := time.Now().UTC()
	clientQuery := `
		UPDATE clients
		SET is_active = FALSE, status_date = $2, last_updated_at = $2, last_updated_by = $3, version = version + 1
		WHERE client_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := tx.Exec(ctx, clientQuery, clientID, now, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate client "+clientID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("client " + clientID + " not found or already inactive")
	}

	batch := &pgx.Batch{}
	for _, table := range []string{"client_phones", "client_addresses", "employment_records"} {
		archiveQuery := fmt.Sprintf(`
			UPDATE %s
			SET archived_at = $2, last_updated_at = $2, last_updated_by = $3, version = version + 1
			WHERE client_id = $1 AND archived_at IS NULL;
		`, table)
		batch.Queue(archiveQuery, clientID, now, updatedBy)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to archive child records of client "+clientID, err)
	}

	return r.Commit(ctx, tx)
}

// FindPhonesByClientID retrieves a client's unarchived phones.
func (r *PgxClientRepository) FindPhonesByClientID(ctx context.Context, clientID string) ([]domain.ClientPhone, error) {
	query := `
		SELECT phone_id, client_id, number, kind, archived_at,
		       created_at, created_by, last_updated_at, last_updated_by, version
		FROM client_phones
		WHERE client_id = $1 AND archived_at IS NULL
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query phones for client "+clientID, err)
	}
	defer rows.Close()

	modelPhones, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ClientPhone])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect phone rows for client "+clientID, err)
	}
	return mapping.ToDomainClientPhoneSlice(modelPhones), nil
}

// FindAddressesByClientID retrieves a client's unarchived addresses.
func (r *PgxClientRepository) FindAddressesByClientID(ctx context.Context, clientID string) ([]domain.ClientAddress, error) {
	query := `
		SELECT address_id, client_id, street, number, floor, city_id, province_id, postal_code, archived_at,
		       created_at, created_by, last_updated_at, last_updated_by, version
		FROM client_addresses
		WHERE client_id = $1 AND archived_at IS NULL
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query addresses for client "+clientID, err)
	}
	defer rows.Close()

	modelAddresses, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ClientAddress])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect address rows for client "+clientID, err)
	}
	return mapping.ToDomainClientAddressSlice(modelAddresses), nil
}

// FindEmploymentByClientID retrieves a client's unarchived employment records.
func (r *PgxClientRepository) FindEmploymentByClientID(ctx context.Context, clientID string) ([]domain.EmploymentRecord, error) {
	query := `
		SELECT employment_id, client_id, employer, position, monthly_income, since, archived_at,
		       created_at, created_by, last_updated_at, last_updated_by, version
		FROM employment_records
		WHERE client_id = $1 AND archived_at IS NULL
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query employment records for client "+clientID, err)
	}
	defer rows.Close()

	modelRecords, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.EmploymentRecord])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to collect employment rows for client "+clientID, err)
	}
	return mapping.ToDomainEmploymentRecordSlice(modelRecords), nil
}

// SavePhone persists a new client phone.
func (r *PgxClientRepository) SavePhone(ctx context.Context, phone domain.ClientPhone) error {
	m := mapping.ToModelClientPhone(phone)
	query := `
		INSERT INTO client_phones (phone_id, client_id, number, kind, archived_at, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PhoneID, m.ClientID, m.Number, m.Kind, m.ArchivedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, 1,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign_key_violation
			return apperrors.NewValidationFailedError("client " + m.ClientID + " does not exist")
		}
		return apperrors.NewAppError(500, "failed to save phone "+m.PhoneID, err)
	}
	return nil
}

// ArchivePhone marks a client phone archived.
func (r *PgxClientRepository) ArchivePhone(ctx context.Context, phoneID string, updatedBy string) error {
	return r.archiveChildRecord(ctx, "client_phones", "phone_id", phoneID, updatedBy)
}

// SaveAddress persists a new client address.
func (r *PgxClientRepository) SaveAddress(ctx context.Context, address domain.ClientAddress) error {
	m := mapping.ToModelClientAddress(address)
	query := `
		INSERT INTO client_addresses (address_id, client_id, street, number, floor, city_id, province_id, postal_code, archived_at, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AddressID, m.ClientID, m.Street, m.Number, m.Floor, m.CityID, m.ProvinceID, m.PostalCode, m.ArchivedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, 1,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.NewValidationFailedError("client " + m.ClientID + " does not exist")
		}
		return apperrors.NewAppError(500, "failed to save address "+m.AddressID, err)
	}
	return nil
}

// ArchiveAddress marks a client address archived.
func (r *PgxClientRepository) ArchiveAddress(ctx context.Context, addressID string, updatedBy string) error {
	return r.archiveChildRecord(ctx, "client_addresses", "address_id", addressID, updatedBy)
}

// SaveEmployment persists a new employment record.
func (r *PgxClientRepository) SaveEmployment(ctx context.Context, employment domain.EmploymentRecord) error {
	m := mapping.ToModelEmploymentRecord(employment)
	query := `
		INSERT INTO employment_records (employment_id, client_id, employer, position, monthly_income, since, archived_at, created_at, created_by, last_updated_at, last_updated_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EmploymentID, m.ClientID, m.Employer, m.Position, m.MonthlyIncome, m.Since, m.ArchivedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy, 1,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperrors.NewValidationFailedError("client " + m.ClientID + " does not exist")
		}
		return apperrors.NewAppError(500, "failed to save employment record "+m.EmploymentID, err)
	}
	return nil
}

// ArchiveEmployment marks an employment record archived.
func (r *PgxClientRepository) ArchiveEmployment(ctx context.Context, employmentID string, updatedBy string) error {
	return r.archiveChildRecord(ctx, "employment_records", "employment_id", employmentID, updatedBy)
}

// archiveChildRecord stamps archived_at on one child row. The table and
// column names come from a fixed set above, never from user input.
func (r *PgxClientRepository) archiveChildRecord(ctx context.Context, table string, idColumn string, id string, updatedBy string) error {
	query := `
		UPDATE ` + table + `
		SET archived_at = NOW(), last_updated_at = NOW(), last_updated_by = $2, version = version + 1
		WHERE ` + idColumn + ` = $1 AND archived_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, id, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to archive "+table+" record "+id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(table + " record " + id + " not found or already archived")
	}
	return nil
}
