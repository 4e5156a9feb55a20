package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nexaway/internal/domain"
	"nexaway/internal/domain/entity"
	"nexaway/internal/domain/value"
	"nexaway/pkg/errcodes"

	"github.com/jmoiron/sqlx"
)

const agencyColumns = `id, tax_id, company_name, official_name, category, email, phone,
		address, governorate, website, sectors, tourism_license,
		verification_status, trust_score, status, source, created_at, updated_at`

type AgencyRepository struct {
	db *sqlx.DB
}

// NewAgencyRepository creates a new repository instance.
func NewAgencyRepository(db *sqlx.DB) *AgencyRepository {
	return &AgencyRepository{db: db}
}

// withTx runs fn inside a transaction.
func (r *AgencyRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// Create persists a freshly registered agency.
func (r *AgencyRepository) Create(ctx context.Context, agency *entity.Agency) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO agencies (tax_id, company_name, official_name, category, email, phone,
				address, governorate, website, sectors, tourism_license,
				verification_status, trust_score, status, source, created_at, updated_at)
			VALUES (:tax_id, :company_name, :official_name, :category, :email, :phone,
				:address, :governorate, :website, :sectors, :tourism_license,
				:verification_status, :trust_score, :status, :source, :created_at, :updated_at)
			RETURNING id`

		schema := fromAgency(agency)
		if schema.CreatedAt.IsZero() {
			schema.CreatedAt = time.Now()
		}
		if schema.UpdatedAt.IsZero() {
			schema.UpdatedAt = schema.CreatedAt
		}

		rows, err := sqlx.NamedQueryContext(ctx, tx, query, schema)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert agency")
		}
		defer rows.Close()

		if rows.Next() {
			if err := rows.Scan(&agency.ID); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to scan agency id")
			}
		}

		agency.CreatedAt = schema.CreatedAt
		agency.UpdatedAt = schema.UpdatedAt

		return nil
	})
}

// GetByTaxID returns an agency by its RNE tax identifier.
func (r *AgencyRepository) GetByTaxID(ctx context.Context, taxID string) (*entity.Agency, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM agencies
		WHERE tax_id = $1`, agencyColumns)

	var schema agencySchema
	if err := r.db.GetContext(ctx, &schema, query, taxID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.AgencyNotFound, "agency not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get agency")
	}

	return schema.toDomain(), nil
}

// List returns a page of agencies, optionally filtered by status.
func (r *AgencyRepository) List(
	ctx context.Context,
	status value.AgencyStatus,
	limit, offset int,
) ([]entity.Agency, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM agencies
		WHERE ($1 = '' OR status = $1)
		ORDER BY id
		LIMIT $2 OFFSET $3`, agencyColumns)

	var schemas []agencySchema
	if err := r.db.SelectContext(ctx, &schemas, query, status.String(), limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list agencies")
	}

	agencies := make([]entity.Agency, 0, len(schemas))
	for _, s := range schemas {
		agencies = append(agencies, *s.toDomain())
	}

	return agencies, nil
}

// UpdateStatus moves an agency between pending/approved/rejected.
func (r *AgencyRepository) UpdateStatus(ctx context.Context, taxID string, status value.AgencyStatus) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE agencies
			SET status = $1, updated_at = $2
			WHERE tax_id = $3`

		return r.execUpdateTx(ctx, tx, query, status.String(), time.Now(), taxID)
	})
}

// UpdateVerification stores the latest registry verification outcome.
func (r *AgencyRepository) UpdateVerification(
	ctx context.Context,
	taxID string,
	status value.VerificationStatus,
) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE agencies
			SET verification_status = $1, updated_at = $2
			WHERE tax_id = $3`

		return r.execUpdateTx(ctx, tx, query, status.String(), time.Now(), taxID)
	})
}

// UpdateTrustScore persists a recomputed trust score.
func (r *AgencyRepository) UpdateTrustScore(ctx context.Context, taxID string, score int) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE agencies
			SET trust_score = $1, updated_at = $2
			WHERE tax_id = $3`

		return r.execUpdateTx(ctx, tx, query, score, time.Now(), taxID)
	})
}

// Exists reports whether an agency with the tax identifier is registered.
func (r *AgencyRepository) Exists(ctx context.Context, taxID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM agencies WHERE tax_id = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, taxID); err != nil {
		return false, domain.WrapError(err, errcodes.InternalServerError, "failed to check agency existence")
	}

	return exists, nil
}

// execUpdateTx runs an update and maps zero affected rows to AgencyNotFound.
func (r *AgencyRepository) execUpdateTx(ctx context.Context, tx *sqlx.Tx, query string, args ...any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to execute update")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.AgencyNotFound, "agency not found")
	}

	return nil
}
