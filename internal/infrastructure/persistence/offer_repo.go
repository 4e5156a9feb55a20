package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nexaway/internal/domain"
	"nexaway/internal/domain/entity"
	"nexaway/internal/domain/service/offer"
	"nexaway/pkg/errcodes"

	"github.com/jmoiron/sqlx"
)

const offerColumns = `id, offer_id, agency_tax_id, agency_name, type, title, price, currency,
		from_city, to_city, depart_date, return_date, seats_available, description, created_at`

type OfferRepository struct {
	db *sqlx.DB
}

// NewOfferRepository creates a new repository instance.
func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

func (r *OfferRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
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

// Create persists a published offer.
func (r *OfferRepository) Create(ctx context.Context, o *entity.Offer) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO offers (offer_id, agency_tax_id, agency_name, type, title, price, currency,
				from_city, to_city, depart_date, return_date, seats_available, description, created_at)
			VALUES (:offer_id, :agency_tax_id, :agency_name, :type, :title, :price, :currency,
				:from_city, :to_city, :depart_date, :return_date, :seats_available, :description, :created_at)
			RETURNING id`

		schema := fromOffer(o)
		if schema.CreatedAt.IsZero() {
			schema.CreatedAt = time.Now()
		}

		rows, err := sqlx.NamedQueryContext(ctx, tx, query, schema)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert offer")
		}
		defer rows.Close()

		if rows.Next() {
			if err := rows.Scan(&o.ID); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to scan offer id")
			}
		}

		o.CreatedAt = schema.CreatedAt

		return nil
	})
}

// GetByOfferID returns an offer by its public identifier.
func (r *OfferRepository) GetByOfferID(ctx context.Context, offerID string) (*entity.Offer, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM offers
		WHERE offer_id = $1`, offerColumns)

	var schema offerSchema
	if err := r.db.GetContext(ctx, &schema, query, offerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.OfferNotFound, "offer not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get offer")
	}

	return schema.toDomain(), nil
}

// List returns offers matching the filter, cheapest first.
func (r *OfferRepository) List(ctx context.Context, filter offer.Filter) ([]entity.Offer, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM offers
		WHERE ($1 = '' OR from_city = $1)
		  AND ($2 = '' OR type = $2)
		  AND ($3 <= 0 OR price <= $3)
		ORDER BY price ASC, id ASC`, offerColumns)

	var schemas []offerSchema
	if err := r.db.SelectContext(ctx, &schemas, query, filter.FromCity, filter.Type, filter.MaxPrice); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list offers")
	}

	offers := make([]entity.Offer, 0, len(schemas))
	for _, s := range schemas {
		offers = append(offers, *s.toDomain())
	}

	return offers, nil
}

// Update rewrites the mutable fields of an offer.
func (r *OfferRepository) Update(ctx context.Context, o *entity.Offer) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE offers
			SET type = $1, title = $2, price = $3, currency = $4,
				from_city = $5, to_city = $6, depart_date = $7, return_date = $8,
				seats_available = $9, description = $10
			WHERE offer_id = $11`

		return r.execUpdateTx(ctx, tx, query,
			o.Type, o.Title, o.Price, o.Currency,
			o.FromCity, o.ToCity, o.DepartDate, o.ReturnDate,
			o.SeatsAvailable, o.Description, o.OfferID)
	})
}

// Delete removes an offer.
func (r *OfferRepository) Delete(ctx context.Context, offerID string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `DELETE FROM offers WHERE offer_id = $1`

		return r.execUpdateTx(ctx, tx, query, offerID)
	})
}

// NextSequence returns the next numeric suffix for a public offer ID.
// Derived from the highest stored suffix, so the resulting ID can never
// collide with a live offer no matter how many rows were deleted.
func (r *OfferRepository) NextSequence(ctx context.Context) (int, error) {
	query := `SELECT COALESCE(MAX(SUBSTRING(offer_id FROM 3)::int), 0) + 1 FROM offers`

	var next int
	if err := r.db.GetContext(ctx, &next, query); err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to compute next offer sequence")
	}

	return next, nil
}

func (r *OfferRepository) execUpdateTx(ctx context.Context, tx *sqlx.Tx, query string, args ...any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to execute update")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.OfferNotFound, "offer not found")
	}

	return nil
}
