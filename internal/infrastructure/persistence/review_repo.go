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

const reviewColumns = `id, review_id, agency_tax_id, client_id, customer_name, customer_email,
		rating, comment, status, reply, replied_at, re_rating, re_comment, created_at`

type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new repository instance.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
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

// Create persists a submitted review.
func (r *ReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO reviews (review_id, agency_tax_id, client_id, customer_name, customer_email,
				rating, comment, status, created_at)
			VALUES (:review_id, :agency_tax_id, :client_id, :customer_name, :customer_email,
				:rating, :comment, :status, :created_at)
			RETURNING id`

		createdAt := review.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		params := map[string]any{
			"review_id":      review.ReviewID,
			"agency_tax_id":  review.AgencyTaxID,
			"client_id":      review.ClientID,
			"customer_name":  review.CustomerName,
			"customer_email": review.CustomerEmail,
			"rating":         review.Rating,
			"comment":        review.Comment,
			"status":         review.Status.String(),
			"created_at":     createdAt,
		}

		rows, err := sqlx.NamedQueryContext(ctx, tx, query, params)
		if err != nil {
			return domain.WrapError(err, errcodes.InternalServerError, "failed to insert review")
		}
		defer rows.Close()

		if rows.Next() {
			if err := rows.Scan(&review.ID); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError, "failed to scan review id")
			}
		}

		review.CreatedAt = createdAt

		return nil
	})
}

// GetByReviewID returns a review by its public identifier.
func (r *ReviewRepository) GetByReviewID(ctx context.Context, reviewID string) (*entity.Review, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reviews
		WHERE review_id = $1`, reviewColumns)

	var schema reviewSchema
	if err := r.db.GetContext(ctx, &schema, query, reviewID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewError(errcodes.ReviewNotFound, "review not found")
		}
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to get review")
	}

	return schema.toDomain(), nil
}

// List returns a page of reviews with the total count, optionally filtered by status.
func (r *ReviewRepository) List(
	ctx context.Context,
	status value.ReviewStatus,
	limit, offset int,
) ([]entity.Review, int, error) {
	countQuery := `SELECT COUNT(*) FROM reviews WHERE ($1 = '' OR status = $1)`

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, status.String()); err != nil {
		return nil, 0, domain.WrapError(err, errcodes.InternalServerError, "failed to count reviews")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM reviews
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`, reviewColumns)

	var schemas []reviewSchema
	if err := r.db.SelectContext(ctx, &schemas, query, status.String(), limit, offset); err != nil {
		return nil, 0, domain.WrapError(err, errcodes.InternalServerError, "failed to list reviews")
	}

	reviews := make([]entity.Review, 0, len(schemas))
	for _, s := range schemas {
		reviews = append(reviews, *s.toDomain())
	}

	return reviews, total, nil
}

// ListByAgency returns all reviews for an agency in the given status.
func (r *ReviewRepository) ListByAgency(
	ctx context.Context,
	taxID string,
	status value.ReviewStatus,
) ([]entity.Review, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM reviews
		WHERE agency_tax_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id DESC`, reviewColumns)

	var schemas []reviewSchema
	if err := r.db.SelectContext(ctx, &schemas, query, taxID, status.String()); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list agency reviews")
	}

	reviews := make([]entity.Review, 0, len(schemas))
	for _, s := range schemas {
		reviews = append(reviews, *s.toDomain())
	}

	return reviews, nil
}

// CountByAgency counts an agency's reviews in the given status.
func (r *ReviewRepository) CountByAgency(
	ctx context.Context,
	taxID string,
	status value.ReviewStatus,
) (int, error) {
	query := `SELECT COUNT(*) FROM reviews WHERE agency_tax_id = $1 AND ($2 = '' OR status = $2)`

	var count int
	if err := r.db.GetContext(ctx, &count, query, taxID, status.String()); err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to count agency reviews")
	}

	return count, nil
}

// ExistsForClient reports whether a client already reviewed the agency.
func (r *ReviewRepository) ExistsForClient(ctx context.Context, clientID, agencyTaxID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reviews WHERE client_id = $1 AND agency_tax_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, clientID, agencyTaxID); err != nil {
		return false, domain.WrapError(err, errcodes.InternalServerError, "failed to check review existence")
	}

	return exists, nil
}

// SetReply stores the agency's answer to a review.
func (r *ReviewRepository) SetReply(ctx context.Context, reviewID, reply string, repliedAt time.Time) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE reviews
			SET reply = $1, replied_at = $2
			WHERE review_id = $3`

		return r.execUpdateTx(ctx, tx, query, reply, repliedAt, reviewID)
	})
}

// SetReRating stores the customer's post-reply re-rating.
func (r *ReviewRepository) SetReRating(ctx context.Context, reviewID string, reRating int, reComment string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE reviews
			SET re_rating = $1, re_comment = $2
			WHERE review_id = $3`

		return r.execUpdateTx(ctx, tx, query, reRating, reComment, reviewID)
	})
}

// UpdateStatus moves a review through moderation.
func (r *ReviewRepository) UpdateStatus(ctx context.Context, reviewID string, status value.ReviewStatus) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE reviews
			SET status = $1
			WHERE review_id = $2`

		return r.execUpdateTx(ctx, tx, query, status.String(), reviewID)
	})
}

func (r *ReviewRepository) execUpdateTx(ctx context.Context, tx *sqlx.Tx, query string, args ...any) error {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to execute update")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	if rows == 0 {
		return domain.NewError(errcodes.ReviewNotFound, "review not found")
	}

	return nil
}
