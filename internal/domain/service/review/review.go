package review

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"nexaway/internal/domain"
	"nexaway/internal/domain/entity"
	"nexaway/internal/domain/value"
	"nexaway/pkg/errcodes"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByReviewID(ctx context.Context, reviewID string) (*entity.Review, error)
	List(ctx context.Context, status value.ReviewStatus, limit, offset int) ([]entity.Review, int, error)
	ExistsForClient(ctx context.Context, clientID, agencyTaxID string) (bool, error)
	SetReply(ctx context.Context, reviewID, reply string, repliedAt time.Time) error
	SetReRating(ctx context.Context, reviewID string, reRating int, reComment string) error
	UpdateStatus(ctx context.Context, reviewID string, status value.ReviewStatus) error
}

type AgencyRepository interface {
	Exists(ctx context.Context, taxID string) (bool, error)
}

type ReviewService struct {
	reviewRepo ReviewRepository
	agencyRepo AgencyRepository
	guardian   Guardian
	now        func() time.Time
}

func NewReviewService(
	reviewRepo ReviewRepository,
	agencyRepo AgencyRepository,
	guardian Guardian,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		agencyRepo: agencyRepo,
		guardian:   guardian,
		now:        time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (s *ReviewService) WithClock(now func() time.Time) *ReviewService {
	s.now = now
	return s
}

// Submit stores a new review as pending, or as rejected outright when the
// guardian flags it. One review per client per agency.
func (s *ReviewService) Submit(ctx context.Context, review entity.Review) (*entity.Review, error) {
	review.AgencyTaxID = value.PadTaxID(value.NormalizeTaxID(review.AgencyTaxID))
	if review.AgencyTaxID == "" {
		return nil, domain.NewError(errcodes.InvalidTaxID, "agency_tax_id is required")
	}

	if review.Rating < 1 || review.Rating > 5 {
		return nil, domain.NewError(errcodes.InvalidRating, "rating must be between 1 and 5")
	}

	exists, err := s.agencyRepo.Exists(ctx, review.AgencyTaxID)
	if err != nil {
		return nil, fmt.Errorf("agencyRepo.Exists: %w", err)
	}
	if !exists {
		return nil, domain.NewError(errcodes.AgencyNotFound, "agency not found")
	}

	if review.ClientID != "" {
		duplicate, err := s.reviewRepo.ExistsForClient(ctx, review.ClientID, review.AgencyTaxID)
		if err != nil {
			return nil, fmt.Errorf("reviewRepo.ExistsForClient: %w", err)
		}
		if duplicate {
			return nil, domain.NewError(errcodes.ReviewAlreadyExists,
				"you have already submitted a review for this agency")
		}
	}

	review.ReviewID = newReviewID()
	review.Status = value.ReviewStatusPending
	review.CreatedAt = s.now()

	if s.guardian.IsSuspicious(review) {
		review.Status = value.ReviewStatusRejected
		logger(ctx).Warn("suspicious review rejected",
			"review_id", review.ReviewID,
			"agency_tax_id", review.AgencyTaxID,
		)
	}

	if err := s.reviewRepo.Create(ctx, &review); err != nil {
		return nil, fmt.Errorf("reviewRepo.Create: %w", err)
	}

	return &review, nil
}

func (s *ReviewService) GetByReviewID(ctx context.Context, reviewID string) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByReviewID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("reviewRepo.GetByReviewID: %w", err)
	}

	return review, nil
}

func (s *ReviewService) List(ctx context.Context, status value.ReviewStatus, limit, offset int) ([]entity.Review, int, error) {
	reviews, total, err := s.reviewRepo.List(ctx, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("reviewRepo.List: %w", err)
	}

	return reviews, total, nil
}

// Reply records the agency answer. Only the reviewed agency may reply, and
// only once; the reply timestamp feeds the fast-reply trust signal.
func (s *ReviewService) Reply(ctx context.Context, reviewID, agencyTaxID, text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.NewError(errcodes.ValidationError, "reply text is required")
	}

	review, err := s.reviewRepo.GetByReviewID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("reviewRepo.GetByReviewID: %w", err)
	}

	if review.AgencyTaxID != value.PadTaxID(value.NormalizeTaxID(agencyTaxID)) {
		return domain.NewError(errcodes.Forbidden, "not authorized to reply to this review")
	}

	if review.Reply != "" {
		return domain.NewError(errcodes.ValidationError, "review already has a reply")
	}

	if err := s.reviewRepo.SetReply(ctx, reviewID, text, s.now()); err != nil {
		return fmt.Errorf("reviewRepo.SetReply: %w", err)
	}

	return nil
}

// ReRate records the customer's follow-up rating after an agency reply. A
// re-rating of 4 or 5 counts as a resolution for the trust score.
func (s *ReviewService) ReRate(ctx context.Context, reviewID, clientID string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return domain.NewError(errcodes.InvalidRating, "rating must be between 1 and 5")
	}

	review, err := s.reviewRepo.GetByReviewID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("reviewRepo.GetByReviewID: %w", err)
	}

	if review.ClientID == "" || review.ClientID != clientID {
		return domain.NewError(errcodes.Forbidden, "only the original reviewer can re-rate")
	}

	if review.Reply == "" {
		return domain.NewError(errcodes.ValidationError, "nothing to re-rate: the agency has not replied")
	}

	if err := s.reviewRepo.SetReRating(ctx, reviewID, rating, comment); err != nil {
		return fmt.Errorf("reviewRepo.SetReRating: %w", err)
	}

	return nil
}

// Moderate moves a pending review to approved or rejected.
func (s *ReviewService) Moderate(ctx context.Context, reviewID string, status value.ReviewStatus) error {
	if status != value.ReviewStatusApproved && status != value.ReviewStatusRejected {
		return domain.NewError(errcodes.InvalidReviewStatus, "status must be approved or rejected")
	}

	review, err := s.reviewRepo.GetByReviewID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("reviewRepo.GetByReviewID: %w", err)
	}

	if review.Status != value.ReviewStatusPending {
		return domain.NewError(errcodes.InvalidReviewStatus, "only pending reviews can be moderated")
	}

	if err := s.reviewRepo.UpdateStatus(ctx, reviewID, status); err != nil {
		return fmt.Errorf("reviewRepo.UpdateStatus: %w", err)
	}

	return nil
}

func newReviewID() string {
	return "R-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
