package review_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nexaway/internal/domain"
	"nexaway/internal/domain/entity"
	"nexaway/internal/domain/service/review"
	"nexaway/internal/domain/value"
	"nexaway/pkg/errcodes"
)

type fakeReviewRepo struct {
	reviews map[string]*entity.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[string]*entity.Review{}}
}

func (r *fakeReviewRepo) Create(_ context.Context, review *entity.Review) error {
	stored := *review
	r.reviews[review.ReviewID] = &stored
	return nil
}

func (r *fakeReviewRepo) GetByReviewID(_ context.Context, reviewID string) (*entity.Review, error) {
	review, ok := r.reviews[reviewID]
	if !ok {
		return nil, domain.NewError(errcodes.ReviewNotFound, "review not found")
	}
	copied := *review
	return &copied, nil
}

func (r *fakeReviewRepo) List(_ context.Context, status value.ReviewStatus, limit, offset int) ([]entity.Review, int, error) {
	var all []entity.Review
	for _, review := range r.reviews {
		if status == "" || review.Status == status {
			all = append(all, *review)
		}
	}
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *fakeReviewRepo) ExistsForClient(_ context.Context, clientID, agencyTaxID string) (bool, error) {
	for _, review := range r.reviews {
		if review.ClientID == clientID && review.AgencyTaxID == agencyTaxID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReviewRepo) SetReply(_ context.Context, reviewID, reply string, repliedAt time.Time) error {
	review, ok := r.reviews[reviewID]
	if !ok {
		return domain.NewError(errcodes.ReviewNotFound, "review not found")
	}
	review.Reply = reply
	review.RepliedAt = repliedAt
	return nil
}

func (r *fakeReviewRepo) SetReRating(_ context.Context, reviewID string, reRating int, reComment string) error {
	review, ok := r.reviews[reviewID]
	if !ok {
		return domain.NewError(errcodes.ReviewNotFound, "review not found")
	}
	review.ReRating = reRating
	review.ReComment = reComment
	return nil
}

func (r *fakeReviewRepo) UpdateStatus(_ context.Context, reviewID string, status value.ReviewStatus) error {
	review, ok := r.reviews[reviewID]
	if !ok {
		return domain.NewError(errcodes.ReviewNotFound, "review not found")
	}
	review.Status = status
	return nil
}

type fakeAgencyRepo struct {
	known map[string]bool
}

func (r *fakeAgencyRepo) Exists(_ context.Context, taxID string) (bool, error) {
	return r.known[taxID], nil
}

func newService(reviewRepo *fakeReviewRepo) *review.ReviewService {
	agencyRepo := &fakeAgencyRepo{known: map[string]bool{"12345678A": true}}
	return review.NewReviewService(reviewRepo, agencyRepo, review.NewGuardian())
}

func validSubmission() entity.Review {
	return entity.Review{
		AgencyTaxID:   "12345678A",
		ClientID:      "client-1",
		CustomerName:  "Amira Ben Salah",
		CustomerEmail: "amira@corporate-travel.com",
		Rating:        4,
		Comment:       "Booking went smoothly and the guide knew the medina inside out.",
	}
}

func TestSubmitStoresPendingReview(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newFakeReviewRepo()
	svc := newService(repo)

	stored, err := svc.Submit(ctx, validSubmission())
	rq.NoError(err)
	rq.Equal(value.ReviewStatusPending, stored.Status)
	rq.Regexp(`^R-[0-9A-F]{8}$`, stored.ReviewID)
	rq.False(stored.CreatedAt.IsZero())
}

func TestSubmitRejectsSuspiciousReview(t *testing.T) {
	rq := require.New(t)

	repo := newFakeReviewRepo()
	svc := newService(repo)

	spam := validSubmission()
	spam.CustomerEmail = "bot123@gmail.com"
	spam.Rating = 5
	spam.Comment = "amazing perfect best ever"

	stored, err := svc.Submit(context.Background(), spam)
	rq.NoError(err, "suspicious reviews are stored, just rejected")
	rq.Equal(value.ReviewStatusRejected, stored.Status)
}

func TestSubmitValidation(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := newService(newFakeReviewRepo())

	noAgency := validSubmission()
	noAgency.AgencyTaxID = "99999999Z"
	_, err := svc.Submit(ctx, noAgency)
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.AgencyNotFound, code)

	badRating := validSubmission()
	badRating.Rating = 6
	_, err = svc.Submit(ctx, badRating)
	code, ok = domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InvalidRating, code)
}

func TestSubmitDuplicatePerClient(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := newService(newFakeReviewRepo())

	_, err := svc.Submit(ctx, validSubmission())
	rq.NoError(err)

	_, err = svc.Submit(ctx, validSubmission())
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.ReviewAlreadyExists, code)
}

func TestReplyOnceByOwningAgency(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newFakeReviewRepo()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newService(repo).WithClock(func() time.Time { return now })

	stored, err := svc.Submit(ctx, validSubmission())
	rq.NoError(err)

	err = svc.Reply(ctx, stored.ReviewID, "87654321B", "Thanks!")
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.Forbidden, code)

	rq.NoError(svc.Reply(ctx, stored.ReviewID, "12345678A", "Thanks for the kind words."))

	replied, err := svc.GetByReviewID(ctx, stored.ReviewID)
	rq.NoError(err)
	rq.Equal("Thanks for the kind words.", replied.Reply)
	rq.Equal(now, replied.RepliedAt)

	// Second reply is refused.
	err = svc.Reply(ctx, stored.ReviewID, "12345678A", "One more thing...")
	rq.Error(err)
}

func TestReRateRequiresReplyAndAuthor(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newFakeReviewRepo()
	svc := newService(repo)

	stored, err := svc.Submit(ctx, validSubmission())
	rq.NoError(err)

	// No reply yet.
	err = svc.ReRate(ctx, stored.ReviewID, "client-1", 5, "resolved")
	rq.Error(err)

	rq.NoError(svc.Reply(ctx, stored.ReviewID, "12345678A", "We fixed the issue."))

	// Wrong client.
	err = svc.ReRate(ctx, stored.ReviewID, "someone-else", 5, "resolved")
	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.Forbidden, code)

	rq.NoError(svc.ReRate(ctx, stored.ReviewID, "client-1", 5, "they fixed it"))

	rerated, err := svc.GetByReviewID(ctx, stored.ReviewID)
	rq.NoError(err)
	rq.Equal(5, rerated.ReRating)
	rq.Equal("they fixed it", rerated.ReComment)
}

func TestModeratePendingOnly(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	repo := newFakeReviewRepo()
	svc := newService(repo)

	stored, err := svc.Submit(ctx, validSubmission())
	rq.NoError(err)

	rq.Error(svc.Moderate(ctx, stored.ReviewID, value.ReviewStatusPending))

	rq.NoError(svc.Moderate(ctx, stored.ReviewID, value.ReviewStatusApproved))

	approved, err := svc.GetByReviewID(ctx, stored.ReviewID)
	rq.NoError(err)
	rq.Equal(value.ReviewStatusApproved, approved.Status)

	// Already moderated.
	rq.Error(svc.Moderate(ctx, stored.ReviewID, value.ReviewStatusRejected))
}
