package agency_test

import (
	"context"
	"testing"
	"time"

	"git.appkode.ru/pub/go/failure"
	cache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/require"

	"nexaway/internal/domain"
	"nexaway/internal/domain/entity"
	"nexaway/internal/domain/service/agency"
	"nexaway/internal/domain/value"
	"nexaway/pkg/errcodes"
)

type fakeAgencyRepo struct {
	agencies map[string]*entity.Agency
}

func newFakeAgencyRepo() *fakeAgencyRepo {
	return &fakeAgencyRepo{agencies: map[string]*entity.Agency{}}
}

func (r *fakeAgencyRepo) Create(_ context.Context, a *entity.Agency) error {
	stored := *a
	r.agencies[a.TaxID] = &stored
	return nil
}

func (r *fakeAgencyRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Agency, error) {
	a, ok := r.agencies[taxID]
	if !ok {
		return nil, domain.NewError(errcodes.AgencyNotFound, "agency not found")
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAgencyRepo) List(_ context.Context, status value.AgencyStatus, limit, offset int) ([]entity.Agency, error) {
	var all []entity.Agency
	for _, a := range r.agencies {
		if status == "" || a.Status == status {
			all = append(all, *a)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeAgencyRepo) UpdateStatus(_ context.Context, taxID string, status value.AgencyStatus) error {
	a, ok := r.agencies[taxID]
	if !ok {
		return domain.NewError(errcodes.AgencyNotFound, "agency not found")
	}
	a.Status = status
	return nil
}

func (r *fakeAgencyRepo) UpdateVerification(_ context.Context, taxID string, status value.VerificationStatus) error {
	a, ok := r.agencies[taxID]
	if !ok {
		return domain.NewError(errcodes.AgencyNotFound, "agency not found")
	}
	a.VerificationStatus = status
	return nil
}

func (r *fakeAgencyRepo) UpdateTrustScore(_ context.Context, taxID string, score int) error {
	a, ok := r.agencies[taxID]
	if !ok {
		return domain.NewError(errcodes.AgencyNotFound, "agency not found")
	}
	a.TrustScore = score
	return nil
}

func (r *fakeAgencyRepo) Exists(_ context.Context, taxID string) (bool, error) {
	_, ok := r.agencies[taxID]
	return ok, nil
}

type fakeReviewRepo struct {
	reviews map[string][]entity.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[string][]entity.Review{}}
}

func (r *fakeReviewRepo) ListByAgency(_ context.Context, taxID string, status value.ReviewStatus) ([]entity.Review, error) {
	var result []entity.Review
	for _, review := range r.reviews[taxID] {
		if status == "" || review.Status == status {
			result = append(result, review)
		}
	}
	return result, nil
}

func (r *fakeReviewRepo) CountByAgency(ctx context.Context, taxID string, status value.ReviewStatus) (int, error) {
	reviews, _ := r.ListByAgency(ctx, taxID, status)
	return len(reviews), nil
}

type fakeRegistry struct {
	calls    int
	verified bool
}

func (f *fakeRegistry) Verify(_ context.Context, _ string) (agency.RegistryVerification, error) {
	f.calls++
	if f.verified {
		return agency.RegistryVerification{Verified: true, ScoreBoost: 25}, nil
	}
	return agency.RegistryVerification{}, nil
}

func validAgency() entity.Agency {
	return entity.Agency{
		TaxID:        "12345678A",
		CompanyName:  "Voyages Carthage",
		OfficialName: "SARL Voyages Carthage",
		Email:        "contact@carthage-travel.tn",
		Phone:        "+21671123456",
		Governorate:  "Tunis",
	}
}

func newService(agencyRepo *fakeAgencyRepo, reviewRepo *fakeReviewRepo) *agency.AgencyService {
	return agency.NewAgencyService(agencyRepo, reviewRepo, &fakeRegistry{}, nil)
}

func TestRegisterStoresPendingAgency(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	agencyRepo := newFakeAgencyRepo()
	svc := newService(agencyRepo, newFakeReviewRepo())

	result, err := svc.Register(ctx, validAgency())
	rq.NoError(err)

	// Base 50 + phone 15 + email 15 + tax id 20 + official name 10.
	rq.Equal(100, result.Score)

	stored, err := agencyRepo.GetByTaxID(ctx, "12345678A")
	rq.NoError(err)
	rq.Equal(value.AgencyStatusPending, stored.Status)
	rq.Equal(value.VerificationStatusPending, stored.VerificationStatus)
	rq.Equal(100, stored.TrustScore)
	rq.Equal("api", stored.Source)
}

func TestRegisterNormalizesTaxID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	agencyRepo := newFakeAgencyRepo()
	svc := newService(agencyRepo, newFakeReviewRepo())

	a := validAgency()
	a.TaxID = " 1234-5678-a "

	_, err := svc.Register(ctx, a)
	rq.NoError(err)

	_, err = agencyRepo.GetByTaxID(ctx, "12345678A")
	rq.NoError(err)
}

func TestRegisterRejectsLowScore(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	agencyRepo := newFakeAgencyRepo()
	svc := newService(agencyRepo, newFakeReviewRepo())

	// Malformed everything: 50 - 20 - 20 - 25 = -15, clamped to 0.
	a := entity.Agency{
		TaxID:       "XX",
		CompanyName: "Shady Tours",
		Email:       "bad",
		Phone:       "123",
	}

	_, err := svc.Register(ctx, a)
	rq.Error(err)

	exists, err := agencyRepo.Exists(ctx, "000000XX")
	rq.NoError(err)
	rq.False(exists, "rejected agency must not be stored")
}

func TestRegisterRejectionCarriesReasons(t *testing.T) {
	rq := require.New(t)

	events := make(chan agency.Event, 1)
	svc := newService(newFakeAgencyRepo(), newFakeReviewRepo()).WithEvents(events)

	a := entity.Agency{
		TaxID:       "XX",
		CompanyName: "Shady Tours",
		Email:       "bad",
		Phone:       "123",
	}

	_, err := svc.Register(context.Background(), a)
	rq.Error(err)

	var withReasons interface{ Reasons() []string }
	rq.ErrorAs(err, &withReasons)
	rq.NotEmpty(withReasons.Reasons())

	var coded interface{ ErrorCode() failure.ErrorCode }
	rq.ErrorAs(err, &coded)
	rq.Equal(errcodes.TrustScoreTooLow, coded.ErrorCode())

	select {
	case event := <-events:
		rq.Equal(agency.EventRejected, event.Type)
		rq.NotEmpty(event.Reasons)
	default:
		t.Fatal("expected a rejection event")
	}
}

func TestLookupsCanonicalizeShortTaxIDs(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	agencyRepo := newFakeAgencyRepo()
	svc := newService(agencyRepo, newFakeReviewRepo())

	a := validAgency()
	a.TaxID = "1234567-a" // stored as 01234567A

	_, err := svc.Register(ctx, a)
	rq.NoError(err)

	stored, err := svc.GetByTaxID(ctx, "1234567a")
	rq.NoError(err)
	rq.Equal("01234567A", stored.TaxID)

	rq.NoError(svc.Approve(ctx, "1234567A"))

	result, err := svc.Score(ctx, " 1234567-A ")
	rq.NoError(err)
	rq.NotZero(result.Score)

	rq.NoError(svc.Reject(ctx, "1234567A"))
}

func TestRegisterDuplicateTaxID(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := newService(newFakeAgencyRepo(), newFakeReviewRepo())

	_, err := svc.Register(ctx, validAgency())
	rq.NoError(err)

	_, err = svc.Register(ctx, validAgency())
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.DuplicateTaxID, code)
}

func TestRegisterUnknownGovernorate(t *testing.T) {
	rq := require.New(t)

	svc := newService(newFakeAgencyRepo(), newFakeReviewRepo())

	a := validAgency()
	a.Governorate = "Atlantis"

	_, err := svc.Register(context.Background(), a)
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InvalidGovernorate, code)
}

func TestScoreUsesApprovedReviewsOnly(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	agencyRepo := newFakeAgencyRepo()
	reviewRepo := newFakeReviewRepo()
	svc := newService(agencyRepo, reviewRepo)

	_, err := svc.Register(ctx, validAgency())
	rq.NoError(err)

	reviewRepo.reviews["12345678A"] = []entity.Review{
		{AgencyTaxID: "12345678A", Rating: 5, Status: value.ReviewStatusApproved},
		{AgencyTaxID: "12345678A", Rating: 1, Status: value.ReviewStatusPending},
		{AgencyTaxID: "12345678A", Rating: 1, Status: value.ReviewStatusRejected},
	}

	result, err := svc.Score(ctx, "12345678A")
	rq.NoError(err)

	// Structural 100 + avg>=4 bonus 20, clamped to 100.
	rq.Equal(100, result.Score)
	rq.Contains(result.Components, "reviews")
}

func TestRecalculateAllPersistsChangedScores(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	agencyRepo := newFakeAgencyRepo()
	reviewRepo := newFakeReviewRepo()
	svc := newService(agencyRepo, reviewRepo)

	_, err := svc.Register(ctx, validAgency())
	rq.NoError(err)
	rq.NoError(svc.Approve(ctx, "12345678A"))

	// Bad reviews drag the recomputed score below the stored 100.
	reviewRepo.reviews["12345678A"] = []entity.Review{
		{AgencyTaxID: "12345678A", Rating: 1, Status: value.ReviewStatusApproved},
		{AgencyTaxID: "12345678A", Rating: 2, Status: value.ReviewStatusApproved},
	}

	updated, err := svc.RecalculateAll(ctx)
	rq.NoError(err)
	rq.Equal(1, updated)

	stored, err := agencyRepo.GetByTaxID(ctx, "12345678A")
	rq.NoError(err)
	rq.Equal(95, stored.TrustScore) // 50 base + 60 structural - 15 bad reviews, one final clamp

	// A second pass finds nothing to change.
	updated, err = svc.RecalculateAll(ctx)
	rq.NoError(err)
	rq.Equal(0, updated)
}

func TestVerifyRegistryCachesLookups(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	agencyRepo := newFakeAgencyRepo()
	registry := &fakeRegistry{verified: true}

	svc := agency.NewAgencyService(agencyRepo, newFakeReviewRepo(), registry,
		cache.New(time.Minute, time.Minute))

	_, err := svc.Register(ctx, validAgency())
	rq.NoError(err)

	verification, err := svc.VerifyRegistry(ctx, "12345678A")
	rq.NoError(err)
	rq.True(verification.Verified)
	rq.Equal(25, verification.ScoreBoost)
	rq.Equal(1, registry.calls)

	// Second lookup is served from the cache.
	verification, err = svc.VerifyRegistry(ctx, "12345678A")
	rq.NoError(err)
	rq.True(verification.Verified)
	rq.Equal(1, registry.calls)

	stored, err := agencyRepo.GetByTaxID(ctx, "12345678A")
	rq.NoError(err)
	rq.Equal(value.VerificationStatusVerified, stored.VerificationStatus)
}

func TestListByTrustOrdersBestFirst(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	agencyRepo := newFakeAgencyRepo()
	reviewRepo := newFakeReviewRepo()
	svc := newService(agencyRepo, reviewRepo)

	strong := validAgency()
	_, err := svc.Register(ctx, strong)
	rq.NoError(err)

	weak := validAgency()
	weak.TaxID = "87654321B"
	weak.Phone = ""
	weak.OfficialName = ""
	_, err = svc.Register(ctx, weak)
	rq.NoError(err)

	listings, err := svc.ListByTrust(ctx, value.AgencyStatusPending)
	rq.NoError(err)
	rq.Len(listings, 2)
	rq.Equal("12345678A", listings[0].Agency.TaxID)
	rq.GreaterOrEqual(listings[0].Score.Score, listings[1].Score.Score)
}

func TestIsPremium(t *testing.T) {
	rq := require.New(t)

	rq.True(agency.IsPremium(81))
	rq.False(agency.IsPremium(80))
	rq.False(agency.IsPremium(50))
}

func TestEstimateRisk(t *testing.T) {
	rq := require.New(t)

	svc := newService(newFakeAgencyRepo(), newFakeReviewRepo())

	trusted := validAgency()
	trusted.TrustScore = 95

	risk := svc.EstimateRisk(trusted, agency.RegistryVerification{Verified: true})
	rq.Equal(0, risk) // 50 - 20 - 10 - 10 - 15 - 5, floored at 0

	shady := entity.Agency{TrustScore: 10}
	risk = svc.EstimateRisk(shady, agency.RegistryVerification{})
	rq.Equal(70, risk)
}
