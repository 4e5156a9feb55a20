package agency

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/patrickmn/go-cache"

	"nexaway/internal/domain"
	"nexaway/internal/domain/entity"
	"nexaway/internal/domain/service/trustscore"
	"nexaway/internal/domain/value"
	"nexaway/pkg/errcodes"
)

const (
	defaultRejectThreshold = 30
	premiumThreshold       = 80

	registryCacheTTL = 12 * time.Hour
	listPageSize     = 200
)

type AgencyRepository interface {
	Create(ctx context.Context, agency *entity.Agency) error
	GetByTaxID(ctx context.Context, taxID string) (*entity.Agency, error)
	List(ctx context.Context, status value.AgencyStatus, limit, offset int) ([]entity.Agency, error)
	UpdateStatus(ctx context.Context, taxID string, status value.AgencyStatus) error
	UpdateVerification(ctx context.Context, taxID string, status value.VerificationStatus) error
	UpdateTrustScore(ctx context.Context, taxID string, score int) error
	Exists(ctx context.Context, taxID string) (bool, error)
}

type ReviewRepository interface {
	ListByAgency(ctx context.Context, taxID string, status value.ReviewStatus) ([]entity.Review, error)
	CountByAgency(ctx context.Context, taxID string, status value.ReviewStatus) (int, error)
}

// RegistryVerification is the outcome of an RNE public registry lookup.
type RegistryVerification struct {
	Verified   bool
	ScoreBoost int
}

type RegistryClient interface {
	Verify(ctx context.Context, taxID string) (RegistryVerification, error)
}

// EventType marks what happened to an agency for the notifier.
type EventType string

const (
	EventRegistered EventType = "registered"
	EventRejected   EventType = "rejected"
	EventApproved   EventType = "approved"
)

type Event struct {
	Type    EventType
	TaxID   string
	Name    string
	Score   int
	Reasons []string
}

// rejectionError carries the full evaluation breakdown to the submitter.
type rejectionError struct {
	score   int
	reasons []string
}

func (e *rejectionError) Error() string {
	return fmt.Sprintf("Trust score too low (%d). Agency rejected.", e.score)
}

func (e *rejectionError) ErrorCode() failure.ErrorCode {
	return errcodes.TrustScoreTooLow
}

func (e *rejectionError) Reasons() []string {
	return e.reasons
}

type AgencyService struct {
	agencyRepo      AgencyRepository
	reviewRepo      ReviewRepository
	registry        RegistryClient
	registryCache   *cache.Cache
	rejectThreshold int
	events          chan<- Event
}

// NewAgencyService wires the registration and scoring workflows. The registry
// cache is owned here and passed in explicitly, never package state.
func NewAgencyService(
	agencyRepo AgencyRepository,
	reviewRepo ReviewRepository,
	registry RegistryClient,
	registryCache *cache.Cache,
) *AgencyService {
	if registryCache == nil {
		registryCache = cache.New(registryCacheTTL, time.Hour)
	}

	return &AgencyService{
		agencyRepo:      agencyRepo,
		reviewRepo:      reviewRepo,
		registry:        registry,
		registryCache:   registryCache,
		rejectThreshold: defaultRejectThreshold,
	}
}

func (s *AgencyService) WithRejectThreshold(threshold int) *AgencyService {
	s.rejectThreshold = threshold
	return s
}

func (s *AgencyService) WithEvents(events chan<- Event) *AgencyService {
	s.events = events
	return s
}

// Register evaluates a new agency and stores it as pending. A score below
// the reject threshold aborts the registration; the returned error carries
// the full reasons list so the submitter can see which rules failed.
func (s *AgencyService) Register(ctx context.Context, agency entity.Agency) (entity.ScoreResult, error) {
	agency.TaxID = canonicalTaxID(agency.TaxID)
	if agency.TaxID == "" {
		return entity.ScoreResult{}, domain.NewError(errcodes.InvalidTaxID, "tax_id is required")
	}

	if agency.Governorate != "" && !value.IsGovernorate(agency.Governorate) {
		return entity.ScoreResult{}, domain.NewError(errcodes.InvalidGovernorate,
			fmt.Sprintf("unknown governorate %q", agency.Governorate))
	}

	exists, err := s.agencyRepo.Exists(ctx, agency.TaxID)
	if err != nil {
		return entity.ScoreResult{}, fmt.Errorf("agencyRepo.Exists: %w", err)
	}
	if exists {
		return entity.ScoreResult{}, domain.NewError(errcodes.DuplicateTaxID, "agency already exists")
	}

	// New agencies have no review history, only structural data.
	result := trustscore.Calculate(trustscore.FactsFromAgency(agency), nil)

	if result.Score < s.rejectThreshold {
		s.emit(Event{
			Type:    EventRejected,
			TaxID:   agency.TaxID,
			Name:    agency.CompanyName,
			Score:   result.Score,
			Reasons: result.Reasons,
		})

		return result, &rejectionError{score: result.Score, reasons: result.Reasons}
	}

	agency.TrustScore = result.Score
	agency.Status = value.AgencyStatusPending
	agency.VerificationStatus = value.VerificationStatusPending
	if agency.Source == "" {
		agency.Source = "api"
	}

	if err := s.agencyRepo.Create(ctx, &agency); err != nil {
		return entity.ScoreResult{}, fmt.Errorf("agencyRepo.Create: %w", err)
	}

	logger(ctx).Info("agency registered",
		"tax_id", agency.TaxID,
		"trust_score", result.Score,
	)

	s.emit(Event{
		Type:    EventRegistered,
		TaxID:   agency.TaxID,
		Name:    agency.CompanyName,
		Score:   result.Score,
		Reasons: result.Reasons,
	})

	return result, nil
}

// Score recomputes the trust score of a stored agency from its current
// approved reviews, without persisting anything.
func (s *AgencyService) Score(ctx context.Context, taxID string) (entity.ScoreResult, error) {
	agency, err := s.agencyRepo.GetByTaxID(ctx, canonicalTaxID(taxID))
	if err != nil {
		return entity.ScoreResult{}, fmt.Errorf("agencyRepo.GetByTaxID: %w", err)
	}

	reviews, err := s.reviewRepo.ListByAgency(ctx, agency.TaxID, value.ReviewStatusApproved)
	if err != nil {
		return entity.ScoreResult{}, fmt.Errorf("reviewRepo.ListByAgency: %w", err)
	}

	return trustscore.Calculate(
		trustscore.FactsFromAgency(*agency),
		trustscore.FactsFromReviews(reviews),
	), nil
}

func (s *AgencyService) GetByTaxID(ctx context.Context, taxID string) (*entity.Agency, error) {
	agency, err := s.agencyRepo.GetByTaxID(ctx, canonicalTaxID(taxID))
	if err != nil {
		return nil, fmt.Errorf("agencyRepo.GetByTaxID: %w", err)
	}

	return agency, nil
}

// AgencyListing pairs an agency with its freshly computed score.
type AgencyListing struct {
	Agency       entity.Agency
	Score        entity.ScoreResult
	ReviewsCount int
}

// ListByTrust returns agencies in the given moderation status with scores
// recomputed from current data, best first.
func (s *AgencyService) ListByTrust(ctx context.Context, status value.AgencyStatus) ([]AgencyListing, error) {
	agencies, err := s.agencyRepo.List(ctx, status, listPageSize, 0)
	if err != nil {
		return nil, fmt.Errorf("agencyRepo.List: %w", err)
	}

	listings := make([]AgencyListing, 0, len(agencies))

	for _, agency := range agencies {
		reviews, err := s.reviewRepo.ListByAgency(ctx, agency.TaxID, value.ReviewStatusApproved)
		if err != nil {
			return nil, fmt.Errorf("reviewRepo.ListByAgency: %w", err)
		}

		listings = append(listings, AgencyListing{
			Agency: agency,
			Score: trustscore.Calculate(
				trustscore.FactsFromAgency(agency),
				trustscore.FactsFromReviews(reviews),
			),
			ReviewsCount: len(reviews),
		})
	}

	sortListings(listings)

	return listings, nil
}

func sortListings(listings []AgencyListing) {
	// Insertion sort keeps equal scores in stored order, which matters for
	// stable pagination.
	for i := 1; i < len(listings); i++ {
		for j := i; j > 0 && listings[j].Score.Score > listings[j-1].Score.Score; j-- {
			listings[j], listings[j-1] = listings[j-1], listings[j]
		}
	}
}

func (s *AgencyService) Approve(ctx context.Context, taxID string) error {
	normalized := canonicalTaxID(taxID)

	if err := s.agencyRepo.UpdateStatus(ctx, normalized, value.AgencyStatusApproved); err != nil {
		return fmt.Errorf("agencyRepo.UpdateStatus: %w", err)
	}

	agency, err := s.agencyRepo.GetByTaxID(ctx, normalized)
	if err != nil {
		return fmt.Errorf("agencyRepo.GetByTaxID: %w", err)
	}

	s.emit(Event{
		Type:  EventApproved,
		TaxID: agency.TaxID,
		Name:  agency.CompanyName,
		Score: agency.TrustScore,
	})

	return nil
}

func (s *AgencyService) Reject(ctx context.Context, taxID string) error {
	if err := s.agencyRepo.UpdateStatus(ctx, canonicalTaxID(taxID), value.AgencyStatusRejected); err != nil {
		return fmt.Errorf("agencyRepo.UpdateStatus: %w", err)
	}

	return nil
}

// RecalculateAll rescores every approved agency from its current reviews and
// persists the changed ones. Returns how many scores changed.
func (s *AgencyService) RecalculateAll(ctx context.Context) (int, error) {
	updated := 0
	offset := 0

	for {
		agencies, err := s.agencyRepo.List(ctx, value.AgencyStatusApproved, listPageSize, offset)
		if err != nil {
			return updated, fmt.Errorf("agencyRepo.List: %w", err)
		}

		if len(agencies) == 0 {
			break
		}

		for _, agency := range agencies {
			if err := ctx.Err(); err != nil {
				return updated, err
			}

			reviews, err := s.reviewRepo.ListByAgency(ctx, agency.TaxID, value.ReviewStatusApproved)
			if err != nil {
				logger(ctx).Error("failed to load reviews", "tax_id", agency.TaxID, "error", err)
				continue
			}

			result := trustscore.Calculate(
				trustscore.FactsFromAgency(agency),
				trustscore.FactsFromReviews(reviews),
			)

			if result.Score == agency.TrustScore {
				continue
			}

			if err := s.agencyRepo.UpdateTrustScore(ctx, agency.TaxID, result.Score); err != nil {
				logger(ctx).Error("failed to persist score", "tax_id", agency.TaxID, "error", err)
				continue
			}

			logger(ctx).Debug("trust score updated",
				"tax_id", agency.TaxID,
				"old", agency.TrustScore,
				"new", result.Score,
			)

			updated++
		}

		offset += listPageSize
	}

	return updated, nil
}

// VerifyRegistry checks a tax ID against the public RNE registry. Lookups
// are expensive, so results live in the injected TTL cache.
func (s *AgencyService) VerifyRegistry(ctx context.Context, taxID string) (RegistryVerification, error) {
	normalized := canonicalTaxID(taxID)

	if cached, found := s.registryCache.Get(normalized); found {
		return cached.(RegistryVerification), nil
	}

	verification, err := s.registry.Verify(ctx, normalized)
	if err != nil {
		return RegistryVerification{}, fmt.Errorf("registry.Verify: %w", err)
	}

	s.registryCache.Set(normalized, verification, cache.DefaultExpiration)

	status := value.VerificationStatusFailed
	if verification.Verified {
		status = value.VerificationStatusVerified
	}

	if err := s.agencyRepo.UpdateVerification(ctx, normalized, status); err != nil {
		// A lookup that succeeded is still worth returning.
		var appErr *domain.AppError
		if !errors.As(err, &appErr) || appErr.Code != errcodes.AgencyNotFound {
			logger(ctx).Error("failed to persist verification", "tax_id", normalized, "error", err)
		}
	}

	return verification, nil
}

// EstimateRisk is a rule-based fraud risk estimate, 0..100, higher is worse.
func (s *AgencyService) EstimateRisk(agency entity.Agency, verification RegistryVerification) int {
	risk := 0

	switch {
	case agency.TrustScore > premiumThreshold:
		risk -= 20
	case agency.TrustScore < trustscore.BaseScore:
		risk += 20
	}

	if strings.TrimSpace(agency.Phone) != "" {
		risk -= 10
	}
	if strings.TrimSpace(agency.Email) != "" {
		risk -= 10
	}
	if verification.Verified {
		risk -= 15
	}
	if value.IsGovernorate(agency.Governorate) {
		risk -= 5
	}

	risk += 50

	if risk < 0 {
		return 0
	}
	if risk > 100 {
		return 100
	}
	return risk
}

// IsPremium is the caller-side policy for the "premium verified" label.
func IsPremium(score int) bool {
	return score > premiumThreshold
}

// canonicalTaxID is the stored form of a tax identifier. Every lookup must
// canonicalize the same way Register does, or short IDs become unreachable.
func canonicalTaxID(taxID string) string {
	return value.PadTaxID(value.NormalizeTaxID(taxID))
}

func (s *AgencyService) emit(event Event) {
	if s.events == nil {
		return
	}

	select {
	case s.events <- event:
	default:
		// Notification loss must never block a registration.
	}
}
