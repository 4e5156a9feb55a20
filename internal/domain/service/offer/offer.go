package offer

import (
	"context"
	"fmt"

	"nexaway/internal/domain"
	"nexaway/internal/domain/entity"
	"nexaway/internal/domain/value"
	"nexaway/pkg/errcodes"
)

// Agencies below this stored trust score may not publish offers.
const minPublisherScore = 40

type OfferRepository interface {
	Create(ctx context.Context, offer *entity.Offer) error
	GetByOfferID(ctx context.Context, offerID string) (*entity.Offer, error)
	List(ctx context.Context, filter Filter) ([]entity.Offer, error)
	Update(ctx context.Context, offer *entity.Offer) error
	Delete(ctx context.Context, offerID string) error
	NextSequence(ctx context.Context) (int, error)
}

type AgencyRepository interface {
	GetByTaxID(ctx context.Context, taxID string) (*entity.Agency, error)
}

// Filter narrows an offer listing. Zero values mean "any".
type Filter struct {
	FromCity string
	Type     string
	MaxPrice float64
}

type OfferService struct {
	offerRepo  OfferRepository
	agencyRepo AgencyRepository
}

func NewOfferService(offerRepo OfferRepository, agencyRepo AgencyRepository) *OfferService {
	return &OfferService{
		offerRepo:  offerRepo,
		agencyRepo: agencyRepo,
	}
}

// Create publishes an offer on behalf of an agency. Agencies whose stored
// trust score is below the publisher threshold are refused.
func (s *OfferService) Create(ctx context.Context, offer entity.Offer) (*entity.Offer, error) {
	offer.AgencyTaxID = value.PadTaxID(value.NormalizeTaxID(offer.AgencyTaxID))

	agency, err := s.agencyRepo.GetByTaxID(ctx, offer.AgencyTaxID)
	if err != nil {
		return nil, fmt.Errorf("agencyRepo.GetByTaxID: %w", err)
	}

	if agency.TrustScore < minPublisherScore {
		return nil, domain.NewError(errcodes.AgencyNotTrusted,
			fmt.Sprintf("agency trust score too low to publish offers (%d)", agency.TrustScore))
	}

	seq, err := s.offerRepo.NextSequence(ctx)
	if err != nil {
		return nil, fmt.Errorf("offerRepo.NextSequence: %w", err)
	}

	offer.OfferID = fmt.Sprintf("O-%04d", seq)
	offer.AgencyName = agency.CompanyName
	if offer.Currency == "" {
		offer.Currency = "DT"
	}

	if err := s.offerRepo.Create(ctx, &offer); err != nil {
		return nil, fmt.Errorf("offerRepo.Create: %w", err)
	}

	logger(ctx).Info("offer published",
		"offer_id", offer.OfferID,
		"agency_tax_id", offer.AgencyTaxID,
	)

	return &offer, nil
}

// List returns offers matching the filter, cheapest first.
func (s *OfferService) List(ctx context.Context, filter Filter) ([]entity.Offer, error) {
	offers, err := s.offerRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("offerRepo.List: %w", err)
	}

	return offers, nil
}

func (s *OfferService) GetByOfferID(ctx context.Context, offerID string) (*entity.Offer, error) {
	offer, err := s.offerRepo.GetByOfferID(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("offerRepo.GetByOfferID: %w", err)
	}

	return offer, nil
}

// Update rewrites the mutable fields of an offer. The publishing agency and
// the public identifier never change.
func (s *OfferService) Update(ctx context.Context, offerID string, updated entity.Offer) (*entity.Offer, error) {
	offer, err := s.offerRepo.GetByOfferID(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("offerRepo.GetByOfferID: %w", err)
	}

	offer.Type = updated.Type
	offer.Title = updated.Title
	offer.Price = updated.Price
	if updated.Currency != "" {
		offer.Currency = updated.Currency
	}
	offer.FromCity = updated.FromCity
	offer.ToCity = updated.ToCity
	offer.DepartDate = updated.DepartDate
	offer.ReturnDate = updated.ReturnDate
	offer.SeatsAvailable = updated.SeatsAvailable
	offer.Description = updated.Description

	if err := s.offerRepo.Update(ctx, offer); err != nil {
		return nil, fmt.Errorf("offerRepo.Update: %w", err)
	}

	return offer, nil
}

func (s *OfferService) Delete(ctx context.Context, offerID string) error {
	if err := s.offerRepo.Delete(ctx, offerID); err != nil {
		return fmt.Errorf("offerRepo.Delete: %w", err)
	}

	return nil
}
