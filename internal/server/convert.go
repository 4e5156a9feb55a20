package server

import (
	"time"

	"nexaway/internal/domain/entity"
	service "nexaway/internal/domain/service/agency"
	"nexaway/pkg/lox"
	"nexaway/pkg/rest"
)

func newRESTAgency(agency entity.Agency, reviewsCount int) rest.Agency {
	return rest.Agency{
		TaxID:              agency.TaxID,
		AgencyName:         agency.CompanyName,
		OfficialName:       agency.OfficialName,
		Category:           agency.Category,
		Email:              agency.Email,
		Phone:              agency.Phone,
		Address:            agency.Address,
		Governorate:        agency.Governorate,
		Website:            agency.Website,
		Sectors:            agency.Sectors,
		TourismLicense:     agency.TourismLicense,
		VerificationStatus: agency.VerificationStatus.String(),
		TrustScore:         agency.TrustScore,
		Status:             agency.Status.String(),
		ReviewsCount:       reviewsCount,
	}
}

func newRESTAgencyFromListing(listing service.AgencyListing) rest.Agency {
	agency := newRESTAgency(listing.Agency, listing.ReviewsCount)
	agency.TrustScore = listing.Score.Score

	return agency
}

func newDomainAgency(reg rest.AgencyRegistration) entity.Agency {
	return entity.Agency{
		TaxID:        reg.TaxID,
		CompanyName:  reg.AgencyName,
		OfficialName: reg.OfficialName,
		Category:     reg.Category,
		Email:        reg.Email,
		Phone:        reg.Phone,
		Address:      reg.Address,
		Governorate:  reg.Governorate,
		Website:      reg.Website,
		Sectors:      reg.Sectors,
	}
}

func newRESTScore(result entity.ScoreResult) rest.TrustScore {
	components := make(map[string]rest.ScoreComponent, len(result.Components))
	for name, c := range result.Components {
		components[name] = rest.ScoreComponent{
			Applied: c.Applied,
			Delta:   c.Delta,
			Message: c.Message,
		}
	}

	return rest.TrustScore{
		Score:      result.Score,
		Reasons:    result.Reasons,
		Components: components,
	}
}

func newRESTReview(review entity.Review) rest.Review {
	restReview := rest.Review{
		ReviewID:      review.ReviewID,
		AgencyTaxID:   review.AgencyTaxID,
		CustomerName:  review.CustomerName,
		CustomerEmail: review.CustomerEmail,
		Rating:        review.Rating,
		Comment:       review.Comment,
		Status:        review.Status.String(),
		Reply:         review.Reply,
		ReRating:      review.ReRating,
		ReComment:     review.ReComment,
		CreatedAt:     review.CreatedAt.Format(time.RFC3339),
	}

	if !review.RepliedAt.IsZero() {
		restReview.RepliedAt = review.RepliedAt.Format(time.RFC3339)
	}

	return restReview
}

func newRESTReviews(reviews []entity.Review) []rest.Review {
	return lox.Map(reviews, newRESTReview)
}

func newRESTOffer(offer entity.Offer) rest.Offer {
	return rest.Offer{
		OfferID:        offer.OfferID,
		AgencyTaxID:    offer.AgencyTaxID,
		AgencyName:     offer.AgencyName,
		Type:           offer.Type,
		Title:          offer.Title,
		Price:          offer.Price,
		Currency:       offer.Currency,
		FromCity:       offer.FromCity,
		ToCity:         offer.ToCity,
		DepartDate:     offer.DepartDate,
		ReturnDate:     offer.ReturnDate,
		SeatsAvailable: offer.SeatsAvailable,
		Description:    offer.Description,
		CreatedAt:      offer.CreatedAt.Format(time.RFC3339),
	}
}

func newDomainOffer(create rest.OfferCreate) entity.Offer {
	return entity.Offer{
		AgencyTaxID:    create.AgencyTaxID,
		Type:           create.Type,
		Title:          create.Title,
		Price:          create.Price,
		Currency:       create.Currency,
		FromCity:       create.FromCity,
		ToCity:         create.ToCity,
		DepartDate:     create.DepartDate,
		ReturnDate:     create.ReturnDate,
		SeatsAvailable: create.SeatsAvailable,
		Description:    create.Description,
	}
}
