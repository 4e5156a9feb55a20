package persistence

import (
	"database/sql"
	"time"

	"nexaway/internal/domain/entity"
	"nexaway/internal/domain/value"
)

// agencySchema maps one row of the agencies table.
type agencySchema struct {
	ID                 int64     `db:"id"`
	TaxID              string    `db:"tax_id"`
	CompanyName        string    `db:"company_name"`
	OfficialName       string    `db:"official_name"`
	Category           string    `db:"category"`
	Email              string    `db:"email"`
	Phone              string    `db:"phone"`
	Address            string    `db:"address"`
	Governorate        string    `db:"governorate"`
	Website            string    `db:"website"`
	Sectors            string    `db:"sectors"`
	TourismLicense     string    `db:"tourism_license"`
	VerificationStatus string    `db:"verification_status"`
	TrustScore         int       `db:"trust_score"`
	Status             string    `db:"status"`
	Source             string    `db:"source"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

func fromAgency(e *entity.Agency) *agencySchema {
	return &agencySchema{
		ID:                 e.ID,
		TaxID:              e.TaxID,
		CompanyName:        e.CompanyName,
		OfficialName:       e.OfficialName,
		Category:           e.Category,
		Email:              e.Email,
		Phone:              e.Phone,
		Address:            e.Address,
		Governorate:        e.Governorate,
		Website:            e.Website,
		Sectors:            e.Sectors,
		TourismLicense:     e.TourismLicense,
		VerificationStatus: e.VerificationStatus.String(),
		TrustScore:         e.TrustScore,
		Status:             e.Status.String(),
		Source:             e.Source,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func (s *agencySchema) toDomain() *entity.Agency {
	return &entity.Agency{
		ID:                 s.ID,
		TaxID:              s.TaxID,
		CompanyName:        s.CompanyName,
		OfficialName:       s.OfficialName,
		Category:           s.Category,
		Email:              s.Email,
		Phone:              s.Phone,
		Address:            s.Address,
		Governorate:        s.Governorate,
		Website:            s.Website,
		Sectors:            s.Sectors,
		TourismLicense:     s.TourismLicense,
		VerificationStatus: value.VerificationStatus(s.VerificationStatus),
		TrustScore:         s.TrustScore,
		Status:             value.AgencyStatus(s.Status),
		Source:             s.Source,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// reviewSchema maps one row of the reviews table. Reply fields are nullable
// until the agency answers.
type reviewSchema struct {
	ID            int64          `db:"id"`
	ReviewID      string         `db:"review_id"`
	AgencyTaxID   string         `db:"agency_tax_id"`
	ClientID      string         `db:"client_id"`
	CustomerName  string         `db:"customer_name"`
	CustomerEmail string         `db:"customer_email"`
	Rating        int            `db:"rating"`
	Comment       string         `db:"comment"`
	Status        string         `db:"status"`
	Reply         sql.NullString `db:"reply"`
	RepliedAt     sql.NullTime   `db:"replied_at"`
	ReRating      sql.NullInt64  `db:"re_rating"`
	ReComment     sql.NullString `db:"re_comment"`
	CreatedAt     time.Time      `db:"created_at"`
}

func (s *reviewSchema) toDomain() *entity.Review {
	review := &entity.Review{
		ID:            s.ID,
		ReviewID:      s.ReviewID,
		AgencyTaxID:   s.AgencyTaxID,
		ClientID:      s.ClientID,
		CustomerName:  s.CustomerName,
		CustomerEmail: s.CustomerEmail,
		Rating:        s.Rating,
		Comment:       s.Comment,
		Status:        value.ReviewStatus(s.Status),
		CreatedAt:     s.CreatedAt,
	}

	if s.Reply.Valid {
		review.Reply = s.Reply.String
	}
	if s.RepliedAt.Valid {
		review.RepliedAt = s.RepliedAt.Time
	}
	if s.ReRating.Valid {
		review.ReRating = int(s.ReRating.Int64)
	}
	if s.ReComment.Valid {
		review.ReComment = s.ReComment.String
	}

	return review
}

// offerSchema maps one row of the offers table.
type offerSchema struct {
	ID             int64     `db:"id"`
	OfferID        string    `db:"offer_id"`
	AgencyTaxID    string    `db:"agency_tax_id"`
	AgencyName     string    `db:"agency_name"`
	Type           string    `db:"type"`
	Title          string    `db:"title"`
	Price          float64   `db:"price"`
	Currency       string    `db:"currency"`
	FromCity       string    `db:"from_city"`
	ToCity         string    `db:"to_city"`
	DepartDate     string    `db:"depart_date"`
	ReturnDate     string    `db:"return_date"`
	SeatsAvailable int       `db:"seats_available"`
	Description    string    `db:"description"`
	CreatedAt      time.Time `db:"created_at"`
}

func fromOffer(e *entity.Offer) *offerSchema {
	return &offerSchema{
		ID:             e.ID,
		OfferID:        e.OfferID,
		AgencyTaxID:    e.AgencyTaxID,
		AgencyName:     e.AgencyName,
		Type:           e.Type,
		Title:          e.Title,
		Price:          e.Price,
		Currency:       e.Currency,
		FromCity:       e.FromCity,
		ToCity:         e.ToCity,
		DepartDate:     e.DepartDate,
		ReturnDate:     e.ReturnDate,
		SeatsAvailable: e.SeatsAvailable,
		Description:    e.Description,
		CreatedAt:      e.CreatedAt,
	}
}

func (s *offerSchema) toDomain() *entity.Offer {
	return &entity.Offer{
		ID:             s.ID,
		OfferID:        s.OfferID,
		AgencyTaxID:    s.AgencyTaxID,
		AgencyName:     s.AgencyName,
		Type:           s.Type,
		Title:          s.Title,
		Price:          s.Price,
		Currency:       s.Currency,
		FromCity:       s.FromCity,
		ToCity:         s.ToCity,
		DepartDate:     s.DepartDate,
		ReturnDate:     s.ReturnDate,
		SeatsAvailable: s.SeatsAvailable,
		Description:    s.Description,
		CreatedAt:      s.CreatedAt,
	}
}
