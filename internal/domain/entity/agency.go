package entity

import (
	"time"

	"nexaway/internal/domain/value"
)

type Agency struct {
	ID                 int64                    `json:"id" db:"id"`
	TaxID              string                   `json:"tax_id" db:"tax_id"`
	CompanyName        string                   `json:"company_name" db:"company_name"`
	OfficialName       string                   `json:"official_name" db:"official_name"`
	Category           string                   `json:"category" db:"category"`
	Email              string                   `json:"email" db:"email"`
	Phone              string                   `json:"phone" db:"phone"`
	Address            string                   `json:"address" db:"address"`
	Governorate        string                   `json:"governorate" db:"governorate"`
	Website            string                   `json:"website" db:"website"`
	Sectors            string                   `json:"sectors" db:"sectors"`
	TourismLicense     string                   `json:"tourism_license" db:"tourism_license"`
	VerificationStatus value.VerificationStatus `json:"verification_status" db:"verification_status"`
	TrustScore         int                      `json:"trust_score" db:"trust_score"`
	Status             value.AgencyStatus       `json:"status" db:"status"`
	Source             string                   `json:"source" db:"source"`
	CreatedAt          time.Time                `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time                `json:"updated_at" db:"updated_at"`
}
