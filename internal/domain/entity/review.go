package entity

import (
	"time"

	"nexaway/internal/domain/value"
)

type Review struct {
	ID            int64              `json:"id" db:"id"`
	ReviewID      string             `json:"review_id" db:"review_id"` // public identifier, R-XXXXXXXX
	AgencyTaxID   string             `json:"agency_tax_id" db:"agency_tax_id"`
	ClientID      string             `json:"client_id" db:"client_id"`
	CustomerName  string             `json:"customer_name" db:"customer_name"`
	CustomerEmail string             `json:"customer_email" db:"customer_email"`
	Rating        int                `json:"rating" db:"rating"`
	Comment       string             `json:"comment" db:"comment"`
	Status        value.ReviewStatus `json:"status" db:"status"`
	Reply         string             `json:"reply" db:"reply"`
	RepliedAt     time.Time          `json:"replied_at" db:"replied_at"` // zero when no reply yet
	ReRating      int                `json:"re_rating" db:"re_rating"`   // 0 when the customer never re-rated
	ReComment     string             `json:"re_comment" db:"re_comment"`
	CreatedAt     time.Time          `json:"created_at" db:"created_at"`
}
