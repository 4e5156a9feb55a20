package entity

import "time"

type Offer struct {
	ID             int64     `json:"id" db:"id"`
	OfferID        string    `json:"offer_id" db:"offer_id"` // public identifier, O-0001 style
	AgencyTaxID    string    `json:"agency_tax_id" db:"agency_tax_id"`
	AgencyName     string    `json:"agency_name" db:"agency_name"`
	Type           string    `json:"type" db:"type"`
	Title          string    `json:"title" db:"title"`
	Price          float64   `json:"price" db:"price"`
	Currency       string    `json:"currency" db:"currency"`
	FromCity       string    `json:"from_city" db:"from_city"`
	ToCity         string    `json:"to_city" db:"to_city"`
	DepartDate     string    `json:"depart_date" db:"depart_date"`
	ReturnDate     string    `json:"return_date" db:"return_date"`
	SeatsAvailable int       `json:"seats_available" db:"seats_available"`
	Description    string    `json:"description" db:"description"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
