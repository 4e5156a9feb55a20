// REST wire types for the public API. Kept by hand until an openapi
// specification exists to generate them from.
package rest

type Agency struct {
	TaxID              string `json:"taxId"`
	AgencyName         string `json:"agencyName"`
	OfficialName       string `json:"officialName,omitempty"`
	Category           string `json:"category,omitempty"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Address            string `json:"address,omitempty"`
	Governorate        string `json:"governorate"`
	Website            string `json:"website,omitempty"`
	Sectors            string `json:"sectors,omitempty"`
	TourismLicense     string `json:"tourismLicense,omitempty"`
	VerificationStatus string `json:"verificationStatus"`
	TrustScore         int    `json:"trustScore"`
	Status             string `json:"status"`
	ReviewsCount       int    `json:"reviewsCount"`
}

type AgencyRegistration struct {
	AgencyName   string `json:"agencyName" validate:"required"`
	OfficialName string `json:"officialName"`
	TaxID        string `json:"taxId" validate:"required"`
	Email        string `json:"email" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	Governorate  string `json:"governorate" validate:"required"`
	Category     string `json:"category" validate:"omitempty,oneof=A B C"`
	Sectors      string `json:"sectors"`
	Website      string `json:"website"`
	Address      string `json:"address"`
}

type RegistrationResult struct {
	TaxID           string     `json:"taxId"`
	TrustScore      TrustScore `json:"trustScore"`
	FraudRisk       bool       `json:"fraudRisk"`
	PremiumVerified bool       `json:"premiumVerified"`
}

type TrustScore struct {
	Score      int                       `json:"score"`
	Reasons    []string                  `json:"reasons"`
	Components map[string]ScoreComponent `json:"components"`
}

type ScoreComponent struct {
	Applied bool   `json:"applied"`
	Delta   int    `json:"delta"`
	Message string `json:"message"`
}

type Review struct {
	ReviewID      string `json:"reviewId"`
	AgencyTaxID   string `json:"agencyTaxId"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment,omitempty"`
	Status        string `json:"status"`
	Reply         string `json:"reply,omitempty"`
	RepliedAt     string `json:"repliedAt,omitempty"`
	ReRating      int    `json:"reRating,omitempty"`
	ReComment     string `json:"reComment,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

type ReviewSubmission struct {
	AgencyTaxID   string `json:"agencyTaxId" validate:"required"`
	ClientID      string `json:"clientId"`
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
	Rating        int    `json:"rating" validate:"required,min=1,max=5"`
	Comment       string `json:"comment"`
}

type ReviewReply struct {
	AgencyTaxID string `json:"agencyTaxId" validate:"required"`
	ReplyText   string `json:"replyText" validate:"required"`
}

type ReviewReRate struct {
	ClientID string `json:"clientId" validate:"required"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Comment  string `json:"comment"`
}

type ReviewModeration struct {
	Status string `json:"status" validate:"required,oneof=approved rejected"`
}

type Offer struct {
	OfferID        string  `json:"offerId"`
	AgencyTaxID    string  `json:"agencyTaxId"`
	AgencyName     string  `json:"agencyName"`
	Type           string  `json:"type"`
	Title          string  `json:"title"`
	Price          float64 `json:"price"`
	Currency       string  `json:"currency"`
	FromCity       string  `json:"fromCity,omitempty"`
	ToCity         string  `json:"toCity,omitempty"`
	DepartDate     string  `json:"departDate,omitempty"`
	ReturnDate     string  `json:"returnDate,omitempty"`
	SeatsAvailable int     `json:"seatsAvailable,omitempty"`
	Description    string  `json:"description,omitempty"`
	CreatedAt      string  `json:"createdAt"`
}

type OfferCreate struct {
	AgencyTaxID    string  `json:"agencyTaxId" validate:"required"`
	Type           string  `json:"type" validate:"required,oneof=flight hotel package umrah"`
	Title          string  `json:"title" validate:"required"`
	Price          float64 `json:"price" validate:"required,gt=0"`
	Currency       string  `json:"currency"`
	FromCity       string  `json:"fromCity"`
	ToCity         string  `json:"toCity"`
	DepartDate     string  `json:"departDate"`
	ReturnDate     string  `json:"returnDate"`
	SeatsAvailable int     `json:"seatsAvailable"`
	Description    string  `json:"description"`
}

type AgencyList struct {
	Data  []Agency `json:"data"`
	Total int      `json:"total"`
}

type ReviewList struct {
	Data  []Review `json:"data"`
	Total int      `json:"total"`
	Page  int      `json:"page"`
	Pages int      `json:"pages"`
}

type OfferList struct {
	Data  []Offer `json:"data"`
	Total int     `json:"total"`
}

type RecalculationResult struct {
	TaskID string `json:"taskId,omitempty"`
	Queued bool   `json:"queued"`
}

// Error is the API error model. Reasons carries the trust evaluation
// breakdown when a registration is rejected.
type Error struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Reasons []string `json:"reasons,omitempty"`
}
