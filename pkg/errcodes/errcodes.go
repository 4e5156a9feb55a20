package errcodes

import (
	"net/http"

	"git.appkode.ru/pub/go/failure"
)

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Agency module.
	AgencyNotFound      failure.ErrorCode = "AgencyNotFound"
	DuplicateTaxID      failure.ErrorCode = "DuplicateTaxID"
	TrustScoreTooLow    failure.ErrorCode = "TrustScoreTooLow"
	InvalidTaxID        failure.ErrorCode = "InvalidTaxID"
	InvalidGovernorate  failure.ErrorCode = "InvalidGovernorate"
	InvalidAgencyStatus failure.ErrorCode = "InvalidAgencyStatus"

	// Review module.
	ReviewNotFound      failure.ErrorCode = "ReviewNotFound"
	ReviewAlreadyExists failure.ErrorCode = "ReviewAlreadyExists"
	InvalidRating       failure.ErrorCode = "InvalidRating"
	InvalidReviewStatus failure.ErrorCode = "InvalidReviewStatus"

	// Offer module.
	OfferNotFound    failure.ErrorCode = "OfferNotFound"
	AgencyNotTrusted failure.ErrorCode = "AgencyNotTrusted"
	InvalidOffer     failure.ErrorCode = "InvalidOffer"
)

//nolint:gochecknoglobals
var httpStatuses = map[failure.ErrorCode]int{
	Forbidden:           http.StatusForbidden,
	ValidationError:     http.StatusBadRequest,
	NotFound:            http.StatusNotFound,
	AgencyNotFound:      http.StatusNotFound,
	DuplicateTaxID:      http.StatusConflict,
	TrustScoreTooLow:    http.StatusUnprocessableEntity,
	InvalidTaxID:        http.StatusBadRequest,
	InvalidGovernorate:  http.StatusBadRequest,
	InvalidAgencyStatus: http.StatusBadRequest,
	ReviewNotFound:      http.StatusNotFound,
	ReviewAlreadyExists: http.StatusConflict,
	InvalidRating:       http.StatusBadRequest,
	InvalidReviewStatus: http.StatusBadRequest,
	OfferNotFound:       http.StatusNotFound,
	AgencyNotTrusted:    http.StatusForbidden,
	InvalidOffer:        http.StatusBadRequest,
}

// HTTPStatus maps an error code to its response status. Zero means the
// caller decides.
func HTTPStatus(code failure.ErrorCode) int {
	return httpStatuses[code]
}
