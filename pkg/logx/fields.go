package logx

const (
	FieldAgencyTaxID     = "agency-tax-id"
	FieldAppName         = "app-name"
	FieldAppVersion      = "app-version"
	FieldClientID        = "client-id"
	FieldDurationMs      = "duration-ms"
	FieldError           = "error"
	FieldHTTPMethod      = "http-method"
	FieldHTTPRequest     = "http-request"
	FieldHTTPResponse    = "http-response"
	FieldIP              = "ip"
	FieldOfferID         = "offer-id"
	FieldRequestBody     = "request-body"
	FieldRequestID       = "request-id"
	FieldResponseBody    = "response-body"
	FieldResponseHeaders = "response-headers"
	FieldResponseStatus  = "response-status"
	FieldReviewID        = "review-id"
	FieldStack           = "stack"
	FieldTraceID         = "trace-id"
	FieldTrustScore      = "trust-score"
	FieldURL             = "url"
)
