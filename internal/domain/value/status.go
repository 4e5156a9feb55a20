package value

// AgencyStatus is the moderation state of an agency listing.
type AgencyStatus string

const (
	AgencyStatusPending  AgencyStatus = "pending"
	AgencyStatusApproved AgencyStatus = "approved"
	AgencyStatusRejected AgencyStatus = "rejected"
)

func (s AgencyStatus) Valid() bool {
	switch s {
	case AgencyStatusPending, AgencyStatusApproved, AgencyStatusRejected:
		return true
	}
	return false
}

func (s AgencyStatus) String() string {
	return string(s)
}

// VerificationStatus tracks the RNE registry check, separate from moderation.
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusVerified VerificationStatus = "verified"
	VerificationStatusFailed   VerificationStatus = "failed"
)

func (s VerificationStatus) String() string {
	return string(s)
}

type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusRejected:
		return true
	}
	return false
}

func (s ReviewStatus) String() string {
	return string(s)
}
