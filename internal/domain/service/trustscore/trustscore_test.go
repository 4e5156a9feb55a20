package trustscore_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nexaway/internal/domain/service/trustscore"
	"nexaway/internal/domain/value"
)

func approvedReview(rating int, createdAt time.Time) trustscore.ReviewFacts {
	return trustscore.ReviewFacts{
		Rating:    rating,
		Status:    value.ReviewStatusApproved,
		CreatedAt: createdAt,
	}
}

func TestCalculatePhoneComponent(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		phone   string
		delta   int
		applied bool
	}{
		{name: "Missing", phone: "", delta: -20},
		{name: "No country prefix", phone: "27123456", delta: -20},
		{name: "Wrong country prefix", phone: "+33612345678", delta: -20},
		{name: "Too short", phone: "+2162712345", delta: -20},
		{name: "Too long", phone: "+216271234567", delta: -20},
		{name: "Letters inside", phone: "+2162712345a", delta: -20},
		{name: "Blocked prefix 0", phone: "+21608123456", delta: -30},
		{name: "Blocked prefix 1", phone: "+21618123456", delta: -30},
		{name: "Blocked prefix 6", phone: "+21668123456", delta: -30},
		{name: "Blocked prefix 8", phone: "+21688123456", delta: -30},
		{name: "Valid leading 2", phone: "+21627123456", delta: 15, applied: true},
		{name: "Valid leading 3", phone: "+21631234567", delta: 15, applied: true},
		{name: "Valid leading 4", phone: "+21641234567", delta: 15, applied: true},
		{name: "Valid leading 5", phone: "+21650123456", delta: 15, applied: true},
		{name: "Valid leading 7", phone: "+21670123456", delta: 15, applied: true},
		{name: "Valid leading 9", phone: "+21698765432", delta: 15, applied: true},
		{name: "Valid with spaces and dashes", phone: "+216 27-123-456", delta: 15, applied: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			result := trustscore.Calculate(trustscore.AgencyFacts{Phone: tc.phone}, nil)

			component := result.Components[trustscore.ComponentPhone]
			rq.Equal(tc.delta, component.Delta, "phone %q", tc.phone)
			rq.Equal(tc.applied, component.Applied)
		})
	}
}

// A blocked prefix is only detectable on an otherwise well-formed number, so
// the -30 penalty must never fire alongside a shape defect.
func TestCalculateBlockedPrefixRequiresWellFormedNumber(t *testing.T) {
	rq := require.New(t)

	// Blocked leading digit but wrong length: generic -20, not -30.
	result := trustscore.Calculate(trustscore.AgencyFacts{Phone: "+2160812345"}, nil)
	rq.Equal(-20, result.Components[trustscore.ComponentPhone].Delta)

	result = trustscore.Calculate(trustscore.AgencyFacts{Phone: "+21608123456"}, nil)
	rq.Equal(-30, result.Components[trustscore.ComponentPhone].Delta)
}

func TestCalculateEmailComponent(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		email   string
		delta   int
		applied bool
	}{
		{name: "Missing", email: "", delta: -20},
		{name: "No at sign", email: "contact.agency.tn", delta: -20},
		{name: "No TLD", email: "contact@agency", delta: -20},
		{name: "One letter TLD", email: "contact@agency.t", delta: -20},
		{name: "Valid", email: "contact@agency.tn", delta: 15, applied: true},
		{name: "Valid long TLD", email: "booking@voyages.com.tn", delta: 15, applied: true},
		{name: "Blocklisted free", email: "contact@freemail.com", delta: -25},
		{name: "Blocklisted temp", email: "sales@tempbox.tn", delta: -25},
		{name: "Blocklisted spam", email: "spam@gmail.com", delta: -25},
		{name: "Blocklisted fake", email: "fake-test123@mail.com", delta: -25},
		{name: "Blocklisted uppercase", email: "contact@FAKEMAIL.com", delta: -25},
		{name: "Blocklisted in local part", email: "test123@agency.tn", delta: -25},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			result := trustscore.Calculate(trustscore.AgencyFacts{Email: tc.email}, nil)

			component := result.Components[trustscore.ComponentEmail]
			rq.Equal(tc.delta, component.Delta, "email %q", tc.email)
			rq.Equal(tc.applied, component.Applied)
		})
	}
}

func TestCalculateTaxIDComponent(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		taxID   string
		delta   int
		applied bool
	}{
		{name: "Missing", taxID: "", delta: -25},
		{name: "Valid", taxID: "12345678A", delta: 20, applied: true},
		{name: "Valid lowercase letter", taxID: "12345678a", delta: 20, applied: true},
		{name: "Valid with spaces", taxID: " 12 345 678A ", delta: 20, applied: true},
		{name: "Seven digits", taxID: "1234567A", delta: -25},
		{name: "Nine digits", taxID: "123456789A", delta: -25},
		{name: "No letter", taxID: "12345678", delta: -25},
		{name: "Two letters", taxID: "12345678AB", delta: -25},
		{name: "Dash separator not normalized here", taxID: "12345678-A", delta: -25},
		{name: "Garbage", taxID: "bad", delta: -25},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			result := trustscore.Calculate(trustscore.AgencyFacts{TaxID: tc.taxID}, nil)

			component := result.Components[trustscore.ComponentTaxID]
			rq.Equal(tc.delta, component.Delta, "taxID %q", tc.taxID)
			rq.Equal(tc.applied, component.Applied)
		})
	}
}

func TestCalculateOfficialName(t *testing.T) {
	rq := require.New(t)

	result := trustscore.Calculate(trustscore.AgencyFacts{OfficialName: "Agency SARL"}, nil)
	rq.Equal(10, result.Components[trustscore.ComponentOfficialName].Delta)
	rq.Contains(result.Reasons, "Official name verified (+10)")

	// Absence is neutral: zero delta, still reported.
	result = trustscore.Calculate(trustscore.AgencyFacts{OfficialName: "   "}, nil)
	component := result.Components[trustscore.ComponentOfficialName]
	rq.Equal(0, component.Delta)
	rq.False(component.Applied)
	rq.Contains(result.Reasons, "No official name")
}

func TestCalculateReviewSignal(t *testing.T) {
	rq := require.New(t)
	now := time.Now()

	testCases := []struct {
		name    string
		reviews []trustscore.ReviewFacts
		delta   int
	}{
		{
			name:    "No reviews",
			reviews: nil,
			delta:   0,
		},
		{
			name: "No approved reviews",
			reviews: []trustscore.ReviewFacts{
				{Rating: 5, Status: value.ReviewStatusPending, CreatedAt: now},
				{Rating: 5, Status: value.ReviewStatusRejected, CreatedAt: now},
			},
			delta: 0,
		},
		{
			name: "High average",
			reviews: []trustscore.ReviewFacts{
				approvedReview(5, now),
				approvedReview(4, now),
				approvedReview(5, now),
			},
			delta: 20,
		},
		{
			name: "Boundary average exactly four",
			reviews: []trustscore.ReviewFacts{
				approvedReview(4, now),
				approvedReview(4, now),
			},
			delta: 20,
		},
		{
			name: "Boundary average exactly three",
			reviews: []trustscore.ReviewFacts{
				approvedReview(3, now),
			},
			delta: 10,
		},
		{
			name: "Low average",
			reviews: []trustscore.ReviewFacts{
				approvedReview(2, now),
				approvedReview(3, now),
			},
			delta: -15,
		},
		{
			name: "Out of range rating excluded from the mean",
			reviews: []trustscore.ReviewFacts{
				approvedReview(6, now),
				approvedReview(2, now),
			},
			delta: -15, // only the 2 counts; clamping would have landed at +10
		},
		{
			name: "All ratings out of range",
			reviews: []trustscore.ReviewFacts{
				approvedReview(0, now),
				approvedReview(9, now),
			},
			delta: 0,
		},
		{
			name: "Fast reply threshold bonus",
			reviews: []trustscore.ReviewFacts{
				{
					Rating:    5,
					Status:    value.ReviewStatusApproved,
					CreatedAt: now,
					Reply:     "Thanks, sorted!",
					RepliedAt: now.Add(2 * time.Hour),
				},
			},
			delta: 20 + 10,
		},
		{
			name: "Several fast replies still flat bonus",
			reviews: []trustscore.ReviewFacts{
				{Rating: 5, Status: value.ReviewStatusApproved, CreatedAt: now, Reply: "ok", RepliedAt: now.Add(time.Hour)},
				{Rating: 5, Status: value.ReviewStatusApproved, CreatedAt: now, Reply: "ok", RepliedAt: now.Add(time.Hour)},
				{Rating: 5, Status: value.ReviewStatusApproved, CreatedAt: now, Reply: "ok", RepliedAt: now.Add(time.Hour)},
			},
			delta: 20 + 10,
		},
		{
			name: "Reply after 24 hours is not fast",
			reviews: []trustscore.ReviewFacts{
				{Rating: 5, Status: value.ReviewStatusApproved, CreatedAt: now, Reply: "late", RepliedAt: now.Add(24 * time.Hour)},
			},
			delta: 20,
		},
		{
			name: "Reply stamped before the review is guarded",
			reviews: []trustscore.ReviewFacts{
				{Rating: 5, Status: value.ReviewStatusApproved, CreatedAt: now, Reply: "weird", RepliedAt: now.Add(-time.Hour)},
			},
			delta: 20,
		},
		{
			name: "Reply text without timestamp is not fast",
			reviews: []trustscore.ReviewFacts{
				{Rating: 5, Status: value.ReviewStatusApproved, CreatedAt: now, Reply: "no stamp"},
			},
			delta: 20,
		},
		{
			name: "Resolution threshold bonus",
			reviews: []trustscore.ReviewFacts{
				{Rating: 2, Status: value.ReviewStatusApproved, CreatedAt: now, ReRating: 4},
				{Rating: 2, Status: value.ReviewStatusApproved, CreatedAt: now, ReRating: 5},
			},
			delta: -15 + 15,
		},
		{
			name: "Re-rating below four is not a resolution",
			reviews: []trustscore.ReviewFacts{
				{Rating: 2, Status: value.ReviewStatusApproved, CreatedAt: now, ReRating: 3},
			},
			delta: -15,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			result := trustscore.Calculate(trustscore.AgencyFacts{}, tc.reviews)

			rq.Equal(tc.delta, result.Components[trustscore.ComponentReviews].Delta)
		})
	}
}

func TestCalculateReviewReasons(t *testing.T) {
	rq := require.New(t)

	result := trustscore.Calculate(trustscore.AgencyFacts{}, nil)
	rq.Contains(result.Reasons, "No reviews yet")

	result = trustscore.Calculate(trustscore.AgencyFacts{}, []trustscore.ReviewFacts{
		{Rating: 5, Status: value.ReviewStatusPending, CreatedAt: time.Now()},
	})
	rq.Contains(result.Reasons, "No approved reviews")
}

func TestCalculateScenarioFullyValidNoReviews(t *testing.T) {
	rq := require.New(t)

	// 50+15+15+20+10 = 110, clamped to 100.
	result := trustscore.Calculate(trustscore.AgencyFacts{
		Phone:        "+21627123456",
		Email:        "contact@agency.tn",
		TaxID:        "12345678A",
		OfficialName: "Agency SARL",
	}, nil)

	rq.Equal(100, result.Score)
	rq.Equal([]string{
		"Valid phone format (+15)",
		"Valid email domain (+15)",
		"Valid RNE format (+20)",
		"Official name verified (+10)",
		"No reviews yet",
	}, result.Reasons)
}

func TestCalculateScenarioEverythingWrong(t *testing.T) {
	rq := require.New(t)

	// 50-30-25-25 = -30, clamped to 0.
	result := trustscore.Calculate(trustscore.AgencyFacts{
		Phone: "+21608123456",
		Email: "fake-test123@mail.com",
		TaxID: "bad",
	}, nil)

	rq.Equal(0, result.Score)
	rq.Equal(-30, result.Components[trustscore.ComponentPhone].Delta)
	rq.Equal(-25, result.Components[trustscore.ComponentEmail].Delta)
	rq.Equal(-25, result.Components[trustscore.ComponentTaxID].Delta)
}

func TestCalculateScenarioStructuralAndReviews(t *testing.T) {
	rq := require.New(t)
	now := time.Now()

	reviews := []trustscore.ReviewFacts{
		approvedReview(5, now),
		approvedReview(4, now),
		{
			Rating:    5,
			Status:    value.ReviewStatusApproved,
			CreatedAt: now,
			Reply:     "Merci!",
			RepliedAt: now.Add(3 * time.Hour),
		},
	}

	result := trustscore.Calculate(trustscore.AgencyFacts{
		Phone:        "+21627123456",
		Email:        "contact@agency.tn",
		TaxID:        "12345678A",
		OfficialName: "Agency SARL",
	}, reviews)

	rq.Equal(100, result.Score)
	rq.Equal(30, result.Components[trustscore.ComponentReviews].Delta)

	var avgMessages, fastMessages, resolutionMessages int
	for _, reason := range result.Reasons {
		switch {
		case strings.HasPrefix(reason, "High ratings"):
			avgMessages++
		case strings.HasPrefix(reason, "Fast replies"):
			fastMessages++
		case strings.HasPrefix(reason, "Good resolutions"):
			resolutionMessages++
		}
	}

	rq.Equal(1, avgMessages)
	rq.Equal(1, fastMessages)
	rq.Zero(resolutionMessages)
}

func TestCalculateAlwaysBounded(t *testing.T) {
	rq := require.New(t)
	now := time.Now()

	agencies := []trustscore.AgencyFacts{
		{},
		{Phone: "+21627123456", Email: "contact@agency.tn", TaxID: "12345678A", OfficialName: "Agency SARL"},
		{Phone: "+21608123456", Email: "fake@spam.temp", TaxID: "???"},
		{Phone: strings.Repeat("+", 100), Email: strings.Repeat("@", 100), TaxID: strings.Repeat("9", 100)},
		{Phone: "garbage", Email: "garbage", TaxID: "garbage", OfficialName: "x"},
	}

	reviewSets := [][]trustscore.ReviewFacts{
		nil,
		{approvedReview(-5, now), approvedReview(1000, now)},
		{approvedReview(1, now), approvedReview(1, now), approvedReview(1, now)},
		{
			{Rating: 5, Status: value.ReviewStatusApproved, CreatedAt: now, Reply: "r", RepliedAt: now.Add(time.Minute), ReRating: 5},
		},
	}

	for i, agency := range agencies {
		for j, reviews := range reviewSets {
			result := trustscore.Calculate(agency, reviews)

			rq.GreaterOrEqual(result.Score, 0, fmt.Sprintf("agency %d, reviews %d", i, j))
			rq.LessOrEqual(result.Score, 100, fmt.Sprintf("agency %d, reviews %d", i, j))
		}
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	rq := require.New(t)
	now := time.Now()

	agency := trustscore.AgencyFacts{
		Phone:        "+21650123456",
		Email:        "info@sahara-tours.tn",
		TaxID:        "00123456B",
		OfficialName: "Sahara Tours SARL",
	}
	reviews := []trustscore.ReviewFacts{
		approvedReview(4, now),
		{Rating: 2, Status: value.ReviewStatusApproved, CreatedAt: now, Reply: "sorry", RepliedAt: now.Add(time.Hour), ReRating: 4},
	}

	first := trustscore.Calculate(agency, reviews)
	second := trustscore.Calculate(agency, reviews)

	rq.Equal(first, second)
}
