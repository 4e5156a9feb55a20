package trustscore

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"nexaway/internal/domain/entity"
	"nexaway/internal/domain/value"
	"nexaway/pkg/lox"
)

const (
	// BaseScore is the starting point before any rule fires.
	BaseScore = 50

	fastReplyWindow     = 24 * time.Hour
	resolutionMinRating = 4
)

// Component names used as keys of ScoreResult.Components.
const (
	ComponentPhone        = "phone"
	ComponentEmail        = "email"
	ComponentTaxID        = "rne"
	ComponentOfficialName = "official_name"
	ComponentReviews      = "reviews"
)

// Subscriber numbers starting with these digits do not belong to any
// Tunisian operator range.
const blockedPhonePrefixes = "0168"

//nolint:gochecknoglobals
var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	rnePattern   = regexp.MustCompile(`^[0-9]{8}[A-Z]$`)

	suspiciousEmailTokens = []string{"free", "temp", "spam", "fake", "test123", "test456"}
)

// AgencyFacts is the structural projection the calculator reads. Fields may
// be empty; an empty field lowers the score instead of failing the call.
type AgencyFacts struct {
	Phone        string
	Email        string
	TaxID        string
	OfficialName string
}

// ReviewFacts is one review as the calculator sees it. Only approved reviews
// contribute; the zero RepliedAt means the agency never replied and the zero
// ReRating means the customer never followed up.
type ReviewFacts struct {
	Rating    int
	Status    value.ReviewStatus
	CreatedAt time.Time
	Reply     string
	RepliedAt time.Time
	ReRating  int
}

type check struct {
	valid   bool
	message string
	delta   int
}

// Calculate rates an agency's credibility from its structural fields and its
// review history. Pure, deterministic and total: malformed input degrades
// the score, it never produces an error.
func Calculate(agency AgencyFacts, reviews []ReviewFacts) entity.ScoreResult {
	score := BaseScore
	reasons := make([]string, 0, 8)
	components := make(map[string]entity.ComponentResult, 5)

	phone := validatePhone(agency.Phone)
	score += phone.delta
	components[ComponentPhone] = phone.component()
	if phone.valid {
		reasons = append(reasons, fmt.Sprintf("Valid phone format (+%d)", phone.delta))
	} else {
		reasons = append(reasons, fmt.Sprintf("Invalid phone: %s (%d)", phone.message, phone.delta))
	}

	email := validateEmail(agency.Email)
	score += email.delta
	components[ComponentEmail] = email.component()
	if email.valid {
		reasons = append(reasons, fmt.Sprintf("Valid email domain (+%d)", email.delta))
	} else {
		reasons = append(reasons, fmt.Sprintf("Invalid email: %s (%d)", email.message, email.delta))
	}

	rne := validateTaxID(agency.TaxID)
	score += rne.delta
	components[ComponentTaxID] = rne.component()
	if rne.valid {
		reasons = append(reasons, fmt.Sprintf("Valid RNE format (+%d)", rne.delta))
	} else {
		reasons = append(reasons, fmt.Sprintf("Invalid RNE: %s (%d)", rne.message, rne.delta))
	}

	name := checkOfficialName(agency.OfficialName)
	score += name.delta
	components[ComponentOfficialName] = name.component()
	if name.valid {
		reasons = append(reasons, fmt.Sprintf("%s (+%d)", name.message, name.delta))
	} else {
		// Absence is neutral, not suspicious, but still reported.
		reasons = append(reasons, name.message)
	}

	reviewDelta, reviewReasons := scoreFromReviews(reviews)
	score += reviewDelta
	reasons = append(reasons, reviewReasons...)
	components[ComponentReviews] = entity.ComponentResult{
		Applied: reviewDelta != 0,
		Delta:   reviewDelta,
		Message: strings.Join(reviewReasons, "; "),
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return entity.ScoreResult{
		Score:      score,
		Reasons:    reasons,
		Components: components,
	}
}

func (c check) component() entity.ComponentResult {
	return entity.ComponentResult{
		Applied: c.valid,
		Delta:   c.delta,
		Message: c.message,
	}
}

func validatePhone(phone string) check {
	if phone == "" {
		return check{false, "Phone number missing", -20}
	}

	normalized := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(phone))

	if !strings.HasPrefix(normalized, "+216") {
		return check{false, "Must start with +216", -20}
	}

	digits := normalized[4:]
	if len(digits) != 8 {
		return check{false, "Invalid length (must be +216 + 8 digits)", -20}
	}

	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return check{false, "Non-digit characters after +216", -20}
		}
	}

	// Only reachable on a well-formed number: a blocked operator prefix is
	// a stronger signal than a typo.
	if strings.IndexByte(blockedPhonePrefixes, digits[0]) >= 0 {
		return check{false, fmt.Sprintf("Blocked prefix %c", digits[0]), -30}
	}

	return check{true, "Valid Tunisian phone", 15}
}

func validateEmail(email string) check {
	if email == "" {
		return check{false, "Email missing", -20}
	}

	if !emailPattern.MatchString(email) {
		return check{false, "Invalid email format", -20}
	}

	// A throwaway token anywhere in a syntactically valid address overrides
	// the positive path.
	lower := strings.ToLower(email)
	for _, token := range suspiciousEmailTokens {
		if strings.Contains(lower, token) {
			return check{false, fmt.Sprintf("Suspicious domain (%s)", token), -25}
		}
	}

	return check{true, "Valid email domain", 15}
}

func validateTaxID(taxID string) check {
	if taxID == "" {
		return check{false, "Tax ID missing", -25}
	}

	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(taxID), " ", ""))

	if !rnePattern.MatchString(normalized) {
		return check{false, "Invalid RNE format (must be 8 digits + 1 letter)", -25}
	}

	return check{true, "Valid RNE format", 20}
}

func checkOfficialName(officialName string) check {
	if strings.TrimSpace(officialName) != "" {
		return check{true, "Official name verified", 10}
	}
	return check{false, "No official name", 0}
}

func scoreFromReviews(reviews []ReviewFacts) (int, []string) {
	if len(reviews) == 0 {
		return 0, []string{"No reviews yet"}
	}

	approved := make([]ReviewFacts, 0, len(reviews))
	for _, r := range reviews {
		if r.Status == value.ReviewStatusApproved {
			approved = append(approved, r)
		}
	}

	if len(approved) == 0 {
		return 0, []string{"No approved reviews"}
	}

	var (
		delta   int
		reasons []string
	)

	// Ratings outside 1..5 are excluded so a corrupt row cannot skew the mean.
	var sum float64
	var rated int
	for _, r := range approved {
		if r.Rating >= 1 && r.Rating <= 5 {
			sum += float64(r.Rating)
			rated++
		}
	}

	if rated > 0 {
		avg := sum / float64(rated)
		switch {
		case avg >= 4.0:
			delta += 20
			reasons = append(reasons, fmt.Sprintf("High ratings (%.1f★) (+20)", avg))
		case avg >= 3.0:
			delta += 10
			reasons = append(reasons, fmt.Sprintf("Good ratings (%.1f★) (+10)", avg))
		default:
			delta -= 15
			reasons = append(reasons, fmt.Sprintf("Low ratings (%.1f★) (-15)", avg))
		}
	}

	// Threshold bonuses, not proportional to the counts.
	var fastReplies int
	for _, r := range approved {
		if isFastReply(r) {
			fastReplies++
		}
	}
	if fastReplies > 0 {
		delta += 10
		reasons = append(reasons, fmt.Sprintf("Fast replies (%d) (+10)", fastReplies))
	}

	var resolutions int
	for _, r := range approved {
		if r.ReRating >= resolutionMinRating {
			resolutions++
		}
	}
	if resolutions > 0 {
		delta += 15
		reasons = append(reasons, fmt.Sprintf("Good resolutions (%d) (+15)", resolutions))
	}

	return delta, reasons
}

func isFastReply(r ReviewFacts) bool {
	if r.Reply == "" || r.RepliedAt.IsZero() {
		return false
	}

	// A reply stamped before the review itself is bad data, not a fast reply.
	diff := r.RepliedAt.Sub(r.CreatedAt)

	return diff >= 0 && diff < fastReplyWindow
}

// FactsFromAgency projects a stored agency onto the calculator input once,
// at the boundary.
func FactsFromAgency(agency entity.Agency) AgencyFacts {
	return AgencyFacts{
		Phone:        agency.Phone,
		Email:        agency.Email,
		TaxID:        agency.TaxID,
		OfficialName: agency.OfficialName,
	}
}

func FactsFromReviews(reviews []entity.Review) []ReviewFacts {
	return lox.Map(reviews, func(r entity.Review) ReviewFacts {
		return ReviewFacts{
			Rating:    r.Rating,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
			Reply:     r.Reply,
			RepliedAt: r.RepliedAt,
			ReRating:  r.ReRating,
		}
	})
}
