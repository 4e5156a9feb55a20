package review

import (
	"strings"

	"nexaway/internal/domain/entity"
)

const suspicionThreshold = 3

//nolint:gochecknoglobals
var (
	spamPhrases = []string{"amazing", "perfect", "best ever", "5⭐⭐⭐⭐⭐"}

	// Personal mailbox patterns common to bulk-submitted fake reviews.
	throwawayDomains = []string{"gmail.com", "yahoo.com", "hotmail.com", ".tn", ".fr"}
)

// Guardian flags spam before a review reaches storage. Flagged submissions
// are stored as rejected so the scorer never sees them.
type Guardian struct{}

func NewGuardian() Guardian {
	return Guardian{}
}

func (Guardian) IsSuspicious(review entity.Review) bool {
	flags := 0

	comment := strings.ToLower(review.Comment)

	phraseHits := 0
	for _, phrase := range spamPhrases {
		if strings.Contains(comment, phrase) {
			phraseHits++
		}
	}
	if phraseHits > 2 {
		flags += 2
	}

	// A one-liner with a perfect rating is the classic shill shape.
	if len(review.Comment) < 20 && review.Rating == 5 {
		flags++
	}

	email := strings.ToLower(review.CustomerEmail)
	for _, suffix := range throwawayDomains {
		if strings.Contains(email, suffix) {
			flags++
			break
		}
	}

	return flags >= suspicionThreshold
}
