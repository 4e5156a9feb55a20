package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"nexaway/internal/domain/entity"
	"nexaway/internal/domain/value"
	"nexaway/pkg/contextx"
	"nexaway/pkg/errcodes"
	"nexaway/pkg/httpx/reply"
	"nexaway/pkg/httpx/req"
	"nexaway/pkg/rest"
)

const (
	defaultReviewPageSize = 20
	maxReviewPageSize     = 100
)

type reviewService interface {
	Submit(ctx context.Context, review entity.Review) (*entity.Review, error)
	GetByReviewID(ctx context.Context, reviewID string) (*entity.Review, error)
	List(ctx context.Context, status value.ReviewStatus, limit, offset int) ([]entity.Review, int, error)
	Reply(ctx context.Context, reviewID, agencyTaxID, text string) error
	ReRate(ctx context.Context, reviewID, clientID string, rating int, comment string) error
	Moderate(ctx context.Context, reviewID string, status value.ReviewStatus) error
}

type ReviewServer struct {
	reviewService reviewService
}

func NewReviewServer(reviewService reviewService) ReviewServer {
	return ReviewServer{
		reviewService: reviewService,
	}
}

func (s ReviewServer) postV1Review(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ReviewSubmission

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	clientID := request.ClientID
	if clientID == "" {
		if fromCtx, err := contextx.ClientIDFromContext(ctx); err == nil {
			clientID = fromCtx.String()
		}
	}

	review, err := s.reviewService.Submit(ctx, entity.Review{
		AgencyTaxID:   request.AgencyTaxID,
		ClientID:      clientID,
		CustomerName:  request.CustomerName,
		CustomerEmail: request.CustomerEmail,
		Rating:        request.Rating,
		Comment:       request.Comment,
	})
	if err != nil {
		return fmt.Errorf("reviewService.Submit: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTReview(*review))

	return nil
}

func (s ReviewServer) getV1Reviews(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	status := value.ReviewStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		return failure.NewInvalidArgumentError(
			fmt.Sprintf("invalid status %q", status),
			failure.WithCode(errcodes.InvalidReviewStatus),
			failure.WithDescription("Unknown review status"),
		)
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}

	limit := queryInt(r, "limit", defaultReviewPageSize)
	if limit < 1 || limit > maxReviewPageSize {
		limit = defaultReviewPageSize
	}

	reviews, total, err := s.reviewService.List(ctx, status, limit, (page-1)*limit)
	if err != nil {
		return fmt.Errorf("reviewService.List: %w", err)
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	reply.JSON(ctx, w, http.StatusOK, rest.ReviewList{
		Data:  newRESTReviews(reviews),
		Total: total,
		Page:  page,
		Pages: pages,
	})

	return nil
}

func (s ReviewServer) getV1Review(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	review, err := s.reviewService.GetByReviewID(ctx, r.PathValue("reviewId"))
	if err != nil {
		return fmt.Errorf("reviewService.GetByReviewID: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTReview(*review))

	return nil
}

func (s ReviewServer) postV1ReviewReply(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ReviewReply

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if err := s.reviewService.Reply(ctx, r.PathValue("reviewId"), request.AgencyTaxID, request.ReplyText); err != nil {
		return fmt.Errorf("reviewService.Reply: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s ReviewServer) postV1ReviewReRate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ReviewReRate

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if err := s.reviewService.ReRate(ctx, r.PathValue("reviewId"), request.ClientID, request.Rating, request.Comment); err != nil {
		return fmt.Errorf("reviewService.ReRate: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s ReviewServer) postV1ReviewModerate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ReviewModeration

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	if err := s.reviewService.Moderate(ctx, r.PathValue("reviewId"), value.ReviewStatus(request.Status)); err != nil {
		return fmt.Errorf("reviewService.Moderate: %w", err)
	}

	reply.OK(w)

	return nil
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}

	return v
}
