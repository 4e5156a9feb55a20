package server

import (
	"context"
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"nexaway/internal/domain/entity"
	service "nexaway/internal/domain/service/agency"
	"nexaway/internal/domain/service/trustscore"
	"nexaway/internal/domain/value"
	"nexaway/pkg/errcodes"
	"nexaway/pkg/httpx/reply"
	"nexaway/pkg/httpx/req"
	"nexaway/pkg/lox"
	"nexaway/pkg/rest"
)

type agencyService interface {
	Register(ctx context.Context, agency entity.Agency) (entity.ScoreResult, error)
	Score(ctx context.Context, taxID string) (entity.ScoreResult, error)
	GetByTaxID(ctx context.Context, taxID string) (*entity.Agency, error)
	ListByTrust(ctx context.Context, status value.AgencyStatus) ([]service.AgencyListing, error)
	Approve(ctx context.Context, taxID string) error
	Reject(ctx context.Context, taxID string) error
	VerifyRegistry(ctx context.Context, taxID string) (service.RegistryVerification, error)
}

type taskClient interface {
	EnqueueRecalculation(ctx context.Context) (string, error)
}

type AgencyServer struct {
	agencyService agencyService
	taskClient    taskClient
}

func NewAgencyServer(agencyService agencyService, taskClient taskClient) AgencyServer {
	return AgencyServer{
		agencyService: agencyService,
		taskClient:    taskClient,
	}
}

func (s AgencyServer) postV1Agency(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.AgencyRegistration

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	agency := newDomainAgency(request)

	result, err := s.agencyService.Register(ctx, agency)
	if err != nil {
		return fmt.Errorf("agencyService.Register: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, rest.RegistrationResult{
		TaxID:           value.PadTaxID(value.NormalizeTaxID(request.TaxID)),
		TrustScore:      newRESTScore(result),
		FraudRisk:       result.Score < trustscore.BaseScore,
		PremiumVerified: service.IsPremium(result.Score),
	})

	return nil
}

func (s AgencyServer) getV1Agencies(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	status := value.AgencyStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		return failure.NewInvalidArgumentError(
			fmt.Sprintf("invalid status %q", status),
			failure.WithCode(errcodes.InvalidAgencyStatus),
			failure.WithDescription("Unknown agency status"),
		)
	}

	listings, err := s.agencyService.ListByTrust(ctx, status)
	if err != nil {
		return fmt.Errorf("agencyService.ListByTrust: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.AgencyList{
		Data:  lox.Map(listings, newRESTAgencyFromListing),
		Total: len(listings),
	})

	return nil
}

func (s AgencyServer) getV1Agency(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	agency, err := s.agencyService.GetByTaxID(ctx, r.PathValue("taxId"))
	if err != nil {
		return fmt.Errorf("agencyService.GetByTaxID: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTAgency(*agency, 0))

	return nil
}

func (s AgencyServer) getV1AgencyScore(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	result, err := s.agencyService.Score(ctx, r.PathValue("taxId"))
	if err != nil {
		return fmt.Errorf("agencyService.Score: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTScore(result))

	return nil
}

func (s AgencyServer) postV1AgencyVerify(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	taxID := r.PathValue("taxId")

	verification, err := s.agencyService.VerifyRegistry(ctx, taxID)
	if err != nil {
		return fmt.Errorf("agencyService.VerifyRegistry: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, map[string]any{
		"verified":   verification.Verified,
		"scoreBoost": verification.ScoreBoost,
	})

	return nil
}

func (s AgencyServer) postV1AgencyApprove(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := s.agencyService.Approve(ctx, r.PathValue("taxId")); err != nil {
		return fmt.Errorf("agencyService.Approve: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s AgencyServer) postV1AgencyReject(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := s.agencyService.Reject(ctx, r.PathValue("taxId")); err != nil {
		return fmt.Errorf("agencyService.Reject: %w", err)
	}

	reply.OK(w)

	return nil
}

func (s AgencyServer) postV1Recalculate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	taskID, err := s.taskClient.EnqueueRecalculation(ctx)
	if err != nil {
		return fmt.Errorf("taskClient.EnqueueRecalculation: %w", err)
	}

	reply.JSON(ctx, w, http.StatusAccepted, rest.RecalculationResult{
		TaskID: taskID,
		Queued: true,
	})

	return nil
}
