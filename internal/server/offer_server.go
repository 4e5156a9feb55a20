package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"nexaway/internal/domain/entity"
	service "nexaway/internal/domain/service/offer"
	"nexaway/pkg/httpx/reply"
	"nexaway/pkg/httpx/req"
	"nexaway/pkg/lox"
	"nexaway/pkg/rest"
)

type offerService interface {
	Create(ctx context.Context, offer entity.Offer) (*entity.Offer, error)
	List(ctx context.Context, filter service.Filter) ([]entity.Offer, error)
	GetByOfferID(ctx context.Context, offerID string) (*entity.Offer, error)
	Update(ctx context.Context, offerID string, updated entity.Offer) (*entity.Offer, error)
	Delete(ctx context.Context, offerID string) error
}

type OfferServer struct {
	offerService offerService
}

func NewOfferServer(offerService offerService) OfferServer {
	return OfferServer{
		offerService: offerService,
	}
}

func (s OfferServer) postV1Offer(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.OfferCreate

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	offer, err := s.offerService.Create(ctx, newDomainOffer(request))
	if err != nil {
		return fmt.Errorf("offerService.Create: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTOffer(*offer))

	return nil
}

func (s OfferServer) getV1Offers(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	filter := service.Filter{
		FromCity: r.URL.Query().Get("fromCity"),
		Type:     r.URL.Query().Get("type"),
	}

	if raw := r.URL.Query().Get("maxPrice"); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = price
		}
	}

	offers, err := s.offerService.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("offerService.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.OfferList{
		Data:  lox.Map(offers, newRESTOffer),
		Total: len(offers),
	})

	return nil
}

func (s OfferServer) getV1Offer(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	offer, err := s.offerService.GetByOfferID(ctx, r.PathValue("offerId"))
	if err != nil {
		return fmt.Errorf("offerService.GetByOfferID: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTOffer(*offer))

	return nil
}

func (s OfferServer) putV1Offer(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.OfferCreate

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	offer, err := s.offerService.Update(ctx, r.PathValue("offerId"), newDomainOffer(request))
	if err != nil {
		return fmt.Errorf("offerService.Update: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTOffer(*offer))

	return nil
}

func (s OfferServer) deleteV1Offer(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if err := s.offerService.Delete(ctx, r.PathValue("offerId")); err != nil {
		return fmt.Errorf("offerService.Delete: %w", err)
	}

	reply.OK(w)

	return nil
}
