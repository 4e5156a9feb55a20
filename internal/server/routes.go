package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"nexaway/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Route("/agencies", func(r chi.Router) {
				r.Post("/", handler(s.postV1Agency))
				r.Get("/", handler(s.getV1Agencies))
				r.Get("/{taxId}", handler(s.getV1Agency))
				r.Get("/{taxId}/score", handler(s.getV1AgencyScore))
				r.Post("/{taxId}/verify", handler(s.postV1AgencyVerify))
				r.Post("/{taxId}/approve", handler(s.postV1AgencyApprove))
				r.Post("/{taxId}/reject", handler(s.postV1AgencyReject))
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Post("/", handler(s.postV1Review))
				r.Get("/", handler(s.getV1Reviews))
				r.Get("/{reviewId}", handler(s.getV1Review))
				r.Post("/{reviewId}/reply", handler(s.postV1ReviewReply))
				r.Post("/{reviewId}/rerate", handler(s.postV1ReviewReRate))
				r.Post("/{reviewId}/moderate", handler(s.postV1ReviewModerate))
			})

			r.Route("/offers", func(r chi.Router) {
				r.Post("/", handler(s.postV1Offer))
				r.Get("/", handler(s.getV1Offers))
				r.Get("/{offerId}", handler(s.getV1Offer))
				r.Put("/{offerId}", handler(s.putV1Offer))
				r.Delete("/{offerId}", handler(s.deleteV1Offer))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Post("/recalculate", handler(s.postV1Recalculate))
			})
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
