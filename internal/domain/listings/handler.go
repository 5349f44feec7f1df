package listings

import (
	"encoding/json"
	"errors"
	"net/http"

	"petnest-frontend-core/internal/ports/upstream"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))
	})
}

type petResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	Sex       string `json:"sex"`
	AgeMonths int    `json:"ageMonths"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"imageUrl"`
	City      string `json:"city"`
	SellerID  string `json:"sellerId"`
}

func toPetResponse(p upstream.Pet) petResponse {
	return petResponse{
		ID:        p.ID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Sex:       p.Sex,
		AgeMonths: p.AgeMonths,
		Price:     p.Price,
		ImageURL:  p.ImageURL,
		City:      p.City,
		SellerID:  p.SellerID,
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pets, err := svc.List(r.Context())
		if err != nil && len(pets) == 0 {
			http.Error(w, "listings unavailable", http.StatusBadGateway)
			return
		}

		out := make([]petResponse, 0, len(pets))
		for _, p := range pets {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Focus(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			if errors.Is(err, upstream.ErrNotFound) {
				http.Error(w, "pet not found", http.StatusNotFound)
				return
			}
			http.Error(w, "listings unavailable", http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
