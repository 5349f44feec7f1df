package wishlist

import (
	"encoding/json"
	"errors"
	"net/http"

	"petnest-frontend-core/internal/domain/session"
	"petnest-frontend-core/internal/middleware"
	"petnest-frontend-core/internal/ports/upstream"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/wishlist", func(wr chi.Router) {
		wr.Get("/", getWishlistHandler(svc))
		wr.Post("/refresh", refreshWishlistHandler(svc))
		wr.Post("/{petID}", addWishlistHandler(svc))
		wr.Delete("/{petID}", removeWishlistHandler(svc))
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

type wishlistResponse struct {
	Items []petResponse `json:"items"`
	IDs   []string      `json:"wishlistedIds"`
}

func toWishlistResponse(s State) wishlistResponse {
	items := make([]petResponse, 0, len(s.Items))
	for _, p := range s.Items {
		items = append(items, toPetResponse(p))
	}
	ids := s.IDs
	if ids == nil {
		ids = []string{}
	}
	return wishlistResponse{Items: items, IDs: ids}
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

func getWishlistHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireBuyer(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toWishlistResponse(svc.Get(sess.ID)))
	}
}

func refreshWishlistHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireBuyer(w, r)
		if !ok {
			return
		}

		st, err := svc.Refresh(r.Context(), sess)
		if err != nil {
			writeWishlistError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWishlistResponse(st))
	}
}

func addWishlistHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireBuyer(w, r)
		if !ok {
			return
		}

		st, err := svc.Add(r.Context(), sess, chi.URLParam(r, "petID"))
		if err != nil {
			writeWishlistError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWishlistResponse(st))
	}
}

func removeWishlistHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireBuyer(w, r)
		if !ok {
			return
		}

		st, err := svc.Remove(r.Context(), sess, chi.URLParam(r, "petID"))
		if err != nil {
			writeWishlistError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toWishlistResponse(st))
	}
}

func requireBuyer(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok || !sess.Authenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return session.Session{}, false
	}
	if !sess.IsBuyer() {
		http.Error(w, "wishlist is buyer-only", http.StatusForbidden)
		return session.Session{}, false
	}
	return sess, true
}

func writeWishlistError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBuyerOnly):
		http.Error(w, "wishlist is buyer-only", http.StatusForbidden)
	case errors.Is(err, upstream.ErrUnauthorized):
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	case errors.Is(err, upstream.ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	default:
		http.Error(w, "wishlist service unavailable", http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
