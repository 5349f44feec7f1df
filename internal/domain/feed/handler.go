package feed

import (
	"encoding/json"
	"net/http"
	"strconv"

	"petnest-frontend-core/internal/middleware"
	"petnest-frontend-core/internal/ports/upstream"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/feed", feedHandler(svc))
}

type feedItemResponse struct {
	Kind string `json:"kind"`
	Pet  any    `json:"pet,omitempty"`
	Ad   any    `json:"ad,omitempty"`
}

type feedResponse struct {
	Page    int                `json:"page"`
	Limit   int                `json:"limit"`
	Items   []feedItemResponse `json:"items"`
	HasMore bool               `json:"hasMore"`
}

func feedHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := queryInt(r, "page", 1)
		limit := queryInt(r, "limit", 20)
		width := middleware.GetViewportWidth(r.Context())

		fp, err := svc.Page(r.Context(), page, limit, width)
		if err != nil {
			http.Error(w, "feed unavailable", http.StatusBadGateway)
			return
		}

		items := make([]feedItemResponse, 0, len(fp.Items))
		for _, it := range fp.Items {
			items = append(items, toFeedItemResponse(it))
		}

		writeJSON(w, http.StatusOK, feedResponse{
			Page:    fp.Page,
			Limit:   fp.Limit,
			Items:   items,
			HasMore: fp.HasMore,
		})
	}
}

func toFeedItemResponse(it upstream.FeedItem) feedItemResponse {
	out := feedItemResponse{Kind: it.Kind}
	if it.Pet != nil {
		out.Pet = map[string]any{
			"id":       it.Pet.ID,
			"name":     it.Pet.Name,
			"species":  it.Pet.Species,
			"breed":    it.Pet.Breed,
			"price":    it.Pet.Price,
			"imageUrl": it.Pet.ImageURL,
			"city":     it.Pet.City,
		}
	}
	if it.Ad != nil {
		out.Ad = map[string]any{
			"id":          it.Ad.ID,
			"title":       it.Ad.Title,
			"brandName":   it.Ad.BrandName,
			"imageUrl":    it.Ad.ImageURL,
			"ctaText":     it.Ad.CTAText,
			"redirectUrl": it.Ad.RedirectURL,
		}
	}
	return out
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
