package ads

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"petnest-frontend-core/internal/middleware"
	"petnest-frontend-core/internal/ports/upstream"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/ads", func(ar chi.Router) {
		ar.Get("/", getAdsHandler(svc))
		ar.Post("/{adID}/impression", impressionHandler(svc))
		ar.Post("/{adID}/click", clickHandler(svc))
	})
}

type creativeResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Tagline     string   `json:"tagline,omitempty"`
	BrandName   string   `json:"brandName"`
	ImageURL    string   `json:"imageUrl"`
	CTAText     string   `json:"ctaText"`
	RedirectURL string   `json:"redirectUrl"`
	Placement   string   `json:"placement"`
	TargetPages []string `json:"targetPages,omitempty"`
}

type placementResponse struct {
	ViewID    string             `json:"viewId"`
	Device    string             `json:"device"`
	Fallback  bool               `json:"fallback"`
	Creatives []creativeResponse `json:"creatives"`
}

type impressionRequest struct {
	ViewID string `json:"viewId"`
}

func toCreativeResponse(a upstream.AdCreative) creativeResponse {
	return creativeResponse{
		ID:          a.ID,
		Title:       a.Title,
		Subtitle:    a.Subtitle,
		Tagline:     a.Tagline,
		BrandName:   a.BrandName,
		ImageURL:    a.ImageURL,
		CTAText:     a.CTAText,
		RedirectURL: a.RedirectURL,
		Placement:   a.Placement,
		TargetPages: a.TargetPages,
	}
}

func getAdsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		placement, ok := ParsePlacement(r.URL.Query().Get("placement"))
		if !ok {
			http.Error(w, "unknown placement", http.StatusBadRequest)
			return
		}

		width := middleware.GetViewportWidth(r.Context())

		res, err := svc.Eligible(r.Context(), placement, width)
		if err != nil {
			// Fetch fallido rinde igual que inventario vacío (la UI no
			// distingue); queda logueado del lado del service.
			svc.log.Warn("ad fetch failed", map[string]any{"placement": string(placement), "error": err.Error()})
			writeJSON(w, http.StatusOK, placementResponse{
				Device:    string(Classify(width)),
				Creatives: []creativeResponse{},
			})
			return
		}

		creatives := make([]creativeResponse, 0, len(res.Creatives))
		for _, a := range res.Creatives {
			creatives = append(creatives, toCreativeResponse(a))
		}

		writeJSON(w, http.StatusOK, placementResponse{
			ViewID:    res.ViewID,
			Device:    string(res.Device),
			Fallback:  res.Fallback,
			Creatives: creatives,
		})
	}
}

func impressionHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req impressionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		err := svc.RecordImpression(r.Context(), req.ViewID, chi.URLParam(r, "adID"))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "viewId and adId required", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func clickHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adID := chi.URLParam(r, "adID")
		if adID == "" {
			http.Error(w, "adId required", http.StatusBadRequest)
			return
		}

		// Se responde antes de hablar con el upstream: el navegador ya está
		// navegando al redirect y no debe esperar la telemetría.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = svc.RecordClick(ctx, adID)
		}()

		w.WriteHeader(http.StatusAccepted)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
