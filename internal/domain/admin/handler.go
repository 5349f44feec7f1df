package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"petnest-frontend-core/internal/domain/session"
	"petnest-frontend-core/internal/middleware"
	"petnest-frontend-core/internal/ports/upstream"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/admin/advertisements", func(ar chi.Router) {
		ar.Get("/", listAdRequestsHandler(svc))
		ar.Patch("/{id}/approve", approveHandler(svc))
		ar.Patch("/{id}/reject", rejectHandler(svc))
		ar.Patch("/{id}/deactivate", deactivateHandler(svc))
		ar.Delete("/{id}", deleteHandler(svc))
	})
}

type adRequestResponse struct {
	ID        string    `json:"id"`
	SellerID  string    `json:"sellerId"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	Title     string    `json:"title"`
	BrandName string    `json:"brandName"`
	Placement string    `json:"placement"`
	Device    string    `json:"device"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func toAdRequestResponse(r upstream.AdRequest) adRequestResponse {
	return adRequestResponse{
		ID:        r.ID,
		SellerID:  r.SellerID,
		Status:    r.Status,
		Reason:    r.Reason,
		Title:     r.Creative.Title,
		BrandName: r.Creative.BrandName,
		Placement: r.Creative.Placement,
		Device:    r.Creative.Device,
		StartDate: r.Creative.StartDate,
		EndDate:   r.Creative.EndDate,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func listAdRequestsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireAdmin(w, r)
		if !ok {
			return
		}

		reqs, err := svc.ListAdRequests(r.Context(), sess.Token, r.URL.Query().Get("status"))
		if err != nil {
			writeAdminError(w, err)
			return
		}

		out := make([]adRequestResponse, 0, len(reqs))
		for _, q := range reqs {
			out = append(out, toAdRequestResponse(q))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func approveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireAdmin(w, r)
		if !ok {
			return
		}

		req, err := svc.Approve(r.Context(), sess.Token, chi.URLParam(r, "id"))
		if err != nil {
			writeAdminError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAdRequestResponse(req))
	}
}

func rejectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireAdmin(w, r)
		if !ok {
			return
		}

		var body rejectRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		req, err := svc.Reject(r.Context(), sess.Token, chi.URLParam(r, "id"), body.Reason)
		if err != nil {
			writeAdminError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAdRequestResponse(req))
	}
}

func deactivateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireAdmin(w, r)
		if !ok {
			return
		}

		req, err := svc.Deactivate(r.Context(), sess.Token, chi.URLParam(r, "id"))
		if err != nil {
			writeAdminError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAdRequestResponse(req))
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requireAdmin(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), sess.Token, chi.URLParam(r, "id")); err != nil {
			writeAdminError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func requireAdmin(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok || !sess.Authenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return session.Session{}, false
	}
	if !sess.IsAdmin() {
		http.Error(w, "forbidden", http.StatusForbidden)
		return session.Session{}, false
	}
	return sess, true
}

func writeAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, upstream.ErrUnauthorized):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, upstream.ErrNotFound):
		http.Error(w, "advertisement not found", http.StatusNotFound)
	default:
		http.Error(w, "admin service unavailable", http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
