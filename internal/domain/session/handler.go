package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"petnest-frontend-core/internal/ports/upstream"

	"github.com/go-chi/chi/v5"
)

// CookieOptions define la cookie de sesión HTTP-only.
type CookieOptions struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

func RegisterRoutes(r chi.Router, svc *Service, ck CookieOptions) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/login", loginHandler(svc, ck))
		ar.Post("/verify-otp", verifyOTPHandler(svc, ck))
		ar.Post("/resend-otp", resendOTPHandler(svc))
		ar.Post("/logout", logoutHandler(svc, ck))

		// Restore: una vez por page-load. Nunca devuelve 401: anónimo es
		// un estado válido, no un error.
		ar.Get("/session", sessionHandler(svc, ck))
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type userResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Verified bool   `json:"isVerified"`
}

type sessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	OTPRequired   bool          `json:"otpRequired,omitempty"`
	Message       string        `json:"message,omitempty"`
	User          *userResponse `json:"user,omitempty"`
}

func toUserResponse(u *upstream.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Verified: u.Verified,
	}
}

func loginHandler(svc *Service, ck CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			http.Error(w, "email and password required", http.StatusBadRequest)
			return
		}

		res, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			// Credenciales malas no tocan la sesión que el navegador ya traía.
			writeAuthError(w, err)
			return
		}

		if !res.OTPPending {
			closePrevious(svc, r, ck, res.Session.ID)
		}

		finishAuth(w, res, ck)
	}
}

func verifyOTPHandler(svc *Service, ck CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req otpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.OTP) == "" {
			http.Error(w, "email and otp required", http.StatusBadRequest)
			return
		}

		res, err := svc.VerifyOTP(r.Context(), req.Email, req.OTP)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		if !res.OTPPending {
			closePrevious(svc, r, ck, res.Session.ID)
		}

		finishAuth(w, res, ck)
	}
}

func resendOTPHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req otpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Email) == "" {
			http.Error(w, "email required", http.StatusBadRequest)
			return
		}

		if err := svc.ResendOTP(r.Context(), req.Email); err != nil {
			writeAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "otp sent"})
	}
}

func logoutHandler(svc *Service, ck CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(ck.Name); err == nil && c.Value != "" {
			svc.Logout(r.Context(), c.Value)
		}
		clearSessionCookie(w, ck)
		writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}

func sessionHandler(svc *Service, ck CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(ck.Name); err == nil {
			id = c.Value
		}

		sess := svc.Restore(r.Context(), id)
		if !sess.Authenticated() {
			// Cookie inválida/vencida: se limpia para no re-intentar en cada load.
			if id != "" {
				clearSessionCookie(w, ck)
			}
			writeJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
			return
		}

		writeJSON(w, http.StatusOK, sessionResponse{
			Authenticated: true,
			User:          toUserResponse(sess.User),
		})
	}
}

// closePrevious cierra la sesión que el navegador ya traía, recién cuando
// la identidad nueva está confirmada: un login fallido deja la sesión
// vigente intacta. La transición de logout limpia la wishlist vieja igual
// que siempre (el estado es por sesión, el orden no cruza identidades).
func closePrevious(svc *Service, r *http.Request, ck CookieOptions, newID string) {
	c, err := r.Cookie(ck.Name)
	if err != nil || strings.TrimSpace(c.Value) == "" || c.Value == newID {
		return
	}
	svc.Logout(r.Context(), c.Value)
}

func finishAuth(w http.ResponseWriter, res Result, ck CookieOptions) {
	if res.OTPPending {
		writeJSON(w, http.StatusOK, sessionResponse{
			OTPRequired: true,
			Message:     res.Message,
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     ck.Name,
		Value:    res.Session.ID,
		Path:     "/",
		MaxAge:   int(ck.TTL / time.Second),
		HttpOnly: true,
		Secure:   ck.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		Message:       res.Message,
		User:          toUserResponse(res.Session.User),
	})
}

func clearSessionCookie(w http.ResponseWriter, ck CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     ck.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   ck.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, upstream.ErrUnauthorized):
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	default:
		http.Error(w, "auth service unavailable", http.StatusBadGateway)
	}
}

// writeJSON está duplicado intencionalmente en los handlers de cada módulo
// para no crear helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
