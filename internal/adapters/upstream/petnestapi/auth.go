package petnestapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"petnest-frontend-core/internal/ports/upstream"
)

const (
	loginPath     = "/v1/api/auth/login"
	logoutPath    = "/v1/api/auth/logout"
	verifyOTPPath = "/v1/api/auth/verify-otp"
	resendOTPPath = "/v1/api/auth/resend-otp"
)

type loginResponse struct {
	Message     string       `json:"message"`
	OTPRequired bool         `json:"otpRequired"`
	User        *userPayload `json:"user"`
	Token       string       `json:"token"`
}

func (r loginResponse) toResult() (upstream.LoginResult, error) {
	if r.OTPRequired {
		return upstream.LoginResult{OTPPending: true, Message: r.Message}, nil
	}
	if r.User == nil {
		return upstream.LoginResult{}, errors.New("petnestapi: login response missing user")
	}
	u := r.User.toUser()
	if u == nil {
		return upstream.LoginResult{}, errors.New("petnestapi: login response missing user id")
	}
	return upstream.LoginResult{
		Message: r.Message,
		User:    u,
		Token:   strings.TrimSpace(r.Token),
	}, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (upstream.LoginResult, error) {
	in := map[string]string{
		"email":    strings.TrimSpace(email),
		"password": password,
	}
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, loginPath, "", in, &out); err != nil {
		return upstream.LoginResult{}, err
	}
	return out.toResult()
}

func (c *Client) VerifyOTP(ctx context.Context, email, code string) (upstream.LoginResult, error) {
	in := map[string]string{
		"email": strings.TrimSpace(email),
		"otp":   strings.TrimSpace(code),
	}
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, verifyOTPPath, "", in, &out); err != nil {
		return upstream.LoginResult{}, err
	}
	return out.toResult()
}

func (c *Client) ResendOTP(ctx context.Context, email string) error {
	in := map[string]string{"email": strings.TrimSpace(email)}
	return c.do(ctx, http.MethodPost, resendOTPPath, "", in, nil)
}

// Logout upstream es best-effort: si el token ya expiró, el backend
// responde 401 y eso no debe impedir cerrar la sesión local.
func (c *Client) Logout(ctx context.Context, token string) error {
	err := c.do(ctx, http.MethodPost, logoutPath, token, nil, nil)
	if errors.Is(err, upstream.ErrUnauthorized) {
		return nil
	}
	return err
}
