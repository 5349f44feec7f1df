package petnestapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"petnest-frontend-core/internal/platform/httpclient"
	"petnest-frontend-core/internal/ports/upstream"
)

const adminAdsPath = "/v1/api/admin/advertisements"

type adRequestsResponse struct {
	Requests []adRequestPayload `json:"requests"`
}

func (c *Client) ListAdRequests(ctx context.Context, token, status string) ([]upstream.AdRequest, error) {
	path := httpclient.WithQuery(adminAdsPath, map[string]string{
		"status": strings.TrimSpace(status),
	})

	var out adRequestsResponse
	if err := c.do(ctx, http.MethodGet, path, token, nil, &out); err != nil {
		return nil, err
	}

	reqs := make([]upstream.AdRequest, 0, len(out.Requests))
	for _, r := range out.Requests {
		reqs = append(reqs, r.toAdRequest())
	}
	return reqs, nil
}

func (c *Client) ApproveAd(ctx context.Context, token, id string) (upstream.AdRequest, error) {
	return c.patchAd(ctx, token, id, "approve", nil)
}

func (c *Client) RejectAd(ctx context.Context, token, id, reason string) (upstream.AdRequest, error) {
	in := map[string]string{"reason": strings.TrimSpace(reason)}
	return c.patchAd(ctx, token, id, "reject", in)
}

func (c *Client) DeactivateAd(ctx context.Context, token, id string) (upstream.AdRequest, error) {
	return c.patchAd(ctx, token, id, "deactivate", nil)
}

func (c *Client) DeleteAd(ctx context.Context, token, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("petnestapi: ad request id required")
	}
	return c.do(ctx, http.MethodDelete, adminAdsPath+"/"+url.PathEscape(id), token, nil, nil)
}

func (c *Client) patchAd(ctx context.Context, token, id, action string, in any) (upstream.AdRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return upstream.AdRequest{}, errors.New("petnestapi: ad request id required")
	}

	var out adRequestPayload
	path := adminAdsPath + "/" + url.PathEscape(id) + "/" + action
	if err := c.do(ctx, http.MethodPatch, path, token, in, &out); err != nil {
		return upstream.AdRequest{}, err
	}
	return out.toAdRequest(), nil
}
