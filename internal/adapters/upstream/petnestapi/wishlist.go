package petnestapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"petnest-frontend-core/internal/ports/upstream"
)

const wishlistPath = "/v1/api/wishlist"

type wishlistResponse struct {
	Items []petPayload `json:"items"`
}

func (c *Client) Fetch(ctx context.Context, token string) ([]upstream.Pet, error) {
	var out wishlistResponse
	if err := c.do(ctx, http.MethodGet, wishlistPath, token, nil, &out); err != nil {
		return nil, err
	}
	return toPets(out.Items), nil
}

func (c *Client) Add(ctx context.Context, token, petID string) ([]upstream.Pet, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, errors.New("petnestapi: petID required")
	}
	var out wishlistResponse
	if err := c.do(ctx, http.MethodPost, wishlistPath+"/"+url.PathEscape(petID), token, nil, &out); err != nil {
		return nil, err
	}
	return toPets(out.Items), nil
}

func (c *Client) Remove(ctx context.Context, token, petID string) ([]upstream.Pet, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return nil, errors.New("petnestapi: petID required")
	}
	var out wishlistResponse
	if err := c.do(ctx, http.MethodDelete, wishlistPath+"/"+url.PathEscape(petID), token, nil, &out); err != nil {
		return nil, err
	}
	return toPets(out.Items), nil
}
