package petnestapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"petnest-frontend-core/internal/ports/upstream"
)

const petsPath = "/v1/api/pets"

func (c *Client) List(ctx context.Context) ([]upstream.Pet, error) {
	var out []petPayload
	if err := c.do(ctx, http.MethodGet, petsPath, "", nil, &out); err != nil {
		return nil, err
	}
	return toPets(out), nil
}

func (c *Client) GetByID(ctx context.Context, id string) (upstream.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return upstream.Pet{}, errors.New("petnestapi: pet id required")
	}
	var out petPayload
	if err := c.do(ctx, http.MethodGet, petsPath+"/"+url.PathEscape(id), "", nil, &out); err != nil {
		return upstream.Pet{}, err
	}
	return out.toPet(), nil
}
