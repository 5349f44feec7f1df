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

// El backend expone los creatives elegibles bajo /v1/api/ads/ads
// (herencia del router histórico; se mantiene el path tal cual).
const (
	adsEligiblePath = "/v1/api/ads/ads"
	adsBasePath     = "/v1/api/ads"
)

type adsResponse struct {
	Ads []adPayload `json:"ads"`
}

// Eligible trae los creatives para (placement, device). El filtrado de
// elegibilidad es responsabilidad del server; acá solo se pasan los params.
// Cero resultados => slice vacío, nunca error.
func (c *Client) Eligible(ctx context.Context, placement, device string) ([]upstream.AdCreative, error) {
	path := httpclient.WithQuery(adsEligiblePath, map[string]string{
		"placement": strings.TrimSpace(placement),
		"device":    strings.TrimSpace(device),
	})

	var out adsResponse
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}

	creatives := make([]upstream.AdCreative, 0, len(out.Ads))
	for _, a := range out.Ads {
		creatives = append(creatives, a.toCreative())
	}
	return creatives, nil
}

func (c *Client) Impression(ctx context.Context, adID string) error {
	adID = strings.TrimSpace(adID)
	if adID == "" {
		return errors.New("petnestapi: ad id required")
	}
	return c.do(ctx, http.MethodPost, adsBasePath+"/"+url.PathEscape(adID)+"/impression", "", nil, nil)
}

func (c *Client) Click(ctx context.Context, adID string) error {
	adID = strings.TrimSpace(adID)
	if adID == "" {
		return errors.New("petnestapi: ad id required")
	}
	return c.do(ctx, http.MethodPost, adsBasePath+"/"+url.PathEscape(adID)+"/click", "", nil, nil)
}
