package petnestapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"petnest-frontend-core/internal/platform/httpclient"
	"petnest-frontend-core/internal/ports/upstream"
)

const feedPath = "/v1/api/feed"

type feedItemPayload struct {
	Kind string      `json:"kind"`
	Pet  *petPayload `json:"pet"`
	Ad   *adPayload  `json:"ad"`
}

type feedResponse struct {
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
	Items   []feedItemPayload `json:"items"`
	HasMore bool              `json:"hasMore"`
}

func (c *Client) Page(ctx context.Context, page, limit int, device string) (upstream.FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	path := httpclient.WithQuery(feedPath, map[string]string{
		"page":   strconv.Itoa(page),
		"limit":  strconv.Itoa(limit),
		"device": strings.TrimSpace(device),
	})

	var out feedResponse
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return upstream.FeedPage{}, err
	}

	items := make([]upstream.FeedItem, 0, len(out.Items))
	for _, it := range out.Items {
		item := upstream.FeedItem{Kind: strings.ToLower(strings.TrimSpace(it.Kind))}
		switch {
		case it.Pet != nil:
			p := it.Pet.toPet()
			item.Pet = &p
			if item.Kind == "" {
				item.Kind = "pet"
			}
		case it.Ad != nil:
			a := it.Ad.toCreative()
			item.Ad = &a
			if item.Kind == "" {
				item.Kind = "ad"
			}
		default:
			// item vacío del upstream: se ignora
			continue
		}
		items = append(items, item)
	}

	return upstream.FeedPage{
		Page:    out.Page,
		Limit:   out.Limit,
		Items:   items,
		HasMore: out.HasMore,
	}, nil
}
