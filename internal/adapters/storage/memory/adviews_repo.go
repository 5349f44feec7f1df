package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"petnest-frontend-core/internal/domain/ads"
)

// viewTTL limita la vida de un view (un page-load no dura horas);
// la poda es lazy, al marcar impresiones nuevas.
const viewTTL = time.Hour

type adView struct {
	seen      map[string]struct{}
	createdAt time.Time
}

type adViewsRepo struct {
	mu     sync.Mutex
	byView map[string]*adView
	now    func() time.Time
}

func NewAdViewsRepo() ads.ViewRepository {
	return &adViewsRepo{
		byView: make(map[string]*adView),
		now:    time.Now,
	}
}

func (r *adViewsRepo) MarkImpression(ctx context.Context, viewID, adID string) (bool, error) {
	viewID = strings.TrimSpace(viewID)
	adID = strings.TrimSpace(adID)
	if viewID == "" || adID == "" {
		return false, errors.New("viewID and adID required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.pruneLocked(now)

	v, ok := r.byView[viewID]
	if !ok {
		v = &adView{seen: map[string]struct{}{}, createdAt: now}
		r.byView[viewID] = v
	}

	if _, dup := v.seen[adID]; dup {
		return false, nil
	}
	v.seen[adID] = struct{}{}
	return true, nil
}

func (r *adViewsRepo) pruneLocked(now time.Time) {
	for id, v := range r.byView {
		if now.Sub(v.createdAt) > viewTTL {
			delete(r.byView, id)
		}
	}
}
