package listings

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"petnest-frontend-core/internal/ports/upstream"
)

type fakePetsAPI struct {
	pets    []upstream.Pet
	listErr error
}

func (f *fakePetsAPI) List(ctx context.Context) ([]upstream.Pet, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]upstream.Pet(nil), f.pets...), nil
}

func (f *fakePetsAPI) GetByID(ctx context.Context, id string) (upstream.Pet, error) {
	for _, p := range f.pets {
		if p.ID == id {
			return p, nil
		}
	}
	return upstream.Pet{}, fmt.Errorf("%w: pet %s", upstream.ErrNotFound, id)
}

func TestList_RefreshesCache(t *testing.T) {
	api := &fakePetsAPI{pets: []upstream.Pet{{ID: "p1", Name: "Rocky"}, {ID: "p2", Name: "Luna"}}}
	svc := NewService(api, nil)

	pets, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pets) != 2 {
		t.Fatalf("expected 2 pets, got %d", len(pets))
	}

	st := svc.Snapshot()
	if len(st.Pets) != 2 || st.Loading || st.Err != nil {
		t.Fatalf("unexpected snapshot: %#v", st)
	}
}

func TestList_ErrorKeepsPreviousCache(t *testing.T) {
	api := &fakePetsAPI{pets: []upstream.Pet{{ID: "p1", Name: "Rocky"}}}
	svc := NewService(api, nil)

	if _, err := svc.List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}

	api.listErr = errors.New("backend down")
	pets, err := svc.List(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(pets) != 1 || pets[0].ID != "p1" {
		t.Fatalf("failed refresh must keep previous cache, got %v", pets)
	}

	st := svc.Snapshot()
	if st.Err == nil {
		t.Fatalf("snapshot must carry the last error")
	}
	if len(st.Pets) != 1 {
		t.Fatalf("snapshot must keep previous pets")
	}
}

func TestFocus_SetsAndClearsCurrent(t *testing.T) {
	api := &fakePetsAPI{pets: []upstream.Pet{{ID: "p1", Name: "Rocky"}}}
	svc := NewService(api, nil)

	p, err := svc.Focus(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Focus: %v", err)
	}
	if p.ID != "p1" {
		t.Fatalf("unexpected pet %#v", p)
	}

	if st := svc.Snapshot(); st.CurrentPet == nil || st.CurrentPet.ID != "p1" {
		t.Fatalf("current pet not set")
	}

	svc.ClearCurrent()
	if st := svc.Snapshot(); st.CurrentPet != nil {
		t.Fatalf("current pet not cleared")
	}
}

func TestFocus_DeepLinkOutsideCache(t *testing.T) {
	// el pet enfocado no necesita estar en el listado cacheado
	api := &fakePetsAPI{pets: []upstream.Pet{{ID: "p9", Name: "Deep"}}}
	svc := NewService(api, nil)

	if _, err := svc.Focus(context.Background(), "p9"); err != nil {
		t.Fatalf("Focus: %v", err)
	}
	if st := svc.Snapshot(); len(st.Pets) != 0 || st.CurrentPet == nil {
		t.Fatalf("focus must not touch the list cache: %#v", st)
	}
}

func TestFocus_NotFoundPropagates(t *testing.T) {
	svc := NewService(&fakePetsAPI{}, nil)

	_, err := svc.Focus(context.Background(), "nope")
	if !errors.Is(err, upstream.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
