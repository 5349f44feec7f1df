package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"petnest-frontend-core/internal/config"
	"petnest-frontend-core/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// fakeBackend simula el REST de PetNest que el gateway consume.
type fakeBackend struct {
	mu          sync.Mutex
	wishlists   map[string][]map[string]any // token -> pets
	impressions map[string]int
	clicks      map[string]int
	lastDevice  string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		wishlists: map[string][]map[string]any{
			"tok-buyer": {
				{"_id": "p1", "name": "Rocky", "species": "dog"},
			},
		},
		impressions: map[string]int{},
		clicks:      map[string]int{},
	}
}

func (b *fakeBackend) handler() http.Handler {
	r := chi.NewRouter()

	r.Post("/v1/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(req.Body).Decode(&body)

		var user map[string]any
		var token string
		switch body["email"] {
		case "buyer@example.com":
			user = map[string]any{"_id": "u-buyer", "name": "Buyer", "email": body["email"], "role": "buyer", "isVerified": true}
			token = "tok-buyer"
		case "admin@example.com":
			user = map[string]any{"_id": "u-admin", "name": "Admin", "email": body["email"], "role": "admin", "isVerified": true}
			token = "tok-admin"
		default:
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "ok", "user": user, "token": token})
	})

	r.Post("/v1/api/auth/logout", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/v1/api/wishlist", func(w http.ResponseWriter, req *http.Request) {
		token, ok := b.bearer(req)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		b.mu.Lock()
		items := append([]map[string]any(nil), b.wishlists[token]...)
		b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	})

	r.Post("/v1/api/wishlist/{petID}", func(w http.ResponseWriter, req *http.Request) {
		token, ok := b.bearer(req)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		id := chi.URLParam(req, "petID")
		b.mu.Lock()
		b.wishlists[token] = append(b.wishlists[token], map[string]any{"_id": id, "name": "pet-" + id})
		items := append([]map[string]any(nil), b.wishlists[token]...)
		b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	})

	r.Delete("/v1/api/wishlist/{petID}", func(w http.ResponseWriter, req *http.Request) {
		token, ok := b.bearer(req)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		id := chi.URLParam(req, "petID")
		b.mu.Lock()
		kept := b.wishlists[token][:0]
		for _, p := range b.wishlists[token] {
			if p["_id"] != id {
				kept = append(kept, p)
			}
		}
		b.wishlists[token] = kept
		items := append([]map[string]any(nil), kept...)
		b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
	})

	r.Get("/v1/api/ads/ads", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		b.lastDevice = req.URL.Query().Get("device")
		b.mu.Unlock()

		var ads []map[string]any
		if req.URL.Query().Get("placement") == "home_top_banner" {
			ads = []map[string]any{
				{"_id": "a1", "title": "Premium Food", "brandName": "DogChow", "redirectUrl": "https://brand.example/a1", "isActive": true},
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"ads": ads})
	})

	r.Post("/v1/api/ads/{adID}/impression", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		b.impressions[chi.URLParam(req, "adID")]++
		b.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	r.Post("/v1/api/ads/{adID}/click", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		b.clicks[chi.URLParam(req, "adID")]++
		b.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/v1/api/pets", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"_id": "p1", "name": "Rocky", "species": "dog"},
			{"_id": "p2", "name": "Luna", "species": "cat"},
		})
	})

	r.Get("/v1/api/pets/{petID}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "petID") != "p1" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"_id": "p1", "name": "Rocky"})
	})

	r.Get("/v1/api/feed", func(w http.ResponseWriter, req *http.Request) {
		b.mu.Lock()
		b.lastDevice = req.URL.Query().Get("device")
		b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"page": 1, "limit": 20, "hasMore": false,
			"items": []map[string]any{
				{"kind": "pet", "pet": map[string]any{"_id": "p1", "name": "Rocky"}},
				{"kind": "ad", "ad": map[string]any{"_id": "a1", "title": "Premium Food"}},
			},
		})
	})

	r.Get("/v1/api/admin/advertisements", func(w http.ResponseWriter, req *http.Request) {
		token, _ := b.bearer(req)
		if token != "tok-admin" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"requests": []map[string]any{
			{"_id": "r1", "sellerId": "s1", "status": "pending", "creative": map[string]any{"_id": "a9", "title": "New Ad"}},
		}})
	})

	return r
}

func (b *fakeBackend) bearer(req *http.Request) (string, bool) {
	h := req.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(h, "Bearer "), true
}

func (b *fakeBackend) impressionCount(adID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.impressions[adID]
}

func (b *fakeBackend) clickCount(adID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clicks[adID]
}

func (b *fakeBackend) device() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastDevice
}

type gatewayTest struct {
	backend *fakeBackend
	server  *httptest.Server
	client  *http.Client
}

func newGatewayTest(t *testing.T) *gatewayTest {
	t.Helper()

	backend := newFakeBackend()
	upstream := httptest.NewServer(backend.handler())
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		Port:              "0",
		APIBaseURL:        upstream.URL,
		APITimeout:        5 * time.Second,
		SessionTTL:        time.Hour,
		SessionCookieName: "petnest_session",
		Environment:       "test",
	}

	h, err := NewRouter(Options{Config: cfg, Log: logger.Nop()})
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}

	return &gatewayTest{
		backend: backend,
		server:  srv,
		client:  &http.Client{Jar: jar},
	}
}

func (g *gatewayTest) do(t *testing.T, method, path string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, g.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp, out.Bytes()
}

func (g *gatewayTest) loginBuyer(t *testing.T) {
	t.Helper()
	resp, body := g.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "buyer@example.com", "password": "pw",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status %d: %s", resp.StatusCode, body)
	}
}

// -------------------------
// Tests
// -------------------------

func TestGateway_LoginSetsCookie_AndSessionRestores(t *testing.T) {
	g := newGatewayTest(t)

	resp, body := g.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "buyer@example.com", "password": "pw",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status %d: %s", resp.StatusCode, body)
	}

	var login struct {
		Authenticated bool `json:"authenticated"`
		User          struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(body, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if !login.Authenticated || login.User.Role != "buyer" {
		t.Fatalf("unexpected login payload: %s", body)
	}

	found := false
	for _, c := range resp.Cookies() {
		if c.Name == "petnest_session" && c.Value != "" {
			found = true
			if !c.HttpOnly {
				t.Fatalf("session cookie must be http-only")
			}
		}
	}
	if !found {
		t.Fatalf("login must set the session cookie")
	}

	// el page-load siguiente rehidrata por cookie, sin re-login
	resp, body = g.do(t, http.MethodGet, "/auth/session", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("session status %d", resp.StatusCode)
	}
	var sess struct {
		Authenticated bool `json:"authenticated"`
	}
	_ = json.Unmarshal(body, &sess)
	if !sess.Authenticated {
		t.Fatalf("cookie session must restore: %s", body)
	}
}

func TestGateway_BadCredentials_401(t *testing.T) {
	g := newGatewayTest(t)

	resp, _ := g.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "nobody@example.com", "password": "pw",
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestGateway_FailedRelogin_KeepsExistingSession(t *testing.T) {
	g := newGatewayTest(t)
	g.loginBuyer(t)

	// una contraseña mal tipeada no puede tirar la sesión que ya había
	resp, _ := g.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "nobody@example.com", "password": "typo",
	}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	resp, body := g.do(t, http.MethodGet, "/auth/session", nil, nil)
	var sess struct {
		Authenticated bool `json:"authenticated"`
		User          struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	_ = json.Unmarshal(body, &sess)
	if resp.StatusCode != http.StatusOK || !sess.Authenticated || sess.User.Role != "buyer" {
		t.Fatalf("buyer session must survive a failed re-login: %d %s", resp.StatusCode, body)
	}
}

func TestGateway_Relogin_ReplacesSession(t *testing.T) {
	g := newGatewayTest(t)
	g.loginBuyer(t)

	resp, body := g.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "admin@example.com", "password": "pw",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("relogin status %d: %s", resp.StatusCode, body)
	}

	resp, body = g.do(t, http.MethodGet, "/auth/session", nil, nil)
	var sess struct {
		Authenticated bool `json:"authenticated"`
		User          struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	_ = json.Unmarshal(body, &sess)
	if resp.StatusCode != http.StatusOK || !sess.Authenticated || sess.User.Role != "admin" {
		t.Fatalf("relogin must land on the new identity: %d %s", resp.StatusCode, body)
	}
}

func TestGateway_SessionWithoutCookie_IsAnonymousNot401(t *testing.T) {
	g := newGatewayTest(t)

	resp, body := g.do(t, http.MethodGet, "/auth/session", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("anonymous restore must be 200, got %d", resp.StatusCode)
	}
	var sess struct {
		Authenticated bool `json:"authenticated"`
	}
	_ = json.Unmarshal(body, &sess)
	if sess.Authenticated {
		t.Fatalf("expected anonymous session: %s", body)
	}
}

func TestGateway_Wishlist_RequiresAuth(t *testing.T) {
	g := newGatewayTest(t)

	resp, _ := g.do(t, http.MethodGet, "/wishlist", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous wishlist must 401, got %d", resp.StatusCode)
	}
}

func TestGateway_Wishlist_BuyerFlow(t *testing.T) {
	g := newGatewayTest(t)
	g.loginBuyer(t)

	// esperar el sync disparado por el login antes de mutar
	var wl struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		IDs []string `json:"wishlistedIds"`
	}
	deadline := time.After(2 * time.Second)
	for {
		resp, body := g.do(t, http.MethodGet, "/wishlist", nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("wishlist status %d: %s", resp.StatusCode, body)
		}
		if err := json.Unmarshal(body, &wl); err != nil {
			t.Fatalf("decode wishlist: %v", err)
		}
		if len(wl.IDs) == 1 && wl.IDs[0] == "p1" {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("login sync never landed, got %v", wl.IDs)
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(wl.Items) != len(wl.IDs) {
		t.Fatalf("wishlistedIds must mirror items")
	}

	resp, body := g.do(t, http.MethodPost, "/wishlist/refresh", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh status %d: %s", resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, &wl); err != nil {
		t.Fatalf("decode wishlist: %v", err)
	}
	if len(wl.IDs) != 1 || wl.IDs[0] != "p1" {
		t.Fatalf("expected [p1], got %v", wl.IDs)
	}

	resp, body = g.do(t, http.MethodPost, "/wishlist/p7", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add status %d: %s", resp.StatusCode, body)
	}
	_ = json.Unmarshal(body, &wl)
	if len(wl.IDs) != 2 || wl.IDs[1] != "p7" {
		t.Fatalf("expected [p1 p7], got %v", wl.IDs)
	}

	resp, body = g.do(t, http.MethodDelete, "/wishlist/p1", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove status %d: %s", resp.StatusCode, body)
	}
	_ = json.Unmarshal(body, &wl)
	if len(wl.IDs) != 1 || wl.IDs[0] != "p7" {
		t.Fatalf("expected [p7], got %v", wl.IDs)
	}
}

func TestGateway_Logout_ClearsSessionAndWishlist(t *testing.T) {
	g := newGatewayTest(t)
	g.loginBuyer(t)

	resp, _ := g.do(t, http.MethodPost, "/auth/logout", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status %d", resp.StatusCode)
	}

	resp, body := g.do(t, http.MethodGet, "/auth/session", nil, nil)
	var sess struct {
		Authenticated bool `json:"authenticated"`
	}
	_ = json.Unmarshal(body, &sess)
	if resp.StatusCode != http.StatusOK || sess.Authenticated {
		t.Fatalf("session must be anonymous after logout: %d %s", resp.StatusCode, body)
	}

	resp, _ = g.do(t, http.MethodGet, "/wishlist", nil, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wishlist must 401 after logout, got %d", resp.StatusCode)
	}
}

func TestGateway_Ads_PlacementFlow(t *testing.T) {
	g := newGatewayTest(t)

	resp, body := g.do(t, http.MethodGet, "/ads?placement=home_top_banner", nil, map[string]string{
		"X-Viewport-Width": "400",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ads status %d: %s", resp.StatusCode, body)
	}

	var ads struct {
		ViewID    string `json:"viewId"`
		Device    string `json:"device"`
		Fallback  bool   `json:"fallback"`
		Creatives []struct {
			ID string `json:"id"`
		} `json:"creatives"`
	}
	if err := json.Unmarshal(body, &ads); err != nil {
		t.Fatalf("decode ads: %v", err)
	}
	if ads.Device != "mobile" {
		t.Fatalf("width 400 must classify mobile, got %q", ads.Device)
	}
	if ads.ViewID == "" || len(ads.Creatives) != 1 || ads.Creatives[0].ID != "a1" {
		t.Fatalf("unexpected ads payload: %s", body)
	}
	if g.backend.device() != "mobile" {
		t.Fatalf("device must be forwarded upstream, got %q", g.backend.device())
	}

	// misma exposición, dos reportes: upstream ve uno solo
	for i := 0; i < 2; i++ {
		resp, _ = g.do(t, http.MethodPost, "/ads/a1/impression", map[string]string{"viewId": ads.ViewID}, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("impression status %d", resp.StatusCode)
		}
	}
	if n := g.backend.impressionCount("a1"); n != 1 {
		t.Fatalf("expected 1 upstream impression, got %d", n)
	}
}

func TestGateway_Ads_UnknownPlacement_400(t *testing.T) {
	g := newGatewayTest(t)

	resp, _ := g.do(t, http.MethodGet, "/ads?placement=sidebar", nil, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGateway_Ads_EmptyInventoryFallsBack(t *testing.T) {
	g := newGatewayTest(t)

	// feed_inline no tiene inventario ni fallback
	resp, body := g.do(t, http.MethodGet, "/ads?placement=feed_inline", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ads status %d", resp.StatusCode)
	}
	var ads struct {
		Fallback  bool  `json:"fallback"`
		Creatives []any `json:"creatives"`
	}
	_ = json.Unmarshal(body, &ads)
	if ads.Fallback || len(ads.Creatives) != 0 {
		t.Fatalf("feed_inline must render empty: %s", body)
	}
}

func TestGateway_Ads_ClickRespondsBeforeTelemetry(t *testing.T) {
	g := newGatewayTest(t)

	resp, _ := g.do(t, http.MethodPost, "/ads/a1/click", nil, nil)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("click status %d", resp.StatusCode)
	}

	deadline := time.After(2 * time.Second)
	for g.backend.clickCount("a1") == 0 {
		select {
		case <-deadline:
			t.Fatalf("click telemetry never reached upstream")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestGateway_Pets_List(t *testing.T) {
	g := newGatewayTest(t)

	resp, body := g.do(t, http.MethodGet, "/pets", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pets status %d: %s", resp.StatusCode, body)
	}
	var pets []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &pets); err != nil {
		t.Fatalf("decode pets: %v", err)
	}
	if len(pets) != 2 || pets[0].ID != "p1" {
		t.Fatalf("unexpected pets: %s", body)
	}
}

func TestGateway_Feed_ForwardsDevice(t *testing.T) {
	g := newGatewayTest(t)

	resp, body := g.do(t, http.MethodGet, "/feed", nil, map[string]string{
		"X-Viewport-Width": "1280",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("feed status %d: %s", resp.StatusCode, body)
	}
	if g.backend.device() != "desktop" {
		t.Fatalf("width 1280 must forward desktop, got %q", g.backend.device())
	}

	var feed struct {
		Items []struct {
			Kind string `json:"kind"`
		} `json:"items"`
	}
	_ = json.Unmarshal(body, &feed)
	if len(feed.Items) != 2 || feed.Items[0].Kind != "pet" || feed.Items[1].Kind != "ad" {
		t.Fatalf("unexpected feed: %s", body)
	}
}

func TestGateway_Admin_BuyerForbidden(t *testing.T) {
	g := newGatewayTest(t)
	g.loginBuyer(t)

	resp, _ := g.do(t, http.MethodGet, "/admin/advertisements", nil, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("buyer on admin routes must 403, got %d", resp.StatusCode)
	}
}

func TestGateway_Admin_ListsRequests(t *testing.T) {
	g := newGatewayTest(t)

	resp, body := g.do(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "admin@example.com", "password": "pw",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin login status %d: %s", resp.StatusCode, body)
	}

	resp, body = g.do(t, http.MethodGet, "/admin/advertisements?status=pending", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin list status %d: %s", resp.StatusCode, body)
	}
	var reqs []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &reqs); err != nil {
		t.Fatalf("decode admin list: %v", err)
	}
	if len(reqs) != 1 || reqs[0].ID != "r1" || reqs[0].Status != "pending" {
		t.Fatalf("unexpected admin list: %s", body)
	}
}
