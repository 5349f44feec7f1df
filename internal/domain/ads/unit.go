package ads

import (
	"context"
	"sync"
	"time"

	"petnest-frontend-core/internal/ports/upstream"
)

// DefaultRotateInterval es el auto-avance del carrusel del banner.
const DefaultRotateInterval = 5 * time.Second

// Unit es una unidad de aviso montada (banner, inline, footer o sticky).
// Vive lo que vive el mount: al navegar, se desmonta y un mount nuevo
// vuelve a contar impresiones (el scope del dedup es el ViewID).
type Unit struct {
	svc       *Service
	placement Placement
	interval  time.Duration

	mu        sync.Mutex
	state     UnitState
	viewID    string
	creatives []upstream.AdCreative
	fallback  bool
	index     int
	paused    bool
	width     int
	stop      chan struct{}
}

// NewUnit crea la unidad en Loading. interval <= 0 desactiva la rotación
// automática (placements sin carrusel).
func (s *Service) NewUnit(placement Placement, width int, interval time.Duration) *Unit {
	return &Unit{
		svc:       s,
		placement: placement,
		interval:  interval,
		width:     width,
		state:     StateLoading,
	}
}

// Mount hace el único fetch de la unidad. Un fetch fallido termina igual
// que inventario vacío: StateEmpty, sin retry. Si queda Loaded, la
// impresión del creative visible se registra acá (primera exposición) y,
// con más de un creative, arranca la rotación.
func (u *Unit) Mount(ctx context.Context) {
	res, err := u.svc.Eligible(ctx, u.placement, u.width)

	u.mu.Lock()
	if err != nil || len(res.Creatives) == 0 {
		if err != nil {
			u.svc.log.Warn("ad fetch failed", map[string]any{"placement": string(u.placement), "error": err.Error()})
		}
		u.state = StateEmpty
		u.mu.Unlock()
		return
	}

	u.state = StateLoaded
	u.viewID = res.ViewID
	u.creatives = res.Creatives
	u.fallback = res.Fallback
	u.index = 0

	rotate := u.interval > 0 && len(u.creatives) > 1
	if rotate {
		u.stop = make(chan struct{})
	}
	u.mu.Unlock()

	u.impressCurrent(ctx)

	if rotate {
		go u.rotateLoop()
	}
}

func (u *Unit) rotateLoop() {
	t := time.NewTicker(u.interval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			u.Advance(context.Background())
		case <-u.stop:
			return
		}
	}
}

// Advance pasa al siguiente creative. La impresión del que queda visible
// se registra solo la primera vez que ese creative es el actual en este
// mount (dedup por ViewID); dar la vuelta completa no re-cuenta.
func (u *Unit) Advance(ctx context.Context) {
	u.mu.Lock()
	if u.state != StateLoaded || u.paused || len(u.creatives) < 2 {
		u.mu.Unlock()
		return
	}
	u.index = (u.index + 1) % len(u.creatives)
	u.mu.Unlock()

	u.impressCurrent(ctx)
}

// Pause detiene el auto-avance (interacción del usuario); Resume lo retoma.
func (u *Unit) Pause() {
	u.mu.Lock()
	u.paused = true
	u.mu.Unlock()
}

func (u *Unit) Resume() {
	u.mu.Lock()
	u.paused = false
	u.mu.Unlock()
}

// Current devuelve el creative visible.
func (u *Unit) Current() (upstream.AdCreative, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.state != StateLoaded || len(u.creatives) == 0 {
		return upstream.AdCreative{}, false
	}
	return u.creatives[u.index], true
}

// Click reporta telemetría en una goroutine y devuelve el destino de
// inmediato: la navegación nunca espera (ni depende de) el POST de click,
// que corre con su propio deadline, desacoplado del request que lo originó.
func (u *Unit) Click() (string, bool) {
	cur, ok := u.Current()
	if !ok {
		return "", false
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = u.svc.RecordClick(ctx, cur.ID)
	}()

	return cur.RedirectURL, true
}

// Dismiss oculta la unidad por el resto del mount (variante sticky).
// Terminal: no hay telemetría ni re-show hasta un mount nuevo.
func (u *Unit) Dismiss() {
	u.mu.Lock()
	if u.state == StateLoaded {
		u.state = StateDismissed
		u.stopLocked()
	}
	u.mu.Unlock()
}

// SetWidth recalcula el ancho con el viewport vivo (listener de resize
// de la variante sticky). Si el resize hace visible una unidad que venía
// oculta, recién ahí se registra la impresión del creative actual; el
// dedup por ViewID hace inocuo que ya se hubiera contado antes.
func (u *Unit) SetWidth(width int) {
	u.mu.Lock()
	before := u.visibleLocked()
	u.width = width
	after := u.visibleLocked()
	u.mu.Unlock()

	if !before && after {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			u.impressCurrent(ctx)
		}()
	}
}

// Visible dice si la unidad debe renderizar. La sticky solo existe en
// viewport mobile; las demás dependen únicamente del estado.
func (u *Unit) Visible() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.visibleLocked()
}

func (u *Unit) visibleLocked() bool {
	if u.state != StateLoaded {
		return false
	}
	if u.placement == PlacementMobileSticky {
		return Classify(u.width) == DeviceMobile
	}
	return true
}

func (u *Unit) State() UnitState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Unmount corta la rotación. El ViewID muere con el mount: un remount
// (navegación) vuelve a contar impresiones.
func (u *Unit) Unmount() {
	u.mu.Lock()
	u.stopLocked()
	u.mu.Unlock()
}

func (u *Unit) stopLocked() {
	if u.stop != nil {
		close(u.stop)
		u.stop = nil
	}
}

// impressCurrent registra la impresión del creative visible. Una unidad
// oculta (sticky en viewport desktop) no impresiona: el creative no se
// mostró. Cuando el resize la haga visible, SetWidth reintenta.
func (u *Unit) impressCurrent(ctx context.Context) {
	u.mu.Lock()
	if !u.visibleLocked() || len(u.creatives) == 0 || u.fallback {
		u.mu.Unlock()
		return
	}
	viewID := u.viewID
	cur := u.creatives[u.index]
	u.mu.Unlock()

	if err := u.svc.RecordImpression(ctx, viewID, cur.ID); err != nil {
		u.svc.log.Warn("impression not recorded", map[string]any{"ad": cur.ID, "error": err.Error()})
	}
}
