package ads

// Placement es el slot de UI donde puede renderizar un aviso.
type Placement string

const (
	PlacementHomeBanner   Placement = "home_top_banner"
	PlacementFeedInline   Placement = "feed_inline"
	PlacementFooter       Placement = "footer"
	PlacementMobileSticky Placement = "mobile_sticky"
)

func ParsePlacement(s string) (Placement, bool) {
	switch Placement(s) {
	case PlacementHomeBanner, PlacementFeedInline, PlacementFooter, PlacementMobileSticky:
		return Placement(s), true
	default:
		return "", false
	}
}

// Device es el scope de dispositivo con el que se piden creatives.
// (Los creatives además pueden declarar "both"; eso lo filtra el server.)
type Device string

const (
	DeviceMobile  Device = "mobile"
	DeviceDesktop Device = "desktop"
)

// UnitState es la máquina de estados de una unidad de aviso montada:
// Loading -> {Empty, Loaded}; Loaded -> Dismissed (solo sticky, terminal).
type UnitState string

const (
	StateLoading   UnitState = "loading"
	StateEmpty     UnitState = "empty"
	StateLoaded    UnitState = "loaded"
	StateDismissed UnitState = "dismissed"
)
