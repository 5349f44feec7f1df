package ads

import "petnest-frontend-core/internal/ports/upstream"

// FallbackID identifica el creative estático de bienvenida. No existe en
// el backend: jamás se reporta telemetría para él.
const FallbackID = "petnest-fallback-home-banner"

func IsFallback(adID string) bool {
	return adID == FallbackID
}

// FallbackHomeBanner es el creative que muestra el banner del home cuando
// el inventario viene vacío. Los demás placements no tienen fallback:
// sin avisos, no renderizan nada.
func FallbackHomeBanner() upstream.AdCreative {
	return upstream.AdCreative{
		ID:          FallbackID,
		Title:       "Welcome to PetNest",
		Tagline:     "Find your new best friend",
		BrandName:   "PetNest",
		CTAText:     "Browse pets",
		RedirectURL: "/pets",
		Placement:   string(PlacementHomeBanner),
		Device:      "both",
		Active:      true,
	}
}
