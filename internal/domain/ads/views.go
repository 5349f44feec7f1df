package ads

import "context"

// ViewRepository es el set de impresiones ya contadas, con scope de una
// vista (un mount de la unidad). Garantiza a-lo-sumo-una impresión por
// (view, creative) aunque el creative vuelva a quedar visible muchas
// veces durante el mismo mount.
type ViewRepository interface {
	// MarkImpression registra (viewID, adID). Devuelve true solo la
	// primera vez para ese par.
	MarkImpression(ctx context.Context, viewID, adID string) (bool, error)
}
