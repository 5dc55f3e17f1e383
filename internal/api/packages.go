package api

import (
	"net/http"

	"github.com/kozymacro/papara-checkout/internal/model"
	"github.com/samber/lo"
)

// ListPackages handles GET /api/v1/packages.
//
//	@Summary		List packages
//	@Description	Returns the packages that can be bought, ordered by day count
//	@Tags			packages
//	@Produce		json
//	@Success		200	{array}	PackageResponse
//	@Router			/api/v1/packages [get]
func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	items := lo.Map(h.catalog.Packages(), func(p model.Package, _ int) PackageResponse {
		return PackageResponse{
			DayCount:    p.DayCount,
			Label:       p.Label,
			Description: p.Description,
			Price:       p.Price.StringFixed(2),
			PriceHTML:   string(p.PriceHTML),
		}
	})

	h.writeJSON(w, http.StatusOK, items)
}
