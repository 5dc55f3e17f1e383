package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kozymacro/papara-checkout/internal/catalog"
	"github.com/kozymacro/papara-checkout/internal/checkout"
	"github.com/samber/lo"
)

const maxRequestBody = 64 << 10

// Checkout handles POST /api/v1/checkout.
//
//	@Summary		Start a Papara checkout
//	@Description	Validates the buyer details, sends them to the payment service and returns the payment page URL
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CheckoutRequest	true	"Checkout details"
//	@Success		200		{object}	CheckoutResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/v1/checkout [post]
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	pkg, ok := h.catalog.Find(req.DayCount)
	if !ok {
		h.writeError(w, http.StatusBadRequest, "unknown package: "+strconv.Itoa(req.DayCount)+" days")
		return
	}

	form, err := h.newForm()
	if err != nil {
		slog.Error("api: failed to create checkout form", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer form.Stop()

	form.SelectPackage(catalog.Selection(pkg))
	form.SetValue(checkout.FieldEmail, req.Email)
	form.SetValue(checkout.FieldQuantity, strconv.Itoa(req.Quantity))
	if req.DiscountCode != "" {
		form.ToggleDiscount(true)
		form.SetValue(checkout.FieldDiscount, req.DiscountCode)
	}

	out := form.Submit(r.Context(), req.Language)

	switch out.Status {
	case checkout.StatusRedirect:
		h.writeJSON(w, http.StatusOK, CheckoutResponse{URL: out.RedirectURL})

	case checkout.StatusInvalid:
		view := form.View()
		field, _ := lo.Find(checkout.Fields, func(f checkout.Field) bool {
			return view.Field(f).Error != ""
		})
		h.writeFieldError(w, field, view.Field(field).Error)

	case checkout.StatusRejected:
		if out.Field != "" {
			h.writeFieldError(w, out.Field, form.View().Field(out.Field).Error)
			return
		}
		h.writeError(w, http.StatusBadGateway, out.Err.Error())

	default:
		h.writeError(w, http.StatusBadGateway, "payment service unavailable")
	}
}
