package controllers

import (
	"net/http"

	"github.com/dreamboutique/boutique-backend/api/middleware"
	"github.com/dreamboutique/boutique-backend/api/responses"
	"github.com/dreamboutique/boutique-backend/api/validators"
	checkoutsvc "github.com/dreamboutique/boutique-backend/internal/checkout"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/dreamboutique/boutique-backend/pkg/logger"
)

type checkoutRequest struct {
	CustomerName  string  `json:"customer_name" validate:"required"`
	Phone         string  `json:"phone" validate:"required"`
	Address       string  `json:"address" validate:"required"`
	Notes         *string `json:"notes,omitempty"`
	GuestCheckout bool    `json:"guest_checkout,omitempty"`
}

// Checkout turns the shopper's cart into an order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		token := middleware.CartTokenFromContext(r.Context())
		if token == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart token missing"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Checkout(r.Context(), token, checkoutsvc.CheckoutInput{
			CustomerName:  payload.CustomerName,
			Phone:         payload.Phone,
			Address:       payload.Address,
			Notes:         payload.Notes,
			GuestCheckout: payload.GuestCheckout,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
