package controllers

import (
	"net/http"

	"github.com/aventra-health/benefits-store-backend/api/responses"
	"github.com/aventra-health/benefits-store-backend/api/validators"
	"github.com/aventra-health/benefits-store-backend/internal/checkout"
	pkgerrors "github.com/aventra-health/benefits-store-backend/pkg/errors"
	"github.com/aventra-health/benefits-store-backend/pkg/logger"
)

// Checkout converts the caller's active cart into a paid order.
func Checkout(svc *checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := userIDFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkout.PlaceOrderInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PlaceOrder(r.Context(), userID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
