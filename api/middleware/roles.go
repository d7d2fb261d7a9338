package middleware

import (
	"net/http"

	"github.com/aventra-health/benefits-store-backend/api/responses"
	"github.com/aventra-health/benefits-store-backend/pkg/enums"
	pkgerrors "github.com/aventra-health/benefits-store-backend/pkg/errors"
	"github.com/aventra-health/benefits-store-backend/pkg/logger"
)

// RequireCustomer limits a route to customer accounts.
func RequireCustomer(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireRole(string(enums.UserRoleCustomer), "Access denied. Customers only.", logg)
}

// RequireAdmin limits a route to admin accounts.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireRole(string(enums.UserRoleAdmin), "Access denied. Admins only.", logg)
}

func requireRole(role, message string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
