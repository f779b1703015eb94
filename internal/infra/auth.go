package infra

import (
	"context"
	"net/http"
	"strings"

	"github.com/s21platform/messenger-service/internal/config"
	"github.com/s21platform/messenger-service/internal/model"
)

type IdentityResolver interface {
	Resolve(token string) model.Identity
}

// AuthHTTP resolves the bearer token and stores the user id under
// config.KeyUUID. Anonymous identities never reach the handlers; the
// response carries no detail about why the token was rejected.
func AuthHTTP(next http.Handler, resolver IdentityResolver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token := ""
		if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = parts[1]
		}

		identity := resolver.Resolve(token)
		if identity.Anonymous {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), config.KeyUUID, identity.UserID.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
