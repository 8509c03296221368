package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mpetrenko/ordermart/internal/application/errs"
	"github.com/mpetrenko/ordermart/internal/application/interfaces"
	"github.com/mpetrenko/ordermart/internal/config"
	"github.com/mpetrenko/ordermart/internal/domain/entities/user"
)

// Auth resolves the Authorization cookie into a user and stores it in
// the request context.
func Auth(service interfaces.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			authCookie, err := r.Cookie("Authorization")
			if err != nil {
				if errors.Is(err, http.ErrNoCookie) {
					errorHandlerFunc(w, r, fmt.Errorf("authorization token: %w", errs.ErrNotFound))
					return
				}
				errorHandlerFunc(w, r, fmt.Errorf("authorization token: %w", err))
				return
			}

			u, err := service.GetUserFromToken(r.Context(), authCookie.Value)
			if err != nil {
				errorHandlerFunc(w, r, err)
				return
			}

			r = r.WithContext(user.NewContext(r.Context(), u))

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(f)
	}
}

// Admin rejects requests from users outside the configured admin list.
// Must run after Auth.
func Admin(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		f := func(w http.ResponseWriter, r *http.Request) {
			u, found := user.FromContext(r.Context())
			if !found {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			if !cfg.IsAdmin(int64(u.ID)) {
				w.WriteHeader(http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(f)
	}
}

// errorHandlerFunc handles sending of an error in the JSON format,
// writing appropriate status code and handling the failure to marshal that.
func errorHandlerFunc(w http.ResponseWriter, _ *http.Request, err error) {
	errJSON := errs.JSON{Error: err.Error()}
	code := http.StatusInternalServerError

	if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrInvalidCredentials) {
		code = http.StatusUnauthorized
	}

	w.WriteHeader(code)

	if err = json.NewEncoder(w).Encode(errJSON); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
