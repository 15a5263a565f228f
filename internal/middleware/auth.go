package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bankingapp/ledger/internal/services"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PasswordHeader carries the account owner's password on account routes
const PasswordHeader = "X-Account-Password"

type contextKey string

const accountIDKey contextKey = "accountID"

type Authenticator interface {
	Authenticate(ctx context.Context, accountID int64, password string) (bool, error)
}

// AccountAuth checks the password header against the owner of the {accountId} in the path
// and stores the account ID in the request context.
func AccountAuth(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			accountID, err := strconv.ParseInt(chi.URLParam(r, "accountId"), 10, 64)
			if err != nil {
				services.SendErrorResponse(w, "Invalid account ID", http.StatusBadRequest, nil)
				return
			}

			password := r.Header.Get(PasswordHeader)
			if password == "" {
				services.SendErrorResponse(w, PasswordHeader+" header required", http.StatusUnauthorized, nil)
				return
			}

			ok, err := auth.Authenticate(r.Context(), accountID, password)
			if err != nil {
				logger.Error("[AUTH] Authentication lookup failed", zap.Int64("accountId", accountID), zap.Error(err))
				services.SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
				return
			}
			if !ok {
				services.SendErrorResponse(w, "Invalid account ID or password", http.StatusUnauthorized, nil)
				return
			}

			ctx := context.WithValue(r.Context(), accountIDKey, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func AccountIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(accountIDKey).(int64)
	return id, ok
}
