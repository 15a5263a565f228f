package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, accountID int64, password string) (bool, error) {
	args := m.Called(ctx, accountID, password)
	return args.Bool(0), args.Error(1)
}

func newProtectedRouter(auth Authenticator) http.Handler {
	r := chi.NewRouter()
	r.With(AccountAuth(auth, zap.NewNop())).Get("/accounts/{accountId}/balance", func(w http.ResponseWriter, r *http.Request) {
		id, ok := AccountIDFromContext(r.Context())
		if !ok || id != 1000000001 {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestAccountAuth(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		password string
		setup    func(m *MockAuthenticator)
		status   int
	}{
		{
			name:     "valid password",
			path:     "/accounts/1000000001/balance",
			password: "secret1",
			setup: func(m *MockAuthenticator) {
				m.On("Authenticate", mock.Anything, int64(1000000001), "secret1").Return(true, nil)
			},
			status: http.StatusOK,
		},
		{
			name:     "wrong password",
			path:     "/accounts/1000000001/balance",
			password: "nope",
			setup: func(m *MockAuthenticator) {
				m.On("Authenticate", mock.Anything, int64(1000000001), "nope").Return(false, nil)
			},
			status: http.StatusUnauthorized,
		},
		{
			name:   "missing header",
			path:   "/accounts/1000000001/balance",
			setup:  func(m *MockAuthenticator) {},
			status: http.StatusUnauthorized,
		},
		{
			name:     "non numeric account",
			path:     "/accounts/abc/balance",
			password: "secret1",
			setup:    func(m *MockAuthenticator) {},
			status:   http.StatusBadRequest,
		},
		{
			name:     "store failure",
			path:     "/accounts/1000000001/balance",
			password: "secret1",
			setup: func(m *MockAuthenticator) {
				m.On("Authenticate", mock.Anything, int64(1000000001), "secret1").Return(false, errors.New("db down"))
			},
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := new(MockAuthenticator)
			tt.setup(auth)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.password != "" {
				req.Header.Set(PasswordHeader, tt.password)
			}
			w := httptest.NewRecorder()
			newProtectedRouter(auth).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			auth.AssertExpectations(t)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}
