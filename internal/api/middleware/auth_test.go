package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/repository"
	"github.com/jafarshop/storefront/pkg/errors"
)

type tokenUsers map[string]*domain.User

func (u tokenUsers) GetByAPIToken(_ context.Context, token string) (*domain.User, error) {
	user, ok := u[token]
	if !ok {
		return nil, &errors.ErrUnauthorized{Message: "invalid API token"}
	}
	return user, nil
}

func (u tokenUsers) GetByID(context.Context, uuid.UUID) (*domain.User, error) {
	return nil, &errors.ErrNotFound{Resource: "user"}
}

func (u tokenUsers) Create(context.Context, *domain.User) error { return nil }

func newTestEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		if user, ok := GetUserFromContext(c); ok {
			c.String(http.StatusOK, user.Email)
			return
		}
		c.String(http.StatusOK, "guest")
	})
	r.GET("/", handlers...)
	return r
}

func testRepos() *repository.Repositories {
	return &repository.Repositories{User: tokenUsers{
		"good":     {ID: uuid.New(), Email: "jane@example.com", IsActive: true},
		"admin":    {ID: uuid.New(), Email: "admin@example.com", IsActive: true, IsAdmin: true},
		"disabled": {ID: uuid.New(), Email: "old@example.com"},
	}}
}

func do(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOptionalAuth(t *testing.T) {
	r := newTestEngine(OptionalAuth(testRepos(), zap.NewNop()))

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"no header is a guest", "", http.StatusOK, "guest"},
		{"valid token", "Bearer good", http.StatusOK, "jane@example.com"},
		{"lowercase scheme", "bearer good", http.StatusOK, "jane@example.com"},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, ""},
		{"disabled account", "Bearer disabled", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.header)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	r := newTestEngine(RequireAuth(testRepos(), zap.NewNop()))

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusOK, do(r, "Bearer good").Code)
}

func TestRequireAdmin(t *testing.T) {
	r := newTestEngine(RequireAuth(testRepos(), zap.NewNop()), RequireAdmin())

	assert.Equal(t, http.StatusForbidden, do(r, "Bearer good").Code)
	assert.Equal(t, http.StatusOK, do(r, "Bearer admin").Code)
}
