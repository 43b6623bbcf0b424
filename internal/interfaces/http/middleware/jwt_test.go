package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teasupply/backend/internal/infrastructure/auth"
	"github.com/teasupply/backend/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:          "test-secret",
		Issuer:          "teasupply-test",
		TokenExpiration: time.Hour,
	})
}

func performAuthedRequest(t *testing.T, engine *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	engine.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	svc := newTestJWTService()

	engine := gin.New()
	engine.GET("/protected", JWTAuth(svc), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetJWTUserID(c),
			"role":    GetJWTRole(c),
		})
	})

	t.Run("valid token passes and exposes principal", func(t *testing.T) {
		userID := uuid.New()
		token, err := svc.GenerateToken(userID, auth.RoleStaff)
		require.NoError(t, err)

		w := performAuthedRequest(t, engine, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), auth.RoleStaff)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		w := performAuthedRequest(t, engine, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		w := performAuthedRequest(t, engine, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with another secret rejected", func(t *testing.T) {
		other := auth.NewJWTService(config.JWTConfig{
			Secret:          "different-secret",
			Issuer:          "teasupply-test",
			TokenExpiration: time.Hour,
		})
		token, err := other.GenerateToken(uuid.New(), auth.RoleAdmin)
		require.NoError(t, err)

		w := performAuthedRequest(t, engine, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name           string
		guard          []string
		role           string
		expectedStatus int
	}{
		{"supplier passes supplier guard", []string{auth.RoleSupplier}, auth.RoleSupplier, http.StatusOK},
		{"staff blocked by supplier guard", []string{auth.RoleSupplier}, auth.RoleStaff, http.StatusForbidden},
		{"admin passes supplier guard", []string{auth.RoleSupplier}, auth.RoleAdmin, http.StatusOK},
		{"staff passes staff guard", []string{auth.RoleStaff}, auth.RoleStaff, http.StatusOK},
		{"manager passes staff guard", []string{auth.RoleStaff}, auth.RoleManager, http.StatusOK},
		{"supplier blocked by staff guard", []string{auth.RoleStaff}, auth.RoleSupplier, http.StatusForbidden},
		{"staff blocked by manager guard", []string{auth.RoleManager}, auth.RoleStaff, http.StatusForbidden},
		{"manager passes manager guard", []string{auth.RoleManager}, auth.RoleManager, http.StatusOK},
		{"manager blocked by admin guard", []string{auth.RoleAdmin}, auth.RoleManager, http.StatusForbidden},
		{"admin passes admin guard", []string{auth.RoleAdmin}, auth.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/protected",
				func(c *gin.Context) {
					c.Set(JWTRoleKey, tt.role)
					c.Next()
				},
				RequireRole(tt.guard...),
				func(c *gin.Context) {
					c.Status(http.StatusOK)
				},
			)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}

	t.Run("missing principal rejected", func(t *testing.T) {
		engine := gin.New()
		engine.GET("/protected", RequireRole(auth.RoleStaff), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
