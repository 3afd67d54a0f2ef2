package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/palko-app/rentmanager/internal/apiserver/database"
	"github.com/palko-app/rentmanager/internal/auth/jwt"
	"github.com/palko-app/rentmanager/internal/common/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestDB(t *testing.T) database.Database {
	t.Helper()
	cfg := &config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"}
	db, err := database.NewDatabase(cfg)
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newJWTService(t *testing.T) *jwt.Service {
	t.Helper()
	s, err := jwt.NewService(jwt.Config{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)
	return s
}

func bearer(t *testing.T, s *jwt.Service, userID uint, username, role string) string {
	t.Helper()
	tok, err := s.GenerateToken(userID, username, role)
	require.NoError(t, err)
	return "Bearer " + tok
}

func newGateRouter(t *testing.T, db database.Database, s *jwt.Service) (*gin.Engine, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hits := 0
	r := gin.New()
	r.GET("/api/portal/dashboard", JWTAuthMiddleware(s), TenantGate(db), func(c *gin.Context) {
		hits++
		tenant, ok := TenantFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"tenantId": tenant.ID})
	})
	return r, &hits
}

func TestJWTAuthMiddleware(t *testing.T) {
	db := newTestDB(t)
	s := newJWTService(t)
	r, hits := newGateRouter(t, db, s)

	for _, header := range []string{"", "garbage", "Bearer bad.token", "Basic abc"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/portal/dashboard", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
	assert.Zero(t, *hits)
}

func TestTenantGate_AdminRedirected(t *testing.T) {
	db := newTestDB(t)
	s := newJWTService(t)
	r, hits := newGateRouter(t, db, s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/portal/dashboard", nil)
	req.Header.Set("Authorization", bearer(t, s, 1, "admin", "admin"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/api/admin", w.Header().Get("Location"))
	// the portal handler never ran
	assert.Zero(t, *hits)
}

func TestTenantGate_MissingProfile(t *testing.T) {
	db := newTestDB(t)
	s := newJWTService(t)
	r, hits := newGateRouter(t, db, s)

	ctx := context.Background()
	user := &database.User{Username: "maria", Password: "hash", Role: database.RoleTenant, IsActive: true}
	require.NoError(t, db.CreateUser(ctx, user))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/portal/dashboard", nil)
	req.Header.Set("Authorization", bearer(t, s, user.ID, "maria", "tenant"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "tenant profile not found")
	assert.Zero(t, *hits)
}

func TestTenantGate_ResolvesTenant(t *testing.T) {
	db := newTestDB(t)
	s := newJWTService(t)
	r, hits := newGateRouter(t, db, s)

	ctx := context.Background()
	user := &database.User{Username: "maria", Password: "hash", Role: database.RoleTenant, IsActive: true}
	require.NoError(t, db.CreateUser(ctx, user))
	tenant := &database.Tenant{UserID: user.ID, IsActive: true}
	require.NoError(t, db.CreateTenant(ctx, tenant))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/portal/dashboard", nil)
	req.Header.Set("Authorization", bearer(t, s, user.ID, "maria", "tenant"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *hits)
}

func TestAdminOnly(t *testing.T) {
	s := newJWTService(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/admin/users", JWTAuthMiddleware(s), AdminOnly(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", bearer(t, s, 2, "maria", "tenant"))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", bearer(t, s, 1, "admin", "admin"))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
