package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/palko-app/rentmanager/internal/apiserver/database"
	"github.com/palko-app/rentmanager/internal/apiserver/middleware"
	"github.com/palko-app/rentmanager/internal/apiserver/service"
	"github.com/palko-app/rentmanager/internal/auth/jwt"
	"github.com/palko-app/rentmanager/internal/common/config"
	"github.com/palko-app/rentmanager/internal/exchange"
	"github.com/palko-app/rentmanager/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// testEnv wires the full API against an in-memory database and a
// temp-dir blob store.
type testEnv struct {
	router *gin.Engine
	db     database.Database
	jwt    *jwt.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"}
	db, err := database.NewDatabase(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	jwtService, err := jwt.NewService(jwt.Config{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)

	blob, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	converter, err := exchange.NewFixedRate("5")
	require.NoError(t, err)

	logger := zap.NewNop()
	billingSvc := service.NewBillingService(db, time.UTC)
	readingSvc := service.NewReadingService(db, nil, "", time.UTC, logger)

	authHandler := NewAuthHandler(db, jwtService)
	adminHandler := NewAdminHandler(db, blob, converter, logger)
	portalHandler := NewPortalHandler(db, billingSvc, readingSvc, blob, converter, logger)

	r := gin.New()

	auth := r.Group("/api/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middleware.JWTAuthMiddleware(jwtService), authHandler.CurrentUser)
	auth.POST("/change-password", middleware.JWTAuthMiddleware(jwtService), authHandler.ChangePassword)

	admin := r.Group("/api/admin",
		middleware.JWTAuthMiddleware(jwtService),
		middleware.AdminOnly())
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.CreateUser)
	admin.PUT("/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.GET("/tenants", adminHandler.ListTenants)
	admin.PUT("/tenants/:id", adminHandler.UpdateTenant)
	admin.POST("/agreements", adminHandler.CreateAgreement)
	admin.PUT("/agreements/:id", adminHandler.UpdateAgreement)
	admin.POST("/payments", adminHandler.CreatePayment)
	admin.GET("/payments/convert", adminHandler.ConvertRent)
	admin.POST("/bills", adminHandler.CreateBill)
	admin.POST("/bills/:id/file", adminHandler.UploadBillFile)
	admin.DELETE("/bills/:id", adminHandler.DeleteBill)
	admin.POST("/meter-types", adminHandler.CreateMeterType)
	admin.GET("/readings", adminHandler.ListReadings)
	admin.POST("/readings/:id/processed", adminHandler.MarkReadingProcessed)
	admin.GET("/settings", adminHandler.ListSettings)
	admin.PUT("/settings", adminHandler.UpsertSetting)

	portal := r.Group("/api/portal",
		middleware.JWTAuthMiddleware(jwtService),
		middleware.TenantGate(db))
	portal.GET("/dashboard", portalHandler.Dashboard)
	portal.GET("/rent", portalHandler.RentStatus)
	portal.GET("/bills", portalHandler.UtilityBills)
	portal.GET("/bills/:id/file", portalHandler.DownloadBill)
	portal.GET("/meters", portalHandler.Meters)
	portal.POST("/meters/readings", portalHandler.SubmitReading)

	return &testEnv{router: r, db: db, jwt: jwtService}
}

func (e *testEnv) createUser(t *testing.T, username, password string, role database.UserRole) *database.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &database.User{
		Username: username,
		Password: string(hashed),
		FullName: "Test " + username,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, e.db.CreateUser(context.Background(), user))
	return user
}

func (e *testEnv) createTenant(t *testing.T, username string) *database.Tenant {
	t.Helper()
	user := e.createUser(t, username, "secret", database.RoleTenant)
	tenant := &database.Tenant{UserID: user.ID, IsActive: true}
	require.NoError(t, e.db.CreateTenant(context.Background(), tenant))
	tenant.User = user
	return tenant
}

func (e *testEnv) token(t *testing.T, user *database.User) string {
	t.Helper()
	tok, err := e.jwt.GenerateToken(user.ID, user.Username, string(user.Role))
	require.NoError(t, err)
	return tok
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(t *testing.T, path, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}
