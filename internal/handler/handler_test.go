package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"notes-service/internal/middleware"
	"notes-service/internal/model"
	"notes-service/pkg/config"
	"notes-service/pkg/database"
	"notes-service/pkg/jwtutil"
)

// setupTest wires the full route table against a fresh in-memory database.
func setupTest(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A second connection to :memory: would see an empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Tenant{}, &model.User{}, &model.Note{}))
	database.SetDB(db)

	cfg := &config.Config{
		Server: config.ServerConfig{Env: "test"},
		JWT:    config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 24},
	}
	jwtutil.Initialize(&cfg.JWT)
	Initialize(cfg)

	e := echo.New()
	RegisterRoutes(e)
	return e
}

func seedTenant(t *testing.T, name, slug, plan string) *model.Tenant {
	t.Helper()
	tenant := &model.Tenant{Name: name, Slug: slug, Plan: plan}
	require.NoError(t, database.GetDB().Create(tenant).Error)
	return tenant
}

func seedUser(t *testing.T, tenant *model.Tenant, name, email, role, password string) *model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Role:     role,
		TenantID: tenant.ID,
	}
	require.NoError(t, database.GetDB().Create(user).Error)
	return user
}

func seedNote(t *testing.T, tenant *model.Tenant, user *model.User, title string) *model.Note {
	t.Helper()
	note := &model.Note{
		Title:    title,
		Content:  "content of " + title,
		TenantID: tenant.ID,
		UserID:   user.ID,
	}
	require.NoError(t, database.GetDB().Create(note).Error)
	return note
}

func tokenFor(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := jwtutil.GenerateToken(user.ID, user.Role, user.TenantID)
	require.NoError(t, err)
	return token
}

// doRequest performs a request against the test server. A non-empty token is
// sent as the session cookie.
func doRequest(t *testing.T, e *echo.Echo, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// doBearerRequest sends the token in the Authorization header instead of
// the cookie.
func doBearerRequest(t *testing.T, e *echo.Echo, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}
