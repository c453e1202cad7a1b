package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oguzatay/project-tracker-api/internal/auth"
	"github.com/oguzatay/project-tracker-api/internal/config"
	"github.com/oguzatay/project-tracker-api/internal/constants"
	"github.com/oguzatay/project-tracker-api/internal/models"
	"github.com/oguzatay/project-tracker-api/internal/repository"
	"github.com/oguzatay/project-tracker-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db      *gorm.DB
	cfg     *config.Config
	handler *AuthHandler
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:   "test-secret",
		JWTTTLHours: 1,
	}

	userRepo := repository.NewUserRepository(db)
	authService := services.NewAuthService(userRepo)
	handler := NewAuthHandler(authService, cfg)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:      db,
		cfg:     cfg,
		handler: handler,
	}
}

func authTestContext(method, url string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	c, _ := gin.CreateTestContext(w)
	c.Request = req

	return c, w
}

func registerAuthTestUser(t *testing.T, env authTestEnv, email string) uint64 {
	t.Helper()

	body, err := json.Marshal(map[string]string{
		"username": "tester",
		"email":    email,
		"password": "password123",
	})
	require.NoError(t, err)

	c, w := authTestContext(http.MethodPost, "/api/auth/register", body)
	env.handler.Register(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		User struct {
			ID uint64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response.User.ID
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	body, err := json.Marshal(map[string]string{
		"username":  "newuser",
		"email":     "new@example.com",
		"password":  "password123",
		"full_name": "New User",
	})
	require.NoError(t, err)

	c, w := authTestContext(http.MethodPost, "/api/auth/register", body)
	env.handler.Register(c)

	require.Equal(t, http.StatusCreated, w.Code)

	var response struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			ID    uint64 `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	require.Equal(t, "new@example.com", response.User.Email)
	require.Equal(t, string(models.RoleMember), response.User.Role)

	// The issued token round-trips through the parser.
	principal, err := auth.ParseToken(response.Token, env.cfg.JWTSecret)
	require.NoError(t, err)
	require.Equal(t, response.User.ID, principal.ID)
	require.Equal(t, models.RoleMember, principal.Role)

	// The stored password is hashed.
	var stored models.User
	require.NoError(t, env.db.First(&stored, response.User.ID).Error)
	require.NotEqual(t, "password123", stored.PasswordHash)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	registerAuthTestUser(t, env, "dup@example.com")

	body, err := json.Marshal(map[string]string{
		"username": "other",
		"email":    "dup@example.com",
		"password": "password123",
	})
	require.NoError(t, err)

	c, w := authTestContext(http.MethodPost, "/api/auth/register", body)
	env.handler.Register(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	body, err := json.Marshal(map[string]string{
		"username": "tester",
		"email":    "short@example.com",
		"password": "short",
	})
	require.NoError(t, err)

	c, w := authTestContext(http.MethodPost, "/api/auth/register", body)
	env.handler.Register(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	registerAuthTestUser(t, env, "login@example.com")

	body, err := json.Marshal(map[string]string{
		"email":    "login@example.com",
		"password": "password123",
	})
	require.NoError(t, err)

	c, w := authTestContext(http.MethodPost, "/api/auth/login", body)
	env.handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	registerAuthTestUser(t, env, "login@example.com")

	body, err := json.Marshal(map[string]string{
		"email":    "login@example.com",
		"password": "not-the-password",
	})
	require.NoError(t, err)

	c, w := authTestContext(http.MethodPost, "/api/auth/login", body)
	env.handler.Login(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_UnknownEmail(t *testing.T) {
	env := setupAuthTestEnv(t)

	body, err := json.Marshal(map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	require.NoError(t, err)

	c, w := authTestContext(http.MethodPost, "/api/auth/login", body)
	env.handler.Login(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_UpdateProfile(t *testing.T) {
	env := setupAuthTestEnv(t)

	userID := registerAuthTestUser(t, env, "profile@example.com")

	body, err := json.Marshal(map[string]string{
		"full_name": "Renamed User",
	})
	require.NoError(t, err)

	c, w := authTestContext(http.MethodPut, "/api/users/me", body)
	c.Set(constants.ContextKeyUserID, userID)
	env.handler.UpdateProfile(c)

	require.Equal(t, http.StatusOK, w.Code)

	var stored models.User
	require.NoError(t, env.db.First(&stored, userID).Error)
	require.Equal(t, "Renamed User", stored.FullName)
	require.Equal(t, "profile@example.com", stored.Email)
}

func TestAuthHandler_UpdateProfile_EmailConflict(t *testing.T) {
	env := setupAuthTestEnv(t)

	registerAuthTestUser(t, env, "taken@example.com")

	body, err := json.Marshal(map[string]string{
		"username": "second",
		"email":    "second@example.com",
		"password": "password123",
	})
	require.NoError(t, err)
	c, w := authTestContext(http.MethodPost, "/api/auth/register", body)
	env.handler.Register(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		User struct {
			ID uint64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	body, err = json.Marshal(map[string]string{
		"email": "taken@example.com",
	})
	require.NoError(t, err)

	c, w = authTestContext(http.MethodPut, "/api/users/me", body)
	c.Set(constants.ContextKeyUserID, created.User.ID)
	env.handler.UpdateProfile(c)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	userID := registerAuthTestUser(t, env, "pw@example.com")

	body, err := json.Marshal(map[string]string{
		"current_password": "password123",
		"new_password":     "password456",
	})
	require.NoError(t, err)

	c, w := authTestContext(http.MethodPut, "/api/users/me/password", body)
	c.Set(constants.ContextKeyUserID, userID)
	env.handler.ChangePassword(c)

	require.Equal(t, http.StatusOK, w.Code)

	// The old password no longer works.
	body, err = json.Marshal(map[string]string{
		"email":    "pw@example.com",
		"password": "password123",
	})
	require.NoError(t, err)
	c, w = authTestContext(http.MethodPost, "/api/auth/login", body)
	env.handler.Login(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// The new one does.
	body, err = json.Marshal(map[string]string{
		"email":    "pw@example.com",
		"password": "password456",
	})
	require.NoError(t, err)
	c, w = authTestContext(http.MethodPost, "/api/auth/login", body)
	env.handler.Login(c)
	require.Equal(t, http.StatusOK, w.Code)
}
