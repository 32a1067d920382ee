package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/teewear/shop/internal/hash"
	"github.com/teewear/shop/internal/models"
	"github.com/teewear/shop/internal/mykafka"
)

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
}

func doJSONRequest(t *testing.T, e *echo.Echo, method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func newAuthHandler(t *testing.T) *AuthHandler {
	return &AuthHandler{
		DB:            InitTestDB(t),
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Producer:      mykafka.NewProducer(nil),
	}
}

func TestRegister(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()

	payload := map[string]string{
		"username": "test_user",
		"email":    "test@example.com",
		"password": "password",
	}

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/auth/register", payload)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)

	var user models.User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	require.Equal(t, "test_user", user.Username)
	require.Equal(t, "user", user.Role)
	require.NotEmpty(t, user.ID)

	var stored models.User
	require.NoError(t, h.DB.First(&stored, user.ID).Error)
	require.NotEqual(t, "password", stored.PasswordHash)

	rec2, c2 := doJSONRequest(t, e, http.MethodPost, "/api/auth/register", payload)
	require.NoError(t, h.Register(c2))
	require.Equal(t, http.StatusBadRequest, rec2.Code)
	require.False(t, decodeEnvelope(t, rec2).Success)
}

func TestRegisterMissingFields(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "no_password",
	})
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()

	passwordHash, _ := hash.HashPassword("password")
	user := models.User{
		Username:     "test_user",
		Email:        "test@example.com",
		PasswordHash: passwordHash,
		Role:         "user",
	}
	require.NoError(t, h.DB.Create(&user).Error)

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "test_user",
		"password": "password",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)

	cookies := rec.Result().Cookies()
	names := make(map[string]bool, len(cookies))
	for _, ck := range cookies {
		names[ck.Name] = true
	}
	require.True(t, names["accessToken"])
	require.True(t, names["refreshToken"])

	var stored models.RefreshToken
	require.NoError(t, h.DB.Where("token = ?", resp.RefreshToken).First(&stored).Error)
	require.Equal(t, user.ID, stored.UserID)
	require.False(t, stored.Revoked)

	recBad, cBad := doJSONRequest(t, e, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "test_user",
		"password": "wrong_password",
	})
	require.NoError(t, h.Login(cBad))
	require.Equal(t, http.StatusUnauthorized, recBad.Code)
}

func TestLogOut(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()

	stored := models.RefreshToken{
		Token:     "some-refresh-token",
		UserID:    1,
		Role:      "user",
		ExpiresAt: 9999999999,
	}
	require.NoError(t, h.DB.Create(&stored).Error)

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/auth/logout", nil)
	c.Request().AddCookie(&http.Cookie{Name: "refreshToken", Value: "some-refresh-token"})
	require.NoError(t, h.LogOut(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var after models.RefreshToken
	require.NoError(t, h.DB.Where("token = ?", "some-refresh-token").First(&after).Error)
	require.True(t, after.Revoked)
}

func TestGetProfile(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()

	user := models.User{Username: "me", Email: "me@example.com", PasswordHash: "x", Role: "user"}
	require.NoError(t, h.DB.Create(&user).Error)

	rec, c := doJSONRequest(t, e, http.MethodGet, "/api/auth/me", nil)
	c.Set("userID", user.ID)
	c.Set("role", "user")
	require.NoError(t, h.GetProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var got models.User
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Equal(t, "me", got.Username)
}

func TestUpdateProfile(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()

	passwordHash, _ := hash.HashPassword("old_password")
	user := models.User{Username: "me", Email: "me@example.com", PasswordHash: passwordHash, Role: "user"}
	require.NoError(t, h.DB.Create(&user).Error)

	rec, c := doJSONRequest(t, e, http.MethodPut, "/api/auth/me", map[string]string{
		"email":    "new@example.com",
		"password": "new_password",
	})
	c.Set("userID", user.ID)
	c.Set("role", "user")
	require.NoError(t, h.UpdateProfile(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.User
	require.NoError(t, h.DB.First(&stored, user.ID).Error)
	require.Equal(t, "new@example.com", stored.Email)
	require.True(t, hash.CheckPassword(stored.PasswordHash, "new_password"))
}
