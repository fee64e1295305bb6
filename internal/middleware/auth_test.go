package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, sub string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authApp(handler fiber.Handler) (*fiber.App, *uuid.UUID, *bool) {
	var (
		gotID    uuid.UUID
		idSet    bool
		idTarget = &gotID
		setFlag  = &idSet
	)
	app := fiber.New()
	app.Get("/", handler, func(c *fiber.Ctx) error {
		if id, ok := UserID(c); ok {
			*idTarget = id
			*setFlag = true
		}
		return c.SendStatus(200)
	})
	return app, idTarget, setFlag
}

func TestAuthAcceptsValidToken(t *testing.T) {
	userID := uuid.New()
	app, gotID, idSet := authApp(Auth(testSecret))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userID.String()))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.True(t, *idSet)
	assert.Equal(t, userID, *gotID)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	app, _, _ := authApp(Auth(testSecret))

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	app, _, _ := authApp(Auth(testSecret))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", uuid.NewString()))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAuthRejectsMalformedSubject(t *testing.T) {
	app, _, _ := authApp(Auth(testSecret))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "not-a-uuid"))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 401, resp.StatusCode)
}

func TestOptionalAuthPassesAnonymous(t *testing.T) {
	app, _, idSet := authApp(OptionalAuth(testSecret))

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.False(t, *idSet, "anonymous callers carry no user id")
}

func TestOptionalAuthStillRejectsGarbageTokens(t *testing.T) {
	app, _, _ := authApp(OptionalAuth(testSecret))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 401, resp.StatusCode)
}

func TestOptionalAuthCarriesIdentity(t *testing.T) {
	userID := uuid.New()
	app, gotID, idSet := authApp(OptionalAuth(testSecret))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, userID.String()))

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.True(t, *idSet)
	assert.Equal(t, userID, *gotID)
}
