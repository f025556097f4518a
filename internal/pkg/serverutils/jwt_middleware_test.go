package serverutils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJwtTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", JwtMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id")})
	})
	return app
}

func signedToken(t *testing.T, method jwt.SigningMethod, key interface{}, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestJwtMiddlewareAcceptsHS256(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	app := newJwtTestApp()

	tokenStr := signedToken(t, jwt.SigningMethodHS256, []byte("middleware-test-secret"), uuid.New().String())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJwtMiddlewareRejectsUnsignedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	app := newJwtTestApp()

	// alg "none" must never reach the shared-secret keyfunc.
	tokenStr := signedToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, uuid.New().String())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tokenStr)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJwtMiddlewareRejectsMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-test-secret")
	app := newJwtTestApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
