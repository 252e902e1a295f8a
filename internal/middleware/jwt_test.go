package middleware

import (
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret, sub string, method jwt.SigningMethod) string {
    t.Helper()
    claims := jwt.MapClaims{
        "sub": sub,
        "exp": time.Now().Add(time.Hour).Unix(),
    }
    tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
    require.NoError(t, err)
    return tok
}

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
    t.Helper()
    e := echo.New()
    req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
    if authHeader != "" {
        req.Header.Set("Authorization", authHeader)
    }
    rec := httptest.NewRecorder()
    c := e.NewContext(req, rec)

    var captured echo.Context
    h := JWTAuth(testSecret)(func(c echo.Context) error {
        captured = c
        return c.NoContent(http.StatusOK)
    })
    require.NoError(t, h(c))
    return rec, captured
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
    raw := signToken(t, testSecret, "guest-42", jwt.SigningMethodHS256)
    rec, captured := runJWT(t, "Bearer "+raw)

    assert.Equal(t, http.StatusOK, rec.Code)
    require.NotNil(t, captured)
    assert.Equal(t, "guest-42", captured.Get(ContextGuestID))
    assert.Equal(t, raw, captured.Get(ContextBearer))
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
    rec, captured := runJWT(t, "")
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.Nil(t, captured)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
    raw := signToken(t, "other-secret", "guest-42", jwt.SigningMethodHS256)
    rec, captured := runJWT(t, "Bearer "+raw)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.Nil(t, captured)
}

func TestJWTAuthRejectsMissingSubject(t *testing.T) {
    claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
    raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
    require.NoError(t, err)

    rec, captured := runJWT(t, "Bearer "+raw)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.Nil(t, captured)
}

func TestJWTAuthRejectsExpiredToken(t *testing.T) {
    claims := jwt.MapClaims{
        "sub": "guest-42",
        "exp": time.Now().Add(-time.Minute).Unix(),
    }
    raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
    require.NoError(t, err)

    rec, captured := runJWT(t, "Bearer "+raw)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
    assert.Nil(t, captured)
}
