package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/college-api/internal/models"
	"github.com/campushub/college-api/internal/service"
)

const jwtTestSecret = "jwt-middleware-test-secret"

func jwtTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := service.NewAuthService(nil, nil, validator.New(), zap.NewNop(), service.AuthConfig{
		Secret:     jwtTestSecret,
		Expiration: time.Hour,
		Issuer:     "college-api-test",
	})

	r := gin.New()
	r.GET("/protected", JWT(auth), func(c *gin.Context) {
		claims, _ := c.Get(ContextUserKey)
		parsed := claims.(*models.JWTClaims)
		c.String(http.StatusOK, parsed.UserID)
	})
	return r
}

func signTestToken(t *testing.T, expiresIn time.Duration) string {
	t.Helper()
	claims := &models.JWTClaims{
		UserID: "user-1",
		Role:   models.RoleStudent,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtTestSecret))
	require.NoError(t, err)
	return signed
}

func getProtected(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMissingHeader(t *testing.T) {
	w := getProtected(jwtTestRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMalformedHeader(t *testing.T) {
	r := jwtTestRouter()
	for _, header := range []string{"Basic abc", "Bearer", "Bearer  "} {
		w := getProtected(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestJWTInvalidToken(t *testing.T) {
	w := getProtected(jwtTestRouter(), "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTExpiredToken(t *testing.T) {
	token := signTestToken(t, -time.Minute)
	w := getProtected(jwtTestRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTValidTokenPassesClaims(t *testing.T) {
	token := signTestToken(t, time.Hour)
	w := getProtected(jwtTestRouter(), "bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())
}
