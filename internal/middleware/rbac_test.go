package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/campushub/college-api/internal/models"
)

func rbacTestRouter(claims *models.JWTClaims, allowed ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/students/:id",
		func(c *gin.Context) {
			if claims != nil {
				c.Set(ContextUserKey, claims)
			}
		},
		RBAC(allowed...),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return r
}

func getStudent(r *gin.Engine, id string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/students/"+id, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRBACMissingClaimsIsUnauthorized(t *testing.T) {
	r := rbacTestRouter(nil, string(models.RoleAdmin))
	w := getStudent(r, "stu-1")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRBACRoleAllowed(t *testing.T) {
	claims := &models.JWTClaims{UserID: "acc-1", Role: models.RoleFaculty}
	r := rbacTestRouter(claims, string(models.RoleFaculty), string(models.RoleAdmin))
	w := getStudent(r, "stu-1")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRBACRoleForbidden(t *testing.T) {
	claims := &models.JWTClaims{UserID: "acc-1", Role: models.RoleStudent, ProfileID: "stu-1"}
	r := rbacTestRouter(claims, string(models.RoleFaculty), string(models.RoleAdmin))
	w := getStudent(r, "stu-2")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRBACSelfMatchesProfileID(t *testing.T) {
	claims := &models.JWTClaims{UserID: "acc-1", Role: models.RoleStudent, ProfileID: "stu-1"}
	r := rbacTestRouter(claims, Self)
	w := getStudent(r, "stu-1")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRBACSelfRejectsOtherProfile(t *testing.T) {
	claims := &models.JWTClaims{UserID: "acc-1", Role: models.RoleStudent, ProfileID: "stu-1"}
	r := rbacTestRouter(claims, Self)
	w := getStudent(r, "stu-2")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRBACSelfNeverMatchesAccountID(t *testing.T) {
	// The route parameter is a profile id; the account id must not satisfy
	// the ownership check.
	claims := &models.JWTClaims{UserID: "acc-1", Role: models.RoleStudent, ProfileID: "stu-1"}
	r := rbacTestRouter(claims, Self)
	w := getStudent(r, "acc-1")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
