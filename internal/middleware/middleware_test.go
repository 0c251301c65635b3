package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/wellbeing-api/internal/models"
	"github.com/noah-isme/wellbeing-api/internal/service"
	appErrors "github.com/noah-isme/wellbeing-api/pkg/errors"
)

type fakeValidator struct {
	claims *models.JWTClaims
	err    error
	seen   string
}

func (f *fakeValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	f.seen = token
	return f.claims, f.err
}

func newTestRouter(validator TokenValidator, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	r.GET("/protected", JWT(validator), RequireRoles(roles...), func(c *gin.Context) {
		SetCacheHit(c, true)
		c.JSON(http.StatusOK, gin.H{"meta": ExtractMeta(c)})
	})
	return r
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	r := newTestRouter(&fakeValidator{}, models.RoleStaff)

	for _, header := range []string{"", "Token abc", "Bearer "} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestJWTPropagatesValidatorError(t *testing.T) {
	validator := &fakeValidator{err: appErrors.Clone(appErrors.ErrUnauthorized, "token expired")}
	r := newTestRouter(validator, models.RoleStaff)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer abc")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "abc", validator.seen)
}

func TestRequireRolesForbidsOtherRoles(t *testing.T) {
	validator := &fakeValidator{claims: &models.JWTClaims{UserID: "u-1", Role: models.RoleStudent, InstitutionID: "inst-1"}}
	r := newTestRouter(validator, models.RoleStaff, models.RoleAdmin)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer abc")
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesAllowsListedRoleAndCarriesMeta(t *testing.T) {
	validator := &fakeValidator{claims: &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin, InstitutionID: "inst-1"}}
	r := newTestRouter(validator, models.RoleStaff, models.RoleAdmin)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "bearer abc")
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body.Meta["cache_hit"])
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/open", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMetricsMiddlewareLabelsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/cohort/:view", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/cohort/snapshot", "/cohort/trends", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, uint64(3), metrics.Snapshot().RequestsTotal)
}
