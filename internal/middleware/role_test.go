package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func performWithRole(role string, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded",
		func(c *gin.Context) {
			if role != "" {
				c.Set("role", role)
			}
			c.Next()
		},
		handler,
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRole_Allows(t *testing.T) {
	w := performWithRole("admin", AdminOnly())
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_Denies(t *testing.T) {
	w := performWithRole("member", AdminOnly())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_MissingRole(t *testing.T) {
	w := performWithRole("", AdminOnly())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffOnly(t *testing.T) {
	assert.Equal(t, http.StatusOK, performWithRole("instructor", StaffOnly()).Code)
	assert.Equal(t, http.StatusOK, performWithRole("admin", StaffOnly()).Code)
	assert.Equal(t, http.StatusForbidden, performWithRole("member", StaffOnly()).Code)
}
