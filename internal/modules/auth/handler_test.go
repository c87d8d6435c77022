package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/campuscord/core/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, svc *Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()

	asHeaderUser := func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, c.GetHeader("X-Test-User"))
	}

	api := r.Group("/api")
	NewHandler(svc, nil).RegisterRoutes(api, asHeaderUser)
	return r
}

func performJSON(r *gin.Engine, method, path, userID, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterVerifyLoginOverHTTP(t *testing.T) {
	svc, mailer := newTestService(t)
	r := newTestRouter(t, svc)

	w := performJSON(r, http.MethodPost, "/api/auth/register", "",
		`{"username":"ada","email":"ada@uni.edu","password":"hunter22"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 1, mailer.sent)

	// Follow the mailed verification link.
	idx := strings.Index(mailer.verifyURL, "token=")
	require.Greater(t, idx, 0)
	w = performJSON(r, http.MethodGet, "/api/auth/verify?"+mailer.verifyURL[idx:], "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = performJSON(r, http.MethodPost, "/api/auth/login", "",
		`{"username":"ada","password":"hunter22"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"token"`)
}

func TestUpdateProfileReturnsCreated(t *testing.T) {
	svc, mailer := newTestService(t)
	register(t, svc)
	verify(t, svc, mailer)
	_, user, err := svc.Login("ada", "hunter22")
	require.NoError(t, err)

	r := newTestRouter(t, svc)

	w := performJSON(r, http.MethodPatch, "/api/auth/me", user.ID, `{"name":"Ada Lovelace"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Ada Lovelace")
}
