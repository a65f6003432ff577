package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeToken struct {
	claims map[string]interface{}
}

func (f *fakeToken) Claims(v interface{}) error {
	p, ok := v.(*map[string]interface{})
	if !ok {
		return errors.New("unexpected claims target")
	}
	*p = f.claims
	return nil
}

type fakeVerifier struct {
	claims map[string]interface{}
	err    error
}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &fakeToken{claims: f.claims}, nil
}

func newAuthRouter(ver Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/who", AuthMiddleware(ver), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId":  c.GetString("userId"),
			"isAdmin": c.GetBool("isAdmin"),
		})
	})
	r.GET("/admin", AuthMiddleware(ver), RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	r := newAuthRouter(&fakeVerifier{claims: map[string]interface{}{"userId": "u1", "role": "admin"}})

	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer tok")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin route rejected admin: %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	r := newAuthRouter(&fakeVerifier{claims: map[string]interface{}{}})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/who", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsBadToken(t *testing.T) {
	r := newAuthRouter(&fakeVerifier{err: errors.New("boom")})
	req := httptest.NewRequest(http.MethodGet, "/who", nil)
	req.Header.Set("Authorization", "Bearer bad")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAdminRejectsUserRole(t *testing.T) {
	r := newAuthRouter(&fakeVerifier{claims: map[string]interface{}{"userId": "u1", "role": "user"}})
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}
