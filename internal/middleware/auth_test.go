package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"wanderwise/internal/model"
	"wanderwise/internal/service"
)

// authStub implements service.AuthService with a static token table.
type authStub struct {
	users map[string]*model.User
}

func (s *authStub) Register(ctx context.Context, input service.RegisterInput) (*model.User, string, error) {
	panic("not used")
}

func (s *authStub) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	panic("not used")
}

func (s *authStub) Authenticate(ctx context.Context, token string) (*model.User, error) {
	u, ok := s.users[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return u, nil
}

func newRouter(auth *authStub, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", RequireAuth(auth))
	if role != "" {
		group.Use(RequireRole(role))
	}
	group.GET("/resource", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c).Username})
	})
	return r
}

func do(t *testing.T, r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	auth := &authStub{users: map[string]*model.User{
		"good-token": {ID: 1, Username: "alice", Role: model.RoleTraveler},
	}}
	r := newRouter(auth, "")

	if w := do(t, r, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no header: expected 401, got %d", w.Code)
	}
	if w := do(t, r, "Basic abc"); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong scheme: expected 401, got %d", w.Code)
	}
	if w := do(t, r, "Bearer bad-token"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", w.Code)
	}
	if w := do(t, r, "Bearer good-token"); w.Code != http.StatusOK {
		t.Fatalf("good token: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	auth := &authStub{users: map[string]*model.User{
		"traveler-token": {ID: 1, Username: "alice", Role: model.RoleTraveler},
		"agent-token":    {ID: 2, Username: "bob", Role: model.RoleAgent},
	}}
	r := newRouter(auth, model.RoleAgent)

	if w := do(t, r, "Bearer traveler-token"); w.Code != http.StatusUnauthorized {
		t.Fatalf("traveler on agent route: expected 401, got %d", w.Code)
	}
	if w := do(t, r, "Bearer agent-token"); w.Code != http.StatusOK {
		t.Fatalf("agent on agent route: expected 200, got %d", w.Code)
	}
}
