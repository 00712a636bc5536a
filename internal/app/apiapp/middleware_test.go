package apiapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wordstackio/backend/internal/domain/model"
	pgrepo "github.com/wordstackio/backend/internal/repo/postgres"
	redrepo "github.com/wordstackio/backend/internal/repo/redis"
	authsvc "github.com/wordstackio/backend/internal/services/auth"
)

type singleUserStore struct {
	user model.User
}

func (s *singleUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	user.ID = s.user.ID
	s.user = user
	return user, nil
}

func (s *singleUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	if !strings.EqualFold(email, s.user.Email) {
		return model.User{}, pgrepo.ErrUserNotFound
	}
	return s.user, nil
}

func newAuthServiceForMiddleware(t *testing.T) *authsvc.Service {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	jwtManager := authsvc.NewJWTManager("middleware-test-secret", 15*time.Minute)
	sessions := redrepo.NewSessionRepo(client)
	users := &singleUserStore{user: model.User{ID: 7, Email: "poet@example.com"}}
	return authsvc.NewService(jwtManager, sessions, users, 30*24*time.Hour)
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	svc := newAuthServiceForMiddleware(t)
	mw := AuthMiddleware(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/ink", nil)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called without a token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareRejectsGarbageToken(t *testing.T) {
	svc := newAuthServiceForMiddleware(t)
	mw := AuthMiddleware(svc, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/v1/ink", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatalf("handler must not be called on invalid token")
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	svc := newAuthServiceForMiddleware(t)
	mw := AuthMiddleware(svc, zap.NewNop())

	result, err := svc.Register(context.Background(), "basho@example.com", "password-123", "Basho")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/ink", nil)
	req.Header.Set("Authorization", "Bearer "+result.AccessToken)
	rr := httptest.NewRecorder()

	mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok {
			t.Fatalf("identity missing in context")
		}
		if identity.UserID != result.Me.ID {
			t.Fatalf("identity user mismatch: got %d want %d", identity.UserID, result.Me.ID)
		}
		if identity.SID == "" {
			t.Fatalf("identity sid is empty")
		}
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusNoContent)
	}
}

func TestExtractBearerToken(t *testing.T) {
	if _, ok := extractBearerToken(""); ok {
		t.Fatalf("empty header must not yield a token")
	}
	if _, ok := extractBearerToken("Basic abc"); ok {
		t.Fatalf("non-bearer scheme must not yield a token")
	}
	token, ok := extractBearerToken("Bearer abc.def.ghi")
	if !ok || token != "abc.def.ghi" {
		t.Fatalf("unexpected token: %q ok=%v", token, ok)
	}
}
