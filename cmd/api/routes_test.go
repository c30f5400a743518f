package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"place-review-platform/internal/audit"
	"place-review-platform/internal/auth"
	"place-review-platform/internal/comments"
	"place-review-platform/internal/config"
	"place-review-platform/internal/photos"
	"place-review-platform/internal/places"
	"place-review-platform/internal/throttle"
	"place-review-platform/internal/users"

	"github.com/gin-gonic/gin"
)

type testServer struct {
	router   *gin.Engine
	users    *users.MemoryRepo
	audits   *audit.MemoryRepo
	clientIP string
	reqSeq   int
}

type testDirectory struct{}

func (testDirectory) PlacesByCategories(ctx context.Context, categories []string) ([]users.PlaceRef, error) {
	return nil, nil
}

func (testDirectory) PlacesWithCommenterAges(ctx context.Context, excludeUserID int) ([]users.PlaceAges, error) {
	return nil, nil
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewManager(config.AuthConfig{JWTSecret: "test-jwt-secret", TokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	cookies, err := auth.NewCookieCodec(config.CookieConfig{Secret: "test-cookie-secret", MaxAge: time.Hour}, false)
	if err != nil {
		t.Fatalf("cookie codec: %v", err)
	}

	engine, err := throttle.NewEngine(throttle.NewMemoryStore(), throttle.DefaultBuckets(), log)
	if err != nil {
		t.Fatalf("throttle engine: %v", err)
	}

	userRepo := users.NewMemoryRepo()
	placeRepo := places.NewMemoryRepo()
	commentRepo := comments.NewMemoryRepo()
	photoRepo := photos.NewMemoryRepo()
	auditRepo := audit.NewMemoryRepo()

	source := users.NewAuthSource(userRepo)

	deps := routeDeps{
		cfg: config.Config{
			Upload: config.UploadConfig{Dir: t.TempDir(), MaxFiles: 3, MaxFileSize: 2 << 20},
		},
		log:      log,
		engine:   engine,
		tokens:   tokens,
		cookies:  cookies,
		accounts: source,
		authH:    auth.Handlers{Auth: auth.NewService(source, tokens), Cookies: cookies},
		usersH:   users.Handlers{Users: users.NewService(userRepo, testDirectory{})},
		placesH:  places.Handlers{Places: places.NewService(placeRepo)},
		commentsH: comments.Handlers{
			Comments: comments.NewService(commentRepo, placeRepo),
		},
		photosH: photos.Handlers{
			Photos:      photos.NewService(photoRepo, mustDiskStore(t)),
			MaxFiles:    3,
			MaxFileSize: 2 << 20,
		},
		audits: audit.NewService(auditRepo),
	}

	r := gin.New()
	registerRoutes(r, deps)

	return &testServer{router: r, users: userRepo, audits: auditRepo, clientIP: "198.51.100.10"}
}

func mustDiskStore(t *testing.T) *photos.DiskStore {
	t.Helper()
	ds, err := photos.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}
	return ds
}

func (ts *testServer) do(method, path string, body any, cookie string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = ts.clientIP + ":40000"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// register creates an account directly against the repo so registration
// throttling in a test never interferes with the scenario under test.
func (ts *testServer) register(t *testing.T, email, password, role string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ts.reqSeq++
	_, err = ts.users.Create(context.Background(), users.User{
		UserName:     fmt.Sprintf("user%d", ts.reqSeq),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	w := ts.do(http.MethodPost, "/auth/login", gin.H{"email": email, "password": password}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c.Name + "=" + c.Value
		}
	}
	t.Fatal("login response carried no access_token cookie")
	return ""
}

func TestLoginSetsCookieAndMeWorks(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "anna@example.com", "secret123", "user")

	cookie := ts.login(t, "anna@example.com", "secret123")

	w := ts.do(http.MethodGet, "/auth/me", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var profile struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if profile.Email != "anna@example.com" {
		t.Fatalf("unexpected profile: %s", w.Body.String())
	}
}

func TestLoginFailureCodes(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "anna@example.com", "secret123", "user")

	if w := ts.do(http.MethodPost, "/auth/login", gin.H{"email": "ghost@example.com", "password": "x"}, ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown email: expected 404, got %d", w.Code)
	}
	if w := ts.do(http.MethodPost, "/auth/login", gin.H{"email": "anna@example.com", "password": "wrong"}, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: expected 401, got %d", w.Code)
	}
}

func TestLoginBucketThrottlesFourthAttempt(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "anna@example.com", "secret123", "user")

	body := gin.H{"email": "anna@example.com", "password": "wrong"}
	for i := 0; i < 3; i++ {
		if w := ts.do(http.MethodPost, "/auth/login", body, ""); w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i+1, w.Code)
		}
	}

	// Throttle fires before credential checking: even correct credentials
	// are rejected with 429 now.
	w := ts.do(http.MethodPost, "/auth/login", gin.H{"email": "anna@example.com", "password": "secret123"}, "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("fourth attempt: expected 429, got %d", w.Code)
	}
}

func TestPlaceCreationUsesPlaceBucket(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "anna@example.com", "secret123", "user")
	cookie := ts.login(t, "anna@example.com", "secret123")

	// The place bucket admits 10 creations per window; the postput
	// membership is exempted so it never applies here.
	for i := 0; i < 10; i++ {
		body := gin.H{"googleplaceID": fmt.Sprintf("G%d", i), "name": fmt.Sprintf("Place %d", i)}
		if w := ts.do(http.MethodPost, "/place", body, cookie); w.Code != http.StatusCreated {
			t.Fatalf("creation %d: expected 201, got %d (%s)", i+1, w.Code, w.Body.String())
		}
	}
	w := ts.do(http.MethodPost, "/place", gin.H{"googleplaceID": "G11", "name": "Place 11"}, cookie)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("11th creation: expected 429, got %d", w.Code)
	}
}

func TestAdminRoutesRejectRegularUsers(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "anna@example.com", "secret123", "user")
	cookie := ts.login(t, "anna@example.com", "secret123")

	if w := ts.do(http.MethodGet, "/place/all", nil, cookie); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}
	if w := ts.do(http.MethodGet, "/place/all", nil, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestAdminDeleteIsAudited(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "admin@example.com", "secret123", "admin")
	cookie := ts.login(t, "admin@example.com", "secret123")

	if w := ts.do(http.MethodPost, "/place", gin.H{"googleplaceID": "G1", "name": "One"}, cookie); w.Code != http.StatusCreated {
		t.Fatalf("create place: got %d", w.Code)
	}
	if w := ts.do(http.MethodDelete, "/place/1", nil, cookie); w.Code != http.StatusOK {
		t.Fatalf("delete place: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	events := ts.audits.Events()
	if len(events) != 1 || events[0].Action != "place.delete" || events[0].TargetID != "1" {
		t.Fatalf("unexpected audit trail: %+v", events)
	}
}

func TestLogoutClearsCookieButTokenSurvives(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "anna@example.com", "secret123", "user")
	cookie := ts.login(t, "anna@example.com", "secret123")

	w := ts.do(http.MethodPost, "/auth/logout", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}
	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("logout must clear the login cookie")
	}

	// The same cookie still authenticates: tokens have no revocation list.
	if w := ts.do(http.MethodGet, "/auth/me", nil, cookie); w.Code != http.StatusOK {
		t.Fatalf("token should survive logout, got %d", w.Code)
	}
}

func TestDeletedUserIsRejectedDespiteValidToken(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "anna@example.com", "secret123", "user")
	cookie := ts.login(t, "anna@example.com", "secret123")

	if err := ts.users.Delete(context.Background(), 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if w := ts.do(http.MethodGet, "/auth/me", nil, cookie); w.Code != http.StatusUnauthorized {
		t.Fatalf("deleted account: expected 401, got %d", w.Code)
	}
}
