package throttle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestMemoryStore_AdmitsUpToLimit(t *testing.T) {
	s := NewMemoryStore()
	clk := newFakeClock()
	b := Bucket{Name: "b", Window: time.Minute, Limit: 3}

	for i := 0; i < 3; i++ {
		ok, err := s.Take(context.Background(), b, "1.2.3.4", clk.Now())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ok {
			t.Fatalf("request %d should be admitted", i+1)
		}
	}

	ok, err := s.Take(context.Background(), b, "1.2.3.4", clk.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("request past the limit should be rejected")
	}
}

func TestMemoryStore_RejectionDoesNotConsume(t *testing.T) {
	s := NewMemoryStore()
	clk := newFakeClock()
	b := Bucket{Name: "b", Window: time.Minute, Limit: 2}

	for i := 0; i < 2; i++ {
		if ok, _ := s.Take(context.Background(), b, "k", clk.Now()); !ok {
			t.Fatal("setup admission failed")
		}
	}
	// Hammer the full window; none of these may extend or grow it.
	for i := 0; i < 10; i++ {
		if ok, _ := s.Take(context.Background(), b, "k", clk.Now()); ok {
			t.Fatal("rejected request must not be admitted")
		}
	}

	clk.Advance(time.Minute)
	if ok, _ := s.Take(context.Background(), b, "k", clk.Now()); !ok {
		t.Fatal("new window should admit again")
	}
}

func TestMemoryStore_WindowResets(t *testing.T) {
	s := NewMemoryStore()
	clk := newFakeClock()
	b := Bucket{Name: "b", Window: time.Minute, Limit: 1}

	if ok, _ := s.Take(context.Background(), b, "k", clk.Now()); !ok {
		t.Fatal("first request should pass")
	}
	if ok, _ := s.Take(context.Background(), b, "k", clk.Now()); ok {
		t.Fatal("second request in the window should fail")
	}

	clk.Advance(59 * time.Second)
	if ok, _ := s.Take(context.Background(), b, "k", clk.Now()); ok {
		t.Fatal("window has not elapsed yet")
	}

	clk.Advance(time.Second)
	if ok, _ := s.Take(context.Background(), b, "k", clk.Now()); !ok {
		t.Fatal("window elapsed, counter should have reset")
	}
}

func TestMemoryStore_ClientsAreIndependent(t *testing.T) {
	s := NewMemoryStore()
	clk := newFakeClock()
	b := Bucket{Name: "b", Window: time.Minute, Limit: 1}

	if ok, _ := s.Take(context.Background(), b, "1.1.1.1", clk.Now()); !ok {
		t.Fatal("first client should pass")
	}
	if ok, _ := s.Take(context.Background(), b, "2.2.2.2", clk.Now()); !ok {
		t.Fatal("second client has its own window")
	}
	if ok, _ := s.Take(context.Background(), b, "1.1.1.1", clk.Now()); ok {
		t.Fatal("first client is out of budget")
	}
}

func TestMemoryStore_BucketsAreIndependent(t *testing.T) {
	s := NewMemoryStore()
	clk := newFakeClock()
	a := Bucket{Name: "a", Window: time.Minute, Limit: 1}
	b := Bucket{Name: "b", Window: time.Minute, Limit: 1}

	if ok, _ := s.Take(context.Background(), a, "k", clk.Now()); !ok {
		t.Fatal("bucket a should admit")
	}
	if ok, _ := s.Take(context.Background(), b, "k", clk.Now()); !ok {
		t.Fatal("bucket b keeps its own counter")
	}
}

type failingStore struct{}

func (failingStore) Take(ctx context.Context, b Bucket, clientKey string, now time.Time) (bool, error) {
	return false, errors.New("backend unavailable")
}

func testEngine(t *testing.T, store CounterStore, buckets []Bucket) *Engine {
	t.Helper()
	e, err := NewEngine(store, buckets, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return e
}

func serveThrottled(t *testing.T, e *Engine, route Route, requests int) []int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", e.Limit(route), func(c *gin.Context) { c.Status(200) })

	codes := make([]int, 0, requests)
	for i := 0; i < requests; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "10.0.0.9:3344"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	return codes
}

func TestEngine_RejectsPastLimit(t *testing.T) {
	e := testEngine(t, NewMemoryStore(), []Bucket{{Name: "tight", Window: time.Minute, Limit: 2}})

	codes := serveThrottled(t, e, Route{Buckets: []string{"tight"}}, 3)
	want := []int{200, 200, 429}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("request %d: expected %d, got %d", i+1, want[i], codes[i])
		}
	}
}

func TestEngine_ExemptionOverridesMembership(t *testing.T) {
	buckets := []Bucket{
		{Name: "wide", Window: time.Minute, Limit: 100},
		{Name: "tight", Window: time.Minute, Limit: 1},
	}
	e := testEngine(t, NewMemoryStore(), buckets)

	// Member of both, exempt from tight: only wide applies.
	route := Route{Buckets: []string{"wide", "tight"}, Exempt: []string{"tight"}}
	codes := serveThrottled(t, e, route, 5)
	for i, code := range codes {
		if code != 200 {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
}

func TestEngine_UndeclaredRouteIsUnmetered(t *testing.T) {
	e := testEngine(t, NewMemoryStore(), []Bucket{{Name: "tight", Window: time.Minute, Limit: 1}})

	codes := serveThrottled(t, e, Route{}, 10)
	for i, code := range codes {
		if code != 200 {
			t.Fatalf("request %d: expected 200, got %d", i+1, code)
		}
	}
}

func TestEngine_FailsClosedOnStoreError(t *testing.T) {
	e := testEngine(t, failingStore{}, []Bucket{{Name: "b", Window: time.Minute, Limit: 100}})

	codes := serveThrottled(t, e, Route{Buckets: []string{"b"}}, 1)
	if codes[0] != 429 {
		t.Fatalf("expected 429 on store failure, got %d", codes[0])
	}
}

func TestEngine_UnknownBucketPanicsAtRegistration(t *testing.T) {
	e := testEngine(t, NewMemoryStore(), []Bucket{{Name: "b", Window: time.Minute, Limit: 1}})

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown bucket name")
		}
	}()
	e.Limit(Route{Buckets: []string{"nope"}})
}

func TestEngine_ClientsKeyedByForwardedFor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	e := testEngine(t, NewMemoryStore(), []Bucket{{Name: "b", Window: time.Minute, Limit: 1}})

	r := gin.New()
	r.GET("/x", e.Limit(Route{Buckets: []string{"b"}}), func(c *gin.Context) { c.Status(200) })

	send := func(xff string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "10.0.0.9:3344"
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := send("203.0.113.5, 10.0.0.1"); code != 200 {
		t.Fatalf("first client: expected 200, got %d", code)
	}
	if code := send("203.0.113.6, 10.0.0.1"); code != 200 {
		t.Fatalf("distinct forwarded client: expected 200, got %d", code)
	}
	if code := send("203.0.113.5"); code != 429 {
		t.Fatalf("same forwarded client: expected 429, got %d", code)
	}
}

func TestEngine_LoginBucketLocksOutAfterThree(t *testing.T) {
	e := testEngine(t, NewMemoryStore(), DefaultBuckets())

	route := Route{Buckets: []string{BucketBasic, BucketLogin}, Exempt: []string{BucketBasic}}
	codes := serveThrottled(t, e, route, 4)
	want := []int{200, 200, 200, 429}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("attempt %d: expected %d, got %d", i+1, want[i], codes[i])
		}
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	if got := ClientKey(req); got != "192.0.2.10" {
		t.Fatalf("remote addr key: got %q", got)
	}

	req.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")
	if got := ClientKey(req); got != "203.0.113.7" {
		t.Fatalf("forwarded key: got %q", got)
	}
}
