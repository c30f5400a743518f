package throttle

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Route declares a handler's relationship to the named buckets. Buckets lists
// memberships; Exempt removes buckets from the effective set and always wins,
// even when the same name appears in both lists.
type Route struct {
	Buckets []string
	Exempt  []string
}

// Engine evaluates route throttle declarations against a counter store.
// One engine serves the whole router; per-route state is baked into the
// middleware at registration time.
type Engine struct {
	store   CounterStore
	buckets map[string]Bucket
	log     *slog.Logger
	clock   func() time.Time
}

func NewEngine(store CounterStore, buckets []Bucket, log *slog.Logger) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("counter store is required")
	}
	byName := make(map[string]Bucket, len(buckets))
	for _, b := range buckets {
		if b.Name == "" {
			return nil, fmt.Errorf("bucket with empty name")
		}
		if b.Window <= 0 {
			return nil, fmt.Errorf("bucket %q: window must be positive", b.Name)
		}
		if b.Limit <= 0 {
			return nil, fmt.Errorf("bucket %q: limit must be positive", b.Name)
		}
		if _, dup := byName[b.Name]; dup {
			return nil, fmt.Errorf("bucket %q declared twice", b.Name)
		}
		byName[b.Name] = b
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{store: store, buckets: byName, log: log, clock: time.Now}, nil
}

// WithClock overrides the engine's time source. Test hook.
func (e *Engine) WithClock(clock func() time.Time) *Engine {
	e.clock = clock
	return e
}

// Limit returns the gin middleware for one route declaration. The effective
// bucket set (members minus exemptions) is resolved here, at registration;
// referencing an unknown bucket name is a wiring bug and panics immediately
// rather than surfacing at request time.
func (e *Engine) Limit(route Route) gin.HandlerFunc {
	effective := e.resolve(route)
	if len(effective) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := ClientKey(c.Request)
		now := e.clock()
		for _, b := range effective {
			ok, err := e.store.Take(c.Request.Context(), b, key, now)
			if err != nil {
				// Counter backend down: reject rather than serve unmetered.
				e.log.Error("throttle store failure",
					slog.String("bucket", b.Name),
					slog.String("error", err.Error()))
				tooManyRequests(c)
				return
			}
			if !ok {
				tooManyRequests(c)
				return
			}
		}
		c.Next()
	}
}

func (e *Engine) resolve(route Route) []Bucket {
	exempt := make(map[string]bool, len(route.Exempt))
	for _, name := range route.Exempt {
		if _, ok := e.buckets[name]; !ok {
			panic(fmt.Sprintf("throttle: unknown bucket %q in exemption list", name))
		}
		exempt[name] = true
	}

	seen := make(map[string]bool, len(route.Buckets))
	var effective []Bucket
	for _, name := range route.Buckets {
		b, ok := e.buckets[name]
		if !ok {
			panic(fmt.Sprintf("throttle: unknown bucket %q in route declaration", name))
		}
		if exempt[name] || seen[name] {
			continue
		}
		seen[name] = true
		effective = append(effective, b)
	}
	// Deterministic check order regardless of declaration order.
	sort.Slice(effective, func(i, j int) bool { return effective[i].Name < effective[j].Name })
	return effective
}

func tooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
}
