package throttle

import (
	"context"
	"time"
)

// CounterStore owns the per-(bucket, clientKey) window counters.
//
// Take admits or rejects one request. Admission increments the window
// counter; a rejected request leaves the counter untouched (check-then-admit:
// once a window holds Limit admissions, every further Take in that window
// returns false without moving the counter past Limit).
//
// Implementations must make the check-and-increment atomic with respect to
// concurrent callers on the same key; two racing requests must never both
// cross the limit boundary.
type CounterStore interface {
	Take(ctx context.Context, b Bucket, clientKey string, now time.Time) (bool, error)
}
