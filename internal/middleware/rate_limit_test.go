package middleware

import (
	"testing"
	"time"
)

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 12, 23, 12, 0, 0, 0, time.UTC)
	l := newRateLimiter(1, 1, time.Minute)
	l.now = func() time.Time { return now }

	l.getVisitor("10.0.0.1")
	now = now.Add(30 * time.Second)
	l.getVisitor("10.0.0.2")

	now = now.Add(45 * time.Second)
	if n := l.evict(); n != 1 {
		t.Fatalf("evicted %d, want 1", n)
	}
	if _, ok := l.visitors["10.0.0.2"]; !ok {
		t.Fatalf("recent visitor evicted")
	}
}
