package orders

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// ExistsFunc reports whether an order number is already taken.
type ExistsFunc func(ctx context.Context, orderNumber string) (bool, error)

// NumberPolicy mints human-readable order numbers with a bounded collision-retry
// loop. When the attempt budget is exhausted, or a lookup fails, it degrades to a
// timestamp-derived number. The fallback can itself collide under very low but
// nonzero probability; acceptable at current order volume.
type NumberPolicy struct {
	prefix   string
	attempts int
	randInt  func(n int) int
	now      func() time.Time
}

// NumberPolicyOption overrides a policy dependency.
type NumberPolicyOption func(*NumberPolicy)

// WithRand injects the random source used for candidate digits.
func WithRand(randInt func(n int) int) NumberPolicyOption {
	return func(p *NumberPolicy) {
		if randInt != nil {
			p.randInt = randInt
		}
	}
}

// WithClock injects the clock used for the fallback number.
func WithClock(now func() time.Time) NumberPolicyOption {
	return func(p *NumberPolicy) {
		if now != nil {
			p.now = now
		}
	}
}

// NewNumberPolicy builds a policy with the given prefix and attempt budget.
func NewNumberPolicy(prefix string, attempts int, opts ...NumberPolicyOption) *NumberPolicy {
	if attempts <= 0 {
		attempts = 10
	}
	p := &NumberPolicy{
		prefix:   prefix,
		attempts: attempts,
		randInt:  rand.Intn,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate returns a non-colliding order number, performing at most the configured
// number of existence lookups. The second return reports whether the timestamp
// fallback was used.
func (p *NumberPolicy) Generate(ctx context.Context, exists ExistsFunc) (string, bool) {
	for i := 0; i < p.attempts; i++ {
		candidate := p.prefix + fmt.Sprintf("%06d", 100000+p.randInt(900000))
		taken, err := exists(ctx, candidate)
		if err != nil {
			// Lookup failure: stop probing and degrade immediately.
			return p.fallback(), true
		}
		if !taken {
			return candidate, false
		}
	}
	return p.fallback(), true
}

func (p *NumberPolicy) fallback() string {
	return p.prefix + fmt.Sprintf("%06d", p.now().UnixMilli()%1_000_000)
}
