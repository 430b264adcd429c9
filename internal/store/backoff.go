package store

import (
	"math/rand"
	"time"
)

type Backoff struct {
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

func DefaultBackoff() Backoff {
	return Backoff{
		BaseDelay: 500 * time.Millisecond,
		MaxDelay:  10 * time.Second,
	}
}

// Delay returns how long to wait before the given attempt using exponential
// backoff with full jitter. attempt is 1-based (1 => up to BaseDelay).
func (b Backoff) Delay(attempt int, rng *rand.Rand) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if b.BaseDelay <= 0 {
		b.BaseDelay = 500 * time.Millisecond
	}
	if b.MaxDelay <= 0 {
		b.MaxDelay = 10 * time.Second
	}

	ceiling := b.MaxDelay
	// shifting past 30 overflows long before it matters
	if attempt <= 30 {
		if d := b.BaseDelay << (attempt - 1); d > 0 && d < ceiling {
			ceiling = d
		}
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return time.Duration(rng.Int63n(int64(ceiling) + 1))
}
