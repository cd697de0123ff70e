// ABOUTME: Backoff helper shared by the translation engine and assistant runner
// ABOUTME: Exponential doubling with jitter, capped at 30 seconds
package util

import (
	"math/rand/v2"
	"time"
)

// CalculateBackoff returns the delay before retry number attempt (1-based).
// The base delay doubles per attempt with random jitter of up to 25%.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	// Cap the shift so the multiplication cannot overflow.
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	// Jitter between -25% and +25%.
	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}
