package backoff

import (
	"math/rand"
	"time"
)

// Strategy computes the delay before a retry attempt. Attempt numbering
// starts at 0 for the delay preceding the first re-dispatch.
type Strategy interface {
	Delay(attempt int, baseDelay, maxDelay time.Duration) time.Duration
}

// ConstantStrategy waits the same baseDelay before every retry. This is
// the client's default: transient 5xx failures are re-dispatched after a
// fixed pause, bounded only by the retry budget.
type ConstantStrategy struct{}

// Delay implements the Strategy interface with a fixed delay.
func (ConstantStrategy) Delay(_ int, baseDelay, maxDelay time.Duration) time.Duration {
	if maxDelay > 0 && baseDelay > maxDelay {
		return maxDelay
	}
	return baseDelay
}

// ExponentialJitterStrategy doubles the delay on every attempt and adds
// uniform jitter, capped at maxDelay. Opt in for backends that punish
// synchronized retry storms.
type ExponentialJitterStrategy struct {
	// Multiplier defaults to 2 when zero or negative.
	Multiplier float64
	// Jitter is the uniform jitter fraction, clamped to [0, 1].
	Jitter float64
}

// Delay implements the Strategy interface for exponential backoff with jitter.
func (s ExponentialJitterStrategy) Delay(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// Prevent overflow by limiting attempt
	if attempt > 30 {
		attempt = 30
	}

	multiplier := s.Multiplier
	if multiplier <= 0 {
		multiplier = 2.0
	}

	delay := time.Duration(float64(baseDelay) * pow(multiplier, attempt))
	if maxDelay > 0 && (delay < 0 || delay > maxDelay) {
		delay = maxDelay
	}

	jitter := clampJitter(s.Jitter)
	if jitter > 0 {
		jitterAmount := time.Duration(float64(delay) * jitter * rand.Float64())
		if maxDelay > 0 && delay+jitterAmount > maxDelay {
			delay = maxDelay
		} else {
			delay += jitterAmount
		}
	}
	return delay
}

// clampJitter ensures jitter is within valid bounds [0, 1].
func clampJitter(jitter float64) float64 {
	if jitter < 0 {
		return 0
	}
	if jitter > 1 {
		return 1
	}
	return jitter
}

// pow calculates base^exponent using integer exponentiation.
func pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}
