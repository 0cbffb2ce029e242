package akhttp

import "github.com/google/uuid"

// DebugConfig selects which pipeline events are logged when debug mode is
// on. Flags are independent so noisy concerns can be silenced one by one.
type DebugConfig struct {
	Enabled     bool
	LogRequests bool
	LogRetries  bool
	LogAuth     bool
	LogErrors   bool

	// RequestIDGen produces the correlation id attached to every logged
	// event of one request.
	RequestIDGen func() string
}

// DefaultDebugConfig enables every event class with UUID request ids.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:      false,
		LogRequests:  true,
		LogRetries:   true,
		LogAuth:      true,
		LogErrors:    true,
		RequestIDGen: DefaultRequestIDGen,
	}
}

// DefaultRequestIDGen returns a random UUID string.
func DefaultRequestIDGen() string {
	return uuid.NewString()
}
