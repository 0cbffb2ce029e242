// Package akhttp is an authenticated HTTP request orchestration layer
// sitting between application code and a transport:
//
//   - Multi-service routing: named backends with per-service auth flags,
//     seeded with "public" and "private" defaults
//   - Bearer token acquisition with a per-client token cache fed by a
//     pluggable session provider
//   - Bounded fixed-delay retries on 5xx responses (exponential backoff
//     available via internal strategies)
//   - 401 responses trigger the sign-out collaborator exactly once and
//     surface as AuthenticationError, never retried
//   - Request/response interceptors as swappable function values
//   - Every terminal failure normalized into a typed error taxonomy
//   - Prometheus metrics and lightweight structured debug logging
//
// Typical usage:
//
//	client, err := akhttp.New("https://api.example.com",
//	    akhttp.WithSessionProvider(sessions.Current),
//	    akhttp.WithSignOutHandler(sessions.SignOut),
//	    akhttp.WithMaxRetries(3),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := client.Get(ctx, "/users/42", nil)
//
// The library avoids opinionated logging: provide a Logger (SimpleLogger,
// or ZeroLogger for structured output) and enable debug flags selectively
// via WithDebug / WithDebugConfig for insight without noise.
package akhttp
