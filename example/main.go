// Minimal example demonstrating an authenticated client against a public
// API plus a second client showing interceptors, service routing and
// metrics.
package main

import (
	"context"
	"fmt"
	"log"

	akhttp "github.com/AndersonKouadio/ak-api-http"
)

func main() {
	ctx := context.Background()

	// --- Basic client: public endpoint, no auth hooks needed ---
	basic, err := akhttp.New("https://httpbin.org",
		akhttp.WithAuthDisabled(),
		akhttp.WithDebug(),
	)
	if err != nil {
		log.Fatalf("invalid client config: %v", err)
	}
	resp, err := basic.Get(ctx, "/json", &akhttp.RequestOptions{Service: akhttp.ServicePublic})
	if err != nil {
		log.Fatalf("basic GET failed: %v", err)
	}
	fmt.Println("basic GET status", resp.Status)

	// --- Authenticated client: session hooks, interceptors, metrics ---
	advanced, err := akhttp.New("https://api.example.com",
		akhttp.WithSessionProvider(func(ctx context.Context) (*akhttp.Session, error) {
			// Real applications fetch this from their auth layer.
			return &akhttp.Session{AccessToken: "demo-token"}, nil
		}),
		akhttp.WithSignOutHandler(func(ctx context.Context) error {
			fmt.Println("session invalidated")
			return nil
		}),
		akhttp.WithService("billing", akhttp.ServiceEntry{
			Endpoint:    "https://billing.example.com",
			AuthEnabled: true,
		}),
		akhttp.WithRequestInterceptor(func(ctx context.Context, req *akhttp.Request) (*akhttp.Request, error) {
			req.Headers["User-Agent"] = "akhttp-example"
			return req, nil
		}),
		akhttp.WithRequestErrorHandler(func(apiErr *akhttp.APIError) {
			fmt.Printf("request failed: %s (context %s)\n", apiErr.Message, apiErr.Context)
		}),
		akhttp.WithMetrics(),
	)
	if err != nil {
		log.Fatalf("invalid client config: %v", err)
	}

	var invoices []struct {
		ID    string  `json:"id"`
		Total float64 `json:"total"`
	}
	err = advanced.GetJSON(ctx, "/invoices", &invoices, &akhttp.RequestOptions{
		Service: "billing",
		Params:  akhttp.Params{"page": 1, "limit": 20},
	})
	if err != nil {
		fmt.Println("invoices unavailable:", err)
		return
	}
	fmt.Println("fetched", len(invoices), "invoices")
}
