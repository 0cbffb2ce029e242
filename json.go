package akhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// JSON decodes the response body into dst. A body-less response (204 and
// friends) leaves dst untouched.
func (r *Response) JSON(dst any) error {
	if r == nil || len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, dst)
}

// String returns the response body as a string.
func (r *Response) String() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// GetJSON performs a GET and decodes the response body into dst.
func (c *Client) GetJSON(ctx context.Context, endpoint string, dst any, opts *RequestOptions) error {
	resp, err := c.Get(ctx, endpoint, opts)
	if err != nil {
		return err
	}
	return resp.JSON(dst)
}

// PostJSON performs a POST with a JSON body and decodes the response body
// into dst.
func (c *Client) PostJSON(ctx context.Context, endpoint string, body, dst any, opts *RequestOptions) error {
	resp, err := c.Post(ctx, endpoint, body, opts)
	if err != nil {
		return err
	}
	return resp.JSON(dst)
}

// DoJSON performs a request and decodes the response into T.
func DoJSON[T any](ctx context.Context, c *Client, method, endpoint string, body any, opts *RequestOptions) (T, error) {
	var out T
	resp, err := c.Request(ctx, method, endpoint, body, opts)
	if err != nil {
		return out, err
	}
	if err := resp.JSON(&out); err != nil {
		var zero T
		return zero, fmt.Errorf("akhttp: decode %s %s response: %w", method, endpoint, err)
	}
	return out, nil
}

// Get is a package-level generic convenience on top of DoJSON.
func Get[T any](ctx context.Context, c *Client, endpoint string, opts *RequestOptions) (T, error) {
	return DoJSON[T](ctx, c, http.MethodGet, endpoint, nil, opts)
}
