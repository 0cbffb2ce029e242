package akhttp

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildURL composes a path with a filtered query string. The path is used
// verbatim apart from trimming surrounding whitespace; slashes are not
// normalized. Parameters whose value is nil or an empty string are
// dropped; the rest are coerced to strings and encoded in net/url's
// stable key order. An empty filtered set appends nothing.
func BuildURL(path string, params Params) string {
	path = strings.TrimSpace(path)
	if len(params) == 0 {
		return path
	}

	values := url.Values{}
	for key, value := range params {
		if value == nil {
			continue
		}
		s, ok := coerceParam(value)
		if !ok {
			continue
		}
		values.Set(key, s)
	}

	encoded := values.Encode()
	if encoded == "" {
		return path
	}
	return path + "?" + encoded
}

func coerceParam(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case *string:
		if v == nil || *v == "" {
			return "", false
		}
		return *v, true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}
