package cache

import (
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached API response.
type Key struct {
	// Endpoint is the API path below the version prefix (e.g. "/addons/search/")
	Endpoint string

	// QueryParams include lang and app, so localized responses never collide
	QueryParams url.Values
}

// String generates a deterministic key.
// Format: amo:endpoint:param1=val1,val2:param2=val1
//
// Example:
//
//	amo:addons/search:app=firefox:lang=en-US:q=tabs
func (k Key) String() string {
	var b strings.Builder
	b.WriteString("amo")

	if endpoint := strings.Trim(k.Endpoint, "/"); endpoint != "" {
		b.WriteByte(':')
		b.WriteString(endpoint)
	}

	names := make([]string, 0, len(k.QueryParams))
	for name := range k.QueryParams {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		values := append([]string(nil), k.QueryParams[name]...)
		sort.Strings(values)
		b.WriteByte(':')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(strings.Join(values, ","))
	}

	return b.String()
}
