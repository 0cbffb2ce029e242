package akhttp

import (
	"sort"
	"strings"
)

// serviceRegistry maps service names to entries. The name table is
// authoritative; the endpoint lookup used during auth injection is derived
// from it, never maintained separately.
type serviceRegistry struct {
	entries map[string]ServiceEntry
}

// newServiceRegistry seeds the public/private defaults from baseEndpoint
// and layers caller entries on top. A caller entry replaces a default
// wholesale: supplying `private` with only Endpoint set also resets its
// AuthEnabled to the zero value.
func newServiceRegistry(baseEndpoint string, services map[string]ServiceEntry) *serviceRegistry {
	entries := map[string]ServiceEntry{
		ServicePublic:  {Endpoint: baseEndpoint, AuthEnabled: false},
		ServicePrivate: {Endpoint: baseEndpoint, AuthEnabled: true},
	}
	for name, entry := range services {
		entries[name] = entry
	}
	return &serviceRegistry{entries: entries}
}

// Resolve looks up a service by exact name. There is no fallback and no
// fuzzy matching; unknown names fail immediately.
func (r *serviceRegistry) Resolve(name string) (ServiceEntry, error) {
	entry, ok := r.entries[name]
	if !ok {
		return ServiceEntry{}, &ServiceNotFoundError{Service: name}
	}
	return entry, nil
}

// EntryForEndpoint returns the entry whose endpoint prefixes url. At
// header-injection time the only certain signal is the resolved URL, not
// the service name the caller used. Longest prefix wins so nested
// endpoints resolve to the most specific service; equal-length ties go to
// the first name in sorted order, which keeps resolution deterministic
// when several services share one endpoint.
func (r *serviceRegistry) EntryForEndpoint(url string) (ServiceEntry, bool) {
	var best ServiceEntry
	bestLen := -1
	for _, name := range r.Names() {
		entry := r.entries[name]
		if entry.Endpoint == "" {
			continue
		}
		if strings.HasPrefix(url, entry.Endpoint) && len(entry.Endpoint) > bestLen {
			best = entry
			bestLen = len(entry.Endpoint)
		}
	}
	return best, bestLen >= 0
}

// Names returns the registered service names, sorted for stable output.
func (r *serviceRegistry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// snapshot returns a copy of the name table safe to hand to callers.
func (r *serviceRegistry) snapshot() map[string]ServiceEntry {
	out := make(map[string]ServiceEntry, len(r.entries))
	for name, entry := range r.entries {
		out[name] = entry
	}
	return out
}
