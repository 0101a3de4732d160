package settings

import (
	"sort"
	"strings"
)

// RawSettings is one snapshot of link settings: setting key to raw,
// still-encoded value. A key that is absent differs from a key that is
// present with an empty value.
type RawSettings struct {
	values map[string]string
}

// NewRawSettings copies values into a snapshot.
func NewRawSettings(values map[string]string) RawSettings {
	raw := RawSettings{values: make(map[string]string, len(values))}
	for key, value := range values {
		raw.values[key] = value
	}
	return raw
}

// ParseFragment reads the settings portion of a shareable link. The input
// may be a whole URL, a "#..." fragment or the bare fragment body. Pairs
// are separated by "&"; each pair splits on its first "=" so values may
// themselves contain "=" (priority weights do). A pair without "=" is a
// present key with an empty value. Values are kept encoded; fields that
// need percent-decoding do it themselves. Later duplicates win.
func ParseFragment(link string) RawSettings {
	body := link
	if _, fragment, found := strings.Cut(link, "#"); found {
		body = fragment
	}
	raw := RawSettings{values: map[string]string{}}
	if body == "" {
		return raw
	}
	for _, pair := range strings.Split(body, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if key == "" {
			continue
		}
		raw.values[key] = value
	}
	return raw
}

// Has reports whether key is present, even with an empty value.
func (r RawSettings) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Get returns the raw value for key and whether it was present.
func (r RawSettings) Get(key string) (string, bool) {
	value, ok := r.values[key]
	return value, ok
}

// value returns the raw value and whether it is present and non-empty.
func (r RawSettings) value(key string) (string, bool) {
	value, ok := r.values[key]
	return value, ok && value != ""
}

// Keys returns the present keys in sorted order.
func (r RawSettings) Keys() []string {
	keys := make([]string, 0, len(r.values))
	for key := range r.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of present keys.
func (r RawSettings) Len() int {
	return len(r.values)
}

// Encode renders the snapshot as a fragment body with keys in sorted
// order. Keys with an empty value are written without "=", so
// ParseFragment(r.Encode()) yields an equal snapshot.
func (r RawSettings) Encode() string {
	var b strings.Builder
	for i, key := range r.Keys() {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		if value := r.values[key]; value != "" {
			b.WriteByte('=')
			b.WriteString(value)
		}
	}
	return b.String()
}
