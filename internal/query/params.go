package query

import (
	"net/url"
	"strings"
)

// RawParams is the query string as the listing endpoint sees it. Values are
// a string, a []string for repeated keys, or a nested map[string]any for the
// bracket form `field[op]=value`.
type RawParams map[string]any

// ParseRawParams turns url.Values into RawParams. `points[gte]=2` becomes
// {"points": {"gte": "2"}}. A key that appears both plain and bracketed keeps
// the bracketed form.
func ParseRawParams(values url.Values) RawParams {
	raw := RawParams{}
	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}

		field, op, ok := splitBracket(key)
		if !ok {
			if _, exists := raw[key]; exists {
				continue
			}
			raw[key] = collapse(vals)
			continue
		}

		sub, isMap := raw[field].(map[string]any)
		if !isMap {
			sub = map[string]any{}
			raw[field] = sub
		}
		sub[op] = collapse(vals)
	}
	return raw
}

// Get returns the first string value stored under key.
func (p RawParams) Get(key string) (string, bool) {
	switch v := p[key].(type) {
	case string:
		return v, true
	case []string:
		if len(v) > 0 {
			return v[0], true
		}
	}
	return "", false
}

func splitBracket(key string) (field, op string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	op = key[open+1 : len(key)-1]
	if op == "" || strings.ContainsAny(op, "[]") {
		return "", "", false
	}
	return key[:open], op, true
}

func collapse(vals []string) any {
	if len(vals) == 1 {
		return vals[0]
	}
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}
