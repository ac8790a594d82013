// Package record provides soft, default-valued navigation over decoded scorecard trees.
//
// A tree is built from Map, List and scalar leaves (string, bool, int, int64,
// uint64, float64, time.Time). Missing sections are common in real scorecards,
// so every accessor answers with a caller default instead of failing.
package record

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Map is a decoded mapping node.
type Map = map[string]any

// List is a decoded sequence node.
type List = []any

// Get walks successive mappings along keys. It reports false the moment an
// intermediate value is absent or not a mapping, or when the reached value is null.
func Get(root any, keys ...string) (any, bool) {
	cur := root
	for _, k := range keys {
		m, ok := cur.(Map)
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// String returns the value at keys as text, or def.
func String(root any, def string, keys ...string) string {
	v, ok := Get(root, keys...)
	if !ok {
		return def
	}
	if s, ok := AsString(v); ok {
		return s
	}
	return def
}

// Int returns the value at keys as an integer, or def.
func Int(root any, def int, keys ...string) int {
	v, ok := Get(root, keys...)
	if !ok {
		return def
	}
	if n, ok := AsInt(v); ok {
		return n
	}
	return def
}

// Bool returns the value at keys as a boolean, or def.
func Bool(root any, def bool, keys ...string) bool {
	v, ok := Get(root, keys...)
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(b)); err == nil {
			return parsed
		}
	}
	return def
}

// MapAt returns the mapping at keys, or nil.
func MapAt(root any, keys ...string) Map {
	v, ok := Get(root, keys...)
	if !ok {
		return nil
	}
	m, _ := v.(Map)
	return m
}

// ListAt returns the value at keys as a list. A singular value becomes a
// one-element list and a missing value an empty one.
func ListAt(root any, keys ...string) List {
	v, ok := Get(root, keys...)
	if !ok {
		return nil
	}
	return AsList(v)
}

// AsList wraps a singular value into a one-element list.
func AsList(v any) List {
	switch l := v.(type) {
	case nil:
		return nil
	case List:
		return l
	default:
		return List{v}
	}
}

// SoleEntry reads a single-key mapping such as {"1st innings": {...}} or
// {"0.1": {...}}. With several keys the lexicographically smallest one wins.
func SoleEntry(v any) (string, any, bool) {
	m, ok := v.(Map)
	if !ok || len(m) == 0 {
		return "", nil, false
	}
	if len(m) == 1 {
		for k, val := range m {
			return k, val, true
		}
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0], m[keys[0]], true
}

// AsString converts a scalar leaf to text.
func AsString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case uint64:
		return strconv.FormatUint(s, 10), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	case time.Time:
		return s.Format(time.DateOnly), true
	default:
		return "", false
	}
}

// AsInt converts a scalar leaf to an integer. Floats must be integral.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
