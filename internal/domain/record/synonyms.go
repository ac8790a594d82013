package record

import "strings"

// Path is a key sequence into a tree, written dotted: "runs.batter".
type Path []string

// P splits a dotted path.
func P(dotted string) Path {
	return strings.Split(dotted, ".")
}

// Synonyms lists alternate spellings of one field in priority order.
type Synonyms []Path

// S builds a synonym table from dotted paths.
func S(dotted ...string) Synonyms {
	out := make(Synonyms, len(dotted))
	for i, d := range dotted {
		out[i] = P(d)
	}
	return out
}

// First returns the first synonym present with a non-empty value. A zero value
// (0, "", false, an empty list or mapping) yields to later spellings; when
// every present value is empty, the last of them is returned.
func First(root any, syn Synonyms) (any, bool) {
	var (
		last  any
		found bool
	)
	for _, p := range syn {
		v, ok := Get(root, p...)
		if !ok {
			continue
		}
		if !empty(v) {
			return v, true
		}
		last, found = v, true
	}
	return last, found
}

// FirstString returns the first synonym holding non-blank text, or def.
func FirstString(root any, def string, syn Synonyms) string {
	for _, p := range syn {
		v, ok := Get(root, p...)
		if !ok {
			continue
		}
		if s, ok := AsString(v); ok && s != "" {
			return s
		}
	}
	return def
}

// FirstInt returns the first synonym holding a non-zero integer. A zero is
// returned only when no later spelling has a value; otherwise def.
func FirstInt(root any, def int, syn Synonyms) int {
	zero := false
	for _, p := range syn {
		v, ok := Get(root, p...)
		if !ok {
			continue
		}
		if n, ok := AsInt(v); ok {
			if n != 0 {
				return n
			}
			zero = true
		}
	}
	if zero {
		return 0
	}
	return def
}

func empty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case Map:
		return len(x) == 0
	case List:
		return len(x) == 0
	}
	if n, ok := AsInt(v); ok {
		return n == 0
	}
	return false
}
