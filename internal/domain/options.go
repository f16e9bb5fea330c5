package domain

import (
	"sort"
	"strings"
)

// CanonicalOptions serializes an options mapping into a stable,
// order-independent form ("Color=Black|Size=M"). It backs cart line keys and
// option-set equality, so selecting options in a different UI order still
// lands on the same cart line.
func CanonicalOptions(opts map[string]string) string {
	if len(opts) == 0 {
		return ""
	}
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(opts[k])
	}
	return b.String()
}

// OptionsEqual reports whether two options mappings carry exactly the same
// category/value pairs.
func OptionsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
