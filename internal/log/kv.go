package log

import "sort"

// KV represents a set of key-value pairs to be logged.
type KV map[string]any

// kvToArgs flattens the first KV into the alternating key/value slice
// expected by slog. Keys are sorted so the output is deterministic.
func kvToArgs(keyVals ...KV) []any {
	args := []any{}
	if len(keyVals) == 0 {
		return args
	}

	kv := keyVals[0]
	keys := make([]string, 0, len(kv))
	for key := range kv {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		args = append(args, key, kv[key])
	}
	return args
}

// kvToArgsNs is like kvToArgs but prepends the namespace as the first pair.
func kvToArgsNs(namespace string, keyVals ...KV) []any {
	return append([]any{"ns", namespace}, kvToArgs(keyVals...)...)
}
