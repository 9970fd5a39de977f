package scenario

import (
	"strconv"
	"strings"
)

func (r *Runner) failf(format string, args ...any) error {
	return r.assertions.Failf(format, args...)
}

func (r *Runner) assertf(format string, args ...any) error {
	return r.assertions.Assertf(format, args...)
}

func (r *Runner) ensureDuel(state *scenarioState) error {
	if state.duelID == "" {
		return r.failf("duel is required")
	}
	return nil
}

func optionalString(args map[string]any, key, fallback string) string {
	value, ok := args[key]
	if !ok {
		return fallback
	}
	text, ok := value.(string)
	if ok && strings.TrimSpace(text) != "" {
		return strings.TrimSpace(text)
	}
	return fallback
}

func readInt(args map[string]any, key string) (int, bool) {
	value, ok := args[key]
	if !ok {
		return 0, false
	}
	switch typed := value.(type) {
	case int:
		return typed, true
	case float64:
		return int(typed), true
	default:
		return 0, false
	}
}

func optionalInt(args map[string]any, key string, fallback int) int {
	if value, ok := readInt(args, key); ok {
		return value
	}
	return fallback
}

func readBool(args map[string]any, key string) (bool, bool) {
	value, ok := args[key]
	if !ok {
		return false, false
	}
	typed, ok := value.(bool)
	return typed, ok
}

// readSeed accepts a Lua number or a decimal string. Strings keep seeds
// above 2^53 exact.
func readSeed(args map[string]any, key string) (*uint64, bool) {
	value, ok := args[key]
	if !ok {
		return nil, true
	}
	switch typed := value.(type) {
	case int:
		if typed < 0 {
			return nil, false
		}
		seed := uint64(typed)
		return &seed, true
	case string:
		seed, err := strconv.ParseUint(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return nil, false
		}
		return &seed, true
	default:
		return nil, false
	}
}

func readStringSlice(args map[string]any, key string) []string {
	value, ok := args[key]
	if !ok {
		return nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	results := make([]string, 0, len(list))
	for _, entry := range list {
		text, ok := entry.(string)
		if !ok {
			continue
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func readTable(args map[string]any, key string) map[string]any {
	if table, ok := args[key].(map[string]any); ok {
		return table
	}
	return map[string]any{}
}
