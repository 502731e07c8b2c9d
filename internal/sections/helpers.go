package sections

import (
	"encoding/json"
	"strconv"
	"strings"
)

func asMap(value interface{}) map[string]interface{} {
	if m, ok := value.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

// scalarString renders strings and numbers as text; anything else is "".
func scalarString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

func getString(content map[string]interface{}, key string) string {
	if content == nil {
		return ""
	}
	return scalarString(content[key])
}

func parseBool(value interface{}, fallback bool) bool {
	switch v := value.(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case string:
		switch strings.TrimSpace(strings.ToLower(v)) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		default:
			return fallback
		}
	default:
		return fallback
	}
}

func parseInt(value interface{}, fallback int) int {
	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

// SplitLines turns newline-delimited text into lines, dropping empty ones.
func SplitLines(text string) []string {
	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// getStrings accepts an array of scalars or a legacy newline-joined string.
func getStrings(content map[string]interface{}, key string) []string {
	switch v := content[key].(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := scalarString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return append([]string{}, v...)
	case string:
		return SplitLines(v)
	default:
		return []string{}
	}
}

func getItems(content map[string]interface{}, key string) []map[string]interface{} {
	raw, ok := content[key].([]interface{})
	if !ok {
		return nil
	}
	items := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		items = append(items, asMap(item))
	}
	return items
}

// NormalizeInterval maps an autoplay interval onto the accepted range:
// missing becomes the default and anything shorter becomes the minimum.
func NormalizeInterval(ms int) int {
	switch {
	case ms <= 0:
		return DefaultAutoplayInterval
	case ms < MinAutoplayInterval:
		return MinAutoplayInterval
	default:
		return ms
	}
}
