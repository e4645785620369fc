package dispatch

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Argument values come from decoded JSON (model tool calls or request
// bodies), so numbers may arrive as float64, json.Number or strings.

func stringArg(args map[string]any, key, def string) string {
	switch v := args[key].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return def
}

func upperArg(args map[string]any, key, def string) string {
	return strings.ToUpper(stringArg(args, key, def))
}

func numberArg(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// intArg reads an integer clamped to [lo, hi]; missing or unparsable values
// yield def.
func intArg(args map[string]any, key string, def, lo, hi int) int {
	f, ok := numberArg(args[key])
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	f = math.Min(math.Max(math.Round(f), float64(lo)), float64(hi))
	return int(f)
}

func floatPtrArg(args map[string]any, key string) *float64 {
	f, ok := numberArg(args[key])
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func stringPtrArg(args map[string]any, key string) *string {
	s := stringArg(args, key, "")
	if s == "" {
		return nil
	}
	return &s
}
