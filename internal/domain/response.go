package domain

import (
	"fmt"
	"strconv"
)

// Response maps question ids to submitted values. Values arrive as strings,
// numbers, or []any for multi-choice questions. A response is supplied per
// scoring call and never persisted by the core.
type Response map[string]any

// Get returns the raw submitted value and whether the question was answered.
// Nil and empty-string submissions count as unanswered.
func (r Response) Get(id string) (any, bool) {
	v, ok := r[id]
	if !ok || v == nil {
		return nil, false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return nil, false
	}
	return v, true
}

// Values returns the submitted value(s) normalized to strings. Multi-choice
// submissions yield one entry per selected option.
func (r Response) Values(id string) []string {
	v, ok := r.Get(id)
	if !ok {
		return nil
	}
	if list, isList := v.([]any); isList {
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, NormalizeValue(item))
		}
		return out
	}
	return []string{NormalizeValue(v)}
}

// NormalizeValue renders a submitted or declared value as its canonical
// string form, so that 2, 2.0 and "2" all compare equal.
func NormalizeValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
