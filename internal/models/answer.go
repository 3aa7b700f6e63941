package models

import (
	"strconv"
	"strings"
)

// ListSeparator joins multi-select answers into a single cell. The join is
// lossy when an option itself contains the separator.
const ListSeparator = ", "

// AnswerSet maps question ids to raw decoded JSON values: string, []any
// (or []string) and float64.
type AnswerSet map[string]any

type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueString
	ValueList
	ValueNumber
)

// Value is a parsed answer.
type Value struct {
	Kind ValueKind
	Str  string
	List []string
	Num  float64
}

func StringValue(s string) Value    { return Value{Kind: ValueString, Str: s} }
func ListValue(items []string) Value { return Value{Kind: ValueList, List: items} }
func NumberValue(n float64) Value    { return Value{Kind: ValueNumber, Num: n} }

// IsEmpty reports absent values, blank strings and empty lists.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case ValueString:
		return strings.TrimSpace(v.Str) == ""
	case ValueList:
		return len(v.List) == 0
	case ValueNumber:
		return false
	default:
		return true
	}
}

// String flattens the value into its cell representation.
func (v Value) String() string {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueList:
		return strings.Join(v.List, ListSeparator)
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// Raw returns the loosely-typed form of an answer so it can be compared with
// a condition's expected value without knowing the question type.
func (a AnswerSet) Raw(id string) string {
	raw, ok := a[id]
	if !ok || raw == nil {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case []string:
		return strings.Join(v, ListSeparator)
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ListSeparator)
	default:
		return ""
	}
}

// Clone returns a shallow copy of the answer set.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
