// Package display renders tool-call observability output for the
// process output stream.
package display

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// FormatArgs renders a tool argument mapping as a human-readable
// single-line string: `(k1: v1, k2: v2)`. String values are quoted,
// maps and slices are rendered as compact JSON, other scalars use
// their natural textual form. Keys are sorted so output is
// deterministic.
func FormatArgs(args map[string]any) string {
	if len(args) == 0 {
		return "(no arguments)"
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteByte('(')
	for i, k := range keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(formatValue(args[k]))
	}
	sb.WriteByte(')')
	return sb.String()
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(val)
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if b, err := json.Marshal(v); err == nil {
			return string(b)
		}
	}
	return fmt.Sprintf("%v", v)
}
