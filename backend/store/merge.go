package store

import "strings"

func splitPath(path string) []string {
	return strings.Split(path, ".")
}

// applyFields merges the given fields into doc. Dotted keys descend into
// nested objects, creating them as needed. When both sides of a plain key are
// objects they merge recursively; any other collision overwrites.
func applyFields(doc Document, fields Document) {
	for key, value := range fields {
		parts := splitPath(key)
		target := doc
		for _, part := range parts[:len(parts)-1] {
			next, ok := target[part].(map[string]any)
			if !ok {
				next = map[string]any{}
				target[part] = next
			}
			target = next
		}
		leaf := parts[len(parts)-1]
		existing, haveOld := target[leaf].(map[string]any)
		incoming, haveNew := normalize(value).(map[string]any)
		if haveOld && haveNew {
			applyFields(existing, incoming)
			continue
		}
		target[leaf] = normalize(value)
	}
}

// normalize converts Document values to plain maps so merge and JSON
// round-trips see one shape.
func normalize(v any) any {
	if d, ok := v.(Document); ok {
		return map[string]any(d)
	}
	return v
}
