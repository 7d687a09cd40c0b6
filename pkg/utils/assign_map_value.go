package utils

import "strings"

// AssignMapValue writes value at a dotted path, creating nested maps as needed.
// A non-map value sitting on the path is replaced.
func AssignMapValue(targetRaw map[string]any, path string, value any) map[string]any {
	if path == "" {
		return targetRaw
	}

	first, rest, nested := strings.Cut(path, SplitToken)
	if !nested {
		targetRaw[first] = value
		return targetRaw
	}

	existingValue, ok := targetRaw[first].(map[string]any)
	if !ok {
		existingValue = make(map[string]any)
	}

	targetRaw[first] = AssignMapValue(existingValue, rest, value)

	return targetRaw
}
