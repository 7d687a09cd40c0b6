package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	SplitToken     = "."
	IndexCloseChar = "]"
	IndexOpenChar  = "["
)

var (
	ErrFieldNotFound     = errors.New("field not found")
	ErrMalformedIndex    = errors.New("malformed index key")
	ErrInvalidIndexUsage = errors.New("invalid index key usage")
	ErrIndexOutOfBounds  = errors.New("index out of bounds")
)

// SplitPath splits a dot path into its first segment and the remaining path.
// The remainder is empty when the path has a single segment.
func SplitPath(path string) (string, string) {
	first, rest, _ := strings.Cut(path, SplitToken)
	return first, rest
}

// GetFieldByPath performs a lookup into a value using keys separated by `.`.
// Segments may carry a slice index, e.g. `posts[1].id`.
//
// An empty path returns the value itself. A key that is absent returns an error
// wrapping ErrFieldNotFound, while a key that is present with a nil value resolves
// to nil without error.
func GetFieldByPath(value any, path string) (any, error) {
	if path == "" {
		return value, nil
	}

	current := value
	for _, part := range strings.Split(path, SplitToken) {
		next, err := getValueByName(current, part)
		if err != nil {
			return nil, err
		}
		current = next
	}

	return current, nil
}

func getValueByName(v any, part string) (any, error) {
	key, index, err := parseIndex(part)
	if err != nil {
		return nil, err
	}

	var value any
	var ok bool
	switch m := v.(type) {
	case map[string]any:
		value, ok = m[key]
	case map[string]string:
		value, ok = m[key]
	}

	if !ok {
		return nil, fmt.Errorf("%w: unable to find the key '%s'", ErrFieldNotFound, key)
	}

	if index == -1 {
		return value, nil
	}

	switch s := value.(type) {
	case []any:
		if index >= len(s) {
			return nil, ErrIndexOutOfBounds
		}
		return s[index], nil
	case []map[string]any:
		if index >= len(s) {
			return nil, ErrIndexOutOfBounds
		}
		return s[index], nil
	default:
		return nil, ErrInvalidIndexUsage
	}
}

func parseIndex(s string) (string, int, error) {
	start := strings.Index(s, IndexOpenChar)
	end := strings.Index(s, IndexCloseChar)

	if start == -1 && end == -1 {
		return s, -1, nil
	}

	if start == -1 || end == -1 || end < start {
		return "", -1, ErrMalformedIndex
	}

	index, err := strconv.Atoi(s[start+1 : end])
	if err != nil || index < 0 {
		return "", -1, ErrMalformedIndex
	}

	return s[:start], index, nil
}
