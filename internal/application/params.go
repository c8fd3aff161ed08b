package application

import (
	"fmt"
	"math"
	"strings"
)

// ParamError reports an invalid tool argument. The message always names
// the field and the violated constraint.
type ParamError struct {
	Field   string
	Message string
}

func (e *ParamError) Error() string {
	return e.Message
}

func missingParam(name string) error {
	return &ParamError{Field: name, Message: fmt.Sprintf("missing required parameter: %s", name)}
}

// getStringParam extracts a string parameter from the arguments map.
// Returns an error if the parameter is required but missing, empty or not a string.
func getStringParam(args map[string]interface{}, name string, required bool) (string, error) {
	value, exists := args[name]
	if !exists || value == nil {
		if required {
			return "", missingParam(name)
		}
		return "", nil
	}

	strValue, ok := value.(string)
	if !ok {
		return "", &ParamError{Field: name, Message: fmt.Sprintf("parameter %s must be a string", name)}
	}

	if required && strings.TrimSpace(strValue) == "" {
		return "", missingParam(name)
	}

	return strValue, nil
}

// getIntParam extracts an integer parameter from the arguments map.
// Returns an error if the parameter is required but missing or not a number.
// Also returns an error if the parameter exists but is not a valid number type.
func getIntParam(args map[string]interface{}, name string, required bool) (int, error) {
	value, exists := args[name]
	if !exists || value == nil {
		if required {
			return 0, missingParam(name)
		}
		return 0, nil
	}

	// Handle both float64 (from JSON) and int
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, &ParamError{Field: name, Message: fmt.Sprintf("parameter %s must be an integer", name)}
		}
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	default:
		// If the parameter exists but is not a valid type, return an error
		// even if it's not required
		return 0, &ParamError{Field: name, Message: fmt.Sprintf("parameter %s must be an integer", name)}
	}
}

// getIntParamDefault extracts an optional integer, applying def when absent
// or null and rejecting values below min.
func getIntParamDefault(args map[string]interface{}, name string, def, min int) (int, error) {
	if value, exists := args[name]; !exists || value == nil {
		return def, nil
	}
	value, err := getIntParam(args, name, false)
	if err != nil {
		return 0, err
	}
	if value < min {
		return 0, &ParamError{Field: name, Message: fmt.Sprintf("parameter %s must be at least %d", name, min)}
	}
	return value, nil
}

// getRequiredID extracts a required positive integer identifier.
func getRequiredID(args map[string]interface{}, name string) (int, error) {
	value, err := getIntParam(args, name, true)
	if err != nil {
		return 0, err
	}
	if value < 1 {
		return 0, &ParamError{Field: name, Message: fmt.Sprintf("parameter %s must be at least 1", name)}
	}
	return value, nil
}

// getPageParams extracts top and skip with their defaults. Both must be at
// least 0; top 0 asks for an empty page.
func getPageParams(args map[string]interface{}, defaultTop int) (top, skip int, err error) {
	top, err = getIntParamDefault(args, "top", defaultTop, 0)
	if err != nil {
		return 0, 0, err
	}
	skip, err = getIntParamDefault(args, "skip", 0, 0)
	if err != nil {
		return 0, 0, err
	}
	return top, skip, nil
}

// getBoolParam extracts an optional boolean, applying def when absent.
func getBoolParam(args map[string]interface{}, name string, def bool) (bool, error) {
	value, exists := args[name]
	if !exists || value == nil {
		return def, nil
	}
	b, ok := value.(bool)
	if !ok {
		return false, &ParamError{Field: name, Message: fmt.Sprintf("parameter %s must be a boolean", name)}
	}
	return b, nil
}

// getEnumParam extracts an optional string restricted to allowed.
func getEnumParam(args map[string]interface{}, name, def string, allowed []string) (string, error) {
	value, err := getStringParam(args, name, false)
	if err != nil {
		return "", err
	}
	if value == "" {
		return def, nil
	}
	for _, candidate := range allowed {
		if value == candidate {
			return value, nil
		}
	}
	return "", &ParamError{
		Field:   name,
		Message: fmt.Sprintf("parameter %s must be one of: %s (got %q)", name, strings.Join(allowed, ", "), value),
	}
}

// getIntSliceParam extracts a required, non-empty array of integers.
func getIntSliceParam(args map[string]interface{}, name string) ([]int, error) {
	value, exists := args[name]
	if !exists || value == nil {
		return nil, missingParam(name)
	}

	var raw []interface{}
	switch v := value.(type) {
	case []interface{}:
		raw = v
	case []int:
		if len(v) == 0 {
			return nil, &ParamError{Field: name, Message: fmt.Sprintf("parameter %s must not be empty", name)}
		}
		return append([]int(nil), v...), nil
	default:
		return nil, &ParamError{Field: name, Message: fmt.Sprintf("parameter %s must be an array of integers", name)}
	}

	if len(raw) == 0 {
		return nil, &ParamError{Field: name, Message: fmt.Sprintf("parameter %s must not be empty", name)}
	}

	ids := make([]int, 0, len(raw))
	for i, item := range raw {
		id, err := getIntParam(map[string]interface{}{name: item}, name, true)
		if err != nil {
			return nil, &ParamError{Field: name, Message: fmt.Sprintf("parameter %s[%d] must be an integer", name, i)}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
