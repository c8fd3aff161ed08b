package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStringParam(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]interface{}
		required bool
		want     string
		wantErr  string
	}{
		{"present", map[string]interface{}{"p": "x"}, true, "x", ""},
		{"absent optional", map[string]interface{}{}, false, "", ""},
		{"nil optional", map[string]interface{}{"p": nil}, false, "", ""},
		{"absent required", map[string]interface{}{}, true, "", "missing required parameter: p"},
		{"blank required", map[string]interface{}{"p": " \t"}, true, "", "missing required parameter: p"},
		{"blank optional kept", map[string]interface{}{"p": " "}, false, " ", ""},
		{"wrong type", map[string]interface{}{"p": 3.0}, false, "", "parameter p must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := getStringParam(tt.args, "p", tt.required)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, err.Error())
				var paramErr *ParamError
				require.True(t, errors.As(err, &paramErr))
				assert.Equal(t, "p", paramErr.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetIntParam(t *testing.T) {
	tests := []struct {
		name    string
		value   interface{}
		want    int
		wantErr bool
	}{
		{"float64 from JSON", float64(42), 42, false},
		{"int", 7, 7, false},
		{"int64", int64(9), 9, false},
		{"fractional", 1.25, 0, true},
		{"string", "42", 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := getIntParam(map[string]interface{}{"n": tt.value}, "n", true)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "parameter n must be an integer", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := getIntParam(map[string]interface{}{}, "n", true)
	assert.EqualError(t, err, "missing required parameter: n")

	got, err := getIntParam(map[string]interface{}{}, "n", false)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestGetPageParams(t *testing.T) {
	top, skip, err := getPageParams(map[string]interface{}{}, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, top)
	assert.Equal(t, 0, skip)

	top, skip, err = getPageParams(map[string]interface{}{"top": float64(3), "skip": float64(6)}, 25)
	require.NoError(t, err)
	assert.Equal(t, 3, top)
	assert.Equal(t, 6, skip)

	top, _, err = getPageParams(map[string]interface{}{"top": float64(0)}, 25)
	require.NoError(t, err)
	assert.Equal(t, 0, top)

	top, skip, err = getPageParams(map[string]interface{}{"top": nil, "skip": nil}, 25)
	require.NoError(t, err)
	assert.Equal(t, 25, top)
	assert.Equal(t, 0, skip)

	_, _, err = getPageParams(map[string]interface{}{"top": float64(-1)}, 25)
	assert.EqualError(t, err, "parameter top must be at least 0")

	_, _, err = getPageParams(map[string]interface{}{"skip": float64(-2)}, 25)
	assert.EqualError(t, err, "parameter skip must be at least 0")
}

func TestGetRequiredID(t *testing.T) {
	id, err := getRequiredID(map[string]interface{}{"id": float64(12)}, "id")
	require.NoError(t, err)
	assert.Equal(t, 12, id)

	_, err = getRequiredID(map[string]interface{}{"id": float64(-1)}, "id")
	assert.EqualError(t, err, "parameter id must be at least 1")
}

func TestGetBoolParam(t *testing.T) {
	got, err := getBoolParam(map[string]interface{}{}, "draft", true)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = getBoolParam(map[string]interface{}{"draft": false}, "draft", true)
	require.NoError(t, err)
	assert.False(t, got)

	_, err = getBoolParam(map[string]interface{}{"draft": "false"}, "draft", true)
	assert.EqualError(t, err, "parameter draft must be a boolean")
}

func TestGetEnumParam(t *testing.T) {
	allowed := []string{"active", "all"}

	got, err := getEnumParam(map[string]interface{}{}, "status", "active", allowed)
	require.NoError(t, err)
	assert.Equal(t, "active", got)

	got, err = getEnumParam(map[string]interface{}{"status": "all"}, "status", "active", allowed)
	require.NoError(t, err)
	assert.Equal(t, "all", got)

	// Tokens are case-sensitive
	_, err = getEnumParam(map[string]interface{}{"status": "Active"}, "status", "active", allowed)
	assert.EqualError(t, err, `parameter status must be one of: active, all (got "Active")`)
}

func TestGetIntSliceParam(t *testing.T) {
	got, err := getIntSliceParam(map[string]interface{}{"ids": []interface{}{float64(3), 1}}, "ids")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, got)

	input := []int{4, 5}
	got, err = getIntSliceParam(map[string]interface{}{"ids": input}, "ids")
	require.NoError(t, err)
	got[0] = 99
	assert.Equal(t, 4, input[0], "the input slice is copied")

	_, err = getIntSliceParam(map[string]interface{}{"ids": []int{}}, "ids")
	assert.EqualError(t, err, "parameter ids must not be empty")

	_, err = getIntSliceParam(map[string]interface{}{"ids": []interface{}{1.5}}, "ids")
	assert.EqualError(t, err, "parameter ids[0] must be an integer")
}
