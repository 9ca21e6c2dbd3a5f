package simplify

import (
	"fmt"
	"math"
	"strconv"
)

// floatParam reads a numeric parameter. Missing keys return def.
func floatParam(algorithm string, params map[string]interface{}, key string, def float64) (float64, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def, nil
	}

	var v float64
	switch t := raw.(type) {
	case float64:
		v = t
	case float32:
		v = float64(t)
	case int:
		v = float64(t)
	case int32:
		v = float64(t)
	case int64:
		v = float64(t)
	case uint:
		v = float64(t)
	case uint32:
		v = float64(t)
	case uint64:
		v = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, &InvalidParameterError{Algorithm: algorithm, Param: key, Value: raw, Reason: "not a number"}
		}
		v = parsed
	default:
		return 0, &InvalidParameterError{Algorithm: algorithm, Param: key, Value: raw, Reason: fmt.Sprintf("unsupported type %T", raw)}
	}

	if math.IsNaN(v) {
		return 0, &InvalidParameterError{Algorithm: algorithm, Param: key, Value: raw, Reason: "NaN"}
	}
	return v, nil
}

// intParam reads an integral parameter. Fractional values are rejected.
func intParam(algorithm string, params map[string]interface{}, key string, def int) (int, error) {
	v, err := floatParam(algorithm, params, key, float64(def))
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, &InvalidParameterError{Algorithm: algorithm, Param: key, Value: params[key], Reason: "must be an integer"}
	}
	return int(v), nil
}

// stringParam reads a string parameter. Missing keys return def.
func stringParam(algorithm string, params map[string]interface{}, key string, def string) (string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", &InvalidParameterError{Algorithm: algorithm, Param: key, Value: raw, Reason: fmt.Sprintf("unsupported type %T", raw)}
	}
	return s, nil
}

func nonNegative(algorithm, key string, v float64) error {
	if v < 0 {
		return &InvalidParameterError{Algorithm: algorithm, Param: key, Value: v, Reason: "must be >= 0"}
	}
	return nil
}

func positive(algorithm, key string, v float64) error {
	if !(v > 0) {
		return &InvalidParameterError{Algorithm: algorithm, Param: key, Value: v, Reason: "must be > 0"}
	}
	return nil
}
