package configuration

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// curvePolicyHookFunc decodes "auto" | "ladder" | "trapezoidal".
// Unknown strings fall back to CurvePolicyAuto instead of failing the config.
func curvePolicyHookFunc() mapstructure.DecodeHookFuncType {
	policyType := reflect.TypeOf(CurvePolicy(0))
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != policyType {
			return data, nil
		}
		if value, ok := data.(string); ok {
			return ParseCurvePolicy(value), nil
		}
		return data, nil
	}
}

// tempModeHookFunc decodes "avg" | "junction" | "edge", falling back to TempModeAverage
func tempModeHookFunc() mapstructure.DecodeHookFuncType {
	modeType := reflect.TypeOf(TempMode(0))
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != modeType {
			return data, nil
		}
		if value, ok := data.(string); ok {
			return ParseTempMode(value), nil
		}
		return data, nil
	}
}

// curvePointHookFunc decodes the compact [temp, duty] array notation
func curvePointHookFunc() mapstructure.DecodeHookFuncType {
	pointType := reflect.TypeOf(CurvePoint{})
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != pointType {
			return data, nil
		}
		if f.Kind() != reflect.Slice && f.Kind() != reflect.Array {
			return data, nil
		}

		value := reflect.ValueOf(data)
		if value.Len() != 2 {
			return nil, fmt.Errorf("invalid point %v: expected [temp, duty]", data)
		}
		temp, err := anyToInt(value.Index(0).Interface())
		if err != nil {
			return nil, fmt.Errorf("invalid temp in point %v: %w", data, err)
		}
		duty, err := anyToInt(value.Index(1).Interface())
		if err != nil {
			return nil, fmt.Errorf("invalid duty in point %v: %w", data, err)
		}
		return CurvePoint{Temp: temp, Duty: duty}, nil
	}
}

// anyToInt converts numeric and string values to int.
func anyToInt(v interface{}) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val != float64(int(val)) {
			return 0, fmt.Errorf("%v is not a whole number", val)
		}
		return int(val), nil
	case string:
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as int: %w", val, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int", v)
	}
}
