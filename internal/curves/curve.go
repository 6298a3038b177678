package curves

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/ocfox/ventora/internal/configuration"
	"github.com/ocfox/ventora/internal/util"
	"golang.org/x/exp/slices"
)

// ErrAutoPolicy is returned when a curve is evaluated for a device that is left to the firmware
var ErrAutoPolicy = errors.New("auto policy has no curve to evaluate")

// Curve is an immutable, temperature sorted set of curve points
type Curve struct {
	points []configuration.CurvePoint
}

// NewCurve sorts a copy of the given points by temperature.
// Points with equal temperature keep their configured order.
func NewCurve(points []configuration.CurvePoint) (*Curve, error) {
	if len(points) <= 0 {
		return nil, configuration.NewConfigError("", configuration.ErrEmptyCurve)
	}
	for _, point := range points {
		if point.Duty < 0 || point.Duty > 100 {
			return nil, configuration.NewConfigError("", fmt.Errorf("point [%d, %d]: %w", point.Temp, point.Duty, configuration.ErrInvalidDutyCycle))
		}
	}

	sorted := slices.Clone(points)
	slices.SortStableFunc(sorted, func(a, b configuration.CurvePoint) int {
		return cmp.Compare(a.Temp, b.Temp)
	})
	return &Curve{points: sorted}, nil
}

// Evaluate maps points and temperature to a duty cycle in percent
func Evaluate(temp int, points []configuration.CurvePoint, policy configuration.CurvePolicy) (int, error) {
	curve, err := NewCurve(points)
	if err != nil {
		return 0, err
	}
	return curve.Evaluate(temp, policy)
}

func (c *Curve) Points() []configuration.CurvePoint {
	return slices.Clone(c.points)
}

// Evaluate returns the duty cycle in percent for the given temperature in °C
func (c *Curve) Evaluate(temp int, policy configuration.CurvePolicy) (int, error) {
	switch policy {
	case configuration.CurvePolicyLadder:
		return c.ladder(temp), nil
	case configuration.CurvePolicyTrapezoidal:
		return c.trapezoidal(temp), nil
	default:
		return 0, ErrAutoPolicy
	}
}

// ladder returns the duty cycle of the last point at or below temp.
// Below the curve the first point applies, the fan is never stopped below the configured floor.
func (c *Curve) ladder(temp int) int {
	result := c.points[0].Duty
	for _, point := range c.points {
		if point.Temp > temp {
			break
		}
		result = point.Duty
	}
	return result
}

// trapezoidal interpolates linearly between the bracketing points and is flat outside of the curve.
// Division rounds down, so a non-decreasing curve yields a non-decreasing duty cycle sequence.
func (c *Curve) trapezoidal(temp int) int {
	first := c.points[0]
	last := c.points[len(c.points)-1]

	if temp <= first.Temp {
		return first.Duty
	}
	if temp >= last.Temp {
		return last.Duty
	}

	for i := 0; i < len(c.points)-1; i++ {
		p0 := c.points[i]
		p1 := c.points[i+1]
		if p0.Temp <= temp && temp < p1.Temp {
			return p0.Duty + util.FloorDiv((temp-p0.Temp)*(p1.Duty-p0.Duty), p1.Temp-p0.Temp)
		}
	}

	return last.Duty
}

// Sample evaluates the curve for every temperature in [from..to], used for plotting
func (c *Curve) Sample(policy configuration.CurvePolicy, from int, to int) ([]float64, error) {
	var values []float64
	for temp := from; temp <= to; temp++ {
		value, err := c.Evaluate(temp, policy)
		if err != nil {
			return nil, err
		}
		values = append(values, float64(value))
	}
	return values, nil
}
