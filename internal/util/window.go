package util

import "github.com/asecurityteam/rolling"

func CreateRollingWindow(size int) *rolling.PointPolicy {
	return rolling.NewPointPolicy(rolling.NewWindow(size))
}

// SumWindow returns the sum of all values currently held by the window
func SumWindow(window *rolling.PointPolicy) float64 {
	return window.Reduce(rolling.Sum)
}
