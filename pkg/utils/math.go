package utils

import "math"

// RoundDecimal rounds value half-up to the given number of decimal
// places, e.g. RoundDecimal(3.14159, 2) == 3.14.
func RoundDecimal(value float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Floor(value*pow+0.5) / pow
}
