package utils

import (
	"math"
)

// Round2 rounds to two decimal places. Progress and quiz scores are stored
// with this precision.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
