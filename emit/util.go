package emit

import "math"

func isNaN(v float64) bool     { return math.IsNaN(v) }
func isInf(v float64, s int) bool { return math.IsInf(v, s) }
