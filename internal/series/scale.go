package series

// GameSecondRealSeconds is how many real seconds one game second lasts at
// the "Faster" game speed.
const GameSecondRealSeconds = 0.714

// RealMinutes converts a game timestamp to elapsed real-world minutes.
func RealMinutes(second int) float64 {
	return float64(second) * GameSecondRealSeconds / 60
}

// GameToRealMinutes converts every timestamp of an axis.
func GameToRealMinutes(seconds []int) []float64 {
	out := make([]float64, len(seconds))
	for i, s := range seconds {
		out[i] = RealMinutes(s)
	}
	return out
}
