// internal/color/similarity.go
//
// Similarity scoring between a target and a guessed color.
//
// The score is the Euclidean distance in RGB space normalized by the length
// of the cube diagonal (black to white) and expressed as a percentage:
//
//	score = round2(((maxDistance - d) / maxDistance) * 100)
//
// Rounding is half away from zero (math.Round), applied to two decimals.
package color

import "math"

// maxDistance is the distance between #000000 and #ffffff, sqrt(3*255^2).
var maxDistance = math.Sqrt(3 * 255 * 255)

// MaxDistance returns the length of the RGB cube diagonal that normalizes scores.
func MaxDistance() float64 { return maxDistance }

// Distance returns the Euclidean distance between a and b.
func Distance(a, b RGB) float64 {
	dr, dg, db := a.R-b.R, a.G-b.G, a.B-b.B
	return math.Sqrt(float64(dr*dr + dg*dg + db*db))
}

// Similarity scores guess against target in [0, 100], rounded to 2 decimals.
// Identical colors score exactly 100; black against white scores exactly 0.
// Codec errors from either side are returned unchanged.
func Similarity(target, guess Hex) (float64, error) {
	t, err := Decode(target)
	if err != nil {
		return 0, err
	}
	g, err := Decode(guess)
	if err != nil {
		return 0, err
	}
	return Score(t, g), nil
}

// Score is Similarity over already decoded triples.
func Score(target, guess RGB) float64 {
	d := Distance(target, guess)
	return Round2(((maxDistance - d) / maxDistance) * 100)
}

// Round2 rounds x to two decimal places, halves away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
