package color

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Lightness verdicts reported by Hint.
const (
	Lighter = "lighter"
	Darker  = "darker"
	Match   = "match"
)

// lightnessTolerance is the L* band (0..100 scale) treated as a match.
const lightnessTolerance = 2.0

// HintResult is coaching feedback shown next to a score. It never changes
// the score itself.
type HintResult struct {
	// Lightness says which way the guess should move: "lighter", "darker" or "match".
	Lightness string `json:"lightness"`
	// Perceptual is the CIEDE2000 delta between the colors, scaled to 0..100.
	Perceptual float64 `json:"perceptual"`
}

// Hint compares target and guess in CIE L*a*b*.
func Hint(target, guess Hex) (HintResult, error) {
	t, err := Decode(target)
	if err != nil {
		return HintResult{}, err
	}
	g, err := Decode(guess)
	if err != nil {
		return HintResult{}, err
	}
	tc, gc := toColorful(t), toColorful(g)
	tl, _, _ := tc.Lab()
	gl, _, _ := gc.Lab()

	res := HintResult{
		Lightness:  Match,
		Perceptual: Round2(tc.DistanceCIEDE2000(gc) * 100),
	}
	switch diff := (tl - gl) * 100; {
	case math.Abs(diff) <= lightnessTolerance:
	case diff > 0:
		res.Lightness = Lighter
	default:
		res.Lightness = Darker
	}
	return res, nil
}

func toColorful(c RGB) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
