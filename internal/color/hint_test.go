package color

import (
	"errors"
	"testing"
)

func TestHintLightness(t *testing.T) {
	tests := []struct {
		target, guess Hex
		want          string
	}{
		{"#ffffff", "#000000", Lighter},
		{"#000000", "#ffffff", Darker},
		{"#808080", "#808080", Match},
		{"#808080", "#818181", Match},
	}
	for _, tc := range tests {
		got, err := Hint(tc.target, tc.guess)
		if err != nil {
			t.Fatalf("Hint(%q,%q): %v", tc.target, tc.guess, err)
		}
		if got.Lightness != tc.want {
			t.Fatalf("Hint(%q,%q).Lightness=%q want %q", tc.target, tc.guess, got.Lightness, tc.want)
		}
	}
}

func TestHintPerceptual(t *testing.T) {
	same, err := Hint("#3366cc", "#3366cc")
	if err != nil {
		t.Fatal(err)
	}
	if same.Perceptual != 0 {
		t.Fatalf("identical colors perceptual=%v want 0", same.Perceptual)
	}
	near, _ := Hint("#3366cc", "#3366cd")
	far, _ := Hint("#3366cc", "#ffcc00")
	if !(near.Perceptual < far.Perceptual) {
		t.Fatalf("near=%v should be below far=%v", near.Perceptual, far.Perceptual)
	}
}

func TestHintPropagatesCodecErrors(t *testing.T) {
	if _, err := Hint("#fff", "#000000"); !errors.Is(err, ErrMalformedLength) {
		t.Fatalf("err=%v", err)
	}
}
