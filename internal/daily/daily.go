package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"time"

	"github.com/robalobadob/colortrainer/internal/color"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Target returns the color of the day: HMAC(salt, YYYY-MM-DD), first three
// bytes as R, G, B.
func Target(date time.Time, salt string) color.Hex {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	return color.FromBytes(sum[0], sum[1], sum[2])
}
