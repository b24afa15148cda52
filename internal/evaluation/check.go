package evaluation

import (
	"math"

	"github.com/ironsheep/clockread/internal/clock"
)

// CheckResult compares a detected time with the ground truth.
//
// The error is the distance between the two times on a 12-hour dial, in
// seconds, rounded to one decimal. The reading succeeds when the rounded error
// is at most thresholdSeconds.
func CheckResult(expected, detected clock.Time, thresholdSeconds float64) (float64, bool) {
	delta := clock.DialDistance(expected, detected).Seconds()
	delta = math.Round(delta*10) / 10
	return delta, delta <= thresholdSeconds
}
