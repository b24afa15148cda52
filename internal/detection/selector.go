package detection

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/ironsheep/clockread/internal/imaging"
)

const (
	// HandCount is the number of hands a reading needs.
	HandCount = 3

	// MinSeparationDeg is the smallest angle allowed between two selected hands.
	MinSeparationDeg = 30.0
)

// ErrDetection is returned when the image does not contain enough separated hands.
var ErrDetection = errors.New("not enough separated clock hands")

// Hand is one selected clock hand.
type Hand struct {
	Label    string        `json:"label"`
	Origin   imaging.Point `json:"origin"`
	AngleDeg float64       `json:"angle_deg"`
	LengthPx int           `json:"length_px"`
	Score    int           `json:"score"`
}

// Tip returns the end point of the hand.
func (h Hand) Tip() imaging.Point {
	return imaging.PolarToCartesian(h.AngleDeg, h.LengthPx, h.Origin, imaging.DialOffsetDeg)
}

// SelectBestHands picks up to maxHands candidates that are pairwise at least
// minSeparationDeg apart.
//
// Candidates are ranked by score, highest first; equal scores keep scan order.
// A candidate is accepted if the plain difference between its angle and every
// accepted angle is >= minSeparationDeg. The difference is not taken around the
// circle, matching the linear angle domain of the scan. Candidates that matched
// no pixels are never accepted. Hands are labelled "1 hand", "2 hand", ... in
// acceptance order.
//
// If fewer than maxHands can be accepted, the error wraps ErrDetection.
func SelectBestHands(candidates []MatchCandidate, minSeparationDeg float64, maxHands int) ([]Hand, error) {
	ranked := make([]MatchCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	hands := make([]Hand, 0, maxHands)
	for _, c := range ranked {
		if len(hands) >= maxHands || c.Score == 0 {
			break
		}
		if !separated(c.AngleDeg, hands, minSeparationDeg) {
			continue
		}
		hands = append(hands, Hand{
			Label:    fmt.Sprintf("%d hand", len(hands)+1),
			Origin:   c.Origin,
			AngleDeg: c.AngleDeg,
			LengthPx: c.Reach,
			Score:    c.Score,
		})
	}

	if len(hands) < maxHands {
		return nil, fmt.Errorf("%w: found %d of %d", ErrDetection, len(hands), maxHands)
	}
	return hands, nil
}

func separated(angle float64, hands []Hand, minSeparationDeg float64) bool {
	for _, h := range hands {
		if math.Abs(angle-h.AngleDeg) < minSeparationDeg {
			return false
		}
	}
	return true
}
