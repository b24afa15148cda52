package detection

import (
	"fmt"
	"sort"

	"github.com/ironsheep/clockread/internal/clock"
)

// AssignRoles decides which of three selected hands is the hour, minute and
// second hand.
//
// The shortest hand is the hour hand and the longest is the second hand. Hands
// of equal length keep the selector's order, so the stronger match is treated
// as the longer hand.
func AssignRoles(hands []Hand) (hour, minute, second Hand, err error) {
	if len(hands) != HandCount {
		return Hand{}, Hand{}, Hand{}, fmt.Errorf("%w: need %d hands to assign roles, got %d",
			ErrDetection, HandCount, len(hands))
	}

	byLength := []Hand{hands[2], hands[1], hands[0]}
	sort.SliceStable(byLength, func(i, j int) bool {
		return byLength[i].LengthPx < byLength[j].LengthPx
	})
	return byLength[0], byLength[1], byLength[2], nil
}

// HandsToTime converts the angles of hands already assigned to their roles.
func HandsToTime(hour, minute, second Hand) clock.Time {
	return clock.FromAngles(hour.AngleDeg, minute.AngleDeg, second.AngleDeg)
}
