package detection

import (
	"errors"
	"image/color"
	"testing"
)

func TestAssignRoles(t *testing.T) {
	hands := []Hand{
		{Label: "1 hand", AngleDeg: 0, LengthPx: 180},
		{Label: "2 hand", AngleDeg: 180, LengthPx: 140},
		{Label: "3 hand", AngleDeg: 90, LengthPx: 90},
	}

	hour, minute, second, err := AssignRoles(hands)
	if err != nil {
		t.Fatalf("AssignRoles failed: %v", err)
	}
	if hour.AngleDeg != 90 || minute.AngleDeg != 180 || second.AngleDeg != 0 {
		t.Errorf("roles = hour %v, minute %v, second %v", hour.AngleDeg, minute.AngleDeg, second.AngleDeg)
	}

	// Input order is irrelevant
	reversed := []Hand{hands[2], hands[0], hands[1]}
	h2, m2, s2, err := AssignRoles(reversed)
	if err != nil {
		t.Fatalf("AssignRoles failed: %v", err)
	}
	if h2 != hour || m2 != minute || s2 != second {
		t.Errorf("roles depend on input order")
	}
}

func TestAssignRoles_EqualLengths(t *testing.T) {
	hands := []Hand{
		{Label: "1 hand", AngleDeg: 10, LengthPx: 100, Score: 90},
		{Label: "2 hand", AngleDeg: 100, LengthPx: 100, Score: 80},
		{Label: "3 hand", AngleDeg: 200, LengthPx: 100, Score: 70},
	}

	hour, minute, second, err := AssignRoles(hands)
	if err != nil {
		t.Fatalf("AssignRoles failed: %v", err)
	}
	// The strongest match is treated as the longest hand.
	if second.Label != "1 hand" || minute.Label != "2 hand" || hour.Label != "3 hand" {
		t.Errorf("roles = %s/%s/%s", hour.Label, minute.Label, second.Label)
	}
}

func TestAssignRoles_WrongCount(t *testing.T) {
	for _, n := range []int{0, 2, 4} {
		_, _, _, err := AssignRoles(make([]Hand, n))
		if !errors.Is(err, ErrDetection) {
			t.Errorf("%d hands: expected ErrDetection, got %v", n, err)
		}
	}
}

func TestHandsToTime(t *testing.T) {
	tests := []struct {
		name                 string
		hour, minute, second float64
		want                 string
	}{
		{"three thirty", 90, 180, 0, "03:30:00.000"},
		{"noon", 0, 0, 0, "00:00:00.000"},
		{"fractional second", 300, 270, 93, "10:45:15.500"},
		{"full turn", 360, 360, 360, "00:00:00.000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HandsToTime(Hand{AngleDeg: tt.hour}, Hand{AngleDeg: tt.minute}, Hand{AngleDeg: tt.second})
			if got.String() != tt.want {
				t.Errorf("HandsToTime = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestReadSilhouette(t *testing.T) {
	img := createClockSilhouette(400, 400, testCenter, threeHands...)

	hands, err := SelectBestHands(FindLine(img, testCenter, 1, 10, 190, color.White), MinSeparationDeg, HandCount)
	if err != nil {
		t.Fatalf("SelectBestHands failed: %v", err)
	}
	hour, minute, second, err := AssignRoles(hands)
	if err != nil {
		t.Fatalf("AssignRoles failed: %v", err)
	}
	if got := HandsToTime(hour, minute, second).String(); got != "03:30:00.000" {
		t.Errorf("read %s, want 03:30:00.000", got)
	}
}
