package booking

import "testing"

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusScheduled, StatusCompleted, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusScheduled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusScheduled, false},
		{StatusCancelled, StatusCompleted, false},
		{StatusCancelled, StatusScheduled, false},
	}

	for _, tc := range cases {
		b := &Booking{Status: tc.from}
		if got := b.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
