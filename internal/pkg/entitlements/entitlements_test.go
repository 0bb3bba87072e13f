package entitlements

import "testing"

func TestCanAssignSeat(t *testing.T) {
	tests := []struct {
		limit int
		used  int
		want  bool
	}{
		{limit: 5, used: 0, want: true},
		{limit: 5, used: 4, want: true},
		{limit: 5, used: 5, want: false},
		{limit: 5, used: 6, want: false},
		{limit: 0, used: 0, want: false},
	}

	for _, tt := range tests {
		if got := CanAssignSeat(tt.limit, tt.used); got != tt.want {
			t.Fatalf("CanAssignSeat(%d, %d) = %v, want %v", tt.limit, tt.used, got, tt.want)
		}
	}
}

func TestNewSeatUsage(t *testing.T) {
	usage := NewSeatUsage(10, 7)
	if usage.SeatsRemaining != 3 || !usage.Allowed {
		t.Fatalf("unexpected usage: %+v", usage)
	}

	full := NewSeatUsage(10, 10)
	if full.SeatsRemaining != 0 || full.Allowed {
		t.Fatalf("unexpected usage at limit: %+v", full)
	}

	over := NewSeatUsage(10, 15)
	if over.SeatsRemaining != 0 || over.Allowed {
		t.Fatalf("unexpected usage over limit: %+v", over)
	}

	negative := NewSeatUsage(10, -2)
	if negative.SeatsUsed != 0 || !negative.Allowed {
		t.Fatalf("unexpected usage with negative input: %+v", negative)
	}
}
