package entitlements

// SeatUsage reports an organization's seat consumption against the seat
// limit snapshotted on its live purchase.
type SeatUsage struct {
	SeatLimit      int  `json:"seat_limit"`
	SeatsUsed      int  `json:"seats_used"`
	SeatsRemaining int  `json:"seats_remaining"`
	Allowed        bool `json:"allowed"`
}

// NewSeatUsage computes the usage summary. Allowed reports whether one more
// seat-consuming member fits under the limit.
func NewSeatUsage(seatLimit, seatsUsed int) SeatUsage {
	if seatsUsed < 0 {
		seatsUsed = 0
	}
	remaining := seatLimit - seatsUsed
	if remaining < 0 {
		remaining = 0
	}
	return SeatUsage{
		SeatLimit:      seatLimit,
		SeatsUsed:      seatsUsed,
		SeatsRemaining: remaining,
		Allowed:        CanAssignSeat(seatLimit, seatsUsed),
	}
}

// CanAssignSeat reports whether assigning one more seat stays within the
// limit.
func CanAssignSeat(seatLimit, seatsUsed int) bool {
	return seatsUsed < seatLimit
}
