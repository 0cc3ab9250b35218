package studio

import "errors"

var (
	ErrSlotUnavailable = errors.New("slot already booked")
	ErrSlotFull        = errors.New("slot is full")
	ErrAlreadyEnrolled = errors.New("user already enrolled in this slot")
	ErrNotEnrolled     = errors.New("user not enrolled in this slot")
)

// ClaimSeat decides whether userID may take a seat and computes the slot's
// next state. enrolled is the slot's current active roster; it, not the
// stored counter, is authoritative for the capacity check. The caller must
// hold the slot row lock and commit the returned state in the same
// transaction as the charge, otherwise two racing requests can both claim
// the last seat.
func ClaimSeat(slot TimeSlot, enrolled []int, userID int) (TimeSlot, error) {
	for _, id := range enrolled {
		if id == userID {
			return slot, ErrAlreadyEnrolled
		}
	}

	if len(enrolled) >= slot.Capacity {
		if slot.Kind == KindIndividual {
			return slot, ErrSlotUnavailable
		}
		return slot, ErrSlotFull
	}

	slot.BookedCount = len(enrolled) + 1
	slot.Booked = slot.BookedCount == slot.Capacity
	return slot, nil
}

// ReleaseSeat frees userID's seat and computes the slot's next state.
// Booked is recomputed rather than assumed false so the invariant holds
// even in batch-removal paths.
func ReleaseSeat(slot TimeSlot, enrolled []int, userID int) (TimeSlot, error) {
	found := false
	for _, id := range enrolled {
		if id == userID {
			found = true
			break
		}
	}
	if !found {
		return slot, ErrNotEnrolled
	}

	slot.BookedCount = len(enrolled) - 1
	slot.Booked = slot.BookedCount == slot.Capacity
	return slot, nil
}
