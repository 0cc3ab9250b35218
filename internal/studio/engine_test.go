package studio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupSlot(capacity int) TimeSlot {
	return TimeSlot{ID: 1, Kind: KindGroup, Capacity: capacity}
}

func individualSlot() TimeSlot {
	return TimeSlot{ID: 2, Kind: KindIndividual, Capacity: 1}
}

func TestClaimSeatIndividual(t *testing.T) {
	t.Run("empty slot is claimable", func(t *testing.T) {
		next, err := ClaimSeat(individualSlot(), nil, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, next.BookedCount)
		assert.True(t, next.Booked)
	})

	t.Run("occupied slot refuses another user", func(t *testing.T) {
		_, err := ClaimSeat(individualSlot(), []int{10}, 11)
		assert.ErrorIs(t, err, ErrSlotUnavailable)
	})

	t.Run("occupant rebooking is already-enrolled", func(t *testing.T) {
		_, err := ClaimSeat(individualSlot(), []int{10}, 10)
		assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	})
}

func TestClaimSeatGroup(t *testing.T) {
	t.Run("fills up to capacity", func(t *testing.T) {
		slot := groupSlot(3)
		var enrolled []int
		for _, uid := range []int{10, 11, 12} {
			next, err := ClaimSeat(slot, enrolled, uid)
			require.NoError(t, err)
			enrolled = append(enrolled, uid)
			slot = next
			assert.Equal(t, len(enrolled), slot.BookedCount)
			assert.Equal(t, len(enrolled) == 3, slot.Booked)
		}
	})

	t.Run("full slot refuses", func(t *testing.T) {
		_, err := ClaimSeat(groupSlot(2), []int{10, 11}, 12)
		assert.ErrorIs(t, err, ErrSlotFull)
	})

	t.Run("duplicate enrollment refused before capacity check", func(t *testing.T) {
		_, err := ClaimSeat(groupSlot(2), []int{10, 11}, 10)
		assert.ErrorIs(t, err, ErrAlreadyEnrolled)
	})

	t.Run("roster is authoritative over stale counter", func(t *testing.T) {
		slot := groupSlot(2)
		slot.BookedCount = 0 // stale
		_, err := ClaimSeat(slot, []int{10, 11}, 12)
		assert.ErrorIs(t, err, ErrSlotFull)
	})
}

func TestReleaseSeat(t *testing.T) {
	t.Run("frees a seat and recomputes booked", func(t *testing.T) {
		slot := groupSlot(2)
		slot.BookedCount = 2
		slot.Booked = true

		next, err := ReleaseSeat(slot, []int{10, 11}, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, next.BookedCount)
		assert.False(t, next.Booked)
	})

	t.Run("refuses a user who is not enrolled", func(t *testing.T) {
		slot := groupSlot(2)
		slot.BookedCount = 1

		_, err := ReleaseSeat(slot, []int{10}, 99)
		assert.ErrorIs(t, err, ErrNotEnrolled)
	})

	t.Run("individual slot clears to unbooked", func(t *testing.T) {
		slot := individualSlot()
		slot.BookedCount = 1
		slot.Booked = true

		next, err := ReleaseSeat(slot, []int{10}, 10)
		require.NoError(t, err)
		assert.Equal(t, 0, next.BookedCount)
		assert.False(t, next.Booked)
	})
}

func TestClaimThenReleaseIsIdentity(t *testing.T) {
	slot := groupSlot(4)
	slot.BookedCount = 2

	claimed, err := ClaimSeat(slot, []int{10, 11}, 12)
	require.NoError(t, err)

	released, err := ReleaseSeat(claimed, []int{10, 11, 12}, 12)
	require.NoError(t, err)
	assert.Equal(t, slot.BookedCount, released.BookedCount)
	assert.Equal(t, slot.Booked, released.Booked)
}

func TestActivityKind(t *testing.T) {
	assert.Equal(t, KindIndividual, Activity{Capacity: 0}.Kind())
	assert.Equal(t, KindGroup, Activity{Capacity: 8}.Kind())
	assert.Equal(t, 1, Activity{Capacity: 0}.SeatCapacity())
	assert.Equal(t, 8, Activity{Capacity: 8}.SeatCapacity())
}
