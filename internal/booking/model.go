package booking

import (
	"time"

	"fitstudio/internal/ledger"
)

const (
	StatusBooked    = "booked"
	StatusCancelled = "cancelled"
)

// Enrollment is a member's seat in a time slot. Instrument and
// AmountCharged record how the booking was paid for at book time; the
// refund path reads them back instead of re-pricing.
type Enrollment struct {
	ID            int               `db:"id" json:"id"`
	TimeSlotID    int               `db:"time_slot_id" json:"time_slot_id"`
	UserID        int               `db:"user_id" json:"user_id"`
	Instrument    ledger.Instrument `db:"instrument" json:"instrument"`
	AmountCharged int64             `db:"amount_charged" json:"amount_charged"`
	Status        string            `db:"status" json:"status"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
	CancelledAt   *time.Time        `db:"cancelled_at" json:"cancelled_at,omitempty"`
}

// Addition is a market item attached to an enrollment (gloves, a drink).
// Item name and price are denormalized so the record survives later item
// edits and deletions.
type Addition struct {
	ID           int       `db:"id" json:"id"`
	EnrollmentID int       `db:"enrollment_id" json:"enrollment_id"`
	ItemID       int       `db:"item_id" json:"item_id"`
	ItemName     string    `db:"item_name" json:"item_name"`
	PriceCredits int64     `db:"price_credits" json:"price_credits"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type EnrollmentWithDetails struct {
	Enrollment
	ActivityName string    `db:"activity_name" json:"activity_name"`
	CoachName    string    `db:"coach_name" json:"coach_name"`
	StartTime    time.Time `db:"start_time" json:"start_time"`
	EndTime      time.Time `db:"end_time" json:"end_time"`
	UserName     string    `db:"user_name" json:"user_name"`
	UserEmail    string    `db:"user_email" json:"user_email"`
}

type BookRequest struct {
	TimeSlotID int `json:"time_slot_id" binding:"required"`
}

type AdminBookRequest struct {
	UserID     int `json:"user_id" binding:"required"`
	TimeSlotID int `json:"time_slot_id" binding:"required"`
}

type AdditionRequest struct {
	ItemIDs []int `json:"item_ids" binding:"required,min=1,dive,min=1"`
}

type BookingResponse struct {
	Enrollment Enrollment     `json:"enrollment"`
	Balance    ledger.Balance `json:"balance"`
}

type AdditionResponse struct {
	Additions     []Addition     `json:"additions"`
	AmountCharged int64          `json:"amount_charged"`
	Balance       ledger.Balance `json:"balance"`
}

type StatsByDay struct {
	Bucket     string `db:"bucket" json:"bucket"`
	Bookings   int    `db:"bookings" json:"bookings"`
	Cancelled  int    `db:"cancelled" json:"cancelled"`
	TokenPaid  int    `db:"token_paid" json:"token_paid"`
	CreditPaid int    `db:"credit_paid" json:"credit_paid"`
}

type StatsByActivity struct {
	ActivityID   int    `db:"activity_id" json:"activity_id"`
	ActivityName string `db:"activity_name" json:"activity_name"`
	Bookings     int    `db:"bookings" json:"bookings"`
	Cancelled    int    `db:"cancelled" json:"cancelled"`
	CreditsPaid  int64  `db:"credits_paid" json:"credits_paid"`
}
