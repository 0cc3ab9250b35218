package studio

import "time"

// SlotKind distinguishes one-occupant sessions from capacity-bounded
// group classes. All booking paths branch on this tag instead of
// duplicating per-kind code.
type SlotKind string

const (
	KindIndividual SlotKind = "individual"
	KindGroup      SlotKind = "group"
)

// Activity is reference data: immutable during a booking.
// Capacity 0 means an individual (one-on-one) activity.
type Activity struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Credits     int64     `db:"credits" json:"credits"`
	Capacity    int       `db:"capacity" json:"capacity"`
	SemiPrivate bool      `db:"semi_private" json:"semi_private"`
	WorkoutDay  bool      `db:"workout_day" json:"workout_day"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func (a Activity) Kind() SlotKind {
	if a.Capacity > 0 {
		return KindGroup
	}
	return KindIndividual
}

// SeatCapacity is the slot capacity an activity provisions: group classes
// use their configured capacity, individual sessions always one seat.
func (a Activity) SeatCapacity() int {
	if a.Capacity > 0 {
		return a.Capacity
	}
	return 1
}

type Coach struct {
	ID         int       `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	PictureURL *string   `db:"picture_url" json:"picture_url,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// TimeSlot is a bookable (activity, coach, start, end) unit.
// BookedCount always equals the number of active enrollments for the slot;
// Booked is derived from it, never set independently.
type TimeSlot struct {
	ID          int       `db:"id" json:"id"`
	ActivityID  int       `db:"activity_id" json:"activity_id"`
	CoachID     int       `db:"coach_id" json:"coach_id"`
	Kind        SlotKind  `db:"kind" json:"kind"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	Capacity    int       `db:"capacity" json:"capacity"`
	BookedCount int       `db:"booked_count" json:"booked_count"`
	Booked      bool      `db:"booked" json:"booked"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type TimeSlotWithDetails struct {
	TimeSlot
	ActivityName string `db:"activity_name" json:"activity_name"`
	Credits      int64  `db:"credits" json:"credits"`
	CoachName    string `db:"coach_name" json:"coach_name"`
	Available    int    `json:"available"`
}

type CreateActivityRequest struct {
	Name        string `json:"name" binding:"required"`
	Credits     int64  `json:"credits" binding:"min=0"`
	Capacity    int    `json:"capacity" binding:"min=0"`
	SemiPrivate bool   `json:"semi_private"`
	WorkoutDay  bool   `json:"workout_day"`
}

type CreateCoachRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type CreateTimeSlotRequest struct {
	ActivityID int    `json:"activity_id" binding:"required"`
	CoachID    int    `json:"coach_id" binding:"required"`
	StartTime  string `json:"start_time" binding:"required"`
	EndTime    string `json:"end_time" binding:"required"`
}

// ProvisionTimeSlotsRequest repeats the same daily slot over a date range,
// the bulk form admins use to lay out a week's schedule.
type ProvisionTimeSlotsRequest struct {
	ActivityID int    `json:"activity_id" binding:"required"`
	CoachID    int    `json:"coach_id" binding:"required"`
	FirstStart string `json:"first_start" binding:"required"`
	FirstEnd   string `json:"first_end" binding:"required"`
	Days       int    `json:"days" binding:"required,min=1,max=90"`
}
